// Package vars provides variable substitution for configuration values.
//
// Step options such as the document paths, batch size and timeouts may
// reference variables using ${NAME} syntax. Substitution happens against an
// explicit Space rather than ambient process state so that parallel step
// copies and tests control exactly what resolves. References that do not
// resolve are left intact; numeric option parsing then falls back to its
// documented default.
package vars

import (
	"os"
	"strings"
)

// Space holds named variable values for substitution.
type Space struct {
	values map[string]string
}

// New creates an empty substitution space.
func New() *Space {
	return &Space{values: make(map[string]string)}
}

// Environ creates a space seeded from the process environment.
func Environ() *Space {
	s := New()
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i > 0 {
			s.values[kv[:i]] = kv[i+1:]
		}
	}
	return s
}

// Set assigns a variable value.
func (s *Space) Set(name, value string) {
	s.values[name] = value
}

// Get looks up a variable value.
func (s *Space) Get(name string) (string, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Substitute replaces every resolvable ${NAME} reference in content.
// Unresolvable references are left as-is. A nil Space substitutes nothing.
func (s *Space) Substitute(content string) string {
	if s == nil || len(s.values) == 0 || !strings.Contains(content, "${") {
		return content
	}

	var b strings.Builder
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		name := content[start+2 : end]
		b.WriteString(content[:start])
		if value, ok := s.values[name]; ok {
			b.WriteString(value)
		} else {
			b.WriteString(content[start : end+1])
		}
		content = content[end+1:]
	}
	b.WriteString(content)
	return b.String()
}
