package meta

import (
	"strings"

	"github.com/LinuxEntrepreneur/pentaho-mongodb-plugin/pkg/vars"
)

// DocPath is a compiled document path: an immutable segment sequence paired
// with a per-row traversal cursor.
//
// Compile once per mapping (after variable substitution), then call Begin at
// the start of every row before consuming segments. The cursor is plain
// position state; failing to call Begin before a new row leaves the cursor
// wherever the previous row's consumption stopped. That is a contract
// violation by the caller, not something DocPath detects.
type DocPath struct {
	segments []string
	pos      int
}

// CompileDocPath splits a dot separated path into its segments after
// substituting variables from sp. Splitting is on the literal '.' character
// with no escaping, so a segment cannot itself contain a dot. An empty or
// blank path compiles to zero segments.
func CompileDocPath(raw string, sp *vars.Space) *DocPath {
	path := strings.TrimSpace(sp.Substitute(raw))

	p := &DocPath{}
	if path != "" {
		p.segments = strings.Split(path, ".")
	}
	return p
}

// Begin rewinds the cursor to the first segment. Must be called once per row
// before any Peek or Advance for that row.
func (p *DocPath) Begin() {
	p.pos = 0
}

// Peek returns the segment at the cursor without consuming it.
func (p *DocPath) Peek() (string, bool) {
	if p.pos >= len(p.segments) {
		return "", false
	}
	return p.segments[p.pos], true
}

// Advance consumes and returns the segment at the cursor.
func (p *DocPath) Advance() (string, bool) {
	if p.pos >= len(p.segments) {
		return "", false
	}
	s := p.segments[p.pos]
	p.pos++
	return s, true
}

// Remaining reports how many segments have not been consumed this row.
func (p *DocPath) Remaining() int {
	return len(p.segments) - p.pos
}

// Len reports the total number of compiled segments.
func (p *DocPath) Len() int {
	return len(p.segments)
}

// Segments returns a copy of the compiled segment sequence.
func (p *DocPath) Segments() []string {
	out := make([]string, len(p.segments))
	copy(out, p.segments)
	return out
}

// Dotted returns the unconsumed part of the path in dot notation.
func (p *DocPath) Dotted() string {
	return strings.Join(p.segments[p.pos:], ".")
}
