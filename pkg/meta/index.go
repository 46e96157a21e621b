package meta

import (
	"fmt"
	"strings"

	"github.com/LinuxEntrepreneur/pentaho-mongodb-plugin/pkg/errors"
)

// IndexDirection is the sort direction of one indexed field.
type IndexDirection int

const (
	// IndexAscending sorts the indexed field ascending
	IndexAscending IndexDirection = 1
	// IndexDescending sorts the indexed field descending
	IndexDescending IndexDirection = -1
)

// IndexField is one parsed term of an index field spec.
type IndexField struct {
	// Path is the dot notation path; it may name an entire embedded
	// document rather than a primitive key
	Path string
	// Direction is 1 or -1
	Direction IndexDirection
}

// MongoIndex declares one index to create or drop on the target collection.
// No cross-check against the row schema is performed; the declaration is
// carried through as-is to the index management collaborator.
type MongoIndex struct {
	// FieldSpec is a comma separated list of path[:direction] terms.
	// Direction defaults to 1 when omitted.
	FieldSpec string

	// Drop removes the index instead of creating it
	Drop bool

	Unique bool
	Sparse bool
}

// ParseFields parses the field spec grammar: term (',' term)*, where
// term := path (':' direction)? and direction is 1 or -1.
func (mi *MongoIndex) ParseFields() ([]IndexField, error) {
	var out []IndexField

	for _, term := range strings.Split(mi.FieldSpec, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}

		field := IndexField{Direction: IndexAscending}
		if i := strings.LastIndexByte(term, ':'); i >= 0 {
			switch strings.TrimSpace(term[i+1:]) {
			case "1":
				field.Direction = IndexAscending
			case "-1":
				field.Direction = IndexDescending
			default:
				return nil, errors.Newf(errors.ErrorTypeParse,
					"bad index direction in term %q (want 1 or -1)", term)
			}
			term = strings.TrimSpace(term[:i])
		}
		if term == "" {
			return nil, errors.Newf(errors.ErrorTypeParse, "empty path in index field spec %q", mi.FieldSpec)
		}
		field.Path = term

		out = append(out, field)
	}

	return out, nil
}

// String renders the index the way the step dialog displays it.
func (mi *MongoIndex) String() string {
	return fmt.Sprintf("%s (unique = %t sparse = %t)", mi.FieldSpec, mi.Unique, mi.Sparse)
}
