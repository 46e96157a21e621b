package meta

import (
	"github.com/LinuxEntrepreneur/pentaho-mongodb-plugin/pkg/errors"
	"github.com/LinuxEntrepreneur/pentaho-mongodb-plugin/pkg/vars"
)

// Operator is a modifier-update operator applied to a single document path.
// The string values are the persisted tokens and must not change.
type Operator string

const (
	// OperatorNone marks a field that is part of a whole-document body
	// rather than a modifier operation
	OperatorNone Operator = "N/A"
	// OperatorSet overwrites the value at the path
	OperatorSet Operator = "$set"
	// OperatorInc adds a numeric value at the path
	OperatorInc Operator = "$inc"
	// OperatorPush appends to an array at the path, creating it as [value]
	// if absent. Missing intermediate array ancestors are not created.
	OperatorPush Operator = "$push"
)

// ParseOperator maps a persisted token to an Operator. An empty token means
// OperatorNone.
func ParseOperator(s string) (Operator, error) {
	switch Operator(s) {
	case "", OperatorNone:
		return OperatorNone, nil
	case OperatorSet:
		return OperatorSet, nil
	case OperatorInc:
		return OperatorInc, nil
	case OperatorPush:
		return OperatorPush, nil
	}
	return OperatorNone, errors.Newf(errors.ErrorTypeParse, "unknown modifier operation %q", s)
}

// ApplyPolicy gates which half of an upsert a modifier operation participates
// in. The string values are the persisted tokens and must not change.
type ApplyPolicy string

const (
	// ApplyInsertOnly applies the operation only when the match query found
	// no document (the insert branch)
	ApplyInsertOnly ApplyPolicy = "Insert"
	// ApplyUpdateOnly applies the operation only when a document matched
	ApplyUpdateOnly ApplyPolicy = "Update"
	// ApplyInsertAndUpdate applies the operation on both branches
	ApplyInsertAndUpdate ApplyPolicy = "Insert&Update"
)

// ParseApplyPolicy maps a persisted token to an ApplyPolicy. An empty token
// means ApplyInsertAndUpdate.
func ParseApplyPolicy(s string) (ApplyPolicy, error) {
	switch ApplyPolicy(s) {
	case "", ApplyInsertAndUpdate:
		return ApplyInsertAndUpdate, nil
	case ApplyInsertOnly:
		return ApplyInsertOnly, nil
	case ApplyUpdateOnly:
		return ApplyUpdateOnly, nil
	}
	return ApplyInsertAndUpdate, errors.Newf(errors.ErrorTypeParse, "unknown modifier policy %q", s)
}

// AppliesOnInsert reports whether the policy includes the insert branch.
func (p ApplyPolicy) AppliesOnInsert() bool {
	return p == ApplyInsertOnly || p == ApplyInsertAndUpdate || p == ""
}

// AppliesOnUpdate reports whether the policy includes the update branch.
func (p ApplyPolicy) AppliesOnUpdate() bool {
	return p == ApplyUpdateOnly || p == ApplyInsertAndUpdate || p == ""
}

// MongoField declares how one incoming row value lands in the target
// document.
//
// In modifier-update mode only Operator and Policy decide how the value is
// written; in every other mode the field simply contributes to the whole
// document body and Operator is ignored by all consumers.
//
// A note on $push with Insert&Update: $push creates the terminal array if it
// is missing but never creates a missing intermediate array ancestor. A
// document whose structure grows across multiple rows therefore needs two
// entries for such a path: an insert-only $set that seeds the intermediate
// structure and an update-only $push that appends to it. Combining both in a
// single entry conflicts because one write would mutate the same array
// twice. This is a documented limitation carried through as declared; it is
// not validated here.
type MongoField struct {
	// IncomingName is the name of the incoming row value
	IncomingName string

	// DocPath is the dot separated path to the document field. Variables
	// may appear and are substituted at Init time.
	DocPath string

	// UseIncomingName makes the incoming value name the terminal key
	// instead of a literal path suffix
	UseIncomingName bool

	// MatchKey includes this field in the upsert match query instead of
	// the update body
	MatchKey bool

	// Operator is the modifier-update operation for this field
	Operator Operator

	// Policy gates which upsert branch the operation applies on
	Policy ApplyPolicy

	// JSONFragment marks the incoming value as a pre-formed JSON document
	// fragment to be spliced in at DocPath rather than a scalar
	JSONFragment bool

	path *DocPath
}

// NewMongoField creates a field with the documented defaults.
func NewMongoField() MongoField {
	return MongoField{
		Operator: OperatorNone,
		Policy:   ApplyInsertAndUpdate,
	}
}

// Init compiles the document path after variable substitution. Call exactly
// once per field before any row is processed.
func (f *MongoField) Init(sp *vars.Space) {
	f.path = CompileDocPath(f.DocPath, sp)
}

// Reset rewinds the path cursor for a new row. Must be called for every
// field at the start of every row.
func (f *MongoField) Reset() {
	if f.path != nil {
		f.path.Begin()
	}
}

// Path returns the compiled path, or nil before Init.
func (f *MongoField) Path() *DocPath {
	return f.path
}

// Inert reports whether the field can never produce a document key: the
// terminal key is not taken from the incoming name and the substituted path
// has no segments.
func (f *MongoField) Inert() bool {
	return !f.UseIncomingName && f.path != nil && f.path.Len() == 0
}

// Copy returns a copy of the declaration without compiled path state.
func (f *MongoField) Copy() MongoField {
	c := *f
	c.path = nil
	return c
}
