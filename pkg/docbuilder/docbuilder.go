// Package docbuilder assembles MongoDB documents from flat input rows using
// the field mappings of a step aggregate.
//
// A Builder is owned by exactly one step copy (one aggregate clone) and
// processes rows strictly sequentially. Every build call rewinds the path
// cursors of the mappings it consumes before traversing them, so one row may
// build its match query, its body and both modifier branches in any order
// and combination. BeginRow marks the row boundary and rewinds every cursor,
// including those of mappings the row's build calls never touch.
//
// Known limitation, carried through from the step's declared semantics: a
// $push paired with a $set under Insert&Update against the same array
// conflicts within one write, because both mutate the identical path. The
// supported idiom is two mappings, an insert-only $set seeding the
// structure and an update-only $push appending to it. The builder does not
// validate this.
package docbuilder

import (
	"strings"

	gojson "github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/LinuxEntrepreneur/pentaho-mongodb-plugin/pkg/errors"
	"github.com/LinuxEntrepreneur/pentaho-mongodb-plugin/pkg/meta"
	"github.com/LinuxEntrepreneur/pentaho-mongodb-plugin/pkg/vars"
)

// Builder turns input rows into insert bodies, match queries and
// modifier-update documents for one aggregate clone.
type Builder struct {
	meta   *meta.OutputMeta
	logger *zap.Logger
}

// New creates a builder over an aggregate clone and compiles its field
// paths against sp.
func New(m *meta.OutputMeta, sp *vars.Space, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	m.InitFields(sp)
	return &Builder{meta: m, logger: logger}
}

// BeginRow rewinds every mapping's path cursor. Call once at the start of
// every row.
func (b *Builder) BeginRow() {
	b.meta.ResetFields()
}

// InsertDocument builds the whole-document body for a plain insert or for
// the replacement object of a non-modifier upsert. Every mapping
// contributes, match keys included: an upsert replacement must carry the
// match fields or an update would strip them from the stored document.
func (b *Builder) InsertDocument(row map[string]interface{}) (bson.M, error) {
	doc := bson.M{}

	for i := range b.meta.Fields {
		f := &b.meta.Fields[i]
		if err := b.placeValue(doc, f, row); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// MatchQuery builds the filter document from the match-key mappings, using
// dot notation for nested paths.
func (b *Builder) MatchQuery(row map[string]interface{}) (bson.M, error) {
	query := bson.M{}

	for i := range b.meta.Fields {
		f := &b.meta.Fields[i]
		if !f.MatchKey {
			continue
		}

		key, ok := b.dottedKey(f)
		if !ok {
			continue
		}
		value, err := b.rowValue(f, row)
		if err != nil {
			return nil, err
		}
		query[key] = value
	}

	return query, nil
}

// ModifierUpdate builds the update document for one branch of a
// modifier-mode upsert, bucketing dotted paths under their operators.
// forInsert selects the insert branch; mappings are gated by their apply
// policy, match keys and operator-less mappings are skipped.
func (b *Builder) ModifierUpdate(row map[string]interface{}, forInsert bool) (bson.M, error) {
	update := bson.M{}

	for i := range b.meta.Fields {
		f := &b.meta.Fields[i]
		if f.MatchKey || f.Operator == meta.OperatorNone {
			continue
		}
		if forInsert && !f.Policy.AppliesOnInsert() {
			continue
		}
		if !forInsert && !f.Policy.AppliesOnUpdate() {
			continue
		}

		key, ok := b.dottedKey(f)
		if !ok {
			continue
		}
		value, err := b.rowValue(f, row)
		if err != nil {
			return nil, err
		}

		if f.Operator == meta.OperatorInc && !isNumeric(value) {
			return nil, errors.Newf(errors.ErrorTypeData,
				"$inc needs a numeric value for %q, got %T", f.IncomingName, value)
		}

		bucket, ok := update[string(f.Operator)].(bson.M)
		if !ok {
			bucket = bson.M{}
			update[string(f.Operator)] = bucket
		}
		bucket[key] = value
	}

	return update, nil
}

// placeValue walks one mapping's path into doc, creating nested documents
// on the way, and sets the terminal key from the row. The cursor is rewound
// first so an earlier build call in the same row cannot starve the walk.
func (b *Builder) placeValue(doc bson.M, f *meta.MongoField, row map[string]interface{}) error {
	path := f.Path()
	path.Begin()

	value, err := b.rowValue(f, row)
	if err != nil {
		return err
	}

	node := doc
	if f.UseIncomingName {
		for path.Remaining() > 0 {
			seg, _ := path.Advance()
			node, err = childDoc(node, seg)
			if err != nil {
				return err
			}
		}
		node[f.IncomingName] = value
		return nil
	}

	if path.Remaining() == 0 {
		// An inert mapping, unless it carries a top-level fragment.
		if f.JSONFragment {
			return mergeFragment(node, f, value)
		}
		b.logger.Debug("skipping mapping with no document path",
			zap.String("incoming_field", f.IncomingName))
		return nil
	}

	for path.Remaining() > 1 {
		seg, _ := path.Advance()
		node, err = childDoc(node, seg)
		if err != nil {
			return err
		}
	}
	terminal, _ := path.Advance()
	node[terminal] = value
	return nil
}

// dottedKey rewinds and consumes a mapping's path cursor and returns the
// full dotted key, appending the incoming name when it serves as the
// terminal key. Returns false for inert mappings.
func (b *Builder) dottedKey(f *meta.MongoField) (string, bool) {
	path := f.Path()
	path.Begin()

	parts := make([]string, 0, path.Remaining()+1)
	for path.Remaining() > 0 {
		seg, _ := path.Advance()
		parts = append(parts, seg)
	}
	if f.UseIncomingName {
		parts = append(parts, f.IncomingName)
	}

	if len(parts) == 0 {
		b.logger.Debug("skipping mapping with no document path",
			zap.String("incoming_field", f.IncomingName))
		return "", false
	}
	return strings.Join(parts, "."), true
}

// rowValue looks up the mapping's incoming value, decoding JSON fragments
// into document values.
func (b *Builder) rowValue(f *meta.MongoField, row map[string]interface{}) (interface{}, error) {
	value, ok := row[f.IncomingName]
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeData, "row has no value named %q", f.IncomingName)
	}

	if !f.JSONFragment {
		return value, nil
	}

	text, ok := value.(string)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeData,
			"JSON fragment for %q must be a string, got %T", f.IncomingName, value)
	}

	var fragment interface{}
	if err := gojson.Unmarshal([]byte(text), &fragment); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData,
			"bad JSON fragment for "+f.IncomingName)
	}
	return fragment, nil
}

// mergeFragment splices a path-less fragment's keys into the document root.
func mergeFragment(node bson.M, f *meta.MongoField, value interface{}) error {
	obj, ok := value.(map[string]interface{})
	if !ok {
		return errors.Newf(errors.ErrorTypeData,
			"top-level JSON fragment for %q must be an object", f.IncomingName)
	}
	for k, v := range obj {
		node[k] = v
	}
	return nil
}

// childDoc descends into (or creates) the nested document under seg.
func childDoc(node bson.M, seg string) (bson.M, error) {
	child, exists := node[seg]
	if !exists {
		c := bson.M{}
		node[seg] = c
		return c, nil
	}
	c, ok := child.(bson.M)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeData,
			"document path segment %q collides with a non-document value", seg)
	}
	return c, nil
}

// isNumeric reports whether a row value can feed a $inc.
func isNumeric(v interface{}) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}
