// Package meta holds the declarative model of the MongoDB output step: the
// field mappings from incoming row values to document paths, the index
// declarations, the write configuration, and the two persisted encodings of
// all three.
//
// The aggregate is authored at design time by a single writer. At execution
// start it is deep-cloned once per parallel step copy via Clone; each clone
// owns independent path cursors, so no locking is needed during execution.
// Nothing in this package performs I/O or blocks.
package meta

import (
	"github.com/LinuxEntrepreneur/pentaho-mongodb-plugin/pkg/vars"
)

// Configurable is implemented by step metadata that can reset itself to its
// documented defaults.
type Configurable interface {
	SetDefault()
}

// Persistable is implemented by step metadata that round-trips through both
// persisted encodings.
type Persistable interface {
	XML() ([]byte, error)
	LoadXML(data []byte) error
	EncodeAttrs(w AttrWriter) error
	DecodeAttrs(r AttrReader) error
}

// OutputMeta is the aggregate configuration of one MongoDB output step.
type OutputMeta struct {
	WriteConfig

	// Fields maps incoming row values to document paths. Order is
	// significant: it is replayed identically on every row.
	Fields []MongoField

	// Indexes are index definitions to apply after writing
	Indexes []MongoIndex
}

var (
	_ Configurable = (*OutputMeta)(nil)
	_ Persistable  = (*OutputMeta)(nil)
)

// New returns an aggregate with the documented defaults.
func New() *OutputMeta {
	return &OutputMeta{WriteConfig: NewWriteConfig()}
}

// SetDefault resets the aggregate to its documented defaults.
func (m *OutputMeta) SetDefault() {
	m.WriteConfig = NewWriteConfig()
	m.Fields = nil
	m.Indexes = nil
}

// Clone returns a deep copy with no compiled path state. Each parallel step
// copy works on its own clone; the clone boundary is the isolation boundary.
func (m *OutputMeta) Clone() *OutputMeta {
	c := &OutputMeta{WriteConfig: m.WriteConfig}

	if m.Fields != nil {
		c.Fields = make([]MongoField, len(m.Fields))
		for i := range m.Fields {
			c.Fields[i] = m.Fields[i].Copy()
		}
	}
	if m.Indexes != nil {
		c.Indexes = make([]MongoIndex, len(m.Indexes))
		copy(c.Indexes, m.Indexes)
	}

	return c
}

// InitFields compiles every field path after variable substitution. Call
// once per clone before the first row.
func (m *OutputMeta) InitFields(sp *vars.Space) {
	for i := range m.Fields {
		m.Fields[i].Init(sp)
	}
}

// ResetFields rewinds every field's path cursor. Call at the start of every
// row.
func (m *OutputMeta) ResetFields() {
	for i := range m.Fields {
		m.Fields[i].Reset()
	}
}
