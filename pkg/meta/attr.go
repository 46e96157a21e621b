package meta

import (
	"strconv"
	"strings"

	"github.com/LinuxEntrepreneur/pentaho-mongodb-plugin/pkg/errors"
)

// Attribute-store encoding of the aggregate: a flat mapping keyed by
// (step id, row index, attribute name). Singleton scalars live at row 0;
// repeated entries occupy one row per list element, and the entry count for
// the canonical attribute name decides how many rows exist on reload.

// AttrWriter receives attribute values for one step.
type AttrWriter interface {
	SetAttr(row int, name, value string)
}

// AttrReader supplies attribute values for one step.
type AttrReader interface {
	// Attr returns the value at (row, name) and whether it exists
	Attr(row int, name string) (string, bool)
	// AttrCount reports how many rows carry the named attribute
	AttrCount(name string) int
}

// AttrKey addresses one attribute value within a step.
type AttrKey struct {
	Row  int
	Name string
}

// MemAttrStore is an in-memory attribute store for one step.
type MemAttrStore struct {
	stepID string
	attrs  map[AttrKey]string
}

// NewMemAttrStore creates an empty store bound to a step id.
func NewMemAttrStore(stepID string) *MemAttrStore {
	return &MemAttrStore{
		stepID: stepID,
		attrs:  make(map[AttrKey]string),
	}
}

// StepID returns the step id the store is bound to.
func (s *MemAttrStore) StepID() string {
	return s.stepID
}

// SetAttr stores a value at (row, name).
func (s *MemAttrStore) SetAttr(row int, name, value string) {
	s.attrs[AttrKey{Row: row, Name: name}] = value
}

// Attr returns the value at (row, name).
func (s *MemAttrStore) Attr(row int, name string) (string, bool) {
	v, ok := s.attrs[AttrKey{Row: row, Name: name}]
	return v, ok
}

// AttrCount reports how many rows carry the named attribute.
func (s *MemAttrStore) AttrCount(name string) int {
	n := 0
	for k := range s.attrs {
		if k.Name == name {
			n++
		}
	}
	return n
}

// Len reports the total number of stored attribute values.
func (s *MemAttrStore) Len() int {
	return len(s.attrs)
}

const (
	attrTrue  = "Y"
	attrFalse = "N"
)

func attrBool(v bool) string {
	if v {
		return attrTrue
	}
	return attrFalse
}

func parseAttrBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), attrTrue)
}

// EncodeAttrs writes the aggregate to the attribute store. The credential
// is passed through the at-rest obfuscation transform.
func (m *OutputMeta) EncodeAttrs(w AttrWriter) error {
	setIfNotEmpty := func(name, value string) {
		if value != "" {
			w.SetAttr(0, name, value)
		}
	}

	setIfNotEmpty("mongo_host", m.Hosts)
	setIfNotEmpty("mongo_port", m.Port)
	w.SetAttr(0, "use_all_replica_members", attrBool(m.UseAllReplicaSetMembers))
	setIfNotEmpty("mongo_user", m.Username)
	setIfNotEmpty("mongo_password", Obfuscate(m.Password))
	setIfNotEmpty("mongo_db", m.Database)
	setIfNotEmpty("mongo_collection", m.Collection)
	setIfNotEmpty("batch_insert_size", m.BatchSize)

	w.SetAttr(0, "connect_timeout", m.ConnectTimeout)
	w.SetAttr(0, "socket_timeout", m.SocketTimeout)
	w.SetAttr(0, "read_preference", m.ReadPreference)
	w.SetAttr(0, "write_concern", m.WriteConcern)
	w.SetAttr(0, "w_timeout", m.WTimeout)
	w.SetAttr(0, "journaled_writes", attrBool(m.Journal))

	w.SetAttr(0, "truncate", attrBool(m.Truncate))
	w.SetAttr(0, "upsert", attrBool(m.Upsert))
	w.SetAttr(0, "multi", attrBool(m.Multi))
	w.SetAttr(0, "modifier_update", attrBool(m.ModifierUpdate))
	w.SetAttr(0, "write_retries", m.WriteRetries)
	w.SetAttr(0, "write_retry_delay", m.WriteRetryDelay)

	for i := range m.Fields {
		f := &m.Fields[i]
		w.SetAttr(i, "incoming_field_name", f.IncomingName)
		w.SetAttr(i, "mongo_doc_path", f.DocPath)
		w.SetAttr(i, "use_incoming_field_name_as_mongo_field_name", attrBool(f.UseIncomingName))
		w.SetAttr(i, "update_match_field", attrBool(f.MatchKey))
		w.SetAttr(i, "modifier_update_operation", string(f.Operator))
		w.SetAttr(i, "modifier_policy", string(f.Policy))
		w.SetAttr(i, "json_field", attrBool(f.JSONFragment))
	}

	for i, idx := range m.Indexes {
		w.SetAttr(i, "path_to_fields", idx.FieldSpec)
		w.SetAttr(i, "drop", attrBool(idx.Drop))
		w.SetAttr(i, "unique", attrBool(idx.Unique))
		w.SetAttr(i, "sparse", attrBool(idx.Sparse))
	}

	return nil
}

// DecodeAttrs reads the aggregate from the attribute store. Absent
// attributes fall back to their documented defaults; a malformed attribute
// aborts the load and leaves the aggregate untouched.
func (m *OutputMeta) DecodeAttrs(r AttrReader) error {
	attr := func(name string) string {
		v, _ := r.Attr(0, name)
		return v
	}
	attrAsBool := func(name string) bool {
		return parseAttrBool(attr(name))
	}

	loaded := OutputMeta{
		WriteConfig: WriteConfig{
			Hosts:                   attr("mongo_host"),
			Port:                    attr("mongo_port"),
			UseAllReplicaSetMembers: attrAsBool("use_all_replica_members"),
			Username:                attr("mongo_user"),
			Password:                Deobfuscate(attr("mongo_password")),
			Database:                attr("mongo_db"),
			Collection:              attr("mongo_collection"),
			BatchSize:               attr("batch_insert_size"),
			ConnectTimeout:          attr("connect_timeout"),
			SocketTimeout:           attr("socket_timeout"),
			ReadPreference:          attr("read_preference"),
			WriteConcern:            attr("write_concern"),
			WTimeout:                attr("w_timeout"),
			Journal:                 attrAsBool("journaled_writes"),
			Truncate:                attrAsBool("truncate"),
			Upsert:                  attrAsBool("upsert"),
			Multi:                   attrAsBool("multi"),
			ModifierUpdate:          attrAsBool("modifier_update"),
			WriteRetries:            defaultIfBlank(attr("write_retries"), strconv.Itoa(DefaultWriteRetries)),
			WriteRetryDelay:         defaultIfBlank(attr("write_retry_delay"), strconv.Itoa(DefaultWriteRetryDelay)),
		},
	}

	nrFields := r.AttrCount("incoming_field_name")
	for i := 0; i < nrFields; i++ {
		rowAttr := func(name string) string {
			v, _ := r.Attr(i, name)
			return v
		}

		op, err := ParseOperator(rowAttr("modifier_update_operation"))
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeParse, "field row "+strconv.Itoa(i))
		}
		policy, err := ParseApplyPolicy(rowAttr("modifier_policy"))
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeParse, "field row "+strconv.Itoa(i))
		}

		loaded.Fields = append(loaded.Fields, MongoField{
			IncomingName:    rowAttr("incoming_field_name"),
			DocPath:         rowAttr("mongo_doc_path"),
			UseIncomingName: parseAttrBool(rowAttr("use_incoming_field_name_as_mongo_field_name")),
			MatchKey:        parseAttrBool(rowAttr("update_match_field")),
			Operator:        op,
			Policy:          policy,
			JSONFragment:    parseAttrBool(rowAttr("json_field")),
		})
	}

	nrIndexes := r.AttrCount("path_to_fields")
	for i := 0; i < nrIndexes; i++ {
		rowAttr := func(name string) string {
			v, _ := r.Attr(i, name)
			return v
		}

		loaded.Indexes = append(loaded.Indexes, MongoIndex{
			FieldSpec: rowAttr("path_to_fields"),
			Drop:      parseAttrBool(rowAttr("drop")),
			Unique:    parseAttrBool(rowAttr("unique")),
			Sparse:    parseAttrBool(rowAttr("sparse")),
		})
	}

	*m = loaded
	return nil
}
