package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttrsRoundTrip(t *testing.T) {
	m := fullAggregate()

	store := NewMemAttrStore("step-1")
	require.NoError(t, m.EncodeAttrs(store))

	loaded := New()
	require.NoError(t, loaded.DecodeAttrs(store))

	assert.Equal(t, m, loaded)
}

func TestAttrsAndXMLAreEquivalent(t *testing.T) {
	m := fullAggregate()

	data, err := m.XML()
	require.NoError(t, err)
	fromXML := New()
	require.NoError(t, fromXML.LoadXML(data))

	store := NewMemAttrStore("step-1")
	require.NoError(t, m.EncodeAttrs(store))
	fromAttrs := New()
	require.NoError(t, fromAttrs.DecodeAttrs(store))

	assert.Equal(t, fromXML, fromAttrs)
}

func TestAttrsRepeatedRowsDriveFieldCount(t *testing.T) {
	m := New()
	for _, name := range []string{"a", "b", "c"} {
		f := NewMongoField()
		f.IncomingName = name
		f.DocPath = "doc." + name
		m.Fields = append(m.Fields, f)
	}
	m.Indexes = []MongoIndex{{FieldSpec: "doc.a"}}

	store := NewMemAttrStore("step-1")
	require.NoError(t, m.EncodeAttrs(store))

	assert.Equal(t, 3, store.AttrCount("incoming_field_name"))
	assert.Equal(t, 1, store.AttrCount("path_to_fields"))

	loaded := New()
	require.NoError(t, loaded.DecodeAttrs(store))
	require.Len(t, loaded.Fields, 3)
	assert.Equal(t, "b", loaded.Fields[1].IncomingName)
	assert.Equal(t, "doc.b", loaded.Fields[1].DocPath)
	require.Len(t, loaded.Indexes, 1)
}

func TestAttrsBooleanTokens(t *testing.T) {
	m := New()
	m.Journal = true

	store := NewMemAttrStore("step-1")
	require.NoError(t, m.EncodeAttrs(store))

	v, ok := store.Attr(0, "journaled_writes")
	require.True(t, ok)
	assert.Equal(t, "Y", v)

	v, ok = store.Attr(0, "truncate")
	require.True(t, ok)
	assert.Equal(t, "N", v)

	loaded := New()
	require.NoError(t, loaded.DecodeAttrs(store))
	assert.True(t, loaded.Journal)
	assert.False(t, loaded.Truncate)
}

func TestAttrsAbsentOptionsYieldDefaults(t *testing.T) {
	// A store written before the retry and replica options existed.
	store := NewMemAttrStore("step-1")
	store.SetAttr(0, "mongo_host", "localhost")
	store.SetAttr(0, "upsert", "Y")

	m := New()
	require.NoError(t, m.DecodeAttrs(store))

	assert.Equal(t, "5", m.WriteRetries)
	assert.Equal(t, "10", m.WriteRetryDelay)
	assert.False(t, m.UseAllReplicaSetMembers)
	assert.True(t, m.Upsert)
	assert.Empty(t, m.Fields)
	assert.Empty(t, m.Indexes)
}

func TestAttrsPasswordObfuscatedAtRest(t *testing.T) {
	m := New()
	m.Username = "writer"
	m.Password = "topsecret"

	store := NewMemAttrStore("step-1")
	require.NoError(t, m.EncodeAttrs(store))

	v, ok := store.Attr(0, "mongo_password")
	require.True(t, ok)
	assert.NotEqual(t, "topsecret", v)
	assert.Contains(t, v, obfuscatedPrefix)

	loaded := New()
	require.NoError(t, loaded.DecodeAttrs(store))
	assert.Equal(t, "topsecret", loaded.Password)
}

func TestAttrsUnknownPolicyAborts(t *testing.T) {
	store := NewMemAttrStore("step-1")
	store.SetAttr(0, "incoming_field_name", "v")
	store.SetAttr(0, "modifier_policy", "Always")

	m := New()
	err := m.DecodeAttrs(store)
	require.Error(t, err)
}

func TestMemAttrStoreBasics(t *testing.T) {
	store := NewMemAttrStore("step-42")
	assert.Equal(t, "step-42", store.StepID())

	store.SetAttr(0, "name", "a")
	store.SetAttr(1, "name", "b")
	store.SetAttr(0, "other", "c")

	assert.Equal(t, 2, store.AttrCount("name"))
	assert.Equal(t, 3, store.Len())

	v, ok := store.Attr(1, "name")
	require.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok = store.Attr(2, "name")
	assert.False(t, ok)
}
