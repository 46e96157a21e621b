package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	m := New()

	assert.Equal(t, NewWriteConfig(), m.WriteConfig)
	assert.Empty(t, m.Fields)
	assert.Empty(t, m.Indexes)
}

func TestSetDefaultResetsEverything(t *testing.T) {
	m := fullAggregate()
	m.SetDefault()

	assert.Equal(t, NewWriteConfig(), m.WriteConfig)
	assert.Nil(t, m.Fields)
	assert.Nil(t, m.Indexes)
}

func TestCloneIsDeep(t *testing.T) {
	m := fullAggregate()
	c := m.Clone()

	require.Equal(t, m, c)

	c.Fields[0].IncomingName = "changed"
	c.Indexes[0].FieldSpec = "changed"
	c.Collection = "changed"

	assert.Equal(t, "order_id", m.Fields[0].IncomingName)
	assert.Equal(t, "order.id:1", m.Indexes[0].FieldSpec)
	assert.Equal(t, "orders", m.Collection)
}

func TestCloneCursorsAreIndependent(t *testing.T) {
	m := fullAggregate()
	m.InitFields(nil)

	// Each clone compiles and walks its own cursors; advancing one must
	// never move the other.
	c := m.Clone()
	c.InitFields(nil)

	m.ResetFields()
	c.ResetFields()

	m.Fields[0].Path().Advance()
	m.Fields[0].Path().Advance()

	assert.Equal(t, 2, c.Fields[0].Path().Remaining())
	assert.Equal(t, 0, m.Fields[0].Path().Remaining())
}

func TestResetFieldsRewindsEveryCursor(t *testing.T) {
	m := fullAggregate()
	m.InitFields(nil)
	m.ResetFields()

	for i := range m.Fields {
		for m.Fields[i].Path().Remaining() > 0 {
			m.Fields[i].Path().Advance()
		}
	}

	m.ResetFields()
	assert.Equal(t, 2, m.Fields[0].Path().Remaining())
	assert.Equal(t, 2, m.Fields[1].Path().Remaining())
}
