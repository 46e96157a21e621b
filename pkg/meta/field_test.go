package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LinuxEntrepreneur/pentaho-mongodb-plugin/pkg/errors"
	"github.com/LinuxEntrepreneur/pentaho-mongodb-plugin/pkg/vars"
)

func TestNewMongoFieldDefaults(t *testing.T) {
	f := NewMongoField()

	assert.Equal(t, OperatorNone, f.Operator)
	assert.Equal(t, ApplyInsertAndUpdate, f.Policy)
	assert.False(t, f.UseIncomingName)
	assert.False(t, f.MatchKey)
	assert.False(t, f.JSONFragment)
}

func TestParseOperator(t *testing.T) {
	cases := []struct {
		token string
		want  Operator
	}{
		{"", OperatorNone},
		{"N/A", OperatorNone},
		{"$set", OperatorSet},
		{"$inc", OperatorInc},
		{"$push", OperatorPush},
	}
	for _, tc := range cases {
		op, err := ParseOperator(tc.token)
		require.NoError(t, err, tc.token)
		assert.Equal(t, tc.want, op)
	}

	_, err := ParseOperator("$rename")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeParse))
}

func TestParseApplyPolicy(t *testing.T) {
	cases := []struct {
		token string
		want  ApplyPolicy
	}{
		{"", ApplyInsertAndUpdate},
		{"Insert", ApplyInsertOnly},
		{"Update", ApplyUpdateOnly},
		{"Insert&Update", ApplyInsertAndUpdate},
	}
	for _, tc := range cases {
		p, err := ParseApplyPolicy(tc.token)
		require.NoError(t, err, tc.token)
		assert.Equal(t, tc.want, p)
	}

	_, err := ParseApplyPolicy("Always")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeParse))
}

func TestApplyPolicyBranchGating(t *testing.T) {
	assert.True(t, ApplyInsertOnly.AppliesOnInsert())
	assert.False(t, ApplyInsertOnly.AppliesOnUpdate())

	assert.False(t, ApplyUpdateOnly.AppliesOnInsert())
	assert.True(t, ApplyUpdateOnly.AppliesOnUpdate())

	assert.True(t, ApplyInsertAndUpdate.AppliesOnInsert())
	assert.True(t, ApplyInsertAndUpdate.AppliesOnUpdate())
}

func TestMongoFieldInitCompilesOnce(t *testing.T) {
	f := NewMongoField()
	f.IncomingName = "street"
	f.DocPath = "person.address"

	require.Nil(t, f.Path())
	f.Init(nil)
	require.NotNil(t, f.Path())
	assert.Equal(t, []string{"person", "address"}, f.Path().Segments())
}

func TestMongoFieldInertness(t *testing.T) {
	f := NewMongoField()
	f.IncomingName = "v"
	f.DocPath = ""
	f.Init(nil)
	assert.True(t, f.Inert())

	// With the incoming name as terminal key an empty path still produces
	// a top-level field.
	f.UseIncomingName = true
	assert.False(t, f.Inert())

	f.UseIncomingName = false
	f.DocPath = "a"
	f.Init(nil)
	assert.False(t, f.Inert())
}

func TestMongoFieldResetRewindsCursor(t *testing.T) {
	f := NewMongoField()
	f.DocPath = "a.b.c"
	f.Init(nil)

	f.Reset()
	f.Path().Advance()
	f.Path().Advance()
	assert.Equal(t, 1, f.Path().Remaining())

	f.Reset()
	assert.Equal(t, 3, f.Path().Remaining())
}

func TestMongoFieldCopyDropsCursorState(t *testing.T) {
	sp := vars.New()
	f := NewMongoField()
	f.IncomingName = "id"
	f.DocPath = "x.y"
	f.MatchKey = true
	f.Operator = OperatorSet
	f.Init(sp)

	c := f.Copy()
	assert.Nil(t, c.Path())
	assert.Equal(t, f.IncomingName, c.IncomingName)
	assert.Equal(t, f.DocPath, c.DocPath)
	assert.Equal(t, f.Operator, c.Operator)
	assert.True(t, c.MatchKey)
}
