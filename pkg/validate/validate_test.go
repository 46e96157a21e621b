package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckHealthyTopology(t *testing.T) {
	results := Check(Env{
		HasUpstreamSchema:  true,
		UpstreamFieldCount: 4,
		HasInputHops:       true,
	}, DefaultCatalog())

	require.Len(t, results, 2)
	assert.Equal(t, SeverityOK, results[0].Severity)
	assert.Contains(t, results[0].Message, "4 fields")
	assert.Equal(t, SeverityOK, results[1].Severity)
}

func TestCheckMissingUpstreamSchemaWarns(t *testing.T) {
	results := Check(Env{HasInputHops: true}, DefaultCatalog())

	require.Len(t, results, 2)
	assert.Equal(t, SeverityWarning, results[0].Severity)
	assert.Equal(t, SeverityOK, results[1].Severity)
}

func TestCheckNoInputHopsErrors(t *testing.T) {
	results := Check(Env{
		HasUpstreamSchema:  true,
		UpstreamFieldCount: 1,
	}, DefaultCatalog())

	require.Len(t, results, 2)
	assert.Equal(t, SeverityOK, results[0].Severity)
	assert.Equal(t, SeverityError, results[1].Severity)
}

func TestCheckResultsAreOrdered(t *testing.T) {
	// Schema result first, hop result second, always both.
	results := Check(Env{}, DefaultCatalog())

	require.Len(t, results, 2)
	assert.Equal(t, SeverityWarning, results[0].Severity)
	assert.Equal(t, SeverityError, results[1].Severity)
}

func TestCheckUsesSuppliedCatalog(t *testing.T) {
	cat := Catalog{
		NoUpstreamSchema: "kein schema",
		ReceivingFields:  "%d felder",
		ReceivingInput:   "eingang ok",
		NoInput:          "kein eingang",
	}

	results := Check(Env{HasUpstreamSchema: true, UpstreamFieldCount: 2, HasInputHops: true}, cat)
	assert.Equal(t, "2 felder", results[0].Message)
	assert.Equal(t, "eingang ok", results[1].Message)
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "OK", SeverityOK.String())
	assert.Equal(t, "WARNING", SeverityWarning.String())
	assert.Equal(t, "ERROR", SeverityError.String())
	assert.Equal(t, "Severity(9)", Severity(9).String())
}
