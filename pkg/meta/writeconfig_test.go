package meta

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/LinuxEntrepreneur/pentaho-mongodb-plugin/pkg/vars"
)

func TestNewWriteConfigDefaults(t *testing.T) {
	wc := NewWriteConfig()

	assert.Equal(t, "localhost", wc.Hosts)
	assert.Equal(t, "27017", wc.Port)
	assert.Equal(t, "100", wc.BatchSize)
	assert.Equal(t, "primary", wc.ReadPreference)
	assert.Equal(t, "5", wc.WriteRetries)
	assert.Equal(t, "10", wc.WriteRetryDelay)
	assert.False(t, wc.UseAllReplicaSetMembers)
	assert.False(t, wc.Upsert)
	assert.False(t, wc.ModifierUpdate)
}

func TestResolveNumericDefaults(t *testing.T) {
	wc := WriteConfig{}

	assert.Equal(t, DefaultBatchSize, wc.ResolveBatchSize(nil))
	assert.Equal(t, DefaultWriteRetries, wc.ResolveWriteRetries(nil))
	assert.Equal(t, 10*time.Second, wc.ResolveWriteRetryDelay(nil))
	assert.Equal(t, time.Duration(0), wc.ResolveConnectTimeout(nil))
	assert.Equal(t, time.Duration(0), wc.ResolveSocketTimeout(nil))
}

func TestResolveNumericFromVariables(t *testing.T) {
	sp := vars.New()
	sp.Set("BATCH", "250")

	wc := WriteConfig{BatchSize: "${BATCH}", ConnectTimeout: "1500"}

	assert.Equal(t, 250, wc.ResolveBatchSize(sp))
	assert.Equal(t, 1500*time.Millisecond, wc.ResolveConnectTimeout(sp))
}

func TestResolveNumericUnsubstitutableFallsBack(t *testing.T) {
	wc := WriteConfig{BatchSize: "${MISSING}", WriteRetries: "lots"}

	assert.Equal(t, DefaultBatchSize, wc.ResolveBatchSize(vars.New()))
	assert.Equal(t, DefaultWriteRetries, wc.ResolveWriteRetries(nil))
}

func TestResolveHosts(t *testing.T) {
	wc := WriteConfig{Hosts: "alpha, beta:27020 ,gamma", Port: "27018"}

	assert.Equal(t,
		[]string{"alpha:27018", "beta:27020", "gamma:27018"},
		wc.ResolveHosts(nil))
}

func TestResolveHostsDefaultPort(t *testing.T) {
	wc := WriteConfig{Hosts: "localhost"}

	assert.Equal(t, []string{"localhost:27017"}, wc.ResolveHosts(nil))
}

func TestResolveHostsWithVariables(t *testing.T) {
	sp := vars.New()
	sp.Set("MONGO_HOST", "db1,db2")

	wc := WriteConfig{Hosts: "${MONGO_HOST}", Port: "27017"}

	assert.Equal(t, []string{"db1:27017", "db2:27017"}, wc.ResolveHosts(sp))
}

func TestResolveHostsEmpty(t *testing.T) {
	wc := WriteConfig{Hosts: " , "}
	assert.Empty(t, wc.ResolveHosts(nil))
}
