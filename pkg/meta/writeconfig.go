package meta

import (
	"strconv"
	"strings"
	"time"

	"github.com/LinuxEntrepreneur/pentaho-mongodb-plugin/pkg/vars"
)

// Documented defaults for options that are resolved at use time.
const (
	// DefaultBatchSize is the number of rows buffered per write call
	DefaultBatchSize = 100
	// DefaultWriteRetries is the number of retry attempts for a failed write
	DefaultWriteRetries = 5
	// DefaultWriteRetryDelay is the delay in seconds between retries
	DefaultWriteRetryDelay = 10
	// DefaultPort is the mongod port applied to hosts that carry none
	DefaultPort = "27017"
)

// WriteConfig aggregates connection, batching, durability and retry options
// for the output step.
//
// Numeric options are held as strings because they may contain variable
// references; they are substituted and parsed at use time via the resolver
// methods, falling back to the documented default when blank or
// unparseable. Write concern, wTimeout and read preference are opaque
// tokens passed through to the write client, not interpreted here.
type WriteConfig struct {
	// Hosts is a comma separated list of host or host:port entries
	Hosts string
	// Port applies to every host entry that does not carry its own port
	Port string
	// Database is the database to write to
	Database string
	// Collection is the collection to write to
	Collection string

	// Username and Password authenticate against the database. Password is
	// obfuscated at rest, never in memory.
	Username string
	Password string

	// Truncate deletes all documents in the collection before the first
	// write
	Truncate bool
	// Upsert uses a filtered update-or-insert instead of a plain insert
	Upsert bool
	// Multi makes an upsert update all matching documents, not just the
	// first
	Multi bool
	// ModifierUpdate interprets per-field operators instead of replacing
	// whole documents
	ModifierUpdate bool

	// BatchSize is the number of rows buffered per write call
	BatchSize string

	// ConnectTimeout and SocketTimeout are in milliseconds; empty means no
	// timeout
	ConnectTimeout string
	SocketTimeout  string

	// ReadPreference is one of primary, primaryPreferred, secondary,
	// secondaryPreferred, nearest
	ReadPreference string

	// WriteConcern is the acknowledgement level token: empty for the
	// driver default, -1 for no ack with errors suppressed, 0 for no ack
	// but surfaced network errors, "majority", an integer above one, or a
	// tag set string
	WriteConcern string
	// WTimeout is the replication wait in milliseconds for the w option
	WTimeout string
	// Journal acknowledges writes only after the on-disk journal commit
	Journal bool

	// UseAllReplicaSetMembers discovers the cluster topology from the
	// configured hosts
	UseAllReplicaSetMembers bool

	// WriteRetries and WriteRetryDelay configure the write client's
	// backoff loop; the loop itself lives in the write client
	WriteRetries    string
	WriteRetryDelay string
}

// NewWriteConfig returns a config with the documented defaults.
func NewWriteConfig() WriteConfig {
	return WriteConfig{
		Hosts:           "localhost",
		Port:            DefaultPort,
		BatchSize:       strconv.Itoa(DefaultBatchSize),
		ReadPreference:  "primary",
		WriteRetries:    strconv.Itoa(DefaultWriteRetries),
		WriteRetryDelay: strconv.Itoa(DefaultWriteRetryDelay),
	}
}

// ResolveBatchSize resolves the batch size, defaulting to DefaultBatchSize.
func (wc *WriteConfig) ResolveBatchSize(sp *vars.Space) int {
	return resolveInt(wc.BatchSize, sp, DefaultBatchSize)
}

// ResolveWriteRetries resolves the retry count, defaulting to
// DefaultWriteRetries.
func (wc *WriteConfig) ResolveWriteRetries(sp *vars.Space) int {
	return resolveInt(wc.WriteRetries, sp, DefaultWriteRetries)
}

// ResolveWriteRetryDelay resolves the retry delay, defaulting to
// DefaultWriteRetryDelay seconds.
func (wc *WriteConfig) ResolveWriteRetryDelay(sp *vars.Space) time.Duration {
	return time.Duration(resolveInt(wc.WriteRetryDelay, sp, DefaultWriteRetryDelay)) * time.Second
}

// ResolveConnectTimeout resolves the connect timeout; zero means none.
func (wc *WriteConfig) ResolveConnectTimeout(sp *vars.Space) time.Duration {
	return time.Duration(resolveInt(wc.ConnectTimeout, sp, 0)) * time.Millisecond
}

// ResolveSocketTimeout resolves the socket timeout; zero means none.
func (wc *WriteConfig) ResolveSocketTimeout(sp *vars.Space) time.Duration {
	return time.Duration(resolveInt(wc.SocketTimeout, sp, 0)) * time.Millisecond
}

// ResolveWTimeout resolves the replication wait; zero means none.
func (wc *WriteConfig) ResolveWTimeout(sp *vars.Space) time.Duration {
	return time.Duration(resolveInt(wc.WTimeout, sp, 0)) * time.Millisecond
}

// ResolveHosts resolves the host list to host:port form, applying Port (or
// DefaultPort) to entries that carry none.
func (wc *WriteConfig) ResolveHosts(sp *vars.Space) []string {
	port := strings.TrimSpace(sp.Substitute(wc.Port))
	if port == "" {
		port = DefaultPort
	}

	var out []string
	for _, h := range strings.Split(sp.Substitute(wc.Hosts), ",") {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if !strings.Contains(h, ":") {
			h = h + ":" + port
		}
		out = append(out, h)
	}
	return out
}

// resolveInt substitutes and parses a numeric option string, falling back
// to def when the result is blank or not an integer.
func resolveInt(raw string, sp *vars.Space, def int) int {
	s := strings.TrimSpace(sp.Substitute(raw))
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
