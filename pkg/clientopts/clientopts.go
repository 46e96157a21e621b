// Package clientopts translates a step write configuration into MongoDB
// driver client options. It is the hand-off boundary to the write client:
// everything here is pure translation, no connection is made and nothing
// blocks.
package clientopts

import (
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/LinuxEntrepreneur/pentaho-mongodb-plugin/pkg/errors"
	"github.com/LinuxEntrepreneur/pentaho-mongodb-plugin/pkg/meta"
	"github.com/LinuxEntrepreneur/pentaho-mongodb-plugin/pkg/vars"
)

// Build assembles driver client options from the write configuration.
// Numeric options are variable-substituted against sp and fall back to
// their documented defaults.
func Build(cfg *meta.WriteConfig, sp *vars.Space) (*options.ClientOptions, error) {
	hosts := cfg.ResolveHosts(sp)
	if len(hosts) == 0 {
		return nil, errors.New(errors.ErrorTypeConfig, "no hosts configured")
	}

	opts := options.Client().SetHosts(hosts)

	if cfg.Username != "" {
		cred := options.Credential{
			Username: cfg.Username,
			Password: cfg.Password,
		}
		if cfg.Database != "" {
			cred.AuthSource = cfg.Database
		}
		opts.SetAuth(cred)
	}

	if ct := cfg.ResolveConnectTimeout(sp); ct > 0 {
		opts.SetConnectTimeout(ct)
	}
	if st := cfg.ResolveSocketTimeout(sp); st > 0 {
		opts.SetSocketTimeout(st)
	}

	rp, err := ParseReadPreference(cfg.ReadPreference)
	if err != nil {
		return nil, err
	}
	opts.SetReadPreference(rp)

	wc, err := ParseWriteConcern(cfg.WriteConcern, cfg.Journal, cfg.ResolveWTimeout(sp))
	if err != nil {
		return nil, err
	}
	if wc != nil {
		opts.SetWriteConcern(wc)
	}

	// A single host with replica discovery off talks to that member only;
	// anything else lets the driver discover the topology.
	if len(hosts) == 1 && !cfg.UseAllReplicaSetMembers {
		opts.SetDirect(true)
	}

	return opts, nil
}

// ParseReadPreference maps a read preference token to the driver form. An
// empty token means primary.
func ParseReadPreference(token string) (*readpref.ReadPref, error) {
	switch strings.TrimSpace(token) {
	case "", "primary":
		return readpref.Primary(), nil
	case "primaryPreferred":
		return readpref.PrimaryPreferred(), nil
	case "secondary":
		return readpref.Secondary(), nil
	case "secondaryPreferred":
		return readpref.SecondaryPreferred(), nil
	case "nearest":
		return readpref.Nearest(), nil
	}
	return nil, errors.Newf(errors.ErrorTypeConfig, "unknown read preference %q", token)
}

// ParseWriteConcern maps a write concern token to the driver form.
//
// The grammar: empty means driver default; -1 and 0 both translate to
// unacknowledged writes (the error-suppression distinction between them
// belongs to the write client); "majority"; an integer above one is a
// member count; anything else is a replica set tag. Journal and wTimeout
// are layered on top. Returns nil when nothing deviates from the driver
// default.
func ParseWriteConcern(token string, journal bool, wTimeout time.Duration) (*writeconcern.WriteConcern, error) {
	token = strings.TrimSpace(token)

	var wc *writeconcern.WriteConcern
	switch {
	case token == "":
		if !journal && wTimeout <= 0 {
			return nil, nil
		}
		wc = &writeconcern.WriteConcern{}
	case token == "-1" || token == "0":
		wc = writeconcern.Unacknowledged()
	case token == "majority":
		wc = writeconcern.Majority()
	default:
		if n, err := strconv.Atoi(token); err == nil {
			if n < 1 {
				return nil, errors.Newf(errors.ErrorTypeConfig, "bad write concern %q", token)
			}
			wc = &writeconcern.WriteConcern{W: n}
		} else {
			wc = writeconcern.Custom(token)
		}
	}

	if journal {
		j := true
		wc.Journal = &j
	}
	if wTimeout > 0 {
		wc.WTimeout = wTimeout
	}
	return wc, nil
}
