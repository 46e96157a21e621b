// Package mongodbplugin provides the metadata, persistence, validation and
// document-shaping layer for a MongoDB output step: it turns a tabular row
// stream plus a field-to-document mapping into insert documents, match
// queries and modifier updates ready for the MongoDB driver.
//
// # Key Packages
//
//	pkg/meta        - Step metadata: field mappings, index specs, write
//	                  options, XML and attribute-store persistence
//	pkg/docbuilder  - Per-row document, match-query and modifier assembly
//	pkg/clientopts  - Driver client options from resolved write config
//	pkg/validate    - Advisory pre-run checks (OK / WARNING / ERROR)
//	pkg/vars        - ${VAR} substitution against an environment space
//	pkg/errors      - Structured error handling
//	pkg/logger      - Structured logging
//
// # Quick Start
//
// Load a persisted step definition and shape a row:
//
//	import (
//	    "github.com/LinuxEntrepreneur/pentaho-mongodb-plugin/pkg/docbuilder"
//	    "github.com/LinuxEntrepreneur/pentaho-mongodb-plugin/pkg/meta"
//	    "github.com/LinuxEntrepreneur/pentaho-mongodb-plugin/pkg/vars"
//	)
//
//	m := meta.New()
//	if err := m.LoadXML(data); err != nil {
//	    return err
//	}
//	b := docbuilder.New(m, vars.Environ(), nil)
//	b.BeginRow()
//	doc, err := b.InsertDocument(row)
//
// Option values such as hosts, port and batch size may carry ${VAR}
// references; they stay unresolved in the persisted form and resolve
// against a vars.Space at use time.
//
// # CLI
//
// cmd/mongostep ships a small inspection tool:
//
//	mongostep inspect step.xml   # resolved summary of a step definition
//	mongostep check step.xml     # advisory validation results
//	mongostep fmt step.xml       # load and re-save, normalizing the file
package mongodbplugin
