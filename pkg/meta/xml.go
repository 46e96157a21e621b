package meta

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/LinuxEntrepreneur/pentaho-mongodb-plugin/pkg/errors"
)

// Markup encoding of the aggregate. Tag names and the Y/N boolean tokens
// are a compatibility surface read by other tooling and must be preserved
// exactly.

// ynBool encodes booleans as the two-character tokens Y and N.
type ynBool bool

// MarshalXML implements xml.Marshaler.
func (b ynBool) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	tok := "N"
	if b {
		tok = "Y"
	}
	return e.EncodeElement(tok, start)
}

// UnmarshalXML implements xml.Unmarshaler. Anything other than Y reads as
// false, so an absent tag and an unknown token both land on the default.
func (b *ynBool) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var tok string
	if err := d.DecodeElement(&tok, &start); err != nil {
		return err
	}
	*b = ynBool(strings.EqualFold(strings.TrimSpace(tok), "Y"))
	return nil
}

type xmlStep struct {
	XMLName         xml.Name    `xml:"step"`
	Hosts           string      `xml:"mongo_host,omitempty"`
	Port            string      `xml:"mongo_port,omitempty"`
	UseAllReplicas  ynBool      `xml:"use_all_replica_members"`
	Username        string      `xml:"mongo_user,omitempty"`
	Password        string      `xml:"mongo_password,omitempty"`
	Database        string      `xml:"mongo_db,omitempty"`
	Collection      string      `xml:"mongo_collection,omitempty"`
	BatchSize       string      `xml:"batch_insert_size,omitempty"`
	ConnectTimeout  string      `xml:"connect_timeout"`
	SocketTimeout   string      `xml:"socket_timeout"`
	ReadPreference  string      `xml:"read_preference"`
	WriteConcern    string      `xml:"write_concern"`
	WTimeout        string      `xml:"w_timeout"`
	Journal         ynBool      `xml:"journaled_writes"`
	Truncate        ynBool      `xml:"truncate"`
	Upsert          ynBool      `xml:"upsert"`
	Multi           ynBool      `xml:"multi"`
	ModifierUpdate  ynBool      `xml:"modifier_update"`
	WriteRetries    string      `xml:"write_retries"`
	WriteRetryDelay string      `xml:"write_retry_delay"`
	Fields          *xmlFields  `xml:"mongo_fields"`
	Indexes         *xmlIndexes `xml:"mongo_indexes"`
}

type xmlFields struct {
	Fields []xmlField `xml:"mongo_field"`
}

type xmlField struct {
	IncomingName    string `xml:"incoming_field_name"`
	DocPath         string `xml:"mongo_doc_path"`
	UseIncomingName ynBool `xml:"use_incoming_field_name_as_mongo_field_name"`
	MatchKey        ynBool `xml:"update_match_field"`
	Operation       string `xml:"modifier_update_operation"`
	Policy          string `xml:"modifier_policy"`
	JSONField       ynBool `xml:"json_field"`
}

type xmlIndexes struct {
	Indexes []xmlIndex `xml:"mongo_index"`
}

type xmlIndex struct {
	PathToFields string `xml:"path_to_fields"`
	Drop         ynBool `xml:"drop"`
	Unique       ynBool `xml:"unique"`
	Sparse       ynBool `xml:"sparse"`
}

// XML encodes the aggregate in the markup form. The credential is passed
// through the at-rest obfuscation transform before write.
func (m *OutputMeta) XML() ([]byte, error) {
	doc := xmlStep{
		Hosts:           m.Hosts,
		Port:            m.Port,
		UseAllReplicas:  ynBool(m.UseAllReplicaSetMembers),
		Username:        m.Username,
		Password:        Obfuscate(m.Password),
		Database:        m.Database,
		Collection:      m.Collection,
		BatchSize:       m.BatchSize,
		ConnectTimeout:  m.ConnectTimeout,
		SocketTimeout:   m.SocketTimeout,
		ReadPreference:  m.ReadPreference,
		WriteConcern:    m.WriteConcern,
		WTimeout:        m.WTimeout,
		Journal:         ynBool(m.Journal),
		Truncate:        ynBool(m.Truncate),
		Upsert:          ynBool(m.Upsert),
		Multi:           ynBool(m.Multi),
		ModifierUpdate:  ynBool(m.ModifierUpdate),
		WriteRetries:    m.WriteRetries,
		WriteRetryDelay: m.WriteRetryDelay,
	}

	if len(m.Fields) > 0 {
		doc.Fields = &xmlFields{}
		for i := range m.Fields {
			f := &m.Fields[i]
			doc.Fields.Fields = append(doc.Fields.Fields, xmlField{
				IncomingName:    f.IncomingName,
				DocPath:         f.DocPath,
				UseIncomingName: ynBool(f.UseIncomingName),
				MatchKey:        ynBool(f.MatchKey),
				Operation:       string(f.Operator),
				Policy:          string(f.Policy),
				JSONField:       ynBool(f.JSONFragment),
			})
		}
	}

	if len(m.Indexes) > 0 {
		doc.Indexes = &xmlIndexes{}
		for _, idx := range m.Indexes {
			doc.Indexes.Indexes = append(doc.Indexes.Indexes, xmlIndex{
				PathToFields: idx.FieldSpec,
				Drop:         ynBool(idx.Drop),
				Unique:       ynBool(idx.Unique),
				Sparse:       ynBool(idx.Sparse),
			})
		}
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to encode step XML")
	}
	return out, nil
}

// LoadXML decodes the markup form into the aggregate. Absent tags fall back
// to their documented defaults; a malformed document aborts the load and
// leaves the aggregate untouched.
func (m *OutputMeta) LoadXML(data []byte) error {
	var doc xmlStep
	if err := xml.Unmarshal(data, &doc); err != nil {
		return errors.Wrap(err, errors.ErrorTypeParse, "malformed step XML")
	}

	loaded := OutputMeta{
		WriteConfig: WriteConfig{
			Hosts:                   doc.Hosts,
			Port:                    doc.Port,
			UseAllReplicaSetMembers: bool(doc.UseAllReplicas),
			Username:                doc.Username,
			Password:                Deobfuscate(doc.Password),
			Database:                doc.Database,
			Collection:              doc.Collection,
			BatchSize:               doc.BatchSize,
			ConnectTimeout:          doc.ConnectTimeout,
			SocketTimeout:           doc.SocketTimeout,
			ReadPreference:          doc.ReadPreference,
			WriteConcern:            doc.WriteConcern,
			WTimeout:                doc.WTimeout,
			Journal:                 bool(doc.Journal),
			Truncate:                bool(doc.Truncate),
			Upsert:                  bool(doc.Upsert),
			Multi:                   bool(doc.Multi),
			ModifierUpdate:          bool(doc.ModifierUpdate),
			WriteRetries:            defaultIfBlank(doc.WriteRetries, strconv.Itoa(DefaultWriteRetries)),
			WriteRetryDelay:         defaultIfBlank(doc.WriteRetryDelay, strconv.Itoa(DefaultWriteRetryDelay)),
		},
	}

	if doc.Fields != nil {
		for _, xf := range doc.Fields.Fields {
			op, err := ParseOperator(xf.Operation)
			if err != nil {
				return err
			}
			policy, err := ParseApplyPolicy(xf.Policy)
			if err != nil {
				return err
			}
			loaded.Fields = append(loaded.Fields, MongoField{
				IncomingName:    xf.IncomingName,
				DocPath:         xf.DocPath,
				UseIncomingName: bool(xf.UseIncomingName),
				MatchKey:        bool(xf.MatchKey),
				Operator:        op,
				Policy:          policy,
				JSONFragment:    bool(xf.JSONField),
			})
		}
	}

	if doc.Indexes != nil {
		for _, xi := range doc.Indexes.Indexes {
			loaded.Indexes = append(loaded.Indexes, MongoIndex{
				FieldSpec: xi.PathToFields,
				Drop:      bool(xi.Drop),
				Unique:    bool(xi.Unique),
				Sparse:    bool(xi.Sparse),
			})
		}
	}

	*m = loaded
	return nil
}

func defaultIfBlank(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
