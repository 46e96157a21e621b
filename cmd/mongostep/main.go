package main

import (
	"fmt"
	"os"
	"runtime"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LinuxEntrepreneur/pentaho-mongodb-plugin/pkg/logger"
	"github.com/LinuxEntrepreneur/pentaho-mongodb-plugin/pkg/meta"
	"github.com/LinuxEntrepreneur/pentaho-mongodb-plugin/pkg/validate"
	"github.com/LinuxEntrepreneur/pentaho-mongodb-plugin/pkg/vars"
)

var version = "0.1.0"

// stepSummary is the JSON report emitted by the inspect command.
type stepSummary struct {
	Hosts          []string `json:"hosts"`
	Database       string   `json:"database"`
	Collection     string   `json:"collection"`
	Upsert         bool     `json:"upsert"`
	Multi          bool     `json:"multi"`
	ModifierUpdate bool     `json:"modifier_update"`
	Truncate       bool     `json:"truncate"`
	BatchSize      int      `json:"batch_size"`
	WriteRetries   int      `json:"write_retries"`
	Fields         int      `json:"fields"`
	MatchKeys      int      `json:"match_keys"`
	Indexes        int      `json:"indexes"`
}

func main() {
	root := &cobra.Command{
		Use:   "mongostep",
		Short: "Inspect and validate MongoDB output step configurations",
		Long: `mongostep works with persisted MongoDB output step configurations:
it loads the step XML, reports how the step maps incoming rows to documents,
and runs the advisory topology checks.`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mongostep v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	var logLevel string

	inspectCmd := &cobra.Command{
		Use:   "inspect <step.xml>",
		Short: "Load a step configuration and print a JSON summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initLogger(logLevel); err != nil {
				return err
			}

			m, err := loadStep(args[0])
			if err != nil {
				return err
			}

			sp := vars.Environ()
			matchKeys := 0
			for _, f := range m.Fields {
				if f.MatchKey {
					matchKeys++
				}
			}

			summary := stepSummary{
				Hosts:          m.ResolveHosts(sp),
				Database:       m.Database,
				Collection:     m.Collection,
				Upsert:         m.Upsert,
				Multi:          m.Multi,
				ModifierUpdate: m.ModifierUpdate,
				Truncate:       m.Truncate,
				BatchSize:      m.ResolveBatchSize(sp),
				WriteRetries:   m.ResolveWriteRetries(sp),
				Fields:         len(m.Fields),
				MatchKeys:      matchKeys,
				Indexes:        len(m.Indexes),
			}

			out, err := gojson.MarshalIndent(summary, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	inspectCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.AddCommand(inspectCmd)

	var hasSchema, hasInput bool
	var fieldCount int

	checkCmd := &cobra.Command{
		Use:   "check <step.xml>",
		Short: "Run the advisory topology checks against a step configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadStep(args[0])
			if err != nil {
				return err
			}

			results := m.Check(validate.Env{
				HasUpstreamSchema:  hasSchema,
				UpstreamFieldCount: fieldCount,
				HasInputHops:       hasInput,
			}, validate.DefaultCatalog())

			failed := false
			for _, r := range results {
				fmt.Printf("%s: %s\n", r.Severity, r.Message)
				if r.Severity == validate.SeverityError {
					failed = true
				}
			}
			if failed {
				os.Exit(1)
			}
			return nil
		},
	}
	checkCmd.Flags().BoolVar(&hasSchema, "upstream-schema", false, "Previous step declares fields")
	checkCmd.Flags().IntVar(&fieldCount, "upstream-fields", 0, "Number of declared upstream fields")
	checkCmd.Flags().BoolVar(&hasInput, "input-hops", false, "At least one hop leads into the step")
	root.AddCommand(checkCmd)

	fmtCmd := &cobra.Command{
		Use:   "fmt <step.xml>",
		Short: "Load and re-save a step configuration, normalizing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadStep(args[0])
			if err != nil {
				return err
			}

			out, err := m.XML()
			if err != nil {
				return err
			}
			return os.WriteFile(args[0], append(out, '\n'), 0o644)
		},
	}
	root.AddCommand(fmtCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func initLogger(level string) error {
	return logger.Init(logger.Config{
		Level:    level,
		Encoding: "console",
	})
}

func loadStep(path string) (*meta.OutputMeta, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the CLI user
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	m := meta.New()
	if err := m.LoadXML(data); err != nil {
		logger.Error("failed to load step configuration",
			zap.String("path", path), zap.Error(err))
		return nil, err
	}
	return m, nil
}
