// Package schematool implements the strata command-line tool: it reads a
// schema definition file and generates index DDL for a chosen SQL dialect.
package schematool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ridge/must/v2"
	"github.com/spf13/pflag"
	"github.com/stratadb/strata"
	"github.com/stratadb/strata/dialect"
	"github.com/stratadb/strata/history"
	"github.com/stratadb/strata/run"
	"github.com/stratadb/strata/schemafile"
	"github.com/stratadb/strata/tlog"
	"go.uber.org/zap"
)

// Config contains the generator parameters
type Config struct {
	SchemaFile  string
	Backend     dialect.Backend
	Out         string
	Drop        bool
	HistoryFile string
	DiffFile    string
}

// Main handles the command line and runs the generator
func Main(args []string) {
	var cfg Config
	var dialectName, mysqlVersion string
	var watch bool
	pflag.StringVar(&cfg.SchemaFile, "schema", "", "Schema definition file")
	pflag.StringVar(&dialectName, "dialect", "postgres", "SQL dialect: postgres, mysql or sqlite")
	pflag.StringVar(&mysqlVersion, "mysql-version", "8.0.13", "MySQL server version, used with --dialect=mysql")
	pflag.StringVar(&cfg.Out, "out", "", "File to write the generated SQL to. Default: stdout")
	pflag.BoolVar(&cfg.Drop, "drop", false, "Generate DROP INDEX statements instead of CREATE INDEX")
	pflag.StringVar(&cfg.HistoryFile, "history", "", "Write a manifest of the index definitions to this file")
	pflag.StringVar(&cfg.DiffFile, "diff", "", "Compare the index definitions against this manifest")
	pflag.BoolVar(&watch, "watch", false, "Keep running, regenerating whenever the schema file changes")
	_ = pflag.CommandLine.Parse(args[1:])

	if cfg.SchemaFile == "" {
		panic(fmt.Errorf("--schema is required"))
	}
	cfg.Backend = backendFromName(dialectName, mysqlVersion)

	if watch {
		run.Server(func(ctx context.Context) error {
			return Watch(ctx, cfg)
		})
	} else {
		run.Tool(func(ctx context.Context) error {
			return Run(ctx, cfg)
		})
	}
}

func backendFromName(name, mysqlVersion string) dialect.Backend {
	switch name {
	case "postgres":
		return dialect.Postgres()
	case "mysql":
		return must.OK1(dialect.MySQL(mysqlVersion))
	case "sqlite":
		return dialect.SQLite()
	default:
		panic(fmt.Errorf("unknown dialect %q", name))
	}
}

// Run loads the schema file and generates DDL once
func Run(ctx context.Context, config Config) error {
	schema, err := loadSchema(config.SchemaFile)
	if err != nil {
		return err
	}

	var statements []strata.Statement
	if config.Drop {
		statements, err = schema.DropSQL(config.Backend)
	} else {
		statements, err = schema.CreateSQL(ctx, config.Backend)
	}
	if err != nil {
		return err
	}
	if err := writeScript(config.Out, statements); err != nil {
		return err
	}

	var skipped int
	for _, statement := range statements {
		if !statement.OK() {
			skipped++
		}
	}
	tlog.Get(ctx).Info("Generated DDL",
		zap.String("dialect", config.Backend.Name()),
		zap.Int("statements", len(statements)-skipped),
		zap.Int("skipped", skipped))

	manifest := schema.Manifest(time.Now())
	if config.DiffFile != "" {
		if err := diffManifest(ctx, config.DiffFile, manifest); err != nil {
			return err
		}
	}
	if config.HistoryFile != "" {
		if err := history.Write(config.HistoryFile, manifest); err != nil {
			return err
		}
	}
	return nil
}

func loadSchema(path string) (*strata.Schema, error) {
	file, err := schemafile.Load(path)
	if err != nil {
		return nil, err
	}
	tables, err := file.Build()
	if err != nil {
		return nil, err
	}
	return strata.NewSchema(schemaName(path), tables...)
}

// schemaName derives the schema name from the definition file name.
func schemaName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// renderScript formats the statements as a SQL script. Statements the backend
// cannot express become comments, so the skip is visible in the output.
func renderScript(statements []strata.Statement) string {
	var sb strings.Builder
	for _, statement := range statements {
		if !statement.OK() {
			fmt.Fprintf(&sb, "-- skipped (%s): %s\n", statement.Skipped.Reason, statement.Index)
			continue
		}
		sb.WriteString(statement.SQL)
		sb.WriteString(";\n")
	}
	return sb.String()
}

func writeScript(path string, statements []strata.Statement) error {
	script := renderScript(statements)
	if path == "" {
		_, err := os.Stdout.WriteString(script)
		return err
	}
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		return fmt.Errorf("failed to write SQL script: %w", err)
	}
	return nil
}

// diffManifest compares the current index definitions against a previously
// written manifest. Every drifted index is logged; the returned error carries
// exit code 100, so the drift is scriptable.
func diffManifest(ctx context.Context, path string, manifest history.Manifest) error {
	before, err := history.Read(path)
	if err != nil {
		return err
	}
	changes := history.Diff(before, manifest)
	for _, change := range changes {
		if change.Op == history.Unchanged {
			continue
		}
		tlog.Get(ctx).Warn("Index definition drifted",
			zap.String("op", string(change.Op)),
			zap.String("table", change.Table),
			zap.String("index", change.Index))
	}
	return history.Drift(changes)
}
