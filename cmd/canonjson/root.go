package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/canonjson"
	"github.com/wippyai/canonjson/canonical"
	"github.com/wippyai/canonjson/internal/config"
	"github.com/wippyai/canonjson/snapshot"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// app carries state shared by all subcommands once flags are parsed.
type app struct {
	cfg        *config.Config
	log        *zap.Logger
	writer     *canonical.Writer
	configPath string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	def := config.Default()

	root := &cobra.Command{
		Use:   "canonjson",
		Short: "Deterministic canonical encodings of JSON and YAML documents",
		Long: `canonjson rewrites documents into a canonical form: object members and
array elements are sorted, so semantically equal documents produce
byte-identical output and the same digest.

Inputs are JSON (comments and trailing commas allowed) or YAML, chosen by
file extension. Output is JSON, CBOR, MessagePack or YAML.

Settings come from flags, CANONJSON_* environment variables and an
optional .canonjson.yaml in the working or home directory.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	root.SetVersionTemplate("canonjson version {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default: .canonjson.yaml in . or $HOME)")
	flags.StringP("format", "f", def.Format, "Output format: json, cbor, msgpack, yaml")
	flags.String("indent", def.Indent, "Indent string for json/yaml output (empty: compact)")
	flags.String("digest", def.Digest, "Digest algorithm: blake3 or sha256")
	flags.String("compression", def.Compression, "Snapshot compression: none, lz4, zstd")
	flags.String("store", def.Store, "Snapshot store directory")
	flags.String("log-level", def.LogLevel, "Log level: debug, info, warn, error")
	flags.Int("max-depth", def.MaxDepth, "Maximum nesting depth")
	flags.Bool("type-tags", def.TypeTags, "Emit $type members for records")

	root.AddCommand(
		newCanonCmd(a),
		newDigestCmd(a),
		newDiffCmd(a),
		newSnapshotCmd(a),
		newExploreCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.log = newLogger(cfg.Level(), cmd.ErrOrStderr())
	canonical.SetLogger(a.log.Named("canonical"))
	snapshot.SetLogger(a.log.Named("snapshot"))

	a.writer = canonical.NewWriter(cfg.WriterOptions()...)
	a.log.Debug("configuration loaded",
		zap.String("format", cfg.Format),
		zap.String("digest", cfg.Digest),
		zap.Bool("type_tags", cfg.TypeTags))
	return nil
}

func (a *app) codec() *canonjson.Codec {
	return &canonjson.Codec{
		Writer: a.writer,
		Format: a.cfg.OutputFormat(),
		Indent: a.cfg.Indent,
	}
}

func newLogger(level zapcore.Level, w io.Writer) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the canonjson version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "canonjson version %s\n", version)
			return err
		},
	}
}
