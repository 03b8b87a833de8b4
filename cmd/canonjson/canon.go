package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/canonjson"
)

func newCanonCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "canon [file]",
		Short: "Write the canonical encoding of a document",
		Long: `Write the canonical encoding of a JSON or YAML document.

Examples:
  # Canonical compact JSON on stdout
  canonjson canon config.json

  # Canonical CBOR into a file
  canonjson canon --format cbor -o config.cbor config.yaml

  # From stdin, indented
  cat doc.json | canonjson canon --indent "  "`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := inputArgs(args)[0]
			doc, err := readDocument(path, cmd.InOrStdin())
			if err != nil {
				return err
			}

			codec := a.codec()
			data, err := codec.Marshal(doc)
			if err != nil {
				return fmt.Errorf("canonicalize %s: %w", path, err)
			}
			a.log.Debug("canonicalized",
				zap.String("input", path),
				zap.String("format", codec.Format.String()),
				zap.Int("bytes", len(data)))

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				return os.WriteFile(output, data, 0o644)
			}
			if binary(codec.Format) && isTerminal(w) {
				return fmt.Errorf("refusing to write %s to a terminal; use --output", codec.Format)
			}
			if _, err := w.Write(data); err != nil {
				return err
			}
			if !binary(codec.Format) && codec.Format != canonjson.FormatYAML {
				_, err = io.WriteString(w, "\n")
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func binary(f canonjson.Format) bool {
	return f == canonjson.FormatCBOR || f == canonjson.FormatMsgpack
}
