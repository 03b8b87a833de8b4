package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wippyai/canonjson/digest"
)

func newDigestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "digest [file...]",
		Short: "Print the canonical digest of each document",
		Long: `Print "<algorithm>:<hex>  <file>" for each document. The digest covers
the compact canonical JSON encoding, so it does not depend on --format or
--indent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range inputArgs(args) {
				d, err := a.digestOf(path, cmd)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", d, path)
			}
			return nil
		},
	}
}

func (a *app) digestOf(path string, cmd *cobra.Command) (digest.Digest, error) {
	doc, err := readDocument(path, cmd.InOrStdin())
	if err != nil {
		return digest.Digest{}, err
	}
	d, err := digest.Value(a.writer, a.cfg.Algorithm(), doc)
	if err != nil {
		return digest.Digest{}, fmt.Errorf("digest %s: %w", path, err)
	}
	return d, nil
}
