package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/canonjson/digest"
	"github.com/wippyai/canonjson/snapshot"
)

func newSnapshotCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage the content-addressed snapshot store",
		Long: `Store canonical JSON snapshots addressed by their digest.

Examples:
  canonjson snapshot put config.json
  canonjson snapshot list
  canonjson snapshot cat blake3:5f0c...
  canonjson snapshot verify`,
	}
	cmd.AddCommand(
		newSnapshotPutCmd(a),
		newSnapshotCatCmd(a),
		newSnapshotListCmd(a),
		newSnapshotVerifyCmd(a),
	)
	return cmd
}

func (a *app) store() (*snapshot.Store, error) {
	return snapshot.Open(a.cfg.Store, a.cfg.StoreOptions()...)
}

func newSnapshotPutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "put [file...]",
		Short: "Store documents and print their digests",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.store()
			if err != nil {
				return err
			}
			for _, path := range inputArgs(args) {
				doc, err := readDocument(path, cmd.InOrStdin())
				if err != nil {
					return err
				}
				d, err := s.Put(cmd.Context(), doc)
				if err != nil {
					return fmt.Errorf("store %s: %w", path, err)
				}
				a.log.Info("stored", zap.String("input", path), zap.Stringer("digest", d))
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", d, path)
			}
			return nil
		},
	}
}

func newSnapshotCatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cat <digest>",
		Short: "Print a stored snapshot after verifying it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := digest.Parse(args[0])
			if err != nil {
				return err
			}
			s, err := a.store()
			if err != nil {
				return err
			}
			data, err := s.Load(cmd.Context(), d)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := out.Write(data); err != nil {
				return err
			}
			_, err = fmt.Fprintln(out)
			return err
		},
	}
}

func newSnapshotListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshot digests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.store()
			if err != nil {
				return err
			}
			ds, err := s.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, d := range ds {
				fmt.Fprintln(cmd.OutOrStdout(), d)
			}
			return nil
		},
	}
}

func newSnapshotVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify [digest...]",
		Short: "Check stored snapshots against their digests (all when none given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.store()
			if err != nil {
				return err
			}

			var ds []digest.Digest
			if len(args) == 0 {
				if ds, err = s.List(cmd.Context()); err != nil {
					return err
				}
			}
			for _, arg := range args {
				d, err := digest.Parse(arg)
				if err != nil {
					return err
				}
				ds = append(ds, d)
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, d := range ds {
				if err := s.Verify(cmd.Context(), d); err != nil {
					failed++
					fmt.Fprintf(out, "%s %s: %v\n", errorStyle.Render("FAIL"), d, err)
					continue
				}
				fmt.Fprintf(out, "%s   %s\n", okStyle.Render("ok"), d)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d snapshots failed verification", failed, len(ds))
			}
			return nil
		},
	}
}
