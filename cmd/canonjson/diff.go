package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wippyai/canonjson"
	"github.com/wippyai/canonjson/digest"
)

// errDifferent signals that diff found a difference; main maps it to
// exit status 1.
var errDifferent = errors.New("documents differ")

func newDiffCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <a> <b>",
		Short: "Compare two documents by canonical form",
		Long: `Compare two documents by their canonical digests. Documents that differ
only in member order, element order or formatting are identical.

Exits 0 when identical, 1 when different. For different documents the
first differing line of the indented canonical JSON is shown.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			left, err := a.canonicalText(args[0], cmd)
			if err != nil {
				return err
			}
			right, err := a.canonicalText(args[1], cmd)
			if err != nil {
				return err
			}

			alg := a.cfg.Algorithm()
			dl, err := digest.Of(alg, left.compact)
			if err != nil {
				return err
			}
			dr, err := digest.Of(alg, right.compact)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dl == dr {
				fmt.Fprintf(out, "%s %s\n", okStyle.Render("identical"), digestStyle.Render(dl.String()))
				return nil
			}

			fmt.Fprintf(out, "%s\n", errorStyle.Render("different"))
			fmt.Fprintf(out, "  %s  %s\n", digestStyle.Render(dl.String()), args[0])
			fmt.Fprintf(out, "  %s  %s\n", digestStyle.Render(dr.String()), args[1])
			writeFirstDifference(out, left.indented, right.indented)
			return errDifferent
		},
	}
}

type canonicalForms struct {
	compact  []byte
	indented string
}

func (a *app) canonicalText(path string, cmd *cobra.Command) (canonicalForms, error) {
	doc, err := readDocument(path, cmd.InOrStdin())
	if err != nil {
		return canonicalForms{}, err
	}

	compact := &canonjson.Codec{Writer: a.writer}
	c, err := compact.Marshal(doc)
	if err != nil {
		return canonicalForms{}, fmt.Errorf("canonicalize %s: %w", path, err)
	}
	indented := &canonjson.Codec{Writer: a.writer, Indent: "  "}
	i, err := indented.Marshal(doc)
	if err != nil {
		return canonicalForms{}, fmt.Errorf("canonicalize %s: %w", path, err)
	}
	return canonicalForms{compact: c, indented: string(i)}, nil
}

func writeFirstDifference(w io.Writer, a, b string) {
	la, lb := strings.Split(a, "\n"), strings.Split(b, "\n")
	for i := 0; i < max(len(la), len(lb)); i++ {
		var x, y string
		if i < len(la) {
			x = la[i]
		}
		if i < len(lb) {
			y = lb[i]
		}
		if x != y {
			fmt.Fprintf(w, "first difference at line %d:\n", i+1)
			fmt.Fprintf(w, "  - %s\n", errorStyle.Render(strings.TrimSpace(x)))
			fmt.Fprintf(w, "  + %s\n", okStyle.Render(strings.TrimSpace(y)))
			return
		}
	}
}
