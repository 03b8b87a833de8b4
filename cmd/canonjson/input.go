package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/canonjson/internal/jsontree"
)

type inputKind int

const (
	inputJSON inputKind = iota
	inputYAML
)

func kindOf(path string) inputKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return inputYAML
	default:
		return inputJSON
	}
}

// readDocument loads a JSON, JSONC or YAML document. "-" reads stdin as
// JSON.
func readDocument(path string, stdin io.Reader) (any, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	v, err := decodeDocument(data, kindOf(path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return v, nil
}

func decodeDocument(data []byte, kind inputKind) (any, error) {
	var v any
	if kind == inputYAML {
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	}

	// numbers stay json.Number so literals keep their precision
	return jsontree.Decode(jsonc.ToJSON(data))
}

func inputArgs(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}
