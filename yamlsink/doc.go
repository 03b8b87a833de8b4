// Package yamlsink renders canonical events as YAML documents with
// gopkg.in/yaml.v3.
//
// Events are assembled into a yaml.Node tree, so mapping order is exactly
// the canonical member order, and every scalar carries an explicit core
// tag (!!str, !!int, !!float, !!bool, !!null). Strings that would read
// back as another type are quoted by the emitter. Each top-level value is
// written as its own document.
package yamlsink
