package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/opgraph/pkg/dag"
	"github.com/matzehuels/opgraph/pkg/errors"
)

// Format identifies a graph document encoding.
type Format string

// Supported document formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the document format from a file extension.
// Anything other than .toml, .yaml or .yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a graph to JSON bytes.
// The output is deterministic for a given graph.
func MarshalGraph(g *dag.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes a graph as indented JSON to w.
func WriteGraph(g *dag.Graph, w io.Writer) error {
	return EncodeGraph(w, FromDAG(g), FormatJSON)
}

// EncodeGraph writes a graph document to w in the given format.
func EncodeGraph(w io.Writer, doc Graph, format Format) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported graph format %q", format)
	}
	return nil
}

// WriteGraphFile writes a graph file whose format is chosen by extension.
func WriteGraphFile(g *dag.Graph, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return EncodeGraph(f, FromDAG(g), FormatFromPath(path))
}

// DecodeGraph decodes a graph document without building the graph.
func DecodeGraph(r io.Reader, format Format) (Graph, error) {
	var doc Graph
	switch format {
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
		}
	default:
		return Graph{}, errors.New(errors.ErrCodeUnsupported, "unsupported graph format %q", format)
	}
	return doc, nil
}

// ReadGraph decodes a graph document from r and builds the graph.
func ReadGraph(r io.Reader, format Format) (*dag.Graph, error) {
	doc, err := DecodeGraph(r, format)
	if err != nil {
		return nil, err
	}
	return ToDAG(doc)
}

// ReadGraphFile reads a graph file whose format is chosen by extension.
func ReadGraphFile(path string) (*dag.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f, FormatFromPath(path))
}

// =============================================================================
// Schedule Serialization API
// =============================================================================

// MarshalSchedule converts a schedule to JSON bytes.
func MarshalSchedule(s Schedule) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode schedule: %w", err)
	}
	return data, nil
}

// UnmarshalSchedule decodes a schedule from JSON bytes.
func UnmarshalSchedule(data []byte) (Schedule, error) {
	var s Schedule
	if err := json.Unmarshal(data, &s); err != nil {
		return Schedule{}, fmt.Errorf("decode schedule: %w", err)
	}
	return s, nil
}

// WriteSchedule writes a schedule as indented JSON to w.
func WriteSchedule(s Schedule, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	return nil
}
