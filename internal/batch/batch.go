// Package batch reads task batches from JSON or YAML documents.
//
// A document is either a bare list of task objects or an envelope carrying
// the list under "tasks" together with an optional subject and grade.
// Tasks are handed to the engine untouched, as raw JSON objects.
package batch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format names a document encoding.
type Format string

const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Batch is a decoded document. Subject and Grade are zero when the document
// does not carry them.
type Batch struct {
	Subject string            `json:"subject,omitempty"`
	Grade   int               `json:"grade,omitempty"`
	Tasks   []json.RawMessage `json:"tasks"`
}

// ErrNoTasks is returned for an envelope without a "tasks" key.
var ErrNoTasks = errors.New(`document has no "tasks" list`)

// ReadFile decodes the document at path, choosing the format from the file
// extension and falling back to content sniffing.
func ReadFile(path string) (*Batch, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}
	b, err := Decode(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Read decodes a whole document from r.
func Read(r io.Reader, format Format) (*Batch, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}
	return Decode(data, format)
}

// FormatFromPath maps .json, .yaml and .yml to a format. Other extensions
// give FormatAuto.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatAuto
}

// Decode parses data in the given format. FormatAuto treats documents whose
// first non-space byte is '[' or '{' as JSON and everything else as YAML.
func Decode(data []byte, format Format) (*Batch, error) {
	if format == FormatAuto {
		format = sniff(data)
	}
	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatYAML:
		return decodeYAML(data)
	}
	return nil, fmt.Errorf("unsupported batch format %q", format)
}

func sniff(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return FormatJSON
	}
	return FormatYAML
}

func decodeJSON(data []byte) (*Batch, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var tasks []json.RawMessage
		if err := json.Unmarshal(trimmed, &tasks); err != nil {
			return nil, fmt.Errorf("parse json batch: %w", err)
		}
		return &Batch{Tasks: tasks}, nil
	}

	var env struct {
		Subject string             `json:"subject"`
		Grade   int                `json:"grade"`
		Tasks   *[]json.RawMessage `json:"tasks"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("parse json batch: %w", err)
	}
	if env.Tasks == nil {
		return nil, ErrNoTasks
	}
	return &Batch{Subject: env.Subject, Grade: env.Grade, Tasks: *env.Tasks}, nil
}

func decodeYAML(data []byte) (*Batch, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml batch: %w", err)
	}

	var (
		b     Batch
		items []any
	)
	switch d := doc.(type) {
	case []any:
		items = d
	case map[string]any:
		list, ok := d["tasks"]
		if !ok {
			return nil, ErrNoTasks
		}
		if items, ok = list.([]any); !ok && list != nil {
			return nil, fmt.Errorf(`"tasks" must be a list, got %T`, list)
		}
		if s, ok := d["subject"].(string); ok {
			b.Subject = s
		}
		if g, ok := d["grade"].(int); ok {
			b.Grade = g
		}
	case nil:
		return nil, ErrNoTasks
	default:
		return nil, fmt.Errorf("batch must be a list or a mapping, got %T", doc)
	}

	b.Tasks = make([]json.RawMessage, len(items))
	for i, it := range items {
		raw, err := json.Marshal(jsonCompatible(it))
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		b.Tasks[i] = raw
	}
	return &b, nil
}

// jsonCompatible rewrites mappings with non-string keys, which yaml.v3
// produces for documents like {1: a}, into string-keyed maps.
func jsonCompatible(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = jsonCompatible(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[fmt.Sprint(k)] = jsonCompatible(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = jsonCompatible(e)
		}
		return out
	}
	return v
}
