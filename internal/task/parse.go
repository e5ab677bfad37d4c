package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
)

// ShapeError reports a raw object that cannot be coerced into any task
// variant.
type ShapeError struct {
	Field   string // Dotted path of the offending value, "" for the whole object
	Message string // Human-readable description
}

func (e *ShapeError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Parse coerces one raw generator object into a Task. Any failure is
// returned as a *ShapeError; Parse never panics on malformed input.
func Parse(raw json.RawMessage) (Task, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &ShapeError{Message: fmt.Sprintf("invalid JSON: %v", err)}
	}

	obj, ok := parsed.(map[string]any)
	if !ok {
		return nil, &ShapeError{Message: fmt.Sprintf("task must be an object, got %s", jsonTypeOf(parsed))}
	}

	discriminant, present := obj["type"]
	if !present {
		return nil, &ShapeError{Field: "type", Message: "missing task type"}
	}
	name, ok := discriminant.(string)
	if !ok {
		return nil, &ShapeError{Field: "type", Message: fmt.Sprintf("task type must be a string, got %s", jsonTypeOf(discriminant))}
	}
	k := Kind(name)
	schema, ok := compiled[k]
	if !ok {
		return nil, &ShapeError{Field: "type", Message: fmt.Sprintf("unknown task type %q", name)}
	}

	if err := schema.Validate(parsed); err != nil {
		return nil, shapeErrorFrom(k, err)
	}

	t := newTask(k)
	if err := json.Unmarshal(raw, t); err != nil {
		return nil, &ShapeError{Message: fmt.Sprintf("decode %s: %v", k, err)}
	}
	return t, nil
}

func newTask(k Kind) Task {
	switch k {
	case KindSingleChoice:
		return &SingleChoice{}
	case KindMultipleChoice:
		return &MultipleChoice{}
	case KindOpenQuestion:
		return &OpenQuestion{}
	case KindMatching:
		return &Matching{}
	case KindFillBlank:
		return &FillBlank{}
	}
	panic(fmt.Sprintf("task: no variant for kind %q", k))
}

// shapeErrorFrom reduces a schema validation error to its most specific
// cause. Map iteration inside the validator makes cause order unstable, so
// the pick is made by location and keyword to keep results reproducible.
func shapeErrorFrom(k Kind, err error) *ShapeError {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return &ShapeError{Message: fmt.Sprintf("does not match %s shape: %v", k, err)}
	}

	leaves := collectLeaves(verr, nil)
	sort.SliceStable(leaves, func(i, j int) bool {
		a, b := leaves[i], leaves[j]
		if len(a.InstanceLocation) != len(b.InstanceLocation) {
			return len(a.InstanceLocation) > len(b.InstanceLocation)
		}
		pa, pb := fieldPath(a.InstanceLocation), fieldPath(b.InstanceLocation)
		if pa != pb {
			return pa < pb
		}
		return keyword(a) < keyword(b)
	})
	leaf := leaves[0]

	field := fieldPath(leaf.InstanceLocation)
	switch ek := leaf.ErrorKind.(type) {
	case *kind.Required:
		if len(ek.Missing) == 0 {
			break
		}
		missing := append([]string(nil), ek.Missing...)
		sort.Strings(missing)
		return &ShapeError{
			Field:   joinField(field, missing[0]),
			Message: fmt.Sprintf("missing required %s field %q", k, missing[0]),
		}
	case *kind.Type:
		return &ShapeError{
			Field:   field,
			Message: fmt.Sprintf("got %s, want %s", ek.Got, strings.Join(ek.Want, " or ")),
		}
	}
	return &ShapeError{
		Field:   field,
		Message: fmt.Sprintf("fails %q constraint of %s shape", keyword(leaf), k),
	}
}

func collectLeaves(e *jsonschema.ValidationError, acc []*jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(e.Causes) == 0 {
		return append(acc, e)
	}
	for _, c := range e.Causes {
		acc = collectLeaves(c, acc)
	}
	return acc
}

func keyword(e *jsonschema.ValidationError) string {
	if e.ErrorKind == nil {
		return ""
	}
	return strings.Join(e.ErrorKind.KeywordPath(), "/")
}

// fieldPath renders a JSON instance location as a dotted path such as
// "blanks[0].position".
func fieldPath(loc []string) string {
	var b strings.Builder
	for _, tok := range loc {
		if _, err := strconv.Atoi(tok); err == nil {
			fmt.Fprintf(&b, "[%s]", tok)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(tok)
	}
	return b.String()
}

func joinField(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func jsonTypeOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
