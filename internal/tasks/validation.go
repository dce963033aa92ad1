package tasks

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const taskSchemaURL = "tasks://task.schema.json"

// Every key is always present in the document view; absent values are null
// so each field reports its own violation.
const taskSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["title", "deadline", "priority", "completed", "createdAt"],
	"properties": {
		"title":     {"type": "string", "minLength": 1},
		"desc":      {"type": "string"},
		"deadline":  {"type": "string", "format": "date-time"},
		"priority":  {"enum": ["low", "medium", "high"]},
		"completed": {"type": "boolean"},
		"createdAt": {"type": "string", "format": "date-time"}
	}
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		if err := compiler.AddResource(taskSchemaURL, strings.NewReader(taskSchema)); err != nil {
			schemaErr = fmt.Errorf("add task schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(taskSchemaURL)
	})
	return schema, schemaErr
}

type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the outcome of Validate. An empty result means the task is valid.
type Result struct {
	Violations []Violation `json:"violations"`
}

func (r Result) OK() bool { return len(r.Violations) == 0 }

// Err returns nil for a valid result and a *ValidationError otherwise.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &ValidationError{Violations: r.Violations}
}

type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "Task validation failed: " + strings.Join(parts, ", ")
}

// Validate checks t against the task schema. It does no I/O.
func Validate(t Task) Result {
	sch, err := compiledSchema()
	if err != nil {
		return Result{Violations: []Violation{{Field: "", Message: err.Error()}}}
	}

	err = sch.Validate(document(t))
	if err == nil {
		return Result{}
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return Result{Violations: []Violation{{Field: "", Message: err.Error()}}}
	}

	var out []Violation
	collectViolations(ve, t, &out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return Result{Violations: dedupe(out)}
}

// document is the JSON view the schema is evaluated against.
func document(t Task) map[string]any {
	doc := map[string]any{
		"title":     nil,
		"deadline":  nil,
		"priority":  string(t.Priority),
		"completed": t.Completed,
		"createdAt": nil,
	}
	if t.Title != "" {
		doc["title"] = t.Title
	}
	if t.Desc != "" {
		doc["desc"] = t.Desc
	}
	if !t.Deadline.IsZero() {
		doc["deadline"] = t.Deadline.UTC().Format(time.RFC3339Nano)
	}
	if !t.CreatedAt.IsZero() {
		doc["createdAt"] = t.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return doc
}

func collectViolations(err *jsonschema.ValidationError, t Task, out *[]Violation) {
	if len(err.Causes) == 0 {
		field := strings.TrimPrefix(err.InstanceLocation, "/")
		*out = append(*out, Violation{Field: field, Message: violationMessage(field, keyword(err.KeywordLocation), err.Message, t)})
		return
	}
	for _, cause := range err.Causes {
		collectViolations(cause, t, out)
	}
}

func keyword(location string) string {
	if i := strings.LastIndex(location, "/"); i >= 0 {
		return location[i+1:]
	}
	return location
}

func violationMessage(field, kw, fallback string, t Task) string {
	switch {
	case field == "priority" && kw == "enum":
		return fmt.Sprintf("`%s` is not a valid enum value for path `priority`", t.Priority)
	case kw == "type" || kw == "minLength":
		return fmt.Sprintf("Path `%s` is required.", field)
	}
	return fallback
}

func dedupe(in []Violation) []Violation {
	out := in[:0]
	seen := make(map[Violation]bool, len(in))
	for _, v := range in {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
