// Package tools exposes extraction as named, schema-described tools.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	// ErrUnknownTool is returned by Call for a name that is not registered.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrInvalidArguments is returned by Call when args do not satisfy the
	// tool schema.
	ErrInvalidArguments = errors.New("invalid arguments")
)

// Handler executes a tool with raw JSON arguments and returns a raw JSON
// result. Failures the caller should see are encoded in the result.
type Handler func(ctx context.Context, args json.RawMessage) (json.RawMessage, error)

// Definition describes a callable tool. Name is lowercase snake_case and
// stable across versions.
type Definition struct {
	Name         string
	SemVer       string
	Description  string
	Schema       json.RawMessage
	Capabilities []string
	Handler      Handler
}

// Meta is the serializable catalog view of a tool.
type Meta struct {
	Name         string   `json:"name"`
	SemVer       string   `json:"semver"`
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities"`
}

// Spec is a tool as offered to a model.
type Spec struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Schema      json.RawMessage `json:"parameters"`
}

// Registry holds tools keyed by name. It is not safe for concurrent
// registration; lookups after setup are read-only.
type Registry struct {
	defs    map[string]Definition
	schemas map[string]*jsonschema.Schema
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		defs:    make(map[string]Definition),
		schemas: make(map[string]*jsonschema.Schema),
	}
}

var (
	nameRe   = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	semverRe = regexp.MustCompile(`^v?(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:-[0-9A-Za-z.-]+)?(?:\+[0-9A-Za-z.-]+)?$`)
)

// Register adds or replaces a tool by name.
func (r *Registry) Register(def Definition) error {
	if !nameRe.MatchString(def.Name) {
		return fmt.Errorf("invalid tool name %q: must be lowercase snake_case starting with a letter", def.Name)
	}
	if !semverRe.MatchString(def.SemVer) {
		return fmt.Errorf("invalid semver %q for tool %s", def.SemVer, def.Name)
	}
	if !isJSONObject(def.Schema) {
		return fmt.Errorf("schema for tool %s must be a JSON object", def.Name)
	}
	if def.Handler == nil {
		return fmt.Errorf("handler for tool %s must not be nil", def.Name)
	}
	schema, err := compileSchema(def.Name, def.Schema)
	if err != nil {
		return fmt.Errorf("compile schema for tool %s: %w", def.Name, err)
	}

	caps := make([]string, 0, len(def.Capabilities))
	for _, c := range def.Capabilities {
		if c = strings.TrimSpace(c); c != "" {
			caps = append(caps, c)
		}
	}
	def.Capabilities = caps

	if r.defs == nil {
		r.defs = make(map[string]Definition)
		r.schemas = make(map[string]*jsonschema.Schema)
	}
	r.defs[def.Name] = def
	r.schemas[def.Name] = schema
	return nil
}

// Get returns the definition registered under name.
func (r *Registry) Get(name string) (Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Call validates args against the tool schema and runs the named tool.
// Empty args are treated as an empty object.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error) {
	def, ok := r.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if len(strings.TrimSpace(string(args))) == 0 {
		args = json.RawMessage(`{}`)
	}
	if err := r.validate(name, args); err != nil {
		return nil, err
	}
	return def.Handler(ctx, args)
}

func (r *Registry) validate(name string, args json.RawMessage) error {
	dec := json.NewDecoder(bytes.NewReader(args))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w for %s: %v", ErrInvalidArguments, name, err)
	}

	schema := r.schemas[name]
	if schema == nil {
		return nil
	}
	if err := schema.Validate(v); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%w for %s: %s", ErrInvalidArguments, name, validationMessage(verr))
		}
		return fmt.Errorf("%w for %s: %v", ErrInvalidArguments, name, err)
	}
	return nil
}

// validationMessage flattens the leaf causes into "location: message" pairs.
func validationMessage(err *jsonschema.ValidationError) string {
	var parts []string
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			loc := node.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			parts = append(parts, loc+": "+strings.TrimSpace(node.Message))
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return strings.Join(parts, "; ")
}

func compileSchema(name string, raw json.RawMessage) (*jsonschema.Schema, error) {
	resource := name + ".schema.json"
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(resource, bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	return compiler.Compile(resource)
}

func (r *Registry) names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Specs returns model-facing tool specs sorted by name.
func (r *Registry) Specs() []Spec {
	names := r.names()
	specs := make([]Spec, 0, len(names))
	for _, name := range names {
		def := r.defs[name]
		specs = append(specs, Spec{
			Name:        def.Name,
			Description: def.Description,
			Schema:      def.Schema,
		})
	}
	return specs
}

// Catalog returns tool metadata sorted by name.
func (r *Registry) Catalog() []Meta {
	names := r.names()
	out := make([]Meta, 0, len(names))
	for _, name := range names {
		def := r.defs[name]
		out = append(out, Meta{
			Name:         def.Name,
			SemVer:       def.SemVer,
			Description:  def.Description,
			Capabilities: append([]string{}, def.Capabilities...),
		})
	}
	return out
}

func isJSONObject(raw json.RawMessage) bool {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	_, ok := v.(map[string]any)
	return ok
}
