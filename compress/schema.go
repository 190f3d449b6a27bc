package compress

import (
	"encoding/json"
	"fmt"

	"github.com/ibrunner/sageql/introspection"
)

// Schema is the compressed projection of an introspection document. Type
// references are flattened to strings ("[Episode]!"), the type collection
// is keyed by name, and empty collections are omitted entirely. It is a
// lossy, context-oriented projection, not a serialization format.
type Schema struct {
	QueryType        string           `json:"queryType,omitempty"`
	MutationType     string           `json:"mutationType,omitempty"`
	SubscriptionType string           `json:"subscriptionType,omitempty"`
	Types            map[string]*Type `json:"types"`
	Directives       []*Directive     `json:"directives,omitempty"`
}

type Type struct {
	Kind          introspection.TypeKind `json:"kind"`
	Description   string                 `json:"description,omitempty"`
	Fields        []*Field               `json:"fields,omitempty"`
	InputFields   []*Field               `json:"inputFields,omitempty"`
	EnumValues    []string               `json:"enumValues,omitempty"`
	Interfaces    []string               `json:"interfaces,omitempty"`
	PossibleTypes []string               `json:"possibleTypes,omitempty"`
}

type Field struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
	Args        []*Arg `json:"args,omitempty"`
	Default     string `json:"default,omitempty"`
}

type Arg struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
	Default     string `json:"default,omitempty"`
}

type Directive struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Locations   []string `json:"locations,omitempty"`
	Args        []*Arg   `json:"args,omitempty"`
}

// ParseSchema parses a compressed schema snapshot back into memory, e.g.
// for building a lookup index over it.
func ParseSchema(data []byte) (*Schema, error) {
	var schema Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("unable to parse compressed schema: %w", err)
	}
	if schema.Types == nil {
		return nil, &introspection.InvalidSchemaError{Reason: "missing types"}
	}

	return &schema, nil
}
