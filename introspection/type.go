package introspection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

type TypeKind string

const (
	TypeKindScalar      TypeKind = "SCALAR"
	TypeKindObject      TypeKind = "OBJECT"
	TypeKindInterface   TypeKind = "INTERFACE"
	TypeKindUnion       TypeKind = "UNION"
	TypeKindEnum        TypeKind = "ENUM"
	TypeKindInputObject TypeKind = "INPUT_OBJECT"
	TypeKindList        TypeKind = "LIST"
	TypeKindNonNull     TypeKind = "NON_NULL"
)

// Document is the top-level introspection result, the standard
// `{"__schema": {...}}` envelope.
type Document struct {
	Schema *Schema `json:"__schema"`
}

type RootType struct {
	Name *string `json:"name"`
}

type Schema struct {
	QueryType        *RootType        `json:"queryType"`
	MutationType     *RootType        `json:"mutationType,omitempty"`
	SubscriptionType *RootType        `json:"subscriptionType,omitempty"`
	Types            FullTypes        `json:"types"`
	Directives       []*DirectiveType `json:"directives,omitempty"`
}

type FullTypes []*FullType

// UnmarshalJSON accepts both the standard array-of-types shape and the
// name-keyed mapping emitted by compression snapshots. Mapping input is
// ordered by name so the result is deterministic.
func (fs *FullTypes) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		byName := map[string]*FullType{}
		if err := json.Unmarshal(data, &byName); err != nil {
			return fmt.Errorf("unable to parse types mapping: %w", err)
		}

		names := make([]string, 0, len(byName))
		for name := range byName {
			names = append(names, name)
		}
		slices.Sort(names)

		types := make(FullTypes, 0, len(byName))
		for _, name := range names {
			typ := byName[name]
			if typ == nil {
				continue
			}
			if typ.Name == nil {
				n := name
				typ.Name = &n
			}
			types = append(types, typ)
		}
		*fs = types

		return nil
	}

	var types []*FullType
	if err := json.Unmarshal(data, &types); err != nil {
		return fmt.Errorf("unable to parse types array: %w", err)
	}
	*fs = types

	return nil
}

// NameMap indexes the collection by type name. Unnamed entries are skipped.
func (fs FullTypes) NameMap() map[string]*FullType {
	typeMap := make(map[string]*FullType, len(fs))
	for _, typ := range fs {
		if typ == nil || typ.Name == nil {
			continue
		}
		typeMap[*typ.Name] = typ
	}

	return typeMap
}

type FullType struct {
	Kind              TypeKind      `json:"kind"`
	Name              *string       `json:"name"`
	Description       *string       `json:"description,omitempty"`
	Fields            []*FieldValue `json:"fields,omitempty"`
	InputFields       []*InputValue `json:"inputFields,omitempty"`
	Interfaces        []*TypeRef    `json:"interfaces,omitempty"`
	EnumValues        []*EnumValue  `json:"enumValues,omitempty"`
	PossibleTypes     []*TypeRef    `json:"possibleTypes,omitempty"`
	IsDeprecated      bool          `json:"isDeprecated,omitempty"`
	DeprecationReason *string       `json:"deprecationReason,omitempty"`
}

type FieldValue struct {
	Name              string        `json:"name"`
	Description       *string       `json:"description,omitempty"`
	Args              []*InputValue `json:"args,omitempty"`
	Type              TypeRef       `json:"type"`
	IsDeprecated      bool          `json:"isDeprecated,omitempty"`
	DeprecationReason *string       `json:"deprecationReason,omitempty"`
}

type InputValue struct {
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	Type         TypeRef `json:"type"`
	DefaultValue *string `json:"defaultValue,omitempty"`
}

type EnumValue struct {
	Name              string  `json:"name"`
	Description       *string `json:"description,omitempty"`
	IsDeprecated      bool    `json:"isDeprecated,omitempty"`
	DeprecationReason *string `json:"deprecationReason,omitempty"`
}

// TypeRef is a possibly-wrapped type reference. A reference is either a
// named leaf (Name set, OfType nil) or a LIST/NON_NULL wrapper (Name nil,
// OfType set). Wrapping depth is finite even though the graph of named
// types underneath is cyclic.
type TypeRef struct {
	Kind   TypeKind `json:"kind"`
	Name   *string  `json:"name"`
	OfType *TypeRef `json:"ofType,omitempty"`
}

// String renders the reference in compact SDL notation: NON_NULL appends
// `!`, LIST wraps in `[...]`, a named leaf is its bare name.
// NON_NULL(LIST(Episode)) renders as "[Episode]!".
func (t *TypeRef) String() string {
	switch t.Kind {
	case TypeKindNonNull:
		if t.OfType == nil {
			return "!"
		}

		return t.OfType.String() + "!"
	case TypeKindList:
		if t.OfType == nil {
			return "[]"
		}

		return "[" + t.OfType.String() + "]"
	default:
		if t.Name == nil {
			return ""
		}

		return *t.Name
	}
}

// ConcreteName unwraps all LIST/NON_NULL wrappers and returns the named
// leaf, or "" when the chain is malformed.
func (t *TypeRef) ConcreteName() string {
	for ref := t; ref != nil; ref = ref.OfType {
		if ref.Name != nil {
			return *ref.Name
		}
	}

	return ""
}

type DirectiveType struct {
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	Locations   []string      `json:"locations,omitempty"`
	Args        []*InputValue `json:"args,omitempty"`
}

// InvalidSchemaError is a structural precondition failure: the input does
// not have the shape of an introspection result.
type InvalidSchemaError struct {
	Reason string
}

func (e *InvalidSchemaError) Error() string {
	return "invalid schema: " + e.Reason
}

// ParseDocument parses a raw introspection result. Both the bare
// `{"__schema": ...}` envelope and the full HTTP response shape
// `{"data": {"__schema": ...}}` are accepted.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unable to parse introspection document: %w", err)
	}
	if doc.Schema != nil {
		return &doc, nil
	}

	var envelope struct {
		Data *Document `json:"data"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Data != nil && envelope.Data.Schema != nil {
		return envelope.Data, nil
	}

	return nil, &InvalidSchemaError{Reason: "missing schema root"}
}
