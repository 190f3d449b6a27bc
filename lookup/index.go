// Package lookup builds an in-memory index over a full or compressed
// GraphQL schema and answers point queries against it: type by name, field
// by name, relationship discovery, fuzzy search, and pattern templating.
// The index is immutable once built; concurrent lookups are safe.
package lookup

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ibrunner/sageql/compress"
	"github.com/ibrunner/sageql/introspection"
)

// Form identifies which schema representation an index was built over.
type Form string

const (
	FormFull       Form = "full"
	FormCompressed Form = "compressed"
)

type fieldEntry struct {
	name        string
	description string
	typeString  string
	concrete    string
	definition  any
}

type typeEntry struct {
	name        string
	kind        introspection.TypeKind
	description string
	fields      []*fieldEntry
	definition  any
}

// Index is a name-keyed view over an immutable schema document. Both
// schema forms feed the same internal representation; only pattern support
// differs between them.
type Index struct {
	form        Form
	order       []string
	types       map[string]*typeEntry
	patterns    map[string]Pattern
	searchLimit int
}

// Form reports which schema representation the index was built over.
func (idx *Index) Form() Form {
	return idx.form
}

// Len reports the number of indexed named types.
func (idx *Index) Len() int {
	return len(idx.types)
}

// NewFullIndex validates the full introspection form once and builds the
// index in a single pass over the type collection. Unnamed meta-types are
// skipped. Pattern lookups are not available on this form.
func NewFullIndex(doc *introspection.Document) (*Index, error) {
	if err := validateFull(doc); err != nil {
		return nil, err
	}

	idx := &Index{
		form:  FormFull,
		types: make(map[string]*typeEntry, len(doc.Schema.Types)),
	}

	for _, typ := range doc.Schema.Types {
		if typ.Name == nil {
			continue
		}
		entry := &typeEntry{
			name:       *typ.Name,
			kind:       typ.Kind,
			definition: typ,
		}
		if typ.Description != nil {
			entry.description = *typ.Description
		}
		for _, field := range typ.Fields {
			fe := &fieldEntry{
				name:       field.Name,
				typeString: field.Type.String(),
				concrete:   field.Type.ConcreteName(),
				definition: field,
			}
			if field.Description != nil {
				fe.description = *field.Description
			}
			entry.fields = append(entry.fields, fe)
		}

		idx.order = append(idx.order, entry.name)
		idx.types[entry.name] = entry
	}

	return idx, nil
}

// NewCompressedIndex validates the compressed form once and builds the
// index over it. Extra patterns extend the built-in registry; a pattern
// named like a built-in replaces it.
func NewCompressedIndex(schema *compress.Schema, extra ...Pattern) (*Index, error) {
	if err := validateCompressed(schema); err != nil {
		return nil, err
	}

	idx := &Index{
		form:     FormCompressed,
		types:    make(map[string]*typeEntry, len(schema.Types)),
		patterns: builtinPatterns(),
	}
	for _, pattern := range extra {
		idx.patterns[pattern.Name] = pattern
	}

	for _, name := range sortedTypeNames(schema.Types) {
		typ := schema.Types[name]
		entry := &typeEntry{
			name:        name,
			kind:        typ.Kind,
			description: typ.Description,
			definition:  typ,
		}
		for _, field := range typ.Fields {
			entry.fields = append(entry.fields, &fieldEntry{
				name:        field.Name,
				description: field.Description,
				typeString:  field.Type,
				concrete:    concreteOf(field.Type),
				definition:  field,
			})
		}

		idx.order = append(idx.order, name)
		idx.types[name] = entry
	}

	return idx, nil
}

// concreteOf strips LIST/NON_NULL notation from a flattened type string:
// "[Episode]!" yields "Episode".
func concreteOf(typeString string) string {
	return strings.Trim(typeString, "[]!")
}

func sortedTypeNames(types map[string]*compress.Type) []string {
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

func validateFull(doc *introspection.Document) error {
	if doc == nil || doc.Schema == nil {
		return &SchemaValidationError{Path: "__schema", Reason: "missing schema root"}
	}
	if doc.Schema.Types == nil {
		return &SchemaValidationError{Path: "__schema.types", Reason: "missing types collection"}
	}

	for i, typ := range doc.Schema.Types {
		path := fmt.Sprintf("__schema.types[%d]", i)
		if typ == nil {
			return &SchemaValidationError{Path: path, Reason: "null type"}
		}
		if typ.Kind == "" {
			return &SchemaValidationError{Path: path + ".kind", Reason: "missing kind"}
		}
		for j, field := range typ.Fields {
			fieldPath := fmt.Sprintf("%s.fields[%d]", path, j)
			if field == nil {
				return &SchemaValidationError{Path: fieldPath, Reason: "null field"}
			}
			if field.Name == "" {
				return &SchemaValidationError{Path: fieldPath + ".name", Reason: "missing name"}
			}
			if err := validateTypeRef(&field.Type, fieldPath+".type"); err != nil {
				return err
			}
		}
	}

	return nil
}

// validateTypeRef enforces the reference invariant: a wrapper kind must
// carry ofType, a named kind must carry a name. Wrapper depth is finite by
// construction, so plain recursion is bounded.
func validateTypeRef(ref *introspection.TypeRef, path string) error {
	switch ref.Kind {
	case introspection.TypeKindList, introspection.TypeKindNonNull:
		if ref.OfType == nil {
			return &SchemaValidationError{Path: path, Reason: string(ref.Kind) + " wrapper missing ofType"}
		}

		return validateTypeRef(ref.OfType, path+".ofType")
	case "":
		return &SchemaValidationError{Path: path, Reason: "missing kind"}
	default:
		if ref.Name == nil || *ref.Name == "" {
			return &SchemaValidationError{Path: path, Reason: "named reference missing name"}
		}

		return nil
	}
}

func validateCompressed(schema *compress.Schema) error {
	if schema == nil {
		return &SchemaValidationError{Path: "schema", Reason: "missing schema root"}
	}
	if schema.Types == nil {
		return &SchemaValidationError{Path: "types", Reason: "missing types collection"}
	}

	for name, typ := range schema.Types {
		path := fmt.Sprintf("types[%s]", name)
		if name == "" {
			return &SchemaValidationError{Path: "types", Reason: "empty type name"}
		}
		if typ == nil {
			return &SchemaValidationError{Path: path, Reason: "null type"}
		}
		if typ.Kind == "" {
			return &SchemaValidationError{Path: path + ".kind", Reason: "missing kind"}
		}
		for j, field := range typ.Fields {
			fieldPath := fmt.Sprintf("%s.fields[%d]", path, j)
			if field == nil {
				return &SchemaValidationError{Path: fieldPath, Reason: "null field"}
			}
			if field.Name == "" {
				return &SchemaValidationError{Path: fieldPath + ".name", Reason: "missing name"}
			}
			if field.Type == "" {
				return &SchemaValidationError{Path: fieldPath + ".type", Reason: "missing type"}
			}
		}
	}

	return nil
}
