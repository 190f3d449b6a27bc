package lookup

import "github.com/ibrunner/sageql/introspection"

// TypeResult carries the full definition of a looked-up type. Definition
// holds the form-specific shape: *introspection.FullType for a full index,
// *compress.Type for a compressed one.
type TypeResult struct {
	Name       string `json:"name"`
	Kind       string `json:"kind,omitempty"`
	Definition any    `json:"definition"`
}

// FieldResult carries a single field with its normalized type string and
// the concrete (reference-unwrapped) type name.
type FieldResult struct {
	TypeID     string `json:"typeId"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Concrete   string `json:"concreteType,omitempty"`
	Definition any    `json:"definition"`
}

// RelationshipsResult maps field names to related type names. Outgoing is
// keyed by the type's own field names; incoming is keyed "Other.field" and
// maps to the owning type's name.
type RelationshipsResult struct {
	TypeID   string            `json:"typeId"`
	Outgoing map[string]string `json:"outgoing,omitempty"`
	Incoming map[string]string `json:"incoming,omitempty"`
}

// Type returns the definition of the named type.
func (idx *Index) Type(id string) (*TypeResult, error) {
	entry, ok := idx.types[id]
	if !ok {
		return nil, &TypeNotFoundError{Name: id}
	}

	return &TypeResult{
		Name:       entry.name,
		Kind:       string(entry.kind),
		Definition: entry.definition,
	}, nil
}

// Field resolves the owning type first, then the field by name.
func (idx *Index) Field(typeID, fieldID string) (*FieldResult, error) {
	entry, ok := idx.types[typeID]
	if !ok {
		return nil, &TypeNotFoundError{Name: typeID}
	}

	for _, field := range entry.fields {
		if field.name != fieldID {
			continue
		}

		return &FieldResult{
			TypeID:     typeID,
			Name:       field.name,
			Type:       field.typeString,
			Concrete:   field.concrete,
			Definition: field.definition,
		}, nil
	}

	return nil, &FieldNotFoundError{Type: typeID, Field: fieldID}
}

// Relationships discovers one hop of the named-type graph around a type.
// Outgoing edges are the type's own fields whose concrete type is a known
// OBJECT-kind type; scalar and enum fields are attributes, not
// relationships. Incoming edges come from a scan over every other type's
// fields, which is bounded by schema size and only runs on demand.
func (idx *Index) Relationships(typeID string) (*RelationshipsResult, error) {
	entry, ok := idx.types[typeID]
	if !ok {
		return nil, &TypeNotFoundError{Name: typeID}
	}

	result := &RelationshipsResult{TypeID: typeID}

	for _, field := range entry.fields {
		target, ok := idx.types[field.concrete]
		if !ok || target.kind != introspection.TypeKindObject {
			continue
		}
		if result.Outgoing == nil {
			result.Outgoing = map[string]string{}
		}
		result.Outgoing[field.name] = field.concrete
	}

	for _, name := range idx.order {
		if name == typeID {
			continue
		}
		other := idx.types[name]
		for _, field := range other.fields {
			if field.concrete != typeID {
				continue
			}
			if result.Incoming == nil {
				result.Incoming = map[string]string{}
			}
			result.Incoming[name+"."+field.name] = name
		}
	}

	return result, nil
}

// Lookup dispatches a single request and surfaces errors by returning
// them. Batch processing downgrades these same errors to recorded
// metadata; see LookupBatch.
func (idx *Index) Lookup(request Request) (any, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	switch {
	case request.Type != nil:
		return idx.Type(request.Type.ID)
	case request.Field != nil:
		return idx.Field(request.Field.TypeID, request.Field.FieldID)
	case request.Relationships != nil:
		return idx.Relationships(request.Relationships.TypeID)
	case request.Search != nil:
		return idx.Search(request.Search.Query, request.Search.Limit), nil
	default:
		return idx.Pattern(request.Pattern.Name, request.Pattern.Params)
	}
}
