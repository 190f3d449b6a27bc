package lookup

import (
	"testing"

	"github.com/ibrunner/sageql/compress"
	"github.com/ibrunner/sageql/introspection"
)

func strp(s string) *string { return &s }

func named(kind introspection.TypeKind, name string) introspection.TypeRef {
	return introspection.TypeRef{Kind: kind, Name: strp(name)}
}

func nonNull(inner introspection.TypeRef) introspection.TypeRef {
	return introspection.TypeRef{Kind: introspection.TypeKindNonNull, OfType: &inner}
}

func list(inner introspection.TypeRef) introspection.TypeRef {
	return introspection.TypeRef{Kind: introspection.TypeKindList, OfType: &inner}
}

// showDocument is the Character/Episode fixture: two object types
// referencing each other, an enum, scalars, and an unnamed meta type.
func showDocument() *introspection.Document {
	return &introspection.Document{
		Schema: &introspection.Schema{
			QueryType: &introspection.RootType{Name: strp("Query")},
			Types: introspection.FullTypes{
				{
					Kind:        introspection.TypeKindObject,
					Name:        strp("Query"),
					Description: strp("The query root"),
					Fields: []*introspection.FieldValue{
						{
							Name: "character",
							Type: named(introspection.TypeKindObject, "Character"),
						},
						{
							Name: "episode",
							Type: named(introspection.TypeKindObject, "Episode"),
						},
					},
				},
				{
					Kind:        introspection.TypeKindObject,
					Name:        strp("Character"),
					Description: strp("A character from the show"),
					Fields: []*introspection.FieldValue{
						{
							Name:        "id",
							Description: strp("The id of the character"),
							Type:        nonNull(named(introspection.TypeKindScalar, "ID")),
						},
						{
							Name:        "name",
							Description: strp("The name of the character"),
							Type:        named(introspection.TypeKindScalar, "String"),
						},
						{
							Name:        "status",
							Description: strp("Whether the character is alive"),
							Type:        named(introspection.TypeKindEnum, "CharacterStatus"),
						},
						{
							Name:        "episode",
							Description: strp("Episodes this character appeared in"),
							Type:        nonNull(list(named(introspection.TypeKindObject, "Episode"))),
						},
					},
				},
				{
					Kind:        introspection.TypeKindObject,
					Name:        strp("Episode"),
					Description: strp("An episode of the show"),
					Fields: []*introspection.FieldValue{
						{
							Name: "id",
							Type: nonNull(named(introspection.TypeKindScalar, "ID")),
						},
						{
							Name:        "name",
							Description: strp("The name of the episode"),
							Type:        named(introspection.TypeKindScalar, "String"),
						},
						{
							Name:        "characters",
							Description: strp("Characters who appeared in this episode"),
							Type:        nonNull(list(named(introspection.TypeKindObject, "Character"))),
						},
					},
				},
				{
					Kind:        introspection.TypeKindEnum,
					Name:        strp("CharacterStatus"),
					Description: strp("Alive, dead, or unknown"),
					EnumValues: []*introspection.EnumValue{
						{Name: "ALIVE"},
						{Name: "DEAD"},
					},
				},
				{
					Kind: introspection.TypeKindScalar,
					Name: strp("ID"),
				},
				{
					Kind: introspection.TypeKindScalar,
					Name: strp("String"),
				},
				{
					Kind: introspection.TypeKindObject,
					// unnamed meta type, excluded from the index
				},
			},
		},
	}
}

func fullIndex(t *testing.T) *Index {
	t.Helper()

	idx, err := NewFullIndex(showDocument())
	if err != nil {
		t.Fatalf("NewFullIndex() error = %v", err)
	}

	return idx
}

func compressedIndex(t *testing.T, extra ...Pattern) *Index {
	t.Helper()

	schema, err := compress.Compress(showDocument(), compress.DefaultOptions())
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}

	idx, err := NewCompressedIndex(schema, extra...)
	if err != nil {
		t.Fatalf("NewCompressedIndex() error = %v", err)
	}

	return idx
}
