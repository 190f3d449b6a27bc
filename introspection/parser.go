package introspection

import (
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// Built-in definitions already provided by the gqlparser prelude. Emitting
// them again would make schema validation fail with redeclaration errors.
var builtinScalars = map[string]struct{}{
	"Int":     {},
	"Float":   {},
	"String":  {},
	"Boolean": {},
	"ID":      {},
}

var builtinDirectives = map[string]struct{}{
	"skip":        {},
	"include":     {},
	"deprecated":  {},
	"specifiedBy": {},
	"defer":       {},
	"oneOf":       {},
}

// SchemaDocument converts an introspection document into a gqlparser
// schema document so it can be validated and used for query validation.
func SchemaDocument(doc *Document) (*ast.SchemaDocument, error) {
	if doc == nil || doc.Schema == nil {
		return nil, &InvalidSchemaError{Reason: "missing schema root"}
	}

	out := &ast.SchemaDocument{
		Schema: ast.SchemaDefinitionList{schemaDefinition(doc.Schema)},
	}

	for _, typ := range doc.Schema.Types {
		if typ == nil || typ.Name == nil {
			continue
		}
		name := *typ.Name
		if strings.HasPrefix(name, "__") {
			continue
		}
		if typ.Kind == TypeKindScalar {
			if _, ok := builtinScalars[name]; ok {
				continue
			}
		}

		out.Definitions = append(out.Definitions, typeDefinition(typ))
	}

	for _, directive := range doc.Schema.Directives {
		if directive == nil {
			continue
		}
		if _, ok := builtinDirectives[directive.Name]; ok {
			continue
		}

		out.Directives = append(out.Directives, directiveDefinition(directive))
	}

	return out, nil
}

func schemaDefinition(schema *Schema) *ast.SchemaDefinition {
	def := &ast.SchemaDefinition{}

	if schema.QueryType != nil && schema.QueryType.Name != nil {
		def.OperationTypes = append(def.OperationTypes, &ast.OperationTypeDefinition{
			Operation: ast.Query,
			Type:      *schema.QueryType.Name,
		})
	}
	if schema.MutationType != nil && schema.MutationType.Name != nil {
		def.OperationTypes = append(def.OperationTypes, &ast.OperationTypeDefinition{
			Operation: ast.Mutation,
			Type:      *schema.MutationType.Name,
		})
	}
	if schema.SubscriptionType != nil && schema.SubscriptionType.Name != nil {
		def.OperationTypes = append(def.OperationTypes, &ast.OperationTypeDefinition{
			Operation: ast.Subscription,
			Type:      *schema.SubscriptionType.Name,
		})
	}

	return def
}

func typeDefinition(typ *FullType) *ast.Definition {
	def := &ast.Definition{
		Kind: definitionKind(typ.Kind),
		Name: *typ.Name,
	}
	if typ.Description != nil {
		def.Description = *typ.Description
	}

	for _, field := range typ.Fields {
		if field == nil {
			continue
		}
		def.Fields = append(def.Fields, fieldDefinition(field))
	}

	for _, input := range typ.InputFields {
		if input == nil {
			continue
		}
		def.Fields = append(def.Fields, inputFieldDefinition(input))
	}

	for _, iface := range typ.Interfaces {
		if name := iface.ConcreteName(); name != "" {
			def.Interfaces = append(def.Interfaces, name)
		}
	}

	for _, possible := range typ.PossibleTypes {
		if typ.Kind != TypeKindUnion {
			break
		}
		if name := possible.ConcreteName(); name != "" {
			def.Types = append(def.Types, name)
		}
	}

	for _, enumValue := range typ.EnumValues {
		if enumValue == nil {
			continue
		}
		value := &ast.EnumValueDefinition{Name: enumValue.Name}
		if enumValue.Description != nil {
			value.Description = *enumValue.Description
		}
		def.EnumValues = append(def.EnumValues, value)
	}

	return def
}

func fieldDefinition(field *FieldValue) *ast.FieldDefinition {
	def := &ast.FieldDefinition{
		Name: field.Name,
		Type: astType(&field.Type),
	}
	if field.Description != nil {
		def.Description = *field.Description
	}
	for _, arg := range field.Args {
		if arg == nil {
			continue
		}
		def.Arguments = append(def.Arguments, argumentDefinition(arg))
	}

	return def
}

func inputFieldDefinition(input *InputValue) *ast.FieldDefinition {
	def := &ast.FieldDefinition{
		Name:         input.Name,
		Type:         astType(&input.Type),
		DefaultValue: defaultValue(input.DefaultValue),
	}
	if input.Description != nil {
		def.Description = *input.Description
	}

	return def
}

func argumentDefinition(input *InputValue) *ast.ArgumentDefinition {
	def := &ast.ArgumentDefinition{
		Name:         input.Name,
		Type:         astType(&input.Type),
		DefaultValue: defaultValue(input.DefaultValue),
	}
	if input.Description != nil {
		def.Description = *input.Description
	}

	return def
}

func directiveDefinition(directive *DirectiveType) *ast.DirectiveDefinition {
	def := &ast.DirectiveDefinition{
		Name: directive.Name,
	}
	if directive.Description != nil {
		def.Description = *directive.Description
	}
	for _, location := range directive.Locations {
		def.Locations = append(def.Locations, ast.DirectiveLocation(location))
	}
	for _, arg := range directive.Args {
		if arg == nil {
			continue
		}
		def.Arguments = append(def.Arguments, argumentDefinition(arg))
	}

	return def
}

func definitionKind(kind TypeKind) ast.DefinitionKind {
	switch kind {
	case TypeKindObject:
		return ast.Object
	case TypeKindInterface:
		return ast.Interface
	case TypeKindUnion:
		return ast.Union
	case TypeKindEnum:
		return ast.Enum
	case TypeKindInputObject:
		return ast.InputObject
	default:
		return ast.Scalar
	}
}

func astType(ref *TypeRef) *ast.Type {
	if ref == nil {
		return nil
	}

	switch ref.Kind {
	case TypeKindNonNull:
		inner := astType(ref.OfType)
		if inner == nil {
			return nil
		}
		inner.NonNull = true

		return inner
	case TypeKindList:
		return ast.ListType(astType(ref.OfType), nil)
	default:
		if ref.Name == nil {
			return nil
		}

		return ast.NamedType(*ref.Name, nil)
	}
}

// defaultValue classifies an introspected default-value literal. The
// introspection result carries defaults as raw GraphQL literals, so the
// kind has to be recovered from the text.
func defaultValue(raw *string) *ast.Value {
	if raw == nil {
		return nil
	}

	value := *raw
	kind := ast.EnumValue
	switch {
	case value == "null":
		kind = ast.NullValue
	case value == "true" || value == "false":
		kind = ast.BooleanValue
	case strings.HasPrefix(value, `"`):
		kind = ast.StringValue
		value = strings.Trim(value, `"`)
	case strings.HasPrefix(value, "["):
		kind = ast.ListValue
	case strings.HasPrefix(value, "{"):
		kind = ast.ObjectValue
	case isNumeric(value):
		if strings.ContainsAny(value, ".eE") {
			kind = ast.FloatValue
		} else {
			kind = ast.IntValue
		}
	}

	return &ast.Value{Raw: value, Kind: kind}
}

func isNumeric(value string) bool {
	if value == "" {
		return false
	}
	for i, r := range value {
		switch {
		case r >= '0' && r <= '9':
		case i == 0 && (r == '-' || r == '+'):
		case r == '.' || r == 'e' || r == 'E' || r == '-' || r == '+':
		default:
			return false
		}
	}

	return true
}
