// Package compress re-encodes a full GraphQL introspection document into a
// compact type catalog suitable for a token-constrained prompt. The
// transform is pure and deterministic: identical input and options always
// produce identical output, and the output never exceeds the input in
// serialized size.
package compress

import (
	"github.com/ibrunner/sageql/introspection"
)

type Options struct {
	// RemoveDescriptions strips descriptions from types, fields and
	// directives.
	RemoveDescriptions bool
	// PreserveEssentialDescriptions keeps the description of OBJECT-kind
	// types even when RemoveDescriptions is set. Field descriptions are
	// still dropped, keeping top-level documentation while shedding
	// per-field prose.
	PreserveEssentialDescriptions bool
	// RemoveDeprecated drops deprecated types from the output entirely and
	// deprecated fields from their parent's field list.
	RemoveDeprecated bool
}

func DefaultOptions() Options {
	return Options{
		RemoveDescriptions:            false,
		PreserveEssentialDescriptions: true,
		RemoveDeprecated:              true,
	}
}

// CompressJSON parses a raw introspection document and compresses it.
func CompressJSON(data []byte, opts Options) (*Schema, error) {
	doc, err := introspection.ParseDocument(data)
	if err != nil {
		return nil, err
	}

	return Compress(doc, opts)
}

// Compress projects the introspection document into the compressed form.
// A document without a schema root is a structural error.
func Compress(doc *introspection.Document, opts Options) (*Schema, error) {
	if doc == nil || doc.Schema == nil {
		return nil, &introspection.InvalidSchemaError{Reason: "missing schema root"}
	}

	out := &Schema{Types: make(map[string]*Type, len(doc.Schema.Types))}

	if doc.Schema.QueryType != nil && doc.Schema.QueryType.Name != nil {
		out.QueryType = *doc.Schema.QueryType.Name
	}
	if doc.Schema.MutationType != nil && doc.Schema.MutationType.Name != nil {
		out.MutationType = *doc.Schema.MutationType.Name
	}
	if doc.Schema.SubscriptionType != nil && doc.Schema.SubscriptionType.Name != nil {
		out.SubscriptionType = *doc.Schema.SubscriptionType.Name
	}

	for _, typ := range doc.Schema.Types {
		if typ == nil || typ.Name == nil {
			continue
		}
		if opts.RemoveDeprecated && typ.IsDeprecated {
			continue
		}

		out.Types[*typ.Name] = compressType(typ, opts)
	}

	for _, directive := range doc.Schema.Directives {
		if directive == nil {
			continue
		}
		out.Directives = append(out.Directives, compressDirective(directive, opts))
	}

	return out, nil
}

func compressType(typ *introspection.FullType, opts Options) *Type {
	out := &Type{Kind: typ.Kind}

	keepOwnDescription := !opts.RemoveDescriptions ||
		(opts.PreserveEssentialDescriptions && typ.Kind == introspection.TypeKindObject)
	if keepOwnDescription && typ.Description != nil {
		out.Description = *typ.Description
	}

	for _, field := range typ.Fields {
		if field == nil {
			continue
		}
		if opts.RemoveDeprecated && field.IsDeprecated {
			continue
		}
		out.Fields = append(out.Fields, compressField(field, opts))
	}

	for _, input := range typ.InputFields {
		if input == nil {
			continue
		}
		out.InputFields = append(out.InputFields, compressInputField(input, opts))
	}

	for _, enumValue := range typ.EnumValues {
		if enumValue == nil {
			continue
		}
		if opts.RemoveDeprecated && enumValue.IsDeprecated {
			continue
		}
		out.EnumValues = append(out.EnumValues, enumValue.Name)
	}

	for _, iface := range typ.Interfaces {
		if name := iface.ConcreteName(); name != "" {
			out.Interfaces = append(out.Interfaces, name)
		}
	}

	for _, possible := range typ.PossibleTypes {
		if name := possible.ConcreteName(); name != "" {
			out.PossibleTypes = append(out.PossibleTypes, name)
		}
	}

	return out
}

func compressField(field *introspection.FieldValue, opts Options) *Field {
	out := &Field{
		Name: field.Name,
		Type: field.Type.String(),
	}
	if !opts.RemoveDescriptions && field.Description != nil {
		out.Description = *field.Description
	}
	for _, arg := range field.Args {
		if arg == nil {
			continue
		}
		out.Args = append(out.Args, compressArg(arg, opts))
	}

	return out
}

func compressInputField(input *introspection.InputValue, opts Options) *Field {
	out := &Field{
		Name: input.Name,
		Type: input.Type.String(),
	}
	if !opts.RemoveDescriptions && input.Description != nil {
		out.Description = *input.Description
	}
	if input.DefaultValue != nil {
		out.Default = *input.DefaultValue
	}

	return out
}

func compressArg(input *introspection.InputValue, opts Options) *Arg {
	out := &Arg{
		Name: input.Name,
		Type: input.Type.String(),
	}
	if !opts.RemoveDescriptions && input.Description != nil {
		out.Description = *input.Description
	}
	if input.DefaultValue != nil {
		out.Default = *input.DefaultValue
	}

	return out
}

func compressDirective(directive *introspection.DirectiveType, opts Options) *Directive {
	out := &Directive{
		Name:      directive.Name,
		Locations: directive.Locations,
	}
	if !opts.RemoveDescriptions && directive.Description != nil {
		out.Description = *directive.Description
	}
	for _, arg := range directive.Args {
		if arg == nil {
			continue
		}
		out.Args = append(out.Args, compressArg(arg, opts))
	}

	return out
}
