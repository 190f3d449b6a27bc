package lookup

import "strings"

// Pattern is a reusable field-shape template. Type strings may contain
// `{param}` placeholders substituted at lookup time. Patterns are a
// compressed-schema convenience: the flattened string form is what the
// placeholders splice into.
type Pattern struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      map[string]string `json:"fields" yaml:"fields"`
}

type PatternResult struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Fields      map[string]string `json:"fields"`
}

// builtinPatterns returns the default registry. Callers extend or replace
// entries via NewCompressedIndex.
func builtinPatterns() map[string]Pattern {
	patterns := []Pattern{
		{
			Name:        "connection",
			Description: "Relay-style paginated collection",
			Fields: map[string]string{
				"edges":      "[{type}Edge]!",
				"pageInfo":   "PageInfo!",
				"totalCount": "Int",
			},
		},
		{
			Name:        "edge",
			Description: "Relay-style edge wrapping a node with its cursor",
			Fields: map[string]string{
				"node":   "{type}!",
				"cursor": "String!",
			},
		},
		{
			Name:        "payload",
			Description: "Mutation payload with a record and user errors",
			Fields: map[string]string{
				"record": "{type}",
				"errors": "[UserError!]",
			},
		},
	}

	registry := make(map[string]Pattern, len(patterns))
	for _, pattern := range patterns {
		registry[pattern.Name] = pattern
	}

	return registry
}

// Pattern expands a named template, substituting `{param}` placeholders in
// its type strings with caller-supplied values. Only the compressed form
// supports patterns; a full-form index reports a capability error.
func (idx *Index) Pattern(name string, params map[string]string) (*PatternResult, error) {
	if idx.form != FormCompressed {
		return nil, &CapabilityError{Operation: "pattern", Form: idx.form}
	}

	pattern, ok := idx.patterns[name]
	if !ok {
		return nil, &PatternNotFoundError{Name: name}
	}

	fields := make(map[string]string, len(pattern.Fields))
	for fieldName, typeString := range pattern.Fields {
		for param, value := range params {
			placeholder := "{" + param + "}"
			fieldName = strings.ReplaceAll(fieldName, placeholder, value)
			typeString = strings.ReplaceAll(typeString, placeholder, value)
		}
		fields[fieldName] = typeString
	}

	return &PatternResult{
		Name:        pattern.Name,
		Description: pattern.Description,
		Fields:      fields,
	}, nil
}
