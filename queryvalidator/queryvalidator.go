// Package queryvalidator validates LLM-generated GraphQL queries against a
// schema built from an introspection document. Validation errors are
// returned as gqlerror lists so orchestration can feed them back into the
// next prompt as corrective context.
package queryvalidator

import (
	"fmt"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"

	"github.com/ibrunner/sageql/introspection"
)

// BuildSchema converts an introspection document into a validated
// gqlparser schema.
func BuildSchema(doc *introspection.Document) (*ast.Schema, error) {
	schemaDocument, err := introspection.SchemaDocument(doc)
	if err != nil {
		return nil, err
	}

	schema, err := validator.ValidateSchemaDocument(schemaDocument)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	return schema, nil
}

// Validate parses and validates a query against the schema. A nil list
// means the query is valid.
func Validate(schema *ast.Schema, query string) (*ast.QueryDocument, gqlerror.List) {
	return gqlparser.LoadQuery(schema, query)
}

// QueryDocumentsByOperations splits a multi-operation document into one
// validated query document per operation, each carrying exactly the
// fragments it references.
func QueryDocumentsByOperations(schema *ast.Schema, operations ast.OperationList) ([]*ast.QueryDocument, error) {
	queryDocuments := make([]*ast.QueryDocument, 0, len(operations))
	for _, operation := range operations {
		queryDocument := &ast.QueryDocument{
			Operations: ast.OperationList{operation},
			Fragments:  fragmentsInOperationDefinition(operation),
		}

		if errs := validator.Validate(schema, queryDocument); errs != nil {
			return nil, fmt.Errorf("operation %q: %w", operation.Name, errs)
		}

		queryDocuments = append(queryDocuments, queryDocument)
	}

	return queryDocuments, nil
}

func fragmentsInOperationDefinition(operation *ast.OperationDefinition) ast.FragmentDefinitionList {
	return fragmentsUnique(fragmentsInOperationWalker(operation.SelectionSet))
}

func fragmentsUnique(fragments ast.FragmentDefinitionList) ast.FragmentDefinitionList {
	seenFragments := make(map[string]struct{}, len(fragments))
	uniqueFragments := make(ast.FragmentDefinitionList, 0, len(fragments))
	for _, fragment := range fragments {
		if _, ok := seenFragments[fragment.Name]; ok {
			continue
		}
		uniqueFragments = append(uniqueFragments, fragment)
		seenFragments[fragment.Name] = struct{}{}
	}

	return uniqueFragments
}

func fragmentsInOperationWalker(selectionSet ast.SelectionSet) ast.FragmentDefinitionList {
	var fragments ast.FragmentDefinitionList
	for _, selection := range selectionSet {
		var nested ast.SelectionSet
		switch selection := selection.(type) {
		case *ast.Field:
			nested = selection.SelectionSet
		case *ast.InlineFragment:
			nested = selection.SelectionSet
		case *ast.FragmentSpread:
			fragments = append(fragments, selection.Definition)
			nested = selection.Definition.SelectionSet
		}

		fragments = append(fragments, fragmentsInOperationWalker(nested)...)
	}

	return fragments
}
