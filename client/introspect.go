package client

import (
	"context"
	"fmt"

	"github.com/ibrunner/sageql/introspection"
)

// Introspect runs the standard introspection query against the endpoint
// and returns the parsed schema document.
func (c *Client) Introspect(ctx context.Context) (*introspection.Document, error) {
	var doc introspection.Document
	if err := c.Post(ctx, "IntrospectionQuery", introspection.Introspection, nil, &doc); err != nil {
		return nil, fmt.Errorf("introspection query failed: %w", err)
	}
	if doc.Schema == nil {
		return nil, &introspection.InvalidSchemaError{Reason: "missing schema root"}
	}

	return &doc, nil
}
