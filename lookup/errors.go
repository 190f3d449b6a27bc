package lookup

import "fmt"

// TypeNotFoundError reports a lookup for a type name the index does not
// contain. Expected and reportable; caught at the batch boundary.
type TypeNotFoundError struct {
	Name string
}

func (e *TypeNotFoundError) Error() string {
	return fmt.Sprintf("type %q not found in schema", e.Name)
}

// FieldNotFoundError reports a lookup for a field the owning type does not
// declare.
type FieldNotFoundError struct {
	Type  string
	Field string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("field %q not found on type %q", e.Field, e.Type)
}

// PatternNotFoundError reports a lookup for an unregistered pattern name.
type PatternNotFoundError struct {
	Name string
}

func (e *PatternNotFoundError) Error() string {
	return fmt.Sprintf("pattern %q not found", e.Name)
}

// CapabilityError reports an operation the schema form does not support,
// such as a pattern lookup against the full introspection form.
type CapabilityError struct {
	Operation string
	Form      Form
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("%s lookups are not supported for the %s schema form", e.Operation, e.Form)
}

// InvalidRequestError reports a request that failed the strict boundary
// parse: unknown discriminant, ambiguous payload, or missing identifier.
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return "invalid lookup request: " + e.Reason
}

// SchemaValidationError is a structural precondition failure raised once
// per index build, never per request. Path names the offending location.
type SchemaValidationError struct {
	Path   string
	Reason string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("invalid schema at %s: %s", e.Path, e.Reason)
}
