package lookup

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Request is a tagged union: exactly one of the variant fields is set.
// Requests arrive as JSON derived from LLM function-call arguments and are
// parsed strictly before they ever reach the index.
type Request struct {
	Type          *TypeRequest          `json:"type,omitempty"`
	Field         *FieldRequest         `json:"field,omitempty"`
	Relationships *RelationshipsRequest `json:"relationships,omitempty"`
	Search        *SearchRequest        `json:"search,omitempty"`
	Pattern       *PatternRequest       `json:"pattern,omitempty"`
}

type TypeRequest struct {
	ID string `json:"id"`
}

type FieldRequest struct {
	TypeID  string `json:"typeId"`
	FieldID string `json:"fieldId"`
}

type RelationshipsRequest struct {
	TypeID string `json:"typeId"`
}

type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type PatternRequest struct {
	Name   string            `json:"name"`
	Params map[string]string `json:"params,omitempty"`
}

var requestKinds = map[string]struct{}{
	"type":          {},
	"field":         {},
	"relationships": {},
	"search":        {},
	"pattern":       {},
}

// Kind returns the variant name, or "" for an empty request.
func (r Request) Kind() string {
	switch {
	case r.Type != nil:
		return "type"
	case r.Field != nil:
		return "field"
	case r.Relationships != nil:
		return "relationships"
	case r.Search != nil:
		return "search"
	case r.Pattern != nil:
		return "pattern"
	default:
		return ""
	}
}

// String renders a short audit form, e.g. `field:Character.episode`.
func (r Request) String() string {
	switch {
	case r.Type != nil:
		return "type:" + r.Type.ID
	case r.Field != nil:
		return "field:" + r.Field.TypeID + "." + r.Field.FieldID
	case r.Relationships != nil:
		return "relationships:" + r.Relationships.TypeID
	case r.Search != nil:
		return "search:" + r.Search.Query
	case r.Pattern != nil:
		return "pattern:" + r.Pattern.Name
	default:
		return "invalid"
	}
}

// Validate checks that exactly one variant is set and that it carries its
// required identifiers.
func (r Request) Validate() error {
	set := 0
	if r.Type != nil {
		set++
	}
	if r.Field != nil {
		set++
	}
	if r.Relationships != nil {
		set++
	}
	if r.Search != nil {
		set++
	}
	if r.Pattern != nil {
		set++
	}
	if set == 0 {
		return &InvalidRequestError{Reason: "no lookup kind set"}
	}
	if set > 1 {
		return &InvalidRequestError{Reason: "more than one lookup kind set"}
	}

	switch {
	case r.Type != nil && r.Type.ID == "":
		return &InvalidRequestError{Reason: "type lookup requires an id"}
	case r.Field != nil && (r.Field.TypeID == "" || r.Field.FieldID == ""):
		return &InvalidRequestError{Reason: "field lookup requires typeId and fieldId"}
	case r.Relationships != nil && r.Relationships.TypeID == "":
		return &InvalidRequestError{Reason: "relationships lookup requires typeId"}
	case r.Search != nil && strings.TrimSpace(r.Search.Query) == "":
		return &InvalidRequestError{Reason: "search lookup requires a query"}
	case r.Pattern != nil && r.Pattern.Name == "":
		return &InvalidRequestError{Reason: "pattern lookup requires a name"}
	}

	return nil
}

// ParseRequest parses a single request object, rejecting unknown
// discriminants by name before the request reaches the index.
func ParseRequest(data []byte) (Request, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Request{}, &InvalidRequestError{Reason: fmt.Sprintf("not a JSON object: %v", err)}
	}
	if len(raw) == 0 {
		return Request{}, &InvalidRequestError{Reason: "no lookup kind set"}
	}

	for key := range raw {
		if _, ok := requestKinds[key]; !ok {
			return Request{}, &InvalidRequestError{Reason: fmt.Sprintf("unknown lookup kind %q", key)}
		}
	}

	var request Request
	if err := json.Unmarshal(data, &request); err != nil {
		return Request{}, &InvalidRequestError{Reason: err.Error()}
	}
	if err := request.Validate(); err != nil {
		return Request{}, err
	}

	return request, nil
}

// ParseRequests parses a JSON array of request objects.
func ParseRequests(data []byte) ([]Request, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &InvalidRequestError{Reason: fmt.Sprintf("not a JSON array: %v", err)}
	}

	requests := make([]Request, 0, len(items))
	for i, item := range items {
		request, err := ParseRequest(item)
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}
		requests = append(requests, request)
	}

	return requests, nil
}
