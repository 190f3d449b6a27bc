package lookup

import (
	"sort"

	"github.com/google/uuid"
)

// RequestRecord notes a processed request and whether it succeeded.
// Repeated requests are all recorded even when their results merge into a
// single entry.
type RequestRecord struct {
	Request Request `json:"request"`
	OK      bool    `json:"ok"`
}

// RequestError is a per-request failure downgraded to data: batch
// processing never surfaces request errors as call errors.
type RequestError struct {
	Request Request `json:"request"`
	Message string  `json:"message"`
}

type Summary struct {
	Total             int  `json:"total"`
	Successful        int  `json:"successful"`
	Failed            int  `json:"failed"`
	HasPartialResults bool `json:"hasPartialResults"`
}

type Metadata struct {
	BatchID      string          `json:"batchId"`
	RequestOrder []RequestRecord `json:"requestOrder"`
	TypesTouched []string        `json:"typesTouched,omitempty"`
	Errors       []RequestError  `json:"errors,omitempty"`
	Summary      Summary         `json:"summary"`
}

// MergedResponse accumulates a batch of lookups into one schema context
// slice. Created fresh per batch, populated request by request, returned
// as a snapshot and never mutated afterwards.
type MergedResponse struct {
	Types         map[string]*TypeResult          `json:"types,omitempty"`
	Fields        map[string]*FieldResult         `json:"fields,omitempty"`
	Relationships map[string]*RelationshipsResult `json:"relationships,omitempty"`
	Search        []*SearchResult                 `json:"search,omitempty"`
	Patterns      map[string]*PatternResult       `json:"patterns,omitempty"`
	Metadata      Metadata                        `json:"metadata"`
}

// LookupBatch processes requests in input order with partial-failure
// semantics: a failing request is recorded and skipped, never aborting the
// batch. Repeated lookups merge idempotently. Field and relationship
// lookups additionally pull the definitions of the types they reveal into
// Types, saving the caller a second round trip.
func (idx *Index) LookupBatch(requests []Request) *MergedResponse {
	response := &MergedResponse{
		Types:         map[string]*TypeResult{},
		Fields:        map[string]*FieldResult{},
		Relationships: map[string]*RelationshipsResult{},
		Patterns:      map[string]*PatternResult{},
		Metadata: Metadata{
			BatchID:      uuid.NewString(),
			RequestOrder: make([]RequestRecord, 0, len(requests)),
		},
	}

	touched := map[string]struct{}{}
	failed := 0

	for _, request := range requests {
		result, err := idx.Lookup(request)
		response.Metadata.RequestOrder = append(response.Metadata.RequestOrder, RequestRecord{
			Request: request,
			OK:      err == nil,
		})
		if err != nil {
			failed++
			response.Metadata.Errors = append(response.Metadata.Errors, RequestError{
				Request: request,
				Message: err.Error(),
			})

			continue
		}

		idx.merge(response, result, touched)
	}

	response.Metadata.TypesTouched = sortedSet(touched)
	response.Metadata.Summary = Summary{
		Total:             len(requests),
		Successful:        len(requests) - failed,
		Failed:            failed,
		HasPartialResults: failed > 0 && failed < len(requests),
	}

	return response
}

func (idx *Index) merge(response *MergedResponse, result any, touched map[string]struct{}) {
	switch r := result.(type) {
	case *TypeResult:
		if _, ok := response.Types[r.Name]; !ok {
			response.Types[r.Name] = r
		}
		touched[r.Name] = struct{}{}
	case *FieldResult:
		key := r.TypeID + "." + r.Name
		if _, ok := response.Fields[key]; !ok {
			response.Fields[key] = r
		}
		touched[r.TypeID] = struct{}{}
		idx.enrich(response, r.Concrete, touched)
	case *RelationshipsResult:
		if _, ok := response.Relationships[r.TypeID]; !ok {
			response.Relationships[r.TypeID] = r
		}
		touched[r.TypeID] = struct{}{}
		for _, related := range r.Outgoing {
			idx.enrich(response, related, touched)
		}
		for _, related := range r.Incoming {
			idx.enrich(response, related, touched)
		}
	case *SearchResult:
		response.Search = append(response.Search, r)
		for _, name := range r.TypesTouched {
			touched[name] = struct{}{}
		}
	case *PatternResult:
		if _, ok := response.Patterns[r.Name]; !ok {
			response.Patterns[r.Name] = r
		}
	}
}

// enrich pulls a related type's definition into the merged types map so
// the caller learns its shape without another lookup round.
func (idx *Index) enrich(response *MergedResponse, typeName string, touched map[string]struct{}) {
	if typeName == "" {
		return
	}
	if _, ok := response.Types[typeName]; ok {
		return
	}

	result, err := idx.Type(typeName)
	if err != nil {
		return
	}
	response.Types[typeName] = result
	touched[typeName] = struct{}{}
}

func sortedSet(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
