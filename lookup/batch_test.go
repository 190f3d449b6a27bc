package lookup

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLookupBatch_PartialFailure(t *testing.T) {
	t.Parallel()

	idx := fullIndex(t)

	requests := []Request{
		{Type: &TypeRequest{ID: "Character"}},
		{Type: &TypeRequest{ID: "Ghost"}},
		{Field: &FieldRequest{TypeID: "Character", FieldID: "episode"}},
		{Relationships: &RelationshipsRequest{TypeID: "Episode"}},
	}

	response := idx.LookupBatch(requests)

	want := Summary{Total: 4, Successful: 3, Failed: 1, HasPartialResults: true}
	if diff := cmp.Diff(want, response.Metadata.Summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}

	if len(response.Metadata.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(response.Metadata.Errors))
	}
	if response.Metadata.Errors[0].Request.Type.ID != "Ghost" {
		t.Errorf("recorded error request = %+v, want the Ghost lookup", response.Metadata.Errors[0].Request)
	}
	if response.Metadata.Errors[0].Message == "" {
		t.Error("recorded error must carry the message")
	}

	if len(response.Metadata.RequestOrder) != 4 {
		t.Fatalf("requestOrder = %d entries, want 4", len(response.Metadata.RequestOrder))
	}
	wantOK := []bool{true, false, true, true}
	for i, record := range response.Metadata.RequestOrder {
		if record.OK != wantOK[i] {
			t.Errorf("requestOrder[%d].OK = %v, want %v", i, record.OK, wantOK[i])
		}
	}
}

func TestLookupBatch_AllFailedIsNotPartial(t *testing.T) {
	t.Parallel()

	idx := fullIndex(t)

	response := idx.LookupBatch([]Request{
		{Type: &TypeRequest{ID: "Ghost"}},
		{Type: &TypeRequest{ID: "Phantom"}},
	})

	summary := response.Metadata.Summary
	if summary.Failed != 2 || summary.HasPartialResults {
		t.Errorf("summary = %+v, want 2 failures and no partial flag", summary)
	}
}

func TestLookupBatch_Idempotence(t *testing.T) {
	t.Parallel()

	idx := fullIndex(t)

	response := idx.LookupBatch([]Request{
		{Type: &TypeRequest{ID: "Character"}},
		{Type: &TypeRequest{ID: "Character"}},
	})

	if len(response.Types) != 1 {
		t.Errorf("types = %d entries, want 1 (idempotent merge)", len(response.Types))
	}
	if len(response.Metadata.RequestOrder) != 2 {
		t.Errorf("requestOrder = %d entries, want 2 (every attempt recorded)", len(response.Metadata.RequestOrder))
	}
	if got := response.Metadata.Summary; got.Successful != 2 {
		t.Errorf("successful = %d, want 2", got.Successful)
	}
}

func TestLookupBatch_FieldEnrichment(t *testing.T) {
	t.Parallel()

	idx := fullIndex(t)

	response := idx.LookupBatch([]Request{
		{Field: &FieldRequest{TypeID: "Character", FieldID: "episode"}},
	})

	field, ok := response.Fields["Character.episode"]
	if !ok {
		t.Fatal("expected Character.episode in merged fields")
	}
	if field.Type != "[Episode]!" {
		t.Errorf("field type = %q, want [Episode]!", field.Type)
	}

	// the field's return type is pulled in so callers skip a round trip
	if _, ok := response.Types["Episode"]; !ok {
		t.Error("expected Episode definition to be enriched into types")
	}
}

func TestLookupBatch_RelationshipEnrichment(t *testing.T) {
	t.Parallel()

	idx := fullIndex(t)

	response := idx.LookupBatch([]Request{
		{Relationships: &RelationshipsRequest{TypeID: "Character"}},
	})

	if _, ok := response.Relationships["Character"]; !ok {
		t.Fatal("expected Character in merged relationships")
	}
	for _, related := range []string{"Episode", "Query"} {
		if _, ok := response.Types[related]; !ok {
			t.Errorf("expected related type %s to be enriched into types", related)
		}
	}

	touched := map[string]bool{}
	for _, name := range response.Metadata.TypesTouched {
		touched[name] = true
	}
	for _, want := range []string{"Character", "Episode", "Query"} {
		if !touched[want] {
			t.Errorf("expected %s in typesTouched, got %v", want, response.Metadata.TypesTouched)
		}
	}
}

func TestLookupBatch_SearchAndPatternMerge(t *testing.T) {
	t.Parallel()

	idx := compressedIndex(t)

	response := idx.LookupBatch([]Request{
		{Search: &SearchRequest{Query: "episode"}},
		{Search: &SearchRequest{Query: "alive"}},
		{Pattern: &PatternRequest{Name: "connection", Params: map[string]string{"type": "Character"}}},
		{Pattern: &PatternRequest{Name: "connection", Params: map[string]string{"type": "Character"}}},
	})

	if len(response.Search) != 2 {
		t.Errorf("search results = %d, want 2 (searches are not deduplicated)", len(response.Search))
	}
	if len(response.Patterns) != 1 {
		t.Errorf("patterns = %d entries, want 1 (idempotent merge)", len(response.Patterns))
	}
}

func TestLookupBatch_BatchID(t *testing.T) {
	t.Parallel()

	idx := fullIndex(t)

	first := idx.LookupBatch(nil)
	second := idx.LookupBatch(nil)

	if first.Metadata.BatchID == "" {
		t.Error("expected a batch id")
	}
	if first.Metadata.BatchID == second.Metadata.BatchID {
		t.Error("batch ids must be unique per call")
	}
	if first.Metadata.Summary.Total != 0 || first.Metadata.Summary.HasPartialResults {
		t.Errorf("empty batch summary = %+v", first.Metadata.Summary)
	}
}

func TestLookupBatch_InvalidRequestRecorded(t *testing.T) {
	t.Parallel()

	idx := fullIndex(t)

	response := idx.LookupBatch([]Request{
		{},
		{Type: &TypeRequest{ID: "Character"}},
	})

	if response.Metadata.Summary.Failed != 1 {
		t.Errorf("failed = %d, want 1: invalid requests are recorded, not thrown", response.Metadata.Summary.Failed)
	}
	if !response.Metadata.Summary.HasPartialResults {
		t.Error("expected partial results flag")
	}
}
