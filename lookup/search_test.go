package lookup

import (
	"testing"
)

func TestIndex_Search(t *testing.T) {
	t.Parallel()

	idx := fullIndex(t)

	t.Run("weighting and tie order", func(t *testing.T) {
		t.Parallel()

		result := idx.Search("episode", 10)
		if len(result.Matches) != 3 {
			t.Fatalf("matches = %d, want 3", len(result.Matches))
		}
		// Character and Episode both hit name (0.5) and description (0.3)
		// text; the tie keeps encounter order. Query only hits a field name.
		wantOrder := []string{"Character", "Episode", "Query"}
		for i, want := range wantOrder {
			if result.Matches[i].Name != want {
				t.Errorf("match[%d] = %q, want %q", i, result.Matches[i].Name, want)
			}
		}
		if result.Matches[0].Score != 0.8 {
			t.Errorf("Character score = %v, want 0.8", result.Matches[0].Score)
		}
		if result.Matches[2].Score != 0.5 {
			t.Errorf("Query score = %v, want 0.5", result.Matches[2].Score)
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		t.Parallel()

		result := idx.Search("EPISODE", 10)
		if len(result.Matches) == 0 {
			t.Fatal("expected matches for uppercase query")
		}
	})

	t.Run("object field names are searchable", func(t *testing.T) {
		t.Parallel()

		result := idx.Search("status", 10)
		found := false
		for _, match := range result.Matches {
			if match.Name == "Character" {
				found = true
			}
		}
		if !found {
			t.Error("expected Character to match via its status field")
		}
	})

	t.Run("limit truncates", func(t *testing.T) {
		t.Parallel()

		result := idx.Search("character episode", 1)
		if len(result.Matches) != 1 {
			t.Errorf("matches = %d, want 1", len(result.Matches))
		}
	})

	t.Run("default limit", func(t *testing.T) {
		t.Parallel()

		result := idx.Search("e", 0)
		if len(result.Matches) > DefaultSearchLimit {
			t.Errorf("matches = %d, want at most %d", len(result.Matches), DefaultSearchLimit)
		}
	})

	t.Run("score capped at one", func(t *testing.T) {
		t.Parallel()

		result := idx.Search("character the show", 10)
		for _, match := range result.Matches {
			if match.Score > 1.0 {
				t.Errorf("score %v for %q exceeds cap", match.Score, match.Name)
			}
		}
	})

	t.Run("no terms", func(t *testing.T) {
		t.Parallel()

		result := idx.Search("   ", 10)
		if len(result.Matches) != 0 {
			t.Errorf("matches = %d, want 0 for blank query", len(result.Matches))
		}
	})

	t.Run("types touched reports matched names", func(t *testing.T) {
		t.Parallel()

		result := idx.Search("episode", 10)
		if len(result.TypesTouched) != len(result.Matches) {
			t.Errorf("typesTouched = %d entries, want %d", len(result.TypesTouched), len(result.Matches))
		}
	})
}

func TestIndex_SetDefaultSearchLimit(t *testing.T) {
	t.Parallel()

	idx := fullIndex(t)
	idx.SetDefaultSearchLimit(2)

	// "e" matches Character, CharacterStatus, Episode and Query
	result := idx.Search("e", 0)
	if len(result.Matches) != 2 {
		t.Errorf("matches = %d, want the configured default of 2", len(result.Matches))
	}

	// an explicit request limit still wins
	result = idx.Search("e", 3)
	if len(result.Matches) != 3 {
		t.Errorf("matches = %d, want the explicit limit of 3", len(result.Matches))
	}

	// non-positive values keep the previous default
	idx.SetDefaultSearchLimit(0)
	result = idx.Search("e", 0)
	if len(result.Matches) != 2 {
		t.Errorf("matches = %d, want 2 after a no-op override", len(result.Matches))
	}
}
