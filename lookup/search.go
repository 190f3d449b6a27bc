package lookup

import (
	"sort"
	"strings"
)

// DefaultSearchLimit bounds a search result when neither the request nor
// the index carries an explicit limit.
const DefaultSearchLimit = 5

// SetDefaultSearchLimit overrides DefaultSearchLimit for requests that
// carry no explicit limit. Call it before the index starts serving
// lookups; it is not synchronized.
func (idx *Index) SetDefaultSearchLimit(limit int) {
	if limit > 0 {
		idx.searchLimit = limit
	}
}

type SearchMatch struct {
	Name  string  `json:"name"`
	Kind  string  `json:"kind,omitempty"`
	Score float64 `json:"score"`
}

// SearchResult carries scored matches plus the set of distinct type names
// touched, which callers use for progressive schema-context expansion.
type SearchResult struct {
	Query        string        `json:"query"`
	Matches      []SearchMatch `json:"matches"`
	TypesTouched []string      `json:"typesTouched,omitempty"`
}

// Search runs case-insensitive substring relevance scoring over type names
// and descriptions, and for OBJECT types over field names and descriptions
// as well. Each matching term adds 0.5 when found in a name and 0.3 when
// found in a description, capped at 1.0 per type. Ties keep encounter
// order; results are truncated to limit.
func (idx *Index) Search(query string, limit int) *SearchResult {
	if limit <= 0 {
		limit = idx.searchLimit
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	result := &SearchResult{Query: query, Matches: []SearchMatch{}}

	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return result
	}

	for _, name := range idx.order {
		entry := idx.types[name]
		score := scoreEntry(entry, terms)
		if score <= 0 {
			continue
		}
		result.Matches = append(result.Matches, SearchMatch{
			Name:  entry.name,
			Kind:  string(entry.kind),
			Score: score,
		})
	}

	sort.SliceStable(result.Matches, func(i, j int) bool {
		return result.Matches[i].Score > result.Matches[j].Score
	})
	if len(result.Matches) > limit {
		result.Matches = result.Matches[:limit]
	}

	touched := make([]string, 0, len(result.Matches))
	for _, match := range result.Matches {
		touched = append(touched, match.Name)
	}
	sort.Strings(touched)
	result.TypesTouched = touched

	return result
}

func scoreEntry(entry *typeEntry, terms []string) float64 {
	nameText := strings.ToLower(entry.name)
	descriptionText := strings.ToLower(entry.description)

	var fieldNames, fieldDescriptions strings.Builder
	if entry.kind == "OBJECT" {
		for _, field := range entry.fields {
			fieldNames.WriteString(strings.ToLower(field.name))
			fieldNames.WriteByte(' ')
			fieldDescriptions.WriteString(strings.ToLower(field.description))
			fieldDescriptions.WriteByte(' ')
		}
	}
	fieldNameText := fieldNames.String()
	fieldDescriptionText := fieldDescriptions.String()

	score := 0.0
	for _, term := range terms {
		if strings.Contains(nameText, term) || strings.Contains(fieldNameText, term) {
			score += 0.5
		}
		if strings.Contains(descriptionText, term) || strings.Contains(fieldDescriptionText, term) {
			score += 0.3
		}
	}
	if score > 1.0 {
		score = 1.0
	}

	return score
}
