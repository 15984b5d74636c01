package save

import "github.com/antzucaro/matchr"

// suggestThreshold is the minimum Jaro-Winkler similarity for an ID to be
// offered as a suggestion.
const suggestThreshold = 0.7

// Find returns the entry with the given ID. When there is none the error is
// an [*UnknownSaveError] carrying the closest known ID.
func Find(entries []Entry, id string) (Entry, error) {
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, &UnknownSaveError{ID: id, Suggestion: Suggest(entries, id)}
}

// Suggest returns the entry ID most similar to id, or "" if none is similar
// enough.
func Suggest(entries []Entry, id string) string {
	best, bestScore := "", suggestThreshold
	for _, e := range entries {
		if score := matchr.JaroWinkler(id, e.ID, false); score > bestScore {
			best, bestScore = e.ID, score
		}
	}
	return best
}
