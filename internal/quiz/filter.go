package quiz

import "math/rand/v2"

// TypeAliases maps user-facing section names to question type codes.
var TypeAliases = map[string]string{
	"tf":              TypeTF,
	"true_false":      TypeTF,
	"mc":              TypeMC,
	"multiple_choice": TypeMC,
	"sa":              TypeSA,
	"short_answer":    TypeSA,
}

// Filter narrows a question set: types (when non-empty) keeps only
// matching question types, shuffle randomizes order, and limit caps the
// count after filtering. The answer key is pruned to the surviving
// questions. Order is preserved unless shuffled.
func Filter(questions []Question, key AnswerKey, types map[string]bool, limit int, shuffle bool) ([]Question, AnswerKey) {
	filtered := questions
	if len(types) > 0 {
		filtered = nil
		for _, q := range questions {
			if types[q.Type] {
				filtered = append(filtered, q)
			}
		}
	}

	if shuffle {
		shuffled := make([]Question, len(filtered))
		copy(shuffled, filtered)
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		filtered = shuffled
	}

	if limit > 0 && limit < len(filtered) {
		filtered = filtered[:limit]
	}

	pruned := make(AnswerKey, len(filtered))
	for _, q := range filtered {
		if entry, ok := key[q.ID]; ok {
			pruned[q.ID] = entry
		}
	}
	return filtered, pruned
}
