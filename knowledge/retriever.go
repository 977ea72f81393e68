// Package knowledge ranks a small corpus of FAQ entries against free-text
// queries and formats the best matches as grounding context for the model.
package knowledge

import "context"

// Retriever ranks the corpus against a query and returns the top matches
// formatted as "question\nanswer" blocks separated by a blank line. An empty
// result with a nil error means "no grounding available", not a failure.
type Retriever interface {
	Search(ctx context.Context, query string, topK int) (string, error)
}
