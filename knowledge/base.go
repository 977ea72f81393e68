package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

var _ Retriever = (*Base)(nil)

// Base holds the FAQ corpus and ranks it with keyword scoring. It is the
// default Retriever; the qdrantindex package offers an embedding-ranked
// drop-in with the same contract.
type Base struct {
	filePath string
	mu       sync.RWMutex
	entries  []Entry
}

// NewBase loads the corpus from the given JSON file. A missing file is not
// an error: the built-in default corpus is used instead.
func NewBase(filePath string) (*Base, error) {
	b := &Base{filePath: filePath}

	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		b.entries = defaultCorpus()
		return b, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[NewBase] read corpus file")
	}

	var file corpusFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "[NewBase] parse corpus file")
	}
	b.entries = file.FAQs
	return b, nil
}

// Search scores every entry against the query: +2 per corpus keyword found
// as a substring of the lowered query, +1 if any query token appears in the
// question, +0.5 if any query token appears in the answer. Zero-scored
// entries are excluded; ties preserve corpus order.
func (b *Base) Search(_ context.Context, query string, topK int) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if topK <= 0 {
		topK = 3
	}
	queryLower := strings.ToLower(query)
	queryTokens := strings.Fields(queryLower)

	type scored struct {
		score float64
		entry Entry
	}
	var ranked []scored
	for _, entry := range b.entries {
		score := 0.0
		for _, keyword := range entry.Keywords {
			if strings.Contains(queryLower, strings.ToLower(keyword)) {
				score += 2
			}
		}
		if anyTokenIn(queryTokens, strings.ToLower(entry.Question)) {
			score++
		}
		if anyTokenIn(queryTokens, strings.ToLower(entry.Answer)) {
			score += 0.5
		}
		if score > 0 {
			ranked = append(ranked, scored{score: score, entry: entry})
		}
	}

	if len(ranked) == 0 {
		return "", nil
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	blocks := make([]string, 0, len(ranked))
	for _, r := range ranked {
		blocks = append(blocks, r.entry.Question+"\n"+r.entry.Answer)
	}
	return strings.Join(blocks, "\n\n"), nil
}

// Add appends a new entry and persists the corpus, so the entry survives a
// restart and is visible to subsequent searches.
func (b *Base) Add(question, answer, category string, keywords []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry := Entry{
		ID:       fmt.Sprintf("faq_%03d", len(b.entries)+1),
		Category: category,
		Question: question,
		Answer:   answer,
		Keywords: keywords,
	}
	b.entries = append(b.entries, entry)

	if b.filePath == "" {
		return nil
	}
	data, err := json.MarshalIndent(corpusFile{FAQs: b.entries}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[Base.Add] marshal corpus")
	}
	if err := os.WriteFile(b.filePath, data, 0o644); err != nil {
		return errors.Wrap(err, "[Base.Add] write corpus file")
	}
	return nil
}

// ByCategory returns the entries of one category.
func (b *Base) ByCategory(category string) []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var entries []Entry
	for _, entry := range b.entries {
		if entry.Category == category {
			entries = append(entries, entry)
		}
	}
	return entries
}

// Categories lists the distinct categories in corpus order-independent
// sorted form.
func (b *Base) Categories() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	seen := make(map[string]struct{})
	var categories []string
	for _, entry := range b.entries {
		if _, ok := seen[entry.Category]; ok {
			continue
		}
		seen[entry.Category] = struct{}{}
		categories = append(categories, entry.Category)
	}
	sort.Strings(categories)
	return categories
}

// Stats summarizes the corpus for admin introspection.
type Stats struct {
	TotalEntries int            `json:"total_entries"`
	Categories   map[string]int `json:"categories"`
}

func (b *Base) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	stats := Stats{
		TotalEntries: len(b.entries),
		Categories:   make(map[string]int),
	}
	for _, entry := range b.entries {
		stats.Categories[entry.Category]++
	}
	return stats
}

// Entries returns a copy of the corpus, used by the embedding index to
// build its collection.
func (b *Base) Entries() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	entries := make([]Entry, len(b.entries))
	copy(entries, b.entries)
	return entries
}

func anyTokenIn(tokens []string, haystack string) bool {
	for _, token := range tokens {
		if strings.Contains(haystack, token) {
			return true
		}
	}
	return false
}
