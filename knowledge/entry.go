package knowledge

// Entry is one question/answer item of the bank's FAQ corpus.
type Entry struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Keywords []string `json:"keywords"`
}

type corpusFile struct {
	FAQs []Entry `json:"faqs"`
}
