package config

type RetrievalConfig interface {
	GetRetrieverMode() string
	GetTopKResults() int
	GetSimilarityThreshold() float64
	GetFAQsFile() string
	GetQdrantURL() string
	GetQdrantCollection() string
	GetQdrantAPIKey() string
	GetEmbeddingModel() string
}

type Retrieval struct{}

var _ RetrievalConfig = Retrieval{}

// GetRetrieverMode selects the ranking strategy: "keyword" (default) or
// "embedding" (qdrant-backed).
func (Retrieval) GetRetrieverMode() string {
	return GetEnv("RETRIEVER_MODE", "keyword")
}

func (Retrieval) GetTopKResults() int {
	return intEnv("TOP_K_RESULTS", 3)
}

func (Retrieval) GetSimilarityThreshold() float64 {
	return floatEnv("SIMILARITY_THRESHOLD", 0.5)
}

func (Retrieval) GetFAQsFile() string {
	return GetEnv("FAQS_FILE", "./data/faqs.json")
}

func (Retrieval) GetQdrantURL() string {
	return GetEnv("QDRANT_URL", "")
}

func (Retrieval) GetQdrantCollection() string {
	return GetEnv("QDRANT_COLLECTION", "faqs")
}

func (Retrieval) GetQdrantAPIKey() string {
	return GetEnv("QDRANT_API_KEY", "")
}

func (Retrieval) GetEmbeddingModel() string {
	return GetEnv("EMBEDDING_MODEL", "gemini-embedding-001")
}
