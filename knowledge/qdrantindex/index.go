// Package qdrantindex provides an embedding-based knowledge retriever backed
// by a Qdrant collection. Entries are embedded once at startup; queries are
// embedded per call and matched by cosine similarity.
package qdrantindex

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/qdrant/go-client/qdrant"

	"github.com/carlos-israelj/banking-ai-agent/knowledge"
	"github.com/carlos-israelj/banking-ai-agent/llm"
)

// Config holds the Qdrant connection and retrieval tuning.
type Config struct {
	// URL is the Qdrant server address (e.g. "https://example.qdrant.io:6334").
	URL string

	// CollectionName is the collection holding the knowledge entries.
	CollectionName string

	// APIKey is an optional API key for authentication.
	APIKey string

	// ScoreThreshold excludes matches scoring below it. Zero keeps every match.
	ScoreThreshold float32
}

// Index implements knowledge retrieval over a Qdrant collection.
type Index struct {
	client         *qdrant.Client
	embedder       llm.Embedder
	collectionName string
	threshold      float32
}

// New connects to Qdrant and prepares the index. The embedder is required;
// vectors for both entries and queries come from it.
func New(cfg Config, embedder llm.Embedder) (*Index, error) {
	if cfg.URL == "" {
		return nil, errors.New("[qdrantindex.New] qdrant url is required")
	}
	if cfg.CollectionName == "" {
		return nil, errors.New("[qdrantindex.New] collection name is required")
	}
	if embedder == nil {
		return nil, errors.New("[qdrantindex.New] embedder is required")
	}

	parsedURL := cfg.URL
	if !strings.HasPrefix(parsedURL, "http://") && !strings.HasPrefix(parsedURL, "https://") {
		parsedURL = "https://" + parsedURL
	}
	u, err := url.Parse(parsedURL)
	if err != nil {
		return nil, errors.Wrap(err, "[qdrantindex.New] parse qdrant url")
	}

	host := u.Hostname()
	port := 6334
	if u.Port() != "" {
		p, err := strconv.Atoi(u.Port())
		if err != nil {
			return nil, errors.Wrap(err, "[qdrantindex.New] invalid port")
		}
		port = p
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: u.Scheme == "https",
	})
	if err != nil {
		return nil, errors.Wrap(err, "[qdrantindex.New] create qdrant client")
	}

	return &Index{
		client:         client,
		embedder:       embedder,
		collectionName: cfg.CollectionName,
		threshold:      cfg.ScoreThreshold,
	}, nil
}

// Rebuild embeds every entry and replaces the collection contents. Called at
// startup so the index always reflects the current corpus.
func (idx *Index) Rebuild(ctx context.Context, entries []knowledge.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(entries))
	var dimension uint64
	for i, entry := range entries {
		vector, err := idx.embedder.Embed(ctx, entry.Question+"\n"+entry.Answer)
		if err != nil {
			return errors.Wrapf(err, "[Index.Rebuild] embed entry %q", entry.ID)
		}
		dimension = uint64(len(vector))

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(i)),
			Vectors: qdrant.NewVectors(vector...),
			Payload: qdrant.NewValueMap(map[string]any{
				"entry_id": entry.ID,
				"category": entry.Category,
				"question": entry.Question,
				"answer":   entry.Answer,
			}),
		})
	}

	if err := idx.ensureCollection(ctx, dimension); err != nil {
		return err
	}

	wait := true
	_, err := idx.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: idx.collectionName,
		Points:         points,
		Wait:           &wait,
	})
	if err != nil {
		return errors.Wrap(err, "[Index.Rebuild] upsert points")
	}
	return nil
}

func (idx *Index) ensureCollection(ctx context.Context, dimension uint64) error {
	exists, err := idx.client.CollectionExists(ctx, idx.collectionName)
	if err != nil {
		return errors.Wrap(err, "[Index.ensureCollection] check collection")
	}
	if exists {
		return nil
	}

	err = idx.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: idx.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return errors.Wrap(err, "[Index.ensureCollection] create collection")
	}
	return nil
}

// Search embeds the query, retrieves the closest entries, and joins them into
// question/answer blocks. An empty result with a nil error means no grounding.
func (idx *Index) Search(ctx context.Context, query string, topK int) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", nil
	}
	if topK <= 0 {
		topK = 3
	}

	vector, err := idx.embedder.Embed(ctx, query)
	if err != nil {
		return "", errors.Wrap(err, "[Index.Search] embed query")
	}

	limit := uint64(topK)
	points, err := idx.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: idx.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return "", errors.Wrap(err, "[Index.Search] query collection")
	}

	blocks := make([]string, 0, len(points))
	for _, point := range points {
		if idx.threshold > 0 && point.Score < idx.threshold {
			continue
		}
		if point.Payload == nil {
			continue
		}
		question := point.Payload["question"].GetStringValue()
		answer := point.Payload["answer"].GetStringValue()
		if question == "" && answer == "" {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("%s\n%s", question, answer))
	}

	return strings.Join(blocks, "\n\n"), nil
}

// Close releases the underlying connection.
func (idx *Index) Close() error {
	return idx.client.Close()
}

var _ knowledge.Retriever = (*Index)(nil)
