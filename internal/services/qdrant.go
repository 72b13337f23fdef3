package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// QdrantService indexes resume chunks per screening session and computes a
// per-candidate similarity against the job description embedding. It is a
// best-effort enrichment: the screener tolerates every failure here.
type QdrantService interface {
	InitCollection() error
	UpsertResumeChunk(ctx context.Context, sessionID, candidateID string, chunkIndex int, text string, embedding []float32) error
	SimilarityByCandidate(ctx context.Context, sessionID string, queryEmbedding []float32, limit int) (map[string]float64, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type qdrantService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewQdrantService(urlStr, apiKey, collectionName string) (QdrantService, error) {
	// Parse URL to extract host, port, and TLS usage
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// For gRPC client, use port 6334 by default (gRPC port)
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 size
	}, nil
}

// InitCollection implements QdrantService.
func (q *qdrantService) InitCollection() error {
	ctx := context.Background()

	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Qdrant collection already exists")
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collectionName)
	return nil
}

// UpsertResumeChunk implements QdrantService.
func (q *qdrantService) UpsertResumeChunk(ctx context.Context, sessionID, candidateID string, chunkIndex int, text string, embedding []float32) error {
	// Full UUID point ids: a truncated numeric id would collide and
	// silently overwrite other chunks as the collection grows.
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(uuid.New().String()),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"session_id":   sessionID,
			"candidate_id": candidateID,
			"chunk_index":  chunkIndex,
			"text":         text,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert resume chunk: %w", err)
	}

	return nil
}

// SimilarityByCandidate queries the session's chunks against the job
// description embedding and keeps the best chunk score per candidate.
func (q *qdrantService) SimilarityByCandidate(ctx context.Context, sessionID string, queryEmbedding []float32, limit int) (map[string]float64, error) {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("session_id", sessionID),
		},
	}

	searchResult, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	similarities := make(map[string]float64)
	for _, point := range searchResult {
		candidate, ok := point.Payload["candidate_id"]
		if !ok {
			continue
		}
		val, ok := candidate.GetKind().(*qdrant.Value_StringValue)
		if !ok {
			continue
		}

		score := float64(point.Score)
		if best, seen := similarities[val.StringValue]; !seen || score > best {
			similarities[val.StringValue] = score
		}
	}

	return similarities, nil
}

// DeleteSession implements QdrantService.
func (q *qdrantService) DeleteSession(ctx context.Context, sessionID string) error {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("session_id", sessionID),
		},
	}

	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: filter,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete session points: %w", err)
	}

	return nil
}
