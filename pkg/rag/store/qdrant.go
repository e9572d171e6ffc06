// Package store adapts the Qdrant gRPC API to the single capability surface
// the rest of the application needs: recreate, upsert, search, count.
package store

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/skycast-ai/skycast/pkg/domain"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultVectorSize = 384
	defaultCollection = "pdf_collection"
	defaultDistance   = pb.Distance_Cosine
)

var waitTrue = true

// QdrantStore implements domain.VectorStore over a Qdrant gRPC connection.
type QdrantStore struct {
	points         pb.PointsClient
	collections    pb.CollectionsClient
	conn           *grpc.ClientConn
	collectionName string
	vectorSize     uint64
}

// NewQdrantStore dials the Qdrant endpoint. The collection is created lazily
// by Recreate; construction only establishes the connection.
func NewQdrantStore(url, collection string) (*QdrantStore, error) {
	if collection == "" {
		collection = defaultCollection
	}

	// The gRPC endpoint wants host:port, not a URL.
	url = strings.TrimPrefix(url, "http://")
	url = strings.TrimPrefix(url, "https://")

	conn, err := grpc.NewClient(url, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Qdrant: %w", err)
	}

	return &QdrantStore{
		points:         pb.NewPointsClient(conn),
		collections:    pb.NewCollectionsClient(conn),
		conn:           conn,
		collectionName: collection,
		vectorSize:     defaultVectorSize,
	}, nil
}

// Recreate drops the collection if it exists and creates it fresh with
// cosine distance and the given vector size. Re-indexing a PDF replaces the
// previous index wholesale.
func (s *QdrantStore) Recreate(ctx context.Context, vectorSize uint64) error {
	if vectorSize == 0 {
		vectorSize = defaultVectorSize
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	listResp, err := s.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	for _, col := range listResp.Collections {
		if col.Name == s.collectionName {
			if _, err := s.collections.Delete(ctx, &pb.DeleteCollection{
				CollectionName: s.collectionName,
			}); err != nil {
				return fmt.Errorf("failed to delete collection %s: %w", s.collectionName, err)
			}
			break
		}
	}

	_, err = s.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: s.collectionName,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     vectorSize,
					Distance: defaultDistance,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	s.vectorSize = vectorSize
	log.Printf("[INFO] Created Qdrant collection %s with vector size %d", s.collectionName, vectorSize)
	return nil
}

// Upsert writes chunk vectors into the collection. Chunks without a valid
// UUID id get a random one; ids only need to be unique, never stable.
func (s *QdrantStore) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	points := make([]*pb.PointStruct, 0, len(chunks))
	for _, chunk := range chunks {
		chunkID := chunk.ID
		if _, err := uuid.Parse(chunkID); err != nil {
			chunkID = uuid.New().String()
		}

		vector := make([]float32, len(chunk.Vector))
		for i, v := range chunk.Vector {
			vector[i] = float32(v)
		}

		payload := map[string]*pb.Value{
			"text":   {Kind: &pb.Value_StringValue{StringValue: chunk.Content}},
			"doc_id": {Kind: &pb.Value_StringValue{StringValue: chunk.DocumentID}},
		}
		for k, v := range chunk.Metadata {
			if strVal, ok := v.(string); ok {
				payload[k] = &pb.Value{Kind: &pb.Value_StringValue{StringValue: strVal}}
			}
		}

		points = append(points, &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{Uuid: chunkID},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: vector},
				},
			},
			Payload: payload,
		})
	}

	_, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: s.collectionName,
		Points:         points,
		Wait:           &waitTrue,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	return nil
}

// Search returns the topK most similar chunks, ordered by similarity.
func (s *QdrantStore) Search(ctx context.Context, vector []float64, topK int) ([]domain.Chunk, error) {
	queryVector := make([]float32, len(vector))
	for i, v := range vector {
		queryVector[i] = float32(v)
	}

	resp, err := s.points.Search(ctx, &pb.SearchPoints{
		CollectionName: s.collectionName,
		Vector:         queryVector,
		Limit:          uint64(topK),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]domain.Chunk, 0, len(resp.Result))
	for _, point := range resp.Result {
		chunk := domain.Chunk{
			ID:      point.Id.GetUuid(),
			Score:   float64(point.Score),
			Content: extractText(point.Payload),
		}
		if point.Payload != nil {
			if v, ok := point.Payload["doc_id"]; ok {
				chunk.DocumentID = v.GetStringValue()
			}
		}
		results = append(results, chunk)
	}

	return results, nil
}

// Count returns the exact number of points in the collection. Callers use
// it for diagnostics only.
func (s *QdrantStore) Count(ctx context.Context) (uint64, error) {
	exact := true
	resp, err := s.points.Count(ctx, &pb.CountPoints{
		CollectionName: s.collectionName,
		Exact:          &exact,
	})
	if err != nil {
		return 0, fmt.Errorf("count failed: %w", err)
	}
	return resp.Result.Count, nil
}

func (s *QdrantStore) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// extractText normalizes hit payloads written by different indexers. Keys
// are checked in priority order; an unrecognized payload degrades to its
// string form rather than an empty result.
func extractText(payload map[string]*pb.Value) string {
	if payload == nil {
		return ""
	}

	for _, key := range []string{"text", "content", "page_content"} {
		if v, ok := payload[key]; ok {
			if text := v.GetStringValue(); text != "" {
				return text
			}
		}
	}

	parts := make([]string, 0, len(payload))
	for k, v := range payload {
		parts = append(parts, k+"="+valueString(v))
	}
	return strings.Join(parts, " ")
}

func valueString(v *pb.Value) string {
	switch kind := v.Kind.(type) {
	case *pb.Value_StringValue:
		return kind.StringValue
	case *pb.Value_IntegerValue:
		return strconv.FormatInt(kind.IntegerValue, 10)
	case *pb.Value_DoubleValue:
		return strconv.FormatFloat(kind.DoubleValue, 'f', -1, 64)
	case *pb.Value_BoolValue:
		return strconv.FormatBool(kind.BoolValue)
	default:
		return v.String()
	}
}
