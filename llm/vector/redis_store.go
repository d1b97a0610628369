package vector

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"jlpt-tutor/llm"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/redis/go-redis/v9"
)

const (
	// HNSW build parameters
	defaultEFConstruction = 200
	defaultM              = 16

	// Field names in Redis hash
	fieldText      = "text"
	fieldVector    = "vector"
	fieldLesson    = "lesson"
	fieldSublesson = "sublesson"
	fieldTopic     = "topic"
	fieldChunkID   = "chunk_id"
)

// RedisStore implements VectorStore using Redis with RediSearch vector search.
type RedisStore struct {
	client         *redis.Client
	embeddingSvc   *EmbeddingService
	config         StoreConfig
	mu             sync.Mutex
	efConstruction int
	m              int
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	PoolSize       int
	IndexName      string
	KeyPrefix      string
	VectorDim      int
	EFConstruction int
	M              int
}

// NewRedisStore creates a new Redis-based vector store. The index itself is
// created lazily on the first AddBatch, so that Count and Drop can observe a
// genuinely missing index after a wipe.
func NewRedisStore(ctx context.Context, embedder embedding.Embedder, cfg RedisConfig) (*RedisStore, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedding model is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
		// The FT.* reply parsers expect RESP2 flat-array replies; RESP3
		// servers return maps for the same commands.
		Protocol: 2,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	storeCfg := DefaultStoreConfig()
	if cfg.IndexName != "" {
		storeCfg.IndexName = cfg.IndexName
	}
	if cfg.KeyPrefix != "" {
		storeCfg.KeyPrefix = cfg.KeyPrefix
	}
	if cfg.VectorDim > 0 {
		storeCfg.EmbeddingDim = cfg.VectorDim
	}

	ef := cfg.EFConstruction
	if ef <= 0 {
		ef = defaultEFConstruction
	}
	m := cfg.M
	if m <= 0 {
		m = defaultM
	}

	return &RedisStore{
		client:         client,
		embeddingSvc:   NewEmbeddingService(embedder, storeCfg.EmbeddingDim),
		config:         storeCfg,
		efConstruction: ef,
		m:              m,
	}, nil
}

// ensureIndex creates the HNSW vector index if it doesn't exist.
func (s *RedisStore) ensureIndex(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	indexName := s.config.IndexName
	if _, err := s.client.Do(ctx, "FT.INFO", indexName).Result(); err == nil {
		return nil
	}

	// FT.CREATE genki
	//   ON HASH PREFIX 1 "genki:chunk:"
	//   SCHEMA vector VECTOR HNSW 6 TYPE FLOAT32 DIM 768 DISTANCE_METRIC COSINE EF_CONSTRUCTION 200 M 16
	//          text TEXT
	//          lesson NUMERIC
	//          sublesson NUMERIC
	//          topic TEXT
	//          chunk_id TAG
	_, err := s.client.Do(ctx, "FT.CREATE", indexName,
		"ON", "HASH",
		"PREFIX", "1", s.config.KeyPrefix,
		"SCHEMA",
		fieldVector, "VECTOR", "HNSW", "10",
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(s.config.EmbeddingDim),
		"DISTANCE_METRIC", "COSINE",
		"EF_CONSTRUCTION", strconv.Itoa(s.efConstruction),
		"M", strconv.Itoa(s.m),
		fieldText, "TEXT",
		fieldLesson, "NUMERIC",
		fieldSublesson, "NUMERIC",
		fieldTopic, "TEXT",
		fieldChunkID, "TAG",
	).Result()
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

// AddBatch embeds and stores a batch of chunks in a single pipeline.
func (s *RedisStore) AddBatch(ctx context.Context, chunks []llm.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	if err := s.ensureIndex(ctx); err != nil {
		return err
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := s.embeddingSvc.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}

	pipe := s.client.Pipeline()
	for i, c := range chunks {
		key := s.config.KeyPrefix + c.ChunkID
		pipe.HSet(ctx, key,
			fieldText, c.Text,
			fieldVector, encodeVector(vectors[i]),
			fieldLesson, c.Lesson,
			fieldSublesson, c.Sublesson,
			fieldTopic, c.Topic,
			fieldChunkID, c.ChunkID,
		)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert chunks: %w", err)
	}
	return nil
}

// encodeVector encodes a float32 vector as raw little-endian bytes, the
// format RediSearch expects for FLOAT32 vector fields.
func encodeVector(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// buildKNNQuery builds the FT.SEARCH query string: an exact-match metadata
// prefilter (or * for the whole collection) followed by the KNN clause.
func buildKNNQuery(filter *llm.SearchFilter, topK int) string {
	prefilter := "*"
	if filter != nil {
		if filter.HasSublesson() {
			prefilter = fmt.Sprintf("(@%s:[%d %d] @%s:[%d %d])",
				fieldLesson, filter.Lesson, filter.Lesson,
				fieldSublesson, filter.Sublesson, filter.Sublesson)
		} else {
			prefilter = fmt.Sprintf("(@%s:[%d %d])", fieldLesson, filter.Lesson, filter.Lesson)
		}
	}
	return fmt.Sprintf("%s=>[KNN %d @%s $query_vector AS score]", prefilter, topK, fieldVector)
}

// Search performs a filtered KNN search by query text.
func (s *RedisStore) Search(ctx context.Context, query string, topK int, filter *llm.SearchFilter) ([]llm.RetrievedChunk, error) {
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}
	if topK <= 0 {
		topK = 3
	}

	queryVector, err := s.embeddingSvc.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	result, err := s.client.Do(ctx, "FT.SEARCH", s.config.IndexName,
		buildKNNQuery(filter, topK),
		"PARAMS", "2", "query_vector", encodeVector(queryVector),
		"RETURN", "5", fieldText, fieldLesson, fieldSublesson, fieldTopic, fieldChunkID,
		"SORTBY", "score",
		"LIMIT", "0", strconv.Itoa(topK),
		"DIALECT", "2",
	).Result()
	if err != nil {
		if isMissingIndexErr(err) {
			// Nothing ingested yet; surface as empty context downstream.
			return []llm.RetrievedChunk{}, nil
		}
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	return parseSearchResults(result)
}

// parseSearchResults parses the FT.SEARCH reply: total count followed by
// (key, field list) pairs in rank order.
func parseSearchResults(result interface{}) ([]llm.RetrievedChunk, error) {
	values, ok := result.([]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected search reply format")
	}
	if len(values) < 2 {
		return []llm.RetrievedChunk{}, nil
	}

	var hits []llm.RetrievedChunk
	for i := 1; i+1 < len(values); i += 2 {
		fields, ok := values[i+1].([]interface{})
		if !ok {
			continue
		}
		hits = append(hits, parseHitFields(fields))
	}
	return hits, nil
}

// parseHitFields maps a flat (name, value) field list onto a RetrievedChunk.
// Numeric metadata comes back as strings from RESP2; fields absent from the
// hash stay nil rather than being defaulted.
func parseHitFields(fields []interface{}) llm.RetrievedChunk {
	var hit llm.RetrievedChunk

	for i := 0; i+1 < len(fields); i += 2 {
		name, ok := fields[i].(string)
		if !ok {
			continue
		}
		value, ok := fields[i+1].(string)
		if !ok {
			continue
		}

		switch name {
		case fieldText:
			hit.Text = value
		case fieldLesson:
			if n, err := strconv.Atoi(value); err == nil {
				hit.Lesson = &n
			}
		case fieldSublesson:
			if n, err := strconv.Atoi(value); err == nil {
				hit.Sublesson = &n
			}
		case fieldTopic:
			hit.Topic = value
		case fieldChunkID:
			hit.ChunkID = value
		}
	}
	return hit
}

// Count returns the number of indexed chunks from FT.INFO.
func (s *RedisStore) Count(ctx context.Context) (int64, error) {
	info, err := s.client.Do(ctx, "FT.INFO", s.config.IndexName).Result()
	if err != nil {
		if isMissingIndexErr(err) {
			return 0, ErrIndexMissing
		}
		return 0, fmt.Errorf("failed to get index info: %w", err)
	}

	values, ok := info.([]interface{})
	if !ok {
		return 0, fmt.Errorf("unexpected info reply format")
	}

	for i := 0; i+1 < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok || key != "num_docs" {
			continue
		}
		switch v := values[i+1].(type) {
		case int64:
			return v, nil
		case string:
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return 0, fmt.Errorf("failed to parse num_docs %q: %w", v, err)
			}
			return n, nil
		}
	}
	return 0, nil
}

// Drop deletes the index together with all stored chunks (FT.DROPINDEX DD).
func (s *RedisStore) Drop(ctx context.Context) error {
	_, err := s.client.Do(ctx, "FT.DROPINDEX", s.config.IndexName, "DD").Result()
	if err != nil {
		if isMissingIndexErr(err) {
			return ErrIndexMissing
		}
		return fmt.Errorf("failed to drop index: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// isMissingIndexErr reports whether err is RediSearch's "unknown index"
// reply, whose exact wording varies between server versions.
func isMissingIndexErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unknown index") || strings.Contains(msg, "no such index")
}
