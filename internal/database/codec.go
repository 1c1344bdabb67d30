package database

import (
	"encoding/json"
	"fmt"
)

// EncodeEmbedding serializes an embedding as a JSON array, the format the
// browser client posts and the MariaDB/SQLite backends store.
func EncodeEmbedding(embedding []float32) (string, error) {
	data, err := json.Marshal(embedding)
	if err != nil {
		return "", fmt.Errorf("marshal embedding: %w", err)
	}
	return string(data), nil
}

// DecodeEmbedding parses a JSON array of numbers.
func DecodeEmbedding(s string) ([]float32, error) {
	var embedding []float32
	if err := json.Unmarshal([]byte(s), &embedding); err != nil {
		return nil, fmt.Errorf("unmarshal embedding: %w", err)
	}
	return embedding, nil
}
