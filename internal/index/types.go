// Package index builds and searches the JSONL vector index that backs
// retrieval evaluation.
package index

// Entry is a single JSONL record in the vector index: one chunk of one
// document section, plus its embedding.
type Entry struct {
	ChunkID    string    `json:"chunk_id"`
	Doc        string    `json:"doc"`
	Section    int       `json:"section"`
	Seq        int       `json:"seq"`
	Text       string    `json:"text"`
	Embedding  []float64 `json:"embedding"`
	TokenCount int       `json:"token_count"`
}
