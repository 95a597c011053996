package domain

// MinChunkLength is the exclusive lower bound, in characters, for a kept chunk.
const MinChunkLength = 50

// Chunk is a paragraph of extracted PDF text that survived the length filter.
type Chunk struct {
	Page    int
	Content string
}
