package domain

import (
	"fmt"

	"github.com/kailas-cloud/pdfctx/internal/domain/keyword"
)

// Fixed dataset header values.
const (
	DatasetVersion  = "1.0"
	DatasetPurpose  = "AI Extended Context with Vector Embeddings"
	DatasetEncoding = "utf-8"

	InstructionForAI = "Questo file contiene embeddings vettoriali. Usa similarity search per trovare " +
		"contenuti rilevanti basandoti sulla query dell'utente."
	InstructionUsage = "Calcola la distanza coseno tra query embedding e document embeddings per " +
		"recuperare i chunk più pertinenti."
)

// Dataset is the JSON artifact shared by the pipeline and the server.
type Dataset struct {
	Metadata     Metadata           `json:"metadata"`
	Instructions Instructions       `json:"instructions"`
	Documents    []EmbeddedDocument `json:"documents"`
}

// Metadata describes how the dataset was produced.
type Metadata struct {
	Version         string `json:"version"`
	Purpose         string `json:"purpose"`
	SourceFile      string `json:"source_file"`
	EmbeddingModel  string `json:"embedding_model"`
	VectorDimension int    `json:"vector_dimension"`
	TotalDocuments  int    `json:"total_documents"`
	Encoding        string `json:"encoding"`
}

// Instructions are free-text hints for the consuming AI front-end.
type Instructions struct {
	ForAI string `json:"for_ai"`
	Usage string `json:"usage"`
}

// EmbeddedDocument is a chunk with its vector.
type EmbeddedDocument struct {
	ID        string    `json:"id"`
	Page      int       `json:"page"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding"`
	VectorDim int       `json:"vector_dim"`
	Keywords  []string  `json:"keywords"`
}

// DocumentID formats the id of the document built from the chunk at the
// given 1-based position.
func DocumentID(chunkIndex int) string {
	return fmt.Sprintf("doc_%03d", chunkIndex)
}

// NewEmbeddedDocument builds the document for the chunk at chunkIndex (1-based).
// Callers must not pass an empty vector: such chunks are dropped upstream.
func NewEmbeddedDocument(chunkIndex int, c Chunk, vector []float32) EmbeddedDocument {
	return EmbeddedDocument{
		ID:        DocumentID(chunkIndex),
		Page:      c.Page,
		Content:   c.Content,
		Embedding: vector,
		VectorDim: len(vector),
		Keywords:  keyword.Extract(c.Content),
	}
}

// NewDataset assembles the dataset header around docs.
//
// vector_dimension is taken from the first document only; later documents are
// not checked against it.
func NewDataset(sourceFile, model string, docs []EmbeddedDocument) Dataset {
	if docs == nil {
		docs = []EmbeddedDocument{}
	}
	dim := 0
	if len(docs) > 0 {
		dim = docs[0].VectorDim
	}
	return Dataset{
		Metadata: Metadata{
			Version:         DatasetVersion,
			Purpose:         DatasetPurpose,
			SourceFile:      sourceFile,
			EmbeddingModel:  model,
			VectorDimension: dim,
			TotalDocuments:  len(docs),
			Encoding:        DatasetEncoding,
		},
		Instructions: Instructions{
			ForAI: InstructionForAI,
			Usage: InstructionUsage,
		},
		Documents: docs,
	}
}
