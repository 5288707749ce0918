package storage

import "time"

// DocumentRecord is an indexed source file.
type DocumentRecord struct {
	ID        string // UUID
	RelPath   string // Relative path from the documents root, forward slashes
	Format    string // markdown, text or html
	Title     string
	Hash      string // SHA256 hex string of file content
	UpdatedAt time.Time
}

// ChunkRecord is one chunk of a document, indexed for vector search.
type ChunkRecord struct {
	ID         string // UUID (same as Qdrant point ID)
	DocumentID string // UUID (foreign key to documents.id)
	ChunkIndex int    // Index within document (starts at 0)
	Label      string // Chunker id, e.g. c0001
	HeaderPath string // Format: "Title / Section / Subsection"
	StartLine  int
	EndLine    int
	Text       string
}
