// Package archive keeps the raw files of every import for auditing and re-processing
package archive

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when no file exists for a key
	ErrNotFound = errors.New("archive: file not found")
	// ErrCorrupt is returned when stored content no longer matches its recorded checksum
	ErrCorrupt = errors.New("archive: checksum mismatch")
)

// Metadata contains file metadata stored next to an archived file
type Metadata struct {
	ContentType  string            `json:"contentType,omitempty"`
	OriginalName string            `json:"originalName,omitempty"`
	Source       string            `json:"source,omitempty"`
	Username     string            `json:"username,omitempty"`
	ArchivedAt   time.Time         `json:"archivedAt"`
	Checksum     string            `json:"checksum,omitempty"`
	Custom       map[string]string `json:"custom,omitempty"`
}

// FileInfo contains information about an archived file
type FileInfo struct {
	Key        string    `json:"key"`
	Size       int64     `json:"size"`
	Checksum   string    `json:"checksum"`
	ModifiedAt time.Time `json:"modifiedAt"`
	Metadata   *Metadata `json:"metadata,omitempty"`
}

// Archive stores raw import files by key
type Archive interface {
	// Put stores content at the given key with optional metadata
	Put(ctx context.Context, key string, content []byte, metadata *Metadata) error

	// Get retrieves content from the given key
	Get(ctx context.Context, key string) ([]byte, error)

	// GetInfo retrieves file information without content
	GetInfo(ctx context.Context, key string) (*FileInfo, error)

	// Exists checks if a file exists at the given key
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes a file at the given key
	Delete(ctx context.Context, key string) error

	// List returns all keys matching the given prefix
	List(ctx context.Context, prefix string) ([]string, error)
}

// ImportKey builds the key under which the raw file of an import is archived.
// ext is the file extension without the dot.
func ImportKey(importID, ext string, at time.Time) string {
	return fmt.Sprintf("imports/%s/%s.%s", at.Format("2006/01"), importID, ext)
}
