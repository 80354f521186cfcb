package archive

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	metaSuffix = ".meta"
	tempPrefix = ".tmp-"
)

// LocalArchive implements Archive on the local filesystem.
// Metadata is kept in a ".meta" JSON sidecar and every write is atomic.
type LocalArchive struct {
	basePath string
}

// NewLocalArchive creates a local archive rooted at basePath
func NewLocalArchive(basePath string) (*LocalArchive, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory %s: %w", basePath, err)
	}
	return &LocalArchive{basePath: basePath}, nil
}

// Put stores content at key. The metadata checksum is always recomputed from content.
func (a *LocalArchive) Put(ctx context.Context, key string, content []byte, metadata *Metadata) error {
	fullPath := a.keyToPath(key)

	if err := writeAtomic(fullPath, content); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	if metadata == nil {
		_ = os.Remove(fullPath + metaSuffix)
		return nil
	}

	metadata.Checksum = Checksum(content)
	metaBytes, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := writeAtomic(fullPath+metaSuffix, metaBytes); err != nil {
		return fmt.Errorf("failed to write metadata for %s: %w", key, err)
	}
	return nil
}

// Get returns the content at key, verifying it against the recorded checksum when there is one
func (a *LocalArchive) Get(ctx context.Context, key string) ([]byte, error) {
	fullPath := a.keyToPath(key)

	content, err := os.ReadFile(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	if meta := readMetadata(fullPath); meta != nil && meta.Checksum != "" && meta.Checksum != Checksum(content) {
		return nil, fmt.Errorf("%w: %s", ErrCorrupt, key)
	}
	return content, nil
}

// GetInfo describes the file at key without loading it into memory
func (a *LocalArchive) GetInfo(ctx context.Context, key string) (*FileInfo, error) {
	fullPath := a.keyToPath(key)

	stat, err := os.Stat(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", key, err)
	}

	info := &FileInfo{
		Key:        key,
		Size:       stat.Size(),
		ModifiedAt: stat.ModTime(),
		Metadata:   readMetadata(fullPath),
	}

	if info.Metadata != nil && info.Metadata.Checksum != "" {
		info.Checksum = info.Metadata.Checksum
		return info, nil
	}

	sum, err := fileChecksum(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to checksum %s: %w", key, err)
	}
	info.Checksum = sum
	return info, nil
}

// Exists checks if a file exists at the given key
func (a *LocalArchive) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(a.keyToPath(key))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", key, err)
}

// Delete removes a file and its metadata. Deleting a missing key is not an error.
func (a *LocalArchive) Delete(ctx context.Context, key string) error {
	fullPath := a.keyToPath(key)
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	if err := os.Remove(fullPath + metaSuffix); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete metadata for %s: %w", key, err)
	}
	return nil
}

// List returns the keys under prefix in lexical order. Sidecars and in-flight writes are skipped.
func (a *LocalArchive) List(ctx context.Context, prefix string) ([]string, error) {
	keys := []string{}
	err := filepath.WalkDir(a.basePath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() || strings.HasSuffix(name, metaSuffix) || strings.HasPrefix(name, tempPrefix) {
			return nil
		}
		if key := a.pathToKey(path); strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list archive: %w", err)
	}
	return keys, nil
}

// keyToPath converts a key to a filesystem path, preventing traversal outside basePath
func (a *LocalArchive) keyToPath(key string) string {
	return filepath.Join(a.basePath, filepath.Clean("/"+key))
}

// pathToKey converts a filesystem path to a key
func (a *LocalArchive) pathToKey(path string) string {
	relPath, err := filepath.Rel(a.basePath, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(relPath)
}

// writeAtomic writes data to a temporary file in the target directory and renames it into place
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// readMetadata loads the sidecar of fullPath, nil when absent or unreadable
func readMetadata(fullPath string) *Metadata {
	raw, err := os.ReadFile(fullPath + metaSuffix)
	if err != nil {
		return nil
	}
	var meta Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil
	}
	return &meta
}

func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Checksum computes the SHA256 checksum of content
func Checksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
