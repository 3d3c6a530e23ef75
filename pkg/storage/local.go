package storage

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
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const metaDir = ".meta"

// LocalStorage implements Storage using the local filesystem
type LocalStorage struct {
	basePath string
	mu       sync.Mutex // serializes duplicate detection with writes
}

// NewLocalStorage creates a new local filesystem storage
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(filepath.Join(basePath, metaDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{basePath: basePath}, nil
}

// Upload stores a statement and returns its metadata
func (s *LocalStorage) Upload(ctx context.Context, filename string, contentType string, r io.Reader) (*FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fileID := uuid.New()
	storedFilename := fmt.Sprintf("%s_%s", fileID.String()[:8], sanitizeFilename(filename))
	filePath := filepath.Join(s.basePath, storedFilename)

	f, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	hasher := sha256.New()
	size, err := io.Copy(f, io.TeeReader(r, hasher))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	checksum := hex.EncodeToString(hasher.Sum(nil))

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.findByChecksum(checksum)
	if err != nil {
		os.Remove(filePath)
		return nil, err
	}
	if existing != nil {
		os.Remove(filePath)
		return existing, ErrDuplicate
	}

	info := &FileInfo{
		ID:          fileID,
		Name:        filename,
		Size:        size,
		ContentType: contentType,
		Checksum:    checksum,
		Path:        storedFilename,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.saveMetadata(info); err != nil {
		os.Remove(filePath)
		return nil, err
	}

	return info, nil
}

// Download retrieves a statement by its ID
func (s *LocalStorage) Download(ctx context.Context, fileID uuid.UUID) (io.ReadCloser, *FileInfo, error) {
	info, err := s.GetInfo(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(filepath.Join(s.basePath, info.Path))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	return f, info, nil
}

// Annotate records the parse outcome on an archived statement
func (s *LocalStorage) Annotate(ctx context.Context, fileID uuid.UUID, record ParseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := s.GetInfo(ctx, fileID)
	if err != nil {
		return err
	}
	if record.ParsedAt.IsZero() {
		record.ParsedAt = time.Now().UTC()
	}
	info.Parse = &record
	return s.saveMetadata(info)
}

// Delete removes a statement and its metadata
func (s *LocalStorage) Delete(ctx context.Context, fileID uuid.UUID) error {
	info, err := s.GetInfo(ctx, fileID)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.basePath, info.Path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	if err := os.Remove(s.metaPath(fileID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete metadata: %w", err)
	}

	return nil
}

// List returns all archived statements, oldest first
func (s *LocalStorage) List(ctx context.Context) ([]*FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := s.readAll()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].CreatedAt.Before(files[j].CreatedAt)
	})
	return files, nil
}

// GetInfo returns metadata for a statement without opening it
func (s *LocalStorage) GetInfo(ctx context.Context, fileID uuid.UUID) (*FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.metaPath(fileID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, fileID)
		}
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var info FileInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}

	return &info, nil
}

func (s *LocalStorage) findByChecksum(checksum string) (*FileInfo, error) {
	files, err := s.readAll()
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if f.Checksum == checksum {
			return f, nil
		}
	}
	return nil, nil
}

func (s *LocalStorage) readAll() ([]*FileInfo, error) {
	entries, err := os.ReadDir(filepath.Join(s.basePath, metaDir))
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}

	files := make([]*FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id, err := uuid.Parse(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}

		info, err := s.GetInfo(context.Background(), id)
		if err != nil {
			continue
		}
		files = append(files, info)
	}
	return files, nil
}

func (s *LocalStorage) metaPath(fileID uuid.UUID) string {
	return filepath.Join(s.basePath, metaDir, fileID.String()+".json")
}

func (s *LocalStorage) saveMetadata(info *FileInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := os.WriteFile(s.metaPath(info.ID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	return nil
}

var unsafeChars = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	"..", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
)

// sanitizeFilename removes unsafe characters from filenames
func sanitizeFilename(name string) string {
	return unsafeChars.Replace(name)
}
