// Package storage archives original statement files next to a summary of how
// they were parsed, so a failed or suspicious import can be replayed later.
package storage

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("statement not found")
	ErrDuplicate = errors.New("statement already archived")
)

// ParseRecord is the outcome of parsing an archived statement.
type ParseRecord struct {
	ParseID      string    `json:"parse_id"`
	Success      bool      `json:"success"`
	ErrorKind    string    `json:"error_kind,omitempty"`
	BankName     string    `json:"bank_name,omitempty"`
	Transactions int       `json:"transactions"`
	ParsedAt     time.Time `json:"parsed_at"`
}

// FileInfo contains metadata about an archived statement
type FileInfo struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Size        int64        `json:"size"`
	ContentType string       `json:"content_type"`
	Checksum    string       `json:"checksum"` // sha256 of the content
	Path        string       `json:"path"`     // Internal storage path
	CreatedAt   time.Time    `json:"created_at"`
	Parse       *ParseRecord `json:"parse,omitempty"`
}

// Storage defines the interface for statement archive operations
type Storage interface {
	// Upload stores a statement. When identical content is already archived
	// the existing entry is returned together with ErrDuplicate.
	Upload(ctx context.Context, filename string, contentType string, r io.Reader) (*FileInfo, error)

	// Download retrieves a statement by its ID
	Download(ctx context.Context, fileID uuid.UUID) (io.ReadCloser, *FileInfo, error)

	// Annotate attaches a parse outcome to an archived statement
	Annotate(ctx context.Context, fileID uuid.UUID, record ParseRecord) error

	Delete(ctx context.Context, fileID uuid.UUID) error

	// List returns all archived statements, oldest first
	List(ctx context.Context) ([]*FileInfo, error)

	GetInfo(ctx context.Context, fileID uuid.UUID) (*FileInfo, error)
}

// StorageType identifies the storage backend
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
)

// Config holds storage configuration
type Config struct {
	Type      StorageType
	LocalPath string
}

// New creates a new Storage implementation based on configuration
func New(cfg *Config) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal, "":
		return NewLocalStorage(cfg.LocalPath)
	default:
		return nil, errors.New("unsupported storage type: " + string(cfg.Type))
	}
}
