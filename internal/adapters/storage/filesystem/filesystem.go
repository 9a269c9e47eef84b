package filesystem

import (
	"code-drop/internal/core/domain"
	"code-drop/internal/core/port"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const partialSuffix = ".part"

// Storage stores blobs as flat files under one directory
type Storage struct {
	basePath string
	logger   *slog.Logger
}

// NewStorage creates the base directory if needed and returns a port.BlobStore on top of it
func NewStorage(basePath string, logger *slog.Logger) (*Storage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob dir %s: %w: %w", basePath, domain.ErrStorageIO, err)
	}
	return &Storage{basePath: basePath, logger: logger}, nil
}

var _ port.BlobStore = (*Storage)(nil)

// Put streams r into a new blob. The blob only becomes visible under its final name once fully written.
func (s *Storage) Put(ctx context.Context, r io.Reader, extension string) (string, int64, error) {
	diskName := domain.NewDiskName(extension)
	finalPath := filepath.Join(s.basePath, diskName)
	partialPath := finalPath + partialSuffix

	f, err := os.OpenFile(partialPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create blob: %w: %w", domain.ErrStorageIO, err)
	}

	size, err := io.Copy(f, &contextReader{ctx: ctx, r: r})
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		s.removeQuietly(partialPath)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", 0, ctxErr
		}
		return "", 0, fmt.Errorf("failed to write blob: %w: %w", domain.ErrStorageIO, err)
	}

	if err := os.Rename(partialPath, finalPath); err != nil {
		s.removeQuietly(partialPath)
		return "", 0, fmt.Errorf("failed to commit blob: %w: %w", domain.ErrStorageIO, err)
	}

	return diskName, size, nil
}

// Open opens a blob for reading
func (s *Storage) Open(ctx context.Context, diskName string) (io.ReadCloser, error) {
	path, err := s.path(diskName)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to open blob: %w: %w", domain.ErrStorageIO, err)
	}
	return f, nil
}

// Delete removes a blob; removing a missing blob succeeds
func (s *Storage) Delete(ctx context.Context, diskName string) error {
	path, err := s.path(diskName)
	if err != nil {
		if errors.Is(err, domain.ErrBlobNotFound) {
			return nil
		}
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete blob: %w: %w", domain.ErrStorageIO, err)
	}
	return nil
}

// path resolves a disk name inside basePath, rejecting anything that is not a bare file name
func (s *Storage) path(diskName string) (string, error) {
	if diskName == "" || diskName != filepath.Base(diskName) || strings.ContainsAny(diskName, `/\`) || strings.HasPrefix(diskName, ".") {
		return "", domain.ErrBlobNotFound
	}
	return filepath.Join(s.basePath, diskName), nil
}

func (s *Storage) removeQuietly(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("failed to remove partial blob", "path", path, "error", err)
	}
}

// contextReader stops a copy once ctx is done
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
