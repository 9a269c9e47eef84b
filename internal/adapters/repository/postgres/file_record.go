package postgres

import (
	"code-drop/internal/core/domain"
	"code-drop/internal/core/port"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const fileColumns = `id, code, original_name, disk_name, mime_type, size_bytes,
                     created_at, expires_at, max_downloads, downloads`

type sqlFileRegistry struct {
	db SQLQuerier
}

// NewSqlFileRegistry creates sqlFileRegistry that implements port.FileRegistry
func NewSqlFileRegistry(db SQLQuerier) port.FileRegistry {
	return &sqlFileRegistry{
		db: db,
	}
}

// Insert creates new shared file entry
func (s *sqlFileRegistry) Insert(ctx context.Context, record domain.FileRecord) (uuid.UUID, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	query := `INSERT INTO shared_files (id, code, original_name, disk_name, mime_type, size_bytes,
                                        created_at, expires_at, max_downloads, downloads)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := s.db.ExecContext(ctx, query,
		record.ID,
		record.Code,
		record.OriginalName,
		record.DiskName,
		record.MimeType,
		record.SizeBytes,
		record.CreatedAt,
		nullTime(record.ExpiresAt),
		record.MaxDownloads,
		record.Downloads,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "shared_files_code_key" {
				return uuid.Nil, fmt.Errorf("code %s : %w", record.Code, domain.ErrDuplicateCode)
			}
		}
		return uuid.Nil, fmt.Errorf("error inserting shared file: %w", err)
	}
	return record.ID, nil
}

// FindByCode finds by the public code
func (s *sqlFileRegistry) FindByCode(ctx context.Context, code string) (*domain.FileRecord, error) {
	query := `SELECT ` + fileColumns + ` FROM shared_files WHERE code = $1`
	return s.findOne(ctx, query, code)
}

// FindByID finds by id
func (s *sqlFileRegistry) FindByID(ctx context.Context, id uuid.UUID) (*domain.FileRecord, error) {
	query := `SELECT ` + fileColumns + ` FROM shared_files WHERE id = $1`
	return s.findOne(ctx, query, id)
}

// FindByDiskName finds by blob name
func (s *sqlFileRegistry) FindByDiskName(ctx context.Context, diskName string) (*domain.FileRecord, error) {
	query := `SELECT ` + fileColumns + ` FROM shared_files WHERE disk_name = $1`
	return s.findOne(ctx, query, diskName)
}

func (s *sqlFileRegistry) findOne(ctx context.Context, query string, arg any) (*domain.FileRecord, error) {
	var dbFile dbFileRecord
	err := dbFile.scan(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFileNotFound
		}
		return nil, err
	}
	return dbFile.ToDomain(), nil
}

// IncrementIfAllowed bumps the download counter in one conditional statement.
// When no row is updated the current state is read back to tell a denial from a missing record.
func (s *sqlFileRegistry) IncrementIfAllowed(ctx context.Context, id uuid.UUID, now time.Time) (*domain.FileRecord, bool, error) {
	query := `UPDATE shared_files
              SET downloads = downloads + 1
              WHERE id = $1
                AND (max_downloads = 0 OR downloads < max_downloads)
                AND (expires_at IS NULL OR expires_at > $2)
              RETURNING ` + fileColumns

	var dbFile dbFileRecord
	err := dbFile.scan(s.db.QueryRowContext(ctx, query, id, now))
	if err == nil {
		return dbFile.ToDomain(), true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("error incrementing downloads: %w", err)
	}

	current, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return current, false, nil
}

// Delete hard deletes; deleting a missing row is not an error
func (s *sqlFileRegistry) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM shared_files WHERE id = $1`

	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("error deleting shared file: %w", err)
	}
	return nil
}

// FindExpired finds files whose expiry is at or before the given time
func (s *sqlFileRegistry) FindExpired(ctx context.Context, before time.Time) ([]domain.FileRecord, error) {
	query := `SELECT ` + fileColumns + `
              FROM shared_files
              WHERE expires_at IS NOT NULL
                AND expires_at <= $1
              ORDER BY expires_at`

	rows, err := s.db.QueryContext(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("error querying expired files: %w", err)
	}
	defer rows.Close()

	var files []domain.FileRecord
	for rows.Next() {
		var dbFile dbFileRecord
		if err := dbFile.scan(rows); err != nil {
			return nil, fmt.Errorf("error scanning shared file: %w", err)
		}
		files = append(files, *dbFile.ToDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating files: %w", err)
	}

	return files, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// dbFileRecord represents a shared file in DB
type dbFileRecord struct {
	ID           uuid.UUID    `db:"id"`
	Code         string       `db:"code"`
	OriginalName string       `db:"original_name"`
	DiskName     string       `db:"disk_name"`
	MimeType     string       `db:"mime_type"`
	Size         int64        `db:"size_bytes"`
	CreatedAt    time.Time    `db:"created_at"`
	ExpiresAt    sql.NullTime `db:"expires_at"`
	MaxDownloads int          `db:"max_downloads"`
	Downloads    int          `db:"downloads"`
}

func (f *dbFileRecord) scan(row rowScanner) error {
	return row.Scan(
		&f.ID,
		&f.Code,
		&f.OriginalName,
		&f.DiskName,
		&f.MimeType,
		&f.Size,
		&f.CreatedAt,
		&f.ExpiresAt,
		&f.MaxDownloads,
		&f.Downloads,
	)
}

// ToDomain converts to domain.FileRecord
func (f *dbFileRecord) ToDomain() *domain.FileRecord {
	record := &domain.FileRecord{
		ID:           f.ID,
		Code:         f.Code,
		OriginalName: f.OriginalName,
		DiskName:     f.DiskName,
		MimeType:     f.MimeType,
		SizeBytes:    f.Size,
		CreatedAt:    f.CreatedAt,
		MaxDownloads: f.MaxDownloads,
		Downloads:    f.Downloads,
	}
	if f.ExpiresAt.Valid {
		expiresAt := f.ExpiresAt.Time
		record.ExpiresAt = &expiresAt
	}
	return record
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
