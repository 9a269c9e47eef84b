package memory

import (
	"code-drop/internal/core/domain"
	"code-drop/internal/core/port"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// entry guards one record; grants on different records never share a lock
type entry struct {
	mu      sync.Mutex
	record  domain.FileRecord
	deleted bool
}

func (e *entry) snapshot() *domain.FileRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return nil
	}
	record := e.record
	return &record
}

type fileRegistry struct {
	// mu guards the indexes only. Lock order: mu before entry.mu.
	mu     sync.RWMutex
	byID   map[uuid.UUID]*entry
	byCode map[string]*entry
	byDisk map[string]*entry
}

// NewFileRegistry creates an in-process registry implementing port.FileRegistry
func NewFileRegistry() port.FileRegistry {
	return &fileRegistry{
		byID:   make(map[uuid.UUID]*entry),
		byCode: make(map[string]*entry),
		byDisk: make(map[string]*entry),
	}
}

// Insert stores a new record, failing with domain.ErrDuplicateCode when the code is taken
func (r *fileRegistry) Insert(ctx context.Context, record domain.FileRecord) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byCode[record.Code]; taken {
		return uuid.Nil, domain.ErrDuplicateCode
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if _, exists := r.byID[record.ID]; exists {
		return uuid.Nil, domain.ErrDuplicateCode
	}

	e := &entry{record: record}
	r.byID[record.ID] = e
	r.byCode[record.Code] = e
	r.byDisk[record.DiskName] = e
	return record.ID, nil
}

func (r *fileRegistry) find(index map[string]*entry, key string) (*domain.FileRecord, error) {
	r.mu.RLock()
	e, ok := index[key]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrFileNotFound
	}
	record := e.snapshot()
	if record == nil {
		return nil, domain.ErrFileNotFound
	}
	return record, nil
}

func (r *fileRegistry) FindByCode(ctx context.Context, code string) (*domain.FileRecord, error) {
	return r.find(r.byCode, code)
}

func (r *fileRegistry) FindByDiskName(ctx context.Context, diskName string) (*domain.FileRecord, error) {
	return r.find(r.byDisk, diskName)
}

func (r *fileRegistry) FindByID(ctx context.Context, id uuid.UUID) (*domain.FileRecord, error) {
	r.mu.RLock()
	e, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrFileNotFound
	}
	record := e.snapshot()
	if record == nil {
		return nil, domain.ErrFileNotFound
	}
	return record, nil
}

// IncrementIfAllowed serializes grants per record under the entry lock
func (r *fileRegistry) IncrementIfAllowed(ctx context.Context, id uuid.UUID, now time.Time) (*domain.FileRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	r.mu.RLock()
	e, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return nil, false, domain.ErrFileNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.deleted {
		return nil, false, domain.ErrFileNotFound
	}

	if domain.Evaluate(e.record, now) != domain.AccessAllowed {
		record := e.record
		return &record, false, nil
	}

	e.record.Downloads++
	record := e.record
	return &record, true, nil
}

// Delete removes the record; deleting an absent record succeeds
func (r *fileRegistry) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return nil
	}

	e.mu.Lock()
	e.deleted = true
	e.mu.Unlock()

	delete(r.byID, id)
	if r.byCode[e.record.Code] == e {
		delete(r.byCode, e.record.Code)
	}
	if r.byDisk[e.record.DiskName] == e {
		delete(r.byDisk, e.record.DiskName)
	}
	return nil
}

// FindExpired lists records whose expiry is at or before the given time, oldest expiry first
func (r *fileRegistry) FindExpired(ctx context.Context, before time.Time) ([]domain.FileRecord, error) {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.byID))
	for _, e := range r.byID {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	var files []domain.FileRecord
	for _, e := range entries {
		record := e.snapshot()
		if record == nil || record.ExpiresAt == nil || record.ExpiresAt.After(before) {
			continue
		}
		files = append(files, *record)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ExpiresAt.Before(*files[j].ExpiresAt)
	})
	return files, nil
}
