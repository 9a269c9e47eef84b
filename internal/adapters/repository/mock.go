package repository

import (
	"code-drop/internal/core/domain"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockFileRegistry struct {
	mock.Mock
}

func NewMockFileRegistry() *MockFileRegistry {
	return &MockFileRegistry{}
}

func (m *MockFileRegistry) Insert(ctx context.Context, record domain.FileRecord) (uuid.UUID, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockFileRegistry) FindByCode(ctx context.Context, code string) (*domain.FileRecord, error) {
	args := m.Called(ctx, code)
	record, _ := args.Get(0).(*domain.FileRecord)
	return record, args.Error(1)
}

func (m *MockFileRegistry) FindByID(ctx context.Context, id uuid.UUID) (*domain.FileRecord, error) {
	args := m.Called(ctx, id)
	record, _ := args.Get(0).(*domain.FileRecord)
	return record, args.Error(1)
}

func (m *MockFileRegistry) FindByDiskName(ctx context.Context, diskName string) (*domain.FileRecord, error) {
	args := m.Called(ctx, diskName)
	record, _ := args.Get(0).(*domain.FileRecord)
	return record, args.Error(1)
}

func (m *MockFileRegistry) IncrementIfAllowed(ctx context.Context, id uuid.UUID, now time.Time) (*domain.FileRecord, bool, error) {
	args := m.Called(ctx, id, now)
	record, _ := args.Get(0).(*domain.FileRecord)
	return record, args.Bool(1), args.Error(2)
}

func (m *MockFileRegistry) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFileRegistry) FindExpired(ctx context.Context, before time.Time) ([]domain.FileRecord, error) {
	args := m.Called(ctx, before)
	files, _ := args.Get(0).([]domain.FileRecord)
	return files, args.Error(1)
}
