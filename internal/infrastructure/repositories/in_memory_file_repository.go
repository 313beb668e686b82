package repositories

import (
	"context"
	"sort"
	"sync"

	"dropzone/internal/domain/entities"
	"dropzone/internal/domain/repositories"
)

type InMemoryFileRepository struct {
	mu       sync.RWMutex
	data     map[string]*entities.StoredFile
	failures []entities.AssemblyFailure
}

func NewInMemoryFileRepository() *InMemoryFileRepository {
	return &InMemoryFileRepository{
		data: make(map[string]*entities.StoredFile),
	}
}

func (r *InMemoryFileRepository) Create(ctx context.Context, file *entities.StoredFile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *file
	r.data[file.ID] = &cp
	return nil
}

func (r *InMemoryFileRepository) GetByID(ctx context.Context, id string) (*entities.StoredFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	file, exists := r.data[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	cp := *file
	return &cp, nil
}

func (r *InMemoryFileRepository) List(ctx context.Context) ([]entities.StoredFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	files := make([]entities.StoredFile, 0, len(r.data))
	for _, f := range r.data {
		files = append(files, *f)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].UploadedAt.After(files[j].UploadedAt)
	})
	return files, nil
}

func (r *InMemoryFileRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, id)
	return nil
}

func (r *InMemoryFileRepository) Stats(ctx context.Context) (*entities.FileStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := &entities.FileStats{}
	for _, f := range r.data {
		stats.TotalFiles++
		stats.TotalBytes += f.Size
	}
	return stats, nil
}

func (r *InMemoryFileRepository) RecordAssemblyFailure(ctx context.Context, failure *entities.AssemblyFailure) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, *failure)
	return nil
}

// Failures exposes recorded assembly failures for tests.
func (r *InMemoryFileRepository) Failures() []entities.AssemblyFailure {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entities.AssemblyFailure, len(r.failures))
	copy(out, r.failures)
	return out
}
