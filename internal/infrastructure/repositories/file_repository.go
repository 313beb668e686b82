package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"dropzone/internal/domain/entities"
	"dropzone/internal/domain/repositories"
)

type fileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) repositories.FileStore {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(ctx context.Context, file *entities.StoredFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *fileRepository) GetByID(ctx context.Context, id string) (*entities.StoredFile, error) {
	var file entities.StoredFile
	err := r.db.WithContext(ctx).First(&file, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *fileRepository) List(ctx context.Context) ([]entities.StoredFile, error) {
	var files []entities.StoredFile
	if err := r.db.WithContext(ctx).Order("uploaded_at DESC").Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (r *fileRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entities.StoredFile{}, "id = ?", id).Error
}

func (r *fileRepository) Stats(ctx context.Context) (*entities.FileStats, error) {
	var stats entities.FileStats
	row := r.db.WithContext(ctx).
		Model(&entities.StoredFile{}).
		Select("COUNT(*) AS total_files, COALESCE(SUM(size), 0) AS total_bytes").
		Row()
	if err := row.Scan(&stats.TotalFiles, &stats.TotalBytes); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *fileRepository) RecordAssemblyFailure(ctx context.Context, failure *entities.AssemblyFailure) error {
	return r.db.WithContext(ctx).Create(failure).Error
}
