package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"dropzone/internal/domain/entities"
	"dropzone/internal/domain/repositories"
)

type linkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) repositories.LinkStore {
	return &linkRepository{db: db}
}

func (r *linkRepository) Create(ctx context.Context, link *entities.ShareLink) error {
	// the unique index on short_token rejects colliding tokens
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *linkRepository) GetByToken(ctx context.Context, token string) (*entities.ShareLink, error) {
	var link entities.ShareLink
	err := r.db.WithContext(ctx).First(&link, "short_token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *linkRepository) GetActiveByFileID(ctx context.Context, fileID string, now time.Time) (*entities.ShareLink, error) {
	var link entities.ShareLink
	err := r.db.WithContext(ctx).
		Where("file_id = ? AND expires_at > ?", fileID, now).
		First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *linkRepository) List(ctx context.Context) ([]entities.ShareLink, error) {
	var links []entities.ShareLink
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *linkRepository) DeleteByToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Delete(&entities.ShareLink{}, "short_token = ?", token).Error
}

func (r *linkRepository) DeleteByFileID(ctx context.Context, fileID string) error {
	return r.db.WithContext(ctx).Delete(&entities.ShareLink{}, "file_id = ?", fileID).Error
}

func (r *linkRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&entities.ShareLink{}, "expires_at < ?", cutoff)
	return res.RowsAffected, res.Error
}
