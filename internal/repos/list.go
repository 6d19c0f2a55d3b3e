package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shotlist-app/shotlist-backend/internal/logger"
	"github.com/shotlist-app/shotlist-backend/internal/types"
)

type ListRepo interface {
	Create(ctx context.Context, tx *gorm.DB, lists []*types.List) ([]*types.List, error)
	GetByID(ctx context.Context, tx *gorm.DB, listID uuid.UUID) (*types.List, error)
	GetByProjectIDs(ctx context.Context, tx *gorm.DB, projectIDs []uuid.UUID) ([]*types.List, error)
	GetByProjectAndType(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, listType types.ListType) (*types.List, error)
	Update(ctx context.Context, tx *gorm.DB, list *types.List) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, listIDs []uuid.UUID) error
	DeleteByProjectIDs(ctx context.Context, tx *gorm.DB, projectIDs []uuid.UUID) error
}

type listRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewListRepo(db *gorm.DB, baseLog *logger.Logger) ListRepo {
	return &listRepo{db: db, log: baseLog.With("repo", "ListRepo")}
}

func (lr *listRepo) Create(ctx context.Context, tx *gorm.DB, lists []*types.List) ([]*types.List, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	if len(lists) == 0 {
		return []*types.List{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

func (lr *listRepo) GetByID(ctx context.Context, tx *gorm.DB, listID uuid.UUID) (*types.List, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var result types.List
	if err := transaction.WithContext(ctx).
		Where("id = ?", listID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (lr *listRepo) GetByProjectIDs(ctx context.Context, tx *gorm.DB, projectIDs []uuid.UUID) ([]*types.List, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var results []*types.List
	if len(projectIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("project_id IN ?", projectIDs).
		Order("type ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (lr *listRepo) GetByProjectAndType(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, listType types.ListType) (*types.List, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var result types.List
	if err := transaction.WithContext(ctx).
		Where("project_id = ? AND type = ?", projectID, listType).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (lr *listRepo) Update(ctx context.Context, tx *gorm.DB, list *types.List) error {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	return transaction.WithContext(ctx).Save(list).Error
}

func (lr *listRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, listIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	if len(listIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", listIDs).
		Delete(&types.List{}).Error
}

func (lr *listRepo) DeleteByProjectIDs(ctx context.Context, tx *gorm.DB, projectIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	if len(projectIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("project_id IN ?", projectIDs).
		Delete(&types.List{}).Error
}
