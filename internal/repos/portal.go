package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shotlist-app/shotlist-backend/internal/logger"
	"github.com/shotlist-app/shotlist-backend/internal/types"
)

type PortalRepo interface {
	Create(ctx context.Context, tx *gorm.DB, portals []*types.Portal) ([]*types.Portal, error)
	GetByID(ctx context.Context, tx *gorm.DB, portalID uuid.UUID) (*types.Portal, error)
	GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (*types.Portal, error)
	Update(ctx context.Context, tx *gorm.DB, portal *types.Portal) error
	DeleteByProjectIDs(ctx context.Context, tx *gorm.DB, projectIDs []uuid.UUID) error
}

type portalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPortalRepo(db *gorm.DB, baseLog *logger.Logger) PortalRepo {
	return &portalRepo{db: db, log: baseLog.With("repo", "PortalRepo")}
}

func (pr *portalRepo) Create(ctx context.Context, tx *gorm.DB, portals []*types.Portal) ([]*types.Portal, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(portals) == 0 {
		return []*types.Portal{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&portals).Error; err != nil {
		return nil, err
	}
	return portals, nil
}

func (pr *portalRepo) GetByID(ctx context.Context, tx *gorm.DB, portalID uuid.UUID) (*types.Portal, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var result types.Portal
	if err := transaction.WithContext(ctx).
		Where("id = ?", portalID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (pr *portalRepo) GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (*types.Portal, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var result types.Portal
	if err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (pr *portalRepo) Update(ctx context.Context, tx *gorm.DB, portal *types.Portal) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).Save(portal).Error
}

func (pr *portalRepo) DeleteByProjectIDs(ctx context.Context, tx *gorm.DB, projectIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(projectIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("project_id IN ?", projectIDs).
		Delete(&types.Portal{}).Error
}
