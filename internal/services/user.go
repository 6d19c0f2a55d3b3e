package services

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shotlist-app/shotlist-backend/internal/errs"
	"github.com/shotlist-app/shotlist-backend/internal/logger"
	"github.com/shotlist-app/shotlist-backend/internal/normalization"
	"github.com/shotlist-app/shotlist-backend/internal/repos"
	"github.com/shotlist-app/shotlist-backend/internal/types"
)

type UserProfileUpdate struct {
	FirstName    *string     `json:"first_name,omitempty"`
	LastName     *string     `json:"last_name,omitempty"`
	BusinessName *string     `json:"business_name,omitempty"`
	Plan         *types.Plan `json:"plan,omitempty"`
}

type UserService interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, upd UserProfileUpdate) (*types.User, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, avatar io.Reader) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	bucket   BucketService
}

func NewUserService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo, bucket BucketService) UserService {
	return &userService{
		db:       db,
		log:      baseLog.With("service", "UserService"),
		userRepo: userRepo,
		bucket:   bucket,
	}
}

func (us *userService) GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, errs.New(errs.CodeDatabaseRead, err)
	}
	if len(users) == 0 {
		return nil, errs.Newf(errs.CodeDatabaseNotFound, "user %s", userID)
	}
	return users[0], nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, upd UserProfileUpdate) (*types.User, error) {
	user, err := us.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if upd.FirstName != nil {
		user.FirstName = normalization.SanitizeText(*upd.FirstName)
	}
	if upd.LastName != nil {
		user.LastName = normalization.SanitizeText(*upd.LastName)
	}
	if upd.BusinessName != nil {
		user.BusinessName = normalization.SanitizeText(*upd.BusinessName)
	}
	if upd.Plan != nil {
		switch *upd.Plan {
		case types.PlanFree, types.PlanPro, types.PlanStudio:
			user.Plan = *upd.Plan
		default:
			return nil, errs.Newf(errs.CodeValidationFailed, "unknown plan %q", *upd.Plan)
		}
	}
	if err := us.userRepo.Update(ctx, nil, user); err != nil {
		return nil, errs.New(errs.CodeDatabaseWrite, err)
	}
	return user, nil
}

func (us *userService) UploadAvatar(ctx context.Context, userID uuid.UUID, avatar io.Reader) (*types.User, error) {
	if us.bucket == nil {
		return nil, errs.Newf(errs.CodeStorageUpload, "bucket service unavailable")
	}
	user, err := us.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("avatars/%s", userID)
	if user.AvatarBucketKey != "" {
		if err := us.bucket.ReplaceFile(ctx, key, avatar); err != nil {
			return nil, errs.New(errs.CodeStorageUpload, err)
		}
	} else {
		if err := us.bucket.UploadFile(ctx, key, avatar); err != nil {
			return nil, errs.New(errs.CodeStorageUpload, err)
		}
	}
	user.AvatarBucketKey = key
	user.AvatarURL = us.bucket.GetPublicURL(key)
	if err := us.userRepo.Update(ctx, nil, user); err != nil {
		return nil, errs.New(errs.CodeDatabaseWrite, err)
	}
	return user, nil
}
