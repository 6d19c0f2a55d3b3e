package services

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/shotlist-app/shotlist-backend/internal/errs"
	"github.com/shotlist-app/shotlist-backend/internal/logger"
	"github.com/shotlist-app/shotlist-backend/internal/types"
)

// ImageService handles reference images on photo-request items: plan-tier
// limit checks, the blob upload, and stamping the item with the stored URL.
type ImageService interface {
	UploadReferenceImage(ctx context.Context, user *types.User, listID, itemID uuid.UUID, image io.Reader) (*types.Item, error)
}

type imageService struct {
	log    *logger.Logger
	lists  ListService
	bucket BucketService
}

func NewImageService(baseLog *logger.Logger, lists ListService, bucket BucketService) ImageService {
	return &imageService{
		log:    baseLog.With("service", "ImageService"),
		lists:  lists,
		bucket: bucket,
	}
}

func (is *imageService) UploadReferenceImage(ctx context.Context, user *types.User, listID, itemID uuid.UUID, image io.Reader) (*types.Item, error) {
	if user == nil {
		return nil, errs.Newf(errs.CodeValidationFailed, "user required")
	}
	if is.bucket == nil {
		return nil, errs.Newf(errs.CodeStorageUpload, "bucket service unavailable")
	}
	list, err := is.lists.Get(ctx, listID)
	if err != nil {
		return nil, err
	}
	items, err := list.DecodeItems()
	if err != nil {
		return nil, errs.New(errs.CodeValidationFailed, err)
	}

	var target *types.Item
	perRequest, total := 0, 0
	for i := range items {
		if items[i].ImageURL != "" {
			total++
			if items[i].ID == itemID {
				perRequest++
			}
		}
		if items[i].ID == itemID {
			target = &items[i]
		}
	}
	if target == nil {
		return nil, errs.Newf(errs.CodeListItemNotFound, "item %s", itemID)
	}

	limits, ok := imageLimitsByPlan[user.Plan]
	if !ok || limits.MaxPerRequest == 0 {
		return nil, errs.Newf(errs.CodeImageUploadDisabled, "plan %s", user.Plan)
	}
	if !CanUploadImage(user.Plan, perRequest, total) {
		return nil, errs.Newf(errs.CodeImageLimitReached, "plan %s per_request=%d total=%d", user.Plan, perRequest, total)
	}

	key := fmt.Sprintf("projects/%s/photo-requests/%s", list.ProjectID, itemID)
	if err := is.bucket.UploadFile(ctx, key, image); err != nil {
		return nil, errs.New(errs.CodeStorageUpload, err)
	}

	imageURL := is.bucket.GetPublicURL(key)
	status := types.ImageStatusUploaded
	updated, err := is.lists.BatchUpdateItems(ctx, listID, []types.ItemUpdate{{
		ID:          itemID,
		ImageURL:    &imageURL,
		ImageStatus: &status,
	}})
	if err != nil {
		return nil, err
	}
	items, decodeErr := updated.DecodeItems()
	if decodeErr != nil {
		return nil, errs.New(errs.CodeValidationFailed, decodeErr)
	}
	for i := range items {
		if items[i].ID == itemID {
			return &items[i], nil
		}
	}
	return nil, errs.Newf(errs.CodeListItemNotFound, "item %s", itemID)
}
