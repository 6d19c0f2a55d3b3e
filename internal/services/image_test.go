package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/shotlist-app/shotlist-backend/internal/errs"
	"github.com/shotlist-app/shotlist-backend/internal/types"
)

type fakeBucket struct {
	uploads map[string][]byte
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{uploads: map[string][]byte{}}
}

func (f *fakeBucket) UploadFile(ctx context.Context, key string, file io.Reader) error {
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	f.uploads[key] = data
	return nil
}

func (f *fakeBucket) DeleteFile(ctx context.Context, key string) error {
	delete(f.uploads, key)
	return nil
}

func (f *fakeBucket) ReplaceFile(ctx context.Context, key string, newFile io.Reader) error {
	return f.UploadFile(ctx, key, newFile)
}

func (f *fakeBucket) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func seedPhotoRequestList(t *testing.T, repo *fakeListRepo, items []types.Item) *types.List {
	t.Helper()
	list := seedList(t, repo, items, nil)
	list.Type = types.ListTypePhotoRequests
	repo.lists[list.ID] = list
	return list
}

func newTestImageService(t *testing.T, repo *fakeListRepo, bucket BucketService) ImageService {
	t.Helper()
	lists := NewListService(nil, testLogger(t), repo, nil)
	return NewImageService(testLogger(t), lists, bucket)
}

func TestUploadReferenceImage_FreePlanDisabled(t *testing.T) {
	repo := newFakeListRepo()
	list := seedPhotoRequestList(t, repo, makeItems(1, nil))
	items, _ := list.DecodeItems()
	svc := newTestImageService(t, repo, newFakeBucket())

	user := &types.User{ID: uuid.New(), Plan: types.PlanFree}
	_, err := svc.UploadReferenceImage(context.Background(), user, list.ID, items[0].ID, strings.NewReader("jpeg"))
	if !errs.Is(err, errs.CodeImageUploadDisabled) {
		t.Fatalf("expected %s got %v", errs.CodeImageUploadDisabled, err)
	}
}

func TestUploadReferenceImage_ProPlanUploadsAndStampsItem(t *testing.T) {
	repo := newFakeListRepo()
	list := seedPhotoRequestList(t, repo, makeItems(2, nil))
	items, _ := list.DecodeItems()
	bucket := newFakeBucket()
	svc := newTestImageService(t, repo, bucket)

	user := &types.User{ID: uuid.New(), Plan: types.PlanPro}
	updated, err := svc.UploadReferenceImage(context.Background(), user, list.ID, items[0].ID, strings.NewReader("jpeg"))
	if err != nil {
		t.Fatalf("UploadReferenceImage: %v", err)
	}
	if updated.ImageURL == "" {
		t.Fatalf("image url not stamped")
	}
	if updated.ImageStatus != types.ImageStatusUploaded {
		t.Fatalf("image status: want=%s got=%s", types.ImageStatusUploaded, updated.ImageStatus)
	}
	if len(bucket.uploads) != 1 {
		t.Fatalf("uploads: want=1 got=%d", len(bucket.uploads))
	}
	stored, _ := repo.GetByID(context.Background(), nil, list.ID)
	got, _ := stored.DecodeItems()
	if got[0].ImageURL != updated.ImageURL {
		t.Fatalf("persisted item url mismatch: %q vs %q", got[0].ImageURL, updated.ImageURL)
	}
}

func TestUploadReferenceImage_ProPlanTotalLimit(t *testing.T) {
	repo := newFakeListRepo()
	items := makeItems(16, nil)
	for i := 0; i < 15; i++ {
		items[i].ImageURL = "https://cdn.example.com/existing"
	}
	list := seedPhotoRequestList(t, repo, items)
	svc := newTestImageService(t, repo, newFakeBucket())

	user := &types.User{ID: uuid.New(), Plan: types.PlanPro}
	_, err := svc.UploadReferenceImage(context.Background(), user, list.ID, items[15].ID, strings.NewReader("jpeg"))
	if !errs.Is(err, errs.CodeImageLimitReached) {
		t.Fatalf("expected %s got %v", errs.CodeImageLimitReached, err)
	}
}

func TestUploadReferenceImage_StudioUnlimited(t *testing.T) {
	repo := newFakeListRepo()
	items := makeItems(30, nil)
	for i := 0; i < 29; i++ {
		items[i].ImageURL = "https://cdn.example.com/existing"
	}
	list := seedPhotoRequestList(t, repo, items)
	svc := newTestImageService(t, repo, newFakeBucket())

	user := &types.User{ID: uuid.New(), Plan: types.PlanStudio}
	if _, err := svc.UploadReferenceImage(context.Background(), user, list.ID, items[29].ID, strings.NewReader("jpeg")); err != nil {
		t.Fatalf("UploadReferenceImage: %v", err)
	}
}

func TestUploadReferenceImage_UnknownItem(t *testing.T) {
	repo := newFakeListRepo()
	list := seedPhotoRequestList(t, repo, makeItems(1, nil))
	svc := newTestImageService(t, repo, newFakeBucket())

	user := &types.User{ID: uuid.New(), Plan: types.PlanStudio}
	_, err := svc.UploadReferenceImage(context.Background(), user, list.ID, uuid.New(), strings.NewReader("jpeg"))
	if !errs.Is(err, errs.CodeListItemNotFound) {
		t.Fatalf("expected %s got %v", errs.CodeListItemNotFound, err)
	}
}
