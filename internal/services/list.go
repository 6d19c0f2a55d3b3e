package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	redisclient "github.com/shotlist-app/shotlist-backend/internal/clients/redis"
	"github.com/shotlist-app/shotlist-backend/internal/errs"
	"github.com/shotlist-app/shotlist-backend/internal/logger"
	"github.com/shotlist-app/shotlist-backend/internal/normalization"
	"github.com/shotlist-app/shotlist-backend/internal/repos"
	"github.com/shotlist-app/shotlist-backend/internal/types"
)

// ListService is the one CRUD engine shared by all nine list types. Every
// mutation is validated and sanitized here before it reaches the repo, so a
// validation failure can never leave a partially mutated list behind.
type ListService interface {
	Get(ctx context.Context, listID uuid.UUID) (*types.List, error)
	GetByProject(ctx context.Context, projectID uuid.UUID) ([]*types.List, error)
	AddItem(ctx context.Context, listID uuid.UUID, item types.Item) (*types.Item, error)
	BatchUpdateItems(ctx context.Context, listID uuid.UUID, updates []types.ItemUpdate) (*types.List, error)
	BatchDeleteItems(ctx context.Context, listID uuid.UUID, itemIDs []uuid.UUID) (*types.List, error)
	CreateOrReset(ctx context.Context, listID uuid.UUID, source *types.List) (*types.List, error)
	DeleteList(ctx context.Context, listID uuid.UUID) error
}

type listService struct {
	db       *gorm.DB
	log      *logger.Logger
	listRepo repos.ListRepo
	live     redisclient.Subscribable
}

func NewListService(db *gorm.DB, baseLog *logger.Logger, listRepo repos.ListRepo, live redisclient.Subscribable) ListService {
	return &listService{
		db:       db,
		log:      baseLog.With("service", "ListService"),
		listRepo: listRepo,
		live:     live,
	}
}

func (ls *listService) Get(ctx context.Context, listID uuid.UUID) (*types.List, error) {
	list, err := ls.listRepo.GetByID(ctx, nil, listID)
	if err != nil {
		return nil, errs.New(errs.CodeDatabaseRead, err)
	}
	if list == nil {
		return nil, errs.Newf(errs.CodeListNotFound, "list %s", listID)
	}
	return list, nil
}

func (ls *listService) GetByProject(ctx context.Context, projectID uuid.UUID) ([]*types.List, error) {
	lists, err := ls.listRepo.GetByProjectIDs(ctx, nil, []uuid.UUID{projectID})
	if err != nil {
		return nil, errs.New(errs.CodeDatabaseRead, err)
	}
	return lists, nil
}

func (ls *listService) AddItem(ctx context.Context, listID uuid.UUID, item types.Item) (*types.Item, error) {
	list, err := ls.Get(ctx, listID)
	if err != nil {
		return nil, err
	}
	items, cats, err := decodeList(list)
	if err != nil {
		return nil, err
	}

	sanitizeItem(&item)
	if item.ItemName == "" {
		return nil, errs.Newf(errs.CodeValidationFailed, "item name required")
	}
	if len(items) >= types.MaxItemsPerList {
		return nil, errs.Newf(errs.CodeListMaxItems, "list %s holds %d items", listID, len(items))
	}
	if err := checkCategory(item.CategoryID, items, cats); err != nil {
		return nil, err
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	items = append(items, item)
	if err := ls.persist(ctx, list, items, cats); err != nil {
		return nil, err
	}
	return &item, nil
}

func (ls *listService) BatchUpdateItems(ctx context.Context, listID uuid.UUID, updates []types.ItemUpdate) (*types.List, error) {
	list, err := ls.Get(ctx, listID)
	if err != nil {
		return nil, err
	}
	items, cats, err := decodeList(list)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]int, len(items))
	for i, it := range items {
		byID[it.ID] = i
	}
	merged := make([]types.Item, len(items))
	copy(merged, items)
	for _, upd := range updates {
		idx, ok := byID[upd.ID]
		if !ok {
			return nil, errs.Newf(errs.CodeListItemNotFound, "item %s", upd.ID)
		}
		applyUpdate(&merged[idx], upd)
	}
	if err := validateList(merged, cats); err != nil {
		return nil, err
	}
	if err := ls.persist(ctx, list, merged, cats); err != nil {
		return nil, err
	}
	return list, nil
}

func (ls *listService) BatchDeleteItems(ctx context.Context, listID uuid.UUID, itemIDs []uuid.UUID) (*types.List, error) {
	list, err := ls.Get(ctx, listID)
	if err != nil {
		return nil, err
	}
	items, cats, err := decodeList(list)
	if err != nil {
		return nil, err
	}

	drop := make(map[uuid.UUID]bool, len(itemIDs))
	for _, id := range itemIDs {
		drop[id] = true
	}
	remainder := items[:0:0]
	for _, it := range items {
		if !drop[it.ID] {
			remainder = append(remainder, it)
		}
	}
	if err := ls.persist(ctx, list, remainder, cats); err != nil {
		return nil, err
	}
	return list, nil
}

func (ls *listService) CreateOrReset(ctx context.Context, listID uuid.UUID, source *types.List) (*types.List, error) {
	if source == nil {
		return nil, errs.Newf(errs.CodeListInvalidSource, "source list required")
	}
	srcItems, srcCats, err := decodeList(source)
	if err != nil {
		return nil, errs.New(errs.CodeListInvalidSource, err)
	}
	for i := range srcItems {
		sanitizeItem(&srcItems[i])
		if srcItems[i].ID == uuid.Nil {
			srcItems[i].ID = uuid.New()
		}
	}
	if err := validateList(srcItems, srcCats); err != nil {
		return nil, errs.New(errs.CodeListInvalidSource, err)
	}

	list, err := ls.Get(ctx, listID)
	if err != nil {
		return nil, err
	}
	list.Status = types.ListStatusActive
	list.IsFinalized = false
	if err := list.SetCategories(srcCats); err != nil {
		return nil, errs.New(errs.CodeValidationFailed, err)
	}
	if err := ls.persist(ctx, list, srcItems, srcCats); err != nil {
		return nil, err
	}
	return list, nil
}

func (ls *listService) DeleteList(ctx context.Context, listID uuid.UUID) error {
	if err := ls.listRepo.DeleteByIDs(ctx, nil, []uuid.UUID{listID}); err != nil {
		return errs.New(errs.CodeDatabaseWrite, err)
	}
	return nil
}

// persist writes the mutated item set back, bumps version/total and pushes a
// snapshot to the live bus. Publish failures are logged, never surfaced.
func (ls *listService) persist(ctx context.Context, list *types.List, items []types.Item, cats []types.Category) error {
	if err := list.SetItems(items); err != nil {
		return errs.New(errs.CodeValidationFailed, err)
	}
	if err := list.SetCategories(cats); err != nil {
		return errs.New(errs.CodeValidationFailed, err)
	}
	list.Version++
	if err := ls.listRepo.Update(ctx, nil, list); err != nil {
		return errs.New(errs.CodeDatabaseWrite, err)
	}
	ls.publishSnapshot(ctx, list)
	return nil
}

func (ls *listService) publishSnapshot(ctx context.Context, list *types.List) {
	if ls.live == nil {
		return
	}
	snap := redisclient.Snapshot{
		ProjectID: list.ProjectID,
		ListID:    list.ID,
		ListType:  string(list.Type),
		Version:   list.Version,
		Payload:   []byte(list.Items),
	}
	if err := ls.live.Publish(ctx, snap); err != nil {
		ls.log.Warn("Failed to publish list snapshot", "list_id", list.ID, "error", err)
	}
}

func decodeList(list *types.List) ([]types.Item, []types.Category, error) {
	items, err := list.DecodeItems()
	if err != nil {
		return nil, nil, errs.New(errs.CodeValidationFailed, fmt.Errorf("decode items: %w", err))
	}
	cats, err := list.DecodeCategories()
	if err != nil {
		return nil, nil, errs.New(errs.CodeValidationFailed, fmt.Errorf("decode categories: %w", err))
	}
	return items, cats, nil
}

func sanitizeItem(item *types.Item) {
	item.ItemName = normalization.SanitizeText(item.ItemName)
	item.ItemDescription = normalization.SanitizeText(item.ItemDescription)
	item.PoseNotes = normalization.SanitizeText(item.PoseNotes)
	item.Avatar = normalization.SanitizeText(item.Avatar)
}

func applyUpdate(item *types.Item, upd types.ItemUpdate) {
	if upd.ItemName != nil {
		item.ItemName = normalization.SanitizeText(*upd.ItemName)
	}
	if upd.ItemDescription != nil {
		item.ItemDescription = normalization.SanitizeText(*upd.ItemDescription)
	}
	if upd.CategoryID != nil {
		item.CategoryID = upd.CategoryID
	}
	if upd.IsChecked != nil {
		item.IsChecked = *upd.IsChecked
	}
	if upd.IsDisabled != nil {
		item.IsDisabled = *upd.IsDisabled
	}
	if upd.Quantity != nil {
		item.Quantity = *upd.Quantity
	}
	if upd.PoseNotes != nil {
		item.PoseNotes = normalization.SanitizeText(*upd.PoseNotes)
	}
	if upd.ImageURL != nil {
		item.ImageURL = *upd.ImageURL
	}
	if upd.ImageStatus != nil {
		item.ImageStatus = *upd.ImageStatus
	}
	if upd.Avatar != nil {
		item.Avatar = normalization.SanitizeText(*upd.Avatar)
	}
	if upd.IsVIP != nil {
		item.IsVIP = *upd.IsVIP
	}
}

// checkCategory validates a single incoming item's category reference against
// the current state of the list.
func checkCategory(categoryID *uuid.UUID, items []types.Item, cats []types.Category) error {
	if categoryID == nil {
		return nil
	}
	known := false
	for _, c := range cats {
		if c.ID == *categoryID {
			known = true
			break
		}
	}
	if !known {
		return errs.Newf(errs.CodeListUnknownCat, "category %s", *categoryID)
	}
	count := 0
	for _, it := range items {
		if it.CategoryID != nil && *it.CategoryID == *categoryID {
			count++
		}
	}
	if count >= types.MaxItemsPerCategory {
		return errs.Newf(errs.CodeListCategoryFull, "category %s holds %d items", *categoryID, count)
	}
	return nil
}

// validateList re-checks a whole item set, used after batch merges and for
// template/reset sources.
func validateList(items []types.Item, cats []types.Category) error {
	if len(items) > types.MaxItemsPerList {
		return errs.Newf(errs.CodeListMaxItems, "%d items", len(items))
	}
	catIDs := make(map[uuid.UUID]bool, len(cats))
	for _, c := range cats {
		catIDs[c.ID] = true
	}
	perCat := make(map[uuid.UUID]int)
	for _, it := range items {
		if it.CategoryID == nil {
			continue
		}
		if !catIDs[*it.CategoryID] {
			return errs.Newf(errs.CodeListUnknownCat, "category %s", *it.CategoryID)
		}
		perCat[*it.CategoryID]++
		if perCat[*it.CategoryID] > types.MaxItemsPerCategory {
			return errs.Newf(errs.CodeListCategoryFull, "category %s", *it.CategoryID)
		}
	}
	return nil
}
