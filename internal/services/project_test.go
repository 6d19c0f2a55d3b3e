package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shotlist-app/shotlist-backend/internal/errs"
	"github.com/shotlist-app/shotlist-backend/internal/types"
)

type fakeProjectRepo struct {
	projects map[uuid.UUID]*types.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: map[uuid.UUID]*types.Project{}}
}

func (f *fakeProjectRepo) Create(ctx context.Context, tx *gorm.DB, projects []*types.Project) ([]*types.Project, error) {
	for _, p := range projects {
		cp := *p
		f.projects[p.ID] = &cp
	}
	return projects, nil
}

func (f *fakeProjectRepo) GetByID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (*types.Project, error) {
	p, ok := f.projects[projectID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjectRepo) GetByOwnerUserIDs(ctx context.Context, tx *gorm.DB, ownerUserIDs []uuid.UUID) ([]*types.Project, error) {
	var out []*types.Project
	for _, p := range f.projects {
		for _, id := range ownerUserIDs {
			if p.OwnerUserID == id {
				cp := *p
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

func (f *fakeProjectRepo) Update(ctx context.Context, tx *gorm.DB, project *types.Project) error {
	cp := *project
	f.projects[project.ID] = &cp
	return nil
}

func (f *fakeProjectRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, projectIDs []uuid.UUID) error {
	for _, id := range projectIDs {
		delete(f.projects, id)
	}
	return nil
}

type fakeGeocoder struct {
	calls int
	point GeoPoint
}

func (f *fakeGeocoder) Geocode(ctx context.Context, address string) (*GeoPoint, error) {
	f.calls++
	p := f.point
	return &p, nil
}

func TestCloneTemplate_ReKeysItemsAndCategories(t *testing.T) {
	catID := uuid.New()
	tmpl := &MasterTemplate{
		Type:       types.ListTypeShots,
		Categories: []types.Category{{ID: catID, Name: "Ceremony"}},
		Items: []types.Item{
			{ID: uuid.New(), ItemName: "First kiss", CategoryID: &catID},
			{ID: uuid.New(), ItemName: "Ring exchange"},
		},
	}

	items, cats := cloneTemplate(tmpl)
	if len(items) != 2 || len(cats) != 1 {
		t.Fatalf("clone counts: items=%d cats=%d", len(items), len(cats))
	}
	if cats[0].ID == catID {
		t.Fatalf("category id not re-keyed")
	}
	if cats[0].Name != "Ceremony" {
		t.Fatalf("category name lost: %q", cats[0].Name)
	}
	if items[0].ID == tmpl.Items[0].ID {
		t.Fatalf("item id not re-keyed")
	}
	if items[0].CategoryID == nil || *items[0].CategoryID != cats[0].ID {
		t.Fatalf("category reference not remapped: %v", items[0].CategoryID)
	}
	if items[1].CategoryID != nil {
		t.Fatalf("uncategorized item gained a category")
	}
}

func TestCloneTemplate_DropsDanglingCategoryRefs(t *testing.T) {
	orphan := uuid.New()
	tmpl := &MasterTemplate{
		Type:  types.ListTypeKit,
		Items: []types.Item{{ID: uuid.New(), ItemName: "Body", CategoryID: &orphan}},
	}
	items, _ := cloneTemplate(tmpl)
	if items[0].CategoryID != nil {
		t.Fatalf("dangling reference kept: %v", items[0].CategoryID)
	}
}

func TestCreateProject_ValidationBeforeAnyWrite(t *testing.T) {
	repo := newFakeProjectRepo()
	svc := NewProjectService(nil, testLogger(t), repo, newFakeListRepo(), newFakePortalRepo(), nil, nil)

	_, err := svc.CreateProject(context.Background(), &types.Project{Name: "   ", OwnerUserID: uuid.New()})
	if !errs.Is(err, errs.CodeValidationFailed) {
		t.Fatalf("expected %s got %v", errs.CodeValidationFailed, err)
	}
	_, err = svc.CreateProject(context.Background(), &types.Project{Name: "K&S Wedding"})
	if !errs.Is(err, errs.CodeValidationFailed) {
		t.Fatalf("missing owner: expected %s got %v", errs.CodeValidationFailed, err)
	}
	if len(repo.projects) != 0 {
		t.Fatalf("invalid project was written")
	}
}

func TestUpdateProject_ReGeocodesOnlyWhenAddressChanges(t *testing.T) {
	repo := newFakeProjectRepo()
	geo := &fakeGeocoder{point: GeoPoint{Lat: 51.5, Lng: -0.1}}
	svc := NewProjectService(nil, testLogger(t), repo, newFakeListRepo(), newFakePortalRepo(), nil, geo)

	existing := &types.Project{
		ID:           uuid.New(),
		OwnerUserID:  uuid.New(),
		Name:         "K&S Wedding",
		VenueAddress: "The Old Barn",
	}
	repo.projects[existing.ID] = existing

	// same address: no geocode call
	same := existing.VenueAddress
	if _, err := svc.UpdateProject(context.Background(), existing.ID, ProjectUpdate{VenueAddress: &same}); err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}
	if geo.calls != 0 {
		t.Fatalf("geocoded without address change: %d calls", geo.calls)
	}

	// changed address: exactly one geocode call, coordinates applied
	moved := "The New Barn"
	updated, err := svc.UpdateProject(context.Background(), existing.ID, ProjectUpdate{VenueAddress: &moved})
	if err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}
	if geo.calls != 1 {
		t.Fatalf("geocode calls: want=1 got=%d", geo.calls)
	}
	if updated.VenueLat != 51.5 || updated.VenueLng != -0.1 {
		t.Fatalf("coordinates not applied: %v,%v", updated.VenueLat, updated.VenueLng)
	}
}

func TestUpdateProject_SparsePatchPreservesOtherFields(t *testing.T) {
	repo := newFakeProjectRepo()
	svc := NewProjectService(nil, testLogger(t), repo, newFakeListRepo(), newFakePortalRepo(), nil, nil)

	existing := &types.Project{
		ID:           uuid.New(),
		OwnerUserID:  uuid.New(),
		Name:         "K&S Wedding",
		CoupleNames:  "Kara & Sam",
		VenueAddress: "The Old Barn",
	}
	repo.projects[existing.ID] = existing

	address := "12 Harbour Lane"
	updated, err := svc.UpdateProject(context.Background(), existing.ID, ProjectUpdate{VenueAddress: &address})
	if err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}
	if updated.Name != "K&S Wedding" || updated.CoupleNames != "Kara & Sam" {
		t.Fatalf("untouched fields changed: name=%q couple_names=%q", updated.Name, updated.CoupleNames)
	}
	if updated.VenueAddress != address {
		t.Fatalf("venue_address: want=%q got=%q", address, updated.VenueAddress)
	}
	stored := repo.projects[existing.ID]
	if stored.Name != "K&S Wedding" || stored.CoupleNames != "Kara & Sam" {
		t.Fatalf("stored fields wiped: name=%q couple_names=%q", stored.Name, stored.CoupleNames)
	}
}

func TestUpdateProject_RejectsBlankName(t *testing.T) {
	repo := newFakeProjectRepo()
	svc := NewProjectService(nil, testLogger(t), repo, newFakeListRepo(), newFakePortalRepo(), nil, nil)

	existing := &types.Project{ID: uuid.New(), OwnerUserID: uuid.New(), Name: "K&S Wedding"}
	repo.projects[existing.ID] = existing

	blank := "   "
	_, err := svc.UpdateProject(context.Background(), existing.ID, ProjectUpdate{Name: &blank})
	if !errs.Is(err, errs.CodeValidationFailed) {
		t.Fatalf("expected %s got %v", errs.CodeValidationFailed, err)
	}
	if repo.projects[existing.ID].Name != "K&S Wedding" {
		t.Fatalf("name overwritten by rejected update: %q", repo.projects[existing.ID].Name)
	}
}

func TestGetProject_NotFound(t *testing.T) {
	svc := NewProjectService(nil, testLogger(t), newFakeProjectRepo(), newFakeListRepo(), newFakePortalRepo(), nil, nil)
	_, err := svc.GetProject(context.Background(), uuid.New())
	if !errs.Is(err, errs.CodeDatabaseNotFound) {
		t.Fatalf("expected %s got %v", errs.CodeDatabaseNotFound, err)
	}
}
