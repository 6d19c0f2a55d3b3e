package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shotlist-app/shotlist-backend/internal/errs"
	"github.com/shotlist-app/shotlist-backend/internal/logger"
	"github.com/shotlist-app/shotlist-backend/internal/normalization"
	"github.com/shotlist-app/shotlist-backend/internal/repos"
	"github.com/shotlist-app/shotlist-backend/internal/types"
)

// ProjectUpdate is a sparse patch: nil fields stay untouched.
type ProjectUpdate struct {
	Name         *string    `json:"name,omitempty"`
	CoupleNames  *string    `json:"couple_names,omitempty"`
	WeddingDate  *time.Time `json:"wedding_date,omitempty"`
	VenueAddress *string    `json:"venue_address,omitempty"`
}

type ProjectService interface {
	CreateProject(ctx context.Context, project *types.Project) (*types.Project, error)
	GetProject(ctx context.Context, projectID uuid.UUID) (*types.Project, error)
	GetByOwner(ctx context.Context, ownerUserID uuid.UUID) ([]*types.Project, error)
	UpdateProject(ctx context.Context, projectID uuid.UUID, upd ProjectUpdate) (*types.Project, error)
	DeleteProject(ctx context.Context, projectID uuid.UUID) error
}

type projectService struct {
	db          *gorm.DB
	log         *logger.Logger
	projectRepo repos.ProjectRepo
	listRepo    repos.ListRepo
	portalRepo  repos.PortalRepo
	masterLists MasterListService
	geocoder    GeocodingService
}

func NewProjectService(
	db *gorm.DB,
	baseLog *logger.Logger,
	projectRepo repos.ProjectRepo,
	listRepo repos.ListRepo,
	portalRepo repos.PortalRepo,
	masterLists MasterListService,
	geocoder GeocodingService,
) ProjectService {
	return &projectService{
		db:          db,
		log:         baseLog.With("service", "ProjectService"),
		projectRepo: projectRepo,
		listRepo:    listRepo,
		portalRepo:  portalRepo,
		masterLists: masterLists,
		geocoder:    geocoder,
	}
}

// CreateProject inserts the project row and seeds all list types from the
// master templates in one transaction, the single atomic multi-row write in
// the system. Venue geocoding is best effort and never blocks creation.
func (ps *projectService) CreateProject(ctx context.Context, project *types.Project) (*types.Project, error) {
	if project == nil {
		return nil, errs.Newf(errs.CodeValidationFailed, "project required")
	}
	project.Name = normalization.SanitizeText(project.Name)
	project.CoupleNames = normalization.SanitizeText(project.CoupleNames)
	project.VenueAddress = normalization.SanitizeText(project.VenueAddress)
	if project.Name == "" {
		return nil, errs.Newf(errs.CodeValidationFailed, "project name required")
	}
	if project.OwnerUserID == uuid.Nil {
		return nil, errs.Newf(errs.CodeValidationFailed, "owner required")
	}

	ps.geocodeVenue(ctx, project)

	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		project.ID = uuid.New()
		if _, err := ps.projectRepo.Create(ctx, tx, []*types.Project{project}); err != nil {
			return errs.New(errs.CodeDatabaseWrite, err)
		}

		lists := make([]*types.List, 0, len(types.AllListTypes))
		for _, lt := range types.AllListTypes {
			list := &types.List{
				ID:        uuid.New(),
				ProjectID: project.ID,
				Type:      lt,
				Status:    types.ListStatusActive,
				Version:   1,
			}
			if tmpl, ok := ps.masterLists.Template(lt); ok {
				items, cats := cloneTemplate(tmpl)
				if err := list.SetItems(items); err != nil {
					return errs.New(errs.CodeListInvalidSource, err)
				}
				if err := list.SetCategories(cats); err != nil {
					return errs.New(errs.CodeListInvalidSource, err)
				}
			}
			lists = append(lists, list)
		}
		if _, err := ps.listRepo.Create(ctx, tx, lists); err != nil {
			return errs.New(errs.CodeDatabaseWrite, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// cloneTemplate re-keys template items so each project gets distinct item IDs.
func cloneTemplate(tmpl *MasterTemplate) ([]types.Item, []types.Category) {
	idMap := make(map[uuid.UUID]uuid.UUID, len(tmpl.Categories))
	cats := make([]types.Category, len(tmpl.Categories))
	for i, c := range tmpl.Categories {
		newID := uuid.New()
		idMap[c.ID] = newID
		cats[i] = types.Category{ID: newID, Name: c.Name}
	}
	items := make([]types.Item, len(tmpl.Items))
	for i, it := range tmpl.Items {
		copied := it
		copied.ID = uuid.New()
		if it.CategoryID != nil {
			if newID, ok := idMap[*it.CategoryID]; ok {
				copied.CategoryID = &newID
			} else {
				copied.CategoryID = nil
			}
		}
		items[i] = copied
	}
	return items, cats
}

func (ps *projectService) geocodeVenue(ctx context.Context, project *types.Project) {
	if ps.geocoder == nil || project.VenueAddress == "" {
		return
	}
	point, err := ps.geocoder.Geocode(ctx, project.VenueAddress)
	if err != nil {
		ps.log.Warn("Venue geocoding failed", "error", err)
		return
	}
	project.VenueLat = point.Lat
	project.VenueLng = point.Lng
}

func (ps *projectService) GetProject(ctx context.Context, projectID uuid.UUID) (*types.Project, error) {
	project, err := ps.projectRepo.GetByID(ctx, nil, projectID)
	if err != nil {
		return nil, errs.New(errs.CodeDatabaseRead, err)
	}
	if project == nil {
		return nil, errs.Newf(errs.CodeDatabaseNotFound, "project %s", projectID)
	}
	return project, nil
}

func (ps *projectService) GetByOwner(ctx context.Context, ownerUserID uuid.UUID) ([]*types.Project, error) {
	projects, err := ps.projectRepo.GetByOwnerUserIDs(ctx, nil, []uuid.UUID{ownerUserID})
	if err != nil {
		return nil, errs.New(errs.CodeDatabaseRead, err)
	}
	return projects, nil
}

func (ps *projectService) UpdateProject(ctx context.Context, projectID uuid.UUID, upd ProjectUpdate) (*types.Project, error) {
	if projectID == uuid.Nil {
		return nil, errs.Newf(errs.CodeValidationFailed, "project id required")
	}
	project, err := ps.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		name := normalization.SanitizeText(*upd.Name)
		if name == "" {
			return nil, errs.Newf(errs.CodeValidationFailed, "project name required")
		}
		project.Name = name
	}
	if upd.CoupleNames != nil {
		project.CoupleNames = normalization.SanitizeText(*upd.CoupleNames)
	}
	if upd.WeddingDate != nil {
		project.WeddingDate = upd.WeddingDate
	}
	if upd.VenueAddress != nil {
		address := normalization.SanitizeText(*upd.VenueAddress)
		if address != project.VenueAddress {
			project.VenueAddress = address
			ps.geocodeVenue(ctx, project)
		}
	}
	if err := ps.projectRepo.Update(ctx, nil, project); err != nil {
		return nil, errs.New(errs.CodeDatabaseWrite, err)
	}
	return project, nil
}

func (ps *projectService) DeleteProject(ctx context.Context, projectID uuid.UUID) error {
	return ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ps.listRepo.DeleteByProjectIDs(ctx, tx, []uuid.UUID{projectID}); err != nil {
			return errs.New(errs.CodeDatabaseWrite, err)
		}
		if err := ps.portalRepo.DeleteByProjectIDs(ctx, tx, []uuid.UUID{projectID}); err != nil {
			return errs.New(errs.CodeDatabaseWrite, err)
		}
		if err := ps.projectRepo.DeleteByIDs(ctx, tx, []uuid.UUID{projectID}); err != nil {
			return errs.New(errs.CodeDatabaseWrite, err)
		}
		return nil
	})
}
