package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shotlist-app/shotlist-backend/internal/clients/callable"
	"github.com/shotlist-app/shotlist-backend/internal/errs"
	"github.com/shotlist-app/shotlist-backend/internal/logger"
	"github.com/shotlist-app/shotlist-backend/internal/repos"
	"github.com/shotlist-app/shotlist-backend/internal/types"
)

type PortalService interface {
	CreatePortal(ctx context.Context, projectID uuid.UUID, steps []types.PortalStep) (*types.Portal, error)
	GetPortal(ctx context.Context, portalID uuid.UUID) (*types.Portal, error)
	GetByProject(ctx context.Context, projectID uuid.UUID) (*types.Portal, error)
	SetStepStatus(ctx context.Context, portalID, stepID uuid.UUID, status types.StepStatus) (*types.Portal, error)
	ResetSteps(ctx context.Context, portalID uuid.UUID) (*types.Portal, error)
	LockPortal(ctx context.Context, portalID uuid.UUID) (*types.Portal, error)
	GeneratePortalLink(ctx context.Context, portalID uuid.UUID) (*types.Portal, error)
	DisablePortalLink(ctx context.Context, portalID uuid.UUID) (*types.Portal, error)
}

type portalService struct {
	db         *gorm.DB
	log        *logger.Logger
	portalRepo repos.PortalRepo
	listRepo   repos.ListRepo
	callables  callable.Client
}

func NewPortalService(db *gorm.DB, baseLog *logger.Logger, portalRepo repos.PortalRepo, listRepo repos.ListRepo, callables callable.Client) PortalService {
	return &portalService{
		db:         db,
		log:        baseLog.With("service", "PortalService"),
		portalRepo: portalRepo,
		listRepo:   listRepo,
		callables:  callables,
	}
}

func (ps *portalService) CreatePortal(ctx context.Context, projectID uuid.UUID, steps []types.PortalStep) (*types.Portal, error) {
	existing, err := ps.portalRepo.GetByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, errs.New(errs.CodeDatabaseRead, err)
	}
	if existing != nil {
		return nil, errs.Newf(errs.CodePortalExists, "project %s", projectID)
	}

	for i := range steps {
		if steps[i].PortalStepID == uuid.Nil {
			steps[i].PortalStepID = uuid.New()
		}
		steps[i].StepStatus = types.StepStatusLocked
		steps[i].ActionOn = types.ActionOnClient
		steps[i].StepNumber = i + 1
	}

	portal := &types.Portal{
		ID:        uuid.New(),
		ProjectID: projectID,
		IsSetup:   true,
	}
	if err := portal.SetSteps(steps); err != nil {
		return nil, errs.New(errs.CodeValidationFailed, err)
	}
	if _, err := ps.portalRepo.Create(ctx, nil, []*types.Portal{portal}); err != nil {
		return nil, errs.New(errs.CodeDatabaseWrite, err)
	}
	return portal, nil
}

func (ps *portalService) GetPortal(ctx context.Context, portalID uuid.UUID) (*types.Portal, error) {
	portal, err := ps.portalRepo.GetByID(ctx, nil, portalID)
	if err != nil {
		return nil, errs.New(errs.CodeDatabaseRead, err)
	}
	if portal == nil {
		return nil, errs.Newf(errs.CodePortalNotFound, "portal %s", portalID)
	}
	return portal, nil
}

func (ps *portalService) GetByProject(ctx context.Context, projectID uuid.UUID) (*types.Portal, error) {
	portal, err := ps.portalRepo.GetByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, errs.New(errs.CodeDatabaseRead, err)
	}
	if portal == nil {
		return nil, errs.Newf(errs.CodePortalNotFound, "project %s", projectID)
	}
	return portal, nil
}

// SetStepStatus drives the per-step lifecycle LOCKED → UNLOCKED → REVIEW →
// FINALIZED. FINALIZED is terminal: once a step is finalized the only way back
// is ResetSteps, which keeps CompletedSteps equal to the number of finalized
// steps. Finalizing a step updates the related list's config best effort,
// increments CompletedSteps by exactly one and recomputes the percentage,
// pinned to exactly 100 when every step is finalized.
func (ps *portalService) SetStepStatus(ctx context.Context, portalID, stepID uuid.UUID, status types.StepStatus) (*types.Portal, error) {
	portal, err := ps.GetPortal(ctx, portalID)
	if err != nil {
		return nil, err
	}
	steps, err := portal.DecodeSteps()
	if err != nil {
		return nil, errs.New(errs.CodeValidationFailed, err)
	}

	idx := -1
	for i, st := range steps {
		if st.PortalStepID == stepID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, errs.Newf(errs.CodePortalStepNotFound, "step %s", stepID)
	}

	if steps[idx].StepStatus == types.StepStatusFinalized {
		return nil, errs.Newf(errs.CodePortalStepFinalized, "step %s", stepID)
	}
	finalizing := status == types.StepStatusFinalized

	steps[idx].StepStatus = status
	if finalizing {
		steps[idx].ActionOn = types.ActionOnPhotographer
		ps.finalizeRelatedList(ctx, steps[idx])
		portal.CompletedSteps++
		portal.CompletionPercentage = completion(portal.CompletedSteps, portal.TotalSteps)
	}

	if err := portal.SetSteps(steps); err != nil {
		return nil, errs.New(errs.CodeValidationFailed, err)
	}
	if err := ps.portalRepo.Update(ctx, nil, portal); err != nil {
		return nil, errs.New(errs.CodeDatabaseWrite, err)
	}
	return portal, nil
}

// finalizeRelatedList is best effort: a failure is logged and the step
// transition proceeds.
func (ps *portalService) finalizeRelatedList(ctx context.Context, step types.PortalStep) {
	if step.ListID == nil {
		return
	}
	list, err := ps.listRepo.GetByID(ctx, nil, *step.ListID)
	if err != nil || list == nil {
		ps.log.Warn("Could not load related list for finalized step", "list_id", *step.ListID, "error", err)
		return
	}
	list.IsFinalized = true
	list.Status = types.ListStatusFinalized
	if err := ps.listRepo.Update(ctx, nil, list); err != nil {
		ps.log.Warn("Could not finalize related list config", "list_id", list.ID, "error", err)
	}
}

func (ps *portalService) ResetSteps(ctx context.Context, portalID uuid.UUID) (*types.Portal, error) {
	portal, err := ps.GetPortal(ctx, portalID)
	if err != nil {
		return nil, err
	}
	steps, err := portal.DecodeSteps()
	if err != nil {
		return nil, errs.New(errs.CodeValidationFailed, err)
	}
	for i := range steps {
		steps[i].StepStatus = types.StepStatusLocked
		steps[i].ActionOn = types.ActionOnClient
	}
	if err := portal.SetSteps(steps); err != nil {
		return nil, errs.New(errs.CodeValidationFailed, err)
	}
	portal.CompletedSteps = 0
	portal.CompletionPercentage = 0
	if err := ps.portalRepo.Update(ctx, nil, portal); err != nil {
		return nil, errs.New(errs.CodeDatabaseWrite, err)
	}
	return portal, nil
}

// LockPortal is a terminal override: it disables the portal and pins the
// percentage to 100 without touching step states, so CompletedSteps may still
// read below TotalSteps on a locked portal.
func (ps *portalService) LockPortal(ctx context.Context, portalID uuid.UUID) (*types.Portal, error) {
	portal, err := ps.GetPortal(ctx, portalID)
	if err != nil {
		return nil, err
	}
	portal.IsEnabled = false
	portal.CompletionPercentage = 100
	if err := ps.portalRepo.Update(ctx, nil, portal); err != nil {
		return nil, errs.New(errs.CodeDatabaseWrite, err)
	}
	return portal, nil
}

func (ps *portalService) GeneratePortalLink(ctx context.Context, portalID uuid.UUID) (*types.Portal, error) {
	portal, err := ps.GetPortal(ctx, portalID)
	if err != nil {
		return nil, err
	}
	if ps.callables == nil {
		return nil, errs.Newf(errs.CodePortalLinkFailed, "link backend unavailable")
	}
	link, err := ps.callables.GeneratePortalLink(ctx, portal.ProjectID, portal.ID)
	if err != nil {
		return nil, errs.New(errs.CodePortalLinkFailed, err)
	}
	portal.AccessToken = link.AccessToken
	portal.PortalURL = link.PortalURL
	portal.IsEnabled = true
	if portal.ExpiresAt == nil {
		exp := time.Now().AddDate(0, 0, 90)
		portal.ExpiresAt = &exp
	}
	if err := ps.portalRepo.Update(ctx, nil, portal); err != nil {
		return nil, errs.New(errs.CodeDatabaseWrite, err)
	}
	return portal, nil
}

func (ps *portalService) DisablePortalLink(ctx context.Context, portalID uuid.UUID) (*types.Portal, error) {
	portal, err := ps.GetPortal(ctx, portalID)
	if err != nil {
		return nil, err
	}
	if ps.callables == nil {
		return nil, errs.Newf(errs.CodePortalLinkFailed, "link backend unavailable")
	}
	if err := ps.callables.DisablePortalLink(ctx, portal.ID); err != nil {
		return nil, errs.New(errs.CodePortalLinkFailed, err)
	}
	portal.AccessToken = ""
	portal.PortalURL = ""
	portal.IsEnabled = false
	if err := ps.portalRepo.Update(ctx, nil, portal); err != nil {
		return nil, errs.New(errs.CodeDatabaseWrite, err)
	}
	return portal, nil
}

func completion(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return float64(completed) / float64(total) * 100
}
