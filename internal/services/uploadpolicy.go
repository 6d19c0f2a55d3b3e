package services

import "github.com/shotlist-app/shotlist-backend/internal/types"

// planImageLimits caps reference-image uploads on photo requests per plan
// tier. A zero MaxPerRequest means the feature is disabled for the tier; a
// negative limit means unlimited.
type planImageLimits struct {
	MaxPerRequest int
	MaxTotal      int
}

var imageLimitsByPlan = map[types.Plan]planImageLimits{
	types.PlanFree:   {MaxPerRequest: 0, MaxTotal: 0},
	types.PlanPro:    {MaxPerRequest: 3, MaxTotal: 15},
	types.PlanStudio: {MaxPerRequest: -1, MaxTotal: -1},
}

// CanUploadImage reports whether a user on the given plan, with
// perRequestCount images already on the photo request and totalCount across
// the project, may upload one more.
func CanUploadImage(plan types.Plan, perRequestCount, totalCount int) bool {
	limits, ok := imageLimitsByPlan[plan]
	if !ok {
		return false
	}
	if limits.MaxPerRequest == 0 {
		return false
	}
	if limits.MaxPerRequest > 0 && perRequestCount >= limits.MaxPerRequest {
		return false
	}
	if limits.MaxTotal > 0 && totalCount >= limits.MaxTotal {
		return false
	}
	return true
}
