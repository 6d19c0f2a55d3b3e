package services

import (
	"testing"

	"github.com/shotlist-app/shotlist-backend/internal/types"
)

func TestCanUploadImage(t *testing.T) {
	cases := []struct {
		name       string
		plan       types.Plan
		perRequest int
		total      int
		want       bool
	}{
		{"free always disabled", types.PlanFree, 0, 0, false},
		{"pro under both limits", types.PlanPro, 2, 10, true},
		{"pro at per-request limit", types.PlanPro, 3, 10, false},
		{"pro at total limit", types.PlanPro, 0, 15, false},
		{"pro just under total limit", types.PlanPro, 0, 14, true},
		{"studio unlimited", types.PlanStudio, 200, 5000, true},
		{"unknown plan rejected", types.Plan("enterprise"), 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CanUploadImage(tc.plan, tc.perRequest, tc.total)
			if got != tc.want {
				t.Fatalf("CanUploadImage(%s, %d, %d): want=%v got=%v", tc.plan, tc.perRequest, tc.total, got, tc.want)
			}
		})
	}
}
