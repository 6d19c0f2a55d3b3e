package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shotlist-app/shotlist-backend/internal/types"
)

func TestMasterListService_EmbeddedSeedCoversEveryListType(t *testing.T) {
	svc, err := NewMasterListService(testLogger(t))
	if err != nil {
		t.Fatalf("NewMasterListService: %v", err)
	}
	for _, lt := range types.AllListTypes {
		tmpl, ok := svc.Template(lt)
		if !ok {
			t.Fatalf("missing template for %s", lt)
		}
		if tmpl.Type != lt {
			t.Fatalf("template type mismatch: want=%s got=%s", lt, tmpl.Type)
		}
	}
}

func TestMasterListService_CategoryReferencesResolve(t *testing.T) {
	svc, err := NewMasterListService(testLogger(t))
	if err != nil {
		t.Fatalf("NewMasterListService: %v", err)
	}
	for _, lt := range types.AllListTypes {
		tmpl, _ := svc.Template(lt)
		catIDs := make(map[string]bool, len(tmpl.Categories))
		for _, c := range tmpl.Categories {
			catIDs[c.ID.String()] = true
		}
		for _, it := range tmpl.Items {
			if it.ID.String() == "" {
				t.Fatalf("item without id in %s", lt)
			}
			if it.CategoryID != nil && !catIDs[it.CategoryID.String()] {
				t.Fatalf("item %q in %s references unknown category", it.ItemName, lt)
			}
		}
	}
}

func TestMasterListService_PathOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templates.yaml")
	custom := `version: 1
lists:
  - type: kit
    items:
      - name: Custom body
        quantity: 2
`
	if err := os.WriteFile(path, []byte(custom), 0o600); err != nil {
		t.Fatalf("write templates: %v", err)
	}
	t.Setenv(masterTemplatesEnv, path)

	svc, err := NewMasterListService(testLogger(t))
	if err != nil {
		t.Fatalf("NewMasterListService: %v", err)
	}
	tmpl, ok := svc.Template(types.ListTypeKit)
	if !ok {
		t.Fatalf("missing kit template")
	}
	if len(tmpl.Items) != 1 || tmpl.Items[0].ItemName != "Custom body" || tmpl.Items[0].Quantity != 2 {
		t.Fatalf("override not applied: %+v", tmpl.Items)
	}
	// types absent from the override file still seed as empty templates
	if _, ok := svc.Template(types.ListTypeShots); !ok {
		t.Fatalf("missing shots template after override")
	}
}

func TestMasterListService_BadPathFails(t *testing.T) {
	t.Setenv(masterTemplatesEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := NewMasterListService(testLogger(t)); err == nil {
		t.Fatalf("expected error for missing override file")
	}
}
