package services

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/shotlist-app/shotlist-backend/internal/logger"
	"github.com/shotlist-app/shotlist-backend/internal/normalization"
	"github.com/shotlist-app/shotlist-backend/internal/types"
)

const masterTemplatesEnv = "MASTER_TEMPLATES_PATH"

//go:embed master_templates.yaml
var embeddedMasterTemplates []byte

type yamlMasterTemplates struct {
	Version int                `yaml:"version"`
	Lists   []yamlMasterList   `yaml:"lists"`
}

type yamlMasterList struct {
	Type       string               `yaml:"type"`
	Categories []yamlMasterCategory `yaml:"categories"`
	Items      []yamlMasterItem     `yaml:"items"`
}

type yamlMasterCategory struct {
	Name string `yaml:"name"`
}

type yamlMasterItem struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Quantity    int    `yaml:"quantity"`
	PoseNotes   string `yaml:"pose_notes"`
}

// MasterTemplate is a seed list used to populate a fresh project's lists.
type MasterTemplate struct {
	Type       types.ListType
	Items      []types.Item
	Categories []types.Category
}

// MasterListService loads the master templates once at startup, from
// MASTER_TEMPLATES_PATH when set, otherwise from the embedded seed file.
type MasterListService interface {
	Template(listType types.ListType) (*MasterTemplate, bool)
}

type masterListService struct {
	log       *logger.Logger
	templates map[types.ListType]*MasterTemplate
}

func NewMasterListService(baseLog *logger.Logger) (MasterListService, error) {
	log := baseLog.With("service", "MasterListService")

	raw := embeddedMasterTemplates
	if path := strings.TrimSpace(os.Getenv(masterTemplatesEnv)); path != "" {
		fileRaw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read master templates %s: %w", path, err)
		}
		raw = fileRaw
	}

	var spec yamlMasterTemplates
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("parse master templates: %w", err)
	}

	templates := make(map[types.ListType]*MasterTemplate, len(spec.Lists))
	for _, yl := range spec.Lists {
		lt := types.ListType(strings.TrimSpace(yl.Type))
		tmpl := &MasterTemplate{Type: lt}
		catByName := make(map[string]uuid.UUID, len(yl.Categories))
		for _, yc := range yl.Categories {
			cat := types.Category{ID: uuid.New(), Name: normalization.SanitizeText(yc.Name)}
			tmpl.Categories = append(tmpl.Categories, cat)
			catByName[yc.Name] = cat.ID
		}
		for _, yi := range yl.Items {
			item := types.Item{
				ID:              uuid.New(),
				ItemName:        normalization.SanitizeText(yi.Name),
				ItemDescription: normalization.SanitizeText(yi.Description),
				Quantity:        yi.Quantity,
				PoseNotes:       normalization.SanitizeText(yi.PoseNotes),
			}
			if yi.Category != "" {
				if catID, ok := catByName[yi.Category]; ok {
					id := catID
					item.CategoryID = &id
				} else {
					log.Warn("Master item references unknown category, dropping reference", "list_type", string(lt), "category", yi.Category)
				}
			}
			tmpl.Items = append(tmpl.Items, item)
		}
		templates[lt] = tmpl
	}

	// every list type must seed, even if empty
	for _, lt := range types.AllListTypes {
		if _, ok := templates[lt]; !ok {
			templates[lt] = &MasterTemplate{Type: lt}
		}
	}

	log.Info("Master templates loaded", "list_types", len(templates))
	return &masterListService{log: log, templates: templates}, nil
}

func (ms *masterListService) Template(listType types.ListType) (*MasterTemplate, bool) {
	tmpl, ok := ms.templates[listType]
	return tmpl, ok
}
