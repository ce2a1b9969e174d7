// Package scenario ships the embedded scenario catalog sessions are
// created from.
package scenario

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/louisbranch/arc-engine/internal/engine/domain"
	apperrors "github.com/louisbranch/arc-engine/internal/errors"
)

//go:embed catalog/*.json
var catalogFS embed.FS

var (
	loadCatalogOnce  sync.Once
	embeddedCatalog  map[string]Scenario
	catalogLoadError error
)

var (
	// ErrNotFound indicates the scenario ID is not in the catalog.
	ErrNotFound = apperrors.New(apperrors.CodeScenarioNotFound, "scenario not found")
	// ErrInvalid indicates a scenario definition failed validation.
	ErrInvalid = apperrors.New(apperrors.CodeScenarioInvalid, "scenario definition is invalid")
)

// GoalDefinition is one objective goal as authored in the catalog.
type GoalDefinition struct {
	Description string `json:"description"`
}

// ObjectiveDefinition is a scenario's authored objective.
type ObjectiveDefinition struct {
	Title string           `json:"title"`
	Goals []GoalDefinition `json:"goals"`
}

// Scenario is one playable premise from the catalog.
type Scenario struct {
	ID        string              `json:"id"`
	Title     string              `json:"title"`
	Tone      string              `json:"tone"`
	Opening   string              `json:"opening"`
	Objective ObjectiveDefinition `json:"objective"`
}

// ValidateEmbeddedCatalog returns any parsing or validation error from
// the embedded scenario bundle. Called at startup so a bad bundle fails
// fast instead of at session creation.
func ValidateEmbeddedCatalog() error {
	_, err := loadCatalog()
	return err
}

// Get returns the scenario with the given ID.
func Get(id string) (Scenario, error) {
	catalog, err := loadCatalog()
	if err != nil {
		return Scenario{}, err
	}
	scenario, ok := catalog[id]
	if !ok {
		return Scenario{}, ErrNotFound.WithMetadata(map[string]string{"scenario_id": id})
	}
	return scenario, nil
}

// List returns every scenario in the catalog, ordered by ID.
func List() ([]Scenario, error) {
	catalog, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	scenarios := make([]Scenario, 0, len(catalog))
	for _, scenario := range catalog {
		scenarios = append(scenarios, scenario)
	}
	sort.Slice(scenarios, func(i, j int) bool { return scenarios[i].ID < scenarios[j].ID })
	return scenarios, nil
}

// NewObjective builds a fresh objective for a session started from this
// scenario. Each call returns an independent value.
func (s Scenario) NewObjective() *domain.Objective {
	goals := make([]domain.Goal, 0, len(s.Objective.Goals))
	for _, goal := range s.Objective.Goals {
		goals = append(goals, domain.Goal{Description: goal.Description})
	}
	return &domain.Objective{
		ID:    s.ID,
		Title: s.Objective.Title,
		Goals: goals,
	}
}

func loadCatalog() (map[string]Scenario, error) {
	loadCatalogOnce.Do(func() {
		embeddedCatalog, catalogLoadError = decodeCatalog(catalogFS)
	})
	return embeddedCatalog, catalogLoadError
}

func decodeCatalog(fsys fs.FS) (map[string]Scenario, error) {
	entries, err := fs.Glob(fsys, "catalog/*.json")
	if err != nil {
		return nil, err
	}

	catalog := make(map[string]Scenario, len(entries))
	for _, name := range entries {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read scenario %s: %w", name, err)
		}
		var scenario Scenario
		if err := json.Unmarshal(data, &scenario); err != nil {
			return nil, fmt.Errorf("decode scenario %s: %w", name, err)
		}
		if err := validate(scenario); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", name, err)
		}
		if _, exists := catalog[scenario.ID]; exists {
			return nil, fmt.Errorf("scenario %s: %w", name, ErrInvalid.WithMetadata(map[string]string{
				"reason": "duplicate id " + scenario.ID,
			}))
		}
		catalog[scenario.ID] = scenario
	}
	return catalog, nil
}

func validate(scenario Scenario) error {
	var reasons []string
	if scenario.ID == "" {
		reasons = append(reasons, "missing id")
	}
	if scenario.Title == "" {
		reasons = append(reasons, "missing title")
	}
	if scenario.Opening == "" {
		reasons = append(reasons, "missing opening")
	}
	if scenario.Objective.Title == "" {
		reasons = append(reasons, "missing objective title")
	}
	if len(scenario.Objective.Goals) == 0 {
		reasons = append(reasons, "objective has no goals")
	}
	for i, goal := range scenario.Objective.Goals {
		if goal.Description == "" {
			reasons = append(reasons, fmt.Sprintf("goal %d has no description", i))
		}
	}
	if len(reasons) == 0 {
		return nil
	}
	return ErrInvalid.WithMetadata(map[string]string{"reason": strings.Join(reasons, "; ")})
}
