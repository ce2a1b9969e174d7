package scenario

import (
	"errors"
	"testing"
	"testing/fstest"
)

func TestValidateEmbeddedCatalog(t *testing.T) {
	if err := ValidateEmbeddedCatalog(); err != nil {
		t.Fatalf("ValidateEmbeddedCatalog() error = %v", err)
	}
}

func TestGet(t *testing.T) {
	scenario, err := Get("derelict-station")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if scenario.Title != "The Derelict Station" {
		t.Errorf("Title = %q", scenario.Title)
	}
	if scenario.Opening == "" {
		t.Error("Opening is empty")
	}
	if len(scenario.Objective.Goals) == 0 {
		t.Error("Objective has no goals")
	}

	if _, err := Get("no-such-scenario"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(unknown) error = %v, want %v", err, ErrNotFound)
	}
}

func TestListOrderedByID(t *testing.T) {
	scenarios, err := List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(scenarios) < 2 {
		t.Fatalf("List() returned %d scenarios", len(scenarios))
	}
	for i := 1; i < len(scenarios); i++ {
		if scenarios[i-1].ID >= scenarios[i].ID {
			t.Errorf("scenarios out of order at %d: %s >= %s", i, scenarios[i-1].ID, scenarios[i].ID)
		}
	}
}

func TestNewObjectiveIndependent(t *testing.T) {
	scenario, err := Get("derelict-station")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	first := scenario.NewObjective()
	second := scenario.NewObjective()
	if err := first.CompleteGoal(0); err != nil {
		t.Fatalf("CompleteGoal() error = %v", err)
	}
	if second.Goals[0].Completed {
		t.Error("objectives share goal state")
	}
	if first.IsComplete() {
		t.Error("objective complete after one goal")
	}
}

func TestDecodeCatalogValidation(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "missing id",
			data: `{"title": "T", "opening": "O", "objective": {"title": "Obj", "goals": [{"description": "g"}]}}`,
		},
		{
			name: "missing opening",
			data: `{"id": "x", "title": "T", "objective": {"title": "Obj", "goals": [{"description": "g"}]}}`,
		},
		{
			name: "no goals",
			data: `{"id": "x", "title": "T", "opening": "O", "objective": {"title": "Obj", "goals": []}}`,
		},
		{
			name: "blank goal",
			data: `{"id": "x", "title": "T", "opening": "O", "objective": {"title": "Obj", "goals": [{"description": ""}]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{
				"catalog/x.json": &fstest.MapFile{Data: []byte(tt.data)},
			}
			if _, err := decodeCatalog(fsys); !errors.Is(err, ErrInvalid) {
				t.Errorf("decodeCatalog() error = %v, want %v", err, ErrInvalid)
			}
		})
	}
}

func TestDecodeCatalogDuplicateID(t *testing.T) {
	valid := `{"id": "dup", "title": "T", "opening": "O", "objective": {"title": "Obj", "goals": [{"description": "g"}]}}`
	fsys := fstest.MapFS{
		"catalog/a.json": &fstest.MapFile{Data: []byte(valid)},
		"catalog/b.json": &fstest.MapFile{Data: []byte(valid)},
	}
	if _, err := decodeCatalog(fsys); !errors.Is(err, ErrInvalid) {
		t.Errorf("decodeCatalog() error = %v, want %v", err, ErrInvalid)
	}
}
