package storage

import (
	"testing"

	"pta/internal/config"
	"pta/internal/domain"
)

func TestJSONStorage_SaveAndLoad(t *testing.T) {
	cfg := config.New(t.TempDir())
	st := NewJSONStorage(cfg)

	summary := &domain.RunSummary{
		Meta: domain.RunMeta{
			RunID:      "run-1",
			TotalCases: 3,
			Passed:     1,
			Failed:     1,
			Errored:    1,
			Duration:   "1.2s",
		},
		Failures: []domain.NodeResult{
			{NodeID: "A/t1", Label: "t1", Outcome: domain.OutcomeFailed, Message: "nope"},
			{NodeID: "B/t2", Label: "t2", Outcome: domain.OutcomeErrored, Message: "no result reported"},
		},
	}

	if err := st.Save(summary); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	loaded, err := st.Load()
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if loaded.Meta.RunID != "run-1" {
		t.Errorf("expected run id run-1, got %s", loaded.Meta.RunID)
	}
	if len(loaded.Failures) != 2 {
		t.Fatalf("expected 2 failures, got %d", len(loaded.Failures))
	}
	if loaded.Failures[0].Outcome != domain.OutcomeFailed {
		t.Errorf("expected failed outcome, got %s", loaded.Failures[0].Outcome)
	}
}

func TestJSONStorage_LoadWithoutSave(t *testing.T) {
	cfg := config.New(t.TempDir())
	st := NewJSONStorage(cfg)

	if _, err := st.Load(); err == nil {
		t.Error("expected an error when no results were saved")
	}
}
