package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testResult(id string, discs, moves int, duration time.Duration, finished time.Time) *Result {
	return &Result{
		ID:         id,
		Discs:      discs,
		Moves:      moves,
		Duration:   duration,
		StartedAt:  finished.Add(-duration),
		FinishedAt: finished,
	}
}

func TestResultRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Results()

	finished := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	res := testResult("r1", 3, 7, 42500*time.Millisecond, finished)

	if err := repo.Create(res); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID("r1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if got.Discs != 3 || got.Moves != 7 {
		t.Errorf("discs/moves = %d/%d, want 3/7", got.Discs, got.Moves)
	}
	if got.Duration != 42500*time.Millisecond {
		t.Errorf("Duration = %v, want 42.5s", got.Duration)
	}
	if !got.FinishedAt.Equal(finished) {
		t.Errorf("FinishedAt = %v, want %v", got.FinishedAt, finished)
	}
	if !got.StartedAt.Equal(res.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, res.StartedAt)
	}
}

func TestResultRepository_Create_DuplicateID(t *testing.T) {
	s := newTestStore(t)
	repo := s.Results()
	now := time.Now()

	if err := repo.Create(testResult("dup", 3, 7, time.Second, now)); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}
	if err := repo.Create(testResult("dup", 3, 9, time.Second, now)); err == nil {
		t.Error("expected error for duplicate id")
	}
}

func TestResultRepository_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Results().GetByID("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestResultRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Results()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		id := fmt.Sprintf("r%d", i)
		if err := repo.Create(testResult(id, 3, 7+i, time.Minute, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("Create(%s) error = %v", id, err)
		}
	}

	t.Run("newest first", func(t *testing.T) {
		results, err := repo.List(0)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(results) != 4 {
			t.Fatalf("expected 4 results, got %d", len(results))
		}
		if results[0].ID != "r3" || results[3].ID != "r0" {
			t.Errorf("order = %s..%s, want r3..r0", results[0].ID, results[3].ID)
		}
	})

	t.Run("limit", func(t *testing.T) {
		results, err := repo.List(2)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(results) != 2 {
			t.Errorf("expected 2 results, got %d", len(results))
		}
	})

	t.Run("count", func(t *testing.T) {
		n, err := repo.Count()
		if err != nil || n != 4 {
			t.Errorf("Count() = %d, %v; want 4, nil", n, err)
		}
	})
}

func TestResultRepository_List_Empty(t *testing.T) {
	s := newTestStore(t)

	results, err := s.Results().List(10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestResultRepository_Best(t *testing.T) {
	s := newTestStore(t)
	repo := s.Results()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	rows := []*Result{
		testResult("slow-perfect", 3, 7, 90*time.Second, now),
		testResult("fast-perfect", 3, 7, 30*time.Second, now.Add(time.Minute)),
		testResult("fast-sloppy", 3, 15, 10*time.Second, now.Add(2*time.Minute)),
		testResult("four", 4, 15, 60*time.Second, now.Add(3*time.Minute)),
	}
	for _, r := range rows {
		if err := repo.Create(r); err != nil {
			t.Fatalf("Create(%s) error = %v", r.ID, err)
		}
	}

	best, err := repo.Best(3)
	if err != nil {
		t.Fatalf("Best() error = %v", err)
	}
	if best.ID != "fast-perfect" {
		t.Errorf("Best(3) = %s, want fast-perfect", best.ID)
	}

	best, err = repo.Best(4)
	if err != nil || best.ID != "four" {
		t.Errorf("Best(4) = %v, %v; want four", best, err)
	}

	if _, err := repo.Best(5); !errors.Is(err, ErrNotFound) {
		t.Errorf("Best(5) error = %v, want ErrNotFound", err)
	}
}

func TestResultRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Results()

	if err := repo.Create(testResult("gone", 3, 7, time.Second, time.Now())); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Delete("gone"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID("gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete("gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestSettingsRepository(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if _, err := repo.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}

	if err := repo.Set("discs", "3"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := repo.Set("discs", "4"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}

	got, err := repo.Get("discs")
	if err != nil || got != "4" {
		t.Errorf("Get() = %q, %v; want \"4\", nil", got, err)
	}
}
