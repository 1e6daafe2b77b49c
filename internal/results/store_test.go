package results

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRun(id string, created time.Time) Run {
	return Run{
		ID:               id,
		CreatedAt:        created,
		Source:           "melodies.csv",
		NetworkSize:      64,
		PatternCount:     4,
		NoiseLevel:       0.4,
		MaxIterations:    10,
		TrialsPerPattern: 20,
		Seed:             42,
		ExactRate:        0.85,
		ConvergenceRate:  0.95,
		MeanIterations:   2.3,
	}
}

func TestOpen_CreatesDatabaseAndParentDir(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "dir", "results.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("results.db was not created")
	}
	if got := store.Path(); got != dbPath {
		t.Errorf("Path() = %v, want %v", got, dbPath)
	}
}

func TestSaveRun_GetRunRoundtrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	created := time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)
	want := sampleRun("run-1", created)
	trials := []Trial{
		{PatternIndex: 0, FlippedBits: 3, Iterations: 2, Converged: true, Outcome: "exact-match", MatchIndex: 0, Energy: -28},
		{PatternIndex: 1, FlippedBits: 3, Iterations: 4, Converged: true, Outcome: "cross-match", MatchIndex: 0, Energy: -20},
		{PatternIndex: 1, FlippedBits: 3, Iterations: 10, Converged: false, Outcome: "no-match", MatchIndex: -1, Energy: -14.5},
	}

	if err := store.SaveRun(ctx, want, trials); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}

	got, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if got.ID != want.ID || got.Source != want.Source {
		t.Errorf("GetRun() = %+v, want %+v", got, want)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("GetRun() CreatedAt = %v, want %v", got.CreatedAt, created)
	}
	if got.NetworkSize != 64 || got.PatternCount != 4 || got.TrialsPerPattern != 20 {
		t.Errorf("GetRun() shape fields = %+v", got)
	}
	if got.NoiseLevel != 0.4 || got.ExactRate != 0.85 || got.ConvergenceRate != 0.95 || got.MeanIterations != 2.3 {
		t.Errorf("GetRun() rate fields = %+v", got)
	}
	if got.Seed != 42 || got.MaxIterations != 10 {
		t.Errorf("GetRun() run params = %+v", got)
	}
}

func TestRunTrials_OrderedBySequence(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	trials := []Trial{
		{PatternIndex: 0, FlippedBits: 1, Iterations: 2, Converged: true, Outcome: "exact-match", MatchIndex: 0, Energy: -28},
		{PatternIndex: 1, FlippedBits: 2, Iterations: 10, Converged: false, Outcome: "no-match", MatchIndex: -1, Energy: -6},
	}
	if err := store.SaveRun(ctx, sampleRun("run-1", time.Now()), trials); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}

	got, err := store.RunTrials(ctx, "run-1")
	if err != nil {
		t.Fatalf("RunTrials() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("RunTrials() returned %d trials, want 2", len(got))
	}
	for i, tr := range got {
		if tr.Seq != i {
			t.Errorf("trial %d: Seq = %d, want %d", i, tr.Seq, i)
		}
	}
	if got[0].Outcome != "exact-match" || !got[0].Converged || got[0].MatchIndex != 0 {
		t.Errorf("trial 0 = %+v", got[0])
	}
	if got[1].Outcome != "no-match" || got[1].Converged || got[1].MatchIndex != -1 {
		t.Errorf("trial 1 = %+v", got[1])
	}
	if got[1].Energy != -6 {
		t.Errorf("trial 1 Energy = %v, want -6", got[1].Energy)
	}
}

func TestRunTrials_EmptyRun(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.SaveRun(ctx, sampleRun("run-1", time.Now()), nil); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}

	got, err := store.RunTrials(ctx, "run-1")
	if err != nil {
		t.Fatalf("RunTrials() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("RunTrials() returned %d trials, want 0", len(got))
	}
}

func TestSaveRun_RequiresID(t *testing.T) {
	store := openTestStore(t)

	err := store.SaveRun(context.Background(), Run{}, nil)
	if err == nil {
		t.Error("SaveRun() expected error for missing run id")
	}
}

func TestSaveRun_DuplicateIDLeavesExistingRunIntact(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := []Trial{{PatternIndex: 0, Iterations: 1, Converged: true, Outcome: "exact-match", MatchIndex: 0}}
	if err := store.SaveRun(ctx, sampleRun("run-1", time.Now()), first); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}

	second := []Trial{
		{PatternIndex: 5, Iterations: 9, Outcome: "no-match", MatchIndex: -1},
		{PatternIndex: 6, Iterations: 9, Outcome: "no-match", MatchIndex: -1},
	}
	if err := store.SaveRun(ctx, sampleRun("run-1", time.Now()), second); err == nil {
		t.Fatal("SaveRun() expected error for duplicate run id")
	}

	trials, err := store.RunTrials(ctx, "run-1")
	if err != nil {
		t.Fatalf("RunTrials() error = %v", err)
	}
	if len(trials) != 1 {
		t.Errorf("RunTrials() returned %d trials after failed save, want 1", len(trials))
	}
	if trials[0].PatternIndex != 0 {
		t.Errorf("trial 0 PatternIndex = %d, want 0", trials[0].PatternIndex)
	}
}

func TestGetRun_NotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetRun(context.Background(), "missing")
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetRun() error = %v, want ErrRunNotFound", err)
	}
}

func TestListRuns_NewestFirstWithLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		run := sampleRun(id, base.Add(time.Duration(i)*time.Hour))
		if err := store.SaveRun(ctx, run, nil); err != nil {
			t.Fatalf("SaveRun(%s) error = %v", id, err)
		}
	}

	all, err := store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListRuns() returned %d runs, want 3", len(all))
	}
	wantOrder := []string{"run-c", "run-b", "run-a"}
	for i, run := range all {
		if run.ID != wantOrder[i] {
			t.Errorf("ListRuns()[%d] = %s, want %s", i, run.ID, wantOrder[i])
		}
	}

	limited, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns(limit=2) error = %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("ListRuns(limit=2) returned %d runs, want 2", len(limited))
	}
	if limited[0].ID != "run-c" || limited[1].ID != "run-b" {
		t.Errorf("ListRuns(limit=2) order = %s, %s", limited[0].ID, limited[1].ID)
	}
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "results.db")
	ctx := context.Background()

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := store.SaveRun(ctx, sampleRun("run-1", time.Now()), nil); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() after close error = %v", err)
	}
	defer reopened.Close()

	if _, err := reopened.GetRun(ctx, "run-1"); err != nil {
		t.Errorf("GetRun() after reopen error = %v", err)
	}
}

func TestValidateIntegrity(t *testing.T) {
	store := openTestStore(t)

	if err := store.ValidateIntegrity(context.Background()); err != nil {
		t.Errorf("ValidateIntegrity() error = %v", err)
	}
}
