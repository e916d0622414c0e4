package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil database handle")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"credentials", "attempt_events", "api_events"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q: %v", table, err)
		}
	}
}

func TestTokenRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.CredentialRepo()
	ctx := context.Background()

	// Empty store yields an empty token, not an error.
	token, err := repo.LoadToken(ctx)
	if err != nil {
		t.Fatalf("load (empty): %v", err)
	}
	if token != "" {
		t.Fatalf("token = %q, want empty", token)
	}

	if err := repo.SaveToken(ctx, "jwt-one"); err != nil {
		t.Fatalf("save: %v", err)
	}
	token, err = repo.LoadToken(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if token != "jwt-one" {
		t.Errorf("token = %q, want %q", token, "jwt-one")
	}

	// Saving again replaces, never accumulates.
	if err := repo.SaveToken(ctx, "jwt-two"); err != nil {
		t.Fatalf("save (replace): %v", err)
	}
	token, err = repo.LoadToken(ctx)
	if err != nil {
		t.Fatalf("load (replace): %v", err)
	}
	if token != "jwt-two" {
		t.Errorf("token = %q, want %q", token, "jwt-two")
	}

	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM credentials").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("credential rows = %d, want 1", count)
	}
}

func TestClearToken(t *testing.T) {
	s := openTestStore(t)
	repo := s.CredentialRepo()
	ctx := context.Background()

	if err := repo.SaveToken(ctx, "jwt"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.ClearToken(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	token, err := repo.LoadToken(ctx)
	if err != nil {
		t.Fatalf("load after clear: %v", err)
	}
	if token != "" {
		t.Errorf("token = %q, want empty", token)
	}

	// Clearing an empty store is fine.
	if err := repo.ClearToken(ctx); err != nil {
		t.Fatalf("clear (empty): %v", err)
	}
}

func TestAttemptEventsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []AttemptEventData{
		{AttemptID: "a1", ExamID: "e1", ExamTitle: "Algebra", Action: AttemptActionStart, Questions: 5},
		{AttemptID: "a1", ExamID: "e1", ExamTitle: "Algebra", Action: AttemptActionSubmit,
			Score: 4, TotalPoints: 5, Answered: 5, Questions: 5, DurationSecs: 300},
		{AttemptID: "a2", ExamID: "e2", ExamTitle: "Geometry", Action: AttemptActionStart, Questions: 3},
	}
	for i, ev := range events {
		if err := repo.AppendAttemptEvent(ctx, ev); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	recs, err := repo.QueryAttempts(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("records = %d, want 3", len(recs))
	}
	if recs[0].ExamID != "e2" {
		t.Errorf("first record exam = %q, want e2 (newest first)", recs[0].ExamID)
	}
	if recs[1].Action != AttemptActionSubmit || recs[1].Score != 4 {
		t.Errorf("middle record = %q score %d, want submit score 4", recs[1].Action, recs[1].Score)
	}
}

func TestQueryAttemptsFilters(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		examID := "e1"
		if i%2 == 1 {
			examID = "e2"
		}
		err := repo.AppendAttemptEvent(ctx, AttemptEventData{
			AttemptID: "a", ExamID: examID, ExamTitle: "T", Action: AttemptActionStart,
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	recs, err := repo.QueryAttempts(ctx, QueryOpts{ExamID: "e1"})
	if err != nil {
		t.Fatalf("query by exam: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("filtered records = %d, want 2", len(recs))
	}

	recs, err = repo.QueryAttempts(ctx, QueryOpts{Limit: 3})
	if err != nil {
		t.Fatalf("query with limit: %v", err)
	}
	if len(recs) != 3 {
		t.Errorf("limited records = %d, want 3", len(recs))
	}

	// A window entirely in the future matches nothing.
	recs, err = repo.QueryAttempts(ctx, QueryOpts{From: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("query with window: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("future-window records = %d, want 0", len(recs))
	}
}

func TestAttemptRecordFields(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	err := repo.AppendAttemptEvent(ctx, AttemptEventData{
		AttemptID: "a1", ExamID: "e1", ExamTitle: "Algebra", Action: AttemptActionSubmit,
		Score: 7, TotalPoints: 10, Answered: 8, Questions: 10,
		AutoSubmitted: true, DurationSecs: 541,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	recs, err := repo.QueryAttempts(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
	rec := recs[0]
	if !rec.AutoSubmitted {
		t.Error("auto_submitted not preserved")
	}
	if rec.Answered != 8 || rec.Questions != 10 || rec.DurationSecs != 541 {
		t.Errorf("record = %+v, fields not preserved", rec)
	}
	if rec.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestAppendAPIEvent(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	err := repo.AppendAPIEvent(ctx, APIEventData{
		Op: "start exam", DurationMs: 120, Success: false, Error: "timeout",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	var op, errMsg string
	var success int
	err = s.DB().QueryRow("SELECT op, success, error FROM api_events").Scan(&op, &success, &errMsg)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if op != "start exam" || success != 0 || errMsg != "timeout" {
		t.Errorf("stored event = (%q, %d, %q)", op, success, errMsg)
	}
}
