package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rcliao/go-eliza/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateSessionAndAppendTurns(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sess, err := s.CreateSession(ctx, "us")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if sess.ID == "" {
		t.Error("expected non-empty ID")
	}
	if sess.Status != model.StatusOpen {
		t.Errorf("expected status open, got %q", sess.Status)
	}

	t1, err := s.AppendTurn(ctx, TurnParams{
		SessionID: sess.ID, Input: "I am sad", Response: "How long have you been sad?",
		Keyword: "i am", Source: "rule",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if t1.Seq != 1 {
		t.Errorf("expected seq 1, got %d", t1.Seq)
	}
	t2, _ := s.AppendTurn(ctx, TurnParams{
		SessionID: sess.ID, Input: "xyzzy", Response: "Please tell me more.", Source: "fallback",
	})
	if t2.Seq != 2 {
		t.Errorf("expected seq 2, got %d", t2.Seq)
	}

	got, err := s.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TurnCount != 2 || len(got.Turns) != 2 {
		t.Fatalf("expected 2 turns, got count=%d len=%d", got.TurnCount, len(got.Turns))
	}
	if got.Turns[0].Keyword != "i am" {
		t.Errorf("expected keyword 'i am', got %q", got.Turns[0].Keyword)
	}
	if got.Turns[1].Keyword != "" {
		t.Errorf("expected empty keyword, got %q", got.Turns[1].Keyword)
	}
}

func TestEndSession(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sess, _ := s.CreateSession(ctx, "us")
	err := s.EndSession(ctx, EndParams{SessionID: sess.ID, Status: model.StatusTerminated, InsultCount: 4})
	if err != nil {
		t.Fatalf("end: %v", err)
	}

	got, _ := s.GetSession(ctx, sess.ID)
	if got.Status != model.StatusTerminated || got.InsultCount != 4 {
		t.Errorf("expected terminated/4, got %s/%d", got.Status, got.InsultCount)
	}
	if got.EndedAt == nil {
		t.Error("expected ended_at to be set")
	}

	// Closed sessions reject turns and a second end.
	if _, err := s.AppendTurn(ctx, TurnParams{SessionID: sess.ID, Input: "x", Response: "y", Source: "rule"}); err == nil {
		t.Error("expected error appending to ended session")
	}
	if err := s.EndSession(ctx, EndParams{SessionID: sess.ID, Status: model.StatusQuit}); err == nil {
		t.Error("expected error ending twice")
	}
}

func TestEndSessionInvalidStatus(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sess, _ := s.CreateSession(ctx, "us")
	if err := s.EndSession(ctx, EndParams{SessionID: sess.ID, Status: "open"}); err == nil {
		t.Error("expected error for invalid status")
	}
}

func TestAppendTurnUnknownSession(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AppendTurn(context.Background(), TurnParams{SessionID: "nope", Input: "x", Response: "y", Source: "rule"})
	if err == nil {
		t.Error("expected error for unknown session")
	}
}

func TestListSessions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a, _ := s.CreateSession(ctx, "us")
	s.CreateSession(ctx, "fr")
	c, _ := s.CreateSession(ctx, "us")
	s.EndSession(ctx, EndParams{SessionID: a.ID, Status: model.StatusQuit})

	all, _ := s.ListSessions(ctx, ListParams{})
	if len(all) != 3 {
		t.Fatalf("expected 3, got %d", len(all))
	}
	if all[0].ID != c.ID {
		t.Errorf("expected newest first, got %s", all[0].ID)
	}

	us, _ := s.ListSessions(ctx, ListParams{Lang: "us"})
	if len(us) != 2 {
		t.Errorf("expected 2 us sessions, got %d", len(us))
	}

	open, _ := s.ListSessions(ctx, ListParams{Status: model.StatusOpen})
	if len(open) != 2 {
		t.Errorf("expected 2 open sessions, got %d", len(open))
	}

	limited, _ := s.ListSessions(ctx, ListParams{Limit: 1})
	if len(limited) != 1 {
		t.Errorf("expected 1, got %d", len(limited))
	}
}

func TestRm(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sess, _ := s.CreateSession(ctx, "us")
	s.AppendTurn(ctx, TurnParams{SessionID: sess.ID, Input: "hello", Response: "Hi.", Source: "rule"})

	if err := s.Rm(ctx, sess.ID); err != nil {
		t.Fatalf("rm: %v", err)
	}
	if _, err := s.GetSession(ctx, sess.ID); err == nil {
		t.Error("expected error after rm")
	}
	if err := s.Rm(ctx, sess.ID); err == nil {
		t.Error("expected error removing twice")
	}

	st, _ := s.Stats(ctx, "")
	if st.TotalTurns != 0 {
		t.Errorf("expected turns removed, got %d", st.TotalTurns)
	}
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	us, _ := s.CreateSession(ctx, "us")
	fr, _ := s.CreateSession(ctx, "fr")
	s.AppendTurn(ctx, TurnParams{SessionID: us.ID, Input: "My mother is nice", Response: "How do you feel about your mother?", Keyword: "mother", Source: "rule"})
	s.AppendTurn(ctx, TurnParams{SessionID: us.ID, Input: "xyzzy", Response: "Earlier you mentioned your mother is nice.", Source: "memory"})
	s.AppendTurn(ctx, TurnParams{SessionID: fr.ID, Input: "ma mère", Response: "Parlez-moi de votre mère.", Keyword: "mère", Source: "rule"})

	results, err := s.Search(ctx, SearchParams{Query: "mother"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Lang != "us" {
		t.Errorf("expected lang us, got %q", results[0].Lang)
	}

	results, _ = s.Search(ctx, SearchParams{Query: "mother", Keyword: "mother"})
	if len(results) != 1 {
		t.Fatalf("expected 1 keyword result, got %d", len(results))
	}

	results, _ = s.Search(ctx, SearchParams{Query: "mère", Lang: "fr"})
	if len(results) != 1 {
		t.Fatalf("expected 1 fr result, got %d", len(results))
	}

	results, _ = s.Search(ctx, SearchParams{Query: "javascript"})
	if len(results) != 0 {
		t.Fatalf("expected 0 results, got %d", len(results))
	}
}

func TestStatsAndExport(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a, _ := s.CreateSession(ctx, "us")
	s.AppendTurn(ctx, TurnParams{SessionID: a.ID, Input: "hello", Response: "Hi.", Keyword: "hello", Source: "rule"})
	s.AppendTurn(ctx, TurnParams{SessionID: a.ID, Input: "hello", Response: "Hello.", Keyword: "hello", Source: "rule"})
	s.AppendTurn(ctx, TurnParams{SessionID: a.ID, Input: "stupid", Response: "PARITY", Keyword: "stupid", Source: "parity"})
	s.EndSession(ctx, EndParams{SessionID: a.ID, Status: model.StatusTerminated, InsultCount: 4})
	b, _ := s.CreateSession(ctx, "fr")

	st, err := s.Stats(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if st.TotalSessions != 2 || st.OpenSessions != 1 || st.Terminated != 1 {
		t.Errorf("unexpected session counts: %+v", st)
	}
	if st.TotalTurns != 3 {
		t.Errorf("expected 3 turns, got %d", st.TotalTurns)
	}
	if len(st.Keywords) != 1 || st.Keywords[0].Keyword != "hello" || st.Keywords[0].Count != 2 {
		t.Errorf("unexpected keyword stats: %+v", st.Keywords)
	}
	if st.Sources["parity"] != 1 {
		t.Errorf("expected 1 parity turn, got %d", st.Sources["parity"])
	}

	all, err := s.ExportAll(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].ID != a.ID || all[1].ID != b.ID {
		t.Fatalf("expected both sessions oldest first, got %+v", all)
	}
	if len(all[0].Turns) != 3 {
		t.Errorf("expected transcript in export, got %d turns", len(all[0].Turns))
	}

	fr, _ := s.ExportAll(ctx, "fr")
	if len(fr) != 1 {
		t.Errorf("expected 1 fr session, got %d", len(fr))
	}
}

func TestDBPathCreation(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "dir", "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("expected db file to be created")
	}
}

func TestStatsReportsQueryErrors(t *testing.T) {
	s := newTestStore(t)
	s.Close()

	if _, err := s.Stats(context.Background(), ""); err == nil {
		t.Error("expected error from closed store")
	}
}
