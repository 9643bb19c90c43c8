package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/go-eliza/internal/model"
)

// tsLayout is fixed-width so timestamps sort lexically.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *rand.Rand
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID(t time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id           TEXT PRIMARY KEY,
		lang         TEXT NOT NULL,
		status       TEXT NOT NULL DEFAULT 'open',
		insult_count INTEGER NOT NULL DEFAULT 0,
		started_at   TEXT NOT NULL,
		ended_at     TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_sessions_lang ON sessions(lang, status);

	CREATE TABLE IF NOT EXISTS turns (
		id          TEXT PRIMARY KEY,
		session_id  TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		seq         INTEGER NOT NULL,
		input       TEXT NOT NULL,
		response    TEXT NOT NULL,
		keyword     TEXT,
		source      TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		UNIQUE (session_id, seq)
	);
	CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id, seq);
	CREATE INDEX IF NOT EXISTS idx_turns_keyword ON turns(keyword);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) CreateSession(ctx context.Context, lang string) (*model.Session, error) {
	now := time.Now().UTC()
	id := s.newID(now)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, lang, status, insult_count, started_at) VALUES (?, ?, ?, 0, ?)`,
		id, lang, model.StatusOpen, now.Format(tsLayout))
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	return &model.Session{
		ID:        id,
		Lang:      lang,
		Status:    model.StatusOpen,
		StartedAt: now,
	}, nil
}

func (s *SQLiteStore) AppendTurn(ctx context.Context, p TurnParams) (*model.Turn, error) {
	now := time.Now().UTC()
	id := s.newID(now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx, `SELECT status FROM sessions WHERE id = ?`, p.SessionID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session not found: %s", p.SessionID)
	}
	if err != nil {
		return nil, err
	}
	if status != model.StatusOpen {
		return nil, fmt.Errorf("session %s is %s", p.SessionID, status)
	}

	var seq int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM turns WHERE session_id = ?`, p.SessionID).Scan(&seq)
	if err != nil {
		return nil, err
	}

	var keyword *string
	if p.Keyword != "" {
		keyword = &p.Keyword
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO turns (id, session_id, seq, input, response, keyword, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.SessionID, seq, p.Input, p.Response, keyword, p.Source, now.Format(tsLayout))
	if err != nil {
		return nil, fmt.Errorf("insert turn: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &model.Turn{
		ID:        id,
		SessionID: p.SessionID,
		Seq:       seq,
		Input:     p.Input,
		Response:  p.Response,
		Keyword:   p.Keyword,
		Source:    p.Source,
		CreatedAt: now,
	}, nil
}

func (s *SQLiteStore) EndSession(ctx context.Context, p EndParams) error {
	if !model.ValidStatuses[p.Status] {
		return fmt.Errorf("invalid end status %q", p.Status)
	}
	now := time.Now().UTC().Format(tsLayout)
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET status = ?, insult_count = ?, ended_at = ? WHERE id = ? AND status = ?`,
		p.Status, p.InsultCount, now, p.SessionID, model.StatusOpen)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("open session not found: %s", p.SessionID)
	}
	return nil
}

func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*model.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions s WHERE s.id = ?`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+turnColumns+` FROM turns t WHERE t.session_id = ? ORDER BY t.seq`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanTurn(rows)
		if err != nil {
			return nil, err
		}
		sess.Turns = append(sess.Turns, t)
	}
	return &sess, rows.Err()
}

func (s *SQLiteStore) ListSessions(ctx context.Context, p ListParams) ([]model.Session, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	where := []string{"1 = 1"}
	var args []interface{}
	if p.Lang != "" {
		where = append(where, "s.lang = ?")
		args = append(args, p.Lang)
	}
	if p.Status != "" {
		where = append(where, "s.status = ?")
		args = append(args, p.Status)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM sessions s
		WHERE %s
		ORDER BY s.started_at DESC, s.id DESC
		LIMIT ?`, sessionColumns, strings.Join(where, " AND "))
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func (s *SQLiteStore) Rm(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM turns WHERE session_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session not found: %s", id)
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const sessionColumns = `s.id, s.lang, s.status, s.insult_count, s.started_at, s.ended_at,
	(SELECT COUNT(*) FROM turns WHERE turns.session_id = s.id)`

const turnColumns = `t.id, t.session_id, t.seq, t.input, t.response, t.keyword, t.source, t.created_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row scanner) (model.Session, error) {
	var sess model.Session
	var startedAt string
	var endedAt sql.NullString

	err := row.Scan(&sess.ID, &sess.Lang, &sess.Status, &sess.InsultCount,
		&startedAt, &endedAt, &sess.TurnCount)
	if err != nil {
		return sess, err
	}

	sess.StartedAt, _ = time.Parse(tsLayout, startedAt)
	if endedAt.Valid {
		t, _ := time.Parse(tsLayout, endedAt.String)
		sess.EndedAt = &t
	}
	return sess, nil
}

func scanTurn(row scanner) (model.Turn, error) {
	var t model.Turn
	var keyword sql.NullString
	var createdAt string

	err := row.Scan(&t.ID, &t.SessionID, &t.Seq, &t.Input, &t.Response,
		&keyword, &t.Source, &createdAt)
	if err != nil {
		return t, err
	}

	t.CreatedAt, _ = time.Parse(tsLayout, createdAt)
	if keyword.Valid {
		t.Keyword = keyword.String
	}
	return t, nil
}
