package store

import (
	"context"
	"fmt"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath        string         `json:"db_path"`
	DBSizeBytes   int64          `json:"db_size_bytes"`
	TotalSessions int            `json:"total_sessions"`
	OpenSessions  int            `json:"open_sessions"`
	Terminated    int            `json:"terminated_sessions"`
	TotalTurns    int            `json:"total_turns"`
	Keywords      []KeywordStats `json:"keywords"`
	Sources       map[string]int `json:"sources"`
}

// KeywordStats counts how often a rule keyword answered.
type KeywordStats struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath, Sources: map[string]int{}}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM sessions`, &st.TotalSessions},
		{`SELECT COUNT(*) FROM sessions WHERE status = 'open'`, &st.OpenSessions},
		{`SELECT COUNT(*) FROM sessions WHERE status = 'terminated'`, &st.Terminated},
		{`SELECT COUNT(*) FROM turns`, &st.TotalTurns},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return st, fmt.Errorf("count: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT keyword, COUNT(*) AS cnt
		FROM turns WHERE keyword IS NOT NULL AND source = 'rule'
		GROUP BY keyword ORDER BY cnt DESC, keyword LIMIT 20`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var k KeywordStats
		if err := rows.Scan(&k.Keyword, &k.Count); err != nil {
			return st, fmt.Errorf("scan keyword stats: %w", err)
		}
		st.Keywords = append(st.Keywords, k)
	}
	if err := rows.Err(); err != nil {
		return st, err
	}

	srcRows, err := s.db.QueryContext(ctx, `SELECT source, COUNT(*) FROM turns GROUP BY source`)
	if err != nil {
		return st, err
	}
	defer srcRows.Close()

	for srcRows.Next() {
		var src string
		var n int
		if err := srcRows.Scan(&src, &n); err != nil {
			return st, fmt.Errorf("scan source stats: %w", err)
		}
		st.Sources[src] = n
	}

	return st, srcRows.Err()
}
