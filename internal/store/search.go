package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/go-eliza/internal/model"
)

// SearchParams holds parameters for searching transcripts.
type SearchParams struct {
	Query   string
	Lang    string
	Keyword string
	Limit   int
}

// SearchResult is a matching turn with the language of its session.
type SearchResult struct {
	model.Turn
	Lang string `json:"lang"`
}

// Search finds turns whose input or response contains the query substring,
// newest first.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]SearchResult, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	query := "%" + p.Query + "%"
	where := []string{"(t.input LIKE ? OR t.response LIKE ?)"}
	args := []interface{}{query, query}

	if p.Lang != "" {
		where = append(where, "s.lang = ?")
		args = append(args, p.Lang)
	}
	if p.Keyword != "" {
		where = append(where, "t.keyword = ?")
		args = append(args, p.Keyword)
	}

	sql := fmt.Sprintf(`
		SELECT %s, s.lang
		FROM turns t
		INNER JOIN sessions s ON s.id = t.session_id
		WHERE %s
		ORDER BY t.created_at DESC, t.seq DESC
		LIMIT ?`, turnColumns, strings.Join(where, " AND "))
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		t, err := scanTurn(rowWithLang{rows, &r.Lang})
		if err != nil {
			return nil, err
		}
		r.Turn = t
		results = append(results, r)
	}
	return results, rows.Err()
}

// rowWithLang appends the session language column to a turn scan.
type rowWithLang struct {
	scanner
	lang *string
}

func (r rowWithLang) Scan(dest ...interface{}) error {
	return r.scanner.Scan(append(dest, r.lang)...)
}
