package store

import (
	"context"

	"github.com/rcliao/go-eliza/internal/model"
)

// ExportAll returns every session with its transcript, oldest first,
// optionally filtered by language.
func (s *SQLiteStore) ExportAll(ctx context.Context, lang string) ([]model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions s`
	var args []interface{}
	if lang != "" {
		query += ` WHERE s.lang = ?`
		args = append(args, lang)
	}
	query += ` ORDER BY s.started_at, s.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	var ids []string
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, sess.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sessions := make([]model.Session, 0, len(ids))
	for _, id := range ids {
		sess, err := s.GetSession(ctx, id)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *sess)
	}
	return sessions, nil
}
