package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

const messageColumns = `hash, COALESCE(msg_id, ''), server_time, sender, text, kind, seq`

// SQLiteStore persists conversation history in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) the database at path. ":memory:" is allowed.
func OpenSQLite(path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("history path cannot be empty")
	}

	inMemory := path == ":memory:"
	if !inMemory {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("failed to create history directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if inMemory {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(4)
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load registers a conversation so that windows can be requested for it
func (s *SQLiteStore) Load(ctx context.Context, key Key) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO conversations (conv_key, server, target, kind) VALUES (?, ?, ?, ?)`,
		key.String(), key.Server, key.Target, string(key.Kind))
	if err != nil {
		return fmt.Errorf("failed to load conversation %s: %w", key, err)
	}
	return nil
}

// Window runs the bounded queries a limit needs and splits the result at the read marker
func (s *SQLiteStore) Window(ctx context.Context, key Key, limit Limit, opts Options) (*Window, error) {
	var markerNanos int64
	var cleared bool
	err := s.db.QueryRowContext(ctx,
		`SELECT read_marker, cleared FROM conversations WHERE conv_key = ?`, key.String(),
	).Scan(&markerNanos, &cleared)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotLoaded
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read conversation state: %w", err)
	}

	rows, err := s.candidates(ctx, key, limit, opts)
	if err != nil {
		return nil, err
	}
	sel := selectLimit(rows, limit)

	if cleared && !opts.Peek {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE conversations SET cleared = 0 WHERE conv_key = ?`, key.String()); err != nil {
			return nil, fmt.Errorf("failed to reset cleared flag: %w", err)
		}
	}

	old, live := splitAtMarker(sel.messages, nanosToTime(markerNanos))
	return &Window{
		Old:          old,
		New:          live,
		HasMoreOlder: sel.moreOlder,
		HasMoreNewer: sel.moreNewer,
		Cleared:      cleared && !opts.Peek,
	}, nil
}

// candidates fetches, oldest first, just enough rows around the requested
// slice for selectLimit to both pick the slice and see whether more exists
// past either end.
func (s *SQLiteStore) candidates(ctx context.Context, key Key, limit Limit, opts Options) ([]*Message, error) {
	filter := ""
	if opts.HideServer {
		filter = fmt.Sprintf(" AND kind != '%s'", KindServer)
	}
	k := key.String()

	switch limit.Kind {
	case LimitTop:
		return s.query(ctx, `SELECT `+messageColumns+` FROM messages
			WHERE conv_key = ?`+filter+` ORDER BY server_time ASC, seq ASC LIMIT ?`,
			false, k, limit.Count+1)

	case LimitSince:
		since := timeToNanos(limit.Since)
		before, err := s.query(ctx, `SELECT `+messageColumns+` FROM messages
			WHERE conv_key = ? AND server_time < ?`+filter+` ORDER BY server_time DESC, seq DESC LIMIT 1`,
			true, k, since)
		if err != nil {
			return nil, err
		}
		after, err := s.query(ctx, `SELECT `+messageColumns+` FROM messages
			WHERE conv_key = ? AND server_time >= ?`+filter+` ORDER BY server_time ASC, seq ASC`,
			false, k, since)
		if err != nil {
			return nil, err
		}
		return append(before, after...), nil

	case LimitAround:
		var t, seq int64
		err := s.db.QueryRowContext(ctx,
			`SELECT server_time, seq FROM messages WHERE conv_key = ? AND hash = ?`+filter,
			k, string(limit.Anchor)).Scan(&t, &seq)
		if errors.Is(err, sql.ErrNoRows) {
			return s.candidates(ctx, key, Bottom(limit.Count), opts)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to locate anchor %s: %w", limit.Anchor.Short(), err)
		}
		older, err := s.query(ctx, `SELECT `+messageColumns+` FROM messages
			WHERE conv_key = ? AND (server_time < ? OR (server_time = ? AND seq < ?))`+filter+`
			ORDER BY server_time DESC, seq DESC LIMIT ?`,
			true, k, t, t, seq, limit.Count+1)
		if err != nil {
			return nil, err
		}
		newer, err := s.query(ctx, `SELECT `+messageColumns+` FROM messages
			WHERE conv_key = ? AND (server_time > ? OR (server_time = ? AND seq >= ?))`+filter+`
			ORDER BY server_time ASC, seq ASC LIMIT ?`,
			false, k, t, t, seq, limit.Count+1)
		if err != nil {
			return nil, err
		}
		return append(older, newer...), nil

	default:
		return s.query(ctx, `SELECT `+messageColumns+` FROM messages
			WHERE conv_key = ?`+filter+` ORDER BY server_time DESC, seq DESC LIMIT ?`,
			true, k, limit.Count+1)
	}
}

// query scans message rows; descending results are reversed to oldest first
func (s *SQLiteStore) query(ctx context.Context, q string, descending bool, args ...any) ([]*Message, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var out []*Message
	for rows.Next() {
		var (
			m     Message
			nanos int64
			kind  string
			seq   int64
		)
		if err := rows.Scan(&m.Hash, &m.ID, &nanos, &m.Sender, &m.Text, &kind, &seq); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.ServerTime = nanosToTime(nanos)
		m.Kind = MessageKind(kind)
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	if descending {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

// Append stores messages at the live end; duplicates by hash are ignored
func (s *SQLiteStore) Append(ctx context.Context, key Key, msgs ...*Message) error {
	return s.insert(ctx, key, msgs)
}

// Prepend stores older messages fetched by backfill. Ordering is by server
// time, so this is the same insert as Append.
func (s *SQLiteStore) Prepend(ctx context.Context, key Key, msgs ...*Message) error {
	return s.insert(ctx, key, msgs)
}

func (s *SQLiteStore) insert(ctx context.Context, key Key, msgs []*Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	var exists int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM conversations WHERE conv_key = ?`, key.String()).Scan(&exists); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to check conversation: %w", err)
	}
	if exists == 0 {
		_ = tx.Rollback()
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO messages
		(conv_key, hash, msg_id, server_time, sender, text, kind) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range msgs {
		var id any
		if m.ID != "" {
			id = m.ID
		}
		if _, err := stmt.ExecContext(ctx, key.String(), string(m.Hash), id,
			timeToNanos(m.ServerTime), m.Sender, m.Text, string(m.Kind)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert message %s: %w", m.Hash.Short(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit messages: %w", err)
	}
	return nil
}

// MarkRead moves the read marker forward; it never moves backwards
func (s *SQLiteStore) MarkRead(ctx context.Context, key Key, until time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE conversations SET read_marker = MAX(read_marker, ?) WHERE conv_key = ?`,
		timeToNanos(until), key.String())
	if err != nil {
		return fmt.Errorf("failed to mark read: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// Clear removes every message of a conversation and flags the next window as cleared
func (s *SQLiteStore) Clear(ctx context.Context, key Key) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	res, err := tx.ExecContext(ctx, `UPDATE conversations SET cleared = 1 WHERE conv_key = ?`, key.String())
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to flag cleared: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		_ = tx.Rollback()
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE conv_key = ?`, key.String()); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit clear: %w", err)
	}
	return nil
}

// Count returns the number of stored messages for a conversation
func (s *SQLiteStore) Count(ctx context.Context, key Key) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM messages WHERE conv_key = ?`, key.String()).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return n, nil
}

func timeToNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func nanosToTime(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
