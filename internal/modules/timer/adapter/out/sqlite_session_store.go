package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pomo/internal/modules/timer/domain"
	timerout "pomo/internal/modules/timer/port/out"
	apperrors "pomo/internal/platform/errors"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

type SQLiteSessionStore struct {
	db *sql.DB
}

func NewSQLiteSessionStore(dbPath string) (timerout.SessionStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteSessionStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteSessionStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  kind TEXT NOT NULL,
  start_time TEXT NOT NULL,
  end_time TEXT,
  planned_seconds INTEGER NOT NULL,
  actual_seconds INTEGER,
  strict_mode INTEGER NOT NULL,
  completed INTEGER NOT NULL,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_open ON sessions (start_time) WHERE end_time IS NULL;
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) CreateSession(ctx context.Context, record domain.SessionRecord) error {
	const stmt = `
INSERT INTO sessions (id, kind, start_time, end_time, planned_seconds, actual_seconds, strict_mode, completed, created_at)
VALUES (?, ?, ?, NULL, ?, NULL, ?, ?, ?);
`
	_, err := s.db.ExecContext(ctx, stmt,
		record.ID,
		string(record.Kind),
		record.StartTime.Format(timeLayout),
		int64(record.PlannedDuration/time.Second),
		boolToInt(record.StrictMode),
		boolToInt(record.Completed),
		record.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) UpdateSession(ctx context.Context, record domain.SessionRecord) error {
	if record.EndTime == nil || record.ActualDuration == nil {
		return fmt.Errorf("update session %s: end time and actual duration are required", record.ID)
	}
	const stmt = `
UPDATE sessions SET end_time = ?, actual_seconds = ?, completed = ? WHERE id = ?;
`
	result, err := s.db.ExecContext(ctx, stmt,
		record.EndTime.Format(timeLayout),
		int64(*record.ActualDuration/time.Second),
		boolToInt(record.Completed),
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update session %s: %w", record.ID, apperrors.ErrNoActiveSession)
	}
	return nil
}

func (s *SQLiteSessionStore) GetActiveSession(ctx context.Context) (domain.SessionRecord, error) {
	const query = `
SELECT id, kind, start_time, end_time, planned_seconds, actual_seconds, strict_mode, completed, created_at
FROM sessions WHERE end_time IS NULL ORDER BY start_time DESC LIMIT 1;
`
	record, err := scanSession(s.db.QueryRowContext(ctx, query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.SessionRecord{}, apperrors.ErrNoActiveSession
		}
		return domain.SessionRecord{}, err
	}
	return record, nil
}

func (s *SQLiteSessionStore) CycleCountSinceLongBreak(ctx context.Context) (int, error) {
	const query = `
SELECT COUNT(*) FROM sessions
WHERE kind = ? AND completed = 1
  AND start_time > COALESCE(
    (SELECT MAX(start_time) FROM sessions WHERE kind = ? AND completed = 1), '');
`
	var count int
	err := s.db.QueryRowContext(ctx, query, string(domain.PhaseFocus), string(domain.PhaseLongBreak)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count cycles: %w", err)
	}
	return count, nil
}

func (s *SQLiteSessionStore) ListSessions(ctx context.Context, limit int) ([]domain.SessionRecord, error) {
	const query = `
SELECT id, kind, start_time, end_time, planned_seconds, actual_seconds, strict_mode, completed, created_at
FROM sessions ORDER BY start_time DESC LIMIT ?;
`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var records []domain.SessionRecord
	for rows.Next() {
		record, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (s *SQLiteSessionStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (domain.SessionRecord, error) {
	var (
		record         domain.SessionRecord
		kind           string
		startRaw       string
		endRaw         sql.NullString
		plannedSeconds int64
		actualSeconds  sql.NullInt64
		strict, done   int
		createdRaw     string
	)
	if err := row.Scan(&record.ID, &kind, &startRaw, &endRaw, &plannedSeconds, &actualSeconds, &strict, &done, &createdRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.SessionRecord{}, err
		}
		return domain.SessionRecord{}, fmt.Errorf("scan session: %w", err)
	}
	record.Kind = domain.Phase(kind)
	record.PlannedDuration = time.Duration(plannedSeconds) * time.Second
	record.StrictMode = strict != 0
	record.Completed = done != 0

	start, err := time.Parse(timeLayout, startRaw)
	if err != nil {
		return domain.SessionRecord{}, fmt.Errorf("parse session start time: %w", err)
	}
	record.StartTime = start
	created, err := time.Parse(timeLayout, createdRaw)
	if err != nil {
		return domain.SessionRecord{}, fmt.Errorf("parse session created time: %w", err)
	}
	record.CreatedAt = created

	if endRaw.Valid {
		end, err := time.Parse(timeLayout, endRaw.String)
		if err != nil {
			return domain.SessionRecord{}, fmt.Errorf("parse session end time: %w", err)
		}
		record.EndTime = &end
	}
	if actualSeconds.Valid {
		actual := time.Duration(actualSeconds.Int64) * time.Second
		record.ActualDuration = &actual
	}
	return record, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
