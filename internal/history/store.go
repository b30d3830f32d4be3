package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"audiomerge/internal/services"
)

// timeLayout has fixed-width fractional seconds so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound reports a lookup for an unknown record ID.
var ErrNotFound = fmt.Errorf("%w: merge record not found", services.ErrNotFound)

// Store manages merge history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrConfiguration, "history", "open", "empty database path", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// NewID returns a fresh record identifier.
func NewID() string {
	return uuid.NewString()
}

// Add inserts rec, assigning an ID and start time when missing.
func (s *Store) Add(ctx context.Context, rec Record) (Record, error) {
	if strings.TrimSpace(rec.ID) == "" {
		rec.ID = NewID()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now()
	}
	if rec.Status == "" {
		rec.Status = StatusFailed
	}
	argsJSON, err := json.Marshal(rec.Args)
	if err != nil {
		return Record{}, fmt.Errorf("marshal args: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO merges (
            id, input_path, output_path, title, filter_graph, args_json,
            status, error_kind, error_message, output_bytes, started_at, finished_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.InputPath,
		nullableString(rec.OutputPath),
		nullableString(rec.Title),
		nullableString(rec.FilterGraph),
		string(argsJSON),
		string(rec.Status),
		nullableString(rec.ErrorKind),
		nullableString(rec.ErrorMessage),
		rec.OutputBytes,
		rec.StartedAt.UTC().Format(timeLayout),
		nullableTime(rec.FinishedAt),
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert merge record: %w", err)
	}
	return rec, nil
}

// Get fetches a record by ID.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM merges WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, err
}

// List returns the most recent records first. A non-positive limit returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT ` + recordColumns + ` FROM merges ORDER BY started_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list merges: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate merges: %w", err)
	}
	return records, nil
}

// Clear removes every record and reports how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM merges`)
	if err != nil {
		return 0, fmt.Errorf("clear merges: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

const recordColumns = `id, input_path, output_path, title, filter_graph, args_json,
    status, error_kind, error_message, output_bytes, started_at, finished_at`

func scanRecord(scanner interface{ Scan(dest ...any) error }) (Record, error) {
	var (
		rec          Record
		outputPath   sql.NullString
		title        sql.NullString
		filterGraph  sql.NullString
		argsJSON     sql.NullString
		status       string
		errorKind    sql.NullString
		errorMessage sql.NullString
		startedRaw   string
		finishedRaw  sql.NullString
	)
	if err := scanner.Scan(
		&rec.ID, &rec.InputPath, &outputPath, &title, &filterGraph, &argsJSON,
		&status, &errorKind, &errorMessage, &rec.OutputBytes, &startedRaw, &finishedRaw,
	); err != nil {
		return Record{}, err
	}
	rec.OutputPath = outputPath.String
	rec.Title = title.String
	rec.FilterGraph = filterGraph.String
	rec.Status = Status(status)
	rec.ErrorKind = errorKind.String
	rec.ErrorMessage = errorMessage.String
	if argsJSON.Valid && argsJSON.String != "" {
		if err := json.Unmarshal([]byte(argsJSON.String), &rec.Args); err != nil {
			return Record{}, fmt.Errorf("decode args for %s: %w", rec.ID, err)
		}
	}
	started, err := time.Parse(time.RFC3339Nano, startedRaw)
	if err != nil {
		return Record{}, fmt.Errorf("parse started_at for %s: %w", rec.ID, err)
	}
	rec.StartedAt = started
	if finishedRaw.Valid {
		if finished, err := time.Parse(time.RFC3339Nano, finishedRaw.String); err == nil {
			rec.FinishedAt = &finished
		}
	}
	return rec, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(timeLayout)
}
