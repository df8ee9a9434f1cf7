package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"deadsym/internal/deadcode"
	dserrors "deadsym/internal/errors"
	"deadsym/internal/version"
)

// Run is one stored analysis run.
type Run struct {
	ID           string
	Kind         string
	Root         string
	StartedAt    time.Time
	Duration     time.Duration
	Total        int
	Used         int
	Unused       int
	FilesScanned int
	Sources      []string
	ToolVersion  string
}

// SymbolRow is one stored universe entry.
type SymbolRow struct {
	Category string
	Name     string
	Used     bool
	Sources  []string
	Group    string
}

// SaveRun stores res and every universe entry of it in one transaction.
// Saving the same run ID twice replaces the earlier rows.
func (db *DB) SaveRun(ctx context.Context, res *deadcode.Result) error {
	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, res.RunID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO runs (id, kind, root, started_at, duration_ms, total, used, unused,
				files_scanned, sources, tool_version)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			res.RunID, string(res.Kind), res.Root,
			res.StartedAt.UTC().Format(time.RFC3339Nano), res.Duration.Milliseconds(),
			res.Summary.Total, res.Summary.Used, res.Summary.Unused,
			res.Summary.FilesScanned, joinList(res.Sources), version.Version,
		)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO symbols (run_id, category, name, used, sources, group_key)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, row := range symbolRows(res) {
			if _, err := stmt.ExecContext(ctx, res.RunID, row.Category, row.Name,
				row.Used, joinList(row.Sources), row.Group); err != nil {
				return fmt.Errorf("insert symbol %s/%s: %w", row.Category, row.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return dserrors.New(dserrors.ExportFailed, "failed to save run "+res.RunID, err)
	}
	db.logger.Debug("Run saved", "run", res.RunID, "path", db.dbPath)
	return nil
}

func symbolRows(res *deadcode.Result) []SymbolRow {
	groupOf := func(name string) string {
		if res.Groups == nil {
			return ""
		}
		return res.Groups.KeyOf[name]
	}

	if res.Verdict == nil {
		rows := make([]SymbolRow, 0, len(res.Items))
		for _, it := range res.Items {
			rows = append(rows, SymbolRow{Category: it.Category, Name: it.Name, Group: it.Group})
		}
		return rows
	}

	rows := make([]SymbolRow, 0, len(res.Verdict.Used)+len(res.Verdict.Unused))
	for _, ref := range res.Verdict.Used {
		rows = append(rows, SymbolRow{
			Category: ref.Category,
			Name:     ref.Name,
			Used:     true,
			Sources:  res.Verdict.Sources[ref.Name],
			Group:    groupOf(ref.Name),
		})
	}
	for _, ref := range res.Verdict.Unused {
		rows = append(rows, SymbolRow{Category: ref.Category, Name: ref.Name, Group: groupOf(ref.Name)})
	}
	return rows
}

// GetRun loads a run by ID. It returns sql.ErrNoRows when there is none.
func (db *DB) GetRun(ctx context.Context, id string) (*Run, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, kind, root, started_at, duration_ms, total, used, unused,
			files_scanned, sources, tool_version
		FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// ListRuns returns the most recent runs first.
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, kind, root, started_at, duration_ms, total, used, unused,
			files_scanned, sources, tool_version
		FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// Symbols returns the stored entries of a run ordered by category and name.
// With unusedOnly set only unused entries are returned.
func (db *DB) Symbols(ctx context.Context, runID string, unusedOnly bool) ([]SymbolRow, error) {
	query := `SELECT category, name, used, sources, group_key FROM symbols WHERE run_id = ?`
	if unusedOnly {
		query += ` AND used = 0`
	}
	query += ` ORDER BY category, name`

	rows, err := db.conn.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SymbolRow
	for rows.Next() {
		var s SymbolRow
		var sources string
		if err := rows.Scan(&s.Category, &s.Name, &s.Used, &sources, &s.Group); err != nil {
			return nil, err
		}
		s.Sources = splitList(sources)
		out = append(out, s)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var r Run
	var startedAt, sources string
	var durationMs int64
	err := row.Scan(&r.ID, &r.Kind, &r.Root, &startedAt, &durationMs,
		&r.Total, &r.Used, &r.Unused, &r.FilesScanned, &sources, &r.ToolVersion)
	if err != nil {
		return nil, err
	}
	r.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
	r.Duration = time.Duration(durationMs) * time.Millisecond
	r.Sources = splitList(sources)
	return &r, nil
}

func joinList(list []string) string {
	return strings.Join(list, ",")
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
