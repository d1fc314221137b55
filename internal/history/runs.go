package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const runColumns = "run_id, input_dir, output_dir, started_at, finished_at, threshold, header_window, footer_window, min_occurrences, pages_total, pages_cleaned, pages_skipped, write_failures, lines_stripped"

// RecordRun stores run with its patterns and page outcomes in one transaction.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	if strings.TrimSpace(run.ID) == "" {
		return errors.New("record run: empty run id")
	}
	return retryOnBusy(ctx, func() error {
		return s.recordRunTx(ctx, run)
	})
}

func (s *Store) recordRunTx(ctx context.Context, run Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.InputDir,
		run.OutputDir,
		formatTime(run.StartedAt),
		formatTime(run.FinishedAt),
		run.Threshold,
		run.HeaderWindow,
		run.FooterWindow,
		run.MinOccurrences,
		run.PagesTotal,
		run.PagesCleaned,
		run.PagesSkipped,
		run.WriteFailures,
		run.LinesStripped,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, p := range run.Patterns {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO run_patterns (run_id, side, position, text) VALUES (?, ?, ?, ?)`,
			run.ID, p.Side, p.Position, p.Text,
		); err != nil {
			return fmt.Errorf("insert pattern: %w", err)
		}
	}

	for _, page := range run.Pages {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_pages (run_id, page, strip_start, strip_end, output_path, sha256, error_message)
             VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, page.Page, page.StripStart, page.StripEnd,
			optional(page.OutputPath), optional(page.SHA256), optional(page.Error),
		); err != nil {
			return fmt.Errorf("insert page outcome: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first, without patterns or
// page outcomes. A limit <= 0 returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, run_id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var runs []Run
	err := retryOnBusy(ctx, func() error {
		runs = runs[:0]
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			run, err := scanRun(rows)
			if err != nil {
				return err
			}
			runs = append(runs, run)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// GetRun returns a run with its patterns and page outcomes. The id may be a
// unique prefix of the full run identifier.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrRunNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE run_id = ? OR run_id LIKE ? ESCAPE '\' LIMIT 2`,
		id, escapeLike(id)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	var matches []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan run: %w", err)
		}
		matches = append(matches, run)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
	default:
		exact := false
		for _, m := range matches {
			if m.ID == id {
				matches = []Run{m}
				exact = true
				break
			}
		}
		if !exact {
			return nil, fmt.Errorf("run id prefix %q is ambiguous", id)
		}
	}

	run := matches[0]
	if run.Patterns, err = s.RunPatterns(ctx, run.ID); err != nil {
		return nil, err
	}
	if run.Pages, err = s.runPages(ctx, run.ID); err != nil {
		return nil, err
	}
	return &run, nil
}

// RunPatterns returns the accepted patterns recorded for runID.
func (s *Store) RunPatterns(ctx context.Context, runID string) ([]Pattern, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT side, position, text FROM run_patterns WHERE run_id = ?
         ORDER BY CASE side WHEN 'header' THEN 0 ELSE 1 END, position, text`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("run patterns: %w", err)
	}
	defer rows.Close()

	var out []Pattern
	for rows.Next() {
		var p Pattern
		if err := rows.Scan(&p.Side, &p.Position, &p.Text); err != nil {
			return nil, fmt.Errorf("scan pattern: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) runPages(ctx context.Context, runID string) ([]PageOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT page, strip_start, strip_end, output_path, sha256, error_message
         FROM run_pages WHERE run_id = ? ORDER BY page`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("run pages: %w", err)
	}
	defer rows.Close()

	var out []PageOutcome
	for rows.Next() {
		var (
			p       PageOutcome
			outPath sql.NullString
			sum     sql.NullString
			errMsg  sql.NullString
		)
		if err := rows.Scan(&p.Page, &p.StripStart, &p.StripEnd, &outPath, &sum, &errMsg); err != nil {
			return nil, fmt.Errorf("scan page outcome: %w", err)
		}
		p.OutputPath = outPath.String
		p.SHA256 = sum.String
		p.Error = errMsg.String
		out = append(out, p)
	}
	return out, rows.Err()
}

// Prune deletes all but the newest keep runs and returns how many were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	var removed int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx,
			`DELETE FROM runs WHERE run_id NOT IN (
                SELECT run_id FROM runs ORDER BY started_at DESC, run_id LIMIT ?
            )`,
			keep,
		)
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return removed, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run         Run
		startedRaw  string
		finishedRaw string
	)
	if err := scanner.Scan(
		&run.ID,
		&run.InputDir,
		&run.OutputDir,
		&startedRaw,
		&finishedRaw,
		&run.Threshold,
		&run.HeaderWindow,
		&run.FooterWindow,
		&run.MinOccurrences,
		&run.PagesTotal,
		&run.PagesCleaned,
		&run.PagesSkipped,
		&run.WriteFailures,
		&run.LinesStripped,
	); err != nil {
		return Run{}, err
	}
	run.StartedAt, _ = parseStoredTime(startedRaw)
	run.FinishedAt, _ = parseStoredTime(finishedRaw)
	return run, nil
}

func escapeLike(value string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(value)
}
