package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const algorithmColumns = `
	a.id, a.case_id, a.name, a.display_name, a.formula,
	a.progress_status, a.is_custom, a.created_at, a.updated_at,
	c.category_code, c.case_code`

func scanAlgorithm(row pgx.Row) (*Algorithm, error) {
	var a Algorithm
	err := row.Scan(
		&a.ID, &a.CaseID, &a.Name, &a.DisplayName, &a.Formula,
		&a.ProgressStatus, &a.IsCustom, &a.CreatedAt, &a.UpdatedAt,
		&a.Group, &a.CaseCode,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAlgorithm retrieves an algorithm with its case context, or
// (nil, nil) when absent
func (db *DB) GetAlgorithm(ctx context.Context, algorithmID int64) (*Algorithm, error) {
	a, err := scanAlgorithm(db.pool.QueryRow(ctx,
		`SELECT `+algorithmColumns+`
		 FROM algorithms a
		 JOIN cases c ON c.id = a.case_id
		 WHERE a.id = $1`,
		algorithmID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get algorithm: %w", err)
	}
	return a, nil
}

// ListAlgorithms retrieves algorithms, optionally filtered by category
// code ("ALL" or empty means no filter)
func (db *DB) ListAlgorithms(ctx context.Context, group string) ([]Algorithm, error) {
	query := `SELECT ` + algorithmColumns + `
		 FROM algorithms a
		 JOIN cases c ON c.id = a.case_id`
	args := []any{}
	if group != "" && group != "ALL" {
		query += ` WHERE c.category_code = $1`
		args = append(args, group)
	}
	query += ` ORDER BY c.category_code, c.case_code, a.name`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list algorithms: %w", err)
	}
	defer rows.Close()

	var algorithms []Algorithm
	for rows.Next() {
		a, err := scanAlgorithm(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan algorithm: %w", err)
		}
		algorithms = append(algorithms, *a)
	}
	return algorithms, rows.Err()
}

// ListCaseAlgorithms retrieves all algorithms belonging to one case
func (db *DB) ListCaseAlgorithms(ctx context.Context, caseID int64) ([]Algorithm, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+algorithmColumns+`
		 FROM algorithms a
		 JOIN cases c ON c.id = a.case_id
		 WHERE a.case_id = $1
		 ORDER BY a.id`,
		caseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list case algorithms: %w", err)
	}
	defer rows.Close()

	var algorithms []Algorithm
	for rows.Next() {
		a, err := scanAlgorithm(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan algorithm: %w", err)
		}
		algorithms = append(algorithms, *a)
	}
	return algorithms, rows.Err()
}

// AlgorithmInput carries the fields for creating an algorithm.
type AlgorithmInput struct {
	CaseID      int64
	Name        string
	DisplayName string
	Formula     string
	IsCustom    bool
	Activate    bool
}

// CreateAlgorithm inserts an algorithm and optionally activates it for
// its case, in one transaction
func (db *DB) CreateAlgorithm(ctx context.Context, input AlgorithmInput) (*Algorithm, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO algorithms (case_id, name, display_name, formula, is_custom)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		input.CaseID, input.Name, input.DisplayName, input.Formula, input.IsCustom,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create algorithm: %w", err)
	}

	if input.Activate {
		if _, err := tx.Exec(ctx,
			`UPDATE cases SET selected_algorithm_id = $2 WHERE id = $1`,
			input.CaseID, id,
		); err != nil {
			return nil, fmt.Errorf("failed to activate algorithm: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit algorithm: %w", err)
	}
	return db.GetAlgorithm(ctx, id)
}

// SetProgressStatus updates an algorithm's learning progress. Returns
// false when the algorithm does not exist.
func (db *DB) SetProgressStatus(ctx context.Context, algorithmID int64, status string) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE algorithms
		 SET progress_status = $2, updated_at = NOW()
		 WHERE id = $1`,
		algorithmID, status,
	)
	if err != nil {
		return false, fmt.Errorf("failed to set progress status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateAlgorithmFormula replaces an algorithm's formula text. Returns
// false when the algorithm does not exist. Existing artifacts keep their
// formula_norm and fall out of the cache on the next resolve.
func (db *DB) UpdateAlgorithmFormula(ctx context.Context, algorithmID int64, formula string) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE algorithms
		 SET formula = $2, updated_at = NOW()
		 WHERE id = $1`,
		algorithmID, formula,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update formula: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ErrLastAlgorithm reports a refused deletion that would leave a case
// with no algorithms.
var ErrLastAlgorithm = errors.New("cannot delete the case's last algorithm")

// DeleteAlgorithm removes an algorithm in one transaction: the case's
// active-algorithm pointer is repointed to a surviving sibling (or
// cleared), and artifact/job rows go with the algorithm via cascade.
// The case row is locked first, so concurrent deletions of a case's
// algorithms serialize and the last one always fails with
// ErrLastAlgorithm. The removed artifact paths are returned so callers
// can purge media files. Returns (nil, false, nil) when the algorithm
// does not exist.
func (db *DB) DeleteAlgorithm(ctx context.Context, algorithmID int64) ([]string, bool, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var caseID int64
	err = tx.QueryRow(ctx,
		`SELECT c.id
		 FROM algorithms a
		 JOIN cases c ON c.id = a.case_id
		 WHERE a.id = $1
		 FOR UPDATE OF c`,
		algorithmID,
	).Scan(&caseID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to resolve algorithm: %w", err)
	}

	var siblings int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM algorithms WHERE case_id = $1`, caseID,
	).Scan(&siblings)
	if err != nil {
		return nil, false, fmt.Errorf("failed to count case algorithms: %w", err)
	}
	if siblings <= 1 {
		return nil, false, ErrLastAlgorithm
	}

	rows, err := tx.Query(ctx,
		`SELECT output_path FROM render_artifacts WHERE algorithm_id = $1`,
		algorithmID,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to collect artifact paths: %w", err)
	}
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return nil, false, fmt.Errorf("failed to scan artifact path: %w", err)
		}
		paths = append(paths, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("failed to collect artifact paths: %w", err)
	}

	// Repoint the weak reference before the row disappears.
	if _, err := tx.Exec(ctx,
		`UPDATE cases
		 SET selected_algorithm_id = (
			SELECT a.id FROM algorithms a
			WHERE a.case_id = $1 AND a.id <> $2
			ORDER BY a.is_custom ASC, a.id ASC
			LIMIT 1
		 )
		 WHERE id = $1 AND selected_algorithm_id = $2`,
		caseID, algorithmID,
	); err != nil {
		return nil, false, fmt.Errorf("failed to repoint active algorithm: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM algorithms WHERE id = $1`, algorithmID,
	); err != nil {
		return nil, false, fmt.Errorf("failed to delete algorithm: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("failed to commit deletion: %w", err)
	}
	return paths, true, nil
}
