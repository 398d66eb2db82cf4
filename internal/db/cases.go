package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// activeAlgorithmJoin resolves the case's active algorithm: the explicit
// selection when set, otherwise the first non-custom algorithm by id.
const activeAlgorithmJoin = `
	LEFT JOIN algorithms sa ON sa.id = COALESCE(
		c.selected_algorithm_id,
		(
			SELECT a.id
			FROM algorithms a
			WHERE a.case_id = c.id
			ORDER BY a.is_custom ASC, a.id ASC
			LIMIT 1
		)
	)`

const caseColumns = `
	c.id, c.category_code, c.case_code, c.title,
	COALESCE(c.subgroup_title, c.category_code || ' Cases'),
	c.case_number, c.probability_text,
	c.orientation_front, c.orientation_auf,
	c.recognizer_svg_path, c.recognizer_png_path,
	c.selected_algorithm_id,
	sa.id, COALESCE(sa.name, ''), COALESCE(sa.formula, ''),
	COALESCE(sa.progress_status, 'NEW')`

func scanCase(row pgx.Row) (*Case, error) {
	var cs Case
	err := row.Scan(
		&cs.ID, &cs.CategoryCode, &cs.CaseCode, &cs.Title,
		&cs.SubgroupTitle,
		&cs.CaseNumber, &cs.ProbabilityText,
		&cs.OrientationFront, &cs.OrientationAUF,
		&cs.RecognizerSVGPath, &cs.RecognizerPNGPath,
		&cs.SelectedAlgorithmID,
		&cs.ActiveAlgorithmID, &cs.ActiveAlgorithmName, &cs.ActiveFormula,
		&cs.ActiveStatus,
	)
	if err != nil {
		return nil, err
	}
	return &cs, nil
}

// ListCases retrieves all cases of one category with their resolved
// active algorithm
func (db *DB) ListCases(ctx context.Context, group string) ([]Case, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+caseColumns+`
		 FROM cases c`+activeAlgorithmJoin+`
		 WHERE c.category_code = $1
		 ORDER BY c.subgroup_title, c.case_number, c.case_code`,
		group,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	defer rows.Close()

	var cases []Case
	for rows.Next() {
		cs, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}
		cases = append(cases, *cs)
	}
	return cases, rows.Err()
}

// GetCase retrieves a case by id, or (nil, nil) when absent
func (db *DB) GetCase(ctx context.Context, caseID int64) (*Case, error) {
	cs, err := scanCase(db.pool.QueryRow(ctx,
		`SELECT `+caseColumns+`
		 FROM cases c`+activeAlgorithmJoin+`
		 WHERE c.id = $1`,
		caseID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}
	return cs, nil
}

// GetCaseByCode retrieves a case by its category and case code, or
// (nil, nil) when absent
func (db *DB) GetCaseByCode(ctx context.Context, group, caseCode string) (*Case, error) {
	cs, err := scanCase(db.pool.QueryRow(ctx,
		`SELECT `+caseColumns+`
		 FROM cases c`+activeAlgorithmJoin+`
		 WHERE c.category_code = $1 AND c.case_code = $2`,
		group, caseCode,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}
	return cs, nil
}

// ActiveAlgorithmID resolves the active algorithm for a case. Returns
// (0, nil) when the case exists but has no algorithms, and an error when
// the case itself is absent.
func (db *DB) ActiveAlgorithmID(ctx context.Context, caseID int64) (int64, error) {
	cs, err := db.GetCase(ctx, caseID)
	if err != nil {
		return 0, err
	}
	if cs == nil {
		return 0, fmt.Errorf("case %d not found", caseID)
	}
	if cs.ActiveAlgorithmID == nil {
		return 0, nil
	}
	return *cs.ActiveAlgorithmID, nil
}

// SetSelectedAlgorithm points a case at one of its own algorithms.
// Returns false when the algorithm does not belong to the case.
func (db *DB) SetSelectedAlgorithm(ctx context.Context, caseID, algorithmID int64) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE cases
		 SET selected_algorithm_id = $2
		 WHERE id = $1
		   AND EXISTS (SELECT 1 FROM algorithms WHERE id = $2 AND case_id = $1)`,
		caseID, algorithmID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to set selected algorithm: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// NextCustomSeq advances the case's custom-name counter and returns
// the new value. The counter only ever grows, so numbers freed by
// deletions are never handed out again. Returns (0, nil) when the case
// does not exist.
func (db *DB) NextCustomSeq(ctx context.Context, caseID int64) (int, error) {
	var seq int
	err := db.pool.QueryRow(ctx,
		`UPDATE cases SET custom_seq = custom_seq + 1 WHERE id = $1 RETURNING custom_seq`,
		caseID,
	).Scan(&seq)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to advance custom counter: %w", err)
	}
	return seq, nil
}

// CreateCaseIfNeeded inserts a case when absent and returns its id
func (db *DB) CreateCaseIfNeeded(ctx context.Context, group, caseCode, title, subgroupTitle string, caseNumber *int) (int64, error) {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO cases (category_code, case_code, title, subgroup_title, case_number)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (category_code, case_code) DO NOTHING`,
		group, caseCode, title, subgroupTitle, caseNumber,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create case: %w", err)
	}

	var id int64
	err = db.pool.QueryRow(ctx,
		`SELECT id FROM cases WHERE category_code = $1 AND case_code = $2`,
		group, caseCode,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve case: %w", err)
	}
	return id, nil
}
