package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// GetArtifact retrieves the artifact for one (algorithm, quality) pair,
// or (nil, nil) when absent
func (db *DB) GetArtifact(ctx context.Context, algorithmID int64, quality string) (*Artifact, error) {
	var a Artifact
	err := db.pool.QueryRow(ctx,
		`SELECT id, algorithm_id, quality, output_name, output_path, formula_norm, updated_at
		 FROM render_artifacts
		 WHERE algorithm_id = $1 AND quality = $2`,
		algorithmID, quality,
	).Scan(&a.ID, &a.AlgorithmID, &a.Quality, &a.OutputName, &a.OutputPath, &a.FormulaNorm, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artifact: %w", err)
	}
	return &a, nil
}

// ListArtifacts retrieves all artifacts for an algorithm
func (db *DB) ListArtifacts(ctx context.Context, algorithmID int64) ([]Artifact, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, algorithm_id, quality, output_name, output_path, formula_norm, updated_at
		 FROM render_artifacts
		 WHERE algorithm_id = $1
		 ORDER BY quality`,
		algorithmID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []Artifact
	for rows.Next() {
		var a Artifact
		if err := rows.Scan(&a.ID, &a.AlgorithmID, &a.Quality, &a.OutputName, &a.OutputPath, &a.FormulaNorm, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, rows.Err()
}

// UpsertArtifact replaces the artifact row for (algorithm, quality).
// The insert is guarded by algorithm existence so that a render finishing
// after its algorithm was deleted is silently discarded; the bool result
// reports whether a row was written.
func (db *DB) UpsertArtifact(ctx context.Context, input ArtifactInput) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`INSERT INTO render_artifacts (algorithm_id, quality, output_name, output_path, formula_norm, updated_at)
		 SELECT $1, $2, $3, $4, $5, NOW()
		 WHERE EXISTS (SELECT 1 FROM algorithms WHERE id = $1)
		 ON CONFLICT (algorithm_id, quality)
		 DO UPDATE SET
			output_name = EXCLUDED.output_name,
			output_path = EXCLUDED.output_path,
			formula_norm = EXCLUDED.formula_norm,
			updated_at = EXCLUDED.updated_at`,
		input.AlgorithmID, input.Quality, input.OutputName, input.OutputPath, input.FormulaNorm,
	)
	if err != nil {
		return false, fmt.Errorf("failed to upsert artifact: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
