package render

import (
	"context"
	"os"

	"github.com/Simonerrror/rubik-motion-lab/internal/db"
	"github.com/Simonerrror/rubik-motion-lab/internal/formula"
)

// CatalogReader is the slice of the store the cache needs.
type CatalogReader interface {
	GetAlgorithm(ctx context.Context, algorithmID int64) (*db.Algorithm, error)
	GetArtifact(ctx context.Context, algorithmID int64, quality string) (*db.Artifact, error)
}

// Miss reasons reported by Resolve.
const (
	MissNoArtifact     = "no_artifact"
	MissFormulaChanged = "formula_changed"
	MissFileMissing    = "file_missing"
)

// Resolution is the outcome of a cache lookup.
type Resolution struct {
	Hit         bool
	Artifact    *db.Artifact // set on hit
	Algorithm   *db.Algorithm
	FormulaNorm string // current normalized formula of the algorithm
	MissReason  string // set on miss
}

// Cache decides whether an up-to-date clip already exists for an
// (algorithm, quality) pair.
type Cache struct {
	Store CatalogReader
}

// Resolve is a hit only when all three hold: an artifact row exists for
// the pair, its recorded formula_norm equals the algorithm's current
// normalized formula, and the clip file is still on disk. Renames or
// deletions under the media root therefore degrade to a miss, never an
// error.
func (c *Cache) Resolve(ctx context.Context, algorithmID int64, quality Quality) (*Resolution, error) {
	alg, err := c.Store.GetAlgorithm(ctx, algorithmID)
	if err != nil {
		return nil, err
	}
	if alg == nil {
		return nil, &UnknownAlgorithmError{AlgorithmID: algorithmID}
	}

	norm, err := formula.NormalizeText(alg.Formula)
	if err != nil {
		return nil, err
	}

	res := &Resolution{Algorithm: alg, FormulaNorm: norm}

	artifact, err := c.Store.GetArtifact(ctx, algorithmID, quality.String())
	if err != nil {
		return nil, err
	}
	if artifact == nil {
		res.MissReason = MissNoArtifact
		return res, nil
	}
	if artifact.FormulaNorm != norm {
		res.MissReason = MissFormulaChanged
		return res, nil
	}
	if _, err := os.Stat(artifact.OutputPath); err != nil {
		res.MissReason = MissFileMissing
		return res, nil
	}

	res.Hit = true
	res.Artifact = artifact
	return res, nil
}
