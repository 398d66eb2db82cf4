//go:build integration

package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getTestDB connects to the database named by TEST_DATABASE_URL, applies
// the schema and seeds the catalog. Tests are skipped when the variable
// is unset.
func getTestDB(t *testing.T) *DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	database, err := Connect(ctx, url)
	require.NoError(t, err)
	t.Cleanup(database.Close)

	require.NoError(t, database.Migrate(ctx))
	require.NoError(t, database.Seed(ctx))
	return database
}

func TestSeed_Idempotent(t *testing.T) {
	database := getTestDB(t)
	ctx := context.Background()

	// A second run must not duplicate anything.
	require.NoError(t, database.Seed(ctx))

	categories, err := database.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "F2L", categories[0].Code)
	assert.Equal(t, "OLL", categories[1].Code)
	assert.Equal(t, "PLL", categories[2].Code)

	cases, err := database.ListCases(ctx, "OLL")
	require.NoError(t, err)
	assert.Len(t, cases, 57)

	cases, err = database.ListCases(ctx, "PLL")
	require.NoError(t, err)
	assert.Len(t, cases, 21)
}

func TestSeed_DefaultAlgorithmActivated(t *testing.T) {
	database := getTestDB(t)
	ctx := context.Background()

	c, err := database.GetCaseByCode(ctx, "OLL", "OLL_27")
	require.NoError(t, err)
	require.NotNil(t, c)

	require.NotNil(t, c.ActiveAlgorithmID)
	assert.Equal(t, "OLL_27", c.ActiveAlgorithmName)
	assert.Equal(t, "R U R' U R U2 R'", c.ActiveFormula)
	assert.Equal(t, "OLL 27", c.Title)
	require.NotNil(t, c.ProbabilityText)
	assert.Equal(t, "1/54", *c.ProbabilityText)
}

func TestSeed_SubgroupAndProbabilityOverrides(t *testing.T) {
	database := getTestDB(t)
	ctx := context.Background()

	c, err := database.GetCaseByCode(ctx, "OLL", "OLL_20")
	require.NoError(t, err)
	require.NotNil(t, c)
	require.NotNil(t, c.ProbabilityText)
	assert.Equal(t, "1/216", *c.ProbabilityText)
	assert.Equal(t, "No Edges Oriented Correctly", c.SubgroupTitle)
}

func TestSeed_ReferenceSets(t *testing.T) {
	database := getTestDB(t)
	ctx := context.Background()

	sets, err := database.ListReferenceSets(ctx, "PLL")
	require.NoError(t, err)
	require.Len(t, sets, 6)
	assert.Equal(t, "skip", sets[0].SetCode)
	require.NotEmpty(t, sets[0].Items)
	assert.Equal(t, "PLL Skip", sets[0].Items[0].CaseName)
	require.NotNil(t, sets[0].Items[0].ProbabilityPercent)
	assert.InDelta(t, 1.39, *sets[0].Items[0].ProbabilityPercent, 0.001)
}

func seedTestAlgorithm(t *testing.T, database *DB) *Algorithm {
	t.Helper()
	ctx := context.Background()

	c, err := database.GetCaseByCode(ctx, "OLL", "OLL_27")
	require.NoError(t, err)
	require.NotNil(t, c)

	alg, err := database.CreateAlgorithm(ctx, AlgorithmInput{
		CaseID:      c.ID,
		Name:        "Custom test " + time.Now().Format("150405.000000"),
		DisplayName: "Custom test",
		Formula:     "R U R' U'",
		IsCustom:    true,
	})
	require.NoError(t, err)
	return alg
}

func TestJobLifecycle(t *testing.T) {
	database := getTestDB(t)
	ctx := context.Background()
	alg := seedTestAlgorithm(t, database)

	job, created, err := database.CreateJobIfAbsent(ctx, alg.ID, "draft")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, JobPending, job.Status)

	// A second submission converges on the outstanding job.
	again, created, err := database.CreateJobIfAbsent(ctx, alg.ID, "draft")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, job.ID, again.ID)

	claimed, err := database.ClaimNextPendingJob(ctx)
	require.NoError(t, err)
	require.NotNil(t, claimed)
	assert.Equal(t, JobRunning, claimed.Status)
	assert.NotNil(t, claimed.StartedAt)

	require.NoError(t, database.MarkJobDone(ctx, claimed.ID, "render", "out", "media/videos/OLL/draft/out.mp4"))

	finished, err := database.GetJob(ctx, claimed.ID)
	require.NoError(t, err)
	assert.Equal(t, JobDone, finished.Status)
	assert.NotNil(t, finished.FinishedAt)

	// The key is free again once the job is terminal.
	_, created, err = database.CreateJobIfAbsent(ctx, alg.ID, "draft")
	require.NoError(t, err)
	assert.True(t, created)
}

func TestMarkJobFailed_OnlyFromRunning(t *testing.T) {
	database := getTestDB(t)
	ctx := context.Background()
	alg := seedTestAlgorithm(t, database)

	job, _, err := database.CreateJobIfAbsent(ctx, alg.ID, "high")
	require.NoError(t, err)

	// Terminal transitions require RUNNING; a PENDING job is untouched.
	require.NoError(t, database.MarkJobFailed(ctx, job.ID, "boom"))
	got, err := database.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobPending, got.Status)
}

func TestFailOrphanedJobs(t *testing.T) {
	database := getTestDB(t)
	ctx := context.Background()
	alg := seedTestAlgorithm(t, database)

	_, _, err := database.CreateJobIfAbsent(ctx, alg.ID, "standard")
	require.NoError(t, err)
	claimed, err := database.ClaimNextPendingJob(ctx)
	require.NoError(t, err)
	require.NotNil(t, claimed)

	// Fresh RUNNING jobs survive a generous threshold.
	n, err := database.FailOrphanedJobs(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)

	// A zero threshold reclaims it immediately.
	n, err = database.FailOrphanedJobs(ctx, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := database.GetJob(ctx, claimed.ID)
	require.NoError(t, err)
	assert.Equal(t, JobFailed, got.Status)
	require.NotNil(t, got.ErrorMessage)
	assert.Contains(t, *got.ErrorMessage, "orphaned")
}

func TestUpsertArtifact_GuardedByAlgorithmExistence(t *testing.T) {
	database := getTestDB(t)
	ctx := context.Background()
	alg := seedTestAlgorithm(t, database)

	written, err := database.UpsertArtifact(ctx, ArtifactInput{
		AlgorithmID: alg.ID,
		Quality:     "draft",
		OutputName:  "clip",
		OutputPath:  "media/videos/OLL/draft/clip.mp4",
		FormulaNorm: "R U R' U'",
	})
	require.NoError(t, err)
	assert.True(t, written)

	_, _, err = database.DeleteAlgorithm(ctx, alg.ID)
	require.NoError(t, err)

	// A render finishing after deletion writes nothing.
	written, err = database.UpsertArtifact(ctx, ArtifactInput{
		AlgorithmID: alg.ID,
		Quality:     "draft",
		OutputName:  "clip",
		OutputPath:  "media/videos/OLL/draft/clip.mp4",
		FormulaNorm: "R U R' U'",
	})
	require.NoError(t, err)
	assert.False(t, written)
}

func TestDeleteAlgorithm_RefusesLastAlgorithm(t *testing.T) {
	database := getTestDB(t)
	ctx := context.Background()

	// A fresh case whose only algorithm is the one we try to delete.
	code := "F2L_LAST_" + time.Now().Format("150405.000000")
	caseID, err := database.CreateCaseIfNeeded(ctx, "F2L", code, "Last algorithm", "", nil)
	require.NoError(t, err)

	only, err := database.CreateAlgorithm(ctx, AlgorithmInput{
		CaseID:      caseID,
		Name:        "Custom last",
		DisplayName: "Custom last",
		Formula:     "R U R' U'",
		IsCustom:    true,
	})
	require.NoError(t, err)

	_, _, err = database.DeleteAlgorithm(ctx, only.ID)
	require.ErrorIs(t, err, ErrLastAlgorithm)

	still, err := database.GetAlgorithm(ctx, only.ID)
	require.NoError(t, err)
	assert.NotNil(t, still)
}

func TestNextCustomSeq_NeverRewinds(t *testing.T) {
	database := getTestDB(t)
	ctx := context.Background()

	c, err := database.GetCaseByCode(ctx, "OLL", "OLL_27")
	require.NoError(t, err)
	require.NotNil(t, c)

	first, err := database.NextCustomSeq(ctx, c.ID)
	require.NoError(t, err)
	second, err := database.NextCustomSeq(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, first+1, second)

	// Unknown case draws nothing.
	seq, err := database.NextCustomSeq(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, seq)
}

func TestDeleteAlgorithm_RepointsSelection(t *testing.T) {
	database := getTestDB(t)
	ctx := context.Background()

	c, err := database.GetCaseByCode(ctx, "PLL", "PLL_1")
	require.NoError(t, err)
	require.NotNil(t, c)
	require.NotNil(t, c.ActiveAlgorithmID)
	originalActive := *c.ActiveAlgorithmID

	custom, err := database.CreateAlgorithm(ctx, AlgorithmInput{
		CaseID:      c.ID,
		Name:        "Custom repoint " + time.Now().Format("150405.000000"),
		DisplayName: "Custom repoint",
		Formula:     "R U' R U R U R U' R' U' R2",
		IsCustom:    true,
		Activate:    true,
	})
	require.NoError(t, err)

	paths, found, err := database.DeleteAlgorithm(ctx, custom.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, paths)

	after, err := database.GetCaseByCode(ctx, "PLL", "PLL_1")
	require.NoError(t, err)
	require.NotNil(t, after.ActiveAlgorithmID)
	assert.Equal(t, originalActive, *after.ActiveAlgorithmID)
}
