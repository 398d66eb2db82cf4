package queue

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Simonerrror/rubik-motion-lab/internal/render"
)

// NoAlgorithmError reports a case-level submission for a case that has
// no algorithms to render.
type NoAlgorithmError struct {
	CaseID int64
}

func (e *NoAlgorithmError) Error() string {
	return fmt.Sprintf("case %d has no algorithms to render", e.CaseID)
}

// JobNotFoundError reports a status lookup for an unknown job id.
type JobNotFoundError struct {
	JobID uuid.UUID
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job %s not found", e.JobID)
}

// DraftRequiredError reports a high-tier submission made before the
// draft clip exists. Draft renders are quick and catch formula problems
// before the long render is paid for.
type DraftRequiredError struct {
	AlgorithmID int64
	Quality     render.Quality
}

func (e *DraftRequiredError) Error() string {
	return fmt.Sprintf("algorithm %d needs an up-to-date draft clip before a %s render", e.AlgorithmID, e.Quality)
}
