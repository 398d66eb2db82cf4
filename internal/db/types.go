package db

import (
	"time"

	"github.com/google/uuid"
)

// Learning progress statuses for an algorithm.
const (
	ProgressNew        = "NEW"
	ProgressInProgress = "IN_PROGRESS"
	ProgressLearned    = "LEARNED"
)

// Render job lifecycle statuses. A job moves PENDING -> RUNNING and then
// to exactly one of DONE or FAILED; terminal states are immutable.
const (
	JobPending = "PENDING"
	JobRunning = "RUNNING"
	JobDone    = "DONE"
	JobFailed  = "FAILED"
)

// Category is a named group of cases (F2L, OLL, PLL). Immutable after
// seeding.
type Category struct {
	ID        int64  `json:"id"`
	Code      string `json:"code"`
	Title     string `json:"title"`
	Enabled   bool   `json:"enabled"`
	SortOrder int    `json:"sort_order"`
}

// Case is one recognizable cube pattern inside a category.
type Case struct {
	ID                  int64   `json:"id"`
	CategoryCode        string  `json:"group"`
	CaseCode            string  `json:"case_code"`
	Title               string  `json:"title"`
	SubgroupTitle       string  `json:"subgroup_title"`
	CaseNumber          *int    `json:"case_number,omitempty"`
	ProbabilityText     *string `json:"probability_text,omitempty"`
	OrientationFront    string  `json:"orientation_front"`
	OrientationAUF      int     `json:"orientation_auf"`
	RecognizerSVGPath   *string `json:"recognizer_svg_path,omitempty"`
	RecognizerPNGPath   *string `json:"recognizer_png_path,omitempty"`
	SelectedAlgorithmID *int64  `json:"selected_algorithm_id,omitempty"`

	// Resolved active algorithm (explicit selection, else the first
	// non-custom algorithm). Empty when the case has no algorithms.
	ActiveAlgorithmID   *int64 `json:"active_algorithm_id,omitempty"`
	ActiveAlgorithmName string `json:"active_algorithm_name,omitempty"`
	ActiveFormula       string `json:"active_formula,omitempty"`
	ActiveStatus        string `json:"active_status,omitempty"`
}

// Algorithm is one concrete move formula belonging to exactly one case.
// Name is the stable internal storage identifier, never regenerated once
// assigned; DisplayName is the user-facing label.
type Algorithm struct {
	ID             int64     `json:"id"`
	CaseID         int64     `json:"case_id"`
	Name           string    `json:"name"`
	DisplayName    string    `json:"display_name"`
	Formula        string    `json:"formula"`
	ProgressStatus string    `json:"status"`
	IsCustom       bool      `json:"is_custom"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Joined case context, present on reads.
	Group    string `json:"group"`
	CaseCode string `json:"case_code"`
}

// Artifact is a successful render output for one (algorithm, quality)
// pair. At most one row exists per pair; re-renders replace it.
type Artifact struct {
	ID          int64     `json:"id"`
	AlgorithmID int64     `json:"algorithm_id"`
	Quality     string    `json:"quality"`
	OutputName  string    `json:"output_name"`
	OutputPath  string    `json:"output_path"`
	FormulaNorm string    `json:"formula_norm"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ArtifactInput carries the fields written on artifact upsert.
type ArtifactInput struct {
	AlgorithmID int64
	Quality     string
	OutputName  string
	OutputPath  string
	FormulaNorm string
}

// Job is one tracked request to produce an artifact.
type Job struct {
	ID           uuid.UUID  `json:"id"`
	AlgorithmID  int64      `json:"algorithm_id"`
	Quality      string     `json:"quality"`
	Status       string     `json:"status"`
	PlanAction   *string    `json:"plan_action,omitempty"`
	OutputName   *string    `json:"output_name,omitempty"`
	OutputPath   *string    `json:"output_path,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// ReferenceSet groups recognition/probability reference rows for a
// category.
type ReferenceSet struct {
	ID        int64           `json:"id"`
	Category  string          `json:"category"`
	SetCode   string          `json:"set_code"`
	Title     string          `json:"title"`
	SortOrder int             `json:"sort_order"`
	Items     []ReferenceStat `json:"items"`
}

// ReferenceStat is a single reference row inside a set.
type ReferenceStat struct {
	ID                     int64    `json:"id"`
	CaseName               string   `json:"case_name"`
	ProbabilityFraction    string   `json:"probability_fraction"`
	ProbabilityPercentText string   `json:"probability_percent_text"`
	ProbabilityPercent     *float64 `json:"probability_percent,omitempty"`
	StatesOutOf96Text      string   `json:"states_out_of_96_text"`
	RecognitionHint        string   `json:"recognition_hint"`
	SortOrder              int      `json:"sort_order"`
}
