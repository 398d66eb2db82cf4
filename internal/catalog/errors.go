package catalog

import "fmt"

// UnknownGroupError reports a request for a category code that is not in
// the catalog.
type UnknownGroupError struct {
	Group string
}

func (e *UnknownGroupError) Error() string {
	return fmt.Sprintf("unknown group %q", e.Group)
}

// CaseNotFoundError reports a request for an absent case.
type CaseNotFoundError struct {
	CaseID int64
}

func (e *CaseNotFoundError) Error() string {
	return fmt.Sprintf("case %d not found", e.CaseID)
}

// AlgorithmNotFoundError reports a request for an absent algorithm.
type AlgorithmNotFoundError struct {
	AlgorithmID int64
}

func (e *AlgorithmNotFoundError) Error() string {
	return fmt.Sprintf("algorithm %d not found", e.AlgorithmID)
}

// NotInCaseError reports an activation of an algorithm that belongs to a
// different case.
type NotInCaseError struct {
	CaseID      int64
	AlgorithmID int64
}

func (e *NotInCaseError) Error() string {
	return fmt.Sprintf("algorithm %d does not belong to case %d", e.AlgorithmID, e.CaseID)
}

// InvalidProgressError reports an unknown learning-progress status.
type InvalidProgressError struct {
	Status string
}

func (e *InvalidProgressError) Error() string {
	return fmt.Sprintf("invalid progress status %q (expected NEW, IN_PROGRESS or LEARNED)", e.Status)
}

// LastAlgorithmError reports a refusal to delete the only algorithm a
// case has left.
type LastAlgorithmError struct {
	AlgorithmID int64
	CaseID      int64
}

func (e *LastAlgorithmError) Error() string {
	return fmt.Sprintf("algorithm %d is the last one for case %d and cannot be deleted", e.AlgorithmID, e.CaseID)
}
