package render

import "fmt"

// InvalidQualityError reports a quality string that matches neither a
// canonical tier nor a known alias.
type InvalidQualityError struct {
	Input string
}

func (e *InvalidQualityError) Error() string {
	return fmt.Sprintf("invalid quality %q (expected draft, standard, high or final, or an alias like ql/qm/qh/qk)", e.Input)
}

// UnknownAlgorithmError reports a cache or render request for an
// algorithm id that does not exist.
type UnknownAlgorithmError struct {
	AlgorithmID int64
}

func (e *UnknownAlgorithmError) Error() string {
	return fmt.Sprintf("algorithm %d not found", e.AlgorithmID)
}

// RenderFailedError wraps a renderer process failure together with the
// tail of its output.
type RenderFailedError struct {
	OutputName string
	OutputTail string
	Cause      error
}

func (e *RenderFailedError) Error() string {
	if e.OutputTail != "" {
		return fmt.Sprintf("render of %s failed: %v: %s", e.OutputName, e.Cause, e.OutputTail)
	}
	return fmt.Sprintf("render of %s failed: %v", e.OutputName, e.Cause)
}

func (e *RenderFailedError) Unwrap() error {
	return e.Cause
}
