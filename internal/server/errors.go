package server

import (
	"errors"
	"net/http"

	"github.com/Simonerrror/rubik-motion-lab/internal/catalog"
	"github.com/Simonerrror/rubik-motion-lab/internal/formula"
	"github.com/Simonerrror/rubik-motion-lab/internal/queue"
	"github.com/Simonerrror/rubik-motion-lab/internal/render"
)

// HTTPStatus returns the appropriate HTTP status code for a service
// error.
func HTTPStatus(err error) int {
	var (
		parseErr       *formula.ParseError
		qualityErr     *render.InvalidQualityError
		progressErr    *catalog.InvalidProgressError
		groupErr       *catalog.UnknownGroupError
		caseErr        *catalog.CaseNotFoundError
		algorithmErr   *catalog.AlgorithmNotFoundError
		unknownAlgErr  *render.UnknownAlgorithmError
		jobErr         *queue.JobNotFoundError
		notInCaseErr   *catalog.NotInCaseError
		lastErr        *catalog.LastAlgorithmError
		noAlgorithmErr *queue.NoAlgorithmError
		draftErr       *queue.DraftRequiredError
	)

	switch {
	case errors.As(err, &parseErr),
		errors.As(err, &qualityErr),
		errors.As(err, &progressErr):
		return http.StatusBadRequest
	case errors.As(err, &groupErr),
		errors.As(err, &caseErr),
		errors.As(err, &algorithmErr),
		errors.As(err, &unknownAlgErr),
		errors.As(err, &jobErr):
		return http.StatusNotFound
	case errors.As(err, &notInCaseErr),
		errors.As(err, &lastErr),
		errors.As(err, &noAlgorithmErr),
		errors.As(err, &draftErr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
