// Package catalog exposes the algorithm catalog: categories, cases,
// their algorithms and the learning progress attached to them.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/Simonerrror/rubik-motion-lab/internal/db"
	"github.com/Simonerrror/rubik-motion-lab/internal/formula"
)

// Store is the slice of the database the catalog needs. *db.DB
// satisfies it.
type Store interface {
	ListCategories(ctx context.Context) ([]db.Category, error)
	CategoryExists(ctx context.Context, code string) (bool, error)

	ListCases(ctx context.Context, group string) ([]db.Case, error)
	GetCase(ctx context.Context, caseID int64) (*db.Case, error)
	CreateCaseIfNeeded(ctx context.Context, group, caseCode, title, subgroupTitle string, caseNumber *int) (int64, error)
	SetSelectedAlgorithm(ctx context.Context, caseID, algorithmID int64) (bool, error)

	GetAlgorithm(ctx context.Context, algorithmID int64) (*db.Algorithm, error)
	ListAlgorithms(ctx context.Context, group string) ([]db.Algorithm, error)
	ListCaseAlgorithms(ctx context.Context, caseID int64) ([]db.Algorithm, error)
	CreateAlgorithm(ctx context.Context, input db.AlgorithmInput) (*db.Algorithm, error)
	NextCustomSeq(ctx context.Context, caseID int64) (int, error)
	SetProgressStatus(ctx context.Context, algorithmID int64, status string) (bool, error)
	UpdateAlgorithmFormula(ctx context.Context, algorithmID int64, formulaText string) (bool, error)
	DeleteAlgorithm(ctx context.Context, algorithmID int64) ([]string, bool, error)

	ListReferenceSets(ctx context.Context, category string) ([]db.ReferenceSet, error)
}

// Service wraps the store with catalog-level rules: formula validation,
// custom-algorithm naming, activation and deletion constraints.
type Service struct {
	Store  Store
	Logger *zap.Logger
}

// ListCategories returns all categories in display order.
func (s *Service) ListCategories(ctx context.Context) ([]db.Category, error) {
	return s.Store.ListCategories(ctx)
}

// ListCases returns the cases of one group with their resolved active
// algorithms.
func (s *Service) ListCases(ctx context.Context, group string) ([]db.Case, error) {
	if err := s.checkGroup(ctx, group); err != nil {
		return nil, err
	}
	return s.Store.ListCases(ctx, group)
}

// GetCase returns one case with its algorithms.
func (s *Service) GetCase(ctx context.Context, caseID int64) (*db.Case, []db.Algorithm, error) {
	cs, err := s.Store.GetCase(ctx, caseID)
	if err != nil {
		return nil, nil, err
	}
	if cs == nil {
		return nil, nil, &CaseNotFoundError{CaseID: caseID}
	}
	algorithms, err := s.Store.ListCaseAlgorithms(ctx, caseID)
	if err != nil {
		return nil, nil, err
	}
	return cs, algorithms, nil
}

// ListAlgorithms returns algorithms, optionally filtered by group
// ("ALL" or empty means every group).
func (s *Service) ListAlgorithms(ctx context.Context, group string) ([]db.Algorithm, error) {
	if group != "" && group != "ALL" {
		if err := s.checkGroup(ctx, group); err != nil {
			return nil, err
		}
	}
	return s.Store.ListAlgorithms(ctx, group)
}

// GetAlgorithm returns one algorithm with its case context.
func (s *Service) GetAlgorithm(ctx context.Context, algorithmID int64) (*db.Algorithm, error) {
	alg, err := s.Store.GetAlgorithm(ctx, algorithmID)
	if err != nil {
		return nil, err
	}
	if alg == nil {
		return nil, &AlgorithmNotFoundError{AlgorithmID: algorithmID}
	}
	return alg, nil
}

// ActivateAlgorithm makes an algorithm the active one for its case.
func (s *Service) ActivateAlgorithm(ctx context.Context, caseID, algorithmID int64) error {
	ok, err := s.Store.SetSelectedAlgorithm(ctx, caseID, algorithmID)
	if err != nil {
		return err
	}
	if ok {
		s.Logger.Info("algorithm activated",
			zap.Int64("case_id", caseID),
			zap.Int64("algorithm_id", algorithmID),
		)
		return nil
	}

	cs, err := s.Store.GetCase(ctx, caseID)
	if err != nil {
		return err
	}
	if cs == nil {
		return &CaseNotFoundError{CaseID: caseID}
	}
	return &NotInCaseError{CaseID: caseID, AlgorithmID: algorithmID}
}

// CustomAlgorithmInput carries a user-supplied algorithm.
type CustomAlgorithmInput struct {
	CaseID      int64
	Formula     string
	DisplayName string // optional; defaults to the generated name
	Activate    bool
}

// CreateCustomAlgorithm validates the formula and stores it under a
// generated "Custom N" name. The name is the stable storage identifier
// and is never reused within a case even after deletions.
func (s *Service) CreateCustomAlgorithm(ctx context.Context, input CustomAlgorithmInput) (*db.Algorithm, error) {
	if _, err := formula.NormalizeText(input.Formula); err != nil {
		return nil, err
	}

	cs, err := s.Store.GetCase(ctx, input.CaseID)
	if err != nil {
		return nil, err
	}
	if cs == nil {
		return nil, &CaseNotFoundError{CaseID: input.CaseID}
	}

	name, err := s.nextCustomName(ctx, input.CaseID)
	if err != nil {
		return nil, err
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = name
	}

	alg, err := s.Store.CreateAlgorithm(ctx, db.AlgorithmInput{
		CaseID:      input.CaseID,
		Name:        name,
		DisplayName: displayName,
		Formula:     strings.TrimSpace(input.Formula),
		IsCustom:    true,
		Activate:    input.Activate,
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("custom algorithm created",
		zap.Int64("case_id", input.CaseID),
		zap.Int64("algorithm_id", alg.ID),
		zap.String("name", alg.Name),
	)
	return alg, nil
}

// StandaloneAlgorithmInput carries an algorithm targeted at a case by
// code rather than id. The case is created when it does not exist yet.
type StandaloneAlgorithmInput struct {
	Group       string
	CaseCode    string
	Title       string // optional; defaults to the case code
	Formula     string
	DisplayName string
	Activate    bool
}

// CreateStandaloneAlgorithm stores a custom algorithm under a case
// addressed by (group, case code), creating the case first when needed.
func (s *Service) CreateStandaloneAlgorithm(ctx context.Context, input StandaloneAlgorithmInput) (*db.Algorithm, error) {
	if err := s.checkGroup(ctx, input.Group); err != nil {
		return nil, err
	}
	if _, err := formula.NormalizeText(input.Formula); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = input.CaseCode
	}
	caseID, err := s.Store.CreateCaseIfNeeded(ctx, input.Group, input.CaseCode, title, "", nil)
	if err != nil {
		return nil, err
	}

	return s.CreateCustomAlgorithm(ctx, CustomAlgorithmInput{
		CaseID:      caseID,
		Formula:     input.Formula,
		DisplayName: input.DisplayName,
		Activate:    input.Activate,
	})
}

// UpdateFormula replaces an algorithm's formula after validating it.
// Existing clips keep their recorded normalization and simply stop being
// cache hits.
func (s *Service) UpdateFormula(ctx context.Context, algorithmID int64, formulaText string) error {
	if _, err := formula.NormalizeText(formulaText); err != nil {
		return err
	}
	ok, err := s.Store.UpdateAlgorithmFormula(ctx, algorithmID, strings.TrimSpace(formulaText))
	if err != nil {
		return err
	}
	if !ok {
		return &AlgorithmNotFoundError{AlgorithmID: algorithmID}
	}
	return nil
}

// SetProgress updates an algorithm's learning progress.
func (s *Service) SetProgress(ctx context.Context, algorithmID int64, status string) error {
	switch status {
	case db.ProgressNew, db.ProgressInProgress, db.ProgressLearned:
	default:
		return &InvalidProgressError{Status: status}
	}
	ok, err := s.Store.SetProgressStatus(ctx, algorithmID, status)
	if err != nil {
		return err
	}
	if !ok {
		return &AlgorithmNotFoundError{AlgorithmID: algorithmID}
	}
	return nil
}

// DeleteAlgorithm removes an algorithm and purges its clips from disk.
// The last remaining algorithm of a case cannot be deleted; demote or
// replace it instead. The store enforces that guard inside the
// deletion transaction, so concurrent deletions cannot empty a case.
func (s *Service) DeleteAlgorithm(ctx context.Context, algorithmID int64) error {
	alg, err := s.Store.GetAlgorithm(ctx, algorithmID)
	if err != nil {
		return err
	}
	if alg == nil {
		return &AlgorithmNotFoundError{AlgorithmID: algorithmID}
	}

	paths, found, err := s.Store.DeleteAlgorithm(ctx, algorithmID)
	if errors.Is(err, db.ErrLastAlgorithm) {
		return &LastAlgorithmError{AlgorithmID: algorithmID, CaseID: alg.CaseID}
	}
	if err != nil {
		return err
	}
	if !found {
		return &AlgorithmNotFoundError{AlgorithmID: algorithmID}
	}

	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.Logger.Warn("failed to purge clip",
				zap.String("path", path),
				zap.Error(err),
			)
		}
	}

	s.Logger.Info("algorithm deleted",
		zap.Int64("algorithm_id", algorithmID),
		zap.Int("purged_clips", len(paths)),
	)
	return nil
}

// ListReferenceSets returns the recognition/probability reference for a
// group.
func (s *Service) ListReferenceSets(ctx context.Context, group string) ([]db.ReferenceSet, error) {
	if err := s.checkGroup(ctx, group); err != nil {
		return nil, err
	}
	return s.Store.ListReferenceSets(ctx, group)
}

func (s *Service) checkGroup(ctx context.Context, group string) error {
	ok, err := s.Store.CategoryExists(ctx, group)
	if err != nil {
		return err
	}
	if !ok {
		return &UnknownGroupError{Group: group}
	}
	return nil
}

// nextCustomName draws the next "Custom N" name from the case's
// persistent counter. The counter never rewinds, so a number freed by
// deletion is never handed out again.
func (s *Service) nextCustomName(ctx context.Context, caseID int64) (string, error) {
	seq, err := s.Store.NextCustomSeq(ctx, caseID)
	if err != nil {
		return "", err
	}
	if seq == 0 {
		return "", &CaseNotFoundError{CaseID: caseID}
	}
	return fmt.Sprintf("Custom %d", seq), nil
}
