package db

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	intschemas "github.com/Simonerrror/rubik-motion-lab/internal/schemas"
	"github.com/Simonerrror/rubik-motion-lab/schemas"
)

//go:embed seed_cases.json
var defaultSeedCases []byte

var seedCategoryTitles = map[string]string{
	"F2L": "First Two Layers",
	"OLL": "Orientation of the Last Layer",
	"PLL": "Permutation of the Last Layer",
}

type seedFile struct {
	Categories []seedCategorySpec `json:"categories"`
}

type seedCategorySpec struct {
	Code   string `json:"code"`
	Prefix string `json:"prefix"`
	Count  int    `json:"count"`
}

// Seed populates the catalog with the embedded default case set. It is
// idempotent: case metadata is refreshed on every run, while formulas
// and progress the user may have edited are never overwritten.
func (db *DB) Seed(ctx context.Context) error {
	return db.SeedFromJSON(ctx, defaultSeedCases)
}

// SeedFromFile seeds from an external seed declaration instead of the
// embedded default.
func (db *DB) SeedFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	return db.SeedFromJSON(ctx, data)
}

// SeedFromJSON validates the seed declaration against its schema and
// applies it inside a single transaction.
func (db *DB) SeedFromJSON(ctx context.Context, data []byte) error {
	if err := intschemas.ValidateJSONString(schemas.SeedCases, string(data)); err != nil {
		return fmt.Errorf("invalid seed file: %w", err)
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, spec := range seed.Categories {
		title, ok := seedCategoryTitles[spec.Code]
		if !ok {
			title = spec.Code
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO categories (code, title, sort_order)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (code) DO UPDATE SET title = EXCLUDED.title, sort_order = EXCLUDED.sort_order`,
			spec.Code, title, (i+1)*10,
		); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", spec.Code, err)
		}

		for n := 1; n <= spec.Count; n++ {
			caseCode := fmt.Sprintf("%s%d", spec.Prefix, n)
			if _, err := tx.Exec(ctx,
				`INSERT INTO cases (category_code, case_code, title, subgroup_title, case_number, probability_text)
				 VALUES ($1, $2, $3, $4, $5, $6)
				 ON CONFLICT (category_code, case_code) DO UPDATE SET
					title = EXCLUDED.title,
					subgroup_title = EXCLUDED.subgroup_title,
					case_number = EXCLUDED.case_number,
					probability_text = EXCLUDED.probability_text`,
				spec.Code, caseCode,
				fmt.Sprintf("%s %d", spec.Code, n),
				caseSubgroup(spec.Code, n),
				n,
				caseProbability(spec.Code, n),
			); err != nil {
				return fmt.Errorf("failed to seed case %s: %w", caseCode, err)
			}
		}
	}

	// Default algorithms are insert-only: a reseed never clobbers a
	// formula the user has since edited.
	for caseCode, formula := range knownFormulas {
		if _, err := tx.Exec(ctx,
			`INSERT INTO algorithms (case_id, name, display_name, formula)
			 SELECT id, case_code, case_code, $2 FROM cases WHERE case_code = $1
			 ON CONFLICT (case_id, name) DO NOTHING`,
			caseCode, formula,
		); err != nil {
			return fmt.Errorf("failed to seed algorithm for %s: %w", caseCode, err)
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE cases c
		 SET selected_algorithm_id = a.id
		 FROM (
			SELECT DISTINCT ON (case_id) case_id, id
			FROM algorithms
			WHERE NOT is_custom
			ORDER BY case_id, id
		 ) a
		 WHERE c.selected_algorithm_id IS NULL AND a.case_id = c.id`,
	); err != nil {
		return fmt.Errorf("failed to backfill selected algorithms: %w", err)
	}

	if err := seedReferenceSets(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}
	return nil
}

func seedReferenceSets(ctx context.Context, tx pgx.Tx) error {
	for i, set := range pllReferenceSets {
		var setID int64
		if err := tx.QueryRow(ctx,
			`INSERT INTO reference_case_sets (category_code, set_code, title, sort_order)
			 VALUES ('PLL', $1, $2, $3)
			 ON CONFLICT (category_code, set_code) DO UPDATE SET
				title = EXCLUDED.title,
				sort_order = EXCLUDED.sort_order
			 RETURNING id`,
			set.SetCode, set.Title, (i+1)*10,
		).Scan(&setID); err != nil {
			return fmt.Errorf("failed to seed reference set %s: %w", set.SetCode, err)
		}

		for j, item := range set.Items {
			if _, err := tx.Exec(ctx,
				`INSERT INTO reference_case_stats
					(set_id, case_name, probability_fraction, probability_percent_text,
					 probability_percent, states_out_of_96_text, recognition_hint, sort_order)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				 ON CONFLICT (set_id, case_name) DO UPDATE SET
					probability_fraction = EXCLUDED.probability_fraction,
					probability_percent_text = EXCLUDED.probability_percent_text,
					probability_percent = EXCLUDED.probability_percent,
					states_out_of_96_text = EXCLUDED.states_out_of_96_text,
					recognition_hint = EXCLUDED.recognition_hint,
					sort_order = EXCLUDED.sort_order`,
				setID, item.CaseName, item.ProbabilityFraction, item.ProbabilityPercent,
				percentValue(item.ProbabilityPercent), item.StatesOutOf96, item.RecognitionHint, (j+1)*10,
			); err != nil {
				return fmt.Errorf("failed to seed reference stat %s: %w", item.CaseName, err)
			}
		}
	}
	return nil
}

func caseSubgroup(category string, n int) *string {
	var groups map[string][]int
	switch category {
	case "OLL":
		groups = ollSubgroups
	case "PLL":
		groups = pllSubgroups
	default:
		return nil
	}
	for title, numbers := range groups {
		for _, num := range numbers {
			if num == n {
				t := title
				return &t
			}
		}
	}
	return nil
}

func caseProbability(category string, n int) *string {
	var p string
	switch category {
	case "OLL":
		p = "1/54"
		if override, ok := ollProbabilityOverrides[n]; ok {
			p = override
		}
	case "PLL":
		var ok bool
		if p, ok = pllProbabilityByNumber[n]; !ok {
			return nil
		}
	default:
		return nil
	}
	return &p
}

// percentValue parses "8.33%" into 8.33; returns nil when the text does
// not carry a numeric percentage.
func percentValue(text string) *float64 {
	trimmed := strings.TrimSuffix(strings.TrimSpace(text), "%")
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}
	return &v
}
