package db

import (
	"context"
	"fmt"
)

// ListReferenceSets retrieves the recognition/probability reference sets
// for one category, with their rows grouped in display order
func (db *DB) ListReferenceSets(ctx context.Context, category string) ([]ReferenceSet, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT
			s.id, s.category_code, s.set_code, s.title, s.sort_order,
			st.id, st.case_name, st.probability_fraction,
			st.probability_percent_text, st.probability_percent,
			st.states_out_of_96_text, st.recognition_hint, st.sort_order
		 FROM reference_case_sets s
		 LEFT JOIN reference_case_stats st ON st.set_id = s.id
		 WHERE s.category_code = $1
		 ORDER BY s.sort_order, st.sort_order`,
		category,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reference sets: %w", err)
	}
	defer rows.Close()

	var sets []ReferenceSet
	index := map[int64]int{}
	for rows.Next() {
		var (
			set      ReferenceSet
			statID   *int64
			caseName, fraction, percentText, states, hint *string
			percent  *float64
			statSort *int
		)
		if err := rows.Scan(
			&set.ID, &set.Category, &set.SetCode, &set.Title, &set.SortOrder,
			&statID, &caseName, &fraction, &percentText, &percent,
			&states, &hint, &statSort,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reference row: %w", err)
		}

		pos, seen := index[set.ID]
		if !seen {
			set.Items = []ReferenceStat{}
			sets = append(sets, set)
			pos = len(sets) - 1
			index[set.ID] = pos
		}

		if statID != nil {
			stat := ReferenceStat{ID: *statID, ProbabilityPercent: percent}
			if caseName != nil {
				stat.CaseName = *caseName
			}
			if fraction != nil {
				stat.ProbabilityFraction = *fraction
			}
			if percentText != nil {
				stat.ProbabilityPercentText = *percentText
			}
			if states != nil {
				stat.StatesOutOf96Text = *states
			}
			if hint != nil {
				stat.RecognitionHint = *hint
			}
			if statSort != nil {
				stat.SortOrder = *statSort
			}
			sets[pos].Items = append(sets[pos].Items, stat)
		}
	}
	return sets, rows.Err()
}
