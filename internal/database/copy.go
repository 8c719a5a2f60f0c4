package database

import (
	"errors"
	"fmt"
)

// CopyInvestigators copies every investigator in src into dst, for moving a
// SQLite store to PostgreSQL. Names already present in dst are skipped.
func CopyInvestigators(src, dst *Database) (copied, skipped int, err error) {
	list, err := src.ListInvestigators()
	if err != nil {
		return 0, 0, err
	}

	for _, summary := range list {
		inv, err := src.GetInvestigator(summary.ID)
		if err != nil {
			return copied, skipped, fmt.Errorf("read investigator %d: %w", summary.ID, err)
		}
		if _, err := dst.CreateInvestigator(inv); err != nil {
			if errors.Is(err, ErrInvestigatorExists) {
				skipped++
				continue
			}
			return copied, skipped, fmt.Errorf("copy investigator %d: %w", summary.ID, err)
		}
		copied++
	}
	return copied, skipped, nil
}
