package leads

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Importer ingests leads from an uploaded CSV file.
//
// Expected header row: phone[,company][,contact] (any column order,
// case-insensitive). Rows without a phone value are skipped, not rejected;
// a partially valid file still imports its good rows.
type Importer struct {
	repo Repository
}

func NewImporter(repo Repository) *Importer {
	return &Importer{repo: repo}
}

var ErrMissingPhoneColumn = errors.New("leads: csv is missing a phone column")

// ImportCSV parses the CSV stream and creates one pending lead per usable row.
// promptName is attached to every created lead; empty means the default script.
func (im *Importer) ImportCSV(ctx context.Context, r io.Reader, promptName string) (int, error) {
	if promptName == "" {
		promptName = "default"
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("leads: read csv header: %w", err)
	}

	phoneCol, companyCol, contactCol := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "phone":
			phoneCol = i
		case "company":
			companyCol = i
		case "contact":
			contactCol = i
		}
	}
	if phoneCol < 0 {
		return 0, ErrMissingPhoneColumn
	}

	created := 0
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return created, fmt.Errorf("leads: read csv row: %w", err)
		}

		phone := fieldAt(row, phoneCol)
		if phone == "" {
			continue
		}

		if _, err := im.repo.Create(ctx, NewLead{
			Phone:      phone,
			Company:    fieldAt(row, companyCol),
			Contact:    fieldAt(row, contactCol),
			PromptName: promptName,
		}); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func fieldAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
