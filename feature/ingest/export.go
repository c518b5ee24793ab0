package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"flashdeck/feature/content"
	"flashdeck/feature/content/models"
)

// exportHeader matches the spreadsheet template administrators upload, so an
// export can be edited and re-imported as-is.
var exportHeader = []string{
	"Question",
	"Answer",
	"More info",
	"Category",
	"Subcategory 1",
	"Subcategory 2",
	"Set",
	"Set Name (max 25 characters)",
	"Set Description",
	"Set order",
	"Serial",
}

// BuildCSV renders every question, enriched with its set and module metadata,
// as a CSV document.
func BuildCSV(ctx context.Context, store *content.Store) ([]byte, error) {
	questions, err := store.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("no questions to export")
	}

	sets, err := store.ListSets(ctx)
	if err != nil {
		return nil, err
	}
	setsByCode := make(map[string]models.Set, len(sets))
	for _, s := range sets {
		setsByCode[s.SetCode] = s
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}

	for _, q := range questions {
		set, ok := setsByCode[q.SetCode]

		setName := q.SetName
		setDescription := q.SetDescription
		orderToken := ""
		if ok {
			setName = set.SetName
			setDescription = set.SetDescription
			orderToken = q.ModuleCode + "." + strconv.FormatFloat(set.SetOrder, 'f', -1, 64)
		}

		record := []string{
			q.Question,
			q.Answer,
			q.MoreInfo,
			q.Category,
			q.SubCategory1,
			q.SubCategory2,
			q.SetCode,
			truncate(setName, 25),
			truncate(setDescription, 100),
			orderToken,
			q.SerialNumber,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
