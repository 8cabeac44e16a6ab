package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Column headers recognized in student CSV uploads. Name is required, the
// rest default to placeholders when absent.
const (
	colName         = "Name"
	colSem1Score    = "Sem 1 Score"
	colSem1Feedback = "Sem 1 Feedback"
	colSem2Score    = "Sem 2 Score"
	colSem2Feedback = "Sem 2 Feedback"
)

// ParseStudentCSV splits a student CSV upload into one Document per row.
// Each document's text is the academic block fed to the extraction prompt.
func ParseStudentCSV(r io.Reader) ([]Document, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows may be ragged

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}
	if _, ok := index[colName]; !ok {
		return nil, ErrMissingNameColumn
	}

	field := func(row []string, col, fallback string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return fallback
		}
		if v := strings.TrimSpace(row[i]); v != "" {
			return v
		}
		return fallback
	}

	var docs []Document
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		name := field(row, colName, "Unknown Student")
		text := fmt.Sprintf(
			"- Sem 1 Score: %s\n- Sem 1 Feedback: %s\n- Sem 2 Score: %s\n- Sem 2 Feedback: %s",
			field(row, colSem1Score, "N/A"),
			field(row, colSem1Feedback, ""),
			field(row, colSem2Score, "N/A"),
			field(row, colSem2Feedback, ""),
		)

		docs = append(docs, Document{
			Name: name,
			Text: text,
			// The name participates in the digest so two students with
			// identical rows stay distinct.
			Digest: ContentDigest(name + "\n" + text),
		})
	}
	return docs, nil
}
