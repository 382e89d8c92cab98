package library

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// SeedRow is one accepted line of a catalog seed file.
type SeedRow struct {
	Line   int
	Title  string
	Author string
	ISBN   string
}

// ParseCatalogSeed reads semicolon-delimited title;author;isbn records.
// Lines starting with '#' and blank lines are ignored. Records with the wrong
// number of fields or an invalid ISBN are returned as skip messages instead
// of failing the whole file. A header line is skipped the same way since its
// ISBN column is not numeric.
func ParseCatalogSeed(r io.Reader) ([]SeedRow, []string, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows []SeedRow
	var skipped []string

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped = append(skipped, fmt.Sprintf("line %d: %v", parseErr.StartLine, parseErr.Err))
				continue
			}
			return nil, nil, fmt.Errorf("failed to read catalog seed: %w", err)
		}

		line, _ := reader.FieldPos(0)
		if len(record) != 3 {
			skipped = append(skipped, fmt.Sprintf("line %d: expected 3 fields (title;author;isbn), got %d", line, len(record)))
			continue
		}

		isbn, err := NormalizeISBN(record[2])
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		title := strings.TrimSpace(record[0])
		if title == "" {
			skipped = append(skipped, fmt.Sprintf("line %d: %v", line, ErrTitleRequired))
			continue
		}

		rows = append(rows, SeedRow{
			Line:   line,
			Title:  title,
			Author: strings.TrimSpace(record[1]),
			ISBN:   isbn,
		})
	}

	return rows, skipped, nil
}
