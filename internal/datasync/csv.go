package datasync

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/at-ishikawa/recall/internal/learning"
)

const (
	csvFront   = "front"
	csvBack    = "back"
	csvSubject = "subject"
	csvFolder  = "folder"
)

// CSVHeader is the header row written by WriteCSV and expected by ReadCSV.
var CSVHeader = []string{csvFront, csvBack, csvSubject, csvFolder}

// ReadCSV parses new items of the user from CSV with a header row.
// Columns are matched by name. front is required; a non-empty back makes a
// recall item, otherwise a note. Invalid rows are returned as rowErrs and
// skipped.
func ReadCSV(r io.Reader, userID int64, now time.Time) (items []learning.Item, rowErrs []error, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("csv header > %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns[csvFront]; !ok {
		return nil, nil, fmt.Errorf("%w: csv header needs a %q column", learning.ErrInvalidInput, csvFront)
	}
	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("csv row %d > %w", row, err)
		}

		params := learning.NewItemParams{
			UserID:  userID,
			Kind:    learning.KindNote,
			Prompt:  field(record, csvFront),
			Answer:  field(record, csvBack),
			Subject: field(record, csvSubject),
		}
		if params.Answer != "" {
			params.Kind = learning.KindRecall
		}
		if folder := field(record, csvFolder); folder != "" {
			folderID, err := strconv.ParseInt(folder, 10, 64)
			if err != nil {
				rowErrs = append(rowErrs, fmt.Errorf("row %d: %w: folder %q is not a number", row, learning.ErrInvalidInput, folder))
				continue
			}
			params.FolderID = &folderID
		}

		item, err := learning.NewItem(params, now)
		if err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("row %d: %w", row, err))
			continue
		}
		items = append(items, item)
	}
	return items, rowErrs, nil
}

// WriteCSV writes the content of items with a header row. Scheduling state is
// not exported.
func WriteCSV(w io.Writer, items []learning.Item) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CSVHeader); err != nil {
		return fmt.Errorf("csv header > %w", err)
	}
	for _, item := range items {
		folder := ""
		if item.FolderID != nil {
			folder = strconv.FormatInt(*item.FolderID, 10)
		}
		if err := writer.Write([]string{item.Prompt, item.Answer, item.Subject, folder}); err != nil {
			return fmt.Errorf("csv item %d > %w", item.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
