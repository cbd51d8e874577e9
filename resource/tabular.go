package resource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"ocm.software/datapackage/descriptor"
	"ocm.software/datapackage/fetch"
)

// TabularResource is a resource whose content is a sequence of rows.
// A row is either a map of column name to cell text (CSV) or any JSON value (JSON array).
type TabularResource struct {
	*Resource
}

// NewTabular loads a TabularResource for d. If the content is not tabular, a *TypeError is returned.
func NewTabular(ctx context.Context, d *descriptor.Descriptor, defaultBasePath string, opts ...Option) (*TabularResource, error) {
	attempt := tryTabular(ctx, d, defaultBasePath, opts)
	if attempt.outcome != outcomeTabular {
		return nil, attempt.err
	}
	return attempt.resource, nil
}

// Rows returns the content as a list of rows.
func (t *TabularResource) Rows(ctx context.Context) ([]any, error) {
	data, err := t.Data(ctx)
	if err != nil {
		return nil, err
	}
	if rows, ok := data.([]any); ok {
		return rows, nil
	}
	value := reflect.ValueOf(data)
	rows := make([]any, value.Len())
	for i := range rows {
		rows[i] = value.Index(i).Interface()
	}
	return rows, nil
}

// parseTabular interprets textual content as a JSON array or CSV and
// verifies that the result is a sequence.
func parseTabular(content *fetch.Content) (any, error) {
	var value any
	if content != nil {
		value = content.Value
	}
	var cause error
	if text, ok := value.(string); ok {
		value, cause = parseText(text)
	}
	if value != nil {
		switch reflect.TypeOf(value).Kind() {
		case reflect.Slice, reflect.Array:
			return value, nil
		}
	}
	return nil, &TypeError{Expected: tabularKinds, Actual: fmt.Sprintf("%T", value), Err: cause}
}

// parseText parses JSON first and falls back to CSV.
// Text that is CSV without any data row results in nil.
// Text that is neither returns the CSV error, which parseTabular reports as *TypeError.
func parseText(text string) (any, error) {
	if value, err := descriptor.UnmarshalValue([]byte(text)); err == nil {
		return value, nil
	}
	rows, err := parseCSV(text)
	if err != nil {
		return nil, fmt.Errorf("could not parse data as JSON or CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows, nil
}

// parseCSV reads text as CSV whose first record names the columns.
// Every row carries exactly the header's columns: missing trailing cells
// are set to "" and cells beyond the header are dropped, so rows never
// contain nil cells or an unnamed column.
func parseCSV(text string) ([]any, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rows []any
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]string, len(header))
		for i, column := range header {
			if i < len(record) {
				row[column] = record[i]
			} else {
				row[column] = ""
			}
		}
		rows = append(rows, row)
	}
}
