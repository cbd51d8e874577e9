package resource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/gobwas/glob"
	"github.com/jedib0t/go-pretty/v6/table"
	"sigs.k8s.io/yaml"
)

// valueColumn holds rows that are not objects.
const valueColumn = "VALUE"

// view is the serialized form of a loaded resource.
type view struct {
	File      string `json:"file"`
	Name      string `json:"name,omitempty"`
	Tabular   bool   `json:"tabular"`
	MediaType string `json:"mediaType,omitempty"`
	Digest    string `json:"digest,omitempty"`
	Data      any    `json:"data"`
}

func newView(l *loaded) *view {
	return &view{
		File:      l.file,
		Name:      l.resource.Descriptor().Name,
		Tabular:   l.resource.IsTabular(),
		MediaType: l.resource.MediaType(),
		Digest:    l.resource.Digest().String(),
		Data:      l.data,
	}
}

func encodeResources(output string, columns glob.Glob, results []*loaded) (io.Reader, int64, error) {
	var data []byte
	var err error
	switch output {
	case "json":
		data, err = encodeResourcesAsNDJSON(results)
	case "yaml":
		data, err = encodeResourcesAsYAML(results)
	case "table":
		data, err = encodeResourcesAsTable(columns, results)
	default:
		err = fmt.Errorf("unknown output format: %q", output)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("encoding resources as %q failed: %w", output, err)
	}
	return bytes.NewReader(data), int64(len(data)), nil
}

func encodeResourcesAsNDJSON(results []*loaded) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	for _, result := range results {
		if err := encoder.Encode(newView(result)); err != nil {
			return nil, fmt.Errorf("encoding resource from %q failed: %w", result.file, err)
		}
	}
	return buf.Bytes(), nil
}

func encodeResourcesAsYAML(results []*loaded) ([]byte, error) {
	views := make([]*view, len(results))
	for i, result := range results {
		views[i] = newView(result)
	}
	if len(views) == 1 {
		return yaml.Marshal(views[0])
	}
	return yaml.Marshal(views)
}

// encodeResourcesAsTable renders tabular resources as tables and prints the content of other resources as is.
func encodeResourcesAsTable(columns glob.Glob, results []*loaded) ([]byte, error) {
	var buf bytes.Buffer
	for i, result := range results {
		if i > 0 {
			buf.WriteByte('\n')
		}
		var title string
		if len(results) > 1 {
			title = result.file
			if name := result.resource.Descriptor().Name; name != "" {
				title = fmt.Sprintf("%s (%s)", name, result.file)
			}
		}
		if title != "" {
			fmt.Fprintf(&buf, "# %s\n", title)
		}
		if result.resource.IsTabular() {
			rows, _ := result.data.([]any)
			renderTable(&buf, columns, rows)
			continue
		}
		if err := writePlain(&buf, result.data); err != nil {
			return nil, fmt.Errorf("encoding resource from %q failed: %w", result.file, err)
		}
	}
	return buf.Bytes(), nil
}

func renderTable(w io.Writer, columns glob.Glob, rows []any) {
	header := selectColumns(columns, rows)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	headerRow := make(table.Row, len(header))
	for i, column := range header {
		headerRow[i] = column
	}
	t.AppendHeader(headerRow)
	for _, row := range rows {
		cells := make(table.Row, len(header))
		for i, column := range header {
			cells[i] = cell(row, column)
		}
		t.AppendRow(cells)
	}
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	t.Render()
}

// selectColumns returns the sorted union of the keys of all object rows, followed by
// valueColumn if any row is not an object, limited to the columns matching the glob.
func selectColumns(columns glob.Glob, rows []any) []string {
	keys := make(map[string]struct{})
	var hasValues bool
	for _, row := range rows {
		switch row := row.(type) {
		case map[string]string:
			for key := range row {
				keys[key] = struct{}{}
			}
		case map[string]any:
			for key := range row {
				keys[key] = struct{}{}
			}
		default:
			hasValues = true
		}
	}
	header := slices.Sorted(maps.Keys(keys))
	if hasValues {
		header = append(header, valueColumn)
	}
	return slices.DeleteFunc(header, func(column string) bool {
		return !columns.Match(column)
	})
}

func cell(row any, column string) string {
	switch row := row.(type) {
	case map[string]string:
		return row[column]
	case map[string]any:
		value, ok := row[column]
		if !ok {
			return ""
		}
		return format(value)
	default:
		if column != valueColumn {
			return ""
		}
		return format(row)
	}
}

func format(value any) string {
	switch value := value.(type) {
	case nil:
		return ""
	case string:
		return value
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprint(value)
		}
		return string(data)
	}
}

// writePlain writes text as is and any other value as JSON.
func writePlain(w io.Writer, data any) error {
	if text, ok := data.(string); ok {
		if _, err := io.WriteString(w, text); err != nil {
			return err
		}
		if len(text) > 0 && text[len(text)-1] != '\n' {
			_, err := io.WriteString(w, "\n")
			return err
		}
		return nil
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
