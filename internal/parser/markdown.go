package parser

import (
	"strings"

	"github.com/mcncl/datasniff/internal/errors"
	"github.com/mcncl/datasniff/internal/models"
)

// ParseMarkdownTable reads the first pipe table in text. The header is the
// first line holding a '|' that is directly followed by a line holding a '-'.
// Data rows run until the first line without a '|'; rows whose cell count
// differs from the header are skipped. Cells are always strings.
func ParseMarkdownTable(text string) (models.JSONValue, error) {
	lines := splitLines(text)

	start := -1
	for i := 0; i+1 < len(lines); i++ {
		if strings.Contains(lines[i], "|") && strings.Contains(lines[i+1], "-") {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, errors.NewParsingError("no table header found", nil)
	}

	headers := tableCells(lines[start])
	if len(headers) == 0 {
		return nil, errors.NewParsingError("table header has no cells", nil)
	}

	rows := models.JSONArray{}
	for _, line := range lines[start+2:] {
		if !strings.Contains(line, "|") {
			break
		}
		cells := tableCells(line)
		if len(cells) != len(headers) {
			continue
		}
		row := make(models.JSONObject, len(headers))
		for i, name := range headers {
			row[name] = cells[i]
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, errors.NewParsingError("table has no data rows", nil)
	}
	return rows, nil
}

// tableCells splits a row on '|' and keeps the trimmed, non-empty pieces.
func tableCells(line string) []string {
	var cells []string
	for _, part := range strings.Split(line, "|") {
		if cell := strings.TrimSpace(part); cell != "" {
			cells = append(cells, cell)
		}
	}
	return cells
}
