package parser

import (
	"encoding/csv"
	"encoding/json"
	stderrors "errors"
	"io"
	"regexp"
	"strings"

	"github.com/mcncl/datasniff/internal/errors"
	"github.com/mcncl/datasniff/internal/models"
)

var numberRegex = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// ParseCSV parses text as comma-separated rows under a header row. Each row
// becomes an object keyed by header name. Rows with a different field count
// than the header are skipped.
func ParseCSV(text string) (models.JSONValue, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.NewParsingError("CSV has no header row", errors.ErrEmptyInput)
		}
		return nil, errors.NewParsingError("CSV header error", err)
	}

	rows := models.JSONArray{}
	for {
		record, err := reader.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError("CSV syntax error", err)
		}
		if len(record) != len(header) {
			continue
		}

		row := make(models.JSONObject, len(header))
		for i, name := range header {
			row[name] = inferCell(record[i])
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// inferCell types a CSV field: JSON number literals become numbers, true and
// false become booleans, everything else stays text.
func inferCell(field string) models.JSONValue {
	switch {
	case field == "true":
		return true
	case field == "false":
		return false
	case numberRegex.MatchString(field):
		return json.Number(field)
	default:
		return field
	}
}
