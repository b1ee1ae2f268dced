package parser

import (
	"github.com/mcncl/datasniff/internal/errors"
	"github.com/mcncl/datasniff/internal/models"
)

// ParseNDJSON parses each line of a multi-line text as its own JSON document.
// Lines that do not parse are skipped. At least one line must parse.
func ParseNDJSON(text string) (models.JSONValue, error) {
	lines := splitLines(text)
	if len(lines) <= 1 {
		return nil, errors.NewParsingError("NDJSON needs more than one line", errors.ErrInvalidJSON)
	}

	records := models.JSONArray{}
	for _, line := range lines {
		value, err := ParseJSON(line)
		if err != nil {
			continue
		}
		records = append(records, value)
	}

	if len(records) == 0 {
		return nil, errors.NewParsingError("no line holds a JSON value", errors.ErrInvalidJSON)
	}
	return records, nil
}
