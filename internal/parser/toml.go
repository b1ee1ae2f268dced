package parser

import (
	"github.com/mcncl/datasniff/internal/errors"
	"github.com/mcncl/datasniff/internal/models"
	"github.com/pelletier/go-toml/v2"
)

// ParseTOML parses text as a TOML document. Date and time values are carried
// as their textual form since the model has no temporal type.
func ParseTOML(text string) (models.JSONValue, error) {
	var root map[string]interface{}
	if err := toml.Unmarshal([]byte(text), &root); err != nil {
		return nil, errors.NewParsingError("TOML syntax error", err)
	}
	if root == nil {
		root = map[string]interface{}{}
	}
	return normalizeNative(root), nil
}
