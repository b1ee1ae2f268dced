package parser

import (
	stderrors "errors"
	"io"
	"strings"

	"github.com/mcncl/datasniff/internal/errors"
	"github.com/mcncl/datasniff/internal/models"
	"gopkg.in/yaml.v3"
)

// ParseYAML parses text as a single YAML document. A stream holding more than
// one document is rejected.
func ParseYAML(text string) (models.JSONValue, error) {
	decoder := yaml.NewDecoder(strings.NewReader(text))

	var root interface{}
	if err := decoder.Decode(&root); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.NewParsingError("no YAML document found", errors.ErrEmptyInput)
		}
		return nil, errors.NewParsingError("YAML syntax error", err)
	}

	var next interface{}
	if err := decoder.Decode(&next); !stderrors.Is(err, io.EOF) {
		if err == nil {
			return nil, errors.NewParsingError("multiple YAML documents found", nil)
		}
		return nil, errors.NewParsingError("invalid trailing YAML document", err)
	}

	return normalizeNative(root), nil
}
