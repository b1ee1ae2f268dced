// Package parser holds one trial parser per supported source format. Every
// parser produces a value in the shape described by the models package.
package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	stderrors "errors" // Standard errors package
	"github.com/kaptinlin/jsonrepair"
	"github.com/mcncl/datasniff/internal/errors" // Custom errors package
	"github.com/mcncl/datasniff/internal/models"
)

// Parse decodes exactly one JSON document from reader. Numbers are kept as
// json.Number so their literal text survives re-encoding.
func Parse(reader io.Reader) (models.JSONValue, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber()

	var rootValue interface{}
	if err := decoder.Decode(&rootValue); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		var syntaxError *json.SyntaxError
		if stderrors.As(err, &syntaxError) {
			return nil, errors.NewParsingError(
				fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
				errors.ErrInvalidJSON,
			)
		}
		return nil, errors.NewParsingError("failed to decode JSON", err)
	}

	// Anything but whitespace after the first value rejects the document.
	var trailingValue interface{}
	switch err := decoder.Decode(&trailingValue); {
	case stderrors.Is(err, io.EOF):
	case err == nil:
		return nil, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	default:
		return nil, errors.NewParsingError("invalid trailing data after first JSON value", err)
	}

	return normalizeJSONValue(rootValue), nil
}

// ParseJSON parses text as a single strict JSON document.
func ParseJSON(text string) (models.JSONValue, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.NewParsingError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(text))
}

// ParseJSONRepaired runs text through jsonrepair before a strict parse. Only
// text that already opens like a JSON document is considered, so plain prose
// or YAML is never coerced into a JSON string.
func ParseJSONRepaired(text string) (models.JSONValue, error) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return nil, errors.NewParsingError("input does not open like a JSON document", errors.ErrInvalidJSON)
	}

	repaired, err := jsonrepair.JSONRepair(trimmed)
	if err != nil {
		return nil, errors.NewParsingError("failed to repair JSON", err)
	}
	return ParseJSON(repaired)
}

// normalizeJSONValue converts raw decoder output into model types
func normalizeJSONValue(val interface{}) models.JSONValue {
	switch v := val.(type) {
	case map[string]interface{}:
		obj := make(models.JSONObject, len(v))
		for key, value := range v {
			obj[key] = normalizeJSONValue(value)
		}
		return obj
	case []interface{}:
		arr := make(models.JSONArray, len(v))
		for i, value := range v {
			arr[i] = normalizeJSONValue(value)
		}
		return arr
	default:
		return v // string, json.Number, bool and nil are already model values
	}
}

// ReadFile reads raw input bytes from a file path
func ReadFile(filePath string) ([]byte, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to read file '%s'", filePath),
			err,
		)
	}
	return data, nil
}

// ReadAll reads raw input bytes from a reader such as stdin
func ReadAll(reader io.Reader) ([]byte, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.NewInputError("failed to read input", err)
	}
	return data, nil
}

// splitLines splits text on '\n', dropping a trailing '\r' from each line and
// the empty piece after a final newline.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
