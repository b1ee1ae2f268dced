package errors_test

import (
	stderrors "errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/mcncl/datasniff/internal/config"
	"github.com/mcncl/datasniff/internal/detector"
	"github.com/mcncl/datasniff/internal/errors"
	"github.com/mcncl/datasniff/internal/formatter"
	"github.com/mcncl/datasniff/internal/models"
	"github.com/mcncl/datasniff/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	err := errors.NewSerializeError("CSV needs an array of objects", errors.ErrIncompatibleShape)
	assert.Equal(t, "serialize: CSV needs an array of objects: value shape is not representable in target format", err.Error())

	err = errors.NewDetectionError("every detection stage failed", nil)
	assert.Equal(t, "detection: every detection stage failed", err.Error())
}

// Each case drives a real failure through the package that raises it and
// checks the category, the wrapped sentinel and the text the CLI prints.
func TestErrorsFromPipeline(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.json")

	tests := []struct {
		name     string
		run      func() error
		category errors.ErrorType
		sentinel error
		message  string
	}{
		{
			name: "nothing detected",
			run: func() error {
				_, _, err := detector.Detect(`{"a": 1, "b": 2`, false)
				return err
			},
			category: errors.ErrorTypeDetection,
			sentinel: errors.ErrNoFormatDetected,
			message:  "Detection error: every detection stage failed",
		},
		{
			name: "missing input file",
			run: func() error {
				_, err := parser.ReadFile(missing)
				return err
			},
			category: errors.ErrorTypeInput,
			sentinel: errors.ErrFileNotFound,
			message:  fmt.Sprintf("Input error: file '%s' not found", missing),
		},
		{
			name: "blank file path",
			run: func() error {
				_, err := parser.ReadFile(" ")
				return err
			},
			category: errors.ErrorTypeInput,
			sentinel: errors.ErrInvalidFilePath,
			message:  "Input error: file path is empty",
		},
		{
			name: "second JSON document",
			run: func() error {
				_, err := parser.ParseJSON(`{"a":1} {"b":2}`)
				return err
			},
			category: errors.ErrorTypeParsing,
			sentinel: errors.ErrMultipleJSON,
		},
		{
			name: "object rendered as CSV",
			run: func() error {
				_, err := formatter.CSV(models.JSONObject{"a": "x"})
				return err
			},
			category: errors.ErrorTypeSerialize,
			sentinel: errors.ErrIncompatibleShape,
			message:  "Serialization error: CSV needs an array of objects",
		},
		{
			name: "disabled target",
			run: func() error {
				caps := config.AllCapabilities()
				caps.YAML = false
				_, err := formatter.NewFormatter(caps, nil).Format("x", models.ParseTarget("yaml"))
				return err
			},
			category: errors.ErrorTypeSerialize,
			sentinel: errors.ErrTargetUnavailable,
			message:  "Serialization error: target 'yaml' is not available",
		},
		{
			name: "negative byte limit",
			run: func() error {
				cfg := config.NewConfig()
				cfg.MaxBytes = -1
				return cfg.Validate()
			},
			category: errors.ErrorTypeConfig,
			message:  "Configuration error: max_bytes must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)

			assert.True(t, stderrors.Is(err, &errors.AppError{Type: tt.category}), "category %s", tt.category)
			if tt.sentinel != nil {
				assert.True(t, stderrors.Is(err, tt.sentinel))
			}
			if tt.message != "" {
				assert.Equal(t, tt.message, errors.UserFriendlyError(err))
			}
		})
	}
}

func TestUserFriendlyError_Sentinels(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{errors.ErrNoInput, "Error: No input provided. Please specify a file with -i or pipe data to stdin."},
		{fmt.Errorf("reading stdin: %w", errors.ErrEmptyInput), "Error: The input is empty. Please provide some structured data."},
		{errors.ErrNoFormatDetected, "Error: The input did not match any supported format."},
		{stderrors.New("disk on fire"), "Error: disk on fire"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.expected, errors.UserFriendlyError(tt.err))
		})
	}
}

func TestAppError_IsMatchesCategoryOnly(t *testing.T) {
	err := errors.NewParsingError("TOML syntax error", nil)

	assert.True(t, stderrors.Is(err, &errors.AppError{Type: errors.ErrorTypeParsing, Message: "other"}))
	assert.False(t, stderrors.Is(err, &errors.AppError{Type: errors.ErrorTypeDetection}))
	assert.False(t, stderrors.Is(err, errors.ErrInvalidJSON))
}
