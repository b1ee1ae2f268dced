// Package detector identifies the format of a text by trying each supported
// parser in a fixed order and keeping the first that succeeds.
package detector

import (
	"log/slog"
	"strings"

	"github.com/mcncl/datasniff/internal/config"
	"github.com/mcncl/datasniff/internal/errors"
	"github.com/mcncl/datasniff/internal/logging"
	"github.com/mcncl/datasniff/internal/models"
	"github.com/mcncl/datasniff/internal/parser"
)

// ParseFunc tries to read text as one format.
type ParseFunc func(text string) (models.JSONValue, error)

// Stage is one step of the detection cascade.
type Stage struct {
	Format models.DetectedFormat
	// Gate, when set, must accept the text before Parse is tried.
	Gate  func(text string) bool
	Parse ParseFunc
}

// Detector runs the detection cascade.
type Detector struct {
	caps   config.Capabilities
	logger *slog.Logger
}

// NewDetector creates a Detector. Disabled capabilities drop their stage.
func NewDetector(caps config.Capabilities, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Detector{caps: caps, logger: logger}
}

// Stages returns the cascade in evaluation order. The order decides between
// formats that accept the same text and must not change. Permissive mode only
// appends a JSON repair stage at the end, so it can rescue text no other stage
// accepts but never takes text away from a later stage.
func (d *Detector) Stages(permissive bool) []Stage {
	stages := []Stage{
		{Format: models.FormatJSON, Parse: parser.ParseJSON},
		{Format: models.FormatNDJSON, Parse: parser.ParseNDJSON},
	}
	if d.caps.YAML {
		stages = append(stages, Stage{Format: models.FormatYAML, Parse: parser.ParseYAML})
	}
	if d.caps.TOML {
		stages = append(stages, Stage{Format: models.FormatTOML, Parse: parser.ParseTOML})
	}
	if d.caps.CSV {
		stages = append(stages, Stage{Format: models.FormatCSV, Gate: looksLikeCSV, Parse: parser.ParseCSV})
	}
	stages = append(stages, Stage{Format: models.FormatMarkdownTable, Parse: parser.ParseMarkdownTable})
	if permissive {
		stages = append(stages, Stage{Format: models.FormatJSON, Parse: parser.ParseJSONRepaired})
	}
	return stages
}

// Detect returns the value and format of the first stage that accepts text.
// When every stage fails the format is FormatUnknown and the error wraps
// errors.ErrNoFormatDetected.
func (d *Detector) Detect(text string, permissive bool) (models.JSONValue, models.DetectedFormat, error) {
	for _, stage := range d.Stages(permissive) {
		if stage.Gate != nil && !stage.Gate(text) {
			d.logger.Debug("detection stage gated", "stage", stage.Format.String())
			continue
		}
		value, err := stage.Parse(text)
		if err != nil {
			d.logger.Debug("detection stage failed", "stage", stage.Format.String(), "error", err)
			continue
		}
		d.logger.Debug("detection stage matched", "stage", stage.Format.String())
		return value, stage.Format, nil
	}
	return nil, models.FormatUnknown, errors.NewDetectionError("every detection stage failed", errors.ErrNoFormatDetected)
}

// Detect runs the full cascade with every capability enabled.
func Detect(text string, permissive bool) (models.JSONValue, models.DetectedFormat, error) {
	return NewDetector(config.AllCapabilities(), nil).Detect(text, permissive)
}

// looksLikeCSV is a cheap check that lets obviously single-line or comma-free
// text skip the CSV parser.
func looksLikeCSV(text string) bool {
	return strings.Contains(text, ",") && strings.Contains(text, "\n")
}
