// Package converter ties the pipeline together: it strips code fences,
// detects the source format and renders the requested targets.
package converter

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/mcncl/datasniff/internal/config"
	"github.com/mcncl/datasniff/internal/detector"
	"github.com/mcncl/datasniff/internal/fence"
	"github.com/mcncl/datasniff/internal/formatter"
	"github.com/mcncl/datasniff/internal/logging"
	"github.com/mcncl/datasniff/internal/models"
)

// Options controls a single conversion.
type Options struct {
	// Targets names the output formats. Nil selects every built-in target;
	// an empty non-nil slice selects none.
	Targets []string
	// Permissive lets the JSON stage repair almost-JSON documents.
	Permissive bool
	// MaxBytes truncates the raw input before anything else when positive.
	MaxBytes int
}

// Converter runs conversions. It holds no per-call state and is safe for
// concurrent use.
type Converter struct {
	detector  *detector.Detector
	formatter *formatter.Formatter
	logger    *slog.Logger
}

// New creates a Converter from cfg. A nil cfg uses config.NewConfig().
func New(cfg *config.Config, logger *slog.Logger) *Converter {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Converter{
		detector:  detector.NewDetector(cfg.Capabilities, logger),
		formatter: formatter.NewFormatter(cfg.Capabilities, logger),
		logger:    logger,
	}
}

// OptionsFromConfig builds the per-call options carried by cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Targets:    cfg.Targets,
		Permissive: cfg.Permissive,
		MaxBytes:   cfg.MaxBytes,
	}
}

// Convert runs the pipeline over input. It never fails: input that no stage
// recognizes is echoed back with Format set to "unknown".
func (c *Converter) Convert(input []byte, opts Options) models.Result {
	if opts.MaxBytes > 0 && len(input) > opts.MaxBytes {
		c.logger.Debug("input truncated", "from", len(input), "to", opts.MaxBytes)
		input = input[:opts.MaxBytes]
	}

	original := decode(fence.Strip(input))

	if strings.TrimSpace(original) == "" {
		return models.Result{
			models.KeyFormat:     models.FormatUnknown.String(),
			models.KeyOriginal:   "",
			models.KeyBeautified: "",
			models.KeyNormal:     "",
		}
	}

	value, format, err := c.detector.Detect(original, opts.Permissive)
	if err != nil {
		c.logger.Debug("falling back to passthrough", "error", err)
		return models.Result{
			models.KeyFormat:     models.FormatUnknown.String(),
			models.KeyOriginal:   original,
			models.KeyBeautified: original,
			models.KeyNormal:     original,
		}
	}

	result := models.Result{
		models.KeyFormat:     format.String(),
		models.KeyOriginal:   original,
		models.KeyBeautified: render(formatter.Pretty, value),
		models.KeyNormal:     render(formatter.Compact, value),
	}

	targets := models.DefaultTargets()
	if opts.Targets != nil {
		targets = models.ParseTargets(opts.Targets)
	}
	for name, text := range c.formatter.FormatTargets(value, targets) {
		if _, reserved := result[name]; reserved {
			c.logger.Debug("target name collides with a result field", "target", name)
			continue
		}
		result[name] = text
	}

	c.logger.Debug("conversion complete", "format", format.String(), "targets", len(targets))
	return result
}

// Convert runs a conversion with the default configuration.
func Convert(input []byte, opts Options) models.Result {
	return New(nil, nil).Convert(input, opts)
}

// decode turns bytes into text, replacing invalid UTF-8 sequences.
func decode(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}

func render(encode func(models.JSONValue) (string, error), value models.JSONValue) string {
	text, err := encode(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return text
}
