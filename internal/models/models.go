package models

import (
	"encoding/json"
	"strings"

	"github.com/iancoleman/strcase"
)

// JSONValue is a generic type to represent any pivot value.
// It holds nil, bool, json.Number, string, JSONArray or JSONObject.
type JSONValue interface{}

// JSONObject represents an object, which is a map of strings to JSONValues.
type JSONObject map[string]JSONValue

// JSONArray represents an ordered sequence of JSONValues.
type JSONArray []JSONValue

// Kind identifies which variant a JSONValue holds.
type Kind int

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// KindOf reports the variant held by v. Values outside the model report KindInvalid.
func KindOf(v JSONValue) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case json.Number:
		return KindNumber
	case string:
		return KindString
	case JSONArray:
		return KindArray
	case JSONObject:
		return KindObject
	default:
		return KindInvalid
	}
}

// DetectedFormat tags the source format recognized by the detector.
type DetectedFormat string

const (
	FormatUnknown       DetectedFormat = "unknown"
	FormatJSON          DetectedFormat = "json"
	FormatNDJSON        DetectedFormat = "ndjson"
	FormatYAML          DetectedFormat = "yaml"
	FormatTOML          DetectedFormat = "toml"
	FormatCSV           DetectedFormat = "csv"
	FormatMarkdownTable DetectedFormat = "markdown_table"
)

func (f DetectedFormat) String() string {
	return string(f)
}

// TargetKind is the closed set of output formats, plus Other for passthrough names.
type TargetKind int

const (
	TargetOther TargetKind = iota
	TargetJSON
	TargetYAML
	TargetTOML
	TargetCSV
	TargetMarkdownTable
)

// Target is a requested output serialization. Name is the key it occupies in a Result.
type Target struct {
	Kind TargetKind
	Name string
}

var targetNames = map[string]TargetKind{
	"json":           TargetJSON,
	"yaml":           TargetYAML,
	"toml":           TargetTOML,
	"csv":            TargetCSV,
	"markdown_table": TargetMarkdownTable,
	"md":             TargetMarkdownTable,
}

var canonicalNames = map[TargetKind]string{
	TargetJSON:          "json",
	TargetYAML:          "yaml",
	TargetTOML:          "toml",
	TargetCSV:           "csv",
	TargetMarkdownTable: "markdown_table",
}

// ParseTarget resolves a requested target name. Matching is case-insensitive and
// tolerates camel or kebab spellings ("MarkdownTable", "markdown-table").
// Unrecognized names become TargetOther and keep the trimmed name as given.
func ParseTarget(name string) Target {
	trimmed := strings.TrimSpace(name)
	lower := strings.ToLower(trimmed)

	kind, ok := targetNames[lower]
	if !ok {
		kind, ok = targetNames[strcase.ToSnake(trimmed)]
	}
	if !ok {
		return Target{Kind: TargetOther, Name: trimmed}
	}
	return Target{Kind: kind, Name: canonicalNames[kind]}
}

// ParseTargets resolves each name in order.
func ParseTargets(names []string) []Target {
	targets := make([]Target, 0, len(names))
	for _, name := range names {
		targets = append(targets, ParseTarget(name))
	}
	return targets
}

// DefaultTargets returns every closed-set target in canonical order.
func DefaultTargets() []Target {
	return []Target{
		{Kind: TargetJSON, Name: "json"},
		{Kind: TargetYAML, Name: "yaml"},
		{Kind: TargetTOML, Name: "toml"},
		{Kind: TargetCSV, Name: "csv"},
		{Kind: TargetMarkdownTable, Name: "markdown_table"},
	}
}

// Result keys that are always present.
const (
	KeyFormat     = "Format"
	KeyOriginal   = "Original"
	KeyBeautified = "Beautified"
	KeyNormal     = "normal"
)

// Result is the mapping produced by one conversion. Values are string or nil.
type Result map[string]interface{}

// String returns the value under key when it holds a string.
func (r Result) String(key string) (string, bool) {
	s, ok := r[key].(string)
	return s, ok
}
