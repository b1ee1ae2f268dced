package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/mcncl/datasniff/internal/config"
	"github.com/mcncl/datasniff/internal/errors"
	"github.com/mcncl/datasniff/internal/logging"
	"github.com/mcncl/datasniff/internal/models"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Formatter renders pivot values into target formats
type Formatter struct {
	caps   config.Capabilities
	logger *slog.Logger
}

// NewFormatter creates a new Formatter. Targets whose capability is disabled
// render as null.
func NewFormatter(caps config.Capabilities, logger *slog.Logger) *Formatter {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Formatter{caps: caps, logger: logger}
}

// FormatTargets renders v once per target. Every target gets a key holding
// either the rendered text or nil when the target cannot be produced.
func (f *Formatter) FormatTargets(v models.JSONValue, targets []models.Target) map[string]interface{} {
	out := make(map[string]interface{}, len(targets))
	for _, target := range targets {
		text, err := f.Format(v, target)
		if err != nil {
			f.logger.Debug("target unavailable", "target", target.Name, "error", err)
			out[target.Name] = nil
			continue
		}
		out[target.Name] = text
	}
	return out
}

// Format renders v as a single target
func (f *Formatter) Format(v models.JSONValue, target models.Target) (string, error) {
	switch target.Kind {
	case models.TargetJSON:
		return Pretty(v)
	case models.TargetYAML:
		if !f.caps.YAML {
			return "", unavailable(target)
		}
		return YAML(v)
	case models.TargetTOML:
		if !f.caps.TOML {
			return "", unavailable(target)
		}
		return TOML(v)
	case models.TargetCSV:
		if !f.caps.CSV {
			return "", unavailable(target)
		}
		return CSV(v)
	default:
		// Markdown tables are read but never written; other names are opaque.
		return "", unavailable(target)
	}
}

func unavailable(target models.Target) error {
	return errors.NewSerializeError(fmt.Sprintf("target '%s' is not available", target.Name), errors.ErrTargetUnavailable)
}

// Pretty renders v as indented JSON
func Pretty(v models.JSONValue) (string, error) {
	return encodeJSON(v, "  ")
}

// Compact renders v as single-line JSON
func Compact(v models.JSONValue) (string, error) {
	return encodeJSON(v, "")
}

func encodeJSON(v models.JSONValue, indent string) (string, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if indent != "" {
		encoder.SetIndent("", indent)
	}
	if err := encoder.Encode(v); err != nil {
		return "", errors.NewSerializeError("failed to encode JSON", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// YAML renders v as a YAML document
func YAML(v models.JSONValue) (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(yamlNode(v)); err != nil {
		return "", errors.NewSerializeError("failed to encode YAML", err)
	}
	if err := encoder.Close(); err != nil {
		return "", errors.NewSerializeError("failed to encode YAML", err)
	}
	return buf.String(), nil
}

// TOML renders v as a TOML document. The root must be an object and no
// null may appear anywhere below it.
func TOML(v models.JSONValue) (string, error) {
	obj, ok := v.(models.JSONObject)
	if !ok {
		return "", errors.NewSerializeError("TOML needs an object at the root", errors.ErrIncompatibleShape)
	}
	table, err := tomlTable(obj)
	if err != nil {
		return "", err
	}
	data, err := toml.Marshal(table)
	if err != nil {
		return "", errors.NewSerializeError("failed to encode TOML", err)
	}
	return string(data), nil
}

func tomlTable(obj models.JSONObject) (map[string]interface{}, error) {
	table := make(map[string]interface{}, len(obj))
	for key, value := range obj {
		item, err := tomlItem(value)
		if err != nil {
			return nil, err
		}
		table[key] = item
	}
	return table, nil
}

func tomlItem(v models.JSONValue) (interface{}, error) {
	switch val := v.(type) {
	case nil:
		return nil, errors.NewSerializeError("TOML has no null value", errors.ErrIncompatibleShape)
	case models.JSONObject:
		return tomlTable(val)
	case models.JSONArray:
		items := make([]interface{}, len(val))
		for i, item := range val {
			converted, err := tomlItem(item)
			if err != nil {
				return nil, err
			}
			items[i] = converted
		}
		return items, nil
	case json.Number:
		return tomlNumber(val), nil
	default:
		return val, nil
	}
}

// tomlNumber keeps integers that overflow int64 as their literal text, since
// TOML integers are 64-bit and a float would lose digits.
func tomlNumber(n json.Number) interface{} {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if isIntegerLiteral(n.String()) {
		return n.String()
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

// CSV renders an array of objects as CSV. The header is the sorted union of
// all row keys; a row without a column leaves that cell empty.
func CSV(v models.JSONValue) (string, error) {
	rows, ok := v.(models.JSONArray)
	if !ok {
		return "", errors.NewSerializeError("CSV needs an array of objects", errors.ErrIncompatibleShape)
	}

	columns := map[string]struct{}{}
	objects := make([]models.JSONObject, 0, len(rows))
	for i, row := range rows {
		obj, ok := row.(models.JSONObject)
		if !ok {
			return "", errors.NewSerializeError(fmt.Sprintf("CSV row %d is not an object", i), errors.ErrIncompatibleShape)
		}
		for key := range obj {
			columns[key] = struct{}{}
		}
		objects = append(objects, obj)
	}

	header := make([]string, 0, len(columns))
	for key := range columns {
		header = append(header, key)
	}
	sort.Strings(header)

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(header); err != nil {
		return "", errors.NewSerializeError("failed to write CSV header", err)
	}
	for _, obj := range objects {
		record := make([]string, len(header))
		for i, key := range header {
			cell, err := csvCell(obj[key])
			if err != nil {
				return "", err
			}
			record[i] = cell
		}
		if err := writer.Write(record); err != nil {
			return "", errors.NewSerializeError("failed to write CSV row", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", errors.NewSerializeError("failed to flush CSV", err)
	}
	return buf.String(), nil
}

// csvCell renders one value: text as is, scalars in their JSON spelling,
// null as empty and nested values as compact JSON.
func csvCell(v models.JSONValue) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	case bool:
		if val {
			return "true", nil
		}
		return "false", nil
	default:
		return Compact(val)
	}
}

// yamlNode builds a YAML node tree from a pivot value. Numbers are emitted
// as their literal text so 1.0 stays a float and large integers keep every digit.
func yamlNode(v models.JSONValue) *yaml.Node {
	switch val := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(val)}
	case json.Number:
		tag := "!!float"
		if _, err := val.Int64(); err == nil {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: val.String()}
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: val}
	case models.JSONArray:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range val {
			node.Content = append(node.Content, yamlNode(item))
		}
		return node
	case models.JSONObject:
		keys := make([]string, 0, len(val))
		for key := range val {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range keys {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				yamlNode(val[key]),
			)
		}
		return node
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fmt.Sprint(val)}
	}
}

func isIntegerLiteral(s string) bool {
	return !strings.ContainsAny(s, ".eE")
}
