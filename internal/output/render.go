// Package output renders tool responses for the terminal.
package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/temirov/basher/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "
	yamlIndent   = 2
)

// ErrUnsupportedFormat is returned for formats other than json and yaml.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// NormalizeFormat lower-cases format and defaults it to json.
func NormalizeFormat(format string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(format))
	switch normalized {
	case "":
		return types.FormatJSON, nil
	case types.FormatJSON, types.FormatYAML:
		return normalized, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Render pretty-prints a JSON document in the requested format. Key order is preserved.
func Render(document string, format string) (string, error) {
	normalized, err := NormalizeFormat(format)
	if err != nil {
		return "", err
	}
	if normalized == types.FormatYAML {
		return renderYAML(document)
	}
	var buffer bytes.Buffer
	if indentErr := json.Indent(&buffer, []byte(document), indentPrefix, indentSpacer); indentErr != nil {
		return "", fmt.Errorf("indent json: %w", indentErr)
	}
	buffer.WriteByte('\n')
	return buffer.String(), nil
}

// RenderValue marshals value to JSON and renders it in the requested format.
func RenderValue(value any, format string) (string, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	return Render(string(encoded), format)
}

// renderYAML decodes JSON as YAML, which it is a subset of, so mapping order survives.
func renderYAML(document string) (string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(document), &root); err != nil {
		return "", fmt.Errorf("decode json as yaml: %w", err)
	}
	useBlockStyle(&root)
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(yamlIndent)
	if err := encoder.Encode(&root); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}
	return buffer.String(), nil
}

// useBlockStyle drops the flow style JSON input carries, keeping empty collections inline.
func useBlockStyle(node *yaml.Node) {
	switch node.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		if len(node.Content) > 0 {
			node.Style &^= yaml.FlowStyle
		}
	case yaml.ScalarNode:
		node.Style &^= yaml.DoubleQuotedStyle
	}
	for _, child := range node.Content {
		useBlockStyle(child)
	}
}
