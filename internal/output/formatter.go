package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ssuji15/pokecli/model"
	"gopkg.in/yaml.v3"
)

type Formatter interface {
	FormatPokemon(p model.Pokemon) (string, error)
	FormatMove(m model.Move) (string, error)
	FormatItem(i model.Item) (string, error)
	FormatError(err error) string
}

var Formats = []string{"table", "json", "yaml"}

func New(format string, colored bool) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", "table":
		return NewTableFormatter(colored), nil
	case "json":
		return JSONFormatter{}, nil
	case "yaml", "yml":
		return YAMLFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

type JSONFormatter struct{}

func (JSONFormatter) FormatPokemon(p model.Pokemon) (string, error) { return indentJSON(p) }
func (JSONFormatter) FormatMove(m model.Move) (string, error)       { return indentJSON(m) }
func (JSONFormatter) FormatItem(i model.Item) (string, error)       { return indentJSON(i) }

func (JSONFormatter) FormatError(err error) string {
	b, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(b)
}

func indentJSON(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// YAMLFormatter renders the JSON shape of a value, so field names match the
// json output and the API.
type YAMLFormatter struct{}

func (YAMLFormatter) FormatPokemon(p model.Pokemon) (string, error) { return toYAML(p) }
func (YAMLFormatter) FormatMove(m model.Move) (string, error)       { return toYAML(m) }
func (YAMLFormatter) FormatItem(i model.Item) (string, error)       { return toYAML(i) }

func (YAMLFormatter) FormatError(err error) string {
	return "error: " + err.Error()
}

func toYAML(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return "", err
	}
	out, err := yaml.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("yaml serialization error: %w", err)
	}
	return strings.TrimRight(string(out), "\n"), nil
}
