package output

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ssuji15/pokecli/model"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func intPtr(i int) *int { return &i }

func pikachu() model.Pokemon {
	return model.Pokemon{
		ID:             25,
		Name:           "pikachu",
		Height:         4,
		Weight:         60,
		BaseExperience: intPtr(112),
		Types:          []model.PokemonType{{Slot: 1, Type: model.NamedAPIResource{Name: "electric"}}},
		Abilities: []model.PokemonAbility{
			{Slot: 1, Ability: model.NamedAPIResource{Name: "static"}},
			{Slot: 3, IsHidden: true, Ability: model.NamedAPIResource{Name: "lightning-rod"}},
		},
		Stats: []model.PokemonStat{{BaseStat: 35, Stat: model.NamedAPIResource{Name: "hp"}}},
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format    string
		want      Formatter
		wantError bool
	}{
		{format: "table", want: &TableFormatter{}},
		{format: "", want: &TableFormatter{}},
		{format: "JSON", want: JSONFormatter{}},
		{format: "yaml", want: YAMLFormatter{}},
		{format: "yml", want: YAMLFormatter{}},
		{format: "xml", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()
			f, err := New(tt.format, false)
			if tt.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.IsType(t, tt.want, f)
		})
	}
}

func TestTableFormatter_Pokemon(t *testing.T) {
	t.Parallel()
	out, err := NewTableFormatter(false).FormatPokemon(pikachu())
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(out, "PIKACHU #25 - ELECTRIC"))
	require.Contains(t, out, "4 decimeters")
	require.Contains(t, out, "60 hectograms")
	require.Contains(t, out, "112")
	require.Contains(t, out, "Stats:")
	require.Contains(t, out, "lightning-rod  Yes")
	require.NotContains(t, out, "\x1b[")
}

func TestTableFormatter_Colored(t *testing.T) {
	t.Parallel()
	out, err := NewTableFormatter(true).FormatItem(model.Item{ID: 17, Name: "potion", Cost: 200})
	require.NoError(t, err)
	require.Contains(t, out, "\x1b[")
	require.Contains(t, out, "200")
}

func TestTableFormatter_MoveUnknownPower(t *testing.T) {
	t.Parallel()
	out, err := NewTableFormatter(false).FormatMove(model.Move{
		ID:          14,
		Name:        "swords-dance",
		PP:          intPtr(20),
		Type:        model.NamedAPIResource{Name: "normal"},
		DamageClass: model.NamedAPIResource{Name: "status"},
	})
	require.NoError(t, err)
	require.Contains(t, out, "SWORDS-DANCE #14 - NORMAL")
	require.Contains(t, out, "Unknown")
	require.Contains(t, out, "status")
}

func TestJSONFormatter(t *testing.T) {
	t.Parallel()
	out, err := JSONFormatter{}.FormatPokemon(pikachu())
	require.NoError(t, err)

	var got model.Pokemon
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, pikachu(), got)

	require.JSONEq(t, `{"error":"boom \"quoted\""}`, JSONFormatter{}.FormatError(errors.New(`boom "quoted"`)))
}

func TestYAMLFormatter(t *testing.T) {
	t.Parallel()
	out, err := YAMLFormatter{}.FormatMove(model.Move{ID: 33, Name: "tackle", Power: intPtr(40)})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	require.Equal(t, "tackle", got["name"])
	require.Equal(t, 40, got["power"])
	require.Contains(t, got, "damage_class")

	require.Equal(t, "error: boom", YAMLFormatter{}.FormatError(errors.New("boom")))
}
