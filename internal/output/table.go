package output

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/ssuji15/pokecli/model"
)

type TableFormatter struct {
	name   *color.Color
	id     *color.Color
	kind   *color.Color
	errTag *color.Color
}

func NewTableFormatter(colored bool) *TableFormatter {
	f := &TableFormatter{
		name:   color.New(color.FgHiCyan, color.Bold),
		id:     color.New(color.FgYellow),
		kind:   color.New(color.FgGreen),
		errTag: color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{f.name, f.id, f.kind, f.errTag} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return f
}

func (f *TableFormatter) FormatPokemon(p model.Pokemon) (string, error) {
	var b strings.Builder

	types := make([]string, 0, len(p.Types))
	for _, t := range p.Types {
		types = append(types, f.kind.Sprint(strings.ToUpper(t.Type.Name)))
	}
	fmt.Fprintf(&b, "%s %s - %s\n\n", f.header(p.Name), f.id.Sprintf("#%d", p.ID), strings.Join(types, "/"))

	writeTable(&b, []string{"ATTRIBUTE", "VALUE"}, [][]string{
		{"Height", fmt.Sprintf("%d decimeters", p.Height)},
		{"Weight", fmt.Sprintf("%d hectograms", p.Weight)},
		{"Base Experience", optional(p.BaseExperience)},
	})

	stats := make([][]string, 0, len(p.Stats))
	for _, s := range p.Stats {
		stats = append(stats, []string{s.Stat.Name, strconv.Itoa(s.BaseStat), strconv.Itoa(s.Effort)})
	}
	b.WriteString("\nStats:\n")
	writeTable(&b, []string{"STAT", "BASE", "EFFORT"}, stats)

	abilities := make([][]string, 0, len(p.Abilities))
	for _, a := range p.Abilities {
		hidden := "No"
		if a.IsHidden {
			hidden = "Yes"
		}
		abilities = append(abilities, []string{a.Ability.Name, hidden, strconv.Itoa(a.Slot)})
	}
	b.WriteString("\nAbilities:\n")
	writeTable(&b, []string{"ABILITY", "HIDDEN", "SLOT"}, abilities)

	return strings.TrimRight(b.String(), "\n"), nil
}

func (f *TableFormatter) FormatMove(m model.Move) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s - %s\n\n", f.header(m.Name), f.id.Sprintf("#%d", m.ID), f.kind.Sprint(strings.ToUpper(m.Type.Name)))
	writeTable(&b, []string{"ATTRIBUTE", "VALUE"}, [][]string{
		{"Damage Class", m.DamageClass.Name},
		{"Power", optional(m.Power)},
		{"Accuracy", optional(m.Accuracy)},
		{"PP", optional(m.PP)},
	})
	return strings.TrimRight(b.String(), "\n"), nil
}

func (f *TableFormatter) FormatItem(i model.Item) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", f.header(i.Name), f.id.Sprintf("#%d", i.ID))
	writeTable(&b, []string{"ATTRIBUTE", "VALUE"}, [][]string{
		{"Category", i.Category.Name},
		{"Cost", strconv.Itoa(i.Cost)},
	})
	return strings.TrimRight(b.String(), "\n"), nil
}

func (f *TableFormatter) FormatError(err error) string {
	return fmt.Sprintf("%s: %v", f.errTag.Sprint("Error"), err)
}

func (f *TableFormatter) header(name string) string {
	return f.name.Sprint(strings.ToUpper(name))
}

func writeTable(b *strings.Builder, header []string, rows [][]string) {
	w := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(w, strings.Join(r, "\t"))
	}
	_ = w.Flush()
}

func optional(v *int) string {
	if v == nil {
		return "Unknown"
	}
	return strconv.Itoa(*v)
}
