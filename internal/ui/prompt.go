package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	runewidth "github.com/mattn/go-runewidth"

	"modelfetch/internal/manifest"
)

// allModels is the label of the extra entry that selects every model.
const allModels = "All models"

// Selector picks models to fetch. The interactive implementation is promptui-backed.
type Selector interface {
	Select(models []manifest.Model) ([]string, error)
}

// PromptSelector asks on the terminal which model to fetch.
type PromptSelector struct{}

// Select shows one line per model plus an "all" entry and returns the chosen names.
func (PromptSelector) Select(models []manifest.Model) ([]string, error) {
	if len(models) == 0 {
		return nil, errors.New("no models to select from")
	}

	items := FormatModelItems(models)
	prompt := promptui.Select{
		Label: "Select the model to download",
		Items: append([]string{allModels}, items...),
		Size:  10,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}:",
			Active:   "▶ {{ . | cyan }}",
			Inactive: "  {{ . }}",
			Selected: "✅ {{ . | green }}",
		},
	}

	index, _, err := prompt.Run()
	if err != nil {
		return nil, err
	}
	if index == 0 {
		names := make([]string, 0, len(models))
		for _, m := range models {
			names = append(names, m.Name)
		}
		return names, nil
	}
	if index < 0 || index > len(models) {
		return nil, errors.New("invalid selection")
	}
	return []string{models[index-1].Name}, nil
}

// FormatModelItems renders "name  N files -> destination" lines with the name column
// padded to the widest name.
func FormatModelItems(models []manifest.Model) []string {
	maxName := 0
	for _, m := range models {
		if w := runewidth.StringWidth(m.Name); w > maxName {
			maxName = w
		}
	}

	items := make([]string, 0, len(models))
	for _, m := range models {
		name := m.Name + strings.Repeat(" ", maxName-runewidth.StringWidth(m.Name))
		items = append(items, fmt.Sprintf("%s  %d files -> %s", name, len(m.Files), m.DestinationRoot))
	}
	return items
}
