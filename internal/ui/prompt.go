package ui

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/hatlabs/cockpit-package-manager/pkg/packagekit"
)

// Confirm prompts the user for yes/no confirmation.
func Confirm(prompt string, defaultYes bool) (bool, error) {
	label := prompt
	if defaultYes {
		label += " [Y/n]"
	} else {
		label += " [y/N]"
	}

	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Default:   "",
	}

	if defaultYes {
		p.Default = "y"
	}

	result, err := p.Run()
	if err != nil {
		if err == promptui.ErrAbort {
			return false, nil
		}
		return defaultYes, nil // Return default on error
	}

	result = strings.ToLower(strings.TrimSpace(result))
	if result == "" {
		return defaultYes, nil
	}

	return result == "y" || result == "yes", nil
}

// promptItem flattens a package for promptui's template engine.
type promptItem struct {
	Name      string
	Version   string
	Source    string
	Summary   string
	Installed string
}

// SelectPackage prompts the user to select a package from a list.
func SelectPackage(packages []packagekit.Package, prompt string) (*packagekit.Package, error) {
	if len(packages) == 0 {
		return nil, fmt.Errorf("no packages to select from")
	}

	if len(packages) == 1 {
		return &packages[0], nil
	}

	items := make([]promptItem, len(packages))
	for i, pkg := range packages {
		items[i] = promptItem{
			Name:      pkg.ID.Name,
			Version:   pkg.ID.Version,
			Source:    pkg.ID.SourceTag,
			Summary:   pkg.Summary,
			Installed: "no",
		}
		if pkg.Installed {
			items[i].Installed = "yes"
		}
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ .Name | cyan }} {{ .Version | green }} [{{ .Source | magenta }}]",
		Inactive: "  {{ .Name }} {{ .Version | faint }} [{{ .Source | faint }}]",
		Selected: "✓ {{ .Name | cyan }} {{ .Version | green }} [{{ .Source | magenta }}]",
		Details: `
--------- Package ----------
{{ "Name:" | faint }}	{{ .Name }}
{{ "Version:" | faint }}	{{ .Version }}
{{ "Source:" | faint }}	{{ .Source }}
{{ "Installed:" | faint }}	{{ .Installed }}
{{ "Summary:" | faint }}	{{ .Summary }}`,
	}

	searcher := func(input string, index int) bool {
		name := strings.ToLower(items[index].Name)
		return strings.Contains(name, strings.ToLower(input))
	}

	p := promptui.Select{
		Label:     prompt,
		Items:     items,
		Templates: templates,
		Size:      10,
		Searcher:  searcher,
	}

	index, _, err := p.Run()
	if err != nil {
		return nil, err
	}

	return &packages[index], nil
}

// SelectCategory prompts the user to select a package category.
func SelectCategory(categories []string, prompt string) (string, error) {
	if len(categories) == 0 {
		return "", fmt.Errorf("no categories available")
	}

	if len(categories) == 1 {
		return categories[0], nil
	}

	p := promptui.Select{
		Label: prompt,
		Items: categories,
		Size:  10,
	}

	_, result, err := p.Run()
	if err != nil {
		return "", err
	}

	return result, nil
}
