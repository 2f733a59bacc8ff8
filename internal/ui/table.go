package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/hatlabs/cockpit-package-manager/pkg/packagekit"
)

// Table collects rows and renders them as an aligned table with a bold
// header line.
type Table struct {
	out     io.Writer
	headers []string
	rows    [][]string
}

// NewTable creates a table writing to stdout.
func NewTable(headers []string) *Table {
	return NewTableWriter(os.Stdout, headers)
}

// NewTableWriter creates a table writing to a specific writer.
func NewTableWriter(w io.Writer, headers []string) *Table {
	return &Table{out: w, headers: headers}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(row ...string) {
	t.rows = append(t.rows, row)
}

// Render writes the header and all collected rows.
func (t *Table) Render() {
	w := tabwriter.NewWriter(t.out, 0, 0, 2, ' ', 0)

	if len(t.headers) > 0 {
		headerRow := make([]string, len(t.headers))
		for i, h := range t.headers {
			headerRow[i] = Bold(strings.ToUpper(h))
		}
		fmt.Fprintln(w, strings.Join(headerRow, "\t"))
	}
	for _, row := range t.rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
}

// PrintPackages prints a list of packages in a formatted table.
func PrintPackages(packages []packagekit.Package) {
	if len(packages) == 0 {
		MutedMsg("No packages found")
		return
	}

	t := NewTable([]string{"Name", "Version", "Arch", "Summary"})
	for _, pkg := range packages {
		name := PackageName.Sprint(pkg.ID.Name)
		if pkg.Installed {
			name = name + " " + Installed.Sprint("[installed]")
		}

		desc := pkg.Summary
		if len(desc) > 50 {
			desc = desc[:47] + "..."
		}

		t.AddRow(name, PackageVersion.Sprint(pkg.ID.Version), pkg.ID.Architecture, desc)
	}
	t.Render()
}

// PrintPackageInfo prints detailed package information.
func PrintPackageInfo(info *packagekit.PackageInfo) {
	if info == nil {
		ErrorMsg("No package information available")
		return
	}

	HeaderMsg("Package Information")

	printField("Name", info.ID.Name)
	printField("Version", info.ID.Version)

	if info.ID.Architecture != "" {
		printField("Architecture", info.ID.Architecture)
	}

	if info.ID.SourceTag != "" {
		printField("Source", info.ID.SourceTag)
	}

	if info.Summary != "" {
		printField("Summary", info.Summary)
	}

	if info.Description != "" {
		printField("Description", info.Description)
	}

	if info.Group != packagekit.GroupUnknown {
		printField("Category", info.Group.DisplayName())
	}

	if info.License != "" {
		printField("License", info.License)
	}

	if info.URL != "" {
		printField("URL", info.URL)
	}

	if info.Size > 0 {
		printField("Size", FormatSize(info.Size))
	}

	if info.Installed {
		printField("Status", Green("installed"))
	} else {
		printField("Status", "not installed")
	}

	if len(info.Dependencies) > 0 {
		printField("Dependencies", strings.Join(info.Dependencies, ", "))
	}
}

// printField prints a single field with formatting.
func printField(label, value string) {
	fmt.Printf("  %s: %s\n", Cyan(label), value)
}

// PrintSearchResults prints search results with summaries.
func PrintSearchResults(packages []packagekit.Package) {
	if len(packages) == 0 {
		MutedMsg("No packages found")
		return
	}

	HeaderMsg("Found %d packages", len(packages))

	for _, pkg := range packages {
		name := PackageName.Sprint(pkg.ID.Name)
		version := ""
		if pkg.ID.Version != "" {
			version = " " + PackageVersion.Sprint(pkg.ID.Version)
		}

		installedMark := ""
		if pkg.Installed {
			installedMark = " " + Installed.Sprint("[installed]")
		}

		fmt.Printf("  %s%s%s\n", name, version, installedMark)

		if pkg.Summary != "" {
			desc := pkg.Summary
			if len(desc) > 70 {
				desc = desc[:67] + "..."
			}
			MutedMsg("    %s", desc)
		}
	}
}

// PrintGroups prints the browse view of package categories.
func PrintGroups(groups []packagekit.GroupInfo) {
	if len(groups) == 0 {
		MutedMsg("No categories available")
		return
	}

	t := NewTable([]string{"Category", "Packages", "Installed"})
	for _, g := range groups {
		t.AddRow(PackageName.Sprint(g.DisplayName), fmt.Sprint(g.PackageCount), fmt.Sprint(g.InstalledCount))
	}
	t.Render()
}

// FormatSize renders a byte count for humans.
func FormatSize(size uint64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := uint64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
