package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestTableRender(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTableWriter(&buf, []string{"Name", "Version"})
	tbl.AddRow("vim", "9.0")
	tbl.AddRow("git", "2.43")
	tbl.Render()

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "NAME") || !strings.Contains(lines[0], "VERSION") {
		t.Errorf("header line should come first, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "vim") {
		t.Errorf("first row should contain vim, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "git") {
		t.Errorf("second row should contain git, got %q", lines[2])
	}
}

func TestTableRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTableWriter(&buf, nil)
	tbl.Render()

	if buf.Len() != 0 {
		t.Errorf("headerless empty table should render nothing, got %q", buf.String())
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		size uint64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
		{3 * 1024 * 1024 * 1024, "3.0 GiB"},
		{2 * 1024 * 1024 * 1024 * 1024, "2.0 TiB"},
	}

	for _, tt := range tests {
		if got := FormatSize(tt.size); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}
