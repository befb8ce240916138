package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

func TestGenerateOutputFileName(t *testing.T) {
	name := GenerateOutputFileName("timesheet_{start}_{end}_{uuid}", ".csv", map[string]string{
		"start": "2021-06-14",
		"end":   "2021-06-18",
	})
	pattern := regexp.MustCompile(`^timesheet_2021-06-14_2021-06-18_[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.csv$`)
	if !pattern.MatchString(name) {
		t.Errorf("unexpected name %q", name)
	}

	other := GenerateOutputFileName("timesheet_{start}_{end}_{uuid}", ".csv", map[string]string{
		"start": "2021-06-14",
		"end":   "2021-06-18",
	})
	if other == name {
		t.Error("two names share a UUID")
	}
}

func TestGenerateOutputFileNameExtension(t *testing.T) {
	tests := []struct {
		format, ext, want string
	}{
		{"week.XLSX", ".xlsx", "week.XLSX"},
		{"week", ".json", "week.json"},
		{"week", "", "week"},
		{"../{start}", ".json", ".._2021-06-14.json"},
	}
	for _, tt := range tests {
		got := GenerateOutputFileName(tt.format, tt.ext, map[string]string{"start": "2021-06-14"})
		if got != tt.want {
			t.Errorf("GenerateOutputFileName(%q, %q) = %q, want %q", tt.format, tt.ext, got, tt.want)
		}
	}
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "nested")
	fm := NewFileManager(dir)

	path, err := fm.WriteFile("week.json", func(w io.Writer) error {
		_, err := fmt.Fprint(w, "{}")
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(dir, "week.json") {
		t.Errorf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "{}" {
		t.Errorf("content = %q, %v", data, err)
	}
}

func TestWriteFileFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	fm := NewFileManager(dir)
	boom := errors.New("boom")

	_, err := fm.WriteFile("week.json", func(w io.Writer) error {
		fmt.Fprint(w, "{")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("left behind %d file(s)", len(entries))
	}
}
