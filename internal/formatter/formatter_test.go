package formatter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/skillstream/internal/models"
	"github.com/desertthunder/skillstream/internal/shared"
	tu "github.com/desertthunder/skillstream/internal/testing"
	"gopkg.in/yaml.v3"
)

func TestExporters(t *testing.T) {
	courses := tu.Courses()

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(courses)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("failed to parse CSV: %v", err)
		}
		if len(records) != len(courses)+1 {
			t.Fatalf("expected %d rows, got %d", len(courses)+1, len(records))
		}
		if records[0][0] != "Code" || records[1][2] != "Intro to Go" || records[1][5] != "go,backend" {
			t.Errorf("unexpected rows %v", records[:2])
		}
		if records[3][4] != "" {
			t.Errorf("expected empty duration for self-paced course, got %q", records[3][4])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, _ := ExportToMarkdown("Favorites", courses[:1])
		md := string(data)
		for _, want := range []string{"# Favorites", "**Courses**: 1", "## 1. Intro to Go", "`go` `backend`", "**Duration**: 10h"} {
			if !strings.Contains(md, want) {
				t.Errorf("expected %q in markdown:\n%s", want, md)
			}
		}

		data, _ = ExportToMarkdown("", nil)
		if !strings.HasPrefix(string(data), "# Courses") {
			t.Errorf("expected default heading, got %q", data)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, _ := ExportToText("Catalog", courses)
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if lines[0] != "Catalog (5)" {
			t.Errorf("unexpected header %q", lines[0])
		}
		if !strings.Contains(lines[2], "Intro to Go - Gopher Academy [10h] #go #backend") {
			t.Errorf("unexpected line %q", lines[2])
		}
		if !strings.Contains(string(data), "web development - Acme [Self-paced]") {
			t.Errorf("expected self-paced course in:\n%s", data)
		}
	})

	t.Run("ExportToYAML", func(t *testing.T) {
		data, err := ExportToYAML(courses)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var decoded []models.Course
		if err := yaml.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("failed to decode YAML: %v", err)
		}
		if len(decoded) != len(courses) || decoded[1].Title != "Advanced Rust" {
			t.Errorf("unexpected decoded courses %+v", decoded)
		}
	})

	t.Run("Render JSON", func(t *testing.T) {
		data, err := Render(courses[:2], JSON, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		decoded, err := models.DecodeCourseList(data)
		if err != nil || len(decoded) != 2 {
			t.Errorf("unexpected decode %v, %v", decoded, err)
		}
		if !json.Valid(data) {
			t.Error("expected valid JSON")
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"": Text, "TXT": Text, "markdown": Markdown, "yml": YAML, "csv": CSV, "json": JSON}
	for in, want := range tests {
		if got, err := ParseFormat(in); err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("pdf"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	if Text.Ext() != "txt" || Markdown.Ext() != "md" {
		t.Error("unexpected extensions")
	}
}

func TestWriters(t *testing.T) {
	t.Run("Write", func(t *testing.T) {
		var sb strings.Builder
		if err := Write(&sb, tu.Courses()[:1], Text, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(sb.String(), "Intro to Go") {
			t.Errorf("unexpected output %q", sb.String())
		}

		w := &tu.FWriter{}
		if err := Write(w, tu.Courses(), Text, ""); err == nil {
			t.Error("expected write error")
		}
	})

	t.Run("WriteExport", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested")
		path, err := WriteExport(tu.Courses(), CSV, dir, "catalog")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if path != filepath.Join(dir, "catalog.csv") {
			t.Errorf("unexpected path %s", path)
		}
		tu.AssertFileExists(t, path)
	})

	t.Run("WriteManifest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "manifest.json")
		if err := WriteManifest(map[string]int{"courses": 5}, path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if content := tu.MustReadFile(t, path); !strings.Contains(content, `"courses": 5`) {
			t.Errorf("unexpected manifest %s", content)
		}

		if err := WriteManifest(map[string]int{}, filepath.Join(t.TempDir(), "missing", "m.json")); err == nil {
			t.Error("expected error for missing directory")
		}
		_ = os.Remove(path)
	})
}
