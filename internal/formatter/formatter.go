// package formatter renders course lists as JSON, CSV, Markdown, plain text or YAML
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/skillstream/internal/models"
	"github.com/desertthunder/skillstream/internal/shared"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	JSON     Format = "json"
	CSV      Format = "csv"
	Markdown Format = "md"
	Text     Format = "text"
	YAML     Format = "yaml"
)

var Formats = []Format{JSON, CSV, Markdown, Text, YAML}

// ParseFormat accepts a format name or a common alias (markdown, txt, yml).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return Text, nil
	case "json":
		return JSON, nil
	case "csv":
		return CSV, nil
	case "md", "markdown":
		return Markdown, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Ext is the file extension for f, without the dot.
func (f Format) Ext() string {
	if f == Text {
		return "txt"
	}
	return string(f)
}

// Render encodes courses in format f. Title is used as the heading by Markdown and text.
func Render(courses []models.Course, f Format, title string) ([]byte, error) {
	switch f {
	case JSON:
		return shared.MarshalJSON(courses, true)
	case CSV:
		return ExportToCSV(courses)
	case Markdown:
		return ExportToMarkdown(title, courses)
	case YAML:
		return ExportToYAML(courses)
	case Text:
		return ExportToText(title, courses)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
	}
}

// Write renders courses to w.
func Write(w io.Writer, courses []models.Course, f Format, title string) error {
	data, err := Render(courses, f, title)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ExportToCSV writes columns: Code, ID, Title, Instructor, Duration, Tags, URL
func ExportToCSV(courses []models.Course) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Code", "ID", "Title", "Instructor", "Duration", "Tags", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, c := range courses {
		duration := ""
		if c.DurationHours != nil {
			duration = strconv.Itoa(*c.DurationHours)
		}
		record := []string{
			strconv.Itoa(c.Code),
			strconv.FormatInt(c.ID, 10),
			c.Title,
			c.InstructorName(),
			duration,
			shared.JoinTags(c.Tags),
			c.CourseURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a heading, a count and one section per course.
func ExportToMarkdown(title string, courses []models.Course) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Courses"
	}
	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Courses**: %d\n\n", len(courses))

	for _, c := range courses {
		fmt.Fprintf(&buf, "## %d. %s\n\n", c.Code, c.Title)
		if c.ImageURL != "" {
			fmt.Fprintf(&buf, "![%s](%s)\n\n", c.Title, c.ImageURL)
		}
		if c.Description != "" {
			fmt.Fprintf(&buf, "%s\n\n", c.Description)
		}
		if name := c.InstructorName(); name != "" {
			fmt.Fprintf(&buf, "- **Instructor**: %s\n", name)
		}
		fmt.Fprintf(&buf, "- **Duration**: %s\n", shared.FormatHours(c.DurationHours))
		if len(c.Tags) > 0 {
			tags := make([]string, len(c.Tags))
			for i, t := range c.Tags {
				tags[i] = "`" + t + "`"
			}
			fmt.Fprintf(&buf, "- **Tags**: %s\n", strings.Join(tags, " "))
		}
		fmt.Fprintf(&buf, "- **Link**: %s\n\n", shared.CourseLink(c.CourseURL, c.Title))
	}

	return buf.Bytes(), nil
}

// ExportToText renders one line per course.
func ExportToText(title string, courses []models.Course) ([]byte, error) {
	var buf bytes.Buffer

	if title != "" {
		fmt.Fprintf(&buf, "%s (%d)\n\n", title, len(courses))
	}

	for _, c := range courses {
		fmt.Fprintf(&buf, "%4d  %s", c.Code, c.Title)
		if name := c.InstructorName(); name != "" {
			fmt.Fprintf(&buf, " - %s", name)
		}
		fmt.Fprintf(&buf, " [%s]", shared.FormatHours(c.DurationHours))
		if len(c.Tags) > 0 {
			fmt.Fprintf(&buf, " #%s", strings.Join(c.Tags, " #"))
		}
		buf.WriteByte('\n')
	}

	return buf.Bytes(), nil
}

func ExportToYAML(courses []models.Course) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(courses); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteExport renders courses to {dir}/{name}.{ext}, creating dir, and returns the file path.
func WriteExport(courses []models.Course, f Format, dir, name string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := Render(courses, f, name)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}

	path := filepath.Join(dir, name+"."+f.Ext())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// WriteManifest writes v as indented JSON to path.
func WriteManifest(v any, path string) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
