package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"course-studio/internal/devutil"
	"course-studio/internal/domain"
)

// printValue writes v as YAML or JSON. Values go through JSON first so both
// formats use the wire field names.
func printValue(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case "json":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		_, err = w.Write(append(b, '\n'))
		return err
	case "yaml", "yml", "":
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		var plain any
		if err := json.Unmarshal(b, &plain); err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(plain); err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (want yaml or json)", format)
	}
}

// printCourse prints the whole course, or only the fields listed in
// fields (comma separated, dotted paths allowed).
func printCourse(w io.Writer, format string, c *domain.Course, fields string) error {
	if c == nil {
		_, err := fmt.Fprintln(w, "no current course")
		return err
	}
	if keys := devutil.Fields(fields); len(keys) > 0 {
		return printValue(w, format, devutil.Pick(c, keys...))
	}
	return printValue(w, format, c)
}

func printCourseTable(w io.Writer, courses []domain.Course) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCODE\tTITLE\tLEVEL\tSTATUS\tDONE")
	for i := range courses {
		c := &courses[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d%%\n",
			c.ID, dash(c.Code), dash(c.Title), dash(string(c.Level)), dash(string(c.Status)), c.CompletionPercentage())
	}
	return tw.Flush()
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
