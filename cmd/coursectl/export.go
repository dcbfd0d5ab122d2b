package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"course-studio/internal/domain"
	"course-studio/internal/export"
	"course-studio/internal/reconcile"
	"course-studio/internal/sftpclient"
)

func newExportCommand(run runFunc) *cobra.Command {
	return &cobra.Command{
		Use:       "export <json|pdf|docx|scorm>",
		Short:     "Export the current course and download the file",
		Args:      cobra.ExactArgs(1),
		ValidArgs: enumStrings(domain.ExportFormats),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			format, err := parseFormat(args[0])
			if err != nil {
				return err
			}
			a.store.ExportCourse(ctx, format)
			if err := a.storeErr(); err != nil {
				return err
			}
			printDelivered(a)
			return nil
		}),
	}
}

func newExportAllCommand(run runFunc) *cobra.Command {
	var (
		workers int
		cached  bool
	)
	cmd := &cobra.Command{
		Use:   "export-all <json|pdf|docx|scorm>",
		Short: "Export every course of the list",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			format, err := parseFormat(args[0])
			if err != nil {
				return err
			}
			if !cached {
				a.store.LoadCourse(ctx, "")
				if err := a.storeErr(); err != nil {
					return err
				}
			}
			results := a.store.ExportAll(ctx, format, workers)
			for _, r := range results {
				status := "ok"
				if r.Err != nil {
					status = "FAILED: " + r.Err.Error()
				}
				fmt.Fprintf(a.out, "%s\t%s\t%s\n", r.CourseID, r.Title, status)
			}
			printDelivered(a)
			return a.storeErr()
		}),
	}
	cmd.Flags().IntVar(&workers, "workers", 4, "concurrent export requests")
	cmd.Flags().BoolVar(&cached, "cached", false, "export the cached list without refreshing it")
	return cmd
}

func newCatalogCommand(run runFunc) *cobra.Command {
	var (
		out    string
		cached bool
	)
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Write the course list as a catalog CSV",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			courses, err := courseList(ctx, a, cached)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				return export.WriteCatalogCSV(a.out, courses)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := export.WriteCatalogCSV(f, courses); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "wrote %d courses to %s\n", len(courses), out)
			return nil
		}),
	}
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&cached, "cached", false, "use the cached list without refreshing it")
	return cmd
}

func newOutlineCommand(run runFunc) *cobra.Command {
	var (
		all       bool
		cached    bool
		out       string
		operation string
		tagField  string
		tags      []string
		upload    bool
	)
	cmd := &cobra.Command{
		Use:   "outline",
		Short: "Write a course outline XML for a catalog import",
		Long: "Write a course outline XML for a catalog import.\n" +
			"Tags are attached per thematic: --tag leadership=MGMT --tag leadership=LEAD.",
		Args: cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			tagMap, err := parseTags(tags)
			if err != nil {
				return err
			}
			cfg := export.OutlineConfig{Operation: operation, TagsFieldName: tagField, TagsByThematic: tagMap}

			var courses []domain.Course
			if all {
				if courses, err = courseList(ctx, a, cached); err != nil {
					return err
				}
			} else {
				c := a.store.State().CurrentCourse
				if c == nil {
					return fmt.Errorf("no current course")
				}
				courses = []domain.Course{*c}
			}

			if out == "" || out == "-" {
				if upload {
					return fmt.Errorf("--upload needs --out")
				}
				return export.EncodeOutlineXML(a.out, courses, cfg)
			}
			if err := export.WriteOutlineXML(out, courses, cfg); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "wrote %d courses to %s\n", len(courses), out)
			if upload {
				remote, err := sftpclient.UploadFile(ctx, sftpConfig(a.cfg), out, filepath.Base(out))
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, "uploaded", remote)
			}
			return nil
		}),
	}
	f := cmd.Flags()
	f.BoolVar(&all, "all", false, "outline every course of the list instead of the current one")
	f.BoolVar(&cached, "cached", false, "with --all, use the cached list without refreshing it")
	f.StringVar(&out, "out", "", "output file (default stdout)")
	f.StringVar(&operation, "operation", "", "operation attribute written on each course, e.g. upsert")
	f.StringVar(&tagField, "tag-field", "", "custom field name for tags (default catalog_tags)")
	f.StringArrayVar(&tags, "tag", nil, "thematic=TAG, repeatable")
	f.BoolVar(&upload, "upload", false, "upload the file over SFTP (SFTP_* settings)")
	return cmd
}

func newDriftCommand(run runFunc) *cobra.Command {
	var (
		retireOut string
		syncList  bool
	)
	cmd := &cobra.Command{
		Use:   "drift",
		Short: "Compare the cached course list with the service",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			remote, err := reconcile.Fetch(ctx, a.gw)
			if err != nil {
				return err
			}
			rep := reconcile.Diff(a.store.State().Courses, remote)
			fmt.Fprintln(a.out, rep.String())
			for _, c := range rep.Added {
				fmt.Fprintf(a.out, "+ %s\t%s\n", c.ID, c.Title)
			}
			for _, c := range rep.Changed {
				fmt.Fprintf(a.out, "~ %s\t%s\n", c.ID, c.Title)
			}
			for _, r := range rep.Removed {
				fmt.Fprintf(a.out, "- %s\t%s\n", r.CatalogID, r.Title)
			}
			if retireOut != "" && len(rep.Removed) > 0 {
				if err := export.WriteRetirementXML(retireOut, rep.Removed); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "wrote", retireOut)
			}
			if syncList && !rep.Empty() {
				a.store.LoadCourse(ctx, "")
				return a.storeErr()
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&retireOut, "retire-out", "", "write a delete manifest for removed courses")
	cmd.Flags().BoolVar(&syncList, "sync", false, "refresh the cached list afterwards")
	return cmd
}

func courseList(ctx context.Context, a *app, cached bool) ([]domain.Course, error) {
	if !cached {
		a.store.LoadCourse(ctx, "")
		if err := a.storeErr(); err != nil {
			return nil, err
		}
	}
	return a.store.State().Courses, nil
}

func printDelivered(a *app) {
	for _, art := range a.delivered {
		if art.RemotePath != "" {
			fmt.Fprintf(a.out, "%s (%d bytes, uploaded to %s)\n", art.LocalPath, art.Size, art.RemotePath)
			continue
		}
		fmt.Fprintf(a.out, "%s (%d bytes)\n", art.LocalPath, art.Size)
	}
}

func parseFormat(s string) (domain.ExportFormat, error) {
	f := domain.ExportFormat(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("unknown export format %q (%s)", s, strings.Join(enumStrings(domain.ExportFormats), "|"))
	}
	return f, nil
}

// parseTags reads thematic=TAG pairs. Tags may also be comma separated:
// leadership=MGMT,LEAD.
func parseTags(pairs []string) (map[string][]string, error) {
	out := map[string][]string{}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.ToLower(strings.TrimSpace(k))
		if !ok || k == "" {
			return nil, fmt.Errorf("expected thematic=TAG, got %q", p)
		}
		out[k] = append(out[k], splitCSV(v)...)
	}
	return out, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
