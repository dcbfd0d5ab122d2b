package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"course-studio/internal/domain"
)

func newCourseCommands(run runFunc) []*cobra.Command {
	var fields string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current course",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			return printCourse(a.out, a.format, a.store.State().CurrentCourse, fields)
		}),
	}
	show.Flags().StringVar(&fields, "fields", "", "comma separated fields to print, e.g. title,metadata.version")

	newCmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new draft (the chat history is kept)",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			a.store.CreateNewCourse()
			fmt.Fprintln(a.out, "new draft", a.store.State().CurrentCourse.ID)
			return nil
		}),
	}

	set := &cobra.Command{
		Use:   "set key=value...",
		Short: "Edit fields of the current course",
		Long: "Edit fields of the current course. Keys: " + strings.Join(patchKeys(), ", ") + ".\n" +
			"The change is local until `coursectl save`.",
		Args: cobra.MinimumNArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			patch, err := parsePatch(args)
			if err != nil {
				return err
			}
			a.store.UpdateCourse(patch)
			return printCourse(a.out, a.format, a.store.State().CurrentCourse, "id,title,level,thematic,status,metadata.updatedDate")
		}),
	}

	save := &cobra.Command{
		Use:   "save",
		Short: "Create or update the current course on the service",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			if !a.store.IsValid() {
				return fmt.Errorf("course is not valid: title, level and thematic are required")
			}
			a.store.SaveCourse(ctx)
			if err := a.storeErr(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "saved", a.store.State().CurrentCourse.ID)
			return nil
		}),
	}

	load := &cobra.Command{
		Use:   "load [id]",
		Short: "Load a course by id, or refresh the course list without one",
		Args:  cobra.MaximumNArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			a.store.LoadCourse(ctx, id)
			if err := a.storeErr(); err != nil {
				return err
			}
			if id == "" {
				return printCourseTable(a.out, a.store.State().Courses)
			}
			return printCourse(a.out, a.format, a.store.State().CurrentCourse, "id,code,title,level,thematic,status")
		}),
	}

	var cached bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List courses",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			if !cached {
				a.store.LoadCourse(ctx, "")
				if err := a.storeErr(); err != nil {
					return err
				}
			}
			return printCourseTable(a.out, a.store.State().Courses)
		}),
	}
	list.Flags().BoolVar(&cached, "cached", false, "print the cached list without asking the service")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a course on the service",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			a.store.DeleteCourse(ctx, args[0])
			if err := a.storeErr(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "deleted", args[0])
			return nil
		}),
	}

	duplicate := &cobra.Command{
		Use:   "duplicate",
		Short: "Copy the current course into a new local draft",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			a.store.DuplicateCourse()
			c := a.store.State().CurrentCourse
			if c == nil {
				return fmt.Errorf("no current course")
			}
			fmt.Fprintf(a.out, "duplicated into %s (%s)\n", c.ID, c.Title)
			return nil
		}),
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Discard the current course and chat history",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			a.store.ResetCourse()
			fmt.Fprintln(a.out, "reset to", a.store.State().CurrentCourse.ID)
			return nil
		}),
	}

	return []*cobra.Command{newCmd, show, set, save, load, list, del, duplicate, reset}
}

type patchSetter func(p *domain.CoursePatch, v string) error

var patchSetters = map[string]patchSetter{
	"code":           func(p *domain.CoursePatch, v string) error { p.Code = &v; return nil },
	"title":          func(p *domain.CoursePatch, v string) error { p.Title = &v; return nil },
	"customthematic": func(p *domain.CoursePatch, v string) error { p.CustomThematic = &v; return nil },
	"description":    func(p *domain.CoursePatch, v string) error { p.Description = &v; return nil },
	"overview":       func(p *domain.CoursePatch, v string) error { p.Overview = &v; return nil },
	"targetaudience": func(p *domain.CoursePatch, v string) error { p.TargetAudience = &v; return nil },
	"level": func(p *domain.CoursePatch, v string) error {
		l := domain.Level(strings.ToLower(v))
		if !l.Valid() {
			return fmt.Errorf("unknown level %q", v)
		}
		p.Level = &l
		return nil
	},
	"thematic": func(p *domain.CoursePatch, v string) error {
		t := domain.Thematic(strings.ToLower(v))
		if !t.Valid() {
			return fmt.Errorf("unknown thematic %q", v)
		}
		p.Thematic = &t
		return nil
	},
	"status": func(p *domain.CoursePatch, v string) error {
		s := domain.Status(strings.ToUpper(v))
		if !s.Valid() {
			return fmt.Errorf("unknown status %q", v)
		}
		p.Status = &s
		return nil
	},
	"deliverymethod": func(p *domain.CoursePatch, v string) error {
		d := domain.DeliveryMethod(v)
		if !d.Valid() {
			return fmt.Errorf("unknown delivery method %q", v)
		}
		p.DeliveryMethod = &d
		return nil
	},
	"duration": func(p *domain.CoursePatch, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("duration must be a non-negative number of hours, got %q", v)
		}
		p.DurationHours = &n
		return nil
	},
}

func patchKeys() []string {
	return []string{"code", "title", "level", "thematic", "customThematic", "status",
		"description", "overview", "targetAudience", "duration", "deliveryMethod"}
}

// parsePatch turns key=value arguments into a patch. Keys are matched case
// insensitively and may use dashes or underscores.
func parsePatch(args []string) (domain.CoursePatch, error) {
	var p domain.CoursePatch
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return p, fmt.Errorf("expected key=value, got %q", arg)
		}
		key := strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(strings.TrimSpace(k)))
		set, ok := patchSetters[key]
		if !ok {
			return p, fmt.Errorf("unknown field %q (known: %s)", k, strings.Join(patchKeys(), ", "))
		}
		if err := set(&p, strings.TrimSpace(v)); err != nil {
			return p, err
		}
	}
	return p, nil
}
