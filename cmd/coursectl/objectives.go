package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"course-studio/internal/domain"
)

func newObjectiveCommand(run runFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "objective",
		Aliases: []string{"obj"},
		Short:   "Edit the learning objectives of the current course",
	}

	var (
		kind   string
		parent string
	)
	add := &cobra.Command{
		Use:   "add <text...>",
		Short: "Append an objective",
		Args:  cobra.MinimumNArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			t := domain.ObjectiveType(strings.ToLower(kind))
			if !t.Valid() {
				return fmt.Errorf("unknown objective type %q (terminal|enabling)", kind)
			}
			c := a.store.State().CurrentCourse
			if c == nil {
				return fmt.Errorf("no current course")
			}
			o := domain.NewObjective(t, strings.Join(args, " "), parent, len(c.LearningObjectives))
			a.store.AddObjective(o)
			fmt.Fprintln(a.out, o.ID)
			return nil
		}),
	}
	add.Flags().StringVar(&kind, "type", string(domain.ObjectiveTerminal), "terminal|enabling")
	add.Flags().StringVar(&parent, "parent", "", "parent terminal objective id (enabling objectives only)")

	var (
		text, upType, upParent string
		order                  int
	)
	var update *cobra.Command
	update = &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an objective",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			var p domain.ObjectivePatch
			f := update.Flags().Changed
			if f("text") {
				p.Text = domain.Ptr(text)
			}
			if f("type") {
				t := domain.ObjectiveType(strings.ToLower(upType))
				if !t.Valid() {
					return fmt.Errorf("unknown objective type %q (terminal|enabling)", upType)
				}
				p.Type = &t
			}
			if f("parent") {
				p.ParentID = domain.Ptr(upParent)
			}
			if f("order") {
				p.Order = domain.Ptr(order)
			}
			if !hasObjective(a, args[0]) {
				return fmt.Errorf("objective %s not found", args[0])
			}
			a.store.UpdateObjective(args[0], p)
			return nil
		}),
	}
	update.Flags().StringVar(&text, "text", "", "objective text")
	update.Flags().StringVar(&upType, "type", "", "terminal|enabling")
	update.Flags().StringVar(&upParent, "parent", "", "parent terminal objective id")
	update.Flags().IntVar(&order, "order", 0, "display order")

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an objective and its direct enabling objectives",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			if !hasObjective(a, args[0]) {
				return fmt.Errorf("objective %s not found", args[0])
			}
			a.store.RemoveObjective(args[0])
			return nil
		}),
	}

	reorder := &cobra.Command{
		Use:   "reorder <id>...",
		Short: "Rewrite the objective list in the given order; ids left out are dropped",
		Args:  cobra.MinimumNArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			a.store.ReorderObjectives(args)
			return nil
		}),
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Print the objectives",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			c := a.store.State().CurrentCourse
			if c == nil {
				return fmt.Errorf("no current course")
			}
			return printValue(a.out, a.format, c.LearningObjectives)
		}),
	}

	cmd.AddCommand(add, update, remove, reorder, list)
	return cmd
}

func hasObjective(a *app, id string) bool {
	c := a.store.State().CurrentCourse
	if c == nil {
		return false
	}
	for _, o := range c.LearningObjectives {
		if o.ID == id {
			return true
		}
	}
	return false
}
