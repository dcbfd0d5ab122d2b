package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"course-studio/internal/domain"
)

func newGenerateCommand(run runFunc) *cobra.Command {
	return &cobra.Command{
		Use:       "generate <objectives|modules|assessments|description|full>",
		Short:     "Ask the assistant to fill parts of the current course",
		Args:      cobra.ExactArgs(1),
		ValidArgs: enumStrings(domain.GenerationTypes),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			kind := domain.GenerationType(strings.ToLower(args[0]))
			if !kind.Valid() {
				return fmt.Errorf("unknown generation type %q (%s)", args[0], strings.Join(enumStrings(domain.GenerationTypes), "|"))
			}
			a.store.GenerateContent(ctx, kind)
			if err := a.storeErr(); err != nil {
				return err
			}
			c := a.store.State().CurrentCourse
			fmt.Fprintf(a.out, "generated %s: %d objectives, %d modules, %d assessments, %d%% complete\n",
				kind, len(c.LearningObjectives), len(c.Modules), len(c.Assessments), a.store.CompletionPercentage())
			return nil
		}),
	}
}

func newChatCommand(run runFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat <message...>",
		Short: "Talk to the assistant about the current course",
		Args:  cobra.MinimumNArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			before := len(a.store.State().ChatMessages)
			a.store.SendChatMessage(ctx, strings.Join(args, " "))
			if err := a.storeErr(); err != nil {
				return err
			}
			msgs := a.store.State().ChatMessages
			if len(msgs) == before {
				return fmt.Errorf("message is empty")
			}
			for _, m := range msgs[before:] {
				if m.Role == domain.RoleAssistant {
					fmt.Fprintln(a.out, m.Content)
				}
			}
			return nil
		}),
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Drop the chat history",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			a.store.ClearChat()
			return nil
		}),
	}

	history := &cobra.Command{
		Use:   "history",
		Short: "Print the chat history",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			for _, m := range a.store.State().ChatMessages {
				fmt.Fprintf(a.out, "[%s] %s: %s\n", m.Timestamp, m.Role, m.Content)
			}
			return nil
		}),
	}

	cmd.AddCommand(clearCmd, history)
	return cmd
}

func enumStrings[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}
