package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type sessionStatus struct {
	CourseID     string `json:"courseId"`
	Title        string `json:"title"`
	Persisted    bool   `json:"persisted"`
	Valid        bool   `json:"valid"`
	Completion   int    `json:"completion"`
	IsLoading    bool   `json:"isLoading"`
	IsSaving     bool   `json:"isSaving"`
	IsGenerating bool   `json:"isGenerating"`
	IsChatting   bool   `json:"isChatting"`
	Error        string `json:"error,omitempty"`
	ChatMessages int    `json:"chatMessages"`
	Courses      int    `json:"courses"`
	Backend      string `json:"backend"`
}

func newStatusCommand(run runFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the persisted session",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			st := a.store.State()
			out := sessionStatus{
				Persisted:    st.Persisted,
				Valid:        a.store.IsValid(),
				Completion:   a.store.CompletionPercentage(),
				IsLoading:    st.IsLoading,
				IsSaving:     st.IsSaving,
				IsGenerating: st.IsGenerating,
				IsChatting:   st.IsChatting,
				Error:        st.Error,
				ChatMessages: len(st.ChatMessages),
				Courses:      len(st.Courses),
				Backend:      a.cfg.StateBackend,
			}
			if st.CurrentCourse != nil {
				out.CourseID = st.CurrentCourse.ID
				out.Title = st.CurrentCourse.Title
			}
			return printValue(a.out, a.format, out)
		}),
	}
}

func newLexiconCommand(run runFunc) *cobra.Command {
	var section string
	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Print the service's reference data (levels, thematics, verbs...)",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			lex, err := a.gw.GetLexicon(ctx)
			if err != nil {
				return err
			}
			if section == "" {
				return printValue(a.out, a.format, lex)
			}
			v, ok := lex[section]
			if !ok {
				return fmt.Errorf("lexicon has no section %q", section)
			}
			return printValue(a.out, a.format, v)
		}),
	}
	cmd.Flags().StringVar(&section, "section", "", "print only one section, e.g. courseLevels")
	return cmd
}
