package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/plan"
)

func newNoteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "note",
		Aliases: []string{"notes"},
		Short:   "Manage topic notes",
	}

	cmd.AddCommand(
		newNoteAddCmd(app),
		newNoteEditCmd(app),
		newNoteRemoveCmd(app),
		newNoteListCmd(app),
	)

	return cmd
}

// resolveTopic accepts a topic id, or a subject meaning its current topic.
func resolveTopic(p *plan.Plan, ref string, today domain.Day) (plan.Topic, error) {
	if t, ok := p.TopicByID(ref); ok {
		return t, nil
	}
	if s, err := domain.ParseSubject(ref); err == nil {
		if t, ok := p.CurrentTopic(s, today); ok {
			return t, nil
		}
		return plan.Topic{}, fmt.Errorf("%s has no topic this week", s)
	}
	return plan.Topic{}, fmt.Errorf("unknown topic %q", ref)
}

func newNoteAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add TOPIC [TEXT...]",
		Short: "Attach a note to a topic (topic id or subject for this week's topic)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic, err := resolveTopic(app.Store.Plan(), args[0], app.Store.Today())
			if err != nil {
				return err
			}
			content := strings.Join(args[1:], " ")
			if content == "" && app.interactive() {
				if err := noteForm(&content).Run(); err != nil {
					return err
				}
			}

			n, err := app.Store.AddTopicNote(cmd.Context(), domain.NewTopicNote{
				TopicID: topic.ID,
				Subject: topic.Subject,
				Content: content,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Not eklendi: %s %s\n", topic.Name, formatter.Dim(n.ID.String()))
			return nil
		},
	}
}

func newNoteEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit ID [TEXT...]",
		Short: "Replace the content of a note",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.ParseTaskID(args[0])
			content := strings.Join(args[1:], " ")
			if content == "" && app.interactive() {
				for _, n := range app.Store.GetTopicNotes("") {
					if n.ID.Equal(id) {
						content = n.Content
					}
				}
				if err := noteForm(&content).Run(); err != nil {
					return err
				}
			}

			n, err := app.Store.UpdateTopicNote(cmd.Context(), id, content)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatNotes([]domain.TopicNote{n}))
			return nil
		},
	}
}

func newNoteRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Delete a note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Store.DeleteTopicNote(cmd.Context(), domain.ParseTaskID(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Silindi: %s\n", args[0])
			return nil
		},
	}
}

func newNoteListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [TOPIC]",
		Short: "List notes, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topicID := ""
			if len(args) == 1 {
				topic, err := resolveTopic(app.Store.Plan(), args[0], app.Store.Today())
				if err != nil {
					return err
				}
				topicID = topic.ID
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatNotes(app.Store.GetTopicNotes(topicID)))
			return nil
		},
	}
}
