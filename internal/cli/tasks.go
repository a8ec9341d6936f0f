package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sandeepkv93/clockwise/internal/commands"
	"github.com/sandeepkv93/clockwise/internal/model"
)

func addAdd(topLevel *cobra.Command, v *viper.Viper) {
	date := ""
	cmd := &cobra.Command{
		Use:   "add <description> <HH:MM-HH:MM[+Nd]>",
		Short: "add a task without opening the clock",
		Example: `
clockwise add Standup 09:00-09:15
clockwise add "Night shift" 22:00-06:00+1d
clockwise add Review 14:00-15:00 --date 2024-03-10
`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, days, err := commands.ParseRange(args[len(args)-1])
			if err != nil {
				return err
			}
			rt, err := openRuntime(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer rt.Close()

			day := model.DateOf(rt.clock.Now())
			if date != "" {
				if day, err = model.ParseDate(date); err != nil {
					return err
				}
			}
			fields := model.Fields{
				Description: strings.TrimSpace(strings.Join(args[:len(args)-1], " ")),
				StartDate:   day,
				StartTime:   start,
				EndDate:     day.AddDays(days),
				EndTime:     end,
			}
			if err := fields.Validate(); err != nil {
				return err
			}
			t, err := rt.store.Create(cmd.Context(), fields)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s: %s %s\n", shortID(t.ID), t.Description, t.RangeLabel())
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "start date YYYY-MM-DD (default today)")
	topLevel.AddCommand(cmd)
}

func addDone(topLevel *cobra.Command, v *viper.Viper) {
	cmd := &cobra.Command{
		Use:     "done <ref>",
		Aliases: []string{"toggle"},
		Short:   "toggle a task between pending and completed",
		Example: `
clockwise done 2
clockwise done 3f9c
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTask(cmd, v, args[0], func(rt *runtime, t model.Task) (string, error) {
				if err := rt.store.Toggle(cmd.Context(), t.ID); err != nil {
					return "", err
				}
				if t.Completed {
					return "reopened: " + t.Description, nil
				}
				return "completed: " + t.Description, nil
			})
		},
	}
	topLevel.AddCommand(cmd)
}

func addRemove(topLevel *cobra.Command, v *viper.Viper) {
	cmd := &cobra.Command{
		Use:     "rm <ref>",
		Aliases: []string{"delete"},
		Short:   "delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTask(cmd, v, args[0], func(rt *runtime, t model.Task) (string, error) {
				if err := rt.store.Delete(cmd.Context(), t.ID); err != nil {
					return "", err
				}
				return "deleted: " + t.Description, nil
			})
		},
	}
	topLevel.AddCommand(cmd)
}

func addMove(topLevel *cobra.Command, v *viper.Viper) {
	cmd := &cobra.Command{
		Use:   "move <ref> <target-ref>",
		Short: "move a task to another task's place in the stored order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTask(cmd, v, args[0], func(rt *runtime, from model.Task) (string, error) {
				to, err := commands.Resolve(args[1], orderedTasks(rt))
				if err != nil {
					return "", err
				}
				if err := rt.store.Reorder(cmd.Context(), from.ID, to.ID); err != nil {
					return "", err
				}
				return fmt.Sprintf("moved %q to %q", from.Description, to.Description), nil
			})
		},
	}
	topLevel.AddCommand(cmd)
}

// withTask opens the store, resolves ref against the listed order and runs fn.
func withTask(cmd *cobra.Command, v *viper.Viper, ref string, fn func(*runtime, model.Task) (string, error)) error {
	rt, err := openRuntime(cmd.Context(), v)
	if err != nil {
		return err
	}
	defer rt.Close()

	t, err := commands.Resolve(ref, orderedTasks(rt))
	if err != nil {
		return err
	}
	msg, err := fn(rt, t)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}

func orderedTasks(rt *runtime) []model.Task {
	var out []model.Task
	for _, g := range rt.store.PresentationOrder() {
		out = append(out, g.Tasks...)
	}
	return out
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
