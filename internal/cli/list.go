package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sandeepkv93/clockwise/internal/tasklist"
)

func addList(topLevel *cobra.Command, v *viper.Viper) {
	showID := false
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "print tasks grouped by day",
		Example: `
clockwise list
clockwise list --id
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer rt.Close()
			printGroups(cmd.OutOrStdout(), rt.store.PresentationOrder(), showID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showID, "id", false, "show task ids")
	topLevel.AddCommand(cmd)
}

// printGroups numbers tasks across groups; the numbers are the references
// done, rm and move accept.
func printGroups(w io.Writer, groups []tasklist.DayGroup, showID bool) {
	if len(groups) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprintln(w, "no tasks")
		return
	}

	bold := color.New(color.Bold, color.Underline)
	done := color.New(color.FgGreen)
	pending := color.New(color.FgRed)
	faint := color.New(color.Faint)

	n := 0
	for _, g := range groups {
		_, _ = bold.Fprintln(w, g.Date.Heading())
		tbl := uitable.New()
		tbl.Separator = "  "
		for _, t := range g.Tasks {
			n++
			mark := pending.Sprint("○")
			if t.Completed {
				mark = done.Sprint("●")
			}
			row := []interface{}{fmt.Sprintf("%d.", n), mark, t.Description, t.RangeLabel(), faint.Sprint(t.DurationLabel())}
			if showID {
				row = append(row, faint.Sprint(t.ID))
			}
			tbl.AddRow(row...)
		}
		fmt.Fprintln(w, tbl)
		fmt.Fprintln(w)
	}
}
