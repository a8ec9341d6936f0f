package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sandeepkv93/clockwise/internal/dial"
	"github.com/sandeepkv93/clockwise/internal/geometry"
	"github.com/sandeepkv93/clockwise/internal/views"
)

func addSVG(topLevel *cobra.Command, v *viper.Viper) {
	out := ""
	light := false
	cmd := &cobra.Command{
		Use:   "svg",
		Short: "render today's clock face as SVG",
		Example: `
clockwise svg > today.svg
clockwise svg --out today.svg --light
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer rt.Close()

			now := rt.clock.Now()
			face := dial.NewFace(views.FaceSize)
			svg := views.FaceSVG(views.FaceData{
				Face:    face,
				Now:     now,
				Markers: geometry.Markers(rt.store.Snapshot(), face, now),
			}, views.ThemeFor(!light))

			if out == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), svg)
				return err
			}
			return os.WriteFile(out, []byte(svg), 0o644)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to a file instead of stdout")
	cmd.Flags().BoolVar(&light, "light", false, "use the light theme")
	topLevel.AddCommand(cmd)
}
