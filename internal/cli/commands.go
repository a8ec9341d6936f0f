package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sandeepkv93/clockwise/internal/config"
)

// Version is stamped at build time.
var Version = "dev"

func New() *cobra.Command {
	v := config.New()

	cmd := &cobra.Command{
		Use:          "clockwise",
		Short:        "Plan the day on an analog clock face.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd.Context(), v)
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("backend", "", "storage backend: sqlite or diskv")
	flags.String("store", "", "storage path (sqlite file or diskv directory)")
	flags.String("log-file", "", "log file path")
	flags.Bool("dev", false, "development logging")
	bind(v, "storage.backend", cmd, "backend")
	bind(v, "storage.path", cmd, "store")
	bind(v, "log.file", cmd, "log-file")
	bind(v, "log.development", cmd, "dev")

	AddCommands(cmd, v)
	return cmd
}

func AddCommands(topLevel *cobra.Command, v *viper.Viper) {
	addList(topLevel, v)
	addAdd(topLevel, v)
	addDone(topLevel, v)
	addRemove(topLevel, v)
	addMove(topLevel, v)
	addSVG(topLevel, v)
	addVersion(topLevel)
}

func bind(v *viper.Viper, key string, cmd *cobra.Command, flag string) {
	_ = v.BindPFlag(key, cmd.PersistentFlags().Lookup(flag))
}
