package cmd

import (
	"context"

	"github.com/Yates-Labs/crumbs/internal/config"
	"github.com/Yates-Labs/crumbs/internal/ui"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool

	cfg    = config.Default()
	logger = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "crumbs",
	Short: "Crumbs - Git commit history analyzer",
	Long: `Crumbs reads the commit history of a Git repository and reports how the
project was built: commit velocity, sizes, types, authors, work sessions and
commit message quality, with optional LLM sentiment analysis.

Repositories can be local paths, remote URLs (cloned into memory) or GitHub
URLs read through the GitHub API with --github.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded

		logger, err = ui.NewLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.JSON, verbose)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./.crumbs.yaml or ~/.crumbs.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.SetVersionTemplate("crumbs {{.Version}}\n")
}

// Execute runs the root command with ctx, which is cancelled on interrupt
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
