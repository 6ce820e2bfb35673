package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vbonduro/atozbnb/internal/config"
	"github.com/vbonduro/atozbnb/internal/logging"
)

// env holds what every command needs once flags are parsed.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	cleanup func()

	credential string
	password   string
	yes        bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	e := &env{cleanup: func() {}}

	root := &cobra.Command{
		Use:           "atozbnb",
		Short:         "AtoZBnB vacation rental server and client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			e.cfg = config.Load()
			logger, cleanup, err := logging.New(e.cfg.LogLevel, e.cfg.LogFormat, e.cfg.LogFile)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			e.logger, e.cleanup = logger, cleanup
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			e.cleanup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&e.credential, "credential", os.Getenv("ATOZBNB_CREDENTIAL"), "email or username to log in with")
	flags.StringVar(&e.password, "password", os.Getenv("ATOZBNB_PASSWORD"), "password to log in with")
	flags.BoolVarP(&e.yes, "yes", "y", false, "answer yes to confirmation prompts")

	root.AddCommand(
		newServeCmd(e),
		newMigrateCmd(e),
		newSeedCmd(e),
		newSpotsCmd(e),
		newReviewsCmd(e),
		newSignupCmd(e),
		newWhoamiCmd(e),
	)
	return root
}
