package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/circuitbuild/internal/command"
	"github.com/me/circuitbuild/internal/runner"
)

func newRunCmd() *cobra.Command {
	var flags stepFlags

	cmd := &cobra.Command{
		Use:   "run [flags] -- CMD...",
		Short: "Compose CMD like 'compose' and execute it with bash",
		Long: `Compose CMD and execute the result in the current directory. The output
of CMD goes to the log file, so either --rule or --log must name one.
A non-zero exit status is reported and not retried.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.rule == "" && settings.LogPath == command.DefaultLogPath {
				return errors.New("run needs --rule or --log to name the log file")
			}
			composed, logPath, err := flags.compose(args)
			if err != nil {
				return err
			}
			logger.Info("running step", "rule", flags.rule, "log", logPath)
			res, err := runner.New("", logger).Run(cmd.Context(), composed)
			fmt.Fprint(cmd.OutOrStdout(), res.Stdout)
			fmt.Fprint(cmd.ErrOrStderr(), res.Stderr)
			if err != nil {
				return fmt.Errorf("%w (log: %s)", err, logPath)
			}
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}
