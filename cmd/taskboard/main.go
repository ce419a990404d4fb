package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yukikurage/taskboard/internal/config"
	"github.com/yukikurage/taskboard/internal/constants"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app carries what every subcommand needs: the loaded configuration with
// flag and TASKBOARD_* overrides applied.
type app struct {
	v   *viper.Viper
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "taskboard",
		Short: "Task board with per-kind lifecycles and task/user assignments",
		Long: `taskboard runs scenarios against an in-memory task board.
- Tasks are generic, bug or feature; each kind has its own status rules.
- Bugs follow a fixed path, features may move freely except out of ARCHIVED
  back to CREATED or ASSIGNED, generic tasks may move anywhere.
- Users are assigned to tasks many-to-many; deleting either side drops its
  assignments.
- A scenario is a YAML file of users, tasks and steps (see 'taskboard demo').`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}

	a.v.SetEnvPrefix(constants.EnvPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	flags := root.PersistentFlags()
	flags.StringP("output", "o", "table", "output format: table, yaml or json")
	flags.String("log-level", "", "log level (overrides LOG_LEVEL)")
	flags.String("log-file", "", "write logs to this file instead of stderr")
	flags.Int("history-limit", -1, "maximum history entries kept (overrides HISTORY_LIMIT)")
	_ = a.v.BindPFlag("output", flags.Lookup("output"))
	_ = a.v.BindPFlag("log-level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log-file", flags.Lookup("log-file"))
	_ = a.v.BindPFlag("history-limit", flags.Lookup("history-limit"))

	root.AddCommand(a.runCmd())
	root.AddCommand(a.demoCmd())
	root.AddCommand(a.transitionsCmd())
	root.AddCommand(a.versionCmd())
	return root
}

func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if level := a.v.GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	if file := a.v.GetString("log-file"); file != "" {
		cfg.LogFile = file
	}
	if limit := a.v.GetInt("history-limit"); limit >= 0 {
		cfg.HistoryLimit = limit
	}
	return cfg, nil
}

func (a *app) renderer(cmd *cobra.Command) (*renderer, error) {
	return newRenderer(cmd.OutOrStdout(), a.v.GetString("output"))
}
