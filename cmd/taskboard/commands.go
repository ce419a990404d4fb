package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/yukikurage/taskboard/internal/history"
	"github.com/yukikurage/taskboard/internal/logging"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/script"
	"github.com/yukikurage/taskboard/internal/services"
)

func (a *app) runCmd() *cobra.Command {
	var showHistory bool
	cmd := &cobra.Command{
		Use:   "run <script.yaml>",
		Short: "Run a scenario file against a fresh board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			return a.execute(cmd, f, showHistory)
		},
	}
	cmd.Flags().BoolVar(&showHistory, "history", false, "also print the event history")
	return cmd
}

func (a *app) demoCmd() *cobra.Command {
	var showHistory, printScript bool
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the bundled example scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := script.Demo()
			if err != nil {
				return err
			}
			if printScript {
				r, err := newRenderer(cmd.OutOrStdout(), "yaml")
				if err != nil {
					return err
				}
				return r.encode(s)
			}
			return a.runScript(cmd, s, showHistory)
		},
	}
	cmd.Flags().BoolVar(&showHistory, "history", false, "also print the event history")
	cmd.Flags().BoolVar(&printScript, "print", false, "print the scenario instead of running it")
	return cmd
}

func (a *app) transitionsCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "transitions",
		Short: "Show which status moves each task kind allows",
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := models.TaskKinds
			if kind != "" {
				k := models.TaskKind(kind)
				if !k.Valid() {
					return fmt.Errorf("unknown kind %q", kind)
				}
				kinds = []models.TaskKind{k}
			}
			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return r.transitions(kinds)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only show this kind (generic, bug or feature)")
	return cmd
}

// versionInfo is printed by the version command
type versionInfo struct {
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version" yaml:"version"`
	Environment string `json:"environment" yaml:"environment"`
	GoVersion   string `json:"go_version" yaml:"go_version"`
	Platform    string `json:"platform" yaml:"platform"`
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return r.version(versionInfo{
				Name:        a.cfg.AppName,
				Version:     a.cfg.AppVersion,
				Environment: a.cfg.Environment,
				GoVersion:   runtime.Version(),
				Platform:    runtime.GOOS + "/" + runtime.GOARCH,
			})
		},
	}
}

func (a *app) execute(cmd *cobra.Command, src io.Reader, showHistory bool) error {
	s, err := script.Parse(src)
	if err != nil {
		return err
	}
	return a.runScript(cmd, s, showHistory)
}

func (a *app) runScript(cmd *cobra.Command, s *script.Script, showHistory bool) error {
	r, err := a.renderer(cmd)
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(a.cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	board := services.NewBoard(services.BoardOptions{
		Observer:     history.LogObserver{Logger: logger},
		HistoryLimit: a.cfg.HistoryLimit,
	})

	report, err := script.NewRunner(board, logger).Run(cmd.Context(), s)
	if err != nil {
		return err
	}
	if err := r.report(report); err != nil {
		return err
	}
	if showHistory {
		return r.events(board.History.Entries())
	}
	return nil
}
