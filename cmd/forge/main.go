package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sant0-9/forge/internal/agent"
	"github.com/sant0-9/forge/internal/config"
	"github.com/sant0-9/forge/internal/llm"
	"github.com/sant0-9/forge/internal/store"
	"github.com/sant0-9/forge/internal/tui"
)

var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "forge",
		Short: "Interactive prompt refinement assistant",
		Long: "Forge turns rough requests into effective LLM prompts.\n" +
			"Run without arguments for the interactive TUI.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}

	root.AddCommand(refineCmd())
	root.AddCommand(versionCmd())
	return root
}

func runTUI() error {
	log, err := newLogger()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dbPath, err := store.DefaultPath()
	if err != nil {
		return err
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	log.WithField("version", version).Info("starting")

	app := tui.NewApp(cfg, st, log)
	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func refineCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "refine [prompt]",
		Short: "One-shot prompt rewrite, no conversation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg == nil {
				return fmt.Errorf("no configuration found; run `forge` once to set up a provider")
			}

			provider, err := llm.NewProvider(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			a := agent.New(provider, cfg, log)
			action := a.Refine(ctx, strings.Join(args, " "))

			switch act := action.(type) {
			case agent.Deliver:
				fmt.Println(act.Body)
				if !quiet {
					dim := color.New(color.Faint)
					for _, line := range act.Annotations {
						dim.Fprintln(os.Stderr, line)
					}
				}
				return nil
			case agent.Fail:
				if act.RegionOrAvailability {
					color.New(color.FgYellow).Fprintln(os.Stderr,
						"The model looks unavailable from your region or plan; try another provider.")
				}
				return act.Err
			default:
				return fmt.Errorf("unexpected reply from provider")
			}
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the refined prompt")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("forge %s\n", version)
		},
	}
}

// newLogger writes structured logs to a file under the config dir, keeping
// stdout free for the TUI.
func newLogger() (*logrus.Logger, error) {
	log := logrus.New()
	log.SetLevel(logrus.InfoLevel)

	dir, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(filepath.Join(dir, "forge.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log, nil
}
