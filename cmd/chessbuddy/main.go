// Command chessbuddy is the console entrypoint: it wires
// configuration, logging, the board/search engine, and the
// interactive prompt together. Grounded on
// herohde-morlock/cmd/morlock/main.go's wiring style (flags → engine →
// console driver), adapted from flag to github.com/spf13/cobra per
// SPEC_FULL.md §6.3.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/seekerror/logw"
	"github.com/spf13/cobra"

	"github.com/tux21b/chessbuddy/internal/board"
	"github.com/tux21b/chessbuddy/internal/config"
	"github.com/tux21b/chessbuddy/internal/prompt"
	"github.com/tux21b/chessbuddy/internal/search"
)

func main() {
	var (
		configPath string
		workers    int
		fixture    string
	)

	root := &cobra.Command{
		Use:   "chessbuddy",
		Short: "A console chess engine driven by parallel Monte Carlo tree search",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath, workers, fixture)
		},
	}
	root.Flags().StringVar(&configPath, "config", "", "path to a chessbuddy.toml config (overrides "+config.EnvOverride+")")
	root.Flags().IntVar(&workers, "workers", 0, "search worker count (0 = use config/default)")
	root.Flags().StringVar(&fixture, "fixture", "", "FEN string to start from instead of the initial position")

	if err := root.Execute(); err != nil {
		logw.Exitf(context.Background(), "chessbuddy: %v", err)
	}
}

func run(ctx context.Context, configPath string, workers int, fixture string) error {
	if configPath != "" {
		os.Setenv(config.EnvOverride, configPath)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if workers > 0 {
		cfg.Search.Workers = workers
	}

	runID := uuid.New()
	logw.Infof(ctx, "chessbuddy starting, run %v, workers=%d, C=%.2f, playout_cap=%d",
		runID, cfg.Search.Workers, cfg.Search.C, cfg.Search.PlayoutCap)

	var initial *board.State
	if fixture != "" {
		initial, err = board.ParseFEN(fixture)
		if err != nil {
			return fmt.Errorf("parse --fixture: %w", err)
		}
	} else {
		initial = board.NewInitial()
	}

	engine := search.New(cfg.Search.Workers, cfg.Search.C, cfg.Search.PlayoutCap)

	in := make(chan string)
	go readStdinLines(in)

	driver, out := prompt.NewDriver(ctx, engine, initial, cfg.History.Dir, in)
	_ = driver

	for line := range out {
		fmt.Println(line)
	}
	return nil
}

func readStdinLines(out chan<- string) {
	defer close(out)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		out <- scanner.Text()
	}
}
