package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"clusterpay_backend/internal/app"
	"clusterpay_backend/internal/config/env"
	"clusterpay_backend/internal/simulation"
)

var (
	configPath string
	logLevel   string
	params     simulation.Params
)

func simulate(cmd *cobra.Command, args []string) error {
	cfg, err := env.NewCascadeConfigFromYAML(configPath)
	if err != nil {
		return fmt.Errorf("loading cascade config: %w", err)
	}
	logger, err := app.NewLogger(logLevel)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := simulation.Run(ctx, cfg, params, logger.Named("simulate"))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "spins\t%d\n", report.Spins)
	fmt.Fprintf(w, "total bet\t%d\n", report.TotalBet)
	fmt.Fprintf(w, "total payout\t%d\n", report.TotalPayout)
	fmt.Fprintf(w, "rtp\t%.3f%%\n", report.RTP)
	fmt.Fprintf(w, "window rtp (last %d)\t%.3f%%\n", report.Stats.WindowSize, report.Stats.WindowRTP)
	fmt.Fprintf(w, "hit rate\t%.3f%%\n", report.HitRate)
	fmt.Fprintf(w, "max payout\t%d (x%.1f)\n", report.MaxPayout, float64(report.MaxPayout)/float64(params.Bet))
	fmt.Fprintf(w, "longest cascade\t%d\n", report.Stats.LongestCascade)
	fmt.Fprintf(w, "capped spins\t%d\n", report.CappedSpins)
	fmt.Fprintln(w)

	rounds := make([]int, 0, len(report.RoundHistogram))
	for n := range report.RoundHistogram {
		rounds = append(rounds, n)
	}
	sort.Ints(rounds)
	fmt.Fprintln(w, "rounds\tspins\tshare")
	for _, n := range rounds {
		count := report.RoundHistogram[n]
		fmt.Fprintf(w, "%d\t%d\t%.2f%%\n", n, count, float64(count)/float64(report.Spins)*100)
	}
	return w.Flush()
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play cascade spins offline and report the observed RTP",
		RunE:  simulate,
	}
	rootCmd.Flags().StringVar(&configPath, "config", env.CascadeConfigPath(), "Cascade game config (YAML)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level")
	rootCmd.Flags().IntVar(&params.Spins, "spins", 100000, "Number of spins")
	rootCmd.Flags().Int64Var(&params.Bet, "bet", 10, "Bet per spin")
	rootCmd.Flags().Uint64Var(&params.Seed, "seed", 1, "Seed of the first worker")
	rootCmd.Flags().IntVar(&params.Workers, "workers", 4, "Parallel workers")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
