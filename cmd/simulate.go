package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/liftsim/core/scenario"
	"github.com/kilianp07/liftsim/infra/logger"
)

var (
	simFrames bool
	simJSON   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <scenario>",
	Short: "Replay a scenario file and print the resulting fleet and KPIs",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().BoolVar(&simFrames, "frames", false, "print the fleet after every tick")
	simulateCmd.Flags().BoolVar(&simJSON, "json", false, "print the result as JSON")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	s, err := scenario.Load(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	opts := []scenario.RunOption{scenario.WithLogger(logger.NewTo(cmd.ErrOrStderr(), "scenario"))}
	if simFrames && !simJSON {
		opts = append(opts, scenario.WithFrames(func(f scenario.Frame) {
			_, _ = fmt.Fprintf(out, "tick %d\n", f.Tick)
			writeCars(out, f.Cars)
		}))
	}
	res, runErr := scenario.Run(s, opts...)
	if simJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
		return runErr
	}
	_, _ = fmt.Fprintf(out, "scenario %s: %d ticks, policy %s\n", res.Name, res.Status.Tick, res.Status.Policy)
	writeCars(out, res.Status.Cars)
	if len(res.Rejected) > 0 {
		_, _ = fmt.Fprintf(out, "rejected steps: %v\n", res.Rejected)
	}
	writeSummary(out, res.KPI)
	return runErr
}
