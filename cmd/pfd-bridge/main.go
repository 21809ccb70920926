package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eytandecker/pfd-bridge/internal/config"
	"github.com/eytandecker/pfd-bridge/internal/sim"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pfd-bridge:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pfd-bridge",
		Short: "Stream simulation telemetry to a primary flight display over MAVLink",
		Long: `pfd-bridge converts per-step simulation signals (attitude, airspeed,
battery, navigation) into MAVLink 2 frames and sends them as UDP datagrams
to a primary flight display.

Configuration is read from environment variables (PFD_HOST, PFD_PORT,
MAVLINK_SYSTEM_ID, STEP_INTERVAL, ...) and may be overridden by flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newEncodeCmd(), newInspectCmd())
	return root
}

// newSource picks the replay scenario when one is configured, otherwise the
// synthetic profile.
func newSource(cfg config.Config) (sim.Source, error) {
	if cfg.Stepping.ScenarioFile == "" {
		return sim.NewSynthetic(cfg.Stepping.Interval.Seconds()), nil
	}
	sc, err := sim.LoadScenario(cfg.Stepping.ScenarioFile)
	if err != nil {
		return nil, err
	}
	return sim.NewReplay(sc), nil
}
