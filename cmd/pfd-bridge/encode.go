package main

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eytandecker/pfd-bridge/internal/bridge"
	"github.com/eytandecker/pfd-bridge/internal/config"
	"github.com/eytandecker/pfd-bridge/internal/mavlink"
	"github.com/eytandecker/pfd-bridge/pkg/types"
)

func newEncodeCmd() *cobra.Command {
	cfg := config.Load()

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the frames of the first step as hex without sending them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := newSource(cfg)
			if err != nil {
				return err
			}
			frame, ok := src.Next()
			if !ok {
				return errors.New("source produced no frames")
			}
			id := mavlink.Identity{SystemID: cfg.MAVLink.SystemID, ComponentID: cfg.MAVLink.ComponentID}
			return printStep(cmd, id, frame)
		},
	}
	cmd.Flags().StringVar(&cfg.Stepping.ScenarioFile, "scenario", cfg.Stepping.ScenarioFile, "YAML replay scenario (default: synthetic profile)")
	return cmd
}

func printStep(cmd *cobra.Command, id mavlink.Identity, frame types.InputFrame) error {
	kinds := bridge.Kinds()
	out := cmd.OutOrStdout()
	for i, data := range bridge.EncodeStep(id, 0, frame) {
		if _, err := fmt.Fprintf(out, "%-22s %3d  %s\n", kinds[i], len(data), hex.EncodeToString(data)); err != nil {
			return err
		}
	}
	return nil
}
