package main

import (
	"context"
	"errors"
	"net"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eytandecker/pfd-bridge/internal/config"
	"github.com/eytandecker/pfd-bridge/internal/mavlink"
	"github.com/eytandecker/pfd-bridge/internal/observability"
)

func newInspectCmd() *cobra.Command {
	cfg := config.Load()
	listen := cfg.Display.Address()

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Listen where the display would and log every decoded frame",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, cancel := signal.NotifyContext(parent, syscall.SIGTERM, syscall.SIGINT)
			defer cancel()

			logger := observability.SetupLogger(cfg.Log)
			defer func() { _ = logger.Sync() }()
			return inspect(ctx, listen, logger)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", listen, "UDP address to receive frames on")
	return cmd
}

func inspect(ctx context.Context, addr string, logger *zap.Logger) error {
	var lc net.ListenConfig
	conn, err := lc.ListenPacket(ctx, "udp", addr)
	if err != nil {
		return err
	}
	return inspectConn(ctx, conn, logger)
}

// inspectConn decodes datagrams from conn until ctx is done, then closes it.
func inspectConn(ctx context.Context, conn net.PacketConn, logger *zap.Logger) error {
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()
	logger.Info("inspecting", zap.String("listen", conn.LocalAddr().String()))

	buf := make([]byte, 64*1024)
	for {
		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		h, msg, err := mavlink.Decode(buf[:n])
		if err != nil {
			logger.Warn("undecodable datagram", zap.Stringer("from", from), zap.Int("bytes", n), zap.Error(err))
			continue
		}
		logger.Info("frame",
			zap.Stringer("kind", h.MsgID),
			zap.Uint8("seq", h.Seq),
			zap.Uint8("sysid", h.SystemID),
			zap.Uint8("compid", h.ComponentID),
			zap.Bool("trimmed", n < h.MsgID.FrameLen()),
			zap.Any("message", msg),
		)
	}
}
