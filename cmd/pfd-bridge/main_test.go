package main

import (
	"bytes"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/eytandecker/pfd-bridge/internal/mavlink"
	"github.com/eytandecker/pfd-bridge/pkg/types"
)

func TestEncodeCommandPrintsOneStep(t *testing.T) {
	t.Setenv("SCENARIO_FILE", "")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"encode"})
	require.NoError(t, root.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)

	wantPrefix := []string{"VFR_HUD", "ATTITUDE", "AOA_SSA", "BATTERY_STATUS", "NAV_CONTROLLER_OUTPUT"}
	wantLen := []string{"32", "40", "28", "66", "38"}
	for i, line := range lines {
		fields := strings.Fields(line)
		require.Len(t, fields, 3, line)
		assert.Equal(t, wantPrefix[i], fields[0])
		assert.Equal(t, wantLen[i], fields[1])
		assert.True(t, strings.HasPrefix(fields[2], "fd"), line)
	}
}

func TestInspectDecodesFrames(t *testing.T) {
	conn, err := net.ListenPacket("udp4", "127.0.0.1:0")
	require.NoError(t, err)

	core, logs := observer.New(zap.InfoLevel)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- inspectConn(ctx, conn, zap.New(core)) }()

	tx, err := net.Dial("udp4", conn.LocalAddr().String())
	require.NoError(t, err)
	defer tx.Close()

	frame := types.InputFrame{BatteryVoltageV: 12.6, BatteryCurrentA: 3.5, BatteryRemainingPct: 80}
	_, err = tx.Write(mavlink.Encode(mavlink.DefaultIdentity, 9, mavlink.NewBatteryStatus(frame)))
	require.NoError(t, err)
	_, err = tx.Write([]byte{0x01, 0x02, 0x03})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return logs.FilterMessage("frame").Len() == 1 && logs.FilterMessage("undecodable datagram").Len() == 1
	}, 2*time.Second, 10*time.Millisecond)

	entry := logs.FilterMessage("frame").All()[0]
	assert.Equal(t, "BATTERY_STATUS", entry.ContextMap()["kind"])
	assert.Equal(t, uint8(9), entry.ContextMap()["seq"])
	assert.Equal(t, false, entry.ContextMap()["trimmed"])

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("inspect did not stop after cancel")
	}
}
