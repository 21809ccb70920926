package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eytandecker/pfd-bridge/internal/bridge"
	internalmcp "github.com/eytandecker/pfd-bridge/internal/mcp"
	"github.com/eytandecker/pfd-bridge/internal/state"
	"github.com/eytandecker/pfd-bridge/internal/transport"
	"github.com/eytandecker/pfd-bridge/pkg/types"
)

// mockStatusGetter controls what GetStatus returns in tests.
type mockStatusGetter struct {
	report types.StepReport
	totals state.Totals
	err    error
}

func (m *mockStatusGetter) GetStatus() (types.StepReport, error) {
	return m.report, m.err
}

func (m *mockStatusGetter) Totals() state.Totals {
	return m.totals
}

var sampleReport = types.StepReport{
	Step: 42,
	Frame: types.InputFrame{
		Attitude:            types.Vec3{0.1, 0.05, 1.2},
		Airspeed:            30.5,
		Groundspeed:         28.0,
		NavHeading:          1.2,
		Altitude:            410,
		BatteryRemainingPct: 80,
		BatteryCurrentA:     3.5,
		BatteryVoltageV:     12.6,
		NavAttitude:         types.Vec3{0.2, 0.03, 1.4},
	},
	FramesSent: 5,
}

var sampleTotals = state.Totals{Steps: 42, FailedSteps: 1, FramesSent: 209}

// callTool connects the MCP server via in-memory transports and calls the tool.
func callTool(t *testing.T, sg internalmcp.StatusGetter, args map[string]any) map[string]any {
	t.Helper()
	ctx := context.Background()

	srv := internalmcp.NewServer(sg, "127.0.0.1:5760")
	st, ct := mcpsdk.NewInMemoryTransports()

	_, err := srv.Connect(ctx, st)
	require.NoError(t, err)

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test", Version: "1.0"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })

	res, err := cs.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      "get_bridge_status",
		Arguments: args,
	})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)

	text := res.Content[0].(*mcpsdk.TextContent).Text
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &m))
	m["_is_error"] = res.IsError
	return m
}

func TestGetBridgeStatusSuccess(t *testing.T) {
	m := callTool(t, &mockStatusGetter{report: sampleReport, totals: sampleTotals}, nil)

	assert.Equal(t, false, m["_is_error"])
	assert.Equal(t, "127.0.0.1:5760", m["destination"])
	assert.InDelta(t, 42, m["step"].(float64), 0)
	assert.InDelta(t, 5, m["frames_sent"].(float64), 0)
	assert.InDelta(t, 42, m["steps_total"].(float64), 0)
	assert.InDelta(t, 1, m["failed_steps_total"].(float64), 0)
	assert.InDelta(t, 209, m["frames_sent_total"].(float64), 0)
	_, hasFrame := m["frame"]
	assert.False(t, hasFrame, "frame should be omitted by default")
	_, hasErr := m["step_error"]
	assert.False(t, hasErr)

	ts, ok := m["timestamp"].(string)
	require.True(t, ok)
	parsed, err := time.Parse(time.RFC3339, ts)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), parsed, 5*time.Second)
}

func TestGetBridgeStatusWithFrame(t *testing.T) {
	m := callTool(t, &mockStatusGetter{report: sampleReport}, map[string]any{"include_frame": true})

	frame, ok := m["frame"].(map[string]any)
	require.True(t, ok, "frame should be present when include_frame=true")
	assert.InDelta(t, 0.1, frame["roll_rad"].(float64), 1e-9)
	assert.InDelta(t, 30.5, frame["airspeed_ms"].(float64), 1e-9)
	assert.InDelta(t, 12.6, frame["battery_voltage_v"].(float64), 1e-9)
	assert.InDelta(t, 1.4, frame["nav_bearing"].(float64), 1e-9)
}

func TestGetBridgeStatusReportsFailedKinds(t *testing.T) {
	report := sampleReport
	report.FramesSent = 4
	report.Err = &types.StepError{
		Step:     42,
		Attempts: 5,
		Failures: []types.SendFailure{{Kind: "BATTERY_STATUS", Err: transport.ErrSendFailed}},
	}
	m := callTool(t, &mockStatusGetter{report: report}, nil)

	assert.Equal(t, false, m["_is_error"])
	assert.Equal(t, []any{"BATTERY_STATUS"}, m["failed_kinds"])
	assert.Contains(t, m["step_error"], "BATTERY_STATUS")
}

func TestGetBridgeStatusErrors(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		wantCode        string
		wantRecoverable bool
	}{
		{"stale", state.ErrStale, "DATA_STALE", true},
		{"transport unavailable", fmt.Errorf("%w: resolve", transport.ErrTransportUnavailable), "TRANSPORT_UNAVAILABLE", false},
		{"not active", bridge.ErrNotActive, "BRIDGE_NOT_ACTIVE", true},
		{"unknown", errors.New("some unexpected error"), "UNKNOWN_ERROR", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := callTool(t, &mockStatusGetter{err: tt.err}, nil)

			assert.Equal(t, true, m["_is_error"])
			assert.Equal(t, tt.wantCode, m["code"])
			assert.Equal(t, tt.wantRecoverable, m["recoverable"])
			assert.Equal(t, false, m["available"])
		})
	}
}
