package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/eytandecker/pfd-bridge/internal/bridge"
	"github.com/eytandecker/pfd-bridge/internal/state"
	"github.com/eytandecker/pfd-bridge/internal/transport"
	"github.com/eytandecker/pfd-bridge/pkg/types"
)

// StatusGetter is the subset of state.Manager used by the MCP server.
type StatusGetter interface {
	GetStatus() (types.StepReport, error)
	Totals() state.Totals
}

// Server wraps the MCP SDK server and exposes the bridge status as a tool.
type Server struct {
	sdk         *mcpsdk.Server
	status      StatusGetter
	destination string
}

// NewServer creates a Server and registers the get_bridge_status tool.
func NewServer(sg StatusGetter, destination string) *Server {
	s := &Server{
		sdk: mcpsdk.NewServer(&mcpsdk.Implementation{
			Name:    "pfd-bridge",
			Version: "1.0.0",
		}, nil),
		status:      sg,
		destination: destination,
	}

	tool := &mcpsdk.Tool{
		Name:        "get_bridge_status",
		Description: "Returns the telemetry bridge's last simulation step, send failures, and run totals for the flight display link.",
	}
	mcpsdk.AddTool(s.sdk, tool, s.handleGetBridgeStatus)
	return s
}

// Run starts the MCP server over stdio and blocks until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.sdk.Run(ctx, &mcpsdk.StdioTransport{})
}

// Connect connects the server to an existing transport (used in tests).
func (s *Server) Connect(ctx context.Context, t mcpsdk.Transport) (*mcpsdk.ServerSession, error) {
	return s.sdk.Connect(ctx, t, nil)
}

// getStatusInput holds arguments for the get_bridge_status tool.
type getStatusInput struct {
	IncludeFrame bool `json:"include_frame,omitempty"`
}

// FrameResponse mirrors the step's input signals.
type FrameResponse struct {
	RollRad             float64 `json:"roll_rad"`
	PitchRad            float64 `json:"pitch_rad"`
	YawRad              float64 `json:"yaw_rad"`
	AirspeedMS          float64 `json:"airspeed_ms"`
	GroundspeedMS       float64 `json:"groundspeed_ms"`
	NavHeading          float64 `json:"nav_heading"`
	AngleOfAttackRad    float64 `json:"angle_of_attack_rad"`
	SideslipRad         float64 `json:"sideslip_rad"`
	ClimbRateMS         float64 `json:"climb_rate_ms"`
	AltitudeM           float64 `json:"altitude_m"`
	BatteryRemainingPct float64 `json:"battery_remaining_pct"`
	BatteryCurrentA     float64 `json:"battery_current_a"`
	BatteryVoltageV     float64 `json:"battery_voltage_v"`
	NavRollRad          float64 `json:"nav_roll_rad"`
	NavPitchRad         float64 `json:"nav_pitch_rad"`
	NavBearing          float64 `json:"nav_bearing"`
}

// BridgeStatusResponse is the JSON payload returned on success.
type BridgeStatusResponse struct {
	Destination      string         `json:"destination"`
	Step             uint64         `json:"step"`
	FramesSent       int            `json:"frames_sent"`
	FailedKinds      []string       `json:"failed_kinds,omitempty"`
	StepError        string         `json:"step_error,omitempty"`
	StepsTotal       uint64         `json:"steps_total"`
	FailedStepsTotal uint64         `json:"failed_steps_total"`
	FramesSentTotal  uint64         `json:"frames_sent_total"`
	Frame            *FrameResponse `json:"frame,omitempty"`
	Timestamp        string         `json:"timestamp"`
}

// BridgeUnavailableResponse is returned when no step status can be provided.
type BridgeUnavailableResponse struct {
	Available   bool   `json:"available"`
	Error       string `json:"error"`
	Code        string `json:"code"`
	Recoverable bool   `json:"recoverable"`
	Suggestion  string `json:"suggestion"`
	Timestamp   string `json:"timestamp"`
}

func (s *Server) handleGetBridgeStatus(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	input getStatusInput,
) (*mcpsdk.CallToolResult, any, error) {
	report, err := s.status.GetStatus()
	if err != nil {
		return s.errorResult(err), nil, nil
	}
	totals := s.status.Totals()

	resp := BridgeStatusResponse{
		Destination:      s.destination,
		Step:             report.Step,
		FramesSent:       report.FramesSent,
		StepsTotal:       totals.Steps,
		FailedStepsTotal: totals.FailedSteps,
		FramesSentTotal:  totals.FramesSent,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
	}
	if report.Err != nil {
		resp.StepError = report.Err.Error()
		var stepErr *types.StepError
		if errors.As(report.Err, &stepErr) {
			resp.FailedKinds = stepErr.Kinds()
		}
	}
	if input.IncludeFrame {
		resp.Frame = frameResponse(report.Frame)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return nil, nil, err
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, nil, nil
}

func frameResponse(f types.InputFrame) *FrameResponse {
	return &FrameResponse{
		RollRad:             f.Attitude[0],
		PitchRad:            f.Attitude[1],
		YawRad:              f.Attitude[2],
		AirspeedMS:          f.Airspeed,
		GroundspeedMS:       f.Groundspeed,
		NavHeading:          f.NavHeading,
		AngleOfAttackRad:    f.AngleOfAttack,
		SideslipRad:         f.SideslipAngle,
		ClimbRateMS:         f.ClimbRate,
		AltitudeM:           f.Altitude,
		BatteryRemainingPct: f.BatteryRemainingPct,
		BatteryCurrentA:     f.BatteryCurrentA,
		BatteryVoltageV:     f.BatteryVoltageV,
		NavRollRad:          f.NavAttitude[0],
		NavPitchRad:         f.NavAttitude[1],
		NavBearing:          f.NavAttitude[2],
	}
}

func (s *Server) errorResult(err error) *mcpsdk.CallToolResult {
	resp := BridgeUnavailableResponse{
		Available: false,
		Error:     err.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	switch {
	case errors.Is(err, state.ErrStale):
		resp.Code = "DATA_STALE"
		resp.Recoverable = true
		resp.Suggestion = "Wait for the simulation to step the bridge."
	case errors.Is(err, transport.ErrTransportUnavailable):
		resp.Code = "TRANSPORT_UNAVAILABLE"
		resp.Recoverable = false
		resp.Suggestion = "Check PFD_HOST and PFD_PORT, then restart the run."
	case errors.Is(err, bridge.ErrNotActive):
		resp.Code = "BRIDGE_NOT_ACTIVE"
		resp.Recoverable = true
		resp.Suggestion = "Start a run before stepping the bridge."
	default:
		resp.Code = "UNKNOWN_ERROR"
		resp.Recoverable = false
		resp.Suggestion = "Check application logs for details."
	}

	data, _ := json.Marshal(resp)
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
		IsError: true,
	}
}
