package bridge

import (
	"context"
	"net"

	"github.com/eytandecker/pfd-bridge/internal/mavlink"
	"github.com/eytandecker/pfd-bridge/internal/transport"
	"github.com/eytandecker/pfd-bridge/pkg/types"
)

// State is the dispatcher lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateActive
)

func (s State) String() string {
	if s == StateActive {
		return "active"
	}
	return "idle"
}

// Observer is notified of every send attempt. Implementations must not block.
type Observer interface {
	FrameSent(kind string, bytes int)
	SendFailed(kind string, err error)
}

// OpenFunc acquires the transport session at run start.
type OpenFunc func(ctx context.Context, destination string) (*transport.Session, error)

// Config holds the destination and framing identity for a run.
type Config struct {
	Destination string
	Identity    mavlink.Identity
}

// dispatchOrder is the fixed per-step send order.
var dispatchOrder = []struct {
	kind  mavlink.Kind
	build func(types.InputFrame) mavlink.Message
}{
	{mavlink.KindVFRHUD, func(f types.InputFrame) mavlink.Message { return mavlink.NewVFRHUD(f) }},
	{mavlink.KindAttitude, func(f types.InputFrame) mavlink.Message { return mavlink.NewAttitude(f) }},
	{mavlink.KindAoaSsa, func(f types.InputFrame) mavlink.Message { return mavlink.NewAoaSsa(f) }},
	{mavlink.KindBatteryStatus, func(f types.InputFrame) mavlink.Message { return mavlink.NewBatteryStatus(f) }},
	{mavlink.KindNavControllerOutput, func(f types.InputFrame) mavlink.Message { return mavlink.NewNavControllerOutput(f) }},
}

// EncodeStep frames every message kind for f in dispatch order. Frame i
// carries sequence number seq+i, wrapping at 256.
func EncodeStep(id mavlink.Identity, seq uint8, f types.InputFrame) [][]byte {
	frames := make([][]byte, len(dispatchOrder))
	for i, m := range dispatchOrder {
		frames[i] = mavlink.Encode(id, seq+uint8(i), m.build(f)) //nolint:gosec // five kinds
	}
	return frames
}

// Kinds returns the message kinds in the order each step sends them.
func Kinds() []mavlink.Kind {
	out := make([]mavlink.Kind, len(dispatchOrder))
	for i, d := range dispatchOrder {
		out[i] = d.kind
	}
	return out
}

// Dispatcher turns one InputFrame per simulation step into MAVLink frames and
// sends them over the session it owns. It is driven from a single goroutine.
type Dispatcher struct {
	cfg      Config
	open     OpenFunc
	observer Observer

	session *transport.Session
	state   State
	seq     uint8
	steps   uint64
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithOpener replaces transport.Open, e.g. to inject a fake connection.
func WithOpener(open OpenFunc) Option {
	return func(d *Dispatcher) { d.open = open }
}

// WithObserver registers an observer for send outcomes.
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) { d.observer = o }
}

// New creates an idle Dispatcher.
func New(cfg Config, opts ...Option) *Dispatcher {
	d := &Dispatcher{cfg: cfg, open: transport.Open}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns the current lifecycle state.
func (d *Dispatcher) State() State {
	return d.state
}

// Steps returns the number of steps dispatched while active.
func (d *Dispatcher) Steps() uint64 {
	return d.steps
}

// FramesPerStep returns the number of frames every step sends.
func (d *Dispatcher) FramesPerStep() int {
	return len(dispatchOrder)
}

// Destination returns the session's resolved destination, or nil when idle.
func (d *Dispatcher) Destination() net.Addr {
	if d.session == nil {
		return nil
	}
	return d.session.Destination()
}

// OnRunStart opens the transport session. A failure wraps
// transport.ErrTransportUnavailable and leaves the dispatcher idle.
func (d *Dispatcher) OnRunStart(ctx context.Context) error {
	if d.state == StateActive {
		return ErrAlreadyActive
	}
	s, err := d.open(ctx, d.cfg.Destination)
	if err != nil {
		return err
	}
	d.session = s
	d.state = StateActive
	return nil
}

// OnStep encodes and sends every message kind for frame, in fixed order. A
// failed send does not stop the remaining kinds; all failures of the step are
// returned together as a *types.StepError.
func (d *Dispatcher) OnStep(frame types.InputFrame) error {
	if d.state != StateActive {
		return ErrNotActive
	}
	d.steps++

	frames := EncodeStep(d.cfg.Identity, d.seq, frame)
	d.seq += uint8(len(frames)) //nolint:gosec // five kinds

	var failures []types.SendFailure
	for i, buf := range frames {
		kind := dispatchOrder[i].kind.String()
		n, err := d.session.Send(buf)
		if err != nil {
			failures = append(failures, types.SendFailure{Kind: kind, Err: err})
			if d.observer != nil {
				d.observer.SendFailed(kind, err)
			}
			continue
		}
		if d.observer != nil {
			d.observer.FrameSent(kind, n)
		}
	}

	if len(failures) > 0 {
		return &types.StepError{Step: d.steps, Attempts: len(frames), Failures: failures}
	}
	return nil
}

// OnRunEnd closes the session. It is a no-op when already idle.
func (d *Dispatcher) OnRunEnd() {
	d.session.Close()
	d.session = nil
	d.state = StateIdle
}
