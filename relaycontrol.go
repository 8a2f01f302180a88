package relaycontrol

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Board is a session with one relay board over a single TCP connection.
//
// A Board is not safe for concurrent use. Every operation is a synchronous
// write, and for queries a blocking read, so interleaved operations would
// corrupt the fixed length framing. Callers sharing a Board must serialize
// access themselves.
type Board struct {
	addr    string
	conn    net.Conn
	state   SessionState
	opts    *boardOptions
	limiter *rate.Limiter
}

// NewBoard returns an unconnected session for the board at host:port.
func NewBoard(host string, port int, opts ...Option) *Board {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	limit := rate.Inf
	if o.relayDelay > 0 {
		limit = rate.Every(o.relayDelay)
	}
	return &Board{
		addr:    net.JoinHostPort(host, strconv.Itoa(port)),
		state:   Unconnected,
		opts:    o,
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (b *Board) Addr() string {
	return b.addr
}

func (b *Board) State() SessionState {
	return b.state
}

// Connect opens the TCP connection. A zero timeout waits as long as the
// operating system allows. On failure the session stays Unconnected and
// Connect may be called again.
func (b *Board) Connect(timeout time.Duration) error {
	if b.state != Unconnected {
		return &PreconditionError{Op: "connect", State: b.state}
	}
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	conn, err := b.opts.dial(ctx, "tcp", b.addr)
	b.opts.metrics.connect(err)
	if err != nil {
		LogWarn(allRelays, "Connect", fmt.Sprintf("Board %s not reachable: %v", b.addr, err))
		return &ConnectionError{Addr: b.addr, Err: err}
	}
	b.conn = conn
	b.state = Connected
	LogInfo(allRelays, "Connect", fmt.Sprintf("Connected to board %s", b.addr))
	return nil
}

// Close releases the connection. Calling it again is a no-op. A closed
// Board cannot be reconnected.
func (b *Board) Close() error {
	switch b.state {
	case Closed:
		return nil
	case Unconnected:
		b.state = Closed
		return nil
	}
	b.state = Closed
	err := b.conn.Close()
	b.conn = nil
	if err != nil {
		return &TransportError{Op: "close", Err: err}
	}
	LogInfo(allRelays, "Close", fmt.Sprintf("Disconnected from board %s", b.addr))
	return nil
}

// SetAllRelays switches every relay to state and returns the states the
// board reports afterwards.
func (b *Board) SetAllRelays(state RelayState) ([]RelayState, error) {
	if err := b.require("set all relays"); err != nil {
		return nil, err
	}
	if err := b.send(EncodeSetAll(state), "SetAll", allRelays); err != nil {
		return nil, err
	}
	return b.queryStates()
}

// SetRelay switches a single relay. Setting a relay to the state it
// already has changes nothing on the board.
func (b *Board) SetRelay(relay RelayNumber, state RelayState) error {
	return b.SetRelays(state, relay)
}

// SetRelays switches the given relays one frame at a time, in order. The
// protocol has no multi relay command other than SetAllRelays.
func (b *Board) SetRelays(state RelayState, relays ...RelayNumber) error {
	if err := b.require("set relays"); err != nil {
		return err
	}
	frames, err := encodeRelays(state, relays)
	if err != nil {
		return err
	}
	for i, f := range frames {
		if err := b.send(f, "Set"+state.String(), int(relays[i])); err != nil {
			return err
		}
	}
	return nil
}

// ToggleRelays inverts the given relays. The current states are read once
// before any relay is switched; changes made to the board by someone else
// in between are not noticed. Re-query to observe the result.
//
// Example, with relays 0 and 1 off and all others on:
//
//	ToggleRelays(0, 1, 15) // sends 0->ON, 1->ON, 15->OFF
func (b *Board) ToggleRelays(relays ...RelayNumber) error {
	if err := b.require("toggle relays"); err != nil {
		return err
	}
	if err := validateRelays(relays); err != nil {
		return err
	}
	current, err := b.queryStates()
	if err != nil {
		return err
	}
	for _, relay := range relays {
		next := current[relay].Toggle()
		f, _ := EncodeSetRelay(relay, next)
		if err := b.send(f, "Toggle", int(relay)); err != nil {
			return err
		}
	}
	return nil
}

// GetAllStates returns the state of all 16 relays ordered by relay number.
// Bytes left unread on the connection are discarded before querying.
func (b *Board) GetAllStates() ([]RelayState, error) {
	if err := b.require("get all states"); err != nil {
		return nil, err
	}
	return b.queryStates()
}

// GetRelayStates returns the states of the given relays in the given order.
// The board is always queried as a whole.
func (b *Board) GetRelayStates(relays ...RelayNumber) ([]RelayState, error) {
	if err := b.require("get relay states"); err != nil {
		return nil, err
	}
	if err := validateRelays(relays); err != nil {
		return nil, err
	}
	all, err := b.queryStates()
	if err != nil {
		return nil, err
	}
	states := make([]RelayState, len(relays))
	for i, relay := range relays {
		states[i] = all[relay]
	}
	return states, nil
}

// TouchRelay sets the relays to state and holds for the given duration.
// The board has no timed command, so reverting after the hold is up to the
// caller.
func (b *Board) TouchRelay(state RelayState, hold time.Duration, relays ...RelayNumber) error {
	if err := b.SetRelays(state, relays...); err != nil {
		return err
	}
	LogDebug(allRelays, "Touch", fmt.Sprintf("Holding %d relay(s) %s for %s", len(relays), state, hold))
	time.Sleep(hold)
	return nil
}
