package relaycontrol

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

func (b *Board) require(op string) error {
	if b.state != Connected {
		return &PreconditionError{Op: op, State: b.state}
	}
	return nil
}

func validateRelays(relays []RelayNumber) error {
	for _, relay := range relays {
		if !relay.Valid() {
			return fmt.Errorf("%w: %d", ErrInvalidRelay, relay)
		}
	}
	return nil
}

// encodeRelays builds every frame up front so that an invalid relay number
// fails before anything is written.
func encodeRelays(state RelayState, relays []RelayNumber) ([]Frame, error) {
	frames := make([]Frame, 0, len(relays))
	for _, relay := range relays {
		f, err := EncodeSetRelay(relay, state)
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// pace blocks until the configured relay delay has passed since the
// previous frame.
func (b *Board) pace() {
	if b.opts.relayDelay <= 0 {
		return
	}
	time.Sleep(b.limiter.Reserve().Delay())
}

func (b *Board) send(f Frame, action string, relay int) error {
	b.pace()
	if b.opts.writeTimeout > 0 {
		if err := b.conn.SetWriteDeadline(time.Now().Add(b.opts.writeTimeout)); err != nil {
			return b.transportError("write", err)
		}
	}
	if _, err := b.conn.Write(f[:]); err != nil {
		LogError(relay, action, fmt.Sprintf("Sending %s failed: %v", f, err))
		return b.transportError("write", err)
	}
	b.opts.metrics.frameSent(f.Opcode())
	LogDebug(relay, action, "Sent "+f.String())
	return nil
}

// drain discards whatever the board sent that nobody read. The protocol has
// no message boundaries besides the fixed length, so stale bytes would
// shift the next response.
func (b *Board) drain() error {
	if err := b.conn.SetReadDeadline(time.Now().Add(b.opts.drainWindow)); err != nil {
		return b.transportError("drain", err)
	}
	var buf [64]byte
	total := 0
	for {
		n, err := b.conn.Read(buf[:])
		total += n
		if err == nil {
			continue
		}
		if errors.Is(err, os.ErrDeadlineExceeded) {
			break
		}
		return b.transportError("drain", err)
	}
	if total > 0 {
		b.opts.metrics.drained(total)
		LogDebug(allRelays, "Query", fmt.Sprintf("Discarded %d stale byte(s)", total))
	}
	if err := b.conn.SetReadDeadline(time.Time{}); err != nil {
		return b.transportError("drain", err)
	}
	return nil
}

func (b *Board) readResponse() (Frame, error) {
	var f Frame
	if b.opts.readTimeout > 0 {
		if err := b.conn.SetReadDeadline(time.Now().Add(b.opts.readTimeout)); err != nil {
			return f, b.transportError("read", err)
		}
	}
	if _, err := io.ReadFull(b.conn, f[:]); err != nil {
		LogError(allRelays, "Query", fmt.Sprintf("Reading status from %s failed: %v", b.addr, err))
		return f, b.transportError("read", err)
	}
	if b.opts.readTimeout > 0 {
		if err := b.conn.SetReadDeadline(time.Time{}); err != nil {
			return f, b.transportError("read", err)
		}
	}
	LogDebug(allRelays, "Query", "Received "+f.String())
	return f, nil
}

func (b *Board) queryStates() ([]RelayState, error) {
	if err := b.drain(); err != nil {
		return nil, err
	}
	if err := b.send(EncodeQuery(), "Query", allRelays); err != nil {
		return nil, err
	}
	resp, err := b.readResponse()
	if err != nil {
		return nil, err
	}
	states, err := DecodeStates(resp[:])
	if err != nil {
		return nil, err
	}
	b.opts.metrics.statusRead()
	return states, nil
}

func (b *Board) transportError(op string, err error) error {
	b.opts.metrics.transportError(op)
	return &TransportError{Op: op, Err: err}
}
