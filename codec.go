package relaycontrol

import "fmt"

func newFrame(op Opcode, b5, b6, checksum byte) Frame {
	return Frame{markerHi, markerLo, byte(op), 0, 0, b5, b6, checksum}
}

// EncodeSetAll builds the frame that switches every relay to state.
func EncodeSetAll(state RelayState) Frame {
	if state == On {
		return newFrame(OpSetAll, 0xFF, 0xFF, checksumAllOn)
	}
	return newFrame(OpSetAll, 0x00, 0x00, checksumAllOff)
}

// EncodeSetRelay builds the frame that switches a single relay.
func EncodeSetRelay(relay RelayNumber, state RelayState) (Frame, error) {
	if !relay.Valid() {
		return Frame{}, fmt.Errorf("%w: %d", ErrInvalidRelay, relay)
	}
	r := byte(relay)
	if state == On {
		return newFrame(OpRelayOn, 0, payloadRelayOn+r, checksumRelayOn+r), nil
	}
	return newFrame(OpRelayOff, 0, payloadRelayOff+r, checksumRelayOff+r), nil
}

// EncodeQuery builds the status request frame.
func EncodeQuery() Frame {
	return newFrame(OpQuery, 0, 0, checksumQuery)
}

// DecodeStates decodes a status response into the state of all 16 relays,
// ordered by relay number. Bytes 5 and 6 are swapped on the wire: byte 6
// holds relays 0-7 and byte 5 relays 8-15.
func DecodeStates(resp []byte) ([]RelayState, error) {
	if len(resp) != FrameSize {
		return nil, fmt.Errorf("%w: got %d", ErrFrameLength, len(resp))
	}
	bits := uint16(resp[6]) | uint16(resp[5])<<8
	states := make([]RelayState, RelayCount)
	for i := range states {
		if bits&(1<<i) != 0 {
			states[i] = On
		}
	}
	return states, nil
}

// Bitfield packs states into the board's bit order, relay 0 in the least
// significant bit. Entries past the 16th are ignored.
func Bitfield(states []RelayState) uint16 {
	var bits uint16
	for i, s := range states {
		if i >= RelayCount {
			break
		}
		if s == On {
			bits |= 1 << i
		}
	}
	return bits
}

// EncodeStatus builds a status response as the board would send it. The
// checksum of responses is undocumented and left zero.
func EncodeStatus(states []RelayState) Frame {
	bits := Bitfield(states)
	return newFrame(OpQuery, byte(bits>>8), byte(bits), 0)
}

// DecodeCommand parses and verifies a command frame.
func DecodeCommand(b []byte) (Command, error) {
	if len(b) != FrameSize {
		return Command{}, fmt.Errorf("%w: got %d", ErrFrameLength, len(b))
	}
	var f Frame
	copy(f[:], b)
	if f[0] != markerHi || f[1] != markerLo {
		return Command{}, fmt.Errorf("%w: % X", ErrBadMarker, f[:2])
	}

	var want Frame
	cmd := Command{Op: f.Opcode()}
	switch cmd.Op {
	case OpQuery:
		want = EncodeQuery()
	case OpSetAll:
		cmd.All = true
		if f[5] == 0xFF && f[6] == 0xFF {
			cmd.State = On
		}
		want = EncodeSetAll(cmd.State)
	case OpRelayOff, OpRelayOn:
		base := payloadRelayOff
		if cmd.Op == OpRelayOn {
			cmd.State = On
			base = payloadRelayOn
		}
		if f[6] < base || !RelayNumber(f[6]-base).Valid() {
			return Command{}, fmt.Errorf("%w: payload 0x%02X", ErrInvalidRelay, f[6])
		}
		cmd.Relay = RelayNumber(f[6] - base)
		want, _ = EncodeSetRelay(cmd.Relay, cmd.State)
	default:
		return Command{}, fmt.Errorf("%w: 0x%02X", ErrUnknownOpcode, f[2])
	}

	if f.Checksum() != want.Checksum() {
		return Command{}, fmt.Errorf("%w: got 0x%02X, want 0x%02X", ErrChecksum, f.Checksum(), want.Checksum())
	}
	if f != want {
		return Command{}, fmt.Errorf("%w: got %s, want %s", ErrPayload, f, want)
	}
	return cmd, nil
}
