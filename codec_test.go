package relaycontrol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeFixedFrames(t *testing.T) {
	assert.Equal(t, Frame{0x58, 0x01, 0x13, 0, 0, 0x00, 0x00, 0x6C}, EncodeSetAll(Off))
	assert.Equal(t, Frame{0x58, 0x01, 0x13, 0, 0, 0xFF, 0xFF, 0x6A}, EncodeSetAll(On))
	assert.Equal(t, Frame{0x58, 0x01, 0x10, 0, 0, 0x00, 0x00, 0x69}, EncodeQuery())
}

func TestEncodeSetRelay(t *testing.T) {
	tests := []struct {
		name  string
		relay RelayNumber
		state RelayState
		want  Frame
	}{
		{"relay 0 off", 0, Off, Frame{0x58, 0x01, 0x11, 0, 0, 0x00, 0x01, 0x6B}},
		{"relay 0 on", 0, On, Frame{0x58, 0x01, 0x12, 0, 0, 0x00, 0x02, 0x6C}},
		{"relay 7 off", 7, Off, Frame{0x58, 0x01, 0x11, 0, 0, 0x00, 0x08, 0x72}},
		{"relay 7 on", 7, On, Frame{0x58, 0x01, 0x12, 0, 0, 0x00, 0x09, 0x73}},
		{"relay 15 off", 15, Off, Frame{0x58, 0x01, 0x11, 0, 0, 0x00, 0x10, 0x7A}},
		{"relay 15 on", 15, On, Frame{0x58, 0x01, 0x12, 0, 0, 0x00, 0x11, 0x7B}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := EncodeSetRelay(tt.relay, tt.state)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f, "got %s", f)
		})
	}
}

func TestEncodeSetRelayChecksumFormula(t *testing.T) {
	for _, relay := range AllRelays() {
		off, err := EncodeSetRelay(relay, Off)
		require.NoError(t, err)
		on, err := EncodeSetRelay(relay, On)
		require.NoError(t, err)

		assert.Equal(t, byte(0x6B)+byte(relay), off.Checksum(), "relay %d off", relay)
		assert.Equal(t, byte(0x6C)+byte(relay), on.Checksum(), "relay %d on", relay)
		assert.Equal(t, OpRelayOff, off.Opcode())
		assert.Equal(t, OpRelayOn, on.Opcode())
		assert.Equal(t, 1+byte(relay), off[6])
		assert.Equal(t, 2+byte(relay), on[6])
	}
}

func TestEncodeSetRelayOutOfRange(t *testing.T) {
	_, err := EncodeSetRelay(16, On)
	assert.True(t, errors.Is(err, ErrInvalidRelay), "got %v", err)
}

func TestDecodeStates(t *testing.T) {
	t.Run("relay 0 is the low bit of byte 6", func(t *testing.T) {
		states, err := DecodeStates([]byte{0x58, 0x01, 0x10, 0, 0, 0x00, 0x01, 0})
		require.NoError(t, err)
		require.Len(t, states, RelayCount)
		assert.Equal(t, On, states[0])
		for _, s := range states[1:] {
			assert.Equal(t, Off, s)
		}
	})
	t.Run("byte 5 holds relays 8 to 15", func(t *testing.T) {
		states, err := DecodeStates([]byte{0, 0, 0, 0, 0, 0xFF, 0x00, 0})
		require.NoError(t, err)
		require.Len(t, states, RelayCount)
		for i, s := range states {
			if i < 8 {
				assert.Equal(t, Off, s, "relay %d", i)
			} else {
				assert.Equal(t, On, s, "relay %d", i)
			}
		}
	})
	t.Run("all off", func(t *testing.T) {
		states, err := DecodeStates(make([]byte, FrameSize))
		require.NoError(t, err)
		assert.Len(t, states, RelayCount)
		assert.Equal(t, uint16(0), Bitfield(states))
	})
}

func TestDecodeStatesLength(t *testing.T) {
	for _, n := range []int{0, 7, 9} {
		states, err := DecodeStates(make([]byte, n))
		assert.Nil(t, states)
		assert.True(t, errors.Is(err, ErrFrameLength), "len %d: got %v", n, err)
	}
}

func TestEncodeStatus(t *testing.T) {
	states := make([]RelayState, RelayCount)
	states[0] = On
	states[9] = On
	states[15] = On
	f := EncodeStatus(states)
	assert.Equal(t, byte(0x82), f[5])
	assert.Equal(t, byte(0x01), f[6])

	decoded, err := DecodeStates(f[:])
	require.NoError(t, err)
	assert.Equal(t, states, decoded)
}

func TestDecodeCommand(t *testing.T) {
	cmd, err := DecodeCommand([]byte{0x58, 0x01, 0x12, 0, 0, 0x00, 0x06, 0x70})
	require.NoError(t, err)
	assert.Equal(t, Command{Op: OpRelayOn, Relay: 4, State: On}, cmd)

	cmd, err = DecodeCommand([]byte{0x58, 0x01, 0x13, 0, 0, 0xFF, 0xFF, 0x6A})
	require.NoError(t, err)
	assert.Equal(t, Command{Op: OpSetAll, State: On, All: true}, cmd)

	// every frame the encoder can produce is accepted
	frames := []Frame{EncodeQuery(), EncodeSetAll(On), EncodeSetAll(Off)}
	for _, relay := range AllRelays() {
		for _, state := range []RelayState{On, Off} {
			f, err := EncodeSetRelay(relay, state)
			require.NoError(t, err)
			frames = append(frames, f)
		}
	}
	assert.Len(t, frames, 35)
	for _, f := range frames {
		_, err := DecodeCommand(f[:])
		assert.NoError(t, err, "frame %s", f)
	}
}

func TestDecodeCommandErrors(t *testing.T) {
	tests := []struct {
		name  string
		frame []byte
		want  error
	}{
		{"short", []byte{0x58, 0x01, 0x10}, ErrFrameLength},
		{"bad marker", []byte{0x59, 0x01, 0x10, 0, 0, 0, 0, 0x69}, ErrBadMarker},
		{"unknown opcode", []byte{0x58, 0x01, 0x20, 0, 0, 0, 0, 0x69}, ErrUnknownOpcode},
		{"bad checksum", []byte{0x58, 0x01, 0x10, 0, 0, 0, 0, 0x70}, ErrChecksum},
		{"relay out of range", []byte{0x58, 0x01, 0x11, 0, 0, 0x00, 0x11, 0x7B}, ErrInvalidRelay},
		{"relay payload below base", []byte{0x58, 0x01, 0x12, 0, 0, 0x00, 0x01, 0x6C}, ErrInvalidRelay},
		{"set all partial payload", []byte{0x58, 0x01, 0x13, 0, 0, 0xFF, 0x00, 0x6C}, ErrPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCommand(tt.frame)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}
