package relaycontrol

import "fmt"

// RelayState is the switching state of one relay.
type RelayState uint8

const (
	Off RelayState = iota
	On
)

// RelayNumber is the zero-based index of a relay, 0 to 15.
type RelayNumber uint8

// Valid reports whether r addresses a relay on the board.
func (r RelayNumber) Valid() bool {
	return r < RelayCount
}

// AllRelays returns every relay number in ascending order.
func AllRelays() []RelayNumber {
	relays := make([]RelayNumber, RelayCount)
	for i := range relays {
		relays[i] = RelayNumber(i)
	}
	return relays
}

// Opcode is byte 2 of a command frame.
type Opcode uint8

func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Opcode(0x%02X)", uint8(o))
}

// Frame is one fixed length request or response on the wire.
type Frame [FrameSize]byte

func (f Frame) Opcode() Opcode {
	return Opcode(f[2])
}

func (f Frame) Checksum() byte {
	return f[7]
}

func (f Frame) String() string {
	return fmt.Sprintf("% X", f[:])
}

// Command is a decoded command frame. Relay is meaningless when All is set,
// and State is meaningless for OpQuery.
type Command struct {
	Op    Opcode
	Relay RelayNumber
	State RelayState
	All   bool
}

// SessionState is the lifecycle state of a Board.
type SessionState uint8

const (
	Unconnected SessionState = iota
	Connected
	Closed
)

func (s SessionState) String() string {
	if name, ok := sessionStates[s]; ok {
		return name
	}
	return fmt.Sprintf("SessionState(%d)", uint8(s))
}
