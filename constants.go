package relaycontrol

// RelayCount is the number of relays on the board. Only 16 channel boards are supported.
const RelayCount = 16

// FrameSize is the fixed length of every request and response frame.
const FrameSize = 8

const (
	markerHi = byte(0x58) // fixed preamble byte 0
	markerLo = byte(0x01) // fixed preamble byte 1
)

const (
	OpQuery    = Opcode(0x10) // Query the state of all relays
	OpRelayOff = Opcode(0x11) // Switch a single relay off
	OpRelayOn  = Opcode(0x12) // Switch a single relay on
	OpSetAll   = Opcode(0x13) // Switch all relays on or off
)

// Checksums are per-opcode constants, not a sum over the frame.
const (
	checksumQuery    = byte(0x69)
	checksumAllOn    = byte(0x6A)
	checksumAllOff   = byte(0x6C)
	checksumRelayOff = byte(0x6B) // + relay index
	checksumRelayOn  = byte(0x6C) // + relay index
)

// Payload byte 6 of a single relay command is this base plus the relay index.
const (
	payloadRelayOff = byte(1)
	payloadRelayOn  = byte(2)
)

var opcodeNames = map[Opcode]string{
	OpQuery:    "Query",
	OpRelayOff: "RelayOff",
	OpRelayOn:  "RelayOn",
	OpSetAll:   "SetAll",
}

var stateNames = map[RelayState]string{
	Off: "OFF",
	On:  "ON",
}

var sessionStates = map[SessionState]string{
	Unconnected: "Unconnected",
	Connected:   "Connected",
	Closed:      "Closed",
}
