package relaycontrol

import (
	"io"
	"net"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeBoard speaks the board protocol on a loopback listener. It serves one
// connection at a time.
type fakeBoard struct {
	t  *testing.T
	ln net.Listener

	mu       sync.Mutex
	states   []RelayState
	commands []Command
	bad      int

	// junkAfterSet is written after every set command, like a board that
	// acknowledges commands nobody reads.
	junkAfterSet []byte

	// shortStatus answers queries with half a frame and hangs up.
	shortStatus bool

	// silent never answers queries.
	silent bool

	// hangUpAfterSet closes the connection after the first set command.
	hangUpAfterSet bool
}

func newFakeBoard(t *testing.T, setup ...func(*fakeBoard)) *fakeBoard {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	fb := &fakeBoard{t: t, ln: ln, states: make([]RelayState, RelayCount)}
	for _, fn := range setup {
		fn(fb)
	}
	t.Cleanup(func() { ln.Close() })
	go fb.serve()
	return fb
}

func (fb *fakeBoard) hostPort() (string, int) {
	host, port, err := net.SplitHostPort(fb.ln.Addr().String())
	require.NoError(fb.t, err)
	p, err := strconv.Atoi(port)
	require.NoError(fb.t, err)
	return host, p
}

// connect returns a connected Board and closes it when the test ends.
func (fb *fakeBoard) connect(opts ...Option) *Board {
	fb.t.Helper()
	host, port := fb.hostPort()
	b := NewBoard(host, port, opts...)
	require.NoError(fb.t, b.Connect(timeoutForTests))
	fb.t.Cleanup(func() { b.Close() })
	return b
}

func (fb *fakeBoard) setStates(states ...RelayState) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	copy(fb.states, states)
}

func (fb *fakeBoard) snapshot() []RelayState {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]RelayState(nil), fb.states...)
}

func (fb *fakeBoard) badFrames() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.bad
}

func (fb *fakeBoard) received() []Command {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]Command(nil), fb.commands...)
}

func (fb *fakeBoard) serve() {
	for {
		conn, err := fb.ln.Accept()
		if err != nil {
			return
		}
		fb.handle(conn)
	}
}

func (fb *fakeBoard) handle(conn net.Conn) {
	defer conn.Close()
	var buf [FrameSize]byte
	for {
		if _, err := io.ReadFull(conn, buf[:]); err != nil {
			return
		}
		cmd, err := DecodeCommand(buf[:])
		fb.mu.Lock()
		if err != nil {
			fb.bad++
			fb.mu.Unlock()
			continue
		}
		fb.commands = append(fb.commands, cmd)
		var reply []byte
		switch {
		case cmd.Op == OpQuery:
			f := EncodeStatus(fb.states)
			reply = f[:]
		case cmd.All:
			for i := range fb.states {
				fb.states[i] = cmd.State
			}
			reply = fb.junkAfterSet
		default:
			fb.states[cmd.Relay] = cmd.State
			reply = fb.junkAfterSet
		}
		fb.mu.Unlock()

		if cmd.Op != OpQuery && fb.hangUpAfterSet {
			return
		}
		if cmd.Op == OpQuery {
			switch {
			case fb.silent:
				continue
			case fb.shortStatus:
				conn.Write(reply[:FrameSize/2])
				return
			}
		}
		if len(reply) > 0 {
			if _, err := conn.Write(reply); err != nil {
				return
			}
		}
	}
}
