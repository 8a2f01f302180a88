// Command relayctl switches and reads the relays of a 16 channel board.
//
// Relay numbers on the command line are 1-based:
//
//	relayctl -host 192.168.1.4 -action set-state -relays 1,4,6 -state on
//	relayctl -action touch -relays 2 -state on -touch 500
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dernate/relaycontrol"
)

const version = "1.1"

const actionsUsage = `Action to perform:
  set-all       set -state on all relays (ignores -relays)
  get-all       print the state of all relays (ignores -relays)
  set-state     set -state on -relays
  get-state     print the state of -relays
  toggle        invert -relays (alias toggle-state)
  toggle-all    invert all relays (ignores -relays)
  touch         set -state on -relays for -touch ms, then invert them`

type cliOptions struct {
	env     string
	host    string
	port    int
	timeout int
	delay   int
	touch   int
	action  string
	relays  relayList
	state   relaycontrol.RelayState
	debug   bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts := cliOptions{state: relaycontrol.On}
	fs := flag.NewFlagSet("relayctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.env, "env", ".env", "dotenv file with RELAY_* settings")
	fs.StringVar(&opts.host, "host", "", "board host or IP (default RELAY_HOST or 192.168.178.1)")
	fs.IntVar(&opts.port, "port", 0, "board port (default RELAY_PORT or 3000)")
	fs.IntVar(&opts.timeout, "timeout", 0, "connect timeout in milliseconds, 0 waits")
	fs.IntVar(&opts.delay, "delay", 0, "minimum milliseconds between frames")
	fs.IntVar(&opts.touch, "touch", 0, "touch duration in milliseconds")
	fs.StringVar(&opts.action, "action", "get-all", actionsUsage)
	fs.Var(&opts.relays, "relays", "relay numbers like 1,4,6 (default all)")
	fs.Var(&opts.state, "state", "desired state: on|off|1|0|true|false")
	fs.BoolVar(&opts.debug, "debug", false, "log every frame")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "----- Relay Controller v%s -----\n\n", version)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := relaycontrol.LoadConfig(opts.env)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Host = opts.host
		case "port":
			cfg.Port = opts.port
		case "timeout":
			cfg.ConnectTimeout = time.Duration(opts.timeout) * time.Millisecond
		case "delay":
			cfg.RelayDelay = time.Duration(opts.delay) * time.Millisecond
		}
	})

	level, _ := cfg.Level()
	if opts.debug {
		level = log.DebugLevel
	}
	relaycontrol.LogLevel(uint32(level))

	board := cfg.NewBoard()
	if err := board.Connect(cfg.ConnectTimeout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer board.Close()

	relays := []relaycontrol.RelayNumber(opts.relays)
	if len(relays) == 0 {
		relays = relaycontrol.AllRelays()
	}
	touch := time.Duration(opts.touch) * time.Millisecond
	numbers, states, err := execute(board, opts.action, opts.state, touch, relays)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	printStates(stdout, numbers, states)
	return 0
}

// relayBoard is the part of *relaycontrol.Board the CLI drives.
type relayBoard interface {
	SetAllRelays(state relaycontrol.RelayState) ([]relaycontrol.RelayState, error)
	SetRelays(state relaycontrol.RelayState, relays ...relaycontrol.RelayNumber) error
	ToggleRelays(relays ...relaycontrol.RelayNumber) error
	GetAllStates() ([]relaycontrol.RelayState, error)
	GetRelayStates(relays ...relaycontrol.RelayNumber) ([]relaycontrol.RelayState, error)
	TouchRelay(state relaycontrol.RelayState, hold time.Duration, relays ...relaycontrol.RelayNumber) error
}

// execute runs one action and returns the relays to print with their states.
func execute(b relayBoard, action string, state relaycontrol.RelayState, touch time.Duration, relays []relaycontrol.RelayNumber) ([]relaycontrol.RelayNumber, []relaycontrol.RelayState, error) {
	var err error
	switch action {
	case "set-all":
		states, err := b.SetAllRelays(state)
		return relaycontrol.AllRelays(), states, err
	case "get-all":
		states, err := b.GetAllStates()
		return relaycontrol.AllRelays(), states, err
	case "toggle-all":
		if err := b.ToggleRelays(relaycontrol.AllRelays()...); err != nil {
			return nil, nil, err
		}
		states, err := b.GetAllStates()
		return relaycontrol.AllRelays(), states, err
	case "set-state":
		err = b.SetRelays(state, relays...)
	case "get-state":
	case "toggle", "toggle-state":
		err = b.ToggleRelays(relays...)
	case "touch":
		if touch <= 0 {
			return nil, nil, errors.New("touch needs a -touch duration")
		}
		err = b.TouchRelay(state, touch, relays...)
		if err == nil {
			err = b.SetRelays(state.Toggle(), relays...)
		}
	default:
		return nil, nil, fmt.Errorf("unknown action %q", action)
	}
	if err != nil {
		return nil, nil, err
	}
	states, err := b.GetRelayStates(relays...)
	return relays, states, err
}

func printStates(w io.Writer, relays []relaycontrol.RelayNumber, states []relaycontrol.RelayState) {
	for i, state := range states {
		fmt.Fprintf(w, "%d: %s\n", int(relays[i])+1, state)
	}
}
