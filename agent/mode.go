package agent

// Mode selects which of the three cooperating roles an Agent plays. It is
// fixed at Init and immutable thereafter (spec §3 "AgentMode").
type Mode int

const (
	Solo Mode = iota
	Server
	Client
)

func (m Mode) String() string {
	switch m {
	case Solo:
		return "solo"
	case Server:
		return "server"
	case Client:
		return "client"
	default:
		return "unknown"
	}
}

// lifecycle is the Agent's own state machine, independent of Mode (spec
// §4.6 "State machine").
type lifecycle int32

const (
	uninitialised lifecycle = iota
	initialising
	running
	terminating
	terminated
)
