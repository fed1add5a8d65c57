// internal/launchpad/status.go
package launchpad

// ProtocolStatus is the lifecycle of the protocol config.
// Unknown -> Active happens once at initialization; Active <-> Paused
// is the only admin-controlled loop.
type ProtocolStatus uint8

const (
	ProtocolUnknown ProtocolStatus = iota
	ProtocolActive
	ProtocolPaused
)

var protocolTransitions = map[ProtocolStatus][]ProtocolStatus{
	ProtocolUnknown: {ProtocolActive},
	ProtocolActive:  {ProtocolPaused},
	ProtocolPaused:  {ProtocolActive},
}

func (s ProtocolStatus) String() string {
	switch s {
	case ProtocolActive:
		return "active"
	case ProtocolPaused:
		return "paused"
	default:
		return "unknown"
	}
}

func (s ProtocolStatus) canTransition(to ProtocolStatus) bool {
	for _, next := range protocolTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// TokenStatus is the lifecycle of a launch token. The machine is linear
// and one-directional; there is no path back from any state.
type TokenStatus uint8

const (
	TokenUnknown TokenStatus = iota
	TokenTradingEnabled
	TokenReadyToGraduate
	TokenGraduated
)

var tokenTransitions = map[TokenStatus][]TokenStatus{
	TokenUnknown:         {TokenTradingEnabled},
	TokenTradingEnabled:  {TokenReadyToGraduate},
	TokenReadyToGraduate: {TokenGraduated},
	TokenGraduated:       {},
}

func (s TokenStatus) String() string {
	switch s {
	case TokenTradingEnabled:
		return "trading_enabled"
	case TokenReadyToGraduate:
		return "ready_to_graduate"
	case TokenGraduated:
		return "graduated"
	default:
		return "unknown"
	}
}

func (s TokenStatus) canTransition(to TokenStatus) bool {
	for _, next := range tokenTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}
