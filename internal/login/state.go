package login

// State is a login controller state.
type State int

const (
	// StateIdle accepts clicks.
	StateIdle State = iota

	// StateResolvingMethods is waiting on discovery.
	StateResolvingMethods

	// StateNoProvidersNotified told the user there is nothing to log in with.
	StateNoProvidersNotified

	// StateAuthorizing has an OAuth2 exchange in flight.
	StateAuthorizing

	// StateCompleted is terminal: control has passed to the post-login handoff.
	StateCompleted

	// StateFailed surfaced an error and is about to return to Idle.
	StateFailed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolvingMethods:
		return "resolving_methods"
	case StateNoProvidersNotified:
		return "no_providers_notified"
	case StateAuthorizing:
		return "authorizing"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Control labels.
const (
	LabelLogin       = "Login"
	LabelAuthorizing = "Authorizing..."
)

// ControlState is what the login control displays.
type ControlState struct {
	Label    string
	Disabled bool
}

var (
	controlReady = ControlState{Label: LabelLogin, Disabled: false}
	controlBusy  = ControlState{Label: LabelAuthorizing, Disabled: true}
)

// Transition describes one state change.
type Transition struct {
	From    State
	To      State
	Control ControlState
}
