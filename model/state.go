package model

// Stage of a filter dialogue.
type Stage int

const (
	StageIdle Stage = iota
	StageAwaitingChoice
	StageAwaitingDate
)

func (s Stage) String() string {
	switch s {
	case StageAwaitingChoice:
		return "awaiting_choice"
	case StageAwaitingDate:
		return "awaiting_date"
	default:
		return "idle"
	}
}

// State is the dialogue state of one user. Dimension is set for every stage
// except StageIdle; ChoiceID is set only in StageAwaitingDate and refers to an
// entry of the session's choice registry.
type State struct {
	Stage     Stage
	Dimension Dimension
	ChoiceID  string
}

// Idle is the zero state.
var Idle = State{}

// AwaitingChoice returns the state entered once the choice list for d is shown.
func AwaitingChoice(d Dimension) State {
	return State{Stage: StageAwaitingChoice, Dimension: d}
}

// AwaitingDate returns the state entered once the date list for the chosen
// value is shown.
func AwaitingDate(d Dimension, choiceID string) State {
	return State{Stage: StageAwaitingDate, Dimension: d, ChoiceID: choiceID}
}
