package protocol

import "time"

type Choice int

const (
	ChoiceNone Choice = iota
	ChoiceWork
	ChoiceRest
)

// Label is the decision column of the results file.
func (c Choice) Label() string {
	switch c {
	case ChoiceWork:
		return "task"
	case ChoiceRest:
		return "resting"
	}
	return "no decision"
}

// Side is the half of the decision screen a response selected.
type Side int

const (
	SideNone Side = iota
	SideLeft
	SideRight
)

// ChoiceFor maps a response side to a choice given where the work option
// was drawn.
func ChoiceFor(side Side, workOnLeft bool) Choice {
	switch side {
	case SideLeft:
		if workOnLeft {
			return ChoiceWork
		}
		return ChoiceRest
	case SideRight:
		if workOnLeft {
			return ChoiceRest
		}
		return ChoiceWork
	}
	return ChoiceNone
}

// EffortResult is what the effort screen measured. FirstPress and
// LastPress are relative to the screen onset and only meaningful when the
// matching Has flag is set.
type EffortResult struct {
	Count      int
	Reached    bool
	FirstPress time.Duration
	LastPress  time.Duration
	HasFirst   bool
	HasLast    bool
}

// Outcome is the scored result of one trial.
type Outcome struct {
	Choice  Choice
	Presses int
	Success bool
	Earned  int
	Effort  EffortResult
}

// Resolve scores a trial.
func Resolve(choice Choice, combo Combination, effort EffortResult, restCredits int) Outcome {
	switch choice {
	case ChoiceWork:
		o := Outcome{Choice: choice, Presses: effort.Count, Success: effort.Reached, Effort: effort}
		if effort.Reached {
			o.Earned = combo.Credits
		}
		return o
	case ChoiceRest:
		return Outcome{Choice: choice, Success: true, Earned: restCredits}
	}
	return Outcome{Choice: ChoiceNone}
}
