package protocol

import (
	"context"
	"errors"
	"time"
)

// ErrAborted is returned when the operator quits the session (Escape or
// closing the window).
var ErrAborted = errors.New("session aborted")

// SlideRequest is a text screen that waits for the continue key. A
// positive Limit also ends it after that long.
type SlideRequest struct {
	Lines    []string
	Images   []string
	NoFooter bool
	Limit    time.Duration
}

type DecisionScreen struct {
	Title         string
	Beneficiary   Beneficiary
	Credits       int
	RestCredits   int
	EffortPercent int
	WorkOnLeft    bool
	ShowKeys      bool
	Limit         time.Duration
	// OnResponse is called as soon as a response key is released, before
	// the selection is held on screen for the rest of Limit.
	OnResponse func(side Side, rt time.Duration)
}

type DecisionResult struct {
	Side Side
	RT   time.Duration
}

// EffortScreen asks for Target presses (bar) or clicks (boxes) within
// Limit. An empty Beneficiary draws the neutral calibration variant.
type EffortScreen struct {
	Title       string
	Beneficiary Beneficiary
	Target      int
	Limit       time.Duration
	Calibration bool
	Mode        EffortMode
}

// Presenter draws screens and collects responses. Every method blocks
// until its screen is over and returns ErrAborted when the operator quits.
type Presenter interface {
	Slide(ctx context.Context, req SlideRequest) error
	// Banner shows large centred lines; with an accent the second line is
	// drawn in the beneficiary colour.
	Banner(ctx context.Context, lines []string, accent Beneficiary, limit time.Duration) error
	Loading(ctx context.Context, d time.Duration) error
	EffortPreview(ctx context.Context, percent int) error
	Decide(ctx context.Context, s DecisionScreen) (DecisionResult, error)
	Effort(ctx context.Context, s EffortScreen) (EffortResult, error)
	Rest(ctx context.Context, title string, b Beneficiary, d time.Duration) error
	Lockout(ctx context.Context, d time.Duration) error
}
