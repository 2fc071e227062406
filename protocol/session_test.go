package protocol

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Desmondgtx/Effort-Task/markers"
	"github.com/Desmondgtx/Effort-Task/results"
)

// scriptedPresenter answers every screen immediately. Work is chosen on
// every decision unless decide says otherwise.
type scriptedPresenter struct {
	calibrationCount int
	decide           func(s DecisionScreen, n int) (Side, error)

	slides          []SlideRequest
	decisions       []DecisionScreen
	efforts         []EffortScreen
	calibrationGoal []int
	rests           int
	lockouts        int
	previews        []int
	loading         time.Duration
}

func (p *scriptedPresenter) Slide(_ context.Context, req SlideRequest) error {
	p.slides = append(p.slides, req)
	return nil
}

func (p *scriptedPresenter) Banner(context.Context, []string, Beneficiary, time.Duration) error {
	return nil
}

func (p *scriptedPresenter) Loading(_ context.Context, d time.Duration) error {
	p.loading = d
	return nil
}

func (p *scriptedPresenter) EffortPreview(_ context.Context, percent int) error {
	p.previews = append(p.previews, percent)
	return nil
}

func (p *scriptedPresenter) Decide(_ context.Context, s DecisionScreen) (DecisionResult, error) {
	p.decisions = append(p.decisions, s)
	side := SideRight
	if s.WorkOnLeft {
		side = SideLeft
	}
	if p.decide != nil {
		var err error
		if side, err = p.decide(s, len(p.decisions)); err != nil {
			return DecisionResult{}, err
		}
	}
	if side == SideNone {
		return DecisionResult{}, nil
	}
	rt := 500 * time.Millisecond
	if s.OnResponse != nil {
		s.OnResponse(side, rt)
	}
	return DecisionResult{Side: side, RT: rt}, nil
}

func (p *scriptedPresenter) Effort(_ context.Context, s EffortScreen) (EffortResult, error) {
	p.efforts = append(p.efforts, s)
	if s.Calibration {
		p.calibrationGoal = append(p.calibrationGoal, s.Target)
		return EffortResult{Count: p.calibrationCount}, nil
	}
	return EffortResult{
		Count:      s.Target,
		Reached:    true,
		FirstPress: 100 * time.Millisecond,
		LastPress:  900 * time.Millisecond,
		HasFirst:   true,
		HasLast:    true,
	}, nil
}

func (p *scriptedPresenter) Rest(context.Context, string, Beneficiary, time.Duration) error {
	p.rests++
	return nil
}

func (p *scriptedPresenter) Lockout(context.Context, time.Duration) error {
	p.lockouts++
	return nil
}

func (p *scriptedPresenter) slideTitles() []string {
	out := make([]string, len(p.slides))
	for i, s := range p.slides {
		out[i] = s.Lines[0]
	}
	return out
}

type markerLog struct {
	codes []markers.Code
}

func (l *markerLog) Emit(code markers.Code, _ string) {
	l.codes = append(l.codes, code)
}

func (l *markerLog) count(match func(markers.Code) bool) int {
	n := 0
	for _, c := range l.codes {
		if match(c) {
			n++
		}
	}
	return n
}

func (l *markerLog) countCode(code markers.Code) int {
	return l.count(func(c markers.Code) bool { return c == code })
}

type trialLog struct {
	rows []results.Trial
}

func (l *trialLog) Record(t results.Trial) error {
	l.rows = append(l.rows, t)
	return nil
}

func smallParams() Params {
	p := DefaultParams()
	p.EffortLevels = []int{50, 100}
	p.CreditLevels = []int{2, 4}
	p.Beneficiaries = []Beneficiary{Self, InGroup}
	p.Blocks = 2
	p.RepetitionsPerBlock = 1
	p.BlockType = BlockDivision
	p.CalibrationRounds = 2
	p.CalibrationFirstTarget = 20
	p.CalibrationGrowth = 1.1
	p.PracticeIterations = 1
	p.PracticeTrialsPerBeneficiary = 1
	p.PartnerLoading = 0
	return p
}

func newTestSession(p Params, pres *scriptedPresenter) (*Session, *markerLog, *trialLog) {
	ml := &markerLog{}
	tl := &trialLog{}
	return &Session{
		Params:    p,
		Presenter: pres,
		Markers:   ml,
		Recorder:  tl,
		Rand:      testRand(),
	}, ml, tl
}

func TestSessionFullRun(t *testing.T) {
	pres := &scriptedPresenter{calibrationCount: 30}
	s, ml, tl := newTestSession(smallParams(), pres)
	var calibrated int
	s.OnCalibrated = func(max int) { calibrated = max }

	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, []int{20, 33}, pres.calibrationGoal)
	assert.Equal(t, 30, s.CalibratedMax)
	assert.Equal(t, 30, calibrated)
	assert.Equal(t, []int{50, 100}, pres.previews)

	// Two beneficiaries times four combinations, split over two blocks.
	require.Len(t, tl.rows, 8)
	assert.Equal(t, 8, s.Trials)
	for i, row := range tl.rows {
		assert.Equal(t, i+1, row.Index)
		assert.Equal(t, i/4+1, row.Block)
		assert.Equal(t, "task", row.Decision)
		assert.True(t, row.Success)
		assert.Equal(t, row.Credits, row.Earned)
		assert.Equal(t, int64(500), row.DecisionRT.Int64)
		assert.True(t, row.FirstPress.Valid)
		assert.True(t, row.LastPress.Valid)
	}
	assert.Equal(t, map[Beneficiary]int{Self: 12, InGroup: 12}, s.Totals)

	// Press targets scale with the calibrated maximum.
	for _, e := range pres.efforts {
		if !e.Calibration {
			assert.Contains(t, []int{15, 30}, e.Target)
		}
	}
	assert.Equal(t, len(pres.efforts), pres.lockouts, "every effort screen is followed by a lockout")

	require.NotEmpty(t, ml.codes)
	assert.Equal(t, markers.ExperimentStart, ml.codes[0])
	assert.Equal(t, markers.ExperimentEnd, ml.codes[len(ml.codes)-1])
	assert.Equal(t, 1, ml.countCode(markers.CalibrationStart))
	assert.Equal(t, 1, ml.countCode(markers.CalibrationEnd))
	assert.Equal(t, 1, ml.countCode(markers.PracticeStart))
	assert.Equal(t, 1, ml.countCode(markers.PracticeEnd))
	assert.Equal(t, 2, ml.countCode(markers.BlockStart))
	assert.Equal(t, 2, ml.countCode(markers.BlockEnd))
	assert.Equal(t, 10, ml.countCode(markers.ResponseWork), "practice and experimental responses")
	assert.Equal(t, 8, ml.count(func(c markers.Code) bool {
		return c >= markers.FeedbackCredits && c < markers.FeedbackCredits+10
	}), "only experimental feedback carries credits")

	last := pres.slides[len(pres.slides)-1]
	assert.True(t, last.NoFooter)
	assert.Equal(t, "El experimento ha terminado.", last.Lines[0])
	assert.Contains(t, pres.slideTitles(), "Puedes tomar un descanso.")
}

func TestSessionPracticeRetriesOmission(t *testing.T) {
	omitted := false
	pres := &scriptedPresenter{
		calibrationCount: 30,
		decide: func(s DecisionScreen, n int) (Side, error) {
			if s.ShowKeys && !omitted {
				omitted = true
				return SideNone, nil
			}
			if s.WorkOnLeft {
				return SideLeft, nil
			}
			return SideRight, nil
		},
	}
	s, ml, tl := newTestSession(smallParams(), pres)
	require.NoError(t, s.Run(context.Background()))

	reminders := 0
	for _, title := range pres.slideTitles() {
		if title == "Recordar que si no se toma ninguna decisión" {
			reminders++
		}
	}
	assert.Equal(t, 1, reminders)
	assert.Equal(t, 1, ml.countCode(markers.ResponseOmission))
	assert.Len(t, tl.rows, 8, "practice trials are not recorded")
}

func TestSessionExperimentalOmission(t *testing.T) {
	pres := &scriptedPresenter{
		calibrationCount: 30,
		decide: func(s DecisionScreen, n int) (Side, error) {
			if s.ShowKeys {
				if s.WorkOnLeft {
					return SideLeft, nil
				}
				return SideRight, nil
			}
			return SideNone, nil
		},
	}
	s, ml, tl := newTestSession(smallParams(), pres)
	require.NoError(t, s.Run(context.Background()))

	require.Len(t, tl.rows, 8)
	for _, row := range tl.rows {
		assert.Equal(t, "no decision", row.Decision)
		assert.False(t, row.Success)
		assert.Zero(t, row.Earned)
		assert.False(t, row.DecisionRT.Valid)
		assert.False(t, row.FirstPress.Valid)
	}
	assert.Equal(t, 8, pres.rests)
	assert.Equal(t, 8, ml.countCode(markers.ResponseOmission))
	assert.Equal(t, 8, ml.countCode(markers.FeedbackCredits))
}

func TestSessionRestChoice(t *testing.T) {
	pres := &scriptedPresenter{
		calibrationCount: 30,
		decide: func(s DecisionScreen, n int) (Side, error) {
			if s.WorkOnLeft {
				return SideRight, nil
			}
			return SideLeft, nil
		},
	}
	s, ml, tl := newTestSession(smallParams(), pres)
	require.NoError(t, s.Run(context.Background()))

	require.Len(t, tl.rows, 8)
	for _, row := range tl.rows {
		assert.Equal(t, "resting", row.Decision)
		assert.Equal(t, 1, row.Earned)
		assert.Zero(t, row.Presses)
		assert.True(t, row.DecisionRT.Valid)
	}
	assert.Equal(t, 10, pres.rests)
	assert.Equal(t, 10, ml.countCode(markers.ResponseRest))
	assert.Equal(t, map[Beneficiary]int{Self: 4, InGroup: 4}, s.Totals)
}

func TestSessionAbort(t *testing.T) {
	pres := &scriptedPresenter{
		calibrationCount: 30,
		decide: func(s DecisionScreen, n int) (Side, error) {
			if !s.ShowKeys {
				return SideNone, ErrAborted
			}
			return SideLeft, nil
		},
	}
	s, ml, tl := newTestSession(smallParams(), pres)

	err := s.Run(context.Background())
	require.ErrorIs(t, err, ErrAborted)
	assert.Empty(t, tl.rows)
	assert.Equal(t, markers.ExperimentEnd, ml.codes[len(ml.codes)-1])
	assert.Zero(t, ml.countCode(markers.BlockEnd))
}

func TestSessionSchedule(t *testing.T) {
	pres := &scriptedPresenter{calibrationCount: 40}
	s, _, tl := newTestSession(smallParams(), pres)
	s.Schedule = [][]Combination{{{EffortPercent: 50, Credits: 3, Beneficiary: InGroup}}}

	require.NoError(t, s.Run(context.Background()))
	require.Len(t, tl.rows, 1)
	assert.Equal(t, 20, tl.rows[0].Presses)
	assert.Equal(t, "in-group", tl.rows[0].Beneficiary)
	assert.Equal(t, 3, tl.rows[0].Earned)
}

func TestSessionPartnerLoading(t *testing.T) {
	p := smallParams()
	p.PartnerLoading = 2 * time.Second
	pres := &scriptedPresenter{calibrationCount: 30}
	s, _, _ := newTestSession(p, pres)

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, 2*time.Second, pres.loading)
	assert.Contains(t, pres.slideTitles(), "Ahora haz click para conectarte con otro jugador")
}

func TestSessionRejectsInvalidParams(t *testing.T) {
	p := smallParams()
	p.Blocks = 0
	pres := &scriptedPresenter{}
	s, ml, _ := newTestSession(p, pres)

	assert.Error(t, s.Run(context.Background()))
	assert.Empty(t, ml.codes)
	assert.Empty(t, pres.slides)
}
