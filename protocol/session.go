package protocol

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/Desmondgtx/Effort-Task/markers"
	"github.com/Desmondgtx/Effort-Task/results"
)

// Session runs one participant through calibration, practice and the
// experimental blocks.
type Session struct {
	Params    Params
	Presenter Presenter
	Markers   markers.Emitter
	Recorder  results.Recorder
	Rand      *rand.Rand
	Log       *zap.Logger

	// Schedule, when set, replaces the random experimental blocks.
	Schedule [][]Combination
	// OnCalibrated is called once the personal maximum is known.
	OnCalibrated func(max int)

	CalibratedMax int
	Totals        map[Beneficiary]int
	Trials        int
}

func (s *Session) init() {
	if s.Markers == nil {
		s.Markers = markers.Nop
	}
	if s.Log == nil {
		s.Log = zap.NewNop()
	}
	if s.Rand == nil {
		s.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	if s.Totals == nil {
		s.Totals = make(map[Beneficiary]int)
	}
}

// Run executes the whole session. Any error, including ErrAborted, emits
// EXPERIMENT_END before returning.
func (s *Session) Run(ctx context.Context) error {
	if err := s.Params.Validate(); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	s.init()

	err := s.run(ctx)
	if err != nil {
		s.Markers.Emit(markers.ExperimentEnd, "Experiment aborted")
		s.Log.Warn("session ended early", zap.Error(err), zap.Int("trials", s.Trials))
	}
	return err
}

func (s *Session) run(ctx context.Context) error {
	p := s.Params

	s.Markers.Emit(markers.ExperimentStart, "Experiment started")
	if err := s.slide(ctx, SlideWelcome); err != nil {
		return err
	}

	if err := s.calibrate(ctx); err != nil {
		return err
	}

	if p.PartnerLoading > 0 {
		if err := s.slide(ctx, SlideLoading); err != nil {
			return err
		}
		if err := s.Presenter.Loading(ctx, p.PartnerLoading); err != nil {
			return err
		}
	}

	for _, name := range []string{SlidePreInstructions, SlideDecision1, SlideDecision2, SlideDecision3, SlideDecisionFinal} {
		var images []string
		if name == SlideDecision2 {
			images = []string{DecisionExampleImage}
		}
		if err := s.slide(ctx, name, images...); err != nil {
			return err
		}
	}

	targets := PressTargets(s.CalibratedMax, p.EffortLevels)
	if err := s.effortPractice(ctx, targets); err != nil {
		return err
	}

	perBeneficiary := make([][]Combination, len(p.Beneficiaries))
	for i, b := range p.Beneficiaries {
		combos := BuildCombinations(targets, p.EffortLevels, p.CreditLevels, b)
		s.Rand.Shuffle(len(combos), func(i, j int) { combos[i], combos[j] = combos[j], combos[i] })
		perBeneficiary[i] = combos
	}

	if err := s.slide(ctx, SlideEffortEnding); err != nil {
		return err
	}
	if err := s.practiceDecisions(ctx, perBeneficiary); err != nil {
		return err
	}
	if err := s.slide(ctx, SlidePracticeEnding); err != nil {
		return err
	}

	blocks := s.Schedule
	if blocks != nil {
		ApplyTargets(blocks, s.CalibratedMax)
	} else {
		blocks = BuildBlocks(perBeneficiary, p, s.Rand)
	}
	if err := s.experiment(ctx, blocks); err != nil {
		return err
	}

	farewell, err := Slide(SlideFarewell, p)
	if err != nil {
		return err
	}
	if err := s.Presenter.Slide(ctx, SlideRequest{Lines: farewell, NoFooter: true}); err != nil {
		return err
	}
	s.Markers.Emit(markers.ExperimentEnd, "Experiment completed")
	s.Log.Info("session completed", zap.Int("trials", s.Trials), zap.Int("calibrated_max", s.CalibratedMax))
	return nil
}

func (s *Session) slide(ctx context.Context, name string, images ...string) error {
	lines, err := Slide(name, s.Params)
	if err != nil {
		return err
	}
	return s.Presenter.Slide(ctx, SlideRequest{Lines: lines, Images: images})
}

func (s *Session) effort(ctx context.Context, screen EffortScreen) (EffortResult, error) {
	screen.Mode = s.Params.EffortMode
	if screen.Limit == 0 {
		screen.Limit = s.Params.WorkTime
	}

	s.Markers.Emit(markers.EffortStart, fmt.Sprintf("Effort bar start - Target: %d", screen.Target))
	res, err := s.Presenter.Effort(ctx, screen)
	if err != nil {
		return res, err
	}
	if res.Reached {
		s.Markers.Emit(markers.EffortSuccess, fmt.Sprintf("Effort bar completed - Presses: %d", res.Count))
	} else {
		s.Markers.Emit(markers.EffortFail, fmt.Sprintf("Effort bar failed - Presses: %d/%d", res.Count, screen.Target))
	}
	if err := s.Presenter.Lockout(ctx, s.Params.Lockout); err != nil {
		return res, err
	}
	return res, nil
}

func (s *Session) calibrate(ctx context.Context) error {
	p := s.Params
	s.Markers.Emit(markers.CalibrationStart, "Calibration start")
	if err := s.slide(ctx, SlideCalibration, CalibrationImage); err != nil {
		return err
	}

	counts := make([]int, 0, p.CalibrationRounds)
	target := p.CalibrationFirstTarget
	for round := 0; round < p.CalibrationRounds; round++ {
		if round > 0 {
			if err := s.slide(ctx, SlideCalibrationAgain); err != nil {
				return err
			}
			target = NextCalibrationTarget(CalibratedMax(counts, 0), p.CalibrationGrowth)
		}
		res, err := s.effort(ctx, EffortScreen{Title: CalibrationTitle, Target: target, Calibration: true})
		if err != nil {
			return err
		}
		counts = append(counts, res.Count)
		s.Log.Info("calibration round",
			zap.Int("round", round+1),
			zap.Int("target", target),
			zap.Int("count", res.Count),
		)
	}

	s.CalibratedMax = CalibratedMax(counts, p.MinPresses)
	if s.OnCalibrated != nil {
		s.OnCalibrated(s.CalibratedMax)
	}
	s.Markers.Emit(markers.CalibrationEnd, fmt.Sprintf("Calibration end - Max presses: %d", s.CalibratedMax))
	return nil
}

func (s *Session) effortPractice(ctx context.Context, targets []int) error {
	p := s.Params
	for it := 0; it < p.PracticeIterations; it++ {
		if it > 0 {
			if err := s.slide(ctx, SlidePracticeAgain); err != nil {
				return err
			}
		}
		for i, pct := range p.EffortLevels {
			if err := s.Presenter.EffortPreview(ctx, pct); err != nil {
				return err
			}
			if _, err := s.effort(ctx, EffortScreen{
				Title:       CreditsFor(p, Self),
				Beneficiary: Self,
				Target:      targets[i],
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Session) practiceDecisions(ctx context.Context, perBeneficiary [][]Combination) error {
	s.Markers.Emit(markers.PracticeStart, "Practice trials start")
	sample := PracticeSample(perBeneficiary, s.Params.PracticeTrialsPerBeneficiary, s.Rand)
	for _, c := range sample {
		if _, err := s.trial(ctx, c, 0, true); err != nil {
			return err
		}
	}
	s.Markers.Emit(markers.PracticeEnd, "Practice trials end")
	return nil
}

func (s *Session) experiment(ctx context.Context, blocks [][]Combination) error {
	for bi, block := range blocks {
		s.Markers.Emit(markers.BlockStart, fmt.Sprintf("Block %d start", bi+1))
		s.Log.Info("block start", zap.Int("block", bi+1), zap.Int("trials", len(block)))
		for _, c := range block {
			if _, err := s.trial(ctx, c, bi+1, false); err != nil {
				return err
			}
		}
		s.Markers.Emit(markers.BlockEnd, fmt.Sprintf("Block %d end", bi+1))
		if bi < len(blocks)-1 {
			if err := s.slide(ctx, SlideBreak); err != nil {
				return err
			}
		}
	}
	return nil
}

func decisionStartCode(b Beneficiary) markers.Code {
	switch b {
	case Self:
		return markers.DecisionStartSelf
	case OutGroup:
		return markers.DecisionStartGroup
	}
	return markers.DecisionStartOther
}

func feedbackStartCode(b Beneficiary) markers.Code {
	switch b {
	case Self:
		return markers.FeedbackSelfStart
	case OutGroup:
		return markers.FeedbackGroupStart
	}
	return markers.FeedbackOtherStart
}

func (s *Session) decide(ctx context.Context, c Combination, practice bool) (Choice, DecisionResult, error) {
	p := s.Params
	workOnLeft := s.Rand.IntN(2) == 0

	s.Markers.Emit(decisionStartCode(c.Beneficiary),
		fmt.Sprintf("Decision start - %s - Credits: %d", c.Beneficiary.Label(), c.Credits))
	res, err := s.Presenter.Decide(ctx, DecisionScreen{
		Title:         CreditsFor(p, c.Beneficiary),
		Beneficiary:   c.Beneficiary,
		Credits:       c.Credits,
		RestCredits:   p.RestCredits,
		EffortPercent: c.EffortPercent,
		WorkOnLeft:    workOnLeft,
		ShowKeys:      practice,
		Limit:         p.DecisionTime,
		OnResponse: func(side Side, rt time.Duration) {
			switch ChoiceFor(side, workOnLeft) {
			case ChoiceWork:
				s.Markers.Emit(markers.ResponseWork, fmt.Sprintf("Response: Work - RT: %dms", rt.Milliseconds()))
			case ChoiceRest:
				s.Markers.Emit(markers.ResponseRest, fmt.Sprintf("Response: Rest - RT: %dms", rt.Milliseconds()))
			}
		},
	})
	if err != nil {
		return ChoiceNone, res, err
	}

	choice := ChoiceFor(res.Side, workOnLeft)
	if choice == ChoiceNone {
		s.Markers.Emit(markers.ResponseOmission, fmt.Sprintf("Response: Timeout after %dms", p.DecisionTime.Milliseconds()))
	}
	return choice, res, nil
}

// trial runs one cue, decision, outcome and feedback sequence. Practice
// trials repeat the decision until a response is given and are not
// recorded.
func (s *Session) trial(ctx context.Context, c Combination, block int, practice bool) (Outcome, error) {
	p := s.Params
	name := p.DisplayName(c.Beneficiary)
	title := CreditsFor(p, c.Beneficiary)

	if err := s.Presenter.Banner(ctx, []string{creditsForPrefix, name}, c.Beneficiary, p.CueTime); err != nil {
		return Outcome{}, err
	}

	choice, dec, err := s.decide(ctx, c, practice)
	if err != nil {
		return Outcome{}, err
	}
	for practice && choice == ChoiceNone {
		if err := s.slide(ctx, SlideTestingDecision); err != nil {
			return Outcome{}, err
		}
		if choice, dec, err = s.decide(ctx, c, practice); err != nil {
			return Outcome{}, err
		}
	}

	var effort EffortResult
	switch choice {
	case ChoiceWork:
		effort, err = s.effort(ctx, EffortScreen{
			Title:       title,
			Beneficiary: c.Beneficiary,
			Target:      c.Presses,
		})
	default:
		err = s.Presenter.Rest(ctx, title, c.Beneficiary, p.RestTime)
	}
	if err != nil {
		return Outcome{}, err
	}

	out := Resolve(choice, c, effort, p.RestCredits)

	if !practice {
		s.Trials++
		s.Totals[c.Beneficiary] += out.Earned
		if s.Recorder != nil {
			if err := s.Recorder.Record(trialRow(block, s.Trials, c, dec, out)); err != nil {
				return out, fmt.Errorf("record trial: %w", err)
			}
		}
	}

	s.Markers.Emit(feedbackStartCode(c.Beneficiary),
		fmt.Sprintf("Feedback %s - Credits: %d", c.Beneficiary.Label(), out.Earned))
	if !practice {
		s.Markers.Emit(markers.FeedbackCredits+markers.Code(out.Earned), fmt.Sprintf("Credits earned: %d", out.Earned))
	}
	if err := s.Presenter.Banner(ctx, FeedbackLines(p, c.Beneficiary, out.Earned), "", p.FeedbackTime); err != nil {
		return out, err
	}
	return out, nil
}

func nullMillis(d time.Duration, ok bool) sql.NullInt64 {
	return sql.NullInt64{Int64: d.Milliseconds(), Valid: ok}
}

func trialRow(block, index int, c Combination, dec DecisionResult, out Outcome) results.Trial {
	return results.Trial{
		Block:         block,
		Index:         index,
		EffortPercent: c.EffortPercent,
		Credits:       c.Credits,
		Beneficiary:   c.Beneficiary.Label(),
		Decision:      out.Choice.Label(),
		Presses:       out.Presses,
		Success:       out.Success,
		Earned:        out.Earned,
		DecisionRT:    nullMillis(dec.RT, out.Choice != ChoiceNone),
		FirstPress:    nullMillis(out.Effort.FirstPress, out.Choice == ChoiceWork && out.Effort.HasFirst),
		LastPress:     nullMillis(out.Effort.LastPress, out.Choice == ChoiceWork && out.Effort.HasLast),
	}
}
