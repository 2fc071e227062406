package protocol

import (
	"errors"
	"fmt"
	"time"
)

type BlockType string

const (
	BlockDivision BlockType = "division"
	BlockTotal    BlockType = "total"
)

type EffortMode string

const (
	EffortBar   EffortMode = "bar"
	EffortBoxes EffortMode = "boxes"
)

// Params holds every task constant. The historical versions of the task
// differ only in these values.
type Params struct {
	EffortLevels []int `yaml:"effortLevels"`
	CreditLevels []int `yaml:"creditLevels"`
	RestCredits  int   `yaml:"restCredits"`

	Beneficiaries []Beneficiary          `yaml:"beneficiaries"`
	DisplayNames  map[Beneficiary]string `yaml:"displayNames"`

	Blocks              int       `yaml:"blocks"`
	RepetitionsPerBlock int       `yaml:"repetitionsPerBlock"`
	BlockType           BlockType `yaml:"blockType"`

	DecisionTime time.Duration `yaml:"decisionTime"`
	WorkTime     time.Duration `yaml:"workTime"`
	RestTime     time.Duration `yaml:"restTime"`
	CueTime      time.Duration `yaml:"cueTime"`
	FeedbackTime time.Duration `yaml:"feedbackTime"`
	Lockout      time.Duration `yaml:"lockout"`

	MinPresses             int     `yaml:"minPresses"`
	CalibrationRounds      int     `yaml:"calibrationRounds"`
	CalibrationFirstTarget int     `yaml:"calibrationFirstTarget"`
	CalibrationGrowth      float64 `yaml:"calibrationGrowth"`

	PracticeIterations           int `yaml:"practiceIterations"`
	PracticeTrialsPerBeneficiary int `yaml:"practiceTrialsPerBeneficiary"`

	PartnerLoading time.Duration `yaml:"partnerLoading"`
	EffortMode     EffortMode    `yaml:"effortMode"`
}

func DefaultParams() Params {
	return Params{
		EffortLevels:  []int{50, 65, 80, 95},
		CreditLevels:  []int{2, 3, 4, 5},
		RestCredits:   1,
		Beneficiaries: []Beneficiary{Self, InGroup, OutGroup},
		DisplayNames: map[Beneficiary]string{
			Self:     "TI",
			InGroup:  "JUAN",
			OutGroup: "PEDRO",
		},
		Blocks:                       3,
		RepetitionsPerBlock:          2,
		BlockType:                    BlockDivision,
		DecisionTime:                 4 * time.Second,
		WorkTime:                     5 * time.Second,
		RestTime:                     5 * time.Second,
		CueTime:                      time.Second,
		FeedbackTime:                 time.Second,
		Lockout:                      3 * time.Second,
		MinPresses:                   10,
		CalibrationRounds:            3,
		CalibrationFirstTarget:       50,
		CalibrationGrowth:            1.1,
		PracticeIterations:           2,
		PracticeTrialsPerBeneficiary: 2,
		PartnerLoading:               30 * time.Second,
		EffortMode:                   EffortBar,
	}
}

// DisplayName returns the on-screen name of b, falling back to its label.
func (p Params) DisplayName(b Beneficiary) string {
	if name, ok := p.DisplayNames[b]; ok && name != "" {
		return name
	}
	return b.Label()
}

func (p Params) Validate() error {
	var errs []error
	if len(p.EffortLevels) == 0 {
		errs = append(errs, errors.New("effortLevels is empty"))
	}
	for _, l := range p.EffortLevels {
		if l <= 0 || l > 100 {
			errs = append(errs, fmt.Errorf("effort level %d out of range (1-100)", l))
		}
	}
	if len(p.CreditLevels) == 0 {
		errs = append(errs, errors.New("creditLevels is empty"))
	}
	if p.RestCredits < 0 {
		errs = append(errs, errors.New("restCredits is negative"))
	}
	if len(p.Beneficiaries) == 0 {
		errs = append(errs, errors.New("beneficiaries is empty"))
	}
	for _, b := range p.Beneficiaries {
		if !b.Valid() {
			errs = append(errs, fmt.Errorf("unknown beneficiary %q", b))
		}
	}
	if p.Blocks <= 0 {
		errs = append(errs, errors.New("blocks must be positive"))
	}
	if p.RepetitionsPerBlock <= 0 {
		errs = append(errs, errors.New("repetitionsPerBlock must be positive"))
	}
	switch p.BlockType {
	case BlockDivision, BlockTotal:
	default:
		errs = append(errs, fmt.Errorf("unknown block type %q", p.BlockType))
	}
	switch p.EffortMode {
	case EffortBar, EffortBoxes:
	default:
		errs = append(errs, fmt.Errorf("unknown effort mode %q", p.EffortMode))
	}
	for name, d := range map[string]time.Duration{
		"decisionTime": p.DecisionTime,
		"workTime":     p.WorkTime,
		"restTime":     p.RestTime,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	if p.CueTime < 0 || p.FeedbackTime < 0 || p.Lockout < 0 || p.PartnerLoading < 0 {
		errs = append(errs, errors.New("negative durations are not allowed"))
	}
	if p.MinPresses <= 0 {
		errs = append(errs, errors.New("minPresses must be positive"))
	}
	if p.CalibrationRounds <= 0 {
		errs = append(errs, errors.New("calibrationRounds must be positive"))
	}
	if p.CalibrationFirstTarget <= 0 {
		errs = append(errs, errors.New("calibrationFirstTarget must be positive"))
	}
	if p.CalibrationGrowth < 1 {
		errs = append(errs, errors.New("calibrationGrowth must be >= 1"))
	}
	if p.PracticeIterations < 0 || p.PracticeTrialsPerBeneficiary < 0 {
		errs = append(errs, errors.New("practice counts must not be negative"))
	}
	return errors.Join(errs...)
}
