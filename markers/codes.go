package markers

import "strconv"

// Code is an integer event marker sent to recording equipment.
type Code int

const (
	DecisionStartSelf  Code = 100
	DecisionStartOther Code = 101
	DecisionStartGroup Code = 102

	ResponseWork     Code = 110
	ResponseRest     Code = 111
	ResponseOmission Code = 112

	EffortStart   Code = 120
	EffortSuccess Code = 121
	EffortFail    Code = 122

	FeedbackSelfStart  Code = 130
	FeedbackOtherStart Code = 131
	FeedbackGroupStart Code = 132
	// FeedbackCredits is offset by the number of credits earned.
	FeedbackCredits Code = 140

	BlockStart Code = 200
	BlockEnd   Code = 201

	ExperimentStart  Code = 250
	ExperimentEnd    Code = 251
	CalibrationStart Code = 252
	CalibrationEnd   Code = 253
	PracticeStart    Code = 254
	PracticeEnd      Code = 255
)

var names = map[Code]string{
	DecisionStartSelf:  "DECISION_START_SELF",
	DecisionStartOther: "DECISION_START_OTHER",
	DecisionStartGroup: "DECISION_START_GROUP",
	ResponseWork:       "RESPONSE_WORK",
	ResponseRest:       "RESPONSE_REST",
	ResponseOmission:   "RESPONSE_OMISSION",
	EffortStart:        "EFFORT_BAR_START",
	EffortSuccess:      "EFFORT_BAR_SUCCESS",
	EffortFail:         "EFFORT_BAR_FAIL",
	FeedbackSelfStart:  "FEEDBACK_SELF_START",
	FeedbackOtherStart: "FEEDBACK_OTHER_START",
	FeedbackGroupStart: "FEEDBACK_GROUP_START",
	FeedbackCredits:    "FEEDBACK_CREDITS",
	BlockStart:         "BLOCK_START",
	BlockEnd:           "BLOCK_END",
	ExperimentStart:    "EXPERIMENT_START",
	ExperimentEnd:      "EXPERIMENT_END",
	CalibrationStart:   "CALIBRATION_START",
	CalibrationEnd:     "CALIBRATION_END",
	PracticeStart:      "PRACTICE_START",
	PracticeEnd:        "PRACTICE_END",
}

func (c Code) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	if c > FeedbackCredits && c < FeedbackCredits+10 {
		return "FEEDBACK_CREDITS+" + strconv.Itoa(int(c-FeedbackCredits))
	}
	return strconv.Itoa(int(c))
}
