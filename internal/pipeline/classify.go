package pipeline

import "github.com/pacerhq/pacer/internal/model"

// Classification thresholds. Policy constants: progress may lag expectation
// by up to 10 points and still count as on track, by up to 25 as at risk.
// A zero actual only reads as "not started" while expectation is under 5.
const (
	notStartedMax    = 5.0
	onTrackTolerance = 10.0
	atRiskTolerance  = 25.0
)

// Classify assigns a goal status from actual vs expected progress.
// Evaluation order matters: reaching the target wins outright regardless of
// schedule, and a zero actual is judged against how much was expected by now.
func Classify(actualProgress, expectedProgress, actualAmount, targetAmount float64) model.GoalStatus {
	if actualProgress >= 100 || actualAmount >= targetAmount {
		return model.GoalAchieved
	}

	if actualAmount == 0 {
		if expectedProgress > notStartedMax {
			return model.GoalBehind
		}
		return model.GoalNotStarted
	}

	diff := actualProgress - expectedProgress
	switch {
	case diff >= -onTrackTolerance:
		return model.GoalOnTrack
	case diff >= -atRiskTolerance:
		return model.GoalAtRisk
	default:
		return model.GoalBehind
	}
}
