package loadcheck

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/okian/jobaccept/pkg/logger"
)

// maxReportedProblems caps the problems quoted in a verification error.
const maxReportedProblems = 5

// verifyOutcomes checks status, confidence range and label set of every
// outcome. An empty labels slice accepts any label.
func verifyOutcomes(ctx context.Context, outcomes []Outcome, labels []string, stats *Stats) error {
	logger.Get().Info(ctx, "verifying predictions", logger.Int("count", len(outcomes)))

	if len(outcomes) == 0 {
		return fmt.Errorf("%w: no predictions to verify", ErrVerification)
	}

	stats.Labels = make(map[string]int)
	var problems []string
	for _, o := range outcomes {
		stats.Submitted++
		if o.Status != http.StatusOK {
			stats.Failed++
			problems = append(problems, fmt.Sprintf("%s: status %d (%s)", o.CandidateID, o.Status, o.Err))
			continue
		}
		stats.Successful++
		p := o.Prediction
		stats.Labels[p.Label]++
		if p.Confidence < MinConfidence || p.Confidence > MaxConfidence {
			problems = append(problems, fmt.Sprintf("%s: confidence %.2f outside [0, 100]", o.CandidateID, p.Confidence))
		}
		if len(labels) > 0 && !slices.Contains(labels, p.Label) {
			problems = append(problems, fmt.Sprintf("%s: label %q not in %v", o.CandidateID, p.Label, labels))
		}
		if p.PredictionID == "" {
			problems = append(problems, o.CandidateID+": missing prediction_id")
		}
	}

	if len(problems) > 0 {
		return problemsError(problems)
	}
	logger.Get().Info(ctx, "predictions verified", logger.Any("labels", stats.Labels))
	return nil
}

// verifyDeterminism checks that resubmitted candidates got the same answer.
func verifyDeterminism(ctx context.Context, first, second []Outcome) error {
	logger.Get().Info(ctx, "verifying determinism", logger.Int("sample", len(second)))

	if len(second) > len(first) {
		return fmt.Errorf("%w: %d resubmissions for %d submissions", ErrVerification, len(second), len(first))
	}
	var problems []string
	for i, b := range second {
		a := first[i]
		if a.Status != http.StatusOK || b.Status != http.StatusOK {
			continue
		}
		if a.Prediction.Label != b.Prediction.Label ||
			a.Prediction.Confidence != b.Prediction.Confidence ||
			a.Prediction.Code != b.Prediction.Code {
			problems = append(problems, fmt.Sprintf("%s: %s %.2f then %s %.2f", a.CandidateID,
				a.Prediction.Label, a.Prediction.Confidence, b.Prediction.Label, b.Prediction.Confidence))
		}
	}
	if len(problems) > 0 {
		return problemsError(problems)
	}
	logger.Get().Info(ctx, "determinism verified")
	return nil
}

func problemsError(problems []string) error {
	shown := problems
	if len(shown) > maxReportedProblems {
		shown = shown[:maxReportedProblems]
	}
	return fmt.Errorf("%w: %d problems: %s", ErrVerification, len(problems), strings.Join(shown, "; "))
}
