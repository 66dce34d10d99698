package scores

import (
	"github.com/cmu-l3/metagen/verifiers"
)

type Evaluation struct {
	Score    float64
	Feedback string
}

// Evaluate maps a verifier report to a scalar value. The score is
// monotone in distance from fully verified: 1.0 for a verified program,
// the fraction of discharged obligations otherwise. ok is false when
// the program is unassessable; such candidates are excluded from
// selection entirely rather than carrying a sentinel score.
func Evaluate(report verifiers.Report) (Evaluation, bool) {
	switch report.Verdict {

	case verifiers.VerdictVerified:
		return Evaluation{
			Score:    1.0,
			Feedback: report.Output,
		}, true

	case verifiers.VerdictValid:
		total := report.Verified + report.Errors
		score := 0.0
		if total > 0 {
			score = float64(report.Verified) / float64(total)
		}
		return Evaluation{
			Score:    score,
			Feedback: report.Output,
		}, true

	}

	return Evaluation{}, false
}
