package verifiers

import (
	"context"
)

type Verdict int

const (
	// VerdictInvalid: the program did not even parse or resolve.
	VerdictInvalid Verdict = iota
	// VerdictValid: parsed and type-checked, but proof obligations failed.
	VerdictValid
	// VerdictVerified: every proof obligation discharged.
	VerdictVerified
)

func (v Verdict) String() string {
	switch v {
	case VerdictInvalid:
		return "invalid"
	case VerdictValid:
		return "valid"
	case VerdictVerified:
		return "verified"
	}
	return "unknown"
}

// Report is the oracle's answer for one program. Output is the raw
// diagnostic text, reused verbatim as refinement feedback. Verified and
// Errors count proof obligations when the verifier ran to completion.
type Report struct {
	Verdict  Verdict
	Output   string
	Verified int
	Errors   int
}

type Verifier interface {
	Verify(ctx context.Context, source string) (Report, error)
}
