package verifiers

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/cmu-l3/metagen/cmds"
	"github.com/cmu-l3/metagen/configs"
	"github.com/cmu-l3/metagen/logs"
	"github.com/cmu-l3/metagen/vars"
	"github.com/reusee/dscope"
)

type Dafny struct {
	path    string
	timeout time.Duration

	Logger dscope.Inject[logs.Logger]
}

var _ Verifier = new(Dafny)

func (d *Dafny) Verify(ctx context.Context, source string) (Report, error) {
	dir, err := os.MkdirTemp("", "metagen-dafny-*")
	if err != nil {
		return Report{}, err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "candidate.dfy")
	if err := os.WriteFile(path, []byte(source), 0644); err != nil {
		return Report{}, err
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	d.Logger().InfoContext(ctx, "verifying",
		"file", path,
	)

	cmd := exec.CommandContext(ctx, d.path, "verify", path)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	err = cmd.Run()
	if ctx.Err() != nil {
		// timeout reads as an unassessable program
		return Report{
			Verdict: VerdictInvalid,
			Output:  "verification timed out",
		}, nil
	}
	if err != nil {
		// non-zero exit is the normal outcome for failed proofs; only
		// fail hard when the tool could not run at all
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Report{}, err
		}
	}

	return ParseDafnyOutput(output.String()), nil
}

var dafnySummaryPattern = regexp.MustCompile(`finished with (\d+) verified, (\d+) error`)

// ParseDafnyOutput maps the verifier's textual summary to a Report.
// No summary line means the program did not get past parsing or
// resolution.
func ParseDafnyOutput(output string) Report {
	match := dafnySummaryPattern.FindStringSubmatch(output)
	if match == nil {
		return Report{
			Verdict: VerdictInvalid,
			Output:  output,
		}
	}

	verified, _ := strconv.Atoi(match[1])
	errCount, _ := strconv.Atoi(match[2])

	verdict := VerdictValid
	if errCount == 0 {
		verdict = VerdictVerified
	}

	return Report{
		Verdict:  verdict,
		Output:   output,
		Verified: verified,
		Errors:   errCount,
	}
}

var (
	dafnyFlag         = cmds.Var[string]("-dafny")
	verifyTimeoutFlag = cmds.Var[string]("-verify-timeout")
)

type DafnyPath string

func (Module) DafnyPath(
	loader configs.Loader,
) DafnyPath {
	return vars.FirstNonZero(
		DafnyPath(*dafnyFlag),
		configs.First[DafnyPath](loader, "dafny_path"),
		"dafny",
	)
}

type VerifyTimeout time.Duration

func (Module) VerifyTimeout(
	loader configs.Loader,
	logger logs.Logger,
) VerifyTimeout {
	str := vars.FirstNonZero(
		*verifyTimeoutFlag,
		configs.First[string](loader, "verify_timeout"),
	)
	if str == "" {
		return VerifyTimeout(2 * time.Minute)
	}
	duration, err := time.ParseDuration(str)
	if err != nil {
		logger.Warn("bad verify timeout, using default",
			"value", str, "error", err,
		)
		return VerifyTimeout(2 * time.Minute)
	}
	return VerifyTimeout(duration)
}

type NewDafny func() *Dafny

func (Module) NewDafny(
	inject dscope.InjectStruct,
	path DafnyPath,
	timeout VerifyTimeout,
) NewDafny {
	return func() *Dafny {
		ret := &Dafny{
			path:    string(path),
			timeout: time.Duration(timeout),
		}
		inject(ret)
		return ret
	}
}
