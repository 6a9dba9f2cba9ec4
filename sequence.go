package goAquao

import (
	"context"
	"fmt"
	"time"

	"github.com/aquao/goAquao/session"
)

// Step names one call of the demonstration sequence.
type Step int

const (
	StepIdentity1 Step = iota
	StepAuthenticate
	StepIdentity2
	StepLogout
	StepIdentity3
)

// Sequence is the fixed call order executed by [Client.Run].
var Sequence = [...]Step{
	StepIdentity1,
	StepAuthenticate,
	StepIdentity2,
	StepLogout,
	StepIdentity3,
}

func (s Step) String() string {
	switch s {
	case StepIdentity1:
		return "IDENTITY_1"
	case StepAuthenticate:
		return "AUTH"
	case StepIdentity2:
		return "IDENTITY_2"
	case StepLogout:
		return "LOGOUT"
	case StepIdentity3:
		return "IDENTITY_3"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// StepResult describes one completed (or failed) call.
type StepResult struct {
	Step           Step
	Path           string
	RequestID      string
	StatusCode     int
	Principal      Principal
	SessionID      string
	SessionChanged bool
	Duration       time.Duration
}

// Report lists the calls of one run in execution order. Failed is set when the
// run stopped early; Steps then holds only the calls that succeeded.
type Report struct {
	Steps    []StepResult
	Failed   *StepResult
	Duration time.Duration
}

// Completed reports whether every step of [Sequence] succeeded.
func (r *Report) Completed() bool {
	return r != nil && r.Failed == nil && len(r.Steps) == len(Sequence)
}

// Run issues one token and executes [Sequence] against tr: identity, authenticate,
// identity, logout, identity. Each call starts only after the previous one
// finished, and the first error ends the run; no call is retried.
func (c *Client) Run(ctx context.Context, tr *session.Tracker) (*Report, error) {
	start := c.now()
	report := &Report{Steps: make([]StepResult, 0, len(Sequence))}
	defer func() { report.Duration = c.now().Sub(start) }()

	token, err := c.IssueToken(ctx)
	if err != nil {
		c.metrics.Inc(MetricSequenceAborted)
		return report, err
	}

	for _, step := range Sequence {
		var res StepResult
		switch step {
		case StepAuthenticate:
			res, err = c.authenticate(ctx, tr, token)
		case StepLogout:
			res, err = c.logout(ctx, tr)
		default:
			res, err = c.whoAmI(ctx, tr, step)
		}
		if err != nil {
			report.Failed = &res
			c.metrics.Inc(MetricSequenceAborted)
			return report, fmt.Errorf("%s: %w", step, err)
		}
		report.Steps = append(report.Steps, res)
	}

	c.metrics.Inc(MetricSequenceCompleted)
	return report, nil
}
