package gcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/addhe/infrabot-nlp/internal/logging"
	"github.com/addhe/infrabot-nlp/pkg/interfaces"
	"github.com/addhe/infrabot-nlp/pkg/types"
)

// Operation identifies one catalogue operation for the dual-path executor.
type Operation struct {
	Name     string // catalogue name, e.g. "gcp.vpc.delete"
	Resource string // resource the operation targets, for error reports

	// FallbackOn lists the error kinds eligible for CLI escalation.
	// Nil means the default of Transient and Unknown.
	FallbackOn []types.ErrorKind
}

// APICall runs the structured API path and returns operation data on
// success. The error is classified by the executor; callers never inspect
// provider error text themselves.
type APICall func(ctx context.Context) (map[string]interface{}, error)

// StateLookup fetches the current provider-reported status of a resource
// ahead of a delete decision.
type StateLookup func(ctx context.Context) (string, error)

// CLICall describes the equivalent gcloud invocation for an operation.
// Operations without a sanctioned CLI equivalent (read-only listings) pass
// nil instead.
type CLICall struct {
	Args []string
}

// Executor implements the dual-path execution protocol: structured API
// call first, then at most one escalation to the gcloud CLI when the
// failure class is fallback-eligible for the operation. There is no
// automatic retry beyond that single escalation.
type Executor struct {
	cli    interfaces.CLIRunner
	logger *logging.Logger
}

func NewExecutor(cli interfaces.CLIRunner, logger *logging.Logger) *Executor {
	return &Executor{cli: cli, logger: logger}
}

// Execute runs apiCall, classifies any failure, and escalates to
// cliFallback when allowed. Both outcomes are normalized into a Result.
func (e *Executor) Execute(ctx context.Context, op Operation, apiCall APICall, cliFallback *CLICall) *types.Result {
	data, err := apiCall(ctx)
	if err == nil {
		e.logger.WithFields(logrus.Fields{
			"operation": op.Name,
			"resource":  op.Resource,
		}).Info("Operation completed via API")
		return types.Ok(fmt.Sprintf("%s completed", op.Name), data)
	}

	kind := ClassifyError(err)
	e.logger.WithFields(logrus.Fields{
		"operation": op.Name,
		"resource":  op.Resource,
		"errorKind": kind,
	}).WithError(err).Debug("API call failed")

	if cliFallback == nil || !fallbackEligible(op, kind) {
		return failure(op, kind, err.Error())
	}

	e.logger.LogFallback(op.Name, op.Resource, string(kind))
	return e.runFallback(ctx, op, kind, err, cliFallback)
}

// deleteWithGate guards a delete with a status lookup. The lookup runs
// first; when it fails, or reports a status that blocks deletion, neither
// the API delete nor the CLI is ever invoked. Repeated calls against a
// blocked resource keep failing the same way without touching the
// provider.
func (e *Executor) deleteWithGate(ctx context.Context, op Operation, noun string, lookup StateLookup, apiCall APICall, cliFallback *CLICall) *types.Result {
	state, err := lookup(ctx)
	if err != nil {
		return failure(op, ClassifyError(err), err.Error())
	}
	if statusBlocksDelete(state) {
		return types.Fail(types.ErrInvalidArgument,
			fmt.Sprintf("%s %q is %s and cannot be deleted", noun, op.Resource, state), op.Resource)
	}
	return e.Execute(ctx, op, apiCall, cliFallback)
}

func (e *Executor) runFallback(ctx context.Context, op Operation, apiKind types.ErrorKind, apiErr error, cli *CLICall) *types.Result {
	stdout, stderr, exitCode, runErr := e.cli.Run(ctx, cli.Args)
	if runErr != nil {
		return types.FailWith(
			fmt.Sprintf("%s on %s failed on both paths: %v", op.Name, op.Resource, runErr),
			types.ErrorDetail{Code: apiKind, Message: apiErr.Error(), Resource: op.Resource},
			types.ErrorDetail{Code: types.ErrUnknown, Message: fmt.Sprintf("gcloud invocation failed: %v", runErr), Resource: op.Resource},
		)
	}

	if exitCode == 0 {
		data := map[string]interface{}{"fallback": true}
		if out := strings.TrimSpace(stdout); out != "" {
			data["output"] = out
		}
		e.logger.WithFields(logrus.Fields{
			"operation": op.Name,
			"resource":  op.Resource,
		}).Info("Operation completed via gcloud fallback")
		return types.Ok(fmt.Sprintf("%s completed via gcloud fallback", op.Name), data)
	}

	cause := strings.TrimSpace(stderr)
	if cause == "" {
		cause = fmt.Sprintf("gcloud exited with code %d", exitCode)
	}
	return failure(op, ClassifyMessage(cause), cause)
}

func failure(op Operation, kind types.ErrorKind, cause string) *types.Result {
	message := fmt.Sprintf("%s on %s failed: %s", op.Name, op.Resource, cause)
	if hint := actionableHint(kind); hint != "" {
		message = fmt.Sprintf("%s - %s", message, hint)
	}
	return types.Fail(kind, message, op.Resource)
}

func fallbackEligible(op Operation, kind types.ErrorKind) bool {
	eligible := op.FallbackOn
	if eligible == nil {
		eligible = []types.ErrorKind{types.ErrTransient, types.ErrUnknown}
	}
	for _, k := range eligible {
		if k == kind {
			return true
		}
	}
	return false
}

// UsedFallback reports whether a successful result came through the CLI
// path rather than the API.
func UsedFallback(res *types.Result) bool {
	fb, _ := res.Data["fallback"].(bool)
	return fb
}

// successMessage rewrites the executor's generic success message with an
// operation-specific one, preserving the fallback marker.
func successMessage(res *types.Result, message string) *types.Result {
	if !res.Success {
		return res
	}
	if UsedFallback(res) {
		message += " (via gcloud CLI fallback)"
	}
	res.Message = message
	return res
}
