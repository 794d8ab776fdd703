package gcp

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/addhe/infrabot-nlp/pkg/types"
)

// ClassifyError maps a provider error onto the closed ErrorKind taxonomy.
// This is the only place provider-specific error text is inspected; above
// this boundary components branch on ErrorKind alone.
func ClassifyError(err error) types.ErrorKind {
	if err == nil {
		return types.ErrUnknown
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return types.ErrTransient
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return classifyHTTP(gerr)
	}

	if st, ok := status.FromError(err); ok && st.Code() != codes.OK && st.Code() != codes.Unknown {
		return classifyGRPC(st.Code(), st.Message())
	}

	return ClassifyMessage(err.Error())
}

func classifyHTTP(gerr *googleapi.Error) types.ErrorKind {
	msg := strings.ToLower(gerr.Message)

	switch gerr.Code {
	case 400:
		if strings.Contains(msg, "in use") || strings.Contains(msg, "being used by") {
			return types.ErrResourceInUse
		}
		return types.ErrInvalidArgument
	case 401, 403:
		if strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit") {
			return types.ErrQuotaExceeded
		}
		return types.ErrPermissionDenied
	case 404:
		return types.ErrResourceNotFound
	case 409:
		if strings.Contains(msg, "in use") || strings.Contains(msg, "being used by") {
			return types.ErrResourceInUse
		}
		return types.ErrInvalidArgument
	case 412:
		// Precondition failures are dominated by stale optimistic-concurrency
		// fingerprints; a retry through the CLI path re-reads them.
		return types.ErrTransient
	case 429:
		return types.ErrQuotaExceeded
	}

	if gerr.Code >= 500 {
		return types.ErrTransient
	}

	return ClassifyMessage(gerr.Message)
}

func classifyGRPC(code codes.Code, message string) types.ErrorKind {
	switch code {
	case codes.PermissionDenied, codes.Unauthenticated:
		return types.ErrPermissionDenied
	case codes.NotFound:
		return types.ErrResourceNotFound
	case codes.InvalidArgument, codes.AlreadyExists, codes.OutOfRange:
		return types.ErrInvalidArgument
	case codes.ResourceExhausted:
		return types.ErrQuotaExceeded
	case codes.FailedPrecondition:
		if strings.Contains(strings.ToLower(message), "in use") {
			return types.ErrResourceInUse
		}
		return types.ErrInvalidArgument
	case codes.Unavailable, codes.DeadlineExceeded, codes.Aborted, codes.Internal:
		return types.ErrTransient
	}
	return types.ErrUnknown
}

// ClassifyMessage classifies raw error text, used for CLI stderr and for
// provider errors that carry no structured code.
func ClassifyMessage(message string) types.ErrorKind {
	msg := strings.ToLower(message)

	switch {
	case strings.Contains(msg, "permission denied"),
		strings.Contains(msg, "permission_denied"),
		strings.Contains(msg, "forbidden"),
		strings.Contains(msg, "not authenticated"),
		strings.Contains(msg, "no credentials"):
		return types.ErrPermissionDenied
	case strings.Contains(msg, "already being used by"),
		strings.Contains(msg, "in use"),
		strings.Contains(msg, "resourceinuse"):
		return types.ErrResourceInUse
	case strings.Contains(msg, "not found"),
		strings.Contains(msg, "not_found"):
		return types.ErrResourceNotFound
	case strings.Contains(msg, "quota"),
		strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "ratelimitexceeded"):
		return types.ErrQuotaExceeded
	case strings.Contains(msg, "fingerprint"),
		strings.Contains(msg, "precondition"):
		return types.ErrTransient
	case strings.Contains(msg, "unavailable"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "timed out"),
		strings.Contains(msg, "deadline"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "internal error"),
		strings.Contains(msg, "try again"):
		return types.ErrTransient
	case strings.Contains(msg, "invalid"),
		strings.Contains(msg, "already exists"),
		strings.Contains(msg, "overlap"),
		strings.Contains(msg, "malformed"):
		return types.ErrInvalidArgument
	}

	return types.ErrUnknown
}

// actionableHint supplies the operator-facing remedy appended to failure
// messages for kinds with a known next step.
func actionableHint(kind types.ErrorKind) string {
	switch kind {
	case types.ErrResourceInUse:
		return "remove dependent resources before deleting"
	case types.ErrPermissionDenied:
		return "check IAM permissions for the active credentials"
	case types.ErrQuotaExceeded:
		return "request more quota or reduce usage in this project"
	case types.ErrResourceNotFound:
		return "verify the resource name and project are correct"
	}
	return ""
}
