package types

import (
	"fmt"
	"strings"
	"time"
)

// ErrorKind is the closed taxonomy every provider or CLI failure is
// normalized into. Classification happens once, at the boundary where the
// provider error is received; everything above that boundary branches on
// ErrorKind only.
type ErrorKind string

const (
	ErrPermissionDenied ErrorKind = "PERMISSION_DENIED"
	ErrResourceNotFound ErrorKind = "RESOURCE_NOT_FOUND"
	ErrResourceInUse    ErrorKind = "RESOURCE_IN_USE"
	ErrInvalidArgument  ErrorKind = "INVALID_ARGUMENT"
	ErrQuotaExceeded    ErrorKind = "QUOTA_EXCEEDED"
	ErrTransient        ErrorKind = "TRANSIENT"
	ErrUnknown          ErrorKind = "UNKNOWN"
)

// ErrorDetail describes a single normalized failure. Resource names the
// affected resource when known so aggregated reports can point at it.
type ErrorDetail struct {
	Code     ErrorKind `json:"code"`
	Message  string    `json:"message"`
	Resource string    `json:"resource,omitempty"`
}

func (e ErrorDetail) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Resource)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Result is the normalized outcome type used by every operation in the
// system. Success=false implies Errors is non-empty. Data stays empty on
// failure unless partial results are explicitly meaningful (for example a
// partial subnet-deletion report).
type Result struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Errors  []ErrorDetail          `json:"errors,omitempty"`
}

// Ok builds a success Result.
func Ok(message string, data map[string]interface{}) *Result {
	if data == nil {
		data = map[string]interface{}{}
	}
	return &Result{Success: true, Message: message, Data: data}
}

// Fail builds a failure Result with a single error detail.
func Fail(code ErrorKind, message, resource string) *Result {
	return &Result{
		Success: false,
		Message: message,
		Errors:  []ErrorDetail{{Code: code, Message: message, Resource: resource}},
	}
}

// FailWith builds a failure Result carrying multiple error details.
func FailWith(message string, errs ...ErrorDetail) *Result {
	return &Result{Success: false, Message: message, Errors: errs}
}

// FirstError returns the leading error detail, or a zero detail when the
// result succeeded.
func (r *Result) FirstError() ErrorDetail {
	if len(r.Errors) > 0 {
		return r.Errors[0]
	}
	return ErrorDetail{}
}

// ErrorSummary joins all error messages for user display.
func (r *Result) ErrorSummary() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

// Resource type names used in GCPResource.Type and the operation catalogue.
const (
	ResourceTypeProject = "project"
	ResourceTypeVPC     = "vpc"
	ResourceTypeSubnet  = "subnet"
)

// GCPResource represents a Google Cloud resource in the shape the rest of
// the system works with. Status mirrors the provider-reported lifecycle
// state (ACTIVE, DELETE_REQUESTED, READY, ...) and is never invented
// locally.
type GCPResource struct {
	Type     string                 `json:"type"`
	ID       string                 `json:"id"`
	Name     string                 `json:"name"`
	Status   string                 `json:"status"`
	Region   string                 `json:"region,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	LastSeen time.Time              `json:"lastSeen"`
}

// CreateVPCParams describes a VPC network creation request.
type CreateVPCParams struct {
	Project     string
	Name        string
	SubnetMode  string // "auto" or "custom"
	RoutingMode string // "global" or "regional"
	Description string
}

// CreateSubnetParams describes a subnet creation request.
type CreateSubnetParams struct {
	Project             string
	Network             string
	Name                string
	Region              string
	CidrRange           string
	PrivateGoogleAccess bool
	Description         string
}

// CreateProjectParams describes a project creation request.
type CreateProjectParams struct {
	ProjectID   string
	DisplayName string
}
