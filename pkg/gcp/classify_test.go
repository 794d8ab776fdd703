package gcp

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/addhe/infrabot-nlp/pkg/types"
)

func TestClassifyErrorHTTP(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want types.ErrorKind
	}{
		{
			name: "403 permission",
			err:  &googleapi.Error{Code: 403, Message: "Required 'compute.networks.delete' permission"},
			want: types.ErrPermissionDenied,
		},
		{
			name: "403 quota text",
			err:  &googleapi.Error{Code: 403, Message: "Quota 'NETWORKS' exceeded"},
			want: types.ErrQuotaExceeded,
		},
		{
			name: "404 not found",
			err:  &googleapi.Error{Code: 404, Message: "The resource 'my-vpc' was not found"},
			want: types.ErrResourceNotFound,
		},
		{
			name: "400 in use",
			err:  &googleapi.Error{Code: 400, Message: "The network resource is already being used by 'subnet-a'"},
			want: types.ErrResourceInUse,
		},
		{
			name: "400 bad range",
			err:  &googleapi.Error{Code: 400, Message: "Invalid value for field 'ipCidrRange'"},
			want: types.ErrInvalidArgument,
		},
		{
			name: "412 stale fingerprint",
			err:  &googleapi.Error{Code: 412, Message: "Invalid fingerprint"},
			want: types.ErrTransient,
		},
		{
			name: "429 rate limit",
			err:  &googleapi.Error{Code: 429, Message: "Rate Limit Exceeded"},
			want: types.ErrQuotaExceeded,
		},
		{
			name: "503 backend",
			err:  &googleapi.Error{Code: 503, Message: "Backend Error"},
			want: types.ErrTransient,
		},
		{
			name: "wrapped googleapi error",
			err:  fmt.Errorf("failed to delete VPC: %w", &googleapi.Error{Code: 404, Message: "not found"}),
			want: types.ErrResourceNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyErrorGRPC(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want types.ErrorKind
	}{
		{"permission denied", status.Error(codes.PermissionDenied, "caller lacks permission"), types.ErrPermissionDenied},
		{"not found", status.Error(codes.NotFound, "project not found"), types.ErrResourceNotFound},
		{"already exists", status.Error(codes.AlreadyExists, "requested entity already exists"), types.ErrInvalidArgument},
		{"resource exhausted", status.Error(codes.ResourceExhausted, "project quota reached"), types.ErrQuotaExceeded},
		{"unavailable", status.Error(codes.Unavailable, "connection refused"), types.ErrTransient},
		{"failed precondition in use", status.Error(codes.FailedPrecondition, "network is in use"), types.ErrResourceInUse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyErrorContext(t *testing.T) {
	if got := ClassifyError(context.DeadlineExceeded); got != types.ErrTransient {
		t.Errorf("deadline exceeded classified as %v, want %v", got, types.ErrTransient)
	}
	if got := ClassifyError(fmt.Errorf("rpc failed: %w", context.Canceled)); got != types.ErrTransient {
		t.Errorf("canceled classified as %v, want %v", got, types.ErrTransient)
	}
}

func TestClassifyErrorOpaque(t *testing.T) {
	if got := ClassifyError(errors.New("something inexplicable happened")); got != types.ErrUnknown {
		t.Errorf("opaque error classified as %v, want %v", got, types.ErrUnknown)
	}
}

func TestClassifyMessage(t *testing.T) {
	tests := []struct {
		message string
		want    types.ErrorKind
	}{
		{"ERROR: (gcloud.compute.networks.delete) Could not fetch resource: permission denied", types.ErrPermissionDenied},
		{"ERROR: The network is already being used by 'projects/p/regions/r/subnetworks/s'", types.ErrResourceInUse},
		{"ERROR: resource 'legacy-vpc' was not found", types.ErrResourceNotFound},
		{"ERROR: Quota 'SUBNETWORKS' exceeded. Limit: 100.0", types.ErrQuotaExceeded},
		{"ERROR: fingerprint mismatch for resource", types.ErrTransient},
		{"ERROR: connection reset by peer", types.ErrTransient},
		{"ERROR: Invalid value for ipCidrRange", types.ErrInvalidArgument},
		{"ERROR: range 10.0.0.0/24 would overlap with existing subnetwork", types.ErrInvalidArgument},
		{"ERROR: unexplained failure", types.ErrUnknown},
	}

	for _, tt := range tests {
		if got := ClassifyMessage(tt.message); got != tt.want {
			t.Errorf("ClassifyMessage(%q) = %v, want %v", tt.message, got, tt.want)
		}
	}
}
