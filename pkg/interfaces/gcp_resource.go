package interfaces

import (
	"context"

	"github.com/addhe/infrabot-nlp/pkg/types"
)

// VPCService covers VPC network operations. Every method returns a
// normalized Result; mutating operations run through the dual-path
// executor (API first, gcloud CLI fallback).
type VPCService interface {
	CreateVPC(ctx context.Context, params types.CreateVPCParams) *types.Result
	ListVPCs(ctx context.Context, project string) *types.Result
	GetVPC(ctx context.Context, project, name string) *types.Result
	DeleteVPC(ctx context.Context, project, name string) *types.Result
}

// SubnetService covers subnet operations within a VPC network.
type SubnetService interface {
	CreateSubnet(ctx context.Context, params types.CreateSubnetParams) *types.Result
	ListSubnets(ctx context.Context, project, network string) *types.Result
	DeleteSubnet(ctx context.Context, project, region, name string) *types.Result
	SetPrivateGoogleAccess(ctx context.Context, project, region, name string, enabled bool) *types.Result
}

// ProjectService covers project lifecycle operations.
type ProjectService interface {
	ListProjects(ctx context.Context, filter string) *types.Result
	CreateProject(ctx context.Context, params types.CreateProjectParams) *types.Result
	DeleteProject(ctx context.Context, projectID string) *types.Result
	UndeleteProject(ctx context.Context, projectID string) *types.Result
}

// Confirmer obtains a synchronous yes/no answer from the operator before a
// destructive step proceeds. Absence of an explicit answer is a deny.
type Confirmer interface {
	Confirm(prompt string) bool
}

// CLIRunner executes an external command-line tool invocation and reports
// captured output alongside the exit code. A non-nil error means the
// process could not be run at all (binary missing, context cancelled).
type CLIRunner interface {
	Run(ctx context.Context, args []string) (stdout, stderr string, exitCode int, err error)
}
