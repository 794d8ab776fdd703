package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/addhe/infrabot-nlp/internal/logging"
	"github.com/addhe/infrabot-nlp/pkg/confirm"
	"github.com/addhe/infrabot-nlp/pkg/types"
)

// recordingService notes which service methods the router actually reached.
type recordingService struct {
	calls []string
}

func (s *recordingService) record(name string) *types.Result {
	s.calls = append(s.calls, name)
	return types.Ok(name+" ok", nil)
}

func (s *recordingService) CreateVPC(ctx context.Context, params types.CreateVPCParams) *types.Result {
	return s.record("CreateVPC")
}
func (s *recordingService) ListVPCs(ctx context.Context, project string) *types.Result {
	return s.record("ListVPCs")
}
func (s *recordingService) GetVPC(ctx context.Context, project, name string) *types.Result {
	return s.record("GetVPC")
}
func (s *recordingService) DeleteVPC(ctx context.Context, project, name string) *types.Result {
	return s.record("DeleteVPC")
}
func (s *recordingService) CreateSubnet(ctx context.Context, params types.CreateSubnetParams) *types.Result {
	return s.record("CreateSubnet")
}
func (s *recordingService) ListSubnets(ctx context.Context, project, network string) *types.Result {
	s.calls = append(s.calls, "ListSubnets")
	return types.Ok("listed", map[string]interface{}{"subnets": []*types.GCPResource{}, "count": 0})
}
func (s *recordingService) DeleteSubnet(ctx context.Context, project, region, name string) *types.Result {
	return s.record("DeleteSubnet")
}
func (s *recordingService) SetPrivateGoogleAccess(ctx context.Context, project, region, name string, enabled bool) *types.Result {
	return s.record("SetPrivateGoogleAccess")
}
func (s *recordingService) ListProjects(ctx context.Context, filter string) *types.Result {
	return s.record("ListProjects")
}
func (s *recordingService) CreateProject(ctx context.Context, params types.CreateProjectParams) *types.Result {
	return s.record("CreateProject")
}
func (s *recordingService) DeleteProject(ctx context.Context, projectID string) *types.Result {
	return s.record("DeleteProject")
}
func (s *recordingService) UndeleteProject(ctx context.Context, projectID string) *types.Result {
	return s.record("UndeleteProject")
}

func newTestRouter(svc *recordingService, gate *confirm.ScriptedGate) *Router {
	return NewRouter(svc, svc, svc, gate,
		map[string]string{"jakarta": "Asia/Jakarta", "london": "Europe/London"},
		logging.NewLogger("error", "text"))
}

func TestDispatchUnknownOperation(t *testing.T) {
	svc := &recordingService{}
	r := newTestRouter(svc, confirm.NewScriptedGate())

	res := r.Dispatch(context.Background(), "gcp.vpc.explode", map[string]interface{}{})
	if res.Success {
		t.Fatal("unknown operation should fail")
	}
	if res.FirstError().Code != types.ErrInvalidArgument {
		t.Errorf("error code = %v", res.FirstError().Code)
	}
	if len(svc.calls) != 0 {
		t.Errorf("service reached for unknown operation: %v", svc.calls)
	}
}

func TestDispatchMissingRequiredParam(t *testing.T) {
	svc := &recordingService{}
	r := newTestRouter(svc, confirm.NewScriptedGate())

	res := r.Dispatch(context.Background(), "gcp.subnet.create", map[string]interface{}{
		"name":    "subnet-a",
		"network": "my-vpc",
		// region and cidr_range missing
	})
	if res.Success {
		t.Fatal("missing required params should fail")
	}
	if res.FirstError().Code != types.ErrInvalidArgument {
		t.Errorf("error code = %v", res.FirstError().Code)
	}
	if len(svc.calls) != 0 {
		t.Errorf("service reached despite invalid params: %v", svc.calls)
	}
}

func TestDispatchWrongParamType(t *testing.T) {
	svc := &recordingService{}
	r := newTestRouter(svc, confirm.NewScriptedGate())

	res := r.Dispatch(context.Background(), "gcp.subnet.setPrivateGoogleAccess", map[string]interface{}{
		"name":    "subnet-a",
		"region":  "us-central1",
		"enabled": "yes",
	})
	if res.Success {
		t.Fatal("wrong param type should fail")
	}
	if !strings.Contains(res.Message, "enabled") {
		t.Errorf("message %q does not name the bad parameter", res.Message)
	}
	if len(svc.calls) != 0 {
		t.Errorf("service reached despite invalid params: %v", svc.calls)
	}
}

func TestDispatchRoutesToService(t *testing.T) {
	tests := []struct {
		operation string
		params    map[string]interface{}
		wantCall  string
	}{
		{"gcp.vpc.create", map[string]interface{}{"name": "my-vpc"}, "CreateVPC"},
		{"gcp.vpc.list", map[string]interface{}{}, "ListVPCs"},
		{"gcp.vpc.get", map[string]interface{}{"name": "my-vpc"}, "GetVPC"},
		{"gcp.subnet.create", map[string]interface{}{"name": "s", "network": "v", "region": "r", "cidr_range": "10.0.0.0/24"}, "CreateSubnet"},
		{"gcp.subnet.list", map[string]interface{}{"network": "my-vpc"}, "ListSubnets"},
		{"gcp.subnet.setPrivateGoogleAccess", map[string]interface{}{"name": "s", "region": "r", "enabled": true}, "SetPrivateGoogleAccess"},
		{"gcp.project.list", map[string]interface{}{"environment": "dev"}, "ListProjects"},
		{"gcp.project.create", map[string]interface{}{"project_id": "my-dev-project"}, "CreateProject"},
		{"gcp.project.undelete", map[string]interface{}{"project_id": "my-dev-project"}, "UndeleteProject"},
	}

	for _, tt := range tests {
		t.Run(tt.operation, func(t *testing.T) {
			svc := &recordingService{}
			r := newTestRouter(svc, confirm.NewScriptedGate())

			res := r.Dispatch(context.Background(), tt.operation, tt.params)
			if !res.Success {
				t.Fatalf("dispatch failed: %v", res.Errors)
			}
			if len(svc.calls) != 1 || svc.calls[0] != tt.wantCall {
				t.Errorf("calls = %v, want [%s]", svc.calls, tt.wantCall)
			}
		})
	}
}

func TestDispatchDeleteDeniedByGate(t *testing.T) {
	for _, operation := range []string{"gcp.vpc.delete", "gcp.subnet.delete", "gcp.project.delete"} {
		t.Run(operation, func(t *testing.T) {
			svc := &recordingService{}
			r := newTestRouter(svc, confirm.NewScriptedGate(false))

			params := map[string]interface{}{"name": "doomed", "region": "us-central1", "project_id": "doomed"}
			res := r.Dispatch(context.Background(), operation, params)

			if res.Success {
				t.Fatal("denied delete should fail")
			}
			if len(svc.calls) != 0 {
				t.Errorf("service reached despite denial: %v", svc.calls)
			}
		})
	}
}

func TestDispatchDeleteConfirmedByGate(t *testing.T) {
	svc := &recordingService{}
	r := newTestRouter(svc, confirm.NewScriptedGate(true))

	res := r.Dispatch(context.Background(), "gcp.vpc.delete", map[string]interface{}{"name": "my-vpc"})
	if !res.Success {
		t.Fatalf("confirmed delete failed: %v", res.Errors)
	}
	if len(svc.calls) != 1 || svc.calls[0] != "DeleteVPC" {
		t.Errorf("calls = %v", svc.calls)
	}
}

func TestDispatchWithOverridesGate(t *testing.T) {
	svc := &recordingService{}
	// Default gate denies everything.
	r := newTestRouter(svc, confirm.NewScriptedGate())

	override := confirm.NewScriptedGate(true)
	res := r.DispatchWith(context.Background(), override, "gcp.vpc.delete", map[string]interface{}{"name": "my-vpc"})
	if !res.Success {
		t.Fatalf("dispatch with override gate failed: %v", res.Errors)
	}
	if len(override.Asked) != 1 {
		t.Errorf("override gate asked %d times, want 1", len(override.Asked))
	}
}

func TestTimeNow(t *testing.T) {
	svc := &recordingService{}
	r := newTestRouter(svc, confirm.NewScriptedGate())

	res := r.Dispatch(context.Background(), "time.now", map[string]interface{}{"city": "Jakarta"})
	if !res.Success {
		t.Fatalf("time.now failed: %v", res.Errors)
	}
	if zone, _ := res.Data["timezone"].(string); zone != "Asia/Jakarta" {
		t.Errorf("timezone = %q", zone)
	}

	res = r.Dispatch(context.Background(), "time.now", map[string]interface{}{"city": "Atlantis"})
	if res.Success {
		t.Fatal("unknown city should fail")
	}
	if !strings.Contains(res.Message, "jakarta") || !strings.Contains(res.Message, "london") {
		t.Errorf("message %q does not list supported cities", res.Message)
	}
}

func TestShellExecute(t *testing.T) {
	svc := &recordingService{}
	r := newTestRouter(svc, confirm.NewScriptedGate())

	res := r.Dispatch(context.Background(), "shell.execute", map[string]interface{}{"command": "echo hello"})
	if !res.Success {
		t.Fatalf("shell.execute failed: %v", res.Errors)
	}
	if res.Message != "hello" {
		t.Errorf("message = %q, want stdout", res.Message)
	}

	res = r.Dispatch(context.Background(), "shell.execute", map[string]interface{}{"command": "exit 3"})
	if res.Success {
		t.Fatal("non-zero exit should fail")
	}
}

func TestOperationsCatalogue(t *testing.T) {
	r := newTestRouter(&recordingService{}, confirm.NewScriptedGate())

	ops := r.Operations()
	if len(ops) != 15 {
		t.Fatalf("catalogue has %d operations, want 15", len(ops))
	}

	names := make(map[string]bool, len(ops))
	for i, op := range ops {
		names[op.Name] = true
		if i > 0 && ops[i-1].Name >= op.Name {
			t.Errorf("catalogue not sorted at %q", op.Name)
		}
	}
	for _, want := range []string{"gcp.vpc.deleteCascade", "gcp.project.undelete", "shell.execute", "time.now"} {
		if !names[want] {
			t.Errorf("catalogue missing %q", want)
		}
	}
}
