package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/addhe/infrabot-nlp/internal/config"
	"github.com/addhe/infrabot-nlp/internal/logging"
	"github.com/addhe/infrabot-nlp/pkg/confirm"
	"github.com/addhe/infrabot-nlp/pkg/tools"
	"github.com/addhe/infrabot-nlp/pkg/types"
)

type stubService struct {
	deleteVPCCalls int
}

func (s *stubService) CreateVPC(ctx context.Context, params types.CreateVPCParams) *types.Result {
	return types.Ok("created", nil)
}
func (s *stubService) ListVPCs(ctx context.Context, project string) *types.Result {
	return types.Ok("Found 2 VPC networks", map[string]interface{}{"count": 2})
}
func (s *stubService) GetVPC(ctx context.Context, project, name string) *types.Result {
	return types.Fail(types.ErrResourceNotFound, "VPC not found", name)
}
func (s *stubService) DeleteVPC(ctx context.Context, project, name string) *types.Result {
	s.deleteVPCCalls++
	return types.Ok("deleted", nil)
}
func (s *stubService) CreateSubnet(ctx context.Context, params types.CreateSubnetParams) *types.Result {
	return types.Ok("created", nil)
}
func (s *stubService) ListSubnets(ctx context.Context, project, network string) *types.Result {
	return types.Ok("listed", map[string]interface{}{"subnets": []*types.GCPResource{}})
}
func (s *stubService) DeleteSubnet(ctx context.Context, project, region, name string) *types.Result {
	return types.Ok("deleted", nil)
}
func (s *stubService) SetPrivateGoogleAccess(ctx context.Context, project, region, name string, enabled bool) *types.Result {
	return types.Ok("updated", nil)
}
func (s *stubService) ListProjects(ctx context.Context, filter string) *types.Result {
	return types.Ok("listed", nil)
}
func (s *stubService) CreateProject(ctx context.Context, params types.CreateProjectParams) *types.Result {
	return types.Ok("created", nil)
}
func (s *stubService) DeleteProject(ctx context.Context, projectID string) *types.Result {
	return types.Ok("deleted", nil)
}
func (s *stubService) UndeleteProject(ctx context.Context, projectID string) *types.Result {
	return types.Ok("recovered", nil)
}

func newTestServer(svc *stubService) *WebServer {
	logger := logging.NewLogger("error", "text")
	router := tools.NewRouter(svc, svc, svc, confirm.NewScriptedGate(), nil, logger)
	cfg := &config.Config{}
	cfg.Web.EnableWebSockets = false
	cfg.MCP.ServerName = "infrabot-nlp"
	return NewWebServer(cfg, router, logger)
}

func TestOperationsEndpoint(t *testing.T) {
	srv := newTestServer(&stubService{})

	req := httptest.NewRequest("GET", "/api/operations", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Operations []tools.OperationInfo `json:"operations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(body.Operations) != 15 {
		t.Errorf("catalogue has %d operations, want 15", len(body.Operations))
	}
}

func TestDispatchEndpoint(t *testing.T) {
	srv := newTestServer(&stubService{})

	payload, _ := json.Marshal(DispatchRequest{
		Operation: "gcp.vpc.list",
		Params:    map[string]interface{}{},
	})
	req := httptest.NewRequest("POST", "/api/dispatch", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res types.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !res.Success {
		t.Errorf("result = %+v", res)
	}
}

func TestDispatchStatusTracksErrorKind(t *testing.T) {
	srv := newTestServer(&stubService{})

	payload, _ := json.Marshal(DispatchRequest{
		Operation: "gcp.vpc.get",
		Params:    map[string]interface{}{"name": "ghost-vpc"},
	})
	req := httptest.NewRequest("POST", "/api/dispatch", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for RESOURCE_NOT_FOUND", rec.Code)
	}
}

func TestDispatchCarriesConfirmations(t *testing.T) {
	svc := &stubService{}
	srv := newTestServer(svc)

	// Without a pre-supplied yes, the delete is denied.
	payload, _ := json.Marshal(DispatchRequest{
		Operation: "gcp.vpc.delete",
		Params:    map[string]interface{}{"name": "legacy-vpc"},
	})
	req := httptest.NewRequest("POST", "/api/dispatch", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("unconfirmed delete status = %d, want 400", rec.Code)
	}
	if svc.deleteVPCCalls != 0 {
		t.Errorf("delete reached the service without confirmation")
	}

	// With one.
	payload, _ = json.Marshal(DispatchRequest{
		Operation:     "gcp.vpc.delete",
		Params:        map[string]interface{}{"name": "legacy-vpc"},
		Confirmations: []bool{true},
	})
	req = httptest.NewRequest("POST", "/api/dispatch", bytes.NewReader(payload))
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("confirmed delete status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if svc.deleteVPCCalls != 1 {
		t.Errorf("deleteVPCCalls = %d, want 1", svc.deleteVPCCalls)
	}
}

func TestDispatchInvalidBody(t *testing.T) {
	srv := newTestServer(&stubService{})

	req := httptest.NewRequest("POST", "/api/dispatch", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
