package gcp

import (
	"testing"

	"cloud.google.com/go/resourcemanager/apiv3/resourcemanagerpb"

	"github.com/addhe/infrabot-nlp/pkg/types"
)

func TestStatusBlocksDelete(t *testing.T) {
	tests := []struct {
		status string
		blocks bool
	}{
		{"", false},
		{"ACTIVE", false},
		{"READY", false},
		{"ready", false},
		{"DELETE_REQUESTED", true},
		{"DELETE_IN_PROGRESS", true},
		{"DRAINING", true},
		{"STATE_UNSPECIFIED", true},
	}

	for _, tt := range tests {
		if got := statusBlocksDelete(tt.status); got != tt.blocks {
			t.Errorf("statusBlocksDelete(%q) = %v, want %v", tt.status, got, tt.blocks)
		}
	}
}

func TestConvertProjectPreservesProviderState(t *testing.T) {
	tests := []struct {
		state resourcemanagerpb.Project_State
		want  string
	}{
		{resourcemanagerpb.Project_ACTIVE, "ACTIVE"},
		{resourcemanagerpb.Project_DELETE_REQUESTED, "DELETE_REQUESTED"},
	}

	for _, tt := range tests {
		res := convertProject(&resourcemanagerpb.Project{
			Name:        "projects/123456",
			ProjectId:   "acme-dev-platform",
			DisplayName: "Acme Dev Platform",
			State:       tt.state,
		})
		if res.Status != tt.want {
			t.Errorf("state %v: Status = %q, want the literal %q", tt.state, res.Status, tt.want)
		}
		if res.ID != "acme-dev-platform" || res.Type != types.ResourceTypeProject {
			t.Errorf("state %v: converted resource = %+v", tt.state, res)
		}
	}
}

func TestProjectIDPattern(t *testing.T) {
	valid := []string{"my-dev-project", "a", "project-123"}
	invalid := []string{"", "1project", "-project", "My-Project", "proj_ect"}

	for _, id := range valid {
		if !projectIDPattern.MatchString(id) {
			t.Errorf("%q rejected, want accepted", id)
		}
	}
	for _, id := range invalid {
		if projectIDPattern.MatchString(id) {
			t.Errorf("%q accepted, want rejected", id)
		}
	}
}

func TestDisplayNameFromID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"my-dev-project", "My Dev Project"},
		{"single", "Single"},
		{"a-b", "A B"},
	}
	for _, tt := range tests {
		if got := displayNameFromID(tt.id); got != tt.want {
			t.Errorf("displayNameFromID(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestMatchesEnvironment(t *testing.T) {
	res := &types.GCPResource{ID: "acme-dev-platform", Name: "Acme Platform"}
	if !matchesEnvironment(res, "dev") {
		t.Error("dev should match by ID substring")
	}
	if !matchesEnvironment(res, "acme") {
		t.Error("acme should match by name substring")
	}
	if matchesEnvironment(res, "prod") {
		t.Error("prod should not match")
	}
}

func TestNetworkSelfLink(t *testing.T) {
	got := networkSelfLink("my-project", "my-vpc")
	want := "projects/my-project/global/networks/my-vpc"
	if got != want {
		t.Errorf("networkSelfLink() = %q, want %q", got, want)
	}
}

func TestLastPathSegment(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.googleapis.com/compute/v1/projects/p/regions/us-central1", "us-central1"},
		{"projects/p/global/networks/my-vpc", "my-vpc"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := lastPathSegment(tt.in); got != tt.want {
			t.Errorf("lastPathSegment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSubnetModeString(t *testing.T) {
	if subnetModeString(true) != "auto" || subnetModeString(false) != "custom" {
		t.Error("subnet mode strings wrong")
	}
}
