package agent

import (
	"encoding/json"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "bare object",
			response: `{"operation": "gcp.vpc.list", "params": {}}`,
			want:     `{"operation": "gcp.vpc.list", "params": {}}`,
		},
		{
			name:     "fenced json",
			response: "```json\n{\"operation\": \"gcp.vpc.list\", \"params\": {}}\n```",
			want:     `{"operation": "gcp.vpc.list", "params": {}}`,
		},
		{
			name:     "fence without language tag",
			response: "```\n{\"operation\": \"time.now\"}\n```",
			want:     `{"operation": "time.now"}`,
		},
		{
			name:     "surrounding prose",
			response: "Sure, here is the operation:\n{\"operation\": \"gcp.project.list\", \"params\": {\"environment\": \"dev\"}}\nLet me know if you need more.",
			want:     `{"operation": "gcp.project.list", "params": {"environment": "dev"}}`,
		},
		{
			name:     "unterminated fence",
			response: "```json\n{\"operation\": \"time.now\"}",
			want:     `{"operation": "time.now"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.response); got != tt.want {
				t.Errorf("extractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIntentUnmarshal(t *testing.T) {
	raw := extractJSON("```json\n{\"operation\": \"gcp.subnet.create\", \"params\": {\"name\": \"subnet-a\", \"private_google_access\": true}}\n```")

	var intent Intent
	if err := json.Unmarshal([]byte(raw), &intent); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if intent.Operation != "gcp.subnet.create" {
		t.Errorf("operation = %q", intent.Operation)
	}
	if enabled, _ := intent.Params["private_google_access"].(bool); !enabled {
		t.Error("bool param lost in the round trip")
	}
}

func TestIntentConversationalReply(t *testing.T) {
	var intent Intent
	if err := json.Unmarshal([]byte(`{"operation": "", "reply": "VPC stands for Virtual Private Cloud."}`), &intent); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if intent.Operation != "" || intent.Reply == "" {
		t.Errorf("intent = %+v", intent)
	}
}
