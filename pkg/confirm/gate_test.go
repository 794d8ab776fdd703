package confirm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/addhe/infrabot-nlp/internal/logging"
)

func TestInteractiveGateAnswers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"lowercase yes", "y\n", true},
		{"full yes", "yes\n", true},
		{"uppercase", "Y\n", true},
		{"padded", "  y  \n", true},
		{"no", "n\n", false},
		{"empty line defaults to deny", "\n", false},
		{"garbage defaults to deny", "sure why not\n", false},
		{"eof defaults to deny", "", false},
	}

	logger := logging.NewLogger("error", "text")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			gate := NewInteractiveGate(strings.NewReader(tt.input), &out, logger)
			if got := gate.Confirm("Delete VPC 'legacy-vpc'?"); got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
			if !strings.Contains(out.String(), "[y/N]") {
				t.Errorf("prompt %q missing y/N marker", out.String())
			}
		})
	}
}

func TestScriptedGateReplaysThenDenies(t *testing.T) {
	gate := NewScriptedGate(true, false)

	if !gate.Confirm("first") {
		t.Error("first answer should be yes")
	}
	if gate.Confirm("second") {
		t.Error("second answer should be no")
	}
	if gate.Confirm("third") {
		t.Error("exhausted gate should deny")
	}
	if len(gate.Asked) != 3 {
		t.Errorf("recorded %d prompts, want 3", len(gate.Asked))
	}
}
