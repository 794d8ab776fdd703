// Package confirm provides the confirmation gate that stands between
// destructive operations and their execution. The gate defaults to deny:
// no answer, an unreadable answer, or an unexpected answer all refuse.
package confirm

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/addhe/infrabot-nlp/internal/logging"
)

// InteractiveGate prompts on a terminal and reads a y/N answer. Anything
// other than an explicit yes is a refusal, including EOF.
type InteractiveGate struct {
	in     *bufio.Reader
	out    io.Writer
	logger *logging.Logger
}

func NewInteractiveGate(in io.Reader, out io.Writer, logger *logging.Logger) *InteractiveGate {
	return &InteractiveGate{in: bufio.NewReader(in), out: out, logger: logger}
}

func (g *InteractiveGate) Confirm(prompt string) bool {
	fmt.Fprintf(g.out, "%s [y/N]: ", prompt)

	line, err := g.in.ReadString('\n')
	if err != nil && line == "" {
		g.logger.WithField("prompt", prompt).Debug("Confirmation input closed, denying")
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	confirmed := answer == "y" || answer == "yes"
	g.logger.WithField("confirmed", confirmed).Debug("Confirmation answered")
	return confirmed
}

// ScriptedGate replays a fixed sequence of answers. Non-interactive
// callers (the web API, tests) use it to pre-supply decisions; once the
// queue is exhausted every further question is denied.
type ScriptedGate struct {
	answers []bool
	Asked   []string
}

func NewScriptedGate(answers ...bool) *ScriptedGate {
	return &ScriptedGate{answers: answers}
}

func (g *ScriptedGate) Confirm(prompt string) bool {
	g.Asked = append(g.Asked, prompt)
	if len(g.answers) == 0 {
		return false
	}
	answer := g.answers[0]
	g.answers = g.answers[1:]
	return answer
}

// AutoApprove answers yes to everything. Reserved for callers that have
// already collected consent out of band.
type AutoApprove struct{}

func (AutoApprove) Confirm(string) bool { return true }
