package gcp

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/sirupsen/logrus"

	"github.com/addhe/infrabot-nlp/internal/logging"
)

// GcloudRunner invokes the gcloud CLI for the fallback path. The contract
// is "zero exit code = success"; stdout and stderr are captured and
// returned verbatim for the executor to interpret.
type GcloudRunner struct {
	binary      string
	globalFlags []string
	logger      *logging.Logger
}

func NewGcloudRunner(binary string, globalFlags []string, logger *logging.Logger) *GcloudRunner {
	if binary == "" {
		binary = "gcloud"
	}
	return &GcloudRunner{
		binary:      binary,
		globalFlags: globalFlags,
		logger:      logger,
	}
}

// Run executes gcloud with the given arguments. A non-nil error means the
// process could not be started or was cancelled; a non-zero exit code is
// not an error at this layer.
func (r *GcloudRunner) Run(ctx context.Context, args []string) (string, string, int, error) {
	full := make([]string, 0, len(args)+len(r.globalFlags))
	full = append(full, args...)
	full = append(full, r.globalFlags...)

	r.logger.WithFields(logrus.Fields{
		"binary": r.binary,
		"args":   full,
	}).Debug("Running gcloud command")

	cmd := exec.CommandContext(ctx, r.binary, full...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
			err = nil
		}
	}

	return stdout.String(), stderr.String(), exitCode, err
}
