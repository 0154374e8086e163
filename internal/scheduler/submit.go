package scheduler

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/me/nemoflow/pkg/model"
)

// WriteScript writes the rendered script to path, replacing any previous
// script at the same location.
func WriteScript(path, script string) error {
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		return model.NewSubmissionError("write job script", err)
	}
	return nil
}

// Submit hands the written script to sbatch and returns the scheduler's
// stdout (the job acknowledgement line). A failure is a SUBMISSION_ERROR;
// the script on disk is left untouched either way.
func Submit(ctx context.Context, scriptPath string, logger *slog.Logger) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "sbatch", scriptPath)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("submitting job script", "path", scriptPath)
	if err := cmd.Run(); err != nil {
		msg := "sbatch " + scriptPath
		if s := strings.TrimSpace(stderr.String()); s != "" {
			msg += ": " + s
		}
		return "", model.NewSubmissionError(msg, err)
	}
	return strings.TrimSpace(stdout.String()), nil
}
