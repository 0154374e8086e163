package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// External is a Library backed by an external analysis command. Each call
// runs one process: `<command> <action>` with a JSON request on stdin and a
// JSON response on stdout. Dataset and result handles are whatever tokens
// the tool returns; nemoflow passes them back verbatim.
type External struct {
	command string
	logger  *slog.Logger
}

// NewExternal creates an External library driving the given command.
func NewExternal(command string, logger *slog.Logger) *External {
	return &External{
		command: command,
		logger:  logger.With("component", "analysis"),
	}
}

type openResponse struct {
	Dataset string `json:"dataset"`
}

type diagnoseRequest struct {
	Dataset string `json:"dataset"`
	Name    string `json:"name"`
}

type diagnoseResponse struct {
	Result string `json:"result"`
}

type writeRequest struct {
	Results []namedResult `json:"results"`
	WriteSpec
}

type namedResult struct {
	Name   string `json:"name"`
	Result string `json:"result"`
}

// Open implements Library.
func (e *External) Open(ctx context.Context, spec OpenSpec) (Dataset, error) {
	var resp openResponse
	if err := e.invoke(ctx, "open", spec, &resp); err != nil {
		return "", err
	}
	if resp.Dataset == "" {
		return "", fmt.Errorf("%s open: empty dataset handle", e.command)
	}
	return Dataset(resp.Dataset), nil
}

// Diagnose implements Library.
func (e *External) Diagnose(ctx context.Context, ds Dataset, name string) (Result, error) {
	var resp diagnoseResponse
	req := diagnoseRequest{Dataset: string(ds), Name: name}
	if err := e.invoke(ctx, "diagnose", req, &resp); err != nil {
		return "", err
	}
	return Result(resp.Result), nil
}

// Write implements Library.
func (e *External) Write(ctx context.Context, results *ResultSet, spec WriteSpec) error {
	req := writeRequest{WriteSpec: spec}
	for _, name := range results.Names() {
		r, _ := results.Get(name)
		req.Results = append(req.Results, namedResult{Name: name, Result: string(r)})
	}
	return e.invoke(ctx, "write", req, &struct{}{})
}

func (e *External) invoke(ctx context.Context, action string, req, resp any) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("%s %s: encode request: %w", e.command, action, err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.command, action)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.logger.Debug("invoking analysis tool", "action", action, "command", e.command)
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s %s: %w: %s", e.command, action, err, msg)
		}
		return fmt.Errorf("%s %s: %w", e.command, action, err)
	}

	if err := json.Unmarshal(stdout.Bytes(), resp); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", e.command, action, err)
	}
	return nil
}
