// Package integration adapts the bootstrap pipeline to concrete
// test-execution frameworks.
package integration

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"gooze.dev/pkg/mutenv/internal/bootstrap"
	"gooze.dev/pkg/mutenv/internal/expression"
	m "gooze.dev/pkg/mutenv/internal/model"
)

// DefaultTimeout bounds both the setup probe and each test run.
const DefaultTimeout = 30 * time.Second

// GoTestSetup wires up the `go test` integration. Setup probes the Go
// toolchain; an unavailable toolchain is the pipeline's single fatal
// failure.
type GoTestSetup struct {
	// Binary is the Go tool to invoke. Defaults to "go".
	Binary string

	// Timeout bounds the setup probe and each test run.
	Timeout time.Duration
}

// NewGoTestSetup constructs a GoTestSetup with defaults applied.
func NewGoTestSetup() *GoTestSetup {
	return &GoTestSetup{Binary: "go", Timeout: DefaultTimeout}
}

// Setup implements bootstrap.IntegrationSetup. It verifies the configured
// Go binary is present and answers `go version` within the timeout.
func (s *GoTestSetup) Setup(ctx context.Context, _ bootstrap.Env) (bootstrap.Integration, error) {
	binary := s.Binary
	if binary == "" {
		binary = "go"
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("gotest integration unavailable: %s not found", binary)
	}

	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(probeCtx, path, "version").Output()
	if err != nil {
		return nil, fmt.Errorf("gotest integration unavailable: %s version failed: %v", binary, err)
	}

	slog.Debug("gotest integration ready", "toolchain", strings.TrimSpace(string(out)))

	return &GoTest{binary: path, timeout: timeout}, nil
}

// GoTest executes tests through the `go test` command.
type GoTest struct {
	binary  string
	timeout time.Duration
}

// Name implements bootstrap.Integration.
func (g *GoTest) Name() string { return "gotest" }

// Selector returns an expression selector bound to this integration.
func (g *GoTest) Selector() bootstrap.Selector {
	return &ExpressionSelector{integration: g}
}

// RunTests runs `go test` in dir restricted to the given -run pattern and
// reports whether the tests passed, with the combined output.
func (g *GoTest) RunTests(ctx context.Context, dir m.Path, pattern string) (bool, string, error) {
	runCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, g.binary, "test", "-count=1", "-run", pattern, "./...")
	cmd.Dir = string(dir)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	output := stdout.String() + stderr.String()

	if err == nil {
		return true, output, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Failing tests are a result, not an execution error.
		return false, output, nil
	}

	return false, output, fmt.Errorf("go test: %w", err)
}

// ExpressionSelector maps a subject expression to the test functions
// exercising it, by naming convention: the tests whose names start with
// Test followed by the subject's trailing segments.
type ExpressionSelector struct {
	integration *GoTest
}

// TestsFor implements bootstrap.Selector.
func (s *ExpressionSelector) TestsFor(subject m.Subject) []string {
	syntax := subject.Expression().Syntax()

	segments := strings.Split(syntax, ".")
	if len(segments) < 2 {
		// A bare package expression selects the package's whole suite.
		return []string{"^Test"}
	}

	// Drop the package qualifier; the remaining segments name the unit.
	name := strings.Join(segments[1:], "_")
	if name == "" || strings.Contains(name, expression.Wildcard) {
		return []string{"^Test"}
	}

	return []string{fmt.Sprintf("^Test%s$", name)}
}
