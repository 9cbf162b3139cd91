// Package testutil provides the shared harness for integration tests:
// temp-dir HCL fixtures, log capture, and full app construction.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/gridsim/internal/app"
	"github.com/vk/gridsim/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
}

// RunModelTest writes the given files into a temp directory, constructs an
// app over them with the provided component modules, and runs it end to
// end. Construction panics (bad declarations) are captured into Err.
func RunModelTest(t *testing.T, files map[string]string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunModelTestWithContext(context.Background(), t, files, modules...)
}

// RunModelTestWithContext is RunModelTest with a caller-provided context.
func RunModelTestWithContext(ctx context.Context, t *testing.T, files map[string]string, modules ...registry.Module) *HarnessResult {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", ".tmp-gridsim-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	appConfig := &app.Config{
		ModelPath: tmpDir,
		LogLevel:  "debug",
		LogFormat: "text",
	}

	logBuffer := &SafeBuffer{}
	result := &HarnessResult{}

	func() {
		defer func() {
			if r := recover(); r != nil {
				result.Err = fmt.Errorf("app construction panicked: %v", r)
			}
		}()
		result.App = app.NewApp(logBuffer, appConfig, modules...)
	}()

	if result.Err == nil {
		result.Err = result.App.Run(ctx)
	}
	result.LogOutput = logBuffer.String()
	return result
}
