package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mapscript/mapscript/pkg/mapscript"
)

func TestExamplesCommandByName(t *testing.T) {
	c := newTestCLI(t)

	var buf bytes.Buffer
	cmd := c.examplesCommand()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"welcome"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("examples: %v", err)
	}

	if !strings.Contains(buf.String(), "Title: Welcome to MapScript") {
		t.Errorf("output missing example content: %q", buf.String())
	}
}

func TestExamplesCommandUnknown(t *testing.T) {
	c := newTestCLI(t)

	cmd := c.examplesCommand()
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"no-such-example"})

	if err := cmd.Execute(); err == nil {
		t.Error("examples should fail for an unknown name")
	}
}

func TestExamplesCommandWriteFile(t *testing.T) {
	c := newTestCLI(t)
	out := filepath.Join(t.TempDir(), "welcome.map")

	cmd := c.examplesCommand()
	cmd.SetArgs([]string{"welcome", "--output", out})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("examples: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "start -> compile") {
		t.Errorf("written file missing example content: %q", data)
	}
}

func TestBundledExamplesCompileClean(t *testing.T) {
	// Every shipped example must compile without line errors.
	var buf bytes.Buffer
	cmd := newTestCLI(t).examplesCommand()
	cmd.SetOut(&buf)

	for _, name := range []string{"welcome", "webapp", "pipeline"} {
		buf.Reset()
		cmd.SetArgs([]string{name})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("examples %s: %v", name, err)
		}

		res := mapscript.Compile(buf.String())
		for _, e := range res.Errors {
			t.Errorf("%s line %d: %s", name, e.Line, e.Message)
		}
	}
}
