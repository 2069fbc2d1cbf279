package cli

import (
	"bytes"
	"os"
	"testing"

	errs "github.com/mapscript/mapscript/pkg/errors"
)

func readBack(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestPatchNodeCommand(t *testing.T) {
	c := newTestCLI(t)
	in := writeTestDocument(t, "A:: Hello [colour=red]\nB:: World\nA -> B\n")

	cmd := c.patchNodeCommand()
	cmd.SetArgs([]string{in, "A", "--border", "2px solid blue"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("patch node: %v", err)
	}

	want := "A:: Hello [colour=red | border=2px solid blue]\nB:: World\nA -> B\n"
	if got := readBack(t, in); got != want {
		t.Errorf("patched file:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestPatchNodeCommandRemoveAttr(t *testing.T) {
	c := newTestCLI(t)
	in := writeTestDocument(t, "A:: Hello [colour=red]\n")

	cmd := c.patchNodeCommand()
	cmd.SetArgs([]string{in, "A", "--colour", ""})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("patch node: %v", err)
	}

	if got := readBack(t, in); got != "A:: Hello\n" {
		t.Errorf("patched file = %q, want bracket dropped", got)
	}
}

func TestPatchNodeCommandUnlocatable(t *testing.T) {
	c := newTestCLI(t)
	content := "A:: Hello\n"
	in := writeTestDocument(t, content)

	cmd := c.patchNodeCommand()
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{in, "Z", "--colour", "red"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("patch should fail for an unknown node")
	}
	if errs.GetCode(err) != errs.ErrCodeUnlocatableTarget {
		t.Errorf("error code = %q, want %q", errs.GetCode(err), errs.ErrCodeUnlocatableTarget)
	}
	if got := readBack(t, in); got != content {
		t.Errorf("file changed on a failed patch: %q", got)
	}
}

func TestPatchEdgeCommand(t *testing.T) {
	c := newTestCLI(t)
	in := writeTestDocument(t, "A:: Hello\nB:: World\nA -> B [hop]\n")

	cmd := c.patchEdgeCommand()
	cmd.SetArgs([]string{in, "3", "--label", "jump", "--border", "dashed"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("patch edge: %v", err)
	}

	want := "A:: Hello\nB:: World\nA -> B [label=jump | border=dashed]\n"
	if got := readBack(t, in); got != want {
		t.Errorf("patched file:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestPatchEdgeCommandBadLineNumber(t *testing.T) {
	c := newTestCLI(t)
	in := writeTestDocument(t, "A -> B\n")

	cmd := c.patchEdgeCommand()
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{in, "abc", "--label", "x"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("patch should reject a non-numeric line")
	}
	if errs.GetCode(err) != errs.ErrCodeInvalidInput {
		t.Errorf("error code = %q, want %q", errs.GetCode(err), errs.ErrCodeInvalidInput)
	}
}

func TestPatchClusterCommand(t *testing.T) {
	c := newTestCLI(t)
	in := writeTestDocument(t, "--Outer\nA:: Hello\n--\n")

	cmd := c.patchClusterCommand()
	cmd.SetArgs([]string{in, "cluster_0", "--colour", "#eef"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("patch cluster: %v", err)
	}

	want := "--Outer [colour=#eef]\nA:: Hello\n--\n"
	if got := readBack(t, in); got != want {
		t.Errorf("patched file:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestPatchClusterCommandBadID(t *testing.T) {
	c := newTestCLI(t)
	in := writeTestDocument(t, "--Outer\n--\n")

	cmd := c.patchClusterCommand()
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{in, "box", "--colour", "red"})

	if err := cmd.Execute(); err == nil {
		t.Error("patch should reject a malformed cluster id")
	}
}
