package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })
	return &buf
}

func TestLeveledOutput(t *testing.T) {
	buf := capture(t)
	l := ForComponent("testcomp")

	l.Infof("hello %s", "world")
	l.Warnf("watch out")
	l.Errorf("broke: %d", 42)

	out := buf.String()
	for _, want := range []string{
		"INFO [testcomp] hello world",
		"WARN [testcomp] watch out",
		"ERROR [testcomp] broke: 42",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDebugSuppressedByDefault(t *testing.T) {
	buf := capture(t)
	l := ForComponent("quiet")

	l.Debugf("should not appear")
	if strings.Contains(buf.String(), "should not appear") {
		t.Error("debug output must be suppressed by default")
	}
}

func TestGlobalDebug(t *testing.T) {
	buf := capture(t)
	SetGlobalDebug(true)
	t.Cleanup(func() { SetGlobalDebug(false) })

	ForComponent("anything").Debugf("visible")
	if !strings.Contains(buf.String(), "DEBUG [anything] visible") {
		t.Errorf("expected debug line, got:\n%s", buf.String())
	}
}

func TestComponentDebug(t *testing.T) {
	buf := capture(t)
	EnableDebugFor("noisy")

	ForComponent("noisy").Debugf("per-component")
	ForComponent("other").Debugf("still quiet")

	out := buf.String()
	if !strings.Contains(out, "DEBUG [noisy] per-component") {
		t.Errorf("expected component debug line, got:\n%s", out)
	}
	if strings.Contains(out, "still quiet") {
		t.Error("debug for other components must stay off")
	}
}

func TestForComponentMemoizes(t *testing.T) {
	if ForComponent("same") != ForComponent("same") {
		t.Error("expected the same logger instance per component")
	}
	if ForComponent("") != ForComponent("unknown") {
		t.Error("expected empty names to map to the unknown logger")
	}
}
