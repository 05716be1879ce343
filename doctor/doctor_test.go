package doctor

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func pass(msg string) func(io.Writer) (string, error) {
	return func(io.Writer) (string, error) { return msg, nil }
}

func fail(msg string) func(io.Writer) (string, error) {
	return func(io.Writer) (string, error) { return "", errors.New(msg) }
}

func TestRunChecksAllPass(t *testing.T) {
	var buf bytes.Buffer
	code := runChecks(&buf, []check{
		{title: "one", run: pass("ok 1")},
		{title: "two", run: pass("ok 2")},
	})
	if code != 0 {
		t.Errorf("exit code = %d", code)
	}
	out := buf.String()
	for _, want := range []string{"[1/2] one", "PASS: ok 1", "[2/2] two", "All checks passed!"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunChecksContinuesAfterFailure(t *testing.T) {
	var buf bytes.Buffer
	ran := false
	code := runChecks(&buf, []check{
		{title: "clipboard", run: fail("no clipboard")},
		{title: "after", run: func(io.Writer) (string, error) { ran = true; return "fine", nil }},
	})
	if code != 1 {
		t.Errorf("exit code = %d", code)
	}
	if !ran {
		t.Error("check after a non-fatal failure did not run")
	}
	if !strings.Contains(buf.String(), "FAIL: no clipboard") {
		t.Errorf("output:\n%s", buf.String())
	}
}

func TestRunChecksStopOnFail(t *testing.T) {
	var buf bytes.Buffer
	code := runChecks(&buf, []check{
		{title: "hotkeys", stopOnFail: true, run: fail("unsupported")},
		{title: "never", run: func(io.Writer) (string, error) {
			t.Error("ran after a fatal failure")
			return "", nil
		}},
	})
	if code != 1 {
		t.Errorf("exit code = %d", code)
	}
	if !strings.Contains(buf.String(), "Some checks failed") {
		t.Errorf("output:\n%s", buf.String())
	}
}
