package logging

import (
	"bytes"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
)

func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	fn()

	w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestConsoleLogger_Verbose_WhenEnabled(t *testing.T) {
	output := captureStderr(t, func() {
		NewConsoleLogger(true).Verbose("test message: %s", "value")
	})

	expected := "[VERBOSE] test message: value\n"
	if output != expected {
		t.Errorf("Expected %q, got %q", expected, output)
	}
}

func TestConsoleLogger_Verbose_WhenDisabled(t *testing.T) {
	output := captureStderr(t, func() {
		NewConsoleLogger(false).Verbose("test message: %s", "value")
	})

	if output != "" {
		t.Errorf("Expected no output, got %q", output)
	}
}

func TestConsoleLogger_Info(t *testing.T) {
	output := captureStderr(t, func() {
		NewConsoleLogger(false).Info("info message: %s", "value")
	})

	expected := "info message: value\n"
	if output != expected {
		t.Errorf("Expected %q, got %q", expected, output)
	}
}

func TestConsoleLogger_Warn(t *testing.T) {
	output := captureStderr(t, func() {
		NewConsoleLogger(false).Warn("user %q already exists", "alice")
	})

	expected := "[WARN] user \"alice\" already exists\n"
	if output != expected {
		t.Errorf("Expected %q, got %q", expected, output)
	}
}

func TestConsoleLogger_Error(t *testing.T) {
	output := captureStderr(t, func() {
		NewConsoleLogger(false).Error("error message: %s", "value")
	})

	expected := "[ERROR] error message: value\n"
	if output != expected {
		t.Errorf("Expected %q, got %q", expected, output)
	}
}

func TestConsoleLogger_WithWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(true).WithWriter(&buf)

	logger.Verbose("a")
	logger.Warn("b")

	if got := buf.String(); got != "[VERBOSE] a\n[WARN] b\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestConsoleLogger_LiteralPercentWithoutArgs(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleLogger(false).WithWriter(&buf).Info("100% done")

	if got := buf.String(); got != "100% done\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestConsoleLogger_ColorKeepsMessage(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleLogger(false).WithWriter(&buf).WithColor(true).Error("boom")

	got := buf.String()
	if !strings.Contains(got, "[ERROR]") || !strings.HasSuffix(got, "boom\n") {
		t.Errorf("unexpected output %q", got)
	}
}

func TestConsoleLogger_ConcurrentSafety(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(true).WithWriter(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Info("message %d", id)
			logger.Verbose("verbose %d", id)
			logger.Error("error %d", id)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 30 {
		t.Errorf("Expected 30 lines, got %d", len(lines))
	}

	for i, line := range lines {
		if !strings.Contains(line, "message") && !strings.Contains(line, "verbose") && !strings.Contains(line, "error") {
			t.Errorf("Line %d appears corrupted: %q", i, line)
		}
	}
}

func TestNullLogger_DiscardsAllMessages(t *testing.T) {
	output := captureStderr(t, func() {
		logger := NewNullLogger()
		logger.Verbose("verbose")
		logger.Info("info")
		logger.Warn("warn")
		logger.Error("error")
	})

	if output != "" {
		t.Errorf("NullLogger should discard all messages, got: %q", output)
	}
}

func TestTee_FansOutInOrder(t *testing.T) {
	var a, b bytes.Buffer
	logger := Tee(
		NewConsoleLogger(true).WithWriter(&a),
		nil,
		NewConsoleLogger(false).WithWriter(&b),
	)

	logger.Verbose("v")
	logger.Info("i")
	logger.Warn("w")
	logger.Error("e")

	if got := a.String(); got != "[VERBOSE] v\ni\n[WARN] w\n[ERROR] e\n" {
		t.Errorf("first logger got %q", got)
	}
	if got := b.String(); got != "i\n[WARN] w\n[ERROR] e\n" {
		t.Errorf("second logger got %q", got)
	}
}

func BenchmarkConsoleLogger_Verbose(b *testing.B) {
	logger := NewConsoleLogger(true).WithWriter(io.Discard)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Verbose("benchmark message %d", i)
	}
}

func BenchmarkConsoleLogger_VerboseDisabled(b *testing.B) {
	logger := NewConsoleLogger(false)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Verbose("benchmark message %d", i)
	}
}
