package monitoring

import (
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")

	if !called {
		t.Error("custom logger was not called")
	}

	// nil installs a no-op that must not reach the previous logger
	called = false
	SetLogger(nil)
	Logf("test")
	if called {
		t.Error("no-op logger should not have triggered callback")
	}
}

func TestLogf_Default(t *testing.T) {
	if Logf == nil {
		t.Fatal("Logf should not be nil by default")
	}

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Logf panicked: %v", r)
		}
	}()

	Logf("test message: %s", "value")
}

func TestCapture(t *testing.T) {
	original := Logf

	rec, restore := Capture()
	Logf("pitch=%d", 128)
	Logf("points=%d", 4)
	restore()

	lines := rec.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "pitch=128" || lines[1] != "points=4" {
		t.Errorf("unexpected lines: %q", lines)
	}

	// Restore must reinstate the logger that was active before Capture.
	Logf("after restore")
	if len(rec.Lines()) != 2 {
		t.Error("recorder still receiving after restore")
	}
	if Logf == nil {
		t.Error("Logf nil after restore")
	}
	Logf = original
}
