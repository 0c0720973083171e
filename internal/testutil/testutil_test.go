package testutil

import (
	"errors"
	"os"
	"testing"
)

func TestAssertNoError_NilErr(t *testing.T) {
	fakeT := &testing.T{}
	AssertNoError(fakeT, nil)
	if fakeT.Failed() {
		t.Error("expected no failure for nil error")
	}
}

func TestAssertError_WithErr(t *testing.T) {
	fakeT := &testing.T{}
	AssertError(fakeT, errors.New("something wrong"))
	if fakeT.Failed() {
		t.Error("expected no failure when error is present")
	}
}

func TestWriteFile(t *testing.T) {
	path := WriteFile(t, t.TempDir(), "nested/dir/coords.json", []byte(`{"coords": []}`))
	data, err := os.ReadFile(path)
	AssertNoError(t, err)
	if string(data) != `{"coords": []}` {
		t.Errorf("content = %q", data)
	}
}
