package errors

import (
	"errors"
	"testing"
)

func TestConfigError(t *testing.T) {
	underlying := errors.New("missing required field")
	err := NewConfigError("sources", "smithy-build.json", underlying)

	if !errors.Is(err, underlying) {
		t.Fatal("expected ConfigError to unwrap to the underlying error")
	}
	want := `config sources (smithy-build.json): missing required field`
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestIOError(t *testing.T) {
	underlying := errors.New("permission denied")
	err := NewIOError("read", "/path/to/file.smithy", underlying)

	if !errors.Is(err, underlying) {
		t.Fatal("expected IOError to unwrap to the underlying error")
	}
	want := "io read /path/to/file.smithy: permission denied"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestRequestFailed(t *testing.T) {
	underlying := errors.New("no shape at this position")
	err := NewRequestFailed("textDocument/definition", "unresolvable shape", underlying)

	if !errors.Is(err, underlying) {
		t.Fatal("expected RequestFailed to unwrap to the underlying error")
	}
	want := "textDocument/definition failed: unresolvable shape: no shape at this position"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestRequestFailed_NoUnderlying(t *testing.T) {
	err := NewRequestFailed("textDocument/rename", "cannot rename shape referenced in a jar", nil)
	want := "textDocument/rename failed: cannot rename shape referenced in a jar"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}
