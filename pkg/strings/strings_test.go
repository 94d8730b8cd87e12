package strings

import (
	"testing"
	"unsafe"
)

func TestBytesToString(t *testing.T) {
	b := []byte("hello world")
	s := BytesToString(b)

	if s != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", s)
	}
	if unsafe.StringData(s) != &b[0] {
		t.Error("expected string to share memory with the byte slice")
	}

	// Test empty slice
	if empty := BytesToString([]byte{}); empty != "" {
		t.Errorf("expected empty string, got '%s'", empty)
	}
	if empty := BytesToString(nil); empty != "" {
		t.Errorf("expected empty string, got '%s'", empty)
	}
}

func TestStringToBytes(t *testing.T) {
	s := "hello world"
	b := StringToBytes(s)

	if string(b) != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", string(b))
	}
	if cap(b) != len(s) {
		t.Errorf("expected capacity %d, got %d", len(s), cap(b))
	}

	// Test empty string
	if empty := StringToBytes(""); empty != nil {
		t.Errorf("expected nil slice, got %v", empty)
	}
}

func TestViews(t *testing.T) {
	values := []string{"bbb", "", "ccc"}
	views := Views(values)

	if len(views) != len(values) {
		t.Fatalf("expected %d views, got %d", len(values), len(views))
	}
	for i := range values {
		if string(views[i]) != values[i] {
			t.Errorf("view %d: expected %q, got %q", i, values[i], views[i])
		}
	}
}

func TestClone(t *testing.T) {
	b := []byte("mutable")
	shared := BytesToString(b)
	owned := Clone(shared)

	b[0] = 'M'
	if shared != "Mutable" {
		t.Errorf("expected shared string to observe the write, got %q", shared)
	}
	if owned != "mutable" {
		t.Errorf("expected clone to be unaffected, got %q", owned)
	}
	if Clone("") != "" {
		t.Error("expected empty clone")
	}
}
