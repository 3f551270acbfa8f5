package http

import (
	"testing"
)

func TestHeaders_Get(t *testing.T) {
	h := Headers{
		{Key: "content-type", Value: "text/plain"},
		{Key: "host", Value: "example.com"},
		{Key: "x-custom", Value: "value1"},
	}

	tests := []struct {
		key  string
		want string
	}{
		{"content-type", "text/plain"},
		{"Content-Type", "text/plain"},
		{"CONTENT-TYPE", "text/plain"},
		{"host", "example.com"},
		{"x-missing", ""},
	}

	for _, tt := range tests {
		got := h.Get(tt.key)
		if got != tt.want {
			t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestHeaders_GetLastOccurrenceWins(t *testing.T) {
	h := Headers{
		{Key: "content-length", Value: "1"},
		{Key: "content-length", Value: "2"},
	}

	if got := h.Get("content-length"); got != "2" {
		t.Errorf("Get = %q, want %q", got, "2")
	}
}

func TestHeaders_Add(t *testing.T) {
	var h Headers
	h.Add("connection", "keep-alive")
	h.Add("connection", "close")

	if len(h) != 2 {
		t.Fatalf("len = %d, want 2 (Add must not replace)", len(h))
	}
	if h[0].Value != "keep-alive" || h[1].Value != "close" {
		t.Errorf("headers = %v, want both values in order", h)
	}
}
