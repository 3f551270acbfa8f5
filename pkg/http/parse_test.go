package http

import (
	"bytes"
	"errors"
	"testing"
)

func TestParseRequest_Simple(t *testing.T) {
	data := []byte("GET /api/users HTTP/1.1\r\nHost: example.com\r\n\r\n")
	req, consumed, err := ParseRequest(data)
	if err != nil {
		t.Fatalf("ParseRequest() error = %v", err)
	}

	if req.Method != "GET" {
		t.Errorf("Method = %q, want GET", req.Method)
	}
	if req.Path != "/api/users" {
		t.Errorf("Path = %q, want /api/users", req.Path)
	}
	if req.Version != "HTTP/1.1" {
		t.Errorf("Version = %q, want HTTP/1.1", req.Version)
	}
	if len(req.Headers) != 1 {
		t.Fatalf("Headers count = %d, want 1", len(req.Headers))
	}
	if got := req.Headers.Get("host"); got != "example.com" {
		t.Errorf("host = %q, want example.com", got)
	}
	if consumed != len(data) {
		t.Errorf("consumed = %d, want %d", consumed, len(data))
	}
	if req.Body != nil {
		t.Errorf("Body = %q, want nil", req.Body)
	}
}

func TestParseRequest_WithBody(t *testing.T) {
	data := []byte("POST /submit HTTP/1.1\r\nHost: example.com\r\nContent-Length: 11\r\n\r\nhello world")
	req, consumed, err := ParseRequest(data)
	if err != nil {
		t.Fatalf("ParseRequest() error = %v", err)
	}

	if req.Method != "POST" {
		t.Errorf("Method = %q, want POST", req.Method)
	}
	if string(req.Body) != "hello world" {
		t.Errorf("Body = %q, want hello world", req.Body)
	}
	if consumed != len(data) {
		t.Errorf("consumed = %d, want %d", consumed, len(data))
	}
}

func TestParseRequest_BodyDoesNotAliasInput(t *testing.T) {
	data := []byte("POST / HTTP/1.1\r\nContent-Length: 5\r\n\r\nhello")
	req, _, err := ParseRequest(data)
	if err != nil {
		t.Fatalf("ParseRequest() error = %v", err)
	}

	copy(data[len(data)-5:], "XXXXX")
	if string(req.Body) != "hello" {
		t.Errorf("Body changed after input mutation: %q", req.Body)
	}
}

func TestParseRequest_HeaderFolding(t *testing.T) {
	data := []byte("GET / HTTP/1.1\r\nHOST:   example.com  \r\nX-Custom-THING: Value\r\n\r\n")
	req, _, err := ParseRequest(data)
	if err != nil {
		t.Fatalf("ParseRequest() error = %v", err)
	}

	want := Headers{
		{Key: "host", Value: "example.com"},
		{Key: "x-custom-thing", Value: "Value"},
	}
	if len(req.Headers) != len(want) {
		t.Fatalf("Headers count = %d, want %d", len(req.Headers), len(want))
	}
	for i, h := range want {
		if req.Headers[i] != h {
			t.Errorf("Headers[%d] = %+v, want %+v", i, req.Headers[i], h)
		}
	}
}

func TestParseRequest_DuplicateHeaderLastWins(t *testing.T) {
	data := []byte("GET / HTTP/1.1\r\nX-Tag: first\r\nX-Tag: second\r\n\r\n")
	req, _, err := ParseRequest(data)
	if err != nil {
		t.Fatalf("ParseRequest() error = %v", err)
	}
	if got := req.Headers.Get("x-tag"); got != "second" {
		t.Errorf("x-tag = %q, want second", got)
	}
}

func TestParseRequest_ContentLengthZero(t *testing.T) {
	data := []byte("POST / HTTP/1.1\r\nContent-Length: 0\r\n\r\n")
	req, consumed, err := ParseRequest(data)
	if err != nil {
		t.Fatalf("ParseRequest() error = %v", err)
	}
	if req.Body != nil {
		t.Errorf("Body = %q, want nil", req.Body)
	}
	if consumed != len(data) {
		t.Errorf("consumed = %d, want %d", consumed, len(data))
	}
}

func TestParseRequest_Incomplete(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"partial request line", "GET / HT"},
		{"no header terminator", "GET / HTTP/1.1\r\nHost: example.com\r\n"},
		{"partial body", "POST / HTTP/1.1\r\nContent-Length: 10\r\n\r\nhel"},
		{"body missing entirely", "POST / HTTP/1.1\r\nContent-Length: 3\r\n\r\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, consumed, err := ParseRequest([]byte(tt.data))
			if !errors.Is(err, ErrIncompleteMessage) {
				t.Fatalf("error = %v, want ErrIncompleteMessage", err)
			}
			if req != nil {
				t.Errorf("request = %+v, want nil", req)
			}
			if consumed != 0 {
				t.Errorf("consumed = %d, want 0", consumed)
			}
		})
	}
}

func TestParseRequest_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"two tokens", "GET /\r\n\r\n"},
		{"four tokens", "GET / HTTP/1.1 extra\r\n\r\n"},
		{"glued request line", "GETHTTP/1.1\r\n\r\n"},
		{"empty start line", "\r\n\r\n"},
		{"header without colon", "GET / HTTP/1.1\r\nno-colon-here\r\n\r\n"},
		{"content-length not a number", "POST / HTTP/1.1\r\nContent-Length: abc\r\n\r\n"},
		{"content-length empty", "POST / HTTP/1.1\r\nContent-Length:\r\n\r\n"},
		{"content-length negative", "POST / HTTP/1.1\r\nContent-Length: -5\r\n\r\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, consumed, err := ParseRequest([]byte(tt.data))
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error = %v, want *ParseError", err)
			}
			if req != nil {
				t.Errorf("request = %+v, want nil", req)
			}
			if consumed != 0 {
				t.Errorf("consumed = %d, want 0", consumed)
			}
		})
	}
}

// TestParseRequest_ByteAtATime feeds the message one byte per iteration,
// the way a connection loop would as fragments arrive. Every prefix must
// report incomplete and only the full message parses.
func TestParseRequest_ByteAtATime(t *testing.T) {
	data := []byte("POST /echo HTTP/1.1\r\nHost: example.com\r\nContent-Length: 5\r\n\r\nhello")

	var buf []byte
	for i, b := range data {
		buf = append(buf, b)
		req, consumed, err := ParseRequest(buf)
		if i < len(data)-1 {
			if !errors.Is(err, ErrIncompleteMessage) {
				t.Fatalf("prefix %d: error = %v, want ErrIncompleteMessage", i+1, err)
			}
			if consumed != 0 {
				t.Fatalf("prefix %d: consumed = %d, want 0", i+1, consumed)
			}
			continue
		}
		if err != nil {
			t.Fatalf("full message: error = %v", err)
		}
		if consumed != len(data) {
			t.Errorf("consumed = %d, want %d", consumed, len(data))
		}
		if string(req.Body) != "hello" {
			t.Errorf("Body = %q, want hello", req.Body)
		}
	}
}

// TestParseRequest_Pipelined drains two back-to-back messages from one
// buffer by discarding the consumed prefix between calls.
func TestParseRequest_Pipelined(t *testing.T) {
	first := "POST /a HTTP/1.1\r\nContent-Length: 3\r\n\r\nabc"
	second := "GET /b HTTP/1.1\r\nHost: example.com\r\n\r\n"
	buf := []byte(first + second)

	req1, consumed, err := ParseRequest(buf)
	if err != nil {
		t.Fatalf("first ParseRequest() error = %v", err)
	}
	if req1.Path != "/a" || string(req1.Body) != "abc" {
		t.Errorf("first request = %q body %q, want /a abc", req1.Path, req1.Body)
	}
	if consumed != len(first) {
		t.Fatalf("first consumed = %d, want %d", consumed, len(first))
	}

	buf = buf[consumed:]
	req2, consumed, err := ParseRequest(buf)
	if err != nil {
		t.Fatalf("second ParseRequest() error = %v", err)
	}
	if req2.Path != "/b" {
		t.Errorf("second Path = %q, want /b", req2.Path)
	}
	if consumed != len(second) {
		t.Errorf("second consumed = %d, want %d", consumed, len(second))
	}

	if _, consumed, err = ParseRequest(buf[consumed:]); !errors.Is(err, ErrIncompleteMessage) || consumed != 0 {
		t.Errorf("empty remainder: consumed = %d, err = %v, want 0, ErrIncompleteMessage", consumed, err)
	}
}

func TestParseRequest_TrailingBytesLeftAlone(t *testing.T) {
	msg := "GET / HTTP/1.1\r\nHost: h\r\n\r\n"
	data := []byte(msg + "POST /next")
	_, consumed, err := ParseRequest(data)
	if err != nil {
		t.Fatalf("ParseRequest() error = %v", err)
	}
	if consumed != len(msg) {
		t.Errorf("consumed = %d, want %d", consumed, len(msg))
	}
	if string(data[consumed:]) != "POST /next" {
		t.Errorf("remainder = %q, want POST /next", data[consumed:])
	}
}

// TestParseRequest_BodyWithSeparator checks that a body containing the
// header terminator sequence is carried intact: framing is driven by
// content-length, not by scanning the body.
func TestParseRequest_BodyWithSeparator(t *testing.T) {
	body := "first\r\n\r\nsecond"
	data := []byte("POST / HTTP/1.1\r\nContent-Length: 15\r\n\r\n" + body)
	req, consumed, err := ParseRequest(data)
	if err != nil {
		t.Fatalf("ParseRequest() error = %v", err)
	}
	if string(req.Body) != body {
		t.Errorf("Body = %q, want %q", req.Body, body)
	}
	if consumed != len(data) {
		t.Errorf("consumed = %d, want %d", consumed, len(data))
	}
}

func TestParseRequest_InputNotModified(t *testing.T) {
	data := []byte("GET /Path HTTP/1.1\r\nHoSt: Example.COM\r\n\r\n")
	orig := make([]byte, len(data))
	copy(orig, data)

	if _, _, err := ParseRequest(data); err != nil {
		t.Fatalf("ParseRequest() error = %v", err)
	}
	if !bytes.Equal(data, orig) {
		t.Errorf("input buffer modified:\n got %q\nwant %q", data, orig)
	}
}

func TestParseRequest_ErrorPosition(t *testing.T) {
	data := []byte("GET / HTTP/1.1\r\nbroken\r\n\r\n")
	_, _, err := ParseRequest(data)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if perr.Position != 16 {
		t.Errorf("Position = %d, want 16", perr.Position)
	}
}

func TestDeclaredBodyLength(t *testing.T) {
	tests := []struct {
		name    string
		headers Headers
		want    int
		wantErr bool
	}{
		{"absent", Headers{{Key: "host", Value: "x"}}, 0, false},
		{"zero", Headers{{Key: "content-length", Value: "0"}}, 0, false},
		{"positive", Headers{{Key: "content-length", Value: "42"}}, 42, false},
		{"last wins", Headers{{Key: "content-length", Value: "1"}, {Key: "content-length", Value: "2"}}, 2, false},
		{"garbage", Headers{{Key: "content-length", Value: "12x"}}, 0, true},
		{"negative", Headers{{Key: "content-length", Value: "-1"}}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := declaredBodyLength(tt.headers)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("length = %d, want %d", got, tt.want)
			}
		})
	}
}

