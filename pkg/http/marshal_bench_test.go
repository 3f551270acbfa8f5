package http

import (
	"bytes"
	"strconv"
	"testing"
)

func BenchmarkMarshal_NotFound(b *testing.B) {
	resp := &Response{
		StatusCode: 404,
		Headers: Headers{
			{Key: "Content-Length", Value: "13"},
			{Key: "Content-Type", Value: "text/plain"},
		},
		Body: []byte("404 Not Found"),
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Marshal(resp)
	}
}

func BenchmarkMarshal_ManyHeaders(b *testing.B) {
	headers := make(Headers, 20)
	for i := range headers {
		headers[i] = Header{
			Key:   "x-custom-header-" + string(rune('a'+i)),
			Value: "some-value-that-is-reasonably-long-for-benchmarking",
		}
	}
	resp := &Response{StatusCode: 200, Headers: headers, Body: []byte("ok")}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Marshal(resp)
	}
}

// Bodies past the pooled buffer size exercise the append growth path.
func BenchmarkMarshal_LargeBody(b *testing.B) {
	body := bytes.Repeat([]byte("0123456789abcdef"), 4096)
	resp := &Response{
		StatusCode: 200,
		Headers: Headers{
			{Key: "Content-Length", Value: strconv.Itoa(len(body))},
			{Key: "Content-Type", Value: "text/plain"},
		},
		Body: body,
	}

	b.ReportAllocs()
	b.SetBytes(int64(len(body)))
	for i := 0; i < b.N; i++ {
		_ = Marshal(resp)
	}
}
