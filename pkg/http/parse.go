package http

import (
	"bytes"
	"fmt"
	"strconv"
)

var (
	crlf      = []byte("\r\n")
	headerSep = []byte("\r\n\r\n")
)

// ParseRequest extracts one complete request from the front of data.
//
// On success it returns the request and the number of bytes consumed,
// always > 0. The caller discards exactly that prefix and may call
// ParseRequest again on the remainder to drain pipelined requests.
//
// When data does not yet hold a full message the error is
// ErrIncompleteMessage and consumed is 0: keep the buffer, read more,
// retry. A *ParseError means the input is malformed beyond repair and
// the connection should be dropped.
//
// data is never modified, and the returned request does not alias it.
func ParseRequest(data []byte) (*Request, int, error) {
	sep := bytes.Index(data, headerSep)
	if sep < 0 {
		return nil, 0, ErrIncompleteMessage
	}

	head := data[:sep]
	lineEnd := bytes.Index(head, crlf)
	if lineEnd < 0 {
		lineEnd = len(head)
	}

	req := &Request{}
	if err := parseRequestLine(head[:lineEnd], req); err != nil {
		return nil, 0, err
	}
	if lineEnd < len(head) {
		headers, err := parseHeaderLines(head[lineEnd+2:], lineEnd+2)
		if err != nil {
			return nil, 0, err
		}
		req.Headers = headers
	}

	length, err := declaredBodyLength(req.Headers)
	if err != nil {
		return nil, 0, err
	}

	bodyStart := sep + len(headerSep)
	if len(data)-bodyStart < length {
		return nil, 0, ErrIncompleteMessage
	}
	if length > 0 {
		body := make([]byte, length)
		copy(body, data[bodyStart:bodyStart+length])
		req.Body = body
	}
	return req, bodyStart + length, nil
}

// parseRequestLine splits "METHOD target VERSION" into req. Exactly
// three whitespace-separated tokens are required.
func parseRequestLine(line []byte, req *Request) error {
	fields := bytes.Fields(line)
	if len(fields) != 3 {
		return newParseError(fmt.Sprintf("malformed request line %q", line), 0)
	}
	req.Method = internMethod(fields[0])
	req.Path = string(fields[1])
	req.Version = internVersion(fields[2])
	return nil
}

// parseHeaderLines parses the CRLF-separated lines after the request
// line. Names are trimmed and folded to lowercase, values trimmed.
// base is the offset of the block within the original buffer, used for
// error positions.
func parseHeaderLines(block []byte, base int) (Headers, error) {
	var headers Headers
	for len(block) > 0 {
		line := block
		adv := len(block)
		if i := bytes.Index(block, crlf); i >= 0 {
			line = block[:i]
			adv = i + 2
		}
		colon := bytes.IndexByte(line, ':')
		if colon < 0 {
			return nil, newParseError(fmt.Sprintf("malformed header line %q", line), base)
		}
		headers = append(headers, Header{
			Key:   foldHeaderName(bytes.TrimSpace(line[:colon])),
			Value: string(bytes.TrimSpace(line[colon+1:])),
		})
		block = block[adv:]
		base += adv
	}
	return headers, nil
}

// declaredBodyLength returns the body length announced by a
// content-length header, or zero when the header is absent. When the
// name repeats the last occurrence wins.
func declaredBodyLength(headers Headers) (int, error) {
	v, present := "", false
	for _, h := range headers {
		if h.Key == "content-length" {
			v, present = h.Value, true
		}
	}
	if !present {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, newParseError(fmt.Sprintf("invalid content-length %q", v), 0)
	}
	if n < 0 {
		return 0, newParseError(fmt.Sprintf("negative content-length %d", n), 0)
	}
	return n, nil
}
