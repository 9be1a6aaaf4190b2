package domain

import "net/http"

// HeaderPair is one response header entry. Headers are kept as an ordered
// sequence, not a map: duplicates are allowed and order is preserved so a
// replayed response is byte-identical to the original.
type HeaderPair struct {
	Name  string
	Value []byte
}

// Response is a fully buffered HTTP response, decoupled from any transport
// framework so it can be stored and replayed verbatim.
type Response struct {
	StatusCode int
	Headers    []HeaderPair
	Body       []byte
}

func NewResponse(statusCode int) (*Response, error) {
	if statusCode < 100 || statusCode > 599 {
		return nil, NewInvalidStatusCodeError(statusCode)
	}
	return &Response{StatusCode: statusCode}, nil
}

// AppendHeader adds a header pair at the end of the sequence without
// merging or deduplicating.
func (r *Response) AppendHeader(name string, value []byte) {
	r.Headers = append(r.Headers, HeaderPair{Name: name, Value: value})
}

// SeeOtherResponse is the redirect returned after a successful publish.
func SeeOtherResponse(location string) *Response {
	resp := &Response{StatusCode: http.StatusSeeOther}
	resp.AppendHeader("Location", []byte(location))
	return resp
}
