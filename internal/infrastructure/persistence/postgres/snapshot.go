package postgres

import (
	"github.com/DanielPopoola/ficmart-newsletter/internal/domain"
)

// headerPairRecord is the stored form of one response header. The rows keep
// headers as a JSONB array of these records so the original order and any
// duplicate names survive the round trip. []byte values are base64-encoded
// by encoding/json on the way in and decoded on the way out.
type headerPairRecord struct {
	Name  string `json:"name"`
	Value []byte `json:"value"`
}

// encodeResponse flattens a buffered response into the idempotency table's
// column values. The response body must already be fully in memory: the
// boundary consumes the outgoing body stream exactly once and hands the
// bytes over here.
func encodeResponse(resp *domain.Response) (int16, []headerPairRecord, []byte) {
	headers := make([]headerPairRecord, 0, len(resp.Headers))
	for _, h := range resp.Headers {
		headers = append(headers, headerPairRecord{Name: h.Name, Value: h.Value})
	}
	return int16(resp.StatusCode), headers, resp.Body
}

// decodeResponse rebuilds a response from stored column values. A status
// code outside the valid HTTP range means the snapshot is corrupt.
func decodeResponse(statusCode int16, headers []headerPairRecord, body []byte) (*domain.Response, error) {
	resp, err := domain.NewResponse(int(statusCode))
	if err != nil {
		return nil, err
	}
	for _, h := range headers {
		resp.AppendHeader(h.Name, h.Value)
	}
	resp.Body = body
	return resp, nil
}
