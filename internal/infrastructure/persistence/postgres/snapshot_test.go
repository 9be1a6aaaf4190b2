package postgres

import (
	"testing"

	"github.com/DanielPopoola/ficmart-newsletter/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotCodec_RoundTrip(t *testing.T) {
	resp := domain.SeeOtherResponse("/admin/newsletters")
	resp.AppendHeader("Set-Cookie", []byte("flash=published; Path=/"))
	resp.AppendHeader("Set-Cookie", []byte("seen=1; Path=/"))
	resp.Body = []byte("<p>The issue has been accepted.</p>")

	status, headers, body := encodeResponse(resp)
	decoded, err := decodeResponse(status, headers, body)

	require.NoError(t, err)
	assert.Equal(t, resp.StatusCode, decoded.StatusCode)
	assert.Equal(t, resp.Headers, decoded.Headers)
	assert.Equal(t, resp.Body, decoded.Body)
}

func TestSnapshotCodec_PreservesHeaderOrderAndDuplicates(t *testing.T) {
	resp, err := domain.NewResponse(200)
	require.NoError(t, err)
	resp.AppendHeader("X-First", []byte("1"))
	resp.AppendHeader("X-Dup", []byte("a"))
	resp.AppendHeader("X-Dup", []byte("b"))
	resp.AppendHeader("X-Last", []byte("z"))

	status, headers, body := encodeResponse(resp)
	decoded, err := decodeResponse(status, headers, body)

	require.NoError(t, err)
	require.Len(t, decoded.Headers, 4)
	assert.Equal(t, "X-First", decoded.Headers[0].Name)
	assert.Equal(t, "X-Dup", decoded.Headers[1].Name)
	assert.Equal(t, []byte("a"), decoded.Headers[1].Value)
	assert.Equal(t, "X-Dup", decoded.Headers[2].Name)
	assert.Equal(t, []byte("b"), decoded.Headers[2].Value)
	assert.Equal(t, "X-Last", decoded.Headers[3].Name)
}

func TestSnapshotCodec_EmptyBodyAndHeaders(t *testing.T) {
	resp, err := domain.NewResponse(204)
	require.NoError(t, err)

	status, headers, body := encodeResponse(resp)
	decoded, err := decodeResponse(status, headers, body)

	require.NoError(t, err)
	assert.Equal(t, 204, decoded.StatusCode)
	assert.Empty(t, decoded.Headers)
	assert.Empty(t, decoded.Body)
}

func TestDecodeResponse_RejectsCorruptStatusCode(t *testing.T) {
	_, err := decodeResponse(0, nil, nil)

	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidStatusCode))
}
