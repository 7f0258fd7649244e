package middleware

import (
    "net/http"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestEncodeDecodePayloadRoundTrip(t *testing.T) {
    hdr := http.Header{
        "Content-Type": {"application/json"},
        "X-Custom":     {"a", "b"},
    }
    body := []byte(`{"items":[]}`)

    payload, err := encodePayload(http.StatusOK, hdr, body)
    require.NoError(t, err)

    status, gotHdr, gotBody, ok := decodePayload(payload)
    require.True(t, ok)
    assert.Equal(t, http.StatusOK, status)
    assert.Equal(t, hdr, gotHdr)
    assert.Equal(t, body, gotBody)
}

func TestEncodeDecodePayloadEmptyBody(t *testing.T) {
    payload, err := encodePayload(http.StatusOK, http.Header{}, nil)
    require.NoError(t, err)

    status, hdr, body, ok := decodePayload(payload)
    require.True(t, ok)
    assert.Equal(t, http.StatusOK, status)
    assert.NotNil(t, hdr)
    assert.Empty(t, body)
}

func TestDecodePayloadRejectsTruncatedInput(t *testing.T) {
    _, _, _, ok := decodePayload([]byte{0, 0, 0})
    assert.False(t, ok)

    // Header length pointing past the end of the buffer.
    payload, err := encodePayload(http.StatusOK, http.Header{"A": {"b"}}, []byte("body"))
    require.NoError(t, err)
    _, _, _, ok = decodePayload(payload[:10])
    assert.False(t, ok)
}

func TestCaptureWriterRespectsLimit(t *testing.T) {
    rec := newDiscardResponseWriter()
    cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 5}

    n, err := cw.Write([]byte("hello world"))
    require.NoError(t, err)
    assert.Equal(t, 11, n, "the client still receives the full body")
    assert.Equal(t, "hello", cw.buf.String(), "the capture buffer stops at the limit")
}

func TestCaptureWriterUnlimited(t *testing.T) {
    rec := newDiscardResponseWriter()
    cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK}

    _, err := cw.Write([]byte("hello "))
    require.NoError(t, err)
    _, err = cw.Write([]byte("world"))
    require.NoError(t, err)
    assert.Equal(t, "hello world", cw.buf.String())
}

type discardResponseWriter struct {
    header http.Header
}

func newDiscardResponseWriter() *discardResponseWriter {
    return &discardResponseWriter{header: make(http.Header)}
}

func (w *discardResponseWriter) Header() http.Header        { return w.header }
func (w *discardResponseWriter) Write(b []byte) (int, error) { return len(b), nil }
func (w *discardResponseWriter) WriteHeader(int)             {}
