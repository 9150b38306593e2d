package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/runecheck/internal/config"
	"github.com/danmuck/runecheck/internal/testutil/testlog"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, mutate func(*config.ServiceConfig)) *Server {
	t.Helper()
	testlog.Start(t)
	gin.SetMode(gin.TestMode)
	cfg := config.DefaultServiceConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := New(cfg, log.Logger)
	require.NoError(t, err)
	return s
}

func do(t *testing.T, s *Server, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	return rr
}

func TestDecodeReturnsCodePoints(t *testing.T) {
	s := newTestServer(t, nil)

	rr := do(t, s, http.MethodPost, "/v1/decode", []byte("café"))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var body decodeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 4, body.Count)
	assert.Equal(t, []rune{'c', 'a', 'f', 0xE9}, body.CodePoints)
	assert.Empty(t, body.Text)
}

func TestDecodeRenderModes(t *testing.T) {
	s := newTestServer(t, nil)

	rr := do(t, s, http.MethodPost, "/v1/decode?render=text", []byte("naïve"))
	require.Equal(t, http.StatusOK, rr.Code)
	var text decodeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &text))
	assert.Equal(t, "naïve", text.Text)
	assert.Equal(t, 5, text.Count)

	rr = do(t, s, http.MethodPost, "/v1/decode?render=spans", []byte("a€"))
	require.Equal(t, http.StatusOK, rr.Code)
	var spans decodeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &spans))
	assert.Equal(t, []spanView{
		{Offset: 0, Size: 1, CodePoint: 'a'},
		{Offset: 1, Size: 3, CodePoint: 0x20AC},
	}, spans.Spans)

	rr = do(t, s, http.MethodPost, "/v1/decode?render=%20SPANS%20", []byte("a"))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var upper decodeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &upper))
	assert.Equal(t, []spanView{{Offset: 0, Size: 1, CodePoint: 'a'}}, upper.Spans)

	rr = do(t, s, http.MethodPost, "/v1/decode?render=hex", []byte("a"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	s := newTestServer(t, nil)

	in := append([]byte("prefix-"), 0xC3, 0x28)
	rr := do(t, s, http.MethodPost, "/v1/decode", in)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code, rr.Body.String())

	var body decodeErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 8, body.Offset)
	assert.Equal(t, "bad continuation byte", body.Reason)
	assert.Equal(t, 0, body.BytesOffset)
	assert.Equal(t, "prefix-Ã(", body.Bytes)
}

func TestDecodeEnforcesBodyLimit(t *testing.T) {
	s := newTestServer(t, func(cfg *config.ServiceConfig) { cfg.MaxBodyBytes = 4 })

	rr := do(t, s, http.MethodPost, "/v1/decode", []byte("hello"))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)

	rr = do(t, s, http.MethodPost, "/v1/decode", []byte("hell"))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestEncodeRoundTrip(t *testing.T) {
	s := newTestServer(t, nil)

	rr := do(t, s, http.MethodPost, "/v1/encode", []byte(`{"code_points":[99,97,102,233]}`))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var body encodeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "636166c3a9", body.Bytes)
	assert.Equal(t, 5, body.Size)

	rr = do(t, s, http.MethodPost, "/v1/encode", []byte(`{"code_points":[97,55296]}`))
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), `"index":1`)

	rr = do(t, s, http.MethodPost, "/v1/encode", []byte(`{"code_points":`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, nil)

	do(t, s, http.MethodPost, "/v1/decode", []byte{0xED, 0xA0, 0x80})

	rr := do(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"service":"runecheck"`)

	rr = do(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `runecheck_decode_errors_total{reason="surrogate code point"}`)

	off := newTestServer(t, func(cfg *config.ServiceConfig) { cfg.MetricsEnabled = false })
	rr = do(t, off, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/v1/decode"
	resp, err := http.Post(url, "application/octet-stream", strings.NewReader("ok"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatalf("server did not stop")
	}
}

func TestNewRejectsSchemelessOrigin(t *testing.T) {
	testlog.Start(t)

	cfg := config.DefaultServiceConfig()
	cfg.CorsOrigins = []string{"example.com"}
	require.NotPanics(t, func() {
		s, err := New(cfg, log.Logger)
		require.Error(t, err)
		assert.Nil(t, s)
		assert.Contains(t, err.Error(), "cors")
	})
}
