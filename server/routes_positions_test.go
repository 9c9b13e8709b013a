package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ollama/posids/api"
	"github.com/ollama/posids/positions"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestSpatialHandler(t *testing.T) {
	s := &Server{}
	rec := post(t, s.GenerateRoutes(), "/api/positions/spatial", api.SpatialRequest{Height: 28, Width: 28, PatchSize: 14})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	resp := decode[api.PositionsResponse](t, rec)
	assert.Equal(t, 2, resp.Arity)
	assert.Equal(t, 4, resp.Tokens)
	assert.Equal(t, []uint32{0, 0, 0, 1, 1, 0, 1, 1}, resp.Positions)
	assert.Empty(t, resp.Segments)
	assert.Zero(t, resp.Next)
}

func TestSpatialHandlerEmptyGrid(t *testing.T) {
	s := &Server{}
	rec := post(t, s.GenerateRoutes(), "/api/positions/spatial", api.SpatialRequest{Height: 0, Width: 28, PatchSize: 14})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"positions":[]`)
}

func TestSpatialHandlerMergeSize(t *testing.T) {
	s := &Server{}
	rec := post(t, s.GenerateRoutes(), "/api/positions/spatial", api.SpatialRequest{Height: 2, Width: 3, PatchSize: 1, MergeSize: 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[api.PositionsResponse](t, rec)
	assert.Equal(t, []uint32{0, 0, 0, 1, 0, 2, 1, 0, 1, 1, 1, 2}, resp.Positions)
}

func TestTemporalHandler(t *testing.T) {
	s := &Server{}
	rec := post(t, s.GenerateRoutes(), "/api/positions/temporal", api.TemporalRequest{
		Temporal: 1, Height: 4, Width: 4, PatchSize: 1,
		PreText: 2, PostText: 2,
		Planar: 4,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[api.PositionsResponse](t, rec)
	assert.Equal(t, 3, resp.Arity)
	assert.Equal(t, 8, resp.Tokens)
	assert.Equal(t, uint32(6), resp.Next)
	assert.Equal(t, []uint32{
		0, 0, 0, 1, 1, 1,
		2, 2, 2, 2, 2, 3, 2, 3, 2, 2, 3, 3,
		4, 4, 4, 5, 5, 5,
	}, resp.Positions)
	assert.Len(t, resp.Planar, 32)
	assert.Equal(t, []api.Segment{
		{Kind: "text", Length: 2},
		{Kind: "vision", Temporal: 1, Height: 2, Width: 2},
		{Kind: "text", Length: 2},
	}, resp.Segments)
}

func TestSequenceHandler(t *testing.T) {
	s := &Server{}
	rec := post(t, s.GenerateRoutes(), "/api/positions/sequence", api.SequenceRequest{
		Segments: []api.Segment{
			{Kind: "text", Length: 1},
			{Kind: "vision", Temporal: 1, Height: 1, Width: 2},
			{Kind: "vision", Temporal: 1, Height: 1, Width: 1},
			{Kind: "text", Length: 1},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[api.PositionsResponse](t, rec)
	assert.Equal(t, []uint32{
		0, 0, 0,
		1, 1, 1, 1, 1, 2,
		3, 3, 3,
		4, 4, 4,
	}, resp.Positions)
	assert.Equal(t, uint32(5), resp.Next)
}

func TestPositionsErrors(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		body   any
		max    int
		status int
		code   api.ErrorCode
	}{
		{"kaputtes JSON", "/api/positions/spatial", `{"height":`, 0, http.StatusBadRequest, "INVALID_REQUEST"},
		{"falscher Typ", "/api/positions/spatial", `{"height":"gross"}`, 0, http.StatusBadRequest, "INVALID_REQUEST"},
		{"ungerades Grid", "/api/positions/spatial", api.SpatialRequest{Height: 42, Width: 28, PatchSize: 14}, 0, http.StatusBadRequest, "ODD_PATCH_GRID"},
		{"nicht teilbar", "/api/positions/spatial", api.SpatialRequest{Height: 30, Width: 28, PatchSize: 14}, 0, http.StatusBadRequest, "NOT_DIVISIBLE"},
		{"Patch-Groesse 0", "/api/positions/spatial", api.SpatialRequest{Height: 28, Width: 28}, 0, http.StatusBadRequest, "INVALID_DIMENSION"},
		{"negative Merge-Groesse", "/api/positions/spatial", api.SpatialRequest{Height: 28, Width: 28, PatchSize: 14, MergeSize: -1}, 0, http.StatusBadRequest, "INVALID_DIMENSION"},
		{"leeres Vision", "/api/positions/temporal", api.TemporalRequest{Height: 28, Width: 28, PatchSize: 14, PostText: 3}, 0, http.StatusBadRequest, "EMPTY_VISION"},
		{"Token-Limit", "/api/positions/temporal", api.TemporalRequest{Temporal: 1, Height: 28, Width: 28, PatchSize: 14, PreText: 10}, 4, http.StatusRequestEntityTooLarge, "TOO_MANY_TOKENS"},
		{"zu viele Werte ohne Limit", "/api/positions/spatial", api.SpatialRequest{Height: 1 << 30, Width: 1 << 30, PatchSize: 1}, 0, http.StatusRequestEntityTooLarge, "TOO_MANY_TOKENS"},
		{"Planar zu klein", "/api/positions/temporal", api.TemporalRequest{PreText: 1, PatchSize: 14, Planar: 2}, 0, http.StatusBadRequest, "INVALID_DIMENSION"},
		{"unbekanntes Segment", "/api/positions/sequence", api.SequenceRequest{Segments: []api.Segment{{Kind: "audio"}}}, 0, http.StatusBadRequest, "INVALID_REQUEST"},
		{"Position Ueberlauf", "/api/positions/sequence", api.SequenceRequest{Segments: []api.Segment{
			{Kind: "vision", Temporal: 1, Height: 1, Width: 1 << 32},
			{Kind: "text", Length: 1},
		}}, 0, http.StatusBadRequest, "POSITION_OVERFLOW"},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			s := &Server{maxTokens: tt.max}
			rec := post(t, s.GenerateRoutes(), tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())

			var body api.StatusError
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.ErrorMessage)
		})
	}
}

func TestLookupError(t *testing.T) {
	cases := []struct {
		err    error
		code   api.ErrorCode
		status int
	}{
		{fmt.Errorf("wrapped: %w", positions.ErrIntegrity), "INTEGRITY_ERROR", http.StatusInternalServerError},
		{&positions.PreconditionError{Field: "height", Err: positions.ErrOddPatchGrid}, "ODD_PATCH_GRID", http.StatusBadRequest},
		{errors.New("boom"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range cases {
		ec := lookupError(tt.err)
		assert.Equal(t, tt.code, ec.code, tt.err.Error())
		assert.Equal(t, tt.status, ec.status, tt.err.Error())
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	s.GenerateRoutes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
	assert.Contains(t, rec.Body.String(), `"version"`)
}

func TestAllowedHostsMiddleware(t *testing.T) {
	s := &Server{addr: &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 11435}}
	h := s.GenerateRoutes()

	cases := []struct {
		host   string
		status int
	}{
		{"localhost:11435", http.StatusOK},
		{"127.0.0.1:11435", http.StatusOK},
		{"10.0.0.5", http.StatusOK},
		{"box.internal", http.StatusOK},
		{"example.com", http.StatusForbidden},
	}

	for _, tt := range cases {
		t.Run(tt.host, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Host = tt.host
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestServeShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "posids is running", string(body))

	cancel()
	assert.NoError(t, <-done)
}
