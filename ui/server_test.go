package ui

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"

	"effcost/app"
	"effcost/internal"
	"effcost/internal/config"
	"effcost/internal/errors"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg, err := config.FromEnv()
	require.NoError(t, err)
	cfg.Server.GinMode = gin.TestMode
	if mutate != nil {
		mutate(cfg)
	}

	logger := internal.NewLoggerTo(internal.LogLevelError, &strings.Builder{})
	return NewServer(app.NewReportService(app.NewCalculator(), logger), cfg, logger)
}

func post(s *Server, target, contentType string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", gjson.Get(rec.Body.String(), "status").String())
}

func TestEfficiency_JSON(t *testing.T) {
	s := newTestServer(t, nil)
	rec := post(s, "/v1/efficiency", "text/csv", []byte("entry,ideal,actual\nA,10,8\nB,5,5\n"))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(runIDHeader))
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	body := rec.Body.String()
	assert.Equal(t, 13.0, gjson.Get(body, "RESULT.total_actual").Float())
	assert.InDelta(t, 1.1538, gjson.Get(body, "RESULT.efficiency").Float(), 1e-4)
}

func TestEfficiency_RunIDHeader(t *testing.T) {
	s := newTestServer(t, nil)
	const runID = "0190f1a2-7b3c-7d4e-8f50-6a7b8c9d0e1f"

	req := httptest.NewRequest(http.MethodPost, "/v1/efficiency", strings.NewReader("entry,ideal,actual\nA,1,1\n"))
	req.Header.Set("Content-Type", "text/csv")
	req.Header.Set(runIDHeader, runID)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, runID, rec.Header().Get(runIDHeader))

	req = httptest.NewRequest(http.MethodPost, "/v1/efficiency", strings.NewReader("entry,ideal,actual\nA,1,1\n"))
	req.Header.Set("Content-Type", "text/csv")
	req.Header.Set(runIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(runIDHeader))
	assert.NotEmpty(t, rec.Header().Get(runIDHeader))
}

func TestEfficiency_HTML(t *testing.T) {
	s := newTestServer(t, nil)
	rec := post(s, "/v1/efficiency?format=html", "text/csv", []byte("entry,ideal,actual\nA,10,8\n"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<table>")
}

func TestEfficiency_XLSXBody(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"entry", "ideal", "actual"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"A", 4, "2*3"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	s := newTestServer(t, nil)
	rec := post(s, "/v1/efficiency", xlsxMIME, buf.Bytes())

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(6), gjson.Get(rec.Body.String(), "A.actual").Int())
}

func TestEfficiency_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
		mutate func(*config.Config)
		status int
		code   string
	}{
		{
			name:   "reserved name",
			target: "/v1/efficiency",
			body:   "entry,ideal,actual\nRESULT,1,1\n",
			status: http.StatusUnprocessableEntity,
			code:   errors.CodeReservedEntryName,
		},
		{
			name:   "division by zero",
			target: "/v1/efficiency",
			body:   "entry,ideal,actual\nA,1/0,1\n",
			status: http.StatusUnprocessableEntity,
			code:   errors.CodeInvalidEntry,
		},
		{
			name:   "strict columns",
			target: "/v1/efficiency?strict_columns=true",
			body:   "entry,ideal,actual,extra\nA,1,1,x\n",
			status: http.StatusUnprocessableEntity,
			code:   errors.CodeMalformedInput,
		},
		{
			name:   "bad strict flag",
			target: "/v1/efficiency?strict_columns=maybe",
			body:   "entry,ideal,actual\nA,1,1\n",
			status: http.StatusUnprocessableEntity,
			code:   errors.CodeInvalidInput,
		},
		{
			name:   "unknown format",
			target: "/v1/efficiency?format=pdf",
			body:   "entry,ideal,actual\nA,1,1\n",
			status: http.StatusUnprocessableEntity,
			code:   errors.CodeInvalidInput,
		},
		{
			name:   "body too large",
			target: "/v1/efficiency",
			body:   "entry,ideal,actual\n" + strings.Repeat("A,1,1\n", 400),
			mutate: func(c *config.Config) { c.Server.MaxBodyBytes = 1024 },
			status: http.StatusRequestEntityTooLarge,
			code:   errors.CodeMalformedInput,
		},
		{
			name:   "busy",
			target: "/v1/efficiency",
			body:   "entry,ideal,actual\nA,1,1\n",
			mutate: func(c *config.Config) { c.Server.MaxConcurrent = 1 },
			status: http.StatusServiceUnavailable,
			code:   "BUSY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.mutate)
			if tt.code == "BUSY" {
				require.True(t, s.computeSem.TryAcquire(1))
				defer s.computeSem.Release(1)
			}

			rec := post(s, tt.target, "text/csv", []byte(tt.body))
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())

			body := rec.Body.String()
			assert.Equal(t, tt.code, gjson.Get(body, "code").String())
			assert.NotEmpty(t, gjson.Get(body, "error").String())
			assert.Equal(t, rec.Header().Get(runIDHeader), gjson.Get(body, "run_id").String())
		})
	}
}
