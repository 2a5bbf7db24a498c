package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holerite-dev/holerite/internal/model"
	"github.com/holerite-dev/holerite/internal/money"
	"github.com/holerite-dev/holerite/internal/payslip"
	"github.com/holerite-dev/holerite/internal/server"
	mock_server "github.com/holerite-dev/holerite/internal/server/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, server.APIResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp server.APIResponse
	if w.Body.Len() > 0 && strings.HasPrefix(path, "/api/") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}

func TestHandler_Analyze_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	analyzer := mock_server.NewMockAnalyzer(ctrl)
	analyzer.EXPECT().
		Analyze(gomock.Any(), server.AnalyzeInput{
			Locale: "pt-BR",
			Model:  "earnings",
			Entities: []model.RawEntity{
				{Type: model.TypeNetPay, MentionText: "644,78"},
			},
		}).
		Return(&payslip.Result{
			Analysis: model.PayslipAnalysis{NetSalary: decimal.RequireFromString("644.78")},
			Verdict:  model.ValidationVerdict{IsConsistent: true},
		}, nil)

	r := server.NewRouter(server.NewHandler(analyzer), 0)
	body := `{"locale":"pt-BR","model":"earnings","entities":[{"type":"net_pay","mentionText":"644,78"}]}`
	w, resp := do(t, r, http.MethodPost, "/api/v1/analyze", body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, []interface{}{}, data["warnings"])
	verdict := data["verdict"].(map[string]interface{})
	assert.Equal(t, true, verdict["isConsistent"])
}

func TestHandler_Analyze_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"incomplete", &payslip.IncompleteError{Missing: []string{model.TypeNetPay}}, http.StatusUnprocessableEntity, "INCOMPLETE_DOCUMENT"},
		{"malformed total", fmt.Errorf("net_pay: %w", payslip.ErrMalformedAmount), http.StatusUnprocessableEntity, "MALFORMED_AMOUNT"},
		{"unknown locale", fmt.Errorf("de-DE: %w", money.ErrUnknownLocale), http.StatusBadRequest, "UNKNOWN_LOCALE"},
		{"bad options", server.ErrInvalidOptions, http.StatusBadRequest, "INVALID_OPTIONS"},
		{"internal", context.DeadlineExceeded, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			analyzer := mock_server.NewMockAnalyzer(ctrl)
			analyzer.EXPECT().Analyze(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			r := server.NewRouter(server.NewHandler(analyzer), 0)
			w, resp := do(t, r, http.MethodPost, "/api/v1/analyze", `{"entities":[]}`)

			assert.Equal(t, tt.status, w.Code)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestHandler_Analyze_BadRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No calls expected: the body never reaches the analyzer.
	analyzer := mock_server.NewMockAnalyzer(ctrl)
	r := server.NewRouter(server.NewHandler(analyzer), 0)

	for _, body := range []string{`not json`, `{}`, `{"entities":"x"}`} {
		w, resp := do(t, r, http.MethodPost, "/api/v1/analyze", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		require.NotNil(t, resp.Error, body)
		assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
	}
}

func TestHandler_Analyze_BodyTooLarge(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	analyzer := mock_server.NewMockAnalyzer(ctrl)
	r := server.NewRouter(server.NewHandler(analyzer), 64)

	body := `{"entities":[` + strings.Repeat(`{"type":"net_pay","mentionText":"1,00"},`, 10) + `{}]}`
	w, resp := do(t, r, http.MethodPost, "/api/v1/analyze", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "BODY_TOO_LARGE", resp.Error.Code)
}

func TestHandler_Validate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	analyzer := mock_server.NewMockAnalyzer(ctrl)
	analyzer.EXPECT().
		Validate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in server.ValidateInput) (model.ValidationVerdict, error) {
			assert.Equal(t, "gross", in.Model)
			assert.Equal(t, "0.05", in.Tolerance)
			assert.True(t, in.Analysis.GrossSalary.Equal(decimal.RequireFromString("100")))
			return model.ValidationVerdict{IsConsistent: false, Warnings: []string{"x"}}, nil
		})

	r := server.NewRouter(server.NewHandler(analyzer), 0)
	body := `{"analysis":{"grossSalary":"100","netSalary":"90","earnings":[],"deductions":[]},"model":"gross","tolerance":"0.05"}`
	w, resp := do(t, r, http.MethodPost, "/api/v1/validate", body)

	assert.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, false, data["isConsistent"])
}

func TestHandler_Validate_MissingAnalysis(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := server.NewRouter(server.NewHandler(mock_server.NewMockAnalyzer(ctrl)), 0)
	w, resp := do(t, r, http.MethodPost, "/api/v1/validate", `{"model":"gross"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
}

func TestHandler_LocalesAndHealth(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	analyzer := mock_server.NewMockAnalyzer(ctrl)
	analyzer.EXPECT().Locales().Return([]string{"fr-FR", "pt-BR"})

	r := server.NewRouter(server.NewHandler(analyzer), 0)
	w, resp := do(t, r, http.MethodGet, "/api/v1/locales", "")
	assert.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, []interface{}{"fr-FR", "pt-BR"}, data["locales"])

	w, _ = do(t, r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRequestID_PassThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := server.NewRouter(server.NewHandler(mock_server.NewMockAnalyzer(ctrl)), 0)
	req := httptest.NewRequest(http.MethodGet, "/healthz", bytes.NewReader(nil))
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestLogger_WithoutRequestID(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	r := gin.New()
	r.Use(server.Logger())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, buf.String(), "[<nil>] GET /ping 204")
	assert.NotContains(t, buf.String(), "%!")
}
