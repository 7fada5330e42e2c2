package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	billingservice "github.com/viatica/backoffice/internal/billing/service"
	"github.com/viatica/backoffice/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	billingSvc := billingservice.New(billingservice.Params{
		Log:    zap.NewNop(),
		Policy: config.StaticBillingPolicyHolder(config.DefaultBillingPolicy()),
	})

	srv := &Server{
		engine:     engine,
		billingSvc: billingSvc,
	}
	srv.registerAPIRoutes()
	return srv
}

func TestPreviewBreakdown(t *testing.T) {
	srv := newTestServer(t)

	body := `{"sale_price":1210,"cost_price":1000,"vat_21_amount":210}`
	req := httptest.NewRequest(http.MethodPost, "/v1/billing/preview", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	srv.Engine().ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var payload struct {
		Data map[string]float64 `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))

	assert.InDelta(t, 1000, payload.Data["taxable_base_21"], 1e-9)
	assert.InDelta(t, -210, payload.Data["non_computable"], 1e-9)
	assert.InDelta(t, 210/1.21, payload.Data["total_commission_without_vat"], 1e-9)
}

func TestPreviewBreakdownRejectsBadInput(t *testing.T) {
	srv := newTestServer(t)

	body := `{"sale_price":1210,"vat_21_amount":-5}`
	req := httptest.NewRequest(http.MethodPost, "/v1/billing/preview", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	srv.Engine().ServeHTTP(resp, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	var payload struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	assert.Equal(t, "validation_error", payload.Error.Type)
}

func TestPreviewBreakdownRejectsMalformedJSON(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/billing/preview", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	srv.Engine().ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
