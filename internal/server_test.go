package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payrelay/config"
	"payrelay/entity"
	"payrelay/services"
)

type stubPayments struct {
	initiateResult *entity.InitiateResult
	initiateErr    error
	statusResult   *entity.StatusResult
	statusErr      error
	notifyResult   bool
	notifyErr      error

	initiated entity.PaymentIntent
	queriedID string
	notified  entity.GatewayResponse
}

func (s *stubPayments) Initiate(_ context.Context, intent entity.PaymentIntent) (*entity.InitiateResult, error) {
	s.initiated = intent
	return s.initiateResult, s.initiateErr
}

func (s *stubPayments) QueryStatus(_ context.Context, payRequestId string) (*entity.StatusResult, error) {
	s.queriedID = payRequestId
	return s.statusResult, s.statusErr
}

func (s *stubPayments) Notify(_ context.Context, fields entity.GatewayResponse) (bool, error) {
	s.notified = fields
	return s.notifyResult, s.notifyErr
}

func newTestServer(t *testing.T, payments services.Payments) *Server {
	conf := &config.Config{}
	conf.Paygate.ID = "10011072130"
	conf.Paygate.Secret = testSecret

	server := NewServer(conf)
	server.SetLogger(&testLogger{t})
	server.SetPaymentsService(payments)
	return server
}

func (s *Server) serve(r *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(recorder, r)
	return recorder
}

func TestHomePage(t *testing.T) {
	server := newTestServer(t, &stubPayments{})
	response := server.serve(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, response.Code)
	assert.Contains(t, response.Body.String(), "<html")
}

func TestInitiateHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		stub := &stubPayments{
			initiateResult: &entity.InitiateResult{
				PayRequestID: "REQ-1",
				Checksum:     "abc123",
				PaymentURL:   "https://gateway.example/payweb3/process.trans",
				Reference:    "ORDER_1",
			},
		}
		server := newTestServer(t, stub)

		request := httptest.NewRequest(http.MethodPost, "/api/pay",
			strings.NewReader(`{"amount":999,"email":"a@b.com"}`))
		response := server.serve(request)

		require.Equal(t, http.StatusOK, response.Code)
		assert.Equal(t, "*", response.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "999", stub.initiated.Amount)

		var body map[string]any
		require.NoError(t, json.Unmarshal(response.Body.Bytes(), &body))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "REQ-1", body["payRequestId"])
		assert.Equal(t, "abc123", body["checksum"])
		assert.Equal(t, "https://gateway.example/payweb3/process.trans", body["paymentUrl"])
		assert.Equal(t, "ORDER_1", body["reference"])
	})

	t.Run("validation error maps to 400", func(t *testing.T) {
		stub := &stubPayments{initiateErr: &services.ValidationError{Message: "amount and email are required"}}
		server := newTestServer(t, stub)

		request := httptest.NewRequest(http.MethodPost, "/api/pay", strings.NewReader(`{}`))
		response := server.serve(request)

		require.Equal(t, http.StatusBadRequest, response.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(response.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Payment initiation failed", body["error"])
	})

	t.Run("gateway error maps to 500 with code", func(t *testing.T) {
		stub := &stubPayments{initiateErr: &services.GatewayError{Message: "payment initiation failed", Code: 503}}
		server := newTestServer(t, stub)

		request := httptest.NewRequest(http.MethodPost, "/api/pay",
			strings.NewReader(`{"amount":"999","email":"a@b.com"}`))
		response := server.serve(request)

		require.Equal(t, http.StatusInternalServerError, response.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(response.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, float64(503), body["code"])
	})

	t.Run("undecodable body maps to 400", func(t *testing.T) {
		server := newTestServer(t, &stubPayments{})
		request := httptest.NewRequest(http.MethodPost, "/api/pay", strings.NewReader("not json"))
		response := server.serve(request)
		assert.Equal(t, http.StatusBadRequest, response.Code)
	})
}

func TestReturnHandler(t *testing.T) {
	t.Run("redirects to the status page", func(t *testing.T) {
		server := newTestServer(t, &stubPayments{})

		form := url.Values{entity.FieldPayRequestID: {"REQ-1"}}
		request := httptest.NewRequest(http.MethodPost, "/api/return", strings.NewReader(form.Encode()))
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		response := server.serve(request)

		require.Equal(t, http.StatusFound, response.Code)
		assert.Equal(t, "/api/status?id=REQ-1", response.Header().Get("Location"))
	})

	t.Run("accepts the id as a query parameter", func(t *testing.T) {
		server := newTestServer(t, &stubPayments{})

		request := httptest.NewRequest(http.MethodPost, "/api/return?PAY_REQUEST_ID=REQ-2", nil)
		response := server.serve(request)

		require.Equal(t, http.StatusFound, response.Code)
		assert.Equal(t, "/api/status?id=REQ-2", response.Header().Get("Location"))
	})
}

func TestStatusHandler(t *testing.T) {
	t.Run("renders the status page", func(t *testing.T) {
		stub := &stubPayments{
			statusResult: &entity.StatusResult{
				IsSuccessful:    true,
				StatusMessage:   "Payment Successful",
				DetailedMessage: "Approved",
				Reference:       "ORDER_1",
				PayRequestID:    "REQ-1",
			},
		}
		server := newTestServer(t, stub)

		response := server.serve(httptest.NewRequest(http.MethodGet, "/api/status?id=REQ-1", nil))

		require.Equal(t, http.StatusOK, response.Code)
		assert.Equal(t, "REQ-1", stub.queriedID)
		assert.Contains(t, response.Body.String(), "Payment Successful")
		assert.Contains(t, response.Body.String(), "Approved")
		assert.Contains(t, response.Body.String(), "ORDER_1")
	})

	t.Run("failure maps to 400", func(t *testing.T) {
		stub := &stubPayments{statusErr: &services.ValidationError{Message: "missing pay request id"}}
		server := newTestServer(t, stub)

		response := server.serve(httptest.NewRequest(http.MethodGet, "/api/status", nil))

		require.Equal(t, http.StatusBadRequest, response.Code)
		assert.Contains(t, response.Body.String(), "Error checking payment status")
	})
}

func TestNotifyHandler(t *testing.T) {
	t.Run("acknowledges with literal OK", func(t *testing.T) {
		stub := &stubPayments{notifyResult: true}
		server := newTestServer(t, stub)

		form := url.Values{
			entity.FieldPayRequestID:      {"REQ-1"},
			entity.FieldTransactionStatus: {"1"},
		}
		request := httptest.NewRequest(http.MethodPost, "/api/notify", strings.NewReader(form.Encode()))
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		response := server.serve(request)

		require.Equal(t, http.StatusOK, response.Code)
		assert.Equal(t, "OK", response.Body.String())
		assert.Equal(t, "REQ-1", stub.notified.PayRequestID())
	})

	t.Run("invalid notification maps to 400", func(t *testing.T) {
		stub := &stubPayments{notifyErr: &services.ValidationError{Message: "notification missing request id or transaction status"}}
		server := newTestServer(t, stub)

		request := httptest.NewRequest(http.MethodPost, "/api/notify", strings.NewReader(""))
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		response := server.serve(request)

		require.Equal(t, http.StatusBadRequest, response.Code)
		assert.NotEqual(t, "OK", strings.TrimSpace(response.Body.String()))
	})
}

func TestPreflight(t *testing.T) {
	server := newTestServer(t, &stubPayments{})
	response := server.serve(httptest.NewRequest(http.MethodOptions, "/api/pay", nil))
	assert.Equal(t, http.StatusNoContent, response.Code)
	assert.Equal(t, "*", response.Header().Get("Access-Control-Allow-Origin"))
}
