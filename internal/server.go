package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/url"

	"github.com/julienschmidt/httprouter"

	"payrelay/config"
	"payrelay/entity"
	"payrelay/services"
)

const (
	homePage      = "/"
	initiatePay   = "/api/pay"
	paymentReturn = "/api/return"
	paymentStatus = "/api/status"
	paymentNotify = "/api/notify"

	// notifyAck is the literal acknowledgement body the gateway expects.
	// Anything else makes the gateway re-deliver the notification.
	notifyAck = "OK"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	payments   services.Payments
	logger     services.LogHandler
	templates  *template.Template
}

func NewServer(conf *config.Config) *Server {

	server := Server{
		conf:      conf,
		templates: template.Must(template.New("home").Parse(homeTemplate)),
	}
	template.Must(server.templates.New("status").Parse(statusTemplate))

	// register itself as a router for httpServer handler
	router := httprouter.New()
	server.Register(router)
	server.httpServer = &http.Server{
		Handler: router,
	}

	return &server
}

func (s *Server) Register(router *httprouter.Router) {
	router.GET(homePage, s.home)
	router.POST(initiatePay, s.initiatePayment)
	router.POST(paymentReturn, s.returnPayment)
	router.GET(paymentStatus, s.statusPage)
	router.POST(paymentNotify, s.notifyPayment)
	router.GlobalOPTIONS = http.HandlerFunc(s.preflight)
}

func (s *Server) SetPaymentsService(payments services.Payments) {
	s.payments = payments
}

func (s *Server) SetLogger(logger services.LogHandler) {
	s.logger = logger
}

func (s *Server) Start() error {
	if s.conf == nil {
		return fmt.Errorf("configuration not loaded")
	}

	serverAddress := fmt.Sprintf("%s:%s", s.conf.Listen.BindIP, s.conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	if s.conf.Listen.TLS {
		s.logger.Info(fmt.Sprintf("starting https TLS on %s", serverAddress))
		err = s.httpServer.ServeTLS(listener, s.conf.Listen.CertFile, s.conf.Listen.KeyFile)
	} else {
		s.logger.Info(fmt.Sprintf("starting http on %s", serverAddress))
		err = s.httpServer.Serve(listener)
	}

	return err
}

func (s *Server) home(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	allowCORS(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "home", nil); err != nil {
		s.logger.Error("render home page", err)
	}
}

func (s *Server) initiatePayment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Add request ID for tracing
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)
	allowCORS(w)

	var intent entity.PaymentIntent
	if err := json.NewDecoder(r.Body).Decode(&intent); err != nil {
		s.logger.Warn(fmt.Sprintf("[%s] initiate: decode request body: %v", reqID, err))
		s.writeInitiateError(w, &services.ValidationError{Message: "invalid request body"})
		return
	}

	result, err := s.payments.Initiate(ctx, intent)
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] initiate payment", reqID), err)
		s.logGatewayPayload(reqID, err)
		s.writeInitiateError(w, err)
		return
	}

	s.logger.Info(fmt.Sprintf("[%s] initiated request %s for reference %s", reqID, result.PayRequestID, result.Reference))
	s.writeJSON(w, http.StatusOK, initiateResponse{
		Success:      true,
		PayRequestID: result.PayRequestID,
		Checksum:     result.Checksum,
		PaymentURL:   result.PaymentURL,
		Reference:    result.Reference,
	})
}

func (s *Server) returnPayment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Add request ID for tracing
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)
	allowCORS(w)

	if err := r.ParseForm(); err != nil {
		s.logger.Warn(fmt.Sprintf("[%s] return: parse form: %v", reqID, err))
		http.Error(w, "Error processing payment return", http.StatusBadRequest)
		return
	}

	// The return leg is browser-controlled and proves nothing about the
	// payment; send the user straight to the status page, which asks the
	// gateway itself.
	payRequestId := r.Form.Get(entity.FieldPayRequestID)
	s.logger.Info(fmt.Sprintf("[%s] return for request %s", reqID, payRequestId))
	http.Redirect(w, r, paymentStatus+"?id="+url.QueryEscape(payRequestId), http.StatusFound)
}

func (s *Server) statusPage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Add request ID for tracing
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)
	allowCORS(w)

	result, err := s.payments.QueryStatus(ctx, r.URL.Query().Get("id"))
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] payment status", reqID), err)
		s.logGatewayPayload(reqID, err)
		http.Error(w, "Error checking payment status", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "status", result); err != nil {
		s.logger.Error(fmt.Sprintf("[%s] render status page", reqID), err)
	}
}

func (s *Server) notifyPayment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Add request ID for tracing
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	if err := r.ParseForm(); err != nil {
		s.logger.Warn(fmt.Sprintf("[%s] notify: parse form: %v", reqID, err))
		http.Error(w, "Error processing notification", http.StatusBadRequest)
		return
	}
	fields := entity.GatewayResponse{}
	for key := range r.PostForm {
		fields[key] = r.PostForm.Get(key)
	}

	successful, err := s.payments.Notify(ctx, fields)
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] payment notify", reqID), err)
		http.Error(w, "Error processing notification", http.StatusBadRequest)
		return
	}

	s.logger.Info(fmt.Sprintf("[%s] notification for request %s acknowledged, successful: %v", reqID, fields.PayRequestID(), successful))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(notifyAck))
}

func (s *Server) preflight(w http.ResponseWriter, r *http.Request) {
	allowCORS(w)
	w.WriteHeader(http.StatusNoContent)
}

func allowCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

type initiateResponse struct {
	Success      bool   `json:"success"`
	PayRequestID string `json:"payRequestId"`
	Checksum     string `json:"checksum"`
	PaymentURL   string `json:"paymentUrl"`
	Reference    string `json:"reference"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
}

// writeInitiateError maps a payment error to the caller-facing JSON shape:
// validation failures are 400, everything else 500. Only the error message
// leaves the process; raw gateway payloads stay in the logs.
func (s *Server) writeInitiateError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		status = http.StatusBadRequest
	}
	response := errorResponse{
		Success: false,
		Error:   "Payment initiation failed",
		Message: err.Error(),
	}
	var gatewayErr *services.GatewayError
	if errors.As(err, &gatewayErr) {
		response.Code = gatewayErr.Code
	}
	s.writeJSON(w, status, response)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("write response", err)
	}
}

// logGatewayPayload records the raw gateway response of a failed call.
func (s *Server) logGatewayPayload(reqID string, err error) {
	var gatewayErr *services.GatewayError
	if errors.As(err, &gatewayErr) && gatewayErr.Response != "" {
		s.logger.Warn(fmt.Sprintf("[%s] gateway response: %s", reqID, gatewayErr.Response))
	}
}

const homeTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Payment Relay</title>
</head>
<body>
<h1>Payment Relay</h1>
<p>POST /api/pay with amount, email and an optional currency to start a payment.</p>
</body>
</html>
`

const statusTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Payment Status</title>
</head>
<body>
<h1 class="{{if .IsSuccessful}}success{{else}}failure{{end}}">{{.StatusMessage}}</h1>
<p>{{.DetailedMessage}}</p>
<dl>
<dt>Reference</dt><dd>{{.Reference}}</dd>
<dt>Request ID</dt><dd>{{.PayRequestID}}</dd>
</dl>
</body>
</html>
`
