// Package services provides external service integrations such as the SMS gateway and OTP generation
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/amirphl/otp-messenger/config"
	"github.com/amirphl/otp-messenger/utils"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream error code for a trial account sending to an unverified number
const upstreamCodeUnverifiedRecipient = 21608

var (
	ErrSMSNotConfigured    = errors.New("SMS gateway credentials are missing")
	ErrInvalidSMSRequest   = errors.New("invalid phone number or message content")
	ErrUnverifiedRecipient = errors.New("recipient phone number is not verified")
)

var (
	smsSendTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_sms_send_total",
			Help: "Total number of SMS send attempts",
		},
		[]string{"mode", "outcome"},
	)

	smsSendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "otp_sms_send_duration_seconds",
			Help:    "SMS send latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)
)

// SendResult mirrors the gateway's message resource
type SendResult struct {
	SID         string  `json:"sid"`
	Status      string  `json:"status"`
	To          string  `json:"to"`
	From        string  `json:"from"`
	Body        string  `json:"body"`
	DateCreated string  `json:"date_created"`
	DateSent    *string `json:"date_sent"`
	Direction   string  `json:"direction"`
	Price       *string `json:"price"`
	PriceUnit   string  `json:"price_unit"`
}

// GatewayError is any failure reported by, or on the way to, the upstream gateway
type GatewayError struct {
	StatusCode int
	Code       int
	Message    string
	MoreInfo   string
	Err        error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// UnverifiedRecipientError carries the remediation text for a trial-account rejection
type UnverifiedRecipientError struct {
	PhoneNumber string
	Upstream    string
}

func (e *UnverifiedRecipientError) Error() string {
	return fmt.Sprintf("The phone number %s is not verified. With a trial account you need to verify "+
		"recipient numbers in the gateway console or upgrade to a paid account.", e.PhoneNumber)
}

func (e *UnverifiedRecipientError) Unwrap() error {
	return ErrUnverifiedRecipient
}

// SMSTransport delivers one message. Credentials and inputs are checked before it is called.
type SMSTransport interface {
	Mode() string
	Send(ctx context.Context, to, from, body string) (*SendResult, error)
}

// SMSGateway sends a single text message to one recipient
type SMSGateway interface {
	Send(ctx context.Context, phoneNumber, body string) (*SendResult, error)
}

// SMSGatewayImpl implements SMSGateway
type SMSGatewayImpl struct {
	config    config.SMSConfig
	transport SMSTransport
}

// NewSMSGateway selects the transport from cfg.Mode
func NewSMSGateway(cfg *config.SMSConfig) SMSGateway {
	var transport SMSTransport
	if cfg.Mode == config.SMSModeLive {
		transport = NewLiveTransport(cfg)
	} else {
		transport = NewSimulatedTransport()
	}
	return NewSMSGatewayWithTransport(cfg, transport)
}

// NewSMSGatewayWithTransport builds a gateway around an explicit transport
func NewSMSGatewayWithTransport(cfg *config.SMSConfig, transport SMSTransport) SMSGateway {
	return &SMSGatewayImpl{config: *cfg, transport: transport}
}

func (g *SMSGatewayImpl) Send(ctx context.Context, phoneNumber, body string) (*SendResult, error) {
	mode := g.transport.Mode()

	if missing := g.config.MissingCredentials(); len(missing) > 0 {
		smsSendTotal.WithLabelValues(mode, "not_configured").Inc()
		return nil, fmt.Errorf("%w: set %s", ErrSMSNotConfigured, strings.Join(missing, ", "))
	}

	if strings.TrimSpace(phoneNumber) == "" || strings.TrimSpace(body) == "" || utf8.RuneCountInString(body) > utils.MaxMessageLength {
		smsSendTotal.WithLabelValues(mode, "invalid").Inc()
		return nil, ErrInvalidSMSRequest
	}

	log.Printf("[SMS] Sending | Mode=%s | Recipient=%s | Length=%d", mode, phoneNumber, len(body))
	start := time.Now()

	result, err := g.transport.Send(ctx, phoneNumber, g.config.FromNumber, body)
	duration := time.Since(start)
	smsSendDuration.WithLabelValues(mode).Observe(duration.Seconds())

	if err != nil {
		smsSendTotal.WithLabelValues(mode, "failed").Inc()
		log.Printf("[SMS] Failed | Mode=%s | Recipient=%s | Duration=%v | Error=%v", mode, phoneNumber, duration, err)
		return nil, err
	}

	smsSendTotal.WithLabelValues(mode, "sent").Inc()
	log.Printf("[SMS] Sent | Mode=%s | Recipient=%s | SID=%s | Status=%s | Duration=%v",
		mode, phoneNumber, result.SID, result.Status, duration)
	return result, nil
}

// SimulatedTransport fabricates a queued result without any network I/O
type SimulatedTransport struct {
	now func() time.Time
}

func NewSimulatedTransport() *SimulatedTransport {
	return &SimulatedTransport{now: utils.UTCNow}
}

func (t *SimulatedTransport) Mode() string {
	return config.SMSModeSimulated
}

func (t *SimulatedTransport) Send(_ context.Context, to, from, body string) (*SendResult, error) {
	return &SendResult{
		SID:         "SM" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Status:      "queued",
		To:          to,
		From:        from,
		Body:        body,
		DateCreated: utils.FormatISO(t.now()),
		DateSent:    nil,
		Direction:   "outbound-api",
		Price:       nil,
		PriceUnit:   "USD",
	}, nil
}

// LiveTransport posts to the gateway's Messages resource
type LiveTransport struct {
	baseURL    string
	accountSID string
	authToken  string
	client     *http.Client
}

// upstreamError is the gateway's error document
type upstreamError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
	Status   int    `json:"status"`
}

func NewLiveTransport(cfg *config.SMSConfig) *LiveTransport {
	return &LiveTransport{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (t *LiveTransport) Mode() string {
	return config.SMSModeLive
}

func (t *LiveTransport) Send(ctx context.Context, to, from, body string) (*SendResult, error) {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", from)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.baseURL, url.PathEscape(t.accountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &GatewayError{Message: "failed to create SMS request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(t.accountSID, t.authToken)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &GatewayError{Message: "failed to reach SMS gateway", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Message: "failed to read SMS gateway response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, mapUpstreamError(resp.StatusCode, respBody, to)
	}

	var result SendResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Message: "failed to decode SMS gateway response", Err: err}
	}
	return &result, nil
}

func mapUpstreamError(status int, body []byte, to string) error {
	var doc upstreamError
	_ = json.Unmarshal(body, &doc)

	if doc.Code == upstreamCodeUnverifiedRecipient || looksUnverified(doc.Message) {
		return &UnverifiedRecipientError{PhoneNumber: to, Upstream: doc.Message}
	}

	msg := strings.TrimSpace(doc.Message)
	if msg == "" {
		msg = "Failed to send SMS"
	}
	return &GatewayError{
		StatusCode: status,
		Code:       doc.Code,
		Message:    msg,
		MoreInfo:   doc.MoreInfo,
	}
}

// looksUnverified matches the trial-account rejection text when no structured code is present
func looksUnverified(message string) bool {
	return strings.Contains(message, "unverified") && strings.Contains(message, "Trial accounts")
}
