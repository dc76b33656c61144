package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amirphl/otp-messenger/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingTransport struct {
	calls int32
}

func (c *countingTransport) Mode() string { return "counting" }

func (c *countingTransport) Send(_ context.Context, to, from, body string) (*SendResult, error) {
	atomic.AddInt32(&c.calls, 1)
	return &SendResult{SID: "SMtest", Status: "queued", To: to, From: from, Body: body}, nil
}

func testSMSConfig(baseURL string) *config.SMSConfig {
	return &config.SMSConfig{
		Mode:       config.SMSModeLive,
		AccountSID: "AC123",
		AuthToken:  "secret",
		FromNumber: "+15550009999",
		BaseURL:    baseURL,
		Timeout:    5 * time.Second,
	}
}

func TestSimulatedSend(t *testing.T) {
	cfg := testSMSConfig("")
	cfg.Mode = config.SMSModeSimulated
	gw := NewSMSGateway(cfg)

	res, err := gw.Send(context.Background(), "+15551234567", "Hi. Your OTP is: 482913")
	require.NoError(t, err)
	assert.Equal(t, "queued", res.Status)
	assert.Equal(t, "+15551234567", res.To)
	assert.Equal(t, "+15550009999", res.From)
	assert.Equal(t, "Hi. Your OTP is: 482913", res.Body)
	assert.Equal(t, "outbound-api", res.Direction)
	assert.Equal(t, "USD", res.PriceUnit)
	assert.Nil(t, res.DateSent)
	assert.Nil(t, res.Price)
	assert.Regexp(t, regexp.MustCompile(`^SM[0-9a-f]{32}$`), res.SID)
	assert.NotEmpty(t, res.DateCreated)
}

func TestSend_MissingCredentials(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.SMSConfig)
	}{
		{name: "no sid", mutate: func(c *config.SMSConfig) { c.AccountSID = "" }},
		{name: "no token", mutate: func(c *config.SMSConfig) { c.AuthToken = "" }},
		{name: "no from", mutate: func(c *config.SMSConfig) { c.FromNumber = "" }},
	}

	for _, mode := range []string{config.SMSModeSimulated, config.SMSModeLive} {
		for _, tt := range tests {
			t.Run(mode+"/"+tt.name, func(t *testing.T) {
				cfg := testSMSConfig("http://127.0.0.1:1")
				cfg.Mode = mode
				tt.mutate(cfg)
				transport := &countingTransport{}
				gw := NewSMSGatewayWithTransport(cfg, transport)

				_, err := gw.Send(context.Background(), "+15551234567", "hello 123456")
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrSMSNotConfigured))
				assert.Equal(t, int32(0), atomic.LoadInt32(&transport.calls))
			})
		}
	}
}

func TestSend_InvalidInput(t *testing.T) {
	transport := &countingTransport{}
	gw := NewSMSGatewayWithTransport(testSMSConfig(""), transport)

	_, err := gw.Send(context.Background(), "", "body")
	assert.ErrorIs(t, err, ErrInvalidSMSRequest)

	_, err = gw.Send(context.Background(), "+15551234567", "   ")
	assert.ErrorIs(t, err, ErrInvalidSMSRequest)

	_, err = gw.Send(context.Background(), "+15551234567", strings.Repeat("x", 1601))
	assert.ErrorIs(t, err, ErrInvalidSMSRequest)

	assert.Equal(t, int32(0), atomic.LoadInt32(&transport.calls))
}

func TestLiveTransport_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "secret", pass)

		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "+15551234567", r.PostForm.Get("To"))
		assert.Equal(t, "+15550009999", r.PostForm.Get("From"))
		assert.Equal(t, "Hi. Your OTP is: 482913", r.PostForm.Get("Body"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SMabc","status":"queued","to":"+15551234567","from":"+15550009999","body":"Hi. Your OTP is: 482913","direction":"outbound-api","price_unit":"USD"}`))
	}))
	defer server.Close()

	gw := NewSMSGateway(testSMSConfig(server.URL))
	res, err := gw.Send(context.Background(), "+15551234567", "Hi. Your OTP is: 482913")
	require.NoError(t, err)
	assert.Equal(t, "SMabc", res.SID)
	assert.Equal(t, "queued", res.Status)
}

func TestLiveTransport_Errors(t *testing.T) {
	tests := []struct {
		name             string
		status           int
		body             string
		expectUnverified bool
		expectMessage    string
		expectCode       int
	}{
		{
			name:             "unverified by code",
			status:           http.StatusBadRequest,
			body:             `{"code":21608,"message":"The number is unverified.","status":400}`,
			expectUnverified: true,
		},
		{
			name:             "unverified by text",
			status:           http.StatusBadRequest,
			body:             `{"message":"The number +1555 is unverified. Trial accounts cannot send messages to unverified numbers"}`,
			expectUnverified: true,
		},
		{
			name:          "generic upstream error",
			status:        http.StatusBadRequest,
			body:          `{"code":21211,"message":"The 'To' number is not a valid phone number.","more_info":"https://example.test/21211","status":400}`,
			expectMessage: "The 'To' number is not a valid phone number.",
			expectCode:    21211,
		},
		{
			name:          "empty body",
			status:        http.StatusInternalServerError,
			body:          ``,
			expectMessage: "Failed to send SMS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			gw := NewSMSGateway(testSMSConfig(server.URL))
			_, err := gw.Send(context.Background(), "+15551234567", "Hi. Your OTP is: 482913")
			require.Error(t, err)

			if tt.expectUnverified {
				assert.ErrorIs(t, err, ErrUnverifiedRecipient)
				assert.Contains(t, err.Error(), "+15551234567")
				return
			}

			var gwErr *GatewayError
			require.True(t, errors.As(err, &gwErr))
			assert.Equal(t, tt.status, gwErr.StatusCode)
			assert.Equal(t, tt.expectMessage, gwErr.Message)
			assert.Equal(t, tt.expectCode, gwErr.Code)
		})
	}
}

func TestLiveTransport_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	gw := NewSMSGateway(testSMSConfig(url))
	_, err := gw.Send(context.Background(), "+15551234567", "Hi. Your OTP is: 482913")
	require.Error(t, err)

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.NotNil(t, gwErr.Err)
}

func TestLiveTransport_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SMslow","status":"queued"}`))
	}))
	defer server.Close()

	t.Run("zero keeps the transport default", func(t *testing.T) {
		cfg := testSMSConfig(server.URL)
		cfg.Timeout = 0

		transport := NewLiveTransport(cfg)
		assert.Equal(t, time.Duration(0), transport.client.Timeout)

		res, err := NewSMSGateway(cfg).Send(context.Background(), "+15551234567", "Hi. Your OTP is: 482913")
		require.NoError(t, err)
		assert.Equal(t, "SMslow", res.SID)
	})

	t.Run("explicit override", func(t *testing.T) {
		cfg := testSMSConfig(server.URL)
		cfg.Timeout = 20 * time.Millisecond

		_, err := NewSMSGateway(cfg).Send(context.Background(), "+15551234567", "Hi. Your OTP is: 482913")
		require.Error(t, err)

		var gwErr *GatewayError
		require.True(t, errors.As(err, &gwErr))
	})
}
