package testing

import (
	"context"
	"sync"
	"time"

	"github.com/amirphl/otp-messenger/app/services"
	"github.com/amirphl/otp-messenger/config"
	"github.com/amirphl/otp-messenger/models"
)

// TestContacts returns a small valid contact list; Ava Li has id 1
func TestContacts() []models.Contact {
	return []models.Contact{
		{ID: 1, FirstName: "Ava", LastName: "Li", PhoneNumber: "+15551234567"},
		{ID: 2, FirstName: "Ben", LastName: "Okafor", PhoneNumber: "+15552223333"},
		{ID: 3, FirstName: "Chloe", LastName: "Martin", PhoneNumber: "+33612345678"},
	}
}

// TestSMSConfig returns complete simulated-mode gateway settings
func TestSMSConfig() *config.SMSConfig {
	return &config.SMSConfig{
		Mode:       config.SMSModeSimulated,
		AccountSID: "ACtest",
		AuthToken:  "test-token",
		FromNumber: "+15550009999",
		BaseURL:    "https://api.twilio.com",
		Timeout:    5 * time.Second,
	}
}

// FixedOTP always generates the same code
type FixedOTP struct {
	Code string
}

func (f FixedOTP) Generate() string {
	return f.Code
}

// StubGateway records sends and returns a configured outcome.
// When Release is set, Send blocks until it is closed.
type StubGateway struct {
	mu      sync.Mutex
	Err     error
	Release chan struct{}
	Started chan struct{}
	calls   []SentSMS
}

// SentSMS is one recorded call to StubGateway
type SentSMS struct {
	PhoneNumber string
	Body        string
}

func NewStubGateway() *StubGateway {
	return &StubGateway{}
}

func (g *StubGateway) Send(_ context.Context, phoneNumber, body string) (*services.SendResult, error) {
	g.mu.Lock()
	g.calls = append(g.calls, SentSMS{PhoneNumber: phoneNumber, Body: body})
	err := g.Err
	release := g.Release
	started := g.Started
	g.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		<-release
	}
	if err != nil {
		return nil, err
	}
	return &services.SendResult{
		SID:       "SMstub",
		Status:    "queued",
		To:        phoneNumber,
		From:      "+15550009999",
		Body:      body,
		Direction: "outbound-api",
		PriceUnit: "USD",
	}, nil
}

// SetErr changes the outcome of later sends
func (g *StubGateway) SetErr(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Err = err
}

func (g *StubGateway) Calls() []SentSMS {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]SentSMS, len(g.calls))
	copy(out, g.calls)
	return out
}

// RecordingNavigator captures every route it is asked to open
type RecordingNavigator struct {
	mu     sync.Mutex
	routes []string
	Done   chan string
}

func NewRecordingNavigator() *RecordingNavigator {
	return &RecordingNavigator{Done: make(chan string, 8)}
}

func (n *RecordingNavigator) Navigate(route string) {
	n.mu.Lock()
	n.routes = append(n.routes, route)
	n.mu.Unlock()
	n.Done <- route
}

func (n *RecordingNavigator) Routes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.routes))
	copy(out, n.routes)
	return out
}
