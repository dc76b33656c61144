package businessflow

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/amirphl/otp-messenger/app/services"
	"github.com/amirphl/otp-messenger/models"
	"github.com/amirphl/otp-messenger/repository"
	"github.com/amirphl/otp-messenger/utils"
)

// ComposeState is the lifecycle of one compose screen
type ComposeState string

const (
	ComposeStateDrafting  ComposeState = "drafting"
	ComposeStateSending   ComposeState = "sending"
	ComposeStateSucceeded ComposeState = "succeeded"
	ComposeStateFailed    ComposeState = "failed"
)

// Navigator moves the client to another route
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a plain func to Navigator
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// ComposeWorkflowDeps are the collaborators of a ComposeWorkflow
type ComposeWorkflowDeps struct {
	OTP       services.OTPGenerator
	Gateway   services.SMSGateway
	Messages  repository.MessageRepository
	Navigator Navigator
	// OnFinished runs once after the redirect has been issued
	OnFinished func()

	CountdownSteps int
	TickInterval   time.Duration
	Now            func() time.Time
}

// ComposeSnapshot is a consistent copy of the workflow state
type ComposeSnapshot struct {
	Contact     models.Contact
	OTP         string
	Body        string
	State       ComposeState
	Error       string
	Countdown   int
	RedirectTo  string
	SentMessage *models.Message
	Result      *services.SendResult
}

// ComposeWorkflow drives one OTP message from draft to sent.
// At most one send is in flight; the mutex is never held across the gateway call.
type ComposeWorkflow struct {
	deps    ComposeWorkflowDeps
	contact models.Contact
	otp     string

	mu            sync.Mutex
	body          string
	state         ComposeState
	errMsg        string
	countdown     int
	redirectTo    string
	sent          *models.Message
	result        *services.SendResult
	stopCountdown func()
	closed        bool
	touched       time.Time
}

// NewComposeWorkflow generates the OTP and seeds the editable body with it
func NewComposeWorkflow(contact models.Contact, deps ComposeWorkflowDeps) *ComposeWorkflow {
	if deps.Now == nil {
		deps.Now = utils.UTCNow
	}
	if deps.TickInterval <= 0 {
		deps.TickInterval = utils.RedirectTickInterval
	}
	if deps.CountdownSteps <= 0 {
		deps.CountdownSteps = utils.RedirectCountdownSteps
	}

	otp := deps.OTP.Generate()
	return &ComposeWorkflow{
		deps:    deps,
		contact: contact,
		otp:     otp,
		body:    fmt.Sprintf(utils.OTPMessageTemplate, otp),
		state:   ComposeStateDrafting,
		touched: deps.Now(),
	}
}

func (w *ComposeWorkflow) OTP() string {
	return w.otp
}

// Snapshot returns a copy of the current state
func (w *ComposeWorkflow) Snapshot() ComposeSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := ComposeSnapshot{
		Contact:    w.contact,
		OTP:        w.otp,
		Body:       w.body,
		State:      w.state,
		Error:      w.errMsg,
		Countdown:  w.countdown,
		RedirectTo: w.redirectTo,
	}
	if w.sent != nil {
		sent := *w.sent
		s.SentMessage = &sent
	}
	if w.result != nil {
		result := *w.result
		s.Result = &result
	}
	return s
}

// Edit replaces the message body. Allowed while drafting or after a failed send.
func (w *ComposeWorkflow) Edit(body string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return NewBusinessError("COMPOSE_SESSION_NOT_FOUND", "Compose session is closed", ErrComposeSessionNotFound)
	}
	switch w.state {
	case ComposeStateSending:
		return NewBusinessError("COMPOSE_LOCKED", "Message cannot be edited while it is being sent", ErrComposeLocked)
	case ComposeStateSucceeded:
		return NewBusinessError("COMPOSE_LOCKED", "Message cannot be edited after it was sent", ErrComposeLocked)
	}

	w.body = body
	w.touched = w.deps.Now()
	return nil
}

// IdleSince reports when the workflow was last edited or sent and whether it is
// in a state an idle sweep may discard
func (w *ComposeWorkflow) IdleSince() (time.Time, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return w.touched, false
	}
	switch w.state {
	case ComposeStateDrafting, ComposeStateFailed:
		return w.touched, true
	}
	return w.touched, false
}

// Send validates the body, sends it and records the message on success.
// Validation failures change nothing but the error banner.
func (w *ComposeWorkflow) Send(ctx context.Context) (*services.SendResult, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, NewBusinessError("COMPOSE_SESSION_NOT_FOUND", "Compose session is closed", ErrComposeSessionNotFound)
	}
	switch w.state {
	case ComposeStateSending:
		w.mu.Unlock()
		return nil, NewBusinessError("SEND_IN_PROGRESS", "Message is already being sent", ErrSendInProgress)
	case ComposeStateSucceeded:
		w.mu.Unlock()
		return nil, NewBusinessError("COMPOSE_COMPLETED", "Message was already sent", ErrComposeCompleted)
	}

	body := w.body
	w.touched = w.deps.Now()
	if strings.TrimSpace(body) == "" {
		err := NewBusinessError("EMPTY_MESSAGE", "Message cannot be empty", ErrEmptyMessage)
		w.errMsg = err.Message
		w.mu.Unlock()
		return nil, err
	}
	if !strings.Contains(body, w.otp) {
		err := NewBusinessErrorf("MISSING_OTP", "Your message must include the OTP: %s", ErrMissingOTP, w.otp)
		w.errMsg = err.Message
		w.mu.Unlock()
		return nil, err
	}

	w.state = ComposeStateSending
	w.errMsg = ""
	w.mu.Unlock()

	// the request is not abandoned when the caller goes away
	result, err := w.deps.Gateway.Send(context.WithoutCancel(ctx), w.contact.PhoneNumber, body)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.touched = w.deps.Now()
	if err != nil {
		w.state = ComposeStateFailed
		w.errMsg = UserMessage(err)
		log.Printf("[Compose] Send failed | ContactID=%d | Error=%v", w.contact.ID, err)
		return nil, err
	}

	now := w.deps.Now()
	message := models.Message{
		ID:          w.deps.Messages.NextID(now),
		ContactID:   w.contact.ID,
		ContactName: w.contact.FullName(),
		PhoneNumber: w.contact.PhoneNumber,
		Message:     body,
		OTP:         w.otp,
		Timestamp:   utils.FormatISO(now),
	}
	if err := w.deps.Messages.Append(context.WithoutCancel(ctx), &message); err != nil {
		// the SMS went out; the in-memory log still has the message
		log.Printf("[Compose] Failed to persist message %d: %v", message.ID, err)
	}

	w.sent = &message
	w.result = result
	w.state = ComposeStateSucceeded
	w.countdown = w.deps.CountdownSteps
	if !w.closed {
		w.stopCountdown = startCountdown(context.Background(), w.deps.CountdownSteps, w.deps.TickInterval, w.onTick, w.onCountdownDone)
	}

	sid := ""
	if result != nil {
		sid = result.SID
	}
	log.Printf("[Compose] Message sent | ContactID=%d | MessageID=%d | SID=%s", w.contact.ID, message.ID, sid)
	return result, nil
}

func (w *ComposeWorkflow) onTick(remaining int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if remaining < 0 {
		remaining = 0
	}
	w.countdown = remaining
}

func (w *ComposeWorkflow) onCountdownDone() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.countdown = 0
	w.redirectTo = utils.RouteMessages
	nav := w.deps.Navigator
	onFinished := w.deps.OnFinished
	w.mu.Unlock()

	if nav != nil {
		nav.Navigate(utils.RouteMessages)
	}
	if onFinished != nil {
		onFinished()
	}
}

// Close tears the workflow down and cancels a pending redirect. Safe to call more than once.
func (w *ComposeWorkflow) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	stop := w.stopCountdown
	w.stopCountdown = nil
	w.mu.Unlock()

	if stop != nil {
		stop()
	}
}
