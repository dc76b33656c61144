package businessflow

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/amirphl/otp-messenger/app/dto"
	"github.com/amirphl/otp-messenger/app/services"
	"github.com/amirphl/otp-messenger/repository"
	"github.com/amirphl/otp-messenger/utils"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var composeSessionsLive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "otp_compose_sessions_live",
		Help: "Number of compose sessions currently held in memory",
	},
)

// ComposeFlow owns the compose sessions opened through the API
type ComposeFlow interface {
	Start(ctx context.Context, contactID int64) (*dto.ComposeSessionResponse, error)
	Get(ctx context.Context, sessionID string) (*dto.ComposeSessionResponse, error)
	Update(ctx context.Context, sessionID string, req *dto.UpdateComposeRequest) (*dto.ComposeSessionResponse, error)
	// Send returns the session view together with any error so the caller can show the banner
	Send(ctx context.Context, sessionID string) (*dto.ComposeSessionResponse, error)
	Close(ctx context.Context, sessionID string) error
	// StartSweeper drops abandoned sessions in the background until the returned func is called
	StartSweeper() func()
	Shutdown()
}

// ComposeSettings controls the redirect after a successful send and session expiry
type ComposeSettings struct {
	CountdownSteps int
	TickInterval   time.Duration
	IdleTimeout    time.Duration
	SweepInterval  time.Duration
	DrainTimeout   time.Duration
}

// finishedSession is the last view of a session whose redirect fired, kept for one read
type finishedSession struct {
	view       *dto.ComposeSessionResponse
	finishedAt time.Time
}

type ComposeFlowImpl struct {
	contactRepo repository.ContactRepository
	messageRepo repository.MessageRepository
	otp         services.OTPGenerator
	gateway     services.SMSGateway
	settings    ComposeSettings

	mu       sync.Mutex
	sessions map[string]*ComposeWorkflow
	finished map[string]finishedSession
	closing  bool
	sending  sync.WaitGroup
}

func NewComposeFlow(
	contactRepo repository.ContactRepository,
	messageRepo repository.MessageRepository,
	otp services.OTPGenerator,
	gateway services.SMSGateway,
	settings ComposeSettings,
) ComposeFlow {
	if settings.IdleTimeout <= 0 {
		settings.IdleTimeout = utils.ComposeIdleTimeout
	}
	if settings.SweepInterval <= 0 {
		settings.SweepInterval = utils.ComposeSweepInterval
	}
	if settings.DrainTimeout <= 0 {
		settings.DrainTimeout = utils.ComposeDrainTimeout
	}

	return &ComposeFlowImpl{
		contactRepo: contactRepo,
		messageRepo: messageRepo,
		otp:         otp,
		gateway:     gateway,
		settings:    settings,
		sessions:    make(map[string]*ComposeWorkflow),
		finished:    make(map[string]finishedSession),
	}
}

func (f *ComposeFlowImpl) Start(ctx context.Context, contactID int64) (*dto.ComposeSessionResponse, error) {
	contact, err := f.contactRepo.ByID(ctx, contactID)
	if err != nil {
		return nil, NewBusinessError("CONTACT_LOOKUP_FAILED", "Failed to look up contact", err)
	}
	if contact == nil {
		return nil, NewBusinessErrorf("CONTACT_NOT_FOUND", "Contact %d not found", ErrContactNotFound, contactID)
	}

	sessionID := uuid.New().String()
	var workflow *ComposeWorkflow
	workflow = NewComposeWorkflow(*contact, ComposeWorkflowDeps{
		OTP:      f.otp,
		Gateway:  f.gateway,
		Messages: f.messageRepo,
		Navigator: NavigatorFunc(func(route string) {
			log.Printf("[Compose] Session %s redirecting to %s", sessionID, route)
		}),
		OnFinished: func() {
			f.finish(sessionID, workflow)
		},
		CountdownSteps: f.settings.CountdownSteps,
		TickInterval:   f.settings.TickInterval,
	})

	f.mu.Lock()
	f.sessions[sessionID] = workflow
	f.mu.Unlock()
	composeSessionsLive.Inc()

	log.Printf("[Compose] Session %s opened | ContactID=%d", sessionID, contact.ID)
	return ToComposeSessionDTO(sessionID, workflow.Snapshot()), nil
}

// Get returns the session view. Once the redirect has fired the view is returned
// one last time and the session is dropped.
func (f *ComposeFlowImpl) Get(ctx context.Context, sessionID string) (*dto.ComposeSessionResponse, error) {
	f.mu.Lock()
	if done, ok := f.finished[sessionID]; ok {
		delete(f.finished, sessionID)
		f.mu.Unlock()
		return done.view, nil
	}
	f.mu.Unlock()

	workflow, err := f.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	snap := workflow.Snapshot()
	if snap.RedirectTo != "" {
		f.remove(sessionID)
	}
	return ToComposeSessionDTO(sessionID, snap), nil
}

func (f *ComposeFlowImpl) Update(ctx context.Context, sessionID string, req *dto.UpdateComposeRequest) (*dto.ComposeSessionResponse, error) {
	if view, ok := f.finishedView(sessionID); ok {
		return view, NewBusinessError("COMPOSE_LOCKED", "Message cannot be edited after it was sent", ErrComposeLocked)
	}
	workflow, err := f.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	if err := workflow.Edit(req.Message); err != nil {
		return ToComposeSessionDTO(sessionID, workflow.Snapshot()), err
	}
	return ToComposeSessionDTO(sessionID, workflow.Snapshot()), nil
}

func (f *ComposeFlowImpl) Send(ctx context.Context, sessionID string) (*dto.ComposeSessionResponse, error) {
	if view, ok := f.finishedView(sessionID); ok {
		return view, NewBusinessError("COMPOSE_COMPLETED", "Message was already sent", ErrComposeCompleted)
	}

	f.mu.Lock()
	workflow, ok := f.sessions[sessionID]
	if !ok || f.closing {
		f.mu.Unlock()
		return nil, NewBusinessError("COMPOSE_SESSION_NOT_FOUND", "Compose session not found", ErrComposeSessionNotFound)
	}
	f.sending.Add(1)
	f.mu.Unlock()
	defer f.sending.Done()

	_, sendErr := workflow.Send(ctx)
	return ToComposeSessionDTO(sessionID, workflow.Snapshot()), sendErr
}

func (f *ComposeFlowImpl) Close(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	_, wasFinished := f.finished[sessionID]
	delete(f.finished, sessionID)
	f.mu.Unlock()

	if !f.remove(sessionID) && !wasFinished {
		return NewBusinessError("COMPOSE_SESSION_NOT_FOUND", "Compose session not found", ErrComposeSessionNotFound)
	}
	log.Printf("[Compose] Session %s closed", sessionID)
	return nil
}

// StartSweeper runs sweep every SweepInterval. The returned func stops it.
func (f *ComposeFlowImpl) StartSweeper() func() {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(f.settings.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := f.sweep(utils.UTCNow()); n > 0 {
					log.Printf("[Compose] Swept %d idle sessions", n)
				}
			}
		}
	}()

	return cancel
}

// sweep drops sessions idle longer than IdleTimeout and unread finished views of the same age
func (f *ComposeFlowImpl) sweep(now time.Time) int {
	cutoff := now.Add(-f.settings.IdleTimeout)

	f.mu.Lock()
	var expired []*ComposeWorkflow
	for id, w := range f.sessions {
		touched, idle := w.IdleSince()
		if idle && touched.Before(cutoff) {
			delete(f.sessions, id)
			expired = append(expired, w)
		}
	}
	dropped := 0
	for id, done := range f.finished {
		if done.finishedAt.Before(cutoff) {
			delete(f.finished, id)
			dropped++
		}
	}
	f.mu.Unlock()

	for _, w := range expired {
		w.Close()
		composeSessionsLive.Dec()
	}
	return len(expired) + dropped
}

// Shutdown closes every open session, then waits for sends already in flight so
// their messages are persisted before the store goes away
func (f *ComposeFlowImpl) Shutdown() {
	f.mu.Lock()
	f.closing = true
	sessions := f.sessions
	f.sessions = make(map[string]*ComposeWorkflow)
	f.finished = make(map[string]finishedSession)
	f.mu.Unlock()

	for _, w := range sessions {
		w.Close()
		composeSessionsLive.Dec()
	}
	log.Printf("[Compose] Closed %d open sessions", len(sessions))

	drained := make(chan struct{})
	go func() {
		f.sending.Wait()
		close(drained)
	}()

	select {
	case <-drained:
	case <-time.After(f.settings.DrainTimeout):
		log.Printf("[Compose] Gave up waiting for in-flight sends after %s", f.settings.DrainTimeout)
	}
}

// finish releases a workflow whose redirect fired and keeps its final view for one read
func (f *ComposeFlowImpl) finish(sessionID string, workflow *ComposeWorkflow) {
	view := ToComposeSessionDTO(sessionID, workflow.Snapshot())

	f.mu.Lock()
	if current, ok := f.sessions[sessionID]; !ok || current != workflow {
		f.mu.Unlock()
		return
	}
	delete(f.sessions, sessionID)
	f.finished[sessionID] = finishedSession{view: view, finishedAt: utils.UTCNow()}
	f.mu.Unlock()

	workflow.Close()
	composeSessionsLive.Dec()
}

// finishedView peeks at a finished session without consuming its last read
func (f *ComposeFlowImpl) finishedView(sessionID string) (*dto.ComposeSessionResponse, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	done, ok := f.finished[sessionID]
	if !ok {
		return nil, false
	}
	view := *done.view
	return &view, true
}

func (f *ComposeFlowImpl) lookup(sessionID string) (*ComposeWorkflow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.sessions[sessionID]
	if !ok {
		return nil, NewBusinessError("COMPOSE_SESSION_NOT_FOUND", "Compose session not found", ErrComposeSessionNotFound)
	}
	return w, nil
}

func (f *ComposeFlowImpl) remove(sessionID string) bool {
	f.mu.Lock()
	w, ok := f.sessions[sessionID]
	if ok {
		delete(f.sessions, sessionID)
	}
	f.mu.Unlock()

	if !ok {
		return false
	}
	w.Close()
	composeSessionsLive.Dec()
	return true
}
