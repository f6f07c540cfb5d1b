package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/worldmotoclash/wmc-capital-hub-sub000/model"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/utils"
)

// TrackingSubmitter delivers one event to the portal-activity servlet.
type TrackingSubmitter interface {
	SubmitTracking(ctx context.Context, ev model.TrackingEvent) error
}

// DeadLetterSink journals events that exhausted the retry budget.
type DeadLetterSink interface {
	Insert(ev model.TrackingEvent, reason string, attempts int) error
}

// IPResolver yields the caller's public IP, or "" when unknown.
type IPResolver interface {
	ResolvePublicIP(ctx context.Context) string
}

// LocationResolver maps an IP to a coarse location, degrading to Unknown.
type LocationResolver interface {
	ResolveLocation(ctx context.Context, ip string) model.IPLocation
}

// Tracker is the fire-and-forget activity pipeline. Track enqueues and
// returns immediately; a worker resolves IP and location, then delivers
// with a fixed retry budget. Exhausted events go to the dead-letter journal
// and are otherwise forgotten. Nothing here may ever block or fail the
// user action that produced the event.
type Tracker struct {
	queue       chan model.TrackingEvent
	submitter   TrackingSubmitter
	ips         IPResolver
	geo         LocationResolver
	deadLetters DeadLetterSink
	maxRetries  int
	backoff     time.Duration

	done chan struct{}
	wg   sync.WaitGroup
}

func NewTracker(submitter TrackingSubmitter, ips IPResolver, geo LocationResolver, deadLetters DeadLetterSink, queueSize, maxRetries int, backoff time.Duration) *Tracker {
	if queueSize < 1 {
		queueSize = 1
	}
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Tracker{
		queue:       make(chan model.TrackingEvent, queueSize),
		submitter:   submitter,
		ips:         ips,
		geo:         geo,
		deadLetters: deadLetters,
		maxRetries:  maxRetries,
		backoff:     backoff,
		done:        make(chan struct{}),
	}
}

// Start launches the delivery workers.
func (t *Tracker) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		t.wg.Add(1)
		go t.run()
	}
}

// Stop signals the workers, lets them drain what is already queued, and
// waits for them to exit.
func (t *Tracker) Stop() {
	close(t.done)
	t.wg.Wait()
}

// Track queues one event and returns immediately. A full queue drops the
// new event (counted, logged); callers get no acknowledgement either way.
func (t *Tracker) Track(contactID, targetURL, actionType, title string) {
	ev := model.TrackingEvent{
		EventID:    uuid.New().String(),
		ContactID:  contactID,
		TargetURL:  targetURL,
		ActionType: actionType,
		Title:      title,
		CreatedAt:  time.Now(),
	}

	select {
	case <-t.done:
		utils.TrackDelivery("dropped")
		return
	default:
	}

	select {
	case t.queue <- ev:
		utils.TrackerQueueDepth.Set(float64(len(t.queue)))
	default:
		utils.TrackDelivery("dropped")
		log.Printf("Warning: tracking queue full, dropping %s event for contact %s", actionType, contactID)
	}
}

// TrackWithIP pre-sets the IP for call sites that already resolved it
// (login already paid for the lookup; no point doing it twice).
func (t *Tracker) TrackWithIP(contactID, targetURL, actionType, title, ip string, loc model.IPLocation) {
	ev := model.TrackingEvent{
		EventID:    uuid.New().String(),
		ContactID:  contactID,
		TargetURL:  targetURL,
		ActionType: actionType,
		Title:      title,
		IPAddress:  ip,
		Country:    loc.Country,
		City:       loc.City,
		CreatedAt:  time.Now(),
	}

	select {
	case <-t.done:
		utils.TrackDelivery("dropped")
		return
	default:
	}

	select {
	case t.queue <- ev:
		utils.TrackerQueueDepth.Set(float64(len(t.queue)))
	default:
		utils.TrackDelivery("dropped")
		log.Printf("Warning: tracking queue full, dropping %s event for contact %s", actionType, contactID)
	}
}

func (t *Tracker) run() {
	defer t.wg.Done()
	for {
		select {
		case <-t.done:
			for {
				select {
				case ev := <-t.queue:
					t.deliver(ev)
				default:
					return
				}
			}
		case ev := <-t.queue:
			utils.TrackerQueueDepth.Set(float64(len(t.queue)))
			t.deliver(ev)
		}
	}
}

// deliver enriches and submits one event. Every failure mode ends here:
// logged, counted, swallowed.
func (t *Tracker) deliver(ev model.TrackingEvent) {
	defer func() {
		if r := recover(); r != nil {
			utils.TrackError("tracker", "panic")
			log.Printf("Warning: tracking delivery panicked: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if ev.IPAddress == "" {
		ev.IPAddress = t.ips.ResolvePublicIP(ctx)
	}
	if ev.Country == "" {
		loc := t.geo.ResolveLocation(ctx, ev.IPAddress)
		ev.Country = loc.Country
		ev.City = loc.City
	}

	var lastErr error
	for attempt := 1; attempt <= t.maxRetries; attempt++ {
		if lastErr = t.submitter.SubmitTracking(ctx, ev); lastErr == nil {
			utils.TrackDelivery("delivered")
			return
		}
		utils.TrackDelivery("retried")
		log.Printf("Warning: tracking delivery attempt %d/%d failed for event %s: %v",
			attempt, t.maxRetries, ev.EventID, lastErr)
		if attempt < t.maxRetries {
			time.Sleep(t.backoff * time.Duration(attempt))
		}
	}

	utils.TrackDelivery("dead_lettered")
	if t.deadLetters != nil {
		reason := fmt.Sprintf("delivery failed after %d attempts: %v", t.maxRetries, lastErr)
		if err := t.deadLetters.Insert(ev, reason, t.maxRetries); err != nil {
			log.Printf("Warning: failed to dead-letter event %s: %v", ev.EventID, err)
		}
	}
}
