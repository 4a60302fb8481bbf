package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"appliance-manager/internal/model"
	"appliance-manager/internal/store"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Source is the slice of the store the workers read and prune.
type Source interface {
	GetSchedule(ctx context.Context, id int64) (*model.Schedule, error)
	SubscriptionsForProperty(ctx context.Context, propertyID int64) ([]model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, userID int64, endpoint string) error
}

// Payload is the JSON body delivered to the service worker.
type Payload struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	ScheduleID int64  `json:"schedule_id"`
	URL        string `json:"url,omitempty"`
}

// WorkerPool sends schedule notifications in the background.
type WorkerPool struct {
	size    int
	jobs    chan int64
	source  Source
	webpush *webpush.Options
	sender  NotificationSender
	log     *zap.Logger
	sent    *prometheus.CounterVec
	wg      sync.WaitGroup
}

// NewWorkerPool creates a new worker pool. reg may be nil.
func NewWorkerPool(size int, source Source, webpushOptions *webpush.Options, log *zap.Logger, reg prometheus.Registerer) *WorkerPool {
	if size < 1 {
		size = 1
	}
	wp := &WorkerPool{
		size:    size,
		jobs:    make(chan int64, size*16),
		source:  source,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		log:     log.Named("notification"),
		sent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "appliance",
			Name:      "push_notifications_total",
			Help:      "Web push deliveries by result.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(wp.sent)
	}
	return wp
}

// Start launches the worker goroutines. They exit when ctx is cancelled.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
}

// Wait blocks until every worker has returned.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()
	log := wp.log.With(zap.Int("worker", id))
	log.Debug("worker started")
	for {
		select {
		case scheduleID := <-wp.jobs:
			log.Debug("processing schedule", zap.Int64("schedule_id", scheduleID))
			// Deliveries already in flight finish even during shutdown.
			jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
			wp.notifySchedule(jobCtx, scheduleID)
			cancel()
		case <-ctx.Done():
			log.Debug("worker shutting down")
			return
		}
	}
}

// Dispatch queues a schedule for notification. It never blocks; false means
// the queue was full and the job was dropped.
func (wp *WorkerPool) Dispatch(scheduleID int64) bool {
	select {
	case wp.jobs <- scheduleID:
		return true
	default:
		wp.log.Warn("notification queue full, dropping job", zap.Int64("schedule_id", scheduleID))
		wp.sent.WithLabelValues("dropped").Inc()
		return false
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan int64 {
	return wp.jobs
}

// Message is the human readable notification text for a schedule whose
// installation, property and appliance are loaded.
func Message(s *model.Schedule) string {
	return fmt.Sprintf("Replacement of %s at %s scheduled for %s %s",
		s.PropertyAppliance.Appliance, s.PropertyAppliance.Property,
		s.Day().Format(time.DateOnly), s.TimeLabel())
}

// notifySchedule pushes the schedule to every landlord of its property.
func (wp *WorkerPool) notifySchedule(ctx context.Context, scheduleID int64) {
	schedule, err := wp.source.GetSchedule(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			wp.log.Info("schedule deleted before notification", zap.Int64("schedule_id", scheduleID))
		} else {
			wp.log.Error("error fetching schedule", zap.Int64("schedule_id", scheduleID), zap.Error(err))
		}
		return
	}
	if !schedule.NotificationsEnabled {
		return
	}

	subscriptions, err := wp.source.SubscriptionsForProperty(ctx, schedule.PropertyAppliance.PropertyID)
	if err != nil {
		wp.log.Error("error fetching subscriptions", zap.Int64("schedule_id", scheduleID), zap.Error(err))
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(Payload{
		Title:      "Appliance replacement scheduled",
		Body:       Message(schedule),
		ScheduleID: schedule.ID,
		URL:        fmt.Sprintf("/installations/%d/%d/", schedule.PropertyAppliance.PropertyID, schedule.PropertyAppliance.ApplianceID),
	})
	if err != nil {
		wp.log.Error("error encoding payload", zap.Error(err))
		return
	}

	wp.log.Info("sending notifications",
		zap.Int64("schedule_id", scheduleID),
		zap.Int("subscriptions", len(subscriptions)))
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		wp.sent.WithLabelValues("error").Inc()
		wp.log.Warn("error sending notification", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound:
		wp.sent.WithLabelValues("expired").Inc()
		wp.log.Info("subscription expired, deleting", zap.String("endpoint", sub.Endpoint))
		if err := wp.source.DeleteSubscription(ctx, sub.UserID, sub.Endpoint); err != nil && !errors.Is(err, store.ErrNotFound) {
			wp.log.Error("failed to delete expired subscription", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		}
	case resp.StatusCode >= 400:
		wp.sent.WithLabelValues("rejected").Inc()
		wp.log.Warn("push service rejected notification",
			zap.String("endpoint", sub.Endpoint), zap.Int("status", resp.StatusCode))
	default:
		wp.sent.WithLabelValues("sent").Inc()
	}
}
