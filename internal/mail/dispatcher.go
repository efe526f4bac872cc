package mail

import (
	"context"
	"sync"
	"time"

	"contacts_api/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusDropped = "dropped"

	sendTimeout = 30 * time.Second
)

// EmailsTotal counts outbound emails by template and outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var EmailsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "contacts_api_emails_total",
		Help: "Total number of outbound emails by template and status",
	},
	[]string{"template", "status"},
)

// RegisterMetrics registers mail metrics with the given Prometheus registry
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(EmailsTotal)
}

// Dispatcher renders and queues emails for background delivery by a fixed pool of workers.
// Enqueueing never blocks: when the queue is full the message is dropped and logged.
type Dispatcher struct {
	renderer *Renderer
	sender   Sender
	queue    chan Message
	workers  int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// NewDispatcher creates a new Dispatcher. Call Start before use and Stop on shutdown.
func NewDispatcher(renderer *Renderer, sender Sender, workers, queueSize int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		renderer: renderer,
		sender:   sender,
		queue:    make(chan Message, queueSize),
		workers:  workers,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the delivery workers
func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
	logger.Info("mail dispatcher started", zap.Int("workers", d.workers), zap.Int("queue_size", cap(d.queue)))
}

// Stop drains the queue and waits for the workers to finish
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	d.cancel()
	logger.Info("mail dispatcher stopped")
}

// SendConfirmation queues the email confirmation message
func (d *Dispatcher) SendConfirmation(to, username, token string) {
	msg, err := d.renderer.Confirmation(to, username, token)
	if err != nil {
		logger.Error("failed to render confirmation email", zap.String("to", to), zap.Error(err))
		return
	}
	d.enqueue(msg)
}

// SendPasswordReset queues the password reset message
func (d *Dispatcher) SendPasswordReset(to, username, token string) {
	msg, err := d.renderer.PasswordReset(to, username, token)
	if err != nil {
		logger.Error("failed to render password reset email", zap.String("to", to), zap.Error(err))
		return
	}
	d.enqueue(msg)
}

func (d *Dispatcher) enqueue(msg Message) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		EmailsTotal.WithLabelValues(msg.Template, StatusDropped).Inc()
		logger.Warn("mail dispatcher stopped, dropping email", zap.String("to", msg.To))
		return
	}

	select {
	case d.queue <- msg:
	default:
		EmailsTotal.WithLabelValues(msg.Template, StatusDropped).Inc()
		logger.Warn("mail queue full, dropping email", zap.String("to", msg.To), zap.String("template", msg.Template))
	}
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(d.ctx, sendTimeout)
		err := d.sender.Send(ctx, msg)
		cancel()

		if err != nil {
			EmailsTotal.WithLabelValues(msg.Template, StatusFailed).Inc()
			logger.Error("failed to deliver email",
				zap.Int("worker", id),
				zap.String("to", msg.To),
				zap.String("template", msg.Template),
				zap.Error(err))
			continue
		}
		EmailsTotal.WithLabelValues(msg.Template, StatusSent).Inc()
		logger.Debug("email delivered", zap.String("to", msg.To), zap.String("template", msg.Template))
	}
}
