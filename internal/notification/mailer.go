// Package notification emails payment link details to customers after a
// link is created. Delivery is best effort and fully decoupled from the
// request path: a dead SMTP server never fails a gateway operation.
package notification

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"text/template"
	"time"

	mail "gopkg.in/mail.v2"
)

type MailJob struct {
	To       string
	LinkName string
	ShortURL string
	Purpose  string
	Amount   string
}

type Worker struct {
	ID         int
	WorkerPool chan chan MailJob
	JobChannel chan MailJob
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan MailJob, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan MailJob),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(MailJob)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {

			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("worker sending mail", "worker_id", w.ID, "link_name", job.LinkName)
				processFunc(job)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

type Config struct {
	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
	FromAddress string
	FromName    string
	SendTimeout time.Duration

	MaxWorkers     int
	JobQueueSize   int
	WorkerPoolSize int
}

// Mailer owns the SMTP dialer and a small worker pool draining the mail
// queue. Enqueue never blocks; when the queue is full the mail is dropped
// and logged.
type Mailer struct {
	dialer   *mail.Dialer
	from     string
	fromName string
	timeout  time.Duration
	logger   *slog.Logger

	jobQueue   chan MailJob
	workerPool chan chan MailJob
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

const linkMailTemplate = `Hello,

A payment link has been created for you.

Link:    {{.LinkName}}
Purpose: {{.Purpose}}
{{if .Amount}}Amount:  ₹{{.Amount}}
{{end}}
Pay here: {{.ShortURL}}

Thank you.
`

var linkMailBody = template.Must(template.New("link_created").Parse(linkMailTemplate))

func NewMailer(config Config, logger *slog.Logger) *Mailer {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}

	workerPoolSize := config.WorkerPoolSize
	if workerPoolSize <= 0 {
		workerPoolSize = maxWorkers
	}

	timeout := config.SendTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	dialer := mail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPass)
	dialer.Timeout = timeout

	m := &Mailer{
		dialer:   dialer,
		from:     config.FromAddress,
		fromName: config.FromName,
		timeout:  timeout,
		logger:   logger,

		maxWorkers: maxWorkers,
		jobQueue:   make(chan MailJob, jobQueueSize),
		workerPool: make(chan chan MailJob, workerPoolSize),
		ctx:        ctx,
		cancel:     cancel,
	}

	m.startWorkerPool()

	return m
}

func (m *Mailer) startWorkerPool() {
	m.once.Do(func() {

		for i := 0; i < m.maxWorkers; i++ {
			worker := NewWorker(i, m.workerPool, m.logger)
			worker.Start(m.ctx, &m.wg, m.sendMailJob)
		}

		go m.dispatch()

		m.logger.Info("notification worker pool started",
			"max_workers", m.maxWorkers,
			"queue_size", cap(m.jobQueue))
	})
}

func (m *Mailer) dispatch() {
	m.wg.Add(1)
	defer m.wg.Done()

	for {
		select {
		case job := <-m.jobQueue:

			select {
			case jobChannel := <-m.workerPool:

				select {
				case jobChannel <- job:

				case <-m.ctx.Done():
					m.logger.Info("mail dispatcher shutting down")
					return
				}
			case <-m.ctx.Done():
				m.logger.Info("mail dispatcher shutting down")
				return
			}
		case <-m.ctx.Done():
			m.logger.Info("mail dispatcher shutting down")
			return
		}
	}
}

func (m *Mailer) Shutdown() {
	m.logger.Info("shutting down mailer")
	m.cancel()
	m.wg.Wait()
	m.logger.Info("mailer shutdown complete")
}

// Enqueue queues a link notification for delivery. Returns an error only
// when the queue is full; callers treat that as a logged non-event.
func (m *Mailer) Enqueue(job MailJob) error {
	if job.To == "" {
		return fmt.Errorf("mail job has no recipient")
	}

	select {
	case m.jobQueue <- job:
		m.logger.Debug("mail job queued",
			"link_name", job.LinkName,
			"queue_length", len(m.jobQueue))
		return nil
	default:
		m.logger.Warn("mail queue full, dropping notification",
			"link_name", job.LinkName,
			"queue_capacity", cap(m.jobQueue))
		return fmt.Errorf("mail queue full")
	}
}

func (m *Mailer) sendMailJob(job MailJob) {
	var body bytes.Buffer
	if err := linkMailBody.Execute(&body, job); err != nil {
		m.logger.Error("failed to render mail body", "error", err)
		return
	}

	msg := mail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.fromName)
	msg.SetHeader("To", job.To)
	msg.SetHeader("Subject", fmt.Sprintf("Payment link: %s", job.Purpose))
	msg.SetBody("text/plain", body.String())

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("failed to send mail",
			"link_name", job.LinkName,
			"error", err)
		return
	}

	m.logger.Info("link notification sent", "link_name", job.LinkName)
}
