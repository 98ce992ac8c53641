package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/smtp"
	"time"

	"github.com/redis/go-redis/v9"

	"shawedgym/internal/logger"
	"shawedgym/internal/metrics"
)

const (
	queueKey       = "emails"
	failedQueueKey = "emails:failed"
	maxTries       = 3

	TypeGymReady     = "gym_ready"
	TypeQuotaWarning = "quota_warning"
)

type Job struct {
	Type    string    `json:"type"`
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Config struct {
	From      string
	FromName  string
	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
	RedisAddr string
}

// Service queues notification emails in Redis and delivers them from a
// background worker. Queueing never blocks on SMTP.
type Service struct {
	redis      *redis.Client
	cfg        Config
	send       func(job Job) error
	retryDelay time.Duration
	popTimeout time.Duration
}

func New(cfg Config) *Service {
	s := &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		}),
		cfg:        cfg,
		retryDelay: 5 * time.Second,
		popTimeout: 2 * time.Second,
	}
	s.send = s.sendSMTP
	return s
}

func (s *Service) enqueue(ctx context.Context, job Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal email job: %w", err)
	}

	n, err := s.redis.LPush(ctx, queueKey, string(data)).Result()
	if err != nil {
		return fmt.Errorf("queue email to %s: %w", job.To, err)
	}
	metrics.SetEmailQueueLength(n)
	return nil
}

func (s *Service) Send(ctx context.Context, emailType, to, subject, body string) error {
	if to == "" {
		return errors.New("email recipient is empty")
	}

	err := s.enqueue(ctx, Job{
		Type:    emailType,
		To:      to,
		Subject: subject,
		Body:    body,
		Created: time.Now(),
	})
	if err != nil {
		metrics.RecordEmail(emailType, "queue_failed")
		return err
	}

	logger.Info("email queued", "type", emailType, "to", to)
	return nil
}

// Start consumes the queue until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, s.popTimeout, queueKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			logger.Error("email queue read failed", "error", err)
			s.wait(ctx, time.Second)
		}
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("dropping malformed email job", "error", err)
		return
	}

	job.Tries++
	if err := s.send(job); err != nil {
		logger.Error("email delivery failed", "type", job.Type, "to", job.To, "attempt", job.Tries, "error", err)

		if job.Tries < maxTries {
			s.wait(ctx, s.retryDelay)
			if err := s.enqueue(context.WithoutCancel(ctx), job); err != nil {
				logger.Error("failed to requeue email", "to", job.To, "error", err)
			}
			return
		}

		metrics.RecordEmail(job.Type, "failed")
		s.saveFailed(ctx, job, err)
		return
	}

	metrics.RecordEmail(job.Type, "sent")
	logger.Info("email sent", "type", job.Type, "to", job.To)
}

func (s *Service) wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (s *Service) sendSMTP(job Job) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, s.cfg.From)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.cfg.SMTPUser != "" && s.cfg.SMTPPass != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
	}

	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort
	return smtp.SendMail(addr, auth, s.cfg.From, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(ctx context.Context, job Job, cause error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": cause.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	if err := s.redis.LPush(context.WithoutCancel(ctx), failedQueueKey, string(data)).Err(); err != nil {
		logger.Error("failed to store undeliverable email", "to", job.To, "error", err)
		return
	}
	logger.Warn("email moved to failed queue", "type", job.Type, "to", job.To)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, err := s.redis.LLen(ctx, queueKey).Result()
	if err != nil {
		return 0
	}
	metrics.SetEmailQueueLength(length)
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}

func (s *Service) SendGymReady(ctx context.Context, to, gymName, planName string) error {
	subject := "Your gym " + gymName + " is ready"
	body := fmt.Sprintf(`Hello,

Your gym "%s" has been set up on the %s plan.

You can start adding members right away.

- ShawedGym`, gymName, planName)

	return s.Send(ctx, TypeGymReady, to, subject, body)
}

func (s *Service) SendQuotaWarning(ctx context.Context, to, gymName string, active, limit int) error {
	subject := "Member limit nearly reached - " + gymName
	if active >= limit {
		subject = "Member limit reached - " + gymName
	}
	body := fmt.Sprintf(`Hello,

"%s" now has %d active members out of the %d allowed by its plan.

Upgrade the subscription to keep admitting new members.

- ShawedGym`, gymName, active, limit)

	return s.Send(ctx, TypeQuotaWarning, to, subject, body)
}
