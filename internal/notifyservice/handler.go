package notifyservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"time"

	"github.com/netatlas/contenthub/internal/common"
)

func NewNotifyService(mb common.MessageConsumer, host, username, password, sender string, port int, logger *slog.Logger) *NotifyService {
	ctx, cancel := context.WithCancel(context.Background())
	return &NotifyService{
		mb:     mb,
		m:      NewMailer(host, port, username, password, sender, NewTemplate()),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// SendDecisionEmails consumes moderation decisions and mails each post's
// author the outcome. Send failures are retried with exponential backoff
// and jitter before the message is acknowledged and dropped.
func (s *NotifyService) SendDecisionEmails() {
	msgs, err := s.mb.Consume(common.BlogDecidedKey, common.BlogExchange, common.BlogDecidedQueue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("error", err.Error()))
		return
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				var data struct {
					Email  string `json:"email"`
					Title  string `json:"title"`
					Status string `json:"status"`
					Note   string `json:"note"`
				}

				err := json.Unmarshal(msg.Body, &data)
				if err != nil {
					s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
					continue
				}

				payload := struct {
					Title  string
					Status string
					Note   string
				}{
					Title:  data.Title,
					Status: data.Status,
					Note:   data.Note,
				}

				const maxRetries = 5
				const baseDelay = 500 * time.Millisecond

				var attempt int
				for attempt = 0; attempt < maxRetries; attempt++ {
					err = s.m.send(data.Email, payload, "decision_email.html")
					if err == nil {
						s.logger.Info("decision email sent", slog.String("email", data.Email), slog.String("status", data.Status))
						msg.Ack(false)
						break
					}

					delay := time.Duration(rand.Int63n(int64(baseDelay) << uint(attempt)))
					s.logger.Info("delaying decision email", slog.String("email", data.Email), slog.Int("attempt", attempt), slog.Duration("delay", delay))
					time.Sleep(delay)
				}

				if attempt == maxRetries {
					s.logger.Error("could not send decision email", slog.String("email", data.Email))
					msg.Ack(false)
				}

			case <-s.ctx.Done():
				s.logger.Info("stopping SendDecisionEmails due to context cancellation")
				return
			}
		}
	}()
}

func (s *NotifyService) Close() {
	s.cancel()
}
