package consumerWorker

import (
	"context"
	"encoding/json"

	"github.com/wb-go/wbf/zlog"

	"davet/internal/dto"
	"davet/internal/mailer"
	"davet/internal/rabbit"
	"davet/internal/repo"
)

// Reader drains the response-recorded queue and mails the notification inbox.
type Reader struct {
	RMQ       *rabbit.Client
	repo      repo.Repository
	smtp      mailer.SMTPConfig
	recipient string
	done      chan struct{}
	cancel    context.CancelFunc
}

func NewReader(rmq *rabbit.Client, repo repo.Repository, smtp mailer.SMTPConfig, recipient string) *Reader {
	return &Reader{
		RMQ:       rmq,
		repo:      repo,
		smtp:      smtp,
		recipient: recipient,
		done:      make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	zlog.Logger.Info().Msg("response notification reader started")

	go func() {
		defer close(r.done)

		handler := func(body []byte) error {
			var msg dto.ResponseRecordedMessage
			if err := json.Unmarshal(body, &msg); err != nil {
				zlog.Logger.Error().
					Err(err).
					Msgf("failed to unmarshal message: %s", string(body))
				return err
			}

			zlog.Logger.Info().
				Int64("event_id", msg.EventID).
				Int("employee_id", msg.EmployeeID).
				Bool("attending", msg.Attending).
				Msg("received response message")

			event, err := r.repo.GetEventByID(cctx, msg.EventID)
			if err != nil {
				// Event deleted before the message was handled; drop it.
				zlog.Logger.Warn().
					Int64("event_id", msg.EventID).
					Msg("event no longer exists, skipping notification")
				return nil
			}

			employee, err := r.repo.GetEmployeeByID(cctx, msg.EmployeeID)
			if err != nil {
				zlog.Logger.Warn().
					Int("employee_id", msg.EmployeeID).
					Msg("employee no longer exists, skipping notification")
				return nil
			}

			if r.recipient == "" {
				return nil
			}

			if err := mailer.SendResponseNotification(
				&zlog.Logger,
				r.smtp,
				event.CompanyName,
				event.Date,
				employee.Name,
				msg.Attending,
				r.recipient,
			); err != nil {
				zlog.Logger.Warn().
					Err(err).
					Msg("failed to send notification e-mail")
			}

			return nil
		}

		if err := r.RMQ.Consume(handler); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to start consuming")
			return
		}

		<-cctx.Done()
		zlog.Logger.Info().Msg("response notification reader stopped by context")
	}()
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}
