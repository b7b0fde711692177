package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"

	"davet/internal/attendance"
)

type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Password string
}

// SendResponseNotification tells the configured recipient (typically the
// office admin inbox) that an employee updated their answer for a visit.
func SendResponseNotification(log *zerolog.Logger, cfg SMTPConfig, companyName, date, employeeName string, attending bool, recipient string) error {
	status := attendance.StatusNotAttending
	if attending {
		status = attendance.StatusAttending
	}

	subject := fmt.Sprintf("Davet yanıtı: %s - %s", companyName, date)
	body := fmt.Sprintf("Merhaba,\n\n%s, «%s - %s» ziyareti için yanıtını güncelledi: %s.\n",
		employeeName, companyName, date, status)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		cfg.From, recipient, subject, body,
	)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	auth := smtp.PlainAuth("", cfg.From, cfg.Password, cfg.Host)

	if err := smtp.SendMail(addr, auth, cfg.From, []string{recipient}, []byte(msg)); err != nil {
		log.Warn().Msgf("failed to send notification to %s: %v", recipient, err)
		return fmt.Errorf("send email: %w", err)
	}

	log.Info().Msgf("notification sent to %s (%s: %s)", recipient, employeeName, status)
	return nil
}
