package providers

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/wecarehhcs/homecare-api/config"
)

// EmailSender delivers transactional email.
type EmailSender interface {
	Send(toName, toEmail, subject, plainText, htmlBody string) error
}

type sendgridProvider struct {
	apiKey string
}

// NewEmailSender builds a SendGrid-backed email sender from the config.
func NewEmailSender(conf *config.Config) EmailSender {
	return &sendgridProvider{apiKey: conf.SendgridAPIKey}
}

func (p *sendgridProvider) Send(toName, toEmail, subject, plainText, htmlBody string) error {
	from := mail.NewEmail("WeCare Home Healthcare", "noreply@wecarehhcs.com")
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlBody)

	client := sendgrid.NewSendClient(p.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", response.StatusCode)
	}

	zap.S().Infow("email sent",
		"to", toEmail,
		"subject", subject,
	)
	return nil
}
