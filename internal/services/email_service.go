package services

import (
	"fmt"
	"os"

	"mysre-api/internal/logger"
	"mysre-api/internal/models"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

type EmailService interface {
	SendWelcomeEmail(user *models.User) error
	SendLowBalanceAlert(user *models.User, remainingBalance int64) error
}

type sendgridEmailService struct {
	apiKey      string
	senderEmail string
	senderName  string
}

func NewEmailService() EmailService {
	return &sendgridEmailService{
		apiKey:      os.Getenv("SENDGRID_API_KEY"),
		senderEmail: os.Getenv("SENDER_EMAIL"),
		senderName:  os.Getenv("SENDER_NAME"),
	}
}

func (s *sendgridEmailService) SendWelcomeEmail(user *models.User) error {
	subject := "Welcome to MySRE"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour MySRE account is ready. Your %s plan includes %d tokens per month.\n",
		user.Name, user.Tier, user.MonthlyTokenLimit,
	)
	return s.send(user, subject, body)
}

func (s *sendgridEmailService) SendLowBalanceAlert(user *models.User, remainingBalance int64) error {
	subject := "Your MySRE token balance is running low"
	body := fmt.Sprintf(
		"Hi %s,\n\nYou have %d tokens left this month. Top up or wait for your monthly reset to keep using AI features.\n",
		user.Name, remainingBalance,
	)
	return s.send(user, subject, body)
}

func (s *sendgridEmailService) send(user *models.User, subject, body string) error {
	if s.apiKey == "" {
		// Mail is optional in development; log instead of failing the caller
		logger.LogEvent(logrus.InfoLevel, "Email skipped, SENDGRID_API_KEY not set", logrus.Fields{
			"to":      user.Email,
			"subject": subject,
		})
		return nil
	}

	from := mail.NewEmail(s.senderName, s.senderEmail)
	to := mail.NewEmail(user.Name, user.Email)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	client := sendgrid.NewSendClient(s.apiKey)
	resp, err := client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}
