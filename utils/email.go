package utils

import (
	"gopkg.in/gomail.v2"
)

func SendEmail(to, subject, body, smtpHost string, smtpPort int, smtpUser, smtpPass string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if smtpPort == 0 {
		smtpPort = 587
	}
	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	return d.DialAndSend(m)
}
