// utils/email.go
package utils

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/gomail.v2"
)

func smtpDialer() (*gomail.Dialer, string, error) {
	host := os.Getenv("SMTP_HOST")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	if host == "" || user == "" {
		return nil, "", fmt.Errorf("SMTP is not configured")
	}
	port := 587
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &port)
	}
	return gomail.NewDialer(host, port, user, pass), user, nil
}

// SendTempPasswordEmail mails a newly provisioned vendor their credentials.
func SendTempPasswordEmail(to, name, tempPassword string) error {
	d, from, err := smtpDialer()
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your CashTrack account")
	m.SetBody("text/plain", fmt.Sprintf(
		"Dear %s,\n\nYour CashTrack vendor account has been created.\n\nEmail: %s\nTemporary password: %s\n\nPlease log in and change your password.\n\nBest regards,\nCashTrack", name, to, tempPassword))

	if err := d.DialAndSend(m); err != nil {
		log.Printf("Failed to send account email to %s: %v", to, err)
		return err
	}
	return nil
}

// SendPasswordResetEmail mails a reset token for the forgot-password flow.
func SendPasswordResetEmail(to, name, token string) error {
	d, from, err := smtpDialer()
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "CashTrack password reset")
	m.SetBody("text/plain", fmt.Sprintf(
		"Dear %s,\n\nUse this code to reset your password: %s\n\nThe code expires in one hour. If you did not request a reset, ignore this email.\n\nBest regards,\nCashTrack", name, token))

	if err := d.DialAndSend(m); err != nil {
		log.Printf("Failed to send reset email to %s: %v", to, err)
		return err
	}
	return nil
}
