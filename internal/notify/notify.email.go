package notify

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"wiktowice_site/config"
)

// EmailRelay gửi thông báo lỗi tới email của admin qua SMTP
type EmailRelay struct {
	From    string
	To      string
	Subject string
	dialer  *gomail.Dialer
}

// NewEmailRelay tạo relay từ cấu hình, trả về nil nếu SMTP chưa được cấu hình
func NewEmailRelay(c *config.Configuration) *EmailRelay {
	if c == nil || !c.SMTPEnabled() {
		return nil
	}
	return &EmailRelay{
		From:    c.SMTP_From,
		To:      c.AlertEmail,
		Subject: "[Wiktowice] Błąd panelu administracyjnego",
		dialer:  gomail.NewDialer(c.SMTP_Host, c.SMTP_Port, c.SMTP_Username, c.SMTP_Password),
	}
}

// BuildMessage dựng email cho thông báo
func (r *EmailRelay) BuildMessage(n Notification) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", r.From)
	msg.SetHeader("To", r.To)
	msg.SetHeader("Subject", r.Subject)
	msg.SetBody("text/plain", fmt.Sprintf("%s\n\n[%s] %s", n.Message, n.Level, n.CreatedAt.Format("2006-01-02 15:04:05")))
	return msg
}

// Relay gửi email
func (r *EmailRelay) Relay(n Notification) error {
	return r.dialer.DialAndSend(r.BuildMessage(n))
}
