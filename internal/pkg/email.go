package pkg

import (
	"crypto/tls"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer 通知邮件发送
type Mailer struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewMailer(cfg SMTPConfig) *Mailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	return &Mailer{cfg: cfg, dialer: d}
}

func (m *Mailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return m.dialer.DialAndSend(msg)
}

// NotificationHTML 通知正文，message 来自用户输入需要转义
func NotificationHTML(message, link string) string {
	return fmt.Sprintf(`<p>%s</p><p><a href="%s">traubling で確認する</a></p>`,
		html.EscapeString(message), html.EscapeString(link))
}
