package service

import (
	"crypto/tls"
	"fmt"
	"log"

	gomail "gopkg.in/gomail.v2"
)

// MailerConfig - SMTP-параметры одной отправки. Значение собирается из
// smtp_settings конкретного администратора на каждый вызов; глобального
// мутируемого состояния почты нет.
type MailerConfig struct {
	Host     string
	Port     int
	Secure   bool
	Username string
	Password string
	FromName string
}

// Valid сообщает, достаточно ли параметров для отправки
func (c MailerConfig) Valid() bool {
	return c.Host != "" && c.Port != 0 && c.Username != ""
}

// Mailer отправляет транзакционные письма
type Mailer interface {
	Send(cfg MailerConfig, to, subject, htmlBody string) error
}

// NoopMailer используется в тестах и при выключенной почте
type NoopMailer struct{}

func (m *NoopMailer) Send(cfg MailerConfig, to, subject, htmlBody string) error {
	log.Printf("[Mailer] noop send to=%s subject=%q", to, subject)
	return nil
}

// SMTPMailer отправляет письма напрямую через SMTP-сервер администратора
type SMTPMailer struct{}

// NewSMTPMailer создает SMTP-отправитель
func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{}
}

// Send отправляет одно письмо. Каждый вызов открывает соединение заново:
// у разных администраторов разные SMTP-учетки, держать пул нечем.
func (m *SMTPMailer) Send(cfg MailerConfig, to, subject, htmlBody string) error {
	if !cfg.Valid() {
		return fmt.Errorf("smtp settings are incomplete")
	}
	if to == "" {
		return fmt.Errorf("recipient address is required")
	}

	from := cfg.Username
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.Username)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	// Порт 465 - implicit TLS; иначе STARTTLS при поддержке сервером
	dialer.SSL = cfg.Secure || cfg.Port == 465
	dialer.TLSConfig = &tls.Config{ServerName: cfg.Host}

	if err := dialer.DialAndSend(msg); err != nil {
		log.Printf("[Mailer] Ошибка отправки письма to=%s host=%s: %v", to, cfg.Host, err)
		return err
	}
	return nil
}
