package mailer

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"math/rand"
	"mime"
	"net"
	"net/smtp"
	"time"

	"github.com/inkpress-dev/inkpress/internal/config"
)

// Mailer delivers newsletter issues and confirmation emails over SMTP.
type Mailer struct {
	config *config.Smtp
	auth   smtp.Auth
	log    *slog.Logger
}

func New(config *config.Smtp, log *slog.Logger) *Mailer {
	auth := smtp.PlainAuth("", config.Username, config.Password, config.Server)
	return &Mailer{
		config: config,
		auth:   auth,
		log:    log,
	}
}

// Send delivers a single email with both an html and a plain-text body
// (multipart/alternative). Any returned error means the message may not have
// reached the recipient.
func (m *Mailer) Send(recipientEmail, subject, htmlBody, textBody string) error {
	msg := m.buildMessage(recipientEmail, subject, htmlBody, textBody)
	address := fmt.Sprintf("%s:%d", m.config.Server, m.config.Port)

	// Port 465 = implicit TLS, otherwise STARTTLS
	if m.config.Port == 465 {
		return m.sendImplicitTLS(address, recipientEmail, msg)
	}
	return m.sendSTARTTLS(address, recipientEmail, msg)
}

func (m *Mailer) timeout() time.Duration {
	timeout := time.Duration(m.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return timeout
}

// sendImplicitTLS sends email over a connection that is TLS from the start (port 465).
func (m *Mailer) sendImplicitTLS(address, recipientEmail string, msg []byte) error {
	tlsConfig := &tls.Config{ServerName: m.config.Server}

	conn, err := tls.DialWithDialer(&net.Dialer{Timeout: m.timeout()}, "tcp", address, tlsConfig)
	if err != nil {
		m.log.Error("failed to connect to SMTP server (implicit TLS)", "address", address, "error", err)
		return err
	}
	defer conn.Close()

	return m.sendOverConn(conn, recipientEmail, msg)
}

// sendSTARTTLS sends email by upgrading a plain connection to TLS (port 587).
func (m *Mailer) sendSTARTTLS(address, recipientEmail string, msg []byte) error {
	conn, err := net.DialTimeout("tcp", address, m.timeout())
	if err != nil {
		m.log.Error("failed to connect to SMTP server", "address", address, "error", err)
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.config.Server)
	if err != nil {
		m.log.Error("failed to create SMTP client", "error", err)
		return err
	}
	defer client.Close()

	tlsConfig := &tls.Config{ServerName: m.config.Server}
	if err = client.StartTLS(tlsConfig); err != nil {
		m.log.Error("failed to start TLS", "error", err)
		return err
	}

	return m.sendViaClient(client, recipientEmail, msg)
}

// sendOverConn creates an SMTP client from an existing connection and sends the message.
func (m *Mailer) sendOverConn(conn net.Conn, recipientEmail string, msg []byte) error {
	client, err := smtp.NewClient(conn, m.config.Server)
	if err != nil {
		m.log.Error("failed to create SMTP client", "error", err)
		return err
	}
	defer client.Close()

	return m.sendViaClient(client, recipientEmail, msg)
}

// sendViaClient performs auth, sets sender/recipient, and sends the message body.
func (m *Mailer) sendViaClient(client *smtp.Client, recipientEmail string, msg []byte) error {
	if err := client.Auth(m.auth); err != nil {
		m.log.Error("SMTP authentication failed", "error", err)
		return err
	}

	if err := client.Mail(m.config.Username); err != nil {
		m.log.Error("failed to set sender", "error", err)
		return err
	}

	if err := client.Rcpt(recipientEmail); err != nil {
		m.log.Error("failed to set recipient", "recipient", recipientEmail, "error", err)
		return err
	}

	w, err := client.Data()
	if err != nil {
		m.log.Error("failed to get data writer", "error", err)
		return err
	}

	if _, err = w.Write(msg); err != nil {
		m.log.Error("failed to write message", "error", err)
		return err
	}

	if err = w.Close(); err != nil {
		m.log.Error("failed to close data writer", "error", err)
		return err
	}

	return client.Quit()
}

func generateMessageID(domain string) string {
	t := time.Now().UnixNano()
	pid := rand.Int63()
	return fmt.Sprintf("<%d.%d@%s>", t, pid, domain)
}

func (m *Mailer) buildMessage(recipient, subject, htmlBody, textBody string) []byte {
	encodedSubject := mime.QEncoding.Encode("utf-8", subject)
	encodedSenderName := mime.QEncoding.Encode("utf-8", m.config.SenderName)

	msgID := generateMessageID(m.config.Server)
	date := time.Now().Format(time.RFC1123Z)

	// multipart/alternative: text part first, html part last (preferred)
	const boundary = "=_inkpress_alt"

	return fmt.Appendf(nil,
		"Message-ID: %s\r\n"+
			"Date: %s\r\n"+
			"To: %s\r\n"+
			"From: %s <%s>\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: multipart/alternative; boundary=\"%s\"\r\n"+
			"\r\n"+
			"--%s\r\n"+
			"Content-Type: text/plain; charset=\"utf-8\"\r\n"+
			"\r\n"+
			"%s\r\n"+
			"--%s\r\n"+
			"Content-Type: text/html; charset=\"utf-8\"\r\n"+
			"\r\n"+
			"%s\r\n"+
			"--%s--\r\n",
		msgID, date, recipient, encodedSenderName, m.config.Username, encodedSubject,
		boundary, boundary, textBody, boundary, htmlBody, boundary,
	)
}
