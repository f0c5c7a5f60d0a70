package notify

import (
	"fmt"
	"net/smtp"
	"strings"
)

// MailSink delivers notifications over SMTP via net/smtp, handing the
// message to a single MTA host. Delivery is best-effort; callers log
// failures and continue.
type MailSink struct {
	Host string // MTA host, e.g. "localhost"
	From string
	To   []string
}

// NewMailSink creates a MailSink targeting host, sending as "metasys"
// on the local machine to the given recipients.
func NewMailSink(host string, recipients []string) *MailSink {
	return &MailSink{Host: host, From: "metasys", To: recipients}
}

// Send delivers one message. If there are no recipients this is a
// no-op success, matching NoopSink's behavior for the empty-recipient
// case so callers don't need to special-case it.
func (m *MailSink) Send(subject, body string, html bool) error {
	if len(m.To) == 0 {
		return nil
	}

	contentType := "text/plain; charset=UTF-8"
	if html {
		contentType = "text/html; charset=UTF-8"
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.From)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(m.To, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "Content-Type: %s\r\n", contentType)
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := m.Host
	if !strings.Contains(addr, ":") {
		addr += ":25"
	}

	return smtp.SendMail(addr, nil, m.From, m.To, []byte(msg.String()))
}
