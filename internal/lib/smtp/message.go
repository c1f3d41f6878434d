package smtp

import (
	"fmt"
	"mime"
	"strings"
)

// Message письмо в формате text/plain.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Bytes собирает заголовки и тело письма. Тема кодируется по RFC 2047,
// чтобы не терять испанские символы.
func (m Message) Bytes(from string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", m.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", m.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(m.Body, "\n", "\r\n"))
	return []byte(b.String())
}

// Send передает письмо через открытое соединение и закрывает его.
func Send(transport TransportInterface, msg Message) error {
	const op = "smtp.Send"
	client, err := transport.Connect()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = client.Close() }()

	from := transport.GetSMTPUser()
	if err = client.Mail(from); err != nil {
		return fmt.Errorf("%s: mail: %w", op, err)
	}
	if err = client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("%s: rcpt: %w", op, err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("%s: data: %w", op, err)
	}
	if _, err = w.Write(msg.Bytes(from)); err != nil {
		_ = w.Close()
		return fmt.Errorf("%s: write: %w", op, err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("%s: close data: %w", op, err)
	}
	return client.Quit()
}
