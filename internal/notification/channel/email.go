package channel

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"code-review-pipeline/internal/model"
)

const defaultFrom = "noreply@example.com"

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type email struct {
	smtp     SMTPConfig
	from     string
	to       []string
	cc       []string
	sendMail sendMailFunc
}

func newEmail(ch model.NotificationChannel, cfg SMTPConfig) (Adapter, error) {
	to := ch.ConfigStrings("to")
	if len(to) == 0 {
		return nil, &model.ConfigError{Field: "email.to"}
	}
	if cfg.Host == "" {
		return nil, &model.ConfigError{Field: "notification.smtp.host"}
	}
	from := ch.ConfigString("from")
	if from == "" {
		from = cfg.From
	}
	if from == "" {
		from = defaultFrom
	}
	return &email{smtp: cfg, from: from, to: to, cc: ch.ConfigStrings("cc"), sendMail: smtp.SendMail}, nil
}

func (*email) sealed()                 {}
func (*email) Type() model.ChannelType { return model.ChannelEmail }

func (a *email) Send(ctx context.Context, msg Message) (Receipt, error) {
	raw, err := a.compose(msg)
	if err != nil {
		return Receipt{}, err
	}

	port := a.smtp.Port
	if port == 0 {
		port = 587
	}
	addr := net.JoinHostPort(a.smtp.Host, strconv.Itoa(port))
	var auth smtp.Auth
	if a.smtp.Username != "" {
		auth = smtp.PlainAuth("", a.smtp.Username, a.smtp.Password, a.smtp.Host)
	}
	rcpt := append(append([]string{}, a.to...), a.cc...)

	// net/smtp has no context support; run it aside and stop waiting on cancel.
	done := make(chan error, 1)
	go func() { done <- a.sendMail(addr, auth, a.from, rcpt, raw) }()
	select {
	case err := <-done:
		if err != nil {
			return Receipt{}, &model.ExternalCallError{Op: "smtp.send", Err: err}
		}
	case <-ctx.Done():
		return Receipt{}, ctx.Err()
	}
	return Receipt{
		Message: fmt.Sprintf("email sent to %d recipients", len(rcpt)),
		Details: map[string]any{"recipient_count": len(rcpt)},
	}, nil
}

func (a *email) compose(msg Message) ([]byte, error) {
	at := msg.Time
	if at.IsZero() {
		at = time.Now()
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", a.from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(a.to, ", "))
	if len(a.cc) > 0 {
		fmt.Fprintf(&b, "Cc: %s\r\n", strings.Join(a.cc, ", "))
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", at.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mw.Boundary())

	plain, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/plain; charset=utf-8"}})
	if err != nil {
		return nil, err
	}
	if _, err := plain.Write([]byte(msg.Body)); err != nil {
		return nil, err
	}

	htmlPart, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/html; charset=utf-8"}})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(htmlPart, `<html><body>
<h2>🤖 AI Code Review Report</h2>
<p><strong>Project:</strong> %s</p>
<p><strong>MR:</strong> %s</p>
<p><strong>Time:</strong> %s</p>
<hr>
<pre style="white-space: pre-wrap; font-family: monospace;">%s</pre>
<hr>
<p><small>Sent automatically by the code review pipeline.</small></p>
</body></html>`,
		html.EscapeString(msg.ProjectName), html.EscapeString(msg.ChangeTitle),
		at.Format(timeLayout), html.EscapeString(msg.Body))

	if err := mw.Close(); err != nil {
		return nil, err
	}
	b.Write(body.Bytes())
	return b.Bytes(), nil
}
