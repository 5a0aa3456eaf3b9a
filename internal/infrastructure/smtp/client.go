package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"

	"github.com/cheyennechau/Cowlendar-backend/internal/config"
	"github.com/cheyennechau/Cowlendar-backend/internal/domain/entity"

	"gopkg.in/gomail.v2"
)

// Client sends the evening digest email over SMTP
type Client struct {
	cfg  *config.SMTPConfig
	tmpl *template.Template
}

// NewClient creates a new SMTP client
func NewClient(cfg *config.SMTPConfig) (*Client, error) {
	tmpl, err := template.New("digest").Parse(defaultDigestTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse digest template: %w", err)
	}

	return &Client{
		cfg:  cfg,
		tmpl: tmpl,
	}, nil
}

// SendDigestEmail sends the evening digest with the day's summary and the
// recent percentage history.
func (c *Client) SendDigestEmail(ctx context.Context, to string, summary *entity.DaySummary, history []int32) error {
	data := map[string]interface{}{
		"Day":             summary.Day,
		"PercentDone":     summary.PercentDone,
		"Mood":            string(summary.Mood),
		"Message":         summary.Message,
		"MilkPoints":      summary.MilkPoints,
		"TotalEvents":     summary.TotalEvents,
		"CompletedEvents": summary.CompletedEvents,
		"History":         history,
	}

	var buf bytes.Buffer
	if err := c.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render digest email: %w", err)
	}

	subject := fmt.Sprintf("Your Cowlendar Digest - %s", summary.Day)
	return c.send(to, subject, buf.String())
}

// send sends an email using gomail
func (c *Client) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", c.cfg.FromName, c.cfg.FromEmail))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(c.cfg.Host, c.cfg.Port, c.cfg.Username, c.cfg.Password)

	// UseTLS = true means STARTTLS (port 587), false means SSL (port 465)
	if c.cfg.UseTLS {
		d.SSL = false
		d.TLSConfig = &tls.Config{
			ServerName: c.cfg.Host,
		}
	} else {
		d.SSL = true
		d.TLSConfig = &tls.Config{
			ServerName: c.cfg.Host,
		}
	}

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

const defaultDigestTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Cowlendar Digest</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #4CAF50;">Your Day at a Glance 🐮</h2>
        <p><strong>{{.Day}}</strong></p>
        <p style="font-size: 18px;">{{.Message}}</p>
        <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0;">
            <p style="margin: 0;"><strong>Completion:</strong> {{.PercentDone}}% ({{.CompletedEvents}}/{{.TotalEvents}} events)</p>
            <p style="margin: 0;"><strong>Mood:</strong> {{.Mood}}</p>
            <p style="margin: 0;"><strong>Milk points:</strong> {{.MilkPoints}} 🥛</p>
        </div>
        {{if .History}}
        <p><strong>Last days:</strong>
        {{range .History}}{{.}}% {{end}}
        </p>
        {{end}}
        <hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">
        <p style="color: #999; font-size: 12px;">This is an automated email, please do not reply.</p>
    </div>
</body>
</html>
`
