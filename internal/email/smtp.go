package email

import (
	"bytes"
	"fmt"
	"log"
	"net/smtp"
	"strconv"
	"text/template"
)

type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	FromName string
	FromAddr string
}

// PortFromString parses the SMTP port env value, 0 on failure.
func PortFromString(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func (c *Config) Send(to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("empty email recipient")
	}
	if c.Host == "" {
		return fmt.Errorf("SMTP host not configured")
	}
	if c.FromAddr == "" {
		return fmt.Errorf("SMTP sender not configured")
	}
	port := c.Port
	if port == 0 {
		port = 25
	}
	addr := fmt.Sprintf("%s:%d", c.Host, port)
	from := c.FromAddr
	if c.FromName != "" {
		from = fmt.Sprintf("%s <%s>", c.FromName, c.FromAddr)
	}
	headers := map[string]string{
		"From":         from,
		"To":           to,
		"Subject":      subject,
		"Content-Type": "text/plain; charset=UTF-8",
	}
	var buf bytes.Buffer
	for k, v := range headers {
		buf.WriteString(k + ": " + v + "\r\n")
	}
	buf.WriteString("\r\n")
	buf.WriteString(body)
	if err := smtp.SendMail(addr, c.authForSend(), c.FromAddr, []string{to}, buf.Bytes()); err != nil {
		log.Printf("[email] send to %s subject=%q failed: %v", to, subject, err)
		return err
	}
	log.Printf("[email] sent to %s subject=%q", to, subject)
	return nil
}

// authForSend returns nil when User is empty (e.g. MailHog), so no AUTH is sent.
func (c *Config) authForSend() smtp.Auth {
	if c.User != "" {
		return smtp.PlainAuth("", c.User, c.Pass, c.Host)
	}
	return nil
}

// SendAppointmentReminder mails the next-day reminder when the patient has
// no WhatsApp-capable phone.
func (c *Config) SendAppointmentReminder(to, patientName, dateStr, timeStr string) error {
	if to == "" {
		return fmt.Errorf("empty email recipient")
	}
	tpl := `Bonjour {{.Name}},

Nous vous rappelons votre rendez-vous au cabinet dentaire demain ({{.Date}}) à {{.Time}}.

Merci de nous prévenir en cas d'empêchement.`
	t, err := template.New("").Parse(tpl)
	if err != nil {
		return err
	}
	var body bytes.Buffer
	if err := t.Execute(&body, map[string]string{"Name": patientName, "Date": dateStr, "Time": timeStr}); err != nil {
		return err
	}
	return c.Send(to, "Rappel de rendez-vous", body.String())
}

// LogConfigSummary logs where email is going without exposing credentials.
func (c *Config) LogConfigSummary() {
	auth := "no auth"
	if c.User != "" {
		auth = "auth enabled"
	}
	log.Printf("[email] SMTP %s:%d (%s), from=%s", c.Host, c.Port, auth, c.FromAddr)
}
