package services

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"
)

// MailSender delivers direct SMTP notices. The CRM already emails investors
// when the verification flag flips; this covers deployments that want a
// notice from us as well. Nil sender means SMTP is not configured.
type MailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func NewMailSender(host string, port int, user, password string) *MailSender {
	return &MailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     "no-reply@worldmotoclash.com",
	}
}

var ipMismatchTemplate = template.Must(template.New("ip_mismatch").Parse(
	`Hello {{.Name}},

A sign-in to your World Moto Clash investor account was attempted from a
new location:

    IP address: {{.IP}}
    Location:   {{.City}}, {{.Country}}

If this was you, follow the verification link in the email from our investor
relations team to approve the new address. If not, contact us immediately.
`))

// SendIPMismatchNotice emails the investor about a login attempt from an
// unrecognized IP.
func (s *MailSender) SendIPMismatchNotice(to, name, ip, country, city string) error {
	var body bytes.Buffer
	data := struct {
		Name, IP, Country, City string
	}{Name: name, IP: ip, Country: country, City: city}

	if err := ipMismatchTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("rendering notice: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "New sign-in location on your investor account")
	m.SetBody("text/plain", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("sending notice: %w", err)
	}
	return nil
}
