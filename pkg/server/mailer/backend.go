/* Copyright 2025 Jobtrail Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package mailer

import (
	"github.com/jobtrail/jobtrail/pkg/server/log"
	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"
)

// ErrSMTPNotConfigured is an error indicating that SMTP is not configured
var ErrSMTPNotConfigured = errors.New("SMTP is not configured")

// Email is a message to be rendered from the template of its Type
type Email struct {
	Type string
	From string
	To   []string
	Data interface{}
}

// Backend delivers emails
type Backend interface {
	Send(e Email) error
}

// EmailDialer is an interface for sending email messages
type EmailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPParams holds the SMTP connection settings
type SMTPParams struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Configured reports whether every setting needed to dial is present
func (p SMTPParams) Configured() bool {
	return p.Host != "" && p.Port != 0 && p.Username != "" && p.Password != ""
}

// SMTPBackend renders emails and sends them right away
type SMTPBackend struct {
	Dialer    EmailDialer
	Templates Templates
}

// NewSMTPBackend returns a backend dialing the given server
func NewSMTPBackend(p SMTPParams) (*SMTPBackend, error) {
	if !p.Configured() {
		return nil, ErrSMTPNotConfigured
	}

	return &SMTPBackend{
		Dialer:    gomail.NewDialer(p.Host, p.Port, p.Username, p.Password),
		Templates: NewTemplates(),
	}, nil
}

// Send implements Backend
func (b *SMTPBackend) Send(e Email) error {
	subject, body, err := b.Templates.Execute(e.Type, EmailKindText, e.Data)
	if err != nil {
		return errors.Wrapf(err, "rendering %s", e.Type)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.From)
	m.SetHeader("To", e.To...)
	m.SetHeader("Subject", subject)
	m.SetBody(EmailKindText, body)

	if err := b.Dialer.DialAndSend(m); err != nil {
		return errors.Wrap(err, "dialing and sending email")
	}

	return nil
}

// LogBackend writes rendered emails to the server log. It stands in for
// SMTP in development.
type LogBackend struct {
	Templates Templates
}

// NewLogBackend returns a LogBackend
func NewLogBackend() *LogBackend {
	return &LogBackend{Templates: NewTemplates()}
}

// Send implements Backend
func (b *LogBackend) Send(e Email) error {
	subject, body, err := b.Templates.Execute(e.Type, EmailKindText, e.Data)
	if err != nil {
		return errors.Wrapf(err, "rendering %s", e.Type)
	}

	log.WithFields(log.Fields{
		"subject": subject,
		"to":      e.To,
		"from":    e.From,
		"body":    body,
	}).Info("email not sent, SMTP is not configured")

	return nil
}
