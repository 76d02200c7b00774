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

package app

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jobtrail/jobtrail/pkg/server/mailer"
	"github.com/pkg/errors"
)

// GetSenderEmail returns the noreply address on the domain of the web URL
func GetSenderEmail(webURL string) (string, error) {
	u, err := url.Parse(webURL)
	if err != nil {
		return "", errors.Wrap(err, "parsing url")
	}

	domain := u.Hostname()
	parts := strings.Split(domain, ".")
	if len(parts) >= 2 {
		domain = parts[len(parts)-2] + "." + parts[len(parts)-1]
	}

	return fmt.Sprintf("noreply@%s", domain), nil
}

func (a *App) sendEmail(templateType, to string, data interface{}) error {
	from, err := GetSenderEmail(a.WebURL)
	if err != nil {
		return errors.Wrap(err, "getting the sender email")
	}

	e := mailer.Email{Type: templateType, From: from, To: []string{to}, Data: data}
	if err := a.EmailBackend.Send(e); err != nil {
		if errors.Cause(err) == mailer.ErrSMTPNotConfigured {
			return ErrInvalidSMTPConfig
		}

		return errors.Wrapf(err, "sending %s email for %s", templateType, to)
	}

	return nil
}

// SendWelcomeEmail sends welcome email
func (a *App) SendWelcomeEmail(email string) error {
	return a.sendEmail(mailer.EmailTypeWelcome, email, mailer.WelcomeTmplData{
		AccountEmail: email,
		WebURL:       a.WebURL,
	})
}

// SendResetCodeEmail sends the password reset code
func (a *App) SendResetCodeEmail(email, code string) error {
	if email == "" {
		return ErrEmailRequired
	}

	return a.sendEmail(mailer.EmailTypeResetCode, email, mailer.ResetCodeTmplData{
		AccountEmail:     email,
		Code:             code,
		ExpiresInMinutes: int(ResetCodeLifetime.Minutes()),
		WebURL:           a.WebURL,
	})
}

// SendPasswordResetAlertEmail sends email that notifies users of a password change
func (a *App) SendPasswordResetAlertEmail(email string) error {
	return a.sendEmail(mailer.EmailTypeResetPasswordAlert, email, mailer.ResetPasswordAlertTmplData{
		AccountEmail: email,
		WebURL:       a.WebURL,
	})
}
