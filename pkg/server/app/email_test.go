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
	"testing"

	"github.com/jobtrail/jobtrail/pkg/assert"
	"github.com/jobtrail/jobtrail/pkg/server/mailer"
	"github.com/jobtrail/jobtrail/pkg/server/testutils"
	"github.com/pkg/errors"
)

func TestSendWelcomeEmail(t *testing.T) {
	emailBackend := testutils.MockEmailbackendImplementation{}
	a := NewTest()
	a.EmailBackend = &emailBackend
	a.WebURL = "http://example.com"

	if err := a.SendWelcomeEmail("alice@example.com"); err != nil {
		t.Fatal(err, "failed to perform")
	}

	assert.Equalf(t, len(emailBackend.Emails), 1, "email queue count mismatch")
	assert.Equal(t, emailBackend.Emails[0].Type, mailer.EmailTypeWelcome, "template mismatch")
	assert.Equal(t, emailBackend.Emails[0].From, "noreply@example.com", "email sender mismatch")
	assert.DeepEqual(t, emailBackend.Emails[0].To, []string{"alice@example.com"}, "email recipient mismatch")
}

func TestSendResetCodeEmail(t *testing.T) {
	emailBackend := testutils.MockEmailbackendImplementation{}
	a := NewTest()
	a.EmailBackend = &emailBackend
	a.WebURL = "https://app.jobtrail.dev"

	if err := a.SendResetCodeEmail("alice@example.com", "123456"); err != nil {
		t.Fatal(err, "failed to perform")
	}

	assert.Equalf(t, len(emailBackend.Emails), 1, "email queue count mismatch")
	assert.Equal(t, emailBackend.Emails[0].From, "noreply@jobtrail.dev", "email sender mismatch")
	assert.Equal(t, emailBackend.Emails[0].Data, interface{}(mailer.ResetCodeTmplData{
		AccountEmail:     "alice@example.com",
		Code:             "123456",
		ExpiresInMinutes: 10,
		WebURL:           "https://app.jobtrail.dev",
	}), "template data mismatch")

	assert.Equal(t, a.SendResetCodeEmail("", "123456"), error(ErrEmailRequired), "missing email")
}

type failingBackend struct {
	err error
}

func (b failingBackend) Send(e mailer.Email) error {
	return b.err
}

func TestSendEmail_smtpNotConfigured(t *testing.T) {
	a := NewTest()
	a.EmailBackend = failingBackend{err: errors.Wrap(mailer.ErrSMTPNotConfigured, "dialing")}

	err := a.SendPasswordResetAlertEmail("alice@example.com")
	assert.Equal(t, err, error(ErrInvalidSMTPConfig), "error mismatch")
}

func TestGetSenderEmail(t *testing.T) {
	testCases := []struct {
		webURL         string
		expectedSender string
	}{
		{
			webURL:         "https://www.example.com",
			expectedSender: "noreply@example.com",
		},
		{
			webURL:         "https://app.example2.com:8080",
			expectedSender: "noreply@example2.com",
		},
		{
			webURL:         "http://localhost:3000",
			expectedSender: "noreply@localhost",
		},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("web url %s", tc.webURL), func(t *testing.T) {
			got, err := GetSenderEmail(tc.webURL)
			if err != nil {
				t.Fatal(err)
			}

			assert.Equal(t, got, tc.expectedSender, "sender mismatch")
		})
	}
}
