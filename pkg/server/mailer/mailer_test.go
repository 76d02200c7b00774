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
	"fmt"
	"strings"
	"testing"

	"github.com/jobtrail/jobtrail/pkg/assert"
	"github.com/pkg/errors"
)

func TestAllTemplatesInitialized(t *testing.T) {
	tmpl := NewTemplates()

	for _, emailType := range []string{EmailTypeResetCode, EmailTypeResetPasswordAlert, EmailTypeWelcome} {
		t.Run(emailType, func(t *testing.T) {
			if _, err := tmpl.get(emailType, EmailKindText); err != nil {
				t.Errorf("template %s not initialized: %v", emailType, err)
			}
		})
	}
}

func TestTemplates(t *testing.T) {
	testCases := []struct {
		name     string
		data     interface{}
		subject  string
		contains []string
	}{
		{
			name: EmailTypeResetCode,
			data: ResetCodeTmplData{
				AccountEmail:     "alice@example.com",
				Code:             "007311",
				ExpiresInMinutes: 10,
				WebURL:           "http://localhost:3000",
			},
			subject:  "Your Jobtrail password reset code",
			contains: []string{"alice@example.com", "007311", "10 minutes"},
		},
		{
			name: EmailTypeResetPasswordAlert,
			data: ResetPasswordAlertTmplData{
				AccountEmail: "alice@example.com",
				WebURL:       "http://localhost:3001",
			},
			subject:  "Your Jobtrail password was changed",
			contains: []string{"alice@example.com", "http://localhost:3001"},
		},
		{
			name: EmailTypeWelcome,
			data: WelcomeTmplData{
				AccountEmail: "user@example.org",
				WebURL:       "http://localhost:3000",
			},
			subject:  "Welcome to Jobtrail!",
			contains: []string{"user@example.org", "http://localhost:3000"},
		},
	}

	tmpl := NewTemplates()

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			subject, body, err := tmpl.Execute(tc.name, EmailKindText, tc.data)
			if err != nil {
				t.Fatal(errors.Wrap(err, "executing"))
			}

			assert.Equal(t, subject, tc.subject, "subject mismatch")
			for _, s := range tc.contains {
				if !strings.Contains(body, s) {
					t.Errorf("email body did not contain %s", s)
				}
			}
		})
	}
}

func TestExecute_missingField(t *testing.T) {
	tmpl := NewTemplates()

	_, _, err := tmpl.Execute(EmailTypeResetCode, EmailKindText, map[string]string{"AccountEmail": "a@b.com"})
	assert.NotEqual(t, err, nil, fmt.Sprintf("expected an error for %s", EmailTypeResetCode))
}
