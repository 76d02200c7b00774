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

// Package mailer provides a functionality to send emails
package mailer

import (
	"bytes"
	"embed"
	"fmt"
	ttemplate "text/template"

	"github.com/pkg/errors"
)

const (
	// EmailTypeResetCode represents an email carrying a password reset code
	EmailTypeResetCode = "reset_code"
	// EmailTypeResetPasswordAlert represents a password change notification email
	EmailTypeResetPasswordAlert = "reset_password_alert"
	// EmailTypeWelcome represents an welcome email
	EmailTypeWelcome = "welcome"
)

// EmailKindText is the type of text email
const EmailKindText = "text/plain"

//go:embed templates/*.txt
var templateFiles embed.FS

// template wraps a template with its subject line
type template struct {
	tmpl    *ttemplate.Template
	subject string
}

// Templates holds the parsed email templates with their subjects
type Templates map[string]template

func getTemplateKey(name, kind string) string {
	return fmt.Sprintf("%s.%s", name, kind)
}

func (tmpl Templates) get(name, kind string) (template, error) {
	t, ok := tmpl[getTemplateKey(name, kind)]
	if !ok {
		return template{}, errors.Errorf("unsupported template '%s' with type '%s'", name, kind)
	}

	return t, nil
}

var subjects = map[string]string{
	EmailTypeResetCode:          "Your Jobtrail password reset code",
	EmailTypeResetPasswordAlert: "Your Jobtrail password was changed",
	EmailTypeWelcome:            "Welcome to Jobtrail!",
}

// NewTemplates initializes templates
func NewTemplates() Templates {
	T := Templates{}

	for name, subject := range subjects {
		t, err := initTextTmpl(name)
		if err != nil {
			panic(errors.Wrapf(err, "initializing %s template", name))
		}

		T[getTemplateKey(name, EmailKindText)] = template{tmpl: t, subject: subject}
	}

	return T
}

// initTextTmpl returns a template instance by parsing the template with the given name
func initTextTmpl(templateName string) (*ttemplate.Template, error) {
	content, err := templateFiles.ReadFile(fmt.Sprintf("templates/%s.txt", templateName))
	if err != nil {
		return nil, errors.Wrap(err, "reading template")
	}

	t, err := ttemplate.New(templateName).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, errors.Wrap(err, "parsing template")
	}

	return t, nil
}

// Execute executes the template and returns the subject, body, and any error
func (tmpl Templates) Execute(name, kind string, data any) (subject, body string, err error) {
	t, err := tmpl.get(name, kind)
	if err != nil {
		return "", "", errors.Wrap(err, "getting template")
	}

	buf := new(bytes.Buffer)
	if err := t.tmpl.Execute(buf, data); err != nil {
		return "", "", errors.Wrap(err, "executing the template")
	}

	return t.subject, buf.String(), nil
}
