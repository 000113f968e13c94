// Package mail delivers transactional email through Resend or Mailjet.
package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

// Message is a provider-neutral email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

const verificationSubject = "Verify your email address"

var verificationHTML = template.Must(template.New("verification").Parse(`<h3>Hi!</h3>
<p>Thank you for registering. Please verify your email address by clicking the link below:</p>
<p><a href="{{.Link}}">Verify email</a></p>
<p>If you did not create an account you can ignore this email.</p>
`))

// VerificationMessage renders the email carrying a verification link.
func VerificationMessage(to, link string) (Message, error) {
	var buf bytes.Buffer
	if err := verificationHTML.Execute(&buf, struct{ Link string }{link}); err != nil {
		return Message{}, fmt.Errorf("render verification email: %w", err)
	}
	return Message{
		To:      to,
		Subject: verificationSubject,
		Text:    fmt.Sprintf("Hi! Please verify your email address by opening the following link: %s", link),
		HTML:    buf.String(),
	}, nil
}
