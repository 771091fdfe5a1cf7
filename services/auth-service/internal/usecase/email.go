package usecase

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const (
	subjectVerificationCode = "Email Verification Code - Islamic App"
	subjectVerificationLink = "Email Verification Link - Islamic App"
	subjectPasswordReset    = "Password Reset Request - Islamic App"
)

const emailLayout = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background: linear-gradient(135deg, #16a085 0%, #2980b9 100%); padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
    <h1 style="color: white; margin: 0; font-size: 28px;">Islamic App</h1>
    <p style="color: #ecf0f1; margin: 10px 0 0 0;">{{.Heading}}</p>
  </div>
  <div style="background: #f8f9fa; padding: 30px; border-radius: 0 0 10px 10px; border: 1px solid #e9ecef;">
    <h2 style="color: #2c3e50; margin-top: 0;">السلام عليكم {{.FirstName}},</h2>
    {{template "content" .}}
    <div style="margin-top: 30px; padding: 20px; background: #e8f6f3; border-radius: 8px; text-align: center;">
      <p style="margin: 0; font-style: italic; color: #2c3e50;">
        <strong>وَمَن يَتَّقِ اللَّهَ يَجْعَل لَّهُ مَخْرَجًا</strong><br>
        <span style="font-size: 14px;">"And whoever fears Allah - He will make for him a way out" - Quran 65:2</span>
      </p>
    </div>
  </div>
</div>`

var (
	verificationCodeTmpl = mustEmailTemplate(`{{define "content"}}
    <p>Thank you for registering with Islamic App. Please use the verification code below:</p>
    <div style="background: white; border: 2px solid #16a085; border-radius: 8px; padding: 20px; text-align: center; margin: 20px 0;">
      <h3 style="margin: 0; color: #2c3e50;">Verification Code</h3>
      <div style="font-size: 32px; font-weight: bold; color: #16a085; letter-spacing: 3px; margin: 10px 0;">{{.Code}}</div>
      <p style="margin: 0; color: #7f8c8d; font-size: 14px;">This code expires in {{.Expiry}}</p>
    </div>
    <p>If you didn't create an account, please ignore this email.</p>
{{end}}`)

	verificationLinkTmpl = mustEmailTemplate(`{{define "content"}}
    <p>Thank you for registering with Islamic App. Please click the button below to verify your email address:</p>
    <div style="text-align: center; margin: 30px 0;">
      <a href="{{.Link}}" style="background: #16a085; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px; font-weight: bold; display: inline-block;">Verify Email Address</a>
    </div>
    <p>Or copy and paste this link in your browser:</p>
    <p style="word-break: break-all; background: #ecf0f1; padding: 10px; border-radius: 5px; font-family: monospace;">{{.Link}}</p>
    <p>This link will expire in {{.Expiry}}.</p>
    <p>If you didn't create an account with Islamic App, please ignore this email.</p>
{{end}}`)

	passwordResetTmpl = mustEmailTemplate(`{{define "content"}}
    <p>You have requested to reset your password for your Islamic App account.</p>
    <div style="text-align: center; margin: 30px 0;">
      <a href="{{.Link}}" style="background: #e74c3c; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px; font-weight: bold; display: inline-block;">Reset Password</a>
    </div>
    <p>Or copy and paste this link in your browser:</p>
    <p style="word-break: break-all; background: #ecf0f1; padding: 10px; border-radius: 5px; font-family: monospace;">{{.Link}}</p>
    <p><strong>This link will expire in {{.Expiry}}.</strong></p>
    <p>If you didn't request a password reset, please ignore this email. Your password will remain unchanged.</p>
{{end}}`)
)

type emailData struct {
	Heading   string
	FirstName string
	Code      string
	Link      string
	Expiry    string
}

type renderedEmail struct {
	Subject string
	HTML    string
	Text    string
}

func mustEmailTemplate(content string) *template.Template {
	return template.Must(template.Must(template.New("email").Parse(emailLayout)).Parse(content))
}

func render(tmpl *template.Template, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}

	return buf.String(), nil
}

func verificationCodeEmail(firstName, code string, expiresIn time.Duration) (*renderedEmail, error) {
	expiry := humanizeDuration(expiresIn)

	html, err := render(verificationCodeTmpl, emailData{
		Heading:   "Email Verification",
		FirstName: firstName,
		Code:      code,
		Expiry:    expiry,
	})
	if err != nil {
		return nil, err
	}

	return &renderedEmail{
		Subject: subjectVerificationCode,
		HTML:    html,
		Text: fmt.Sprintf(
			"السلام عليكم %s, Your Islamic App verification code is: %s. This code expires in %s.",
			firstName, code, expiry,
		),
	}, nil
}

func verificationLinkEmail(firstName, link string, expiresIn time.Duration) (*renderedEmail, error) {
	expiry := humanizeDuration(expiresIn)

	html, err := render(verificationLinkTmpl, emailData{
		Heading:   "Email Verification",
		FirstName: firstName,
		Link:      link,
		Expiry:    expiry,
	})
	if err != nil {
		return nil, err
	}

	return &renderedEmail{
		Subject: subjectVerificationLink,
		HTML:    html,
		Text: fmt.Sprintf(
			"السلام عليكم %s, Please click the following link to verify your email address: %s. This link will expire in %s.",
			firstName, link, expiry,
		),
	}, nil
}

func passwordResetEmail(firstName, link string, expiresIn time.Duration) (*renderedEmail, error) {
	expiry := humanizeDuration(expiresIn)

	html, err := render(passwordResetTmpl, emailData{
		Heading:   "Password Reset",
		FirstName: firstName,
		Link:      link,
		Expiry:    expiry,
	})
	if err != nil {
		return nil, err
	}

	return &renderedEmail{
		Subject: subjectPasswordReset,
		HTML:    html,
		Text: fmt.Sprintf(
			"السلام عليكم %s, You have requested to reset your password. Please click the following link: %s. This link will expire in %s.",
			firstName, link, expiry,
		),
	}, nil
}

// humanizeDuration renders whole hours or minutes, e.g. "15 minutes", "24 hours".
func humanizeDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute:
		return plural(int(d/time.Minute), "minute")
	default:
		return plural(int(d/time.Second), "second")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
