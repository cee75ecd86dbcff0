package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/harborline/accountd/internal/accounts/service"
)

var emailTemplate = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<body style="background-color:#ffffff;font-family:sans-serif">
  <div style="margin:0 auto;padding:20px 0 48px;max-width:560px">
    <p style="font-size:16px;line-height:26px">Hi there,</p>
    <p style="font-size:16px;line-height:26px">{{.Intro}}</p>
    <a href="{{.Link}}" style="background-color:#000000;border-radius:3px;color:#fff;font-size:16px;text-decoration:none;text-align:center;display:block;padding:12px">{{.Action}}</a>
    <p style="font-size:16px;line-height:26px">{{.Outro}}</p>
  </div>
</body>
</html>`))

type templateData struct {
	Intro  string
	Action string
	Link   string
	Outro  string
}

// render picks subject and body copy for a notification kind.
func render(kind service.NotificationKind, data service.NotificationData) (subject, body string, err error) {
	var td templateData
	td.Link = data.Link

	switch kind {
	case service.NotificationVerification:
		subject = "Verify your email address"
		td.Intro = "Welcome! Please click the button below to verify your email address and complete your registration."
		td.Action = "Verify Email"
		td.Outro = "This link is valid for 24 hours. If you did not request this, please ignore this email."
	case service.NotificationAdminApproval:
		subject = "New admin account verification required"
		td.Intro = fmt.Sprintf("A new admin account was registered for %s (%s). Review and click the button below to approve it.", data.DisplayName, data.Email)
		td.Action = "Approve Admin Account"
		td.Outro = "This link is valid for 24 hours. If this registration is unexpected, do not approve it."
	case service.NotificationPasswordReset:
		subject = "Reset your password"
		td.Intro = "Someone requested a password reset for your account. If this was you, please click the button below to set a new password."
		td.Action = "Reset Password"
		td.Outro = "This link is valid for 24 hours. If you did not request a password reset, please ignore this email."
	default:
		return "", "", fmt.Errorf("mailer: unknown notification kind %q", kind)
	}

	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, td); err != nil {
		return "", "", err
	}
	return subject, buf.String(), nil
}
