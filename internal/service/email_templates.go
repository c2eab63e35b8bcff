package service

import (
	"bytes"
	"fmt"
	"html/template"

	"campus-events/backend/pkg/mail"
)

const qrCID = "qr_code"

var emailTemplates = template.Must(template.New("registration").Parse(`<h2>Registration Confirmed</h2>
<p>Hello {{.Student}},</p>
<p>You have successfully registered for <b>{{.Event}}</b>.</p>
<p><b>Date:</b> {{.Date}}<br><b>Location:</b> {{.Location}}</p>
<p>Please present the QR code below at the venue to mark your attendance.</p>
<img src="cid:{{.CID}}" alt="QR Code" width="200" height="200">
`))

func init() {
	template.Must(emailTemplates.New("announcement").Parse(`<h2>New Event Announcement!</h2>
<p><b>{{.Event}}</b></p>
<p><b>Date:</b> {{.Date}}<br><b>Location:</b> {{.Location}}</p>
<p>{{.Description}}</p>
<p>Login to register now!</p>
`))
	template.Must(emailTemplates.New("reset").Parse(`<h2>Password Reset Request</h2>
<p>Hello {{.Name}},</p>
<p>A password reset was requested for the account <b>{{.Account}}</b>.</p>
<p><a href="{{.Link}}">Reset your password</a></p>
<p>This link expires in 1 hour. If you did not request a reset, ignore this email.</p>
`))
}

func renderEmail(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", name, err)
	}
	return buf.String(), nil
}

func registrationEmail(to, student, event, date, location string, qrPNG []byte) (mail.Message, error) {
	html, err := renderEmail("registration", map[string]string{
		"Student": student, "Event": event, "Date": date, "Location": location, "CID": qrCID,
	})
	if err != nil {
		return mail.Message{}, err
	}
	return mail.Message{
		To:      []string{to},
		Subject: "Event Registration Successful",
		HTML:    html,
		Inline: []mail.Inline{{
			CID:         qrCID,
			Filename:    "qrcode.png",
			ContentType: "image/png",
			Data:        qrPNG,
		}},
	}, nil
}

func announcementEmail(to, event, date, location, description string) (mail.Message, error) {
	html, err := renderEmail("announcement", map[string]string{
		"Event": event, "Date": date, "Location": location, "Description": description,
	})
	if err != nil {
		return mail.Message{}, err
	}
	return mail.Message{
		To:      []string{to},
		Subject: "New Event Announcement!",
		Text: fmt.Sprintf("New Event: %s\nDate: %s\nLocation: %s\n\n%s\n\nLogin to register now!",
			event, date, location, description),
		HTML: html,
	}, nil
}

func passwordResetEmail(to, name, account, link string) (mail.Message, error) {
	html, err := renderEmail("reset", map[string]string{"Name": name, "Account": account, "Link": link})
	if err != nil {
		return mail.Message{}, err
	}
	return mail.Message{
		To:      []string{to},
		Subject: "Password Reset Request",
		Text:    fmt.Sprintf("Use this link to reset the password of %s (valid for 1 hour):\n%s", account, link),
		HTML:    html,
	}, nil
}
