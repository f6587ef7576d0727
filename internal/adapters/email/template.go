package email

import (
	"bytes"
	"html/template"
	"strings"
	texttemplate "text/template"

	"ensembleplanner/internal/domain"
)

const invitationSubjectTmpl = `You're invited: {{.EventTitle}}`

const invitationHTMLTmpl = `<p>You have been invited to perform at <strong>{{.EventTitle}}</strong> on {{.EventDate.Format "Monday, 2 January 2006 at 15:04"}}.</p>
<p>Please open the app to accept or decline the invitation.</p>`

const invitationTextTmpl = `You have been invited to perform at {{.EventTitle}} on {{.EventDate.Format "Monday, 2 January 2006 at 15:04"}}.

Please open the app to accept or decline the invitation.`

func renderInvitation(notice domain.InvitationNotice) (subject, htmlBody, textBody string, err error) {
	subject, err = renderText(invitationSubjectTmpl, notice)
	if err != nil {
		return "", "", "", err
	}
	htmlBody, err = renderHTML(invitationHTMLTmpl, notice)
	if err != nil {
		return "", "", "", err
	}
	textBody, err = renderText(invitationTextTmpl, notice)
	if err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), htmlBody, textBody, nil
}

func renderText(tmpl string, data any) (string, error) {
	t, err := texttemplate.New("email").Parse(tmpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderHTML(tmpl string, data any) (string, error) {
	t, err := template.New("email").Parse(tmpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
