// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// TicketEventData holds data for ticket activity emails.
type TicketEventData struct {
	SiteName     string
	TeamTitle    string
	ProjectTitle string
	TicketTitle  string
	ActorName    string
	Detail       string // e.g. the comment text or "closed this ticket"
	TicketURL    string
}

// BuildTicketEventEmail creates a ticket activity email with both HTML
// and text bodies. The recipient is set by the caller.
func BuildTicketEventEmail(subject string, data TicketEventData) Email {
	return Email{
		Subject:  subject,
		TextBody: buildTicketEventText(data),
		HTMLBody: buildTicketEventHTML(data),
	}
}

func buildTicketEventText(data TicketEventData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("[%s / %s] %s\n\n", data.TeamTitle, data.ProjectTitle, data.TicketTitle))
	buf.WriteString(fmt.Sprintf("%s: %s\n\n", data.ActorName, data.Detail))
	buf.WriteString("View the ticket:\n")
	buf.WriteString(data.TicketURL + "\n\n")
	buf.WriteString("You are receiving this because you subscribe to this ticket.\n")
	return buf.String()
}

func buildTicketEventHTML(data TicketEventData) string {
	tmpl := template.Must(template.New("ticketevent").Parse(ticketEventHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

// RoleAssignmentData holds data for team and project role emails.
type RoleAssignmentData struct {
	SiteName  string
	TeamTitle string
	Scope     string // "team" or the project title
	RoleName  string
	TargetURL string
}

// BuildRoleAssignmentEmail creates a role change email.
func BuildRoleAssignmentEmail(data RoleAssignmentData) Email {
	return Email{
		Subject:  fmt.Sprintf("Your role in %s changed", data.TeamTitle),
		TextBody: buildRoleAssignmentText(data),
	}
}

func buildRoleAssignmentText(data RoleAssignmentData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("You are now %s in %s (%s).\n\n", data.RoleName, data.Scope, data.TeamTitle))
	buf.WriteString("Take a look:\n")
	buf.WriteString(data.TargetURL + "\n\n")
	buf.WriteString("You can turn these emails off in your notification settings.\n")
	return buf.String()
}

// InvitationData holds data for team invitation emails.
type InvitationData struct {
	SiteName    string
	TeamTitle   string
	InviterName string
	AcceptURL   string
	ExpiresIn   string // e.g. "7 days"
}

// BuildInvitationEmail creates a team invitation email.
func BuildInvitationEmail(data InvitationData) Email {
	return Email{
		Subject:  fmt.Sprintf("You are invited to join %s on %s", data.TeamTitle, data.SiteName),
		TextBody: buildInvitationText(data),
		HTMLBody: buildInvitationHTML(data),
	}
}

func buildInvitationText(data InvitationData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("%s invited you to join the team %s on %s.\n\n", data.InviterName, data.TeamTitle, data.SiteName))
	buf.WriteString("Accept or decline here:\n")
	buf.WriteString(data.AcceptURL + "\n\n")
	buf.WriteString(fmt.Sprintf("This invitation expires in %s.\n\n", data.ExpiresIn))
	buf.WriteString("If you were not expecting this invitation, you can safely ignore this email.\n")
	return buf.String()
}

func buildInvitationHTML(data InvitationData) string {
	tmpl := template.Must(template.New("invitation").Parse(invitationHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const ticketEventHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Ticket Update</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 8px; font-size: 13px; color: #6b7280;">{{.TeamTitle}} / {{.ProjectTitle}}</p>
              <p style="margin: 0 0 24px; font-size: 18px; font-weight: 600; color: #1f2937;">{{.TicketTitle}}</p>
              <p style="margin: 0 0 24px; font-size: 15px; color: #374151; line-height: 1.5;"><strong>{{.ActorName}}</strong>: {{.Detail}}</p>
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                <tr>
                  <td align="center">
                    <a href="{{.TicketURL}}" style="display: inline-block; padding: 14px 32px; background-color: #4f46e5; color: #ffffff; text-decoration: none; font-size: 16px; font-weight: 500; border-radius: 6px;">
                      View Ticket
                    </a>
                  </td>
                </tr>
              </table>
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">
                You are receiving this because you subscribe to this ticket.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

const invitationHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Team Invitation</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151; line-height: 1.5;">
                <strong>{{.InviterName}}</strong> invited you to join the team <strong>{{.TeamTitle}}</strong>.
              </p>
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                <tr>
                  <td align="center">
                    <a href="{{.AcceptURL}}" style="display: inline-block; padding: 14px 32px; background-color: #4f46e5; color: #ffffff; text-decoration: none; font-size: 16px; font-weight: 500; border-radius: 6px;">
                      View Invitation
                    </a>
                  </td>
                </tr>
              </table>
              <p style="margin: 24px 0 0; font-size: 13px; color: #9ca3af; text-align: center;">
                This invitation expires in {{.ExpiresIn}}.
              </p>
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">
                If you were not expecting this invitation, you can safely ignore this email.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
