// internal/app/system/notify/notify.go
//
// Package notify computes notification fan-out for ticket activity and
// sends the resulting email. Subscriber sets are stored as-is and never
// purged; eligibility is applied at send time, so a subscriber who has
// lost team membership or project access is skipped silently.
package notify

import (
	"context"
	"fmt"

	membershipstore "github.com/dalemusser/trackhub/internal/app/store/memberships"
	userstore "github.com/dalemusser/trackhub/internal/app/store/users"
	"github.com/dalemusser/trackhub/internal/app/system/mailer"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Eligible filters subscriber IDs down to the users who actually get
// mail: current team members who are the project's manager or one of
// its developers. The roles map carries the team's memberships; absent
// entries mean not a member.
func Eligible(subscriberIDs []primitive.ObjectID, p models.Project, roles map[primitive.ObjectID]models.Role) []primitive.ObjectID {
	var out []primitive.ObjectID
	for _, id := range subscriberIDs {
		if role, ok := roles[id]; !ok || role == models.RoleNone {
			continue
		}
		if !p.IsManager(id) && !p.HasDeveloper(id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// Notifier sends ticket activity and role change email. Send failures
// are logged and swallowed; a notification must never fail the write
// that triggered it.
type Notifier struct {
	Users       *userstore.Store
	Memberships *membershipstore.Store
	Sender      mailer.Sender
	Log         *zap.Logger
	SiteName    string
	BaseURL     string
}

// TicketCreated fans out "new ticket submitted" mail to the eligible
// subscribers of the project, not of the new ticket; the ticket's set
// at this point is just the seed, which may already include the
// auto-subscribed submitter. Archived projects never email.
func (n *Notifier) TicketCreated(ctx context.Context, team models.Team, p models.Project, t models.Ticket, actor models.User) {
	if p.IsArchived {
		return
	}
	subject := fmt.Sprintf("New ticket in %s: %s", p.Title, t.Title)
	n.fanOut(ctx, p.SubscriberIDs, team, p, t, actor, subject, "submitted this ticket")
}

// CommentPosted fans out "new comment" mail. Archived projects never
// email.
func (n *Notifier) CommentPosted(ctx context.Context, team models.Team, p models.Project, t models.Ticket, actor models.User, text string) {
	if p.IsArchived {
		return
	}
	subject := fmt.Sprintf("New comment on %s", t.Title)
	n.fanOut(ctx, t.SubscriberIDs, team, p, t, actor, subject, text)
}

// TicketClosed fans out "ticket closed" mail carrying the resolution.
// Archived projects never email.
func (n *Notifier) TicketClosed(ctx context.Context, team models.Team, p models.Project, t models.Ticket, actor models.User, resolution string) {
	if p.IsArchived {
		return
	}
	subject := fmt.Sprintf("Ticket closed: %s", t.Title)
	n.fanOut(ctx, t.SubscriberIDs, team, p, t, actor, subject, "closed this ticket. Resolution: "+resolution)
}

// TicketReopened fans out "ticket reopened" mail. This event fires
// even when the project is archived.
func (n *Notifier) TicketReopened(ctx context.Context, team models.Team, p models.Project, t models.Ticket, actor models.User) {
	subject := fmt.Sprintf("Ticket reopened: %s", t.Title)
	n.fanOut(ctx, t.SubscriberIDs, team, p, t, actor, subject, "reopened this ticket")
}

func (n *Notifier) fanOut(ctx context.Context, subscriberIDs []primitive.ObjectID, team models.Team, p models.Project, t models.Ticket, actor models.User, subject, detail string) {
	if p.TeamID == nil {
		return
	}
	roles, err := n.teamRoles(ctx, *p.TeamID)
	if err != nil {
		n.Log.Error("load team roles for notification", zap.Error(err))
		return
	}
	recipients := Eligible(subscriberIDs, p, roles)
	if len(recipients) == 0 {
		return
	}
	users, err := n.Users.GetMany(ctx, recipients)
	if err != nil {
		n.Log.Error("load notification recipients", zap.Error(err))
		return
	}

	data := mailer.TicketEventData{
		SiteName:     n.SiteName,
		TeamTitle:    team.Title,
		ProjectTitle: p.Title,
		TicketTitle:  t.Title,
		ActorName:    actor.Name,
		Detail:       detail,
		TicketURL:    n.ticketURL(team, p, t),
	}
	for _, u := range users {
		if u.Email == "" {
			continue
		}
		email := mailer.BuildTicketEventEmail(subject, data)
		email.To = u.Email
		if err := n.Sender.Send(email); err != nil {
			n.Log.Error("send ticket notification",
				zap.String("ticket_id", t.ID.Hex()),
				zap.String("to", u.Email),
				zap.Error(err))
		}
	}
}

// TeamRoleAssigned emails the target about a team role change, subject
// to their team_role_assignment preference.
func (n *Notifier) TeamRoleAssigned(ctx context.Context, team models.Team, target models.User, roleName string) {
	if !target.NotificationEnabled(models.NotifyTeamRoleAssignment) || target.Email == "" {
		return
	}
	email := mailer.BuildRoleAssignmentEmail(mailer.RoleAssignmentData{
		SiteName:  n.SiteName,
		TeamTitle: team.Title,
		Scope:     "the team",
		RoleName:  roleName,
		TargetURL: n.BaseURL + "/teams/" + team.Slug,
	})
	email.To = target.Email
	if err := n.Sender.Send(email); err != nil {
		n.Log.Error("send role notification", zap.String("to", target.Email), zap.Error(err))
	}
}

// ProjectRoleAssigned emails the target about a project role change
// (manager or developer), subject to their project_role_assignment
// preference.
func (n *Notifier) ProjectRoleAssigned(ctx context.Context, team models.Team, p models.Project, target models.User, roleName string) {
	if !target.NotificationEnabled(models.NotifyProjectRoleAssignment) || target.Email == "" {
		return
	}
	email := mailer.BuildRoleAssignmentEmail(mailer.RoleAssignmentData{
		SiteName:  n.SiteName,
		TeamTitle: team.Title,
		Scope:     p.Title,
		RoleName:  roleName,
		TargetURL: n.BaseURL + "/teams/" + team.Slug + "/projects/" + p.ID.Hex(),
	})
	email.To = target.Email
	if err := n.Sender.Send(email); err != nil {
		n.Log.Error("send role notification", zap.String("to", target.Email), zap.Error(err))
	}
}

// InvitationSent emails the invitee, subject to their team_invites
// preference when they already have an account. Invitations to plain
// addresses always send.
func (n *Notifier) InvitationSent(ctx context.Context, team models.Team, inviter models.User, invitee *models.User, toEmail, token string) {
	if invitee != nil && !invitee.NotificationEnabled(models.NotifyTeamInvites) {
		return
	}
	if toEmail == "" {
		return
	}
	email := mailer.BuildInvitationEmail(mailer.InvitationData{
		SiteName:    n.SiteName,
		TeamTitle:   team.Title,
		InviterName: inviter.Name,
		AcceptURL:   n.BaseURL + "/invitations/" + token,
		ExpiresIn:   "7 days",
	})
	email.To = toEmail
	if err := n.Sender.Send(email); err != nil {
		n.Log.Error("send invitation", zap.String("to", toEmail), zap.Error(err))
	}
}

func (n *Notifier) teamRoles(ctx context.Context, teamID primitive.ObjectID) (map[primitive.ObjectID]models.Role, error) {
	ms, err := n.Memberships.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	roles := make(map[primitive.ObjectID]models.Role, len(ms))
	for _, m := range ms {
		roles[m.UserID] = m.Role
	}
	return roles, nil
}

func (n *Notifier) ticketURL(team models.Team, p models.Project, t models.Ticket) string {
	return n.BaseURL + "/teams/" + team.Slug + "/projects/" + p.ID.Hex() + "/tickets/" + t.ID.Hex()
}
