// internal/domain/models/notifications.go
package models

// Notification setting keys. Each key gates one category of
// role-assignment or invitation email; subscriber fan-out mail
// (new ticket / new comment / closed / reopened) is never gated by
// these settings.
const (
	NotifyTeamRoleAssignment    = "team_role_assignment"
	NotifyProjectRoleAssignment = "project_role_assignment"
	NotifyAutoSubscribe         = "auto_subscribe_to_submitted_tickets"
	NotifyTeamInvites           = "team_invites"
)

// NotificationDefaults is the fallback applied when a user's settings map
// does not contain a key. All categories default to enabled.
var NotificationDefaults = map[string]bool{
	NotifyTeamRoleAssignment:    true,
	NotifyProjectRoleAssignment: true,
	NotifyAutoSubscribe:         true,
	NotifyTeamInvites:           true,
}

// NotificationSetting describes one settings toggle for the settings UI.
type NotificationSetting struct {
	Key         string
	Title       string
	Description string
}

// NotificationSettingDescriptions drives the notification settings page.
var NotificationSettingDescriptions = []NotificationSetting{
	{
		Key:         NotifyTeamRoleAssignment,
		Title:       "Team Role Assignment",
		Description: "Notifies you when your role within a team changes (owner, manager, member).",
	},
	{
		Key:         NotifyProjectRoleAssignment,
		Title:       "Project Role Assignment",
		Description: "Notifies you when you are assigned as a project manager or developer.",
	},
	{
		Key:         NotifyAutoSubscribe,
		Title:       "Your Submitted Tickets",
		Description: "Controls whether you are automatically subscribed to email notifications for tickets you submit.",
	},
	{
		Key:         NotifyTeamInvites,
		Title:       "Team Invites",
		Description: "Controls whether you receive an email when you are invited to a team.",
	},
}

// KnownNotificationKey reports whether key is one of the supported settings.
func KnownNotificationKey(key string) bool {
	_, ok := NotificationDefaults[key]
	return ok
}
