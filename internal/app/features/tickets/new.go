// internal/app/features/tickets/new.go
package tickets

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/trackhub/internal/app/features/errors"
	projectstore "github.com/dalemusser/trackhub/internal/app/store/projects"
	ticketstore "github.com/dalemusser/trackhub/internal/app/store/tickets"
	userstore "github.com/dalemusser/trackhub/internal/app/store/users"
	"github.com/dalemusser/trackhub/internal/app/policy/ticketpolicy"
	"github.com/dalemusser/trackhub/internal/app/system/authz"
	"github.com/dalemusser/trackhub/internal/app/system/formutil"
	"github.com/dalemusser/trackhub/internal/app/system/inputval"
	"github.com/dalemusser/trackhub/internal/app/system/limits"
	"github.com/dalemusser/trackhub/internal/app/system/normalize"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// createTicketInput defines validation rules for filing a ticket.
type createTicketInput struct {
	Title       string `validate:"required,max=200" label:"Ticket title"`
	Description string `validate:"max=10000" label:"Description"`
}

// resolveCreateTarget loads the project a new ticket is filed under and
// checks the actor may create tickets in it. Staff never create.
func (h *Handler) resolveCreateTarget(ctx context.Context, w http.ResponseWriter, r *http.Request, projectParam string) (models.Project, models.Role, primitive.ObjectID, bool) {
	userID, _, signedIn := authz.UserCtx(r)
	if !signedIn {
		uierrors.RenderUnauthorized(w, r, "/login")
		return models.Project{}, models.RoleNone, primitive.NilObjectID, false
	}

	projectID, err := primitive.ObjectIDFromHex(projectParam)
	if err != nil {
		uierrors.RenderNotFound(w, r)
		return models.Project{}, models.RoleNone, primitive.NilObjectID, false
	}

	p, err := projectstore.New(h.DB).GetByID(ctx, projectID)
	if err != nil || p.TeamID == nil {
		uierrors.RenderNotFound(w, r)
		return models.Project{}, models.RoleNone, primitive.NilObjectID, false
	}

	role, err := h.Resolver.TeamRole(ctx, r, *p.TeamID)
	if err != nil {
		uierrors.RenderNotFound(w, r)
		return models.Project{}, models.RoleNone, primitive.NilObjectID, false
	}
	if authz.IsStaff(r) || !ticketpolicy.CanCreate(role, userID, p) {
		uierrors.RenderNotFound(w, r)
		return models.Project{}, models.RoleNone, primitive.NilObjectID, false
	}
	return p, role, userID, true
}

// ServeNew renders the "New Ticket" form. The project comes from the
// ?project= query parameter.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, _, _, ok := h.resolveCreateTarget(ctx, w, r, query.Get(r, "project"))
	if !ok {
		return
	}

	data := newData{
		ProjectID:  p.ID.Hex(),
		Priority:   models.PriorityLow,
		Priorities: priorityChoices,
	}
	formutil.SetBase(&data.Base, r, "New Ticket", "/projects/"+p.ID.Hex()+"/view")
	templates.Render(w, r, "ticket_new", data)
}

// HandleCreate processes the New Ticket form submission. The new
// ticket's subscriber set starts from every project subscriber; the
// submitter joins it too when they are a team member and have the
// auto-subscribe preference enabled.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/teams")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, role, userID, ok := h.resolveCreateTarget(ctx, w, r, strings.TrimSpace(r.FormValue("project")))
	if !ok {
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	priority := normalize.Priority(r.FormValue("priority"))
	if priority == "" {
		priority = models.PriorityLow
	}
	backURL := "/projects/" + p.ID.Hex() + "/view"

	renderWithError := func(msg string) {
		data := newData{
			ProjectID:   p.ID.Hex(),
			TicketTitle: title,
			Description: description,
			Priority:    priority,
			Priorities:  priorityChoices,
		}
		formutil.SetBase(&data.Base, r, "New Ticket", backURL)
		data.SetError(msg)
		templates.Render(w, r, "ticket_new", data)
	}

	input := createTicketInput{Title: title, Description: description}
	if result := inputval.Validate(input); result.HasErrors() {
		renderWithError(result.First())
		return
	}
	if !models.ValidPriority(priority) {
		renderWithError("Priority is invalid.")
		return
	}

	subscribers := subscriberSeed(p, role, userID, h.submitterAutoSubscribes(ctx, userID))

	t, err := ticketstore.New(h.DB).Create(ctx, models.Ticket{
		ProjectID:     p.ID,
		TeamID:        p.TeamID,
		SubmitterID:   userID,
		Title:         title,
		Description:   description,
		Priority:      priority,
		SubscriberIDs: subscribers,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create ticket failed", err, "Database error while creating the ticket.", backURL)
		return
	}

	h.Log.Info("ticket created",
		zap.String("ticket_id", t.ID.Hex()),
		zap.String("project_id", p.ID.Hex()))

	tc := ticketCtx{Ticket: t, Project: p, TeamID: *p.TeamID, UserID: userID, Role: role}
	h.notifyTicketEvent(ctx, tc, func(team models.Team, actor models.User) {
		h.Notify.TicketCreated(ctx, team, p, t, actor)
	})

	http.Redirect(w, r, "/tickets/"+t.ID.Hex()+"/view", http.StatusSeeOther)
}

// subscriberSeed builds a new ticket's initial subscriber set: all
// project subscribers, plus the submitter when autoSubscribe holds and
// they belong to the team.
func subscriberSeed(p models.Project, role models.Role, submitterID primitive.ObjectID, autoSubscribe bool) []primitive.ObjectID {
	subs := make([]primitive.ObjectID, len(p.SubscriberIDs))
	copy(subs, p.SubscriberIDs)
	if role != models.RoleNone && autoSubscribe && !containsID(subs, submitterID) {
		subs = append(subs, submitterID)
	}
	return subs
}

// submitterAutoSubscribes reads the submitter's auto-subscribe
// preference. Lookup failures fall back to the default (enabled).
func (h *Handler) submitterAutoSubscribes(ctx context.Context, userID primitive.ObjectID) bool {
	u, err := userstore.New(h.DB).GetByID(ctx, userID)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			h.Log.Warn("load submitter preferences", zap.Error(err))
		}
		return models.NotificationDefaults[models.NotifyAutoSubscribe]
	}
	return u.NotificationEnabled(models.NotifyAutoSubscribe)
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
