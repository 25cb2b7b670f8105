// internal/app/features/teams/list.go
package teams

import (
	"context"
	"maps"
	"net/http"

	membershipstore "github.com/dalemusser/trackhub/internal/app/store/memberships"
	teamstore "github.com/dalemusser/trackhub/internal/app/store/teams"
	"github.com/dalemusser/trackhub/internal/app/system/authz"
	"github.com/dalemusser/trackhub/internal/app/system/formutil"
	"github.com/dalemusser/trackhub/internal/app/system/gates"
	"github.com/dalemusser/trackhub/internal/app/system/paging"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/text"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ServeList handles GET /teams.
// Members see the teams they belong to; staff see a paged listing of
// every team with optional ?q= search on the title.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r, "/login")
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if authz.IsStaff(r) {
		h.serveStaffList(ctx, w, r)
		return
	}

	memberships, err := membershipstore.New(h.DB).ListForUser(ctx, res.UserID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list memberships failed", err, "Unable to load your teams.", "/")
		return
	}

	roleByTeam := make(map[primitive.ObjectID]string, len(memberships))
	teamIDs := make([]primitive.ObjectID, 0, len(memberships))
	for _, m := range memberships {
		teamIDs = append(teamIDs, m.TeamID)
		roleByTeam[m.TeamID] = m.Role.String()
	}

	teams, err := teamstore.New(h.DB).GetMany(ctx, teamIDs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load teams failed", err, "Unable to load your teams.", "/")
		return
	}

	items := make([]listItem, 0, len(teams))
	for _, t := range teams {
		items = append(items, listItem{
			ID:          t.ID,
			Title:       t.Title,
			Slug:        t.Slug,
			Description: t.Description,
			Role:        roleByTeam[t.ID],
		})
	}

	data := listData{Items: items, Shown: len(items)}
	formutil.SetBase(&data.Base, r, "Teams", "/")
	templates.Render(w, r, "team_list", data)
}

// serveStaffList renders the paged all-teams listing for staff accounts.
func (h *Handler) serveStaffList(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	q := query.Search(r, "q")
	after := query.Get(r, "after")
	before := query.Get(r, "before")
	start := paging.ParseStart(r)

	base := bson.M{}
	if q != "" {
		if fq := text.Fold(q); fq != "" {
			base["title_ci"] = bson.M{"$gte": fq, "$lt": fq + "￿"}
		}
	}

	total, err := h.DB.Collection("teams").CountDocuments(ctx, base)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count teams failed", err, "Unable to load teams.", "/")
		return
	}

	f := maps.Clone(base)
	find := options.Find()
	sortField := "title_ci"

	cfg := paging.ConfigureKeyset(before, after)
	cfg.ApplyToFind(find, sortField)
	if ks := cfg.KeysetWindow(sortField); ks != nil {
		maps.Copy(f, ks)
	}

	type teamRow struct {
		ID          primitive.ObjectID `bson:"_id"`
		Title       string             `bson:"title"`
		TitleCI     string             `bson:"title_ci"`
		Slug        string             `bson:"slug"`
		Description string             `bson:"description"`
	}

	cur, err := h.DB.Collection("teams").Find(ctx, f, find)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find teams failed", err, "Unable to load teams.", "/")
		return
	}
	defer cur.Close(ctx)

	var rows []teamRow
	if err := cur.All(ctx, &rows); err != nil {
		h.ErrLog.LogServerError(w, r, "decode teams failed", err, "Unable to load teams.", "/")
		return
	}

	if cfg.Direction == paging.Backward {
		paging.Reverse(rows)
	}
	page := paging.TrimPage(&rows, before, after)

	shown := len(rows)
	rng := paging.ComputeRange(start, shown)

	prevCursor, nextCursor := paging.BuildCursors(rows,
		func(t teamRow) string { return t.TitleCI },
		func(t teamRow) primitive.ObjectID { return t.ID })

	items := make([]listItem, 0, len(rows))
	for _, t := range rows {
		items = append(items, listItem{
			ID:          t.ID,
			Title:       t.Title,
			TitleCI:     t.TitleCI,
			Slug:        t.Slug,
			Description: t.Description,
		})
	}

	data := listData{
		Q:          q,
		Items:      items,
		Paged:      true,
		Shown:      shown,
		Total:      total,
		HasPrev:    page.HasPrev,
		HasNext:    page.HasNext,
		PrevCursor: prevCursor,
		NextCursor: nextCursor,
		RangeStart: rng.Start,
		RangeEnd:   rng.End,
		PrevStart:  rng.PrevStart,
		NextStart:  rng.NextStart,
	}
	formutil.SetBase(&data.Base, r, "Teams", "/")
	templates.Render(w, r, "team_list", data)
}
