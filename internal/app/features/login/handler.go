// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/trackhub/internal/app/features/errors"
	userstore "github.com/dalemusser/trackhub/internal/app/store/users"
	"github.com/dalemusser/trackhub/internal/app/system/auth"
	"github.com/dalemusser/trackhub/internal/app/system/formutil"
	"github.com/dalemusser/trackhub/internal/app/system/inputval"
	"github.com/dalemusser/trackhub/internal/app/system/limits"
	"github.com/dalemusser/trackhub/internal/app/system/normalize"
	"github.com/dalemusser/trackhub/internal/app/system/ratelimit"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

type Handler struct {
	Users  *userstore.Store
	ErrLog *uierrors.ErrorLogger
	Limits *ratelimit.LoginLimiter
	Log    *zap.Logger
}

func NewHandler(users *userstore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:  users,
		ErrLog: errLog,
		Limits: ratelimit.NewLoginLimiter(),
		Log:    logger,
	}
}

type loginFormData struct {
	formutil.Base
	Username  string
	ReturnURL string
}

type registerFormData struct {
	formutil.Base
	Username string
	Name     string
	Email    string
}

// ServeLogin handles GET /login.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if _, signedIn := auth.CurrentUser(r); signedIn {
		http.Redirect(w, r, "/teams", http.StatusSeeOther)
		return
	}

	data := loginFormData{
		ReturnURL: urlutil.SafeReturn(query.Get(r, "return"), "", ""),
	}
	formutil.SetBase(&data.Base, r, "Sign in", "/")
	templates.Render(w, r, "login", data)
}

// HandleLoginPost handles POST /login.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse login form failed", err, "Invalid form data.", "/login")
		return
	}

	username := normalize.Name(r.FormValue("username"))
	password := r.FormValue("password")
	returnURL := urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "")

	reRender := func(msg string) {
		data := loginFormData{
			Username:  username,
			ReturnURL: returnURL,
		}
		formutil.SetBase(&data.Base, r, "Sign in", "/")
		data.SetError(msg)
		templates.Render(w, r, "login", data)
	}

	if username == "" || password == "" {
		reRender("Username and password are required.")
		return
	}

	if ok, reason := h.Limits.Check(r, username); !ok {
		h.Log.Warn("login rate limited",
			zap.String("username", username),
			zap.String("ip", ratelimit.ClientIP(r)))
		reRender(reason)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Same message as a wrong password so usernames can't be enumerated.
			reRender("Invalid username or password.")
			return
		}
		h.ErrLog.LogServerError(w, r, "login lookup failed", err, "A database error occurred.", "/login")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		reRender("Invalid username or password.")
		return
	}

	h.Limits.ResetAccount(username)

	if err := auth.SignIn(w, r, auth.SessionUser{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
		IsStaff:  u.IsStaff,
	}); err != nil {
		h.ErrLog.LogServerError(w, r, "session save failed", err, "Unable to sign in.", "/login")
		return
	}

	h.Log.Info("user signed in", zap.String("username", u.Username))

	if returnURL == "" {
		returnURL = "/teams"
	}
	http.Redirect(w, r, returnURL, http.StatusSeeOther)
}

// ServeRegister handles GET /register.
func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	if _, signedIn := auth.CurrentUser(r); signedIn {
		http.Redirect(w, r, "/teams", http.StatusSeeOther)
		return
	}

	var data registerFormData
	formutil.SetBase(&data.Base, r, "Create account", "/login")
	templates.Render(w, r, "register", data)
}

// HandleRegisterPost handles POST /register.
func (h *Handler) HandleRegisterPost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse register form failed", err, "Invalid form data.", "/register")
		return
	}

	username := normalize.Name(r.FormValue("username"))
	name := normalize.Name(r.FormValue("name"))
	email := normalize.Email(r.FormValue("email"))
	password := r.FormValue("password")

	reRender := func(msg string) {
		data := registerFormData{
			Username: username,
			Name:     name,
			Email:    email,
		}
		formutil.SetBase(&data.Base, r, "Create account", "/login")
		data.SetError(msg)
		templates.Render(w, r, "register", data)
	}

	if username == "" {
		reRender("Username is required.")
		return
	}
	// '@' is reserved so usernames and emails stay distinguishable in
	// the invitation form.
	if strings.Contains(username, "@") {
		reRender("Username may not contain '@'.")
		return
	}
	if email != "" && !inputval.IsValidEmail(email) {
		reRender("Email address is invalid.")
		return
	}
	if len(password) < minPasswordLen {
		reRender("Password must be at least 8 characters.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password failed", err, "Unable to create account.", "/register")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		Username:     username,
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateUsername) {
			reRender("That username is taken.")
			return
		}
		h.ErrLog.LogServerError(w, r, "create user failed", err, "A database error occurred.", "/register")
		return
	}

	if err := auth.SignIn(w, r, auth.SessionUser{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
	}); err != nil {
		h.ErrLog.LogServerError(w, r, "session save failed", err, "Account created; please sign in.", "/login")
		return
	}

	h.Log.Info("user registered", zap.String("username", u.Username))
	http.Redirect(w, r, "/teams", http.StatusSeeOther)
}
