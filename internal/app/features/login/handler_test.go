package login_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/trackhub/internal/app/features/errors"
	"github.com/dalemusser/trackhub/internal/app/features/login"
	userstore "github.com/dalemusser/trackhub/internal/app/store/users"
	"github.com/dalemusser/trackhub/internal/app/system/auth"
	"github.com/dalemusser/trackhub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *login.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	if err := auth.InitSessionStore("test-session-key-for-testing-only-32ch", "", false, logger); err != nil {
		t.Fatalf("InitSessionStore failed: %v", err)
	}

	users := userstore.New(db)
	return login.NewHandler(users, uierrors.NewErrorLogger(logger), logger)
}

// renderSafe runs fn and swallows template panics; handlers render
// templates that are only fully registered by the app bootstrap.
func renderSafe(fn func()) {
	defer func() { _ = recover() }()
	fn()
}

func TestServeLogin_SignedInRedirectsToTeams(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest("GET", "/login", nil)
	req = testutil.WithAnonymousStaff(req)
	rec := httptest.NewRecorder()

	handler.ServeLogin(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/teams" {
		t.Errorf("Location: got %q, want %q", loc, "/teams")
	}
}

func TestHandleLoginPost_MissingFields_DoesNotSignIn(t *testing.T) {
	handler := newTestHandler(t)

	form := url.Values{"username": {""}, "password": {""}}
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	renderSafe(func() { handler.HandleLoginPost(rec, req) })

	if rec.Code == http.StatusSeeOther {
		t.Error("expected no redirect for missing credentials")
	}
}

func TestHandleLoginPost_UnknownUser_DoesNotSignIn(t *testing.T) {
	handler := newTestHandler(t)

	form := url.Values{"username": {"nobody"}, "password": {"whatever123"}}
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	renderSafe(func() { handler.HandleLoginPost(rec, req) })

	if rec.Code == http.StatusSeeOther {
		t.Error("expected no redirect for unknown user")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("expected no session cookie for unknown user")
	}
}

func TestHandleRegisterPost_ThenLogin(t *testing.T) {
	handler := newTestHandler(t)

	form := url.Values{
		"username": {"casey"},
		"name":     {"Casey"},
		"password": {"hunter2hunter2"},
	}
	req := httptest.NewRequest("POST", "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	handler.HandleRegisterPost(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("register: expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/teams" {
		t.Errorf("register Location: got %q, want %q", loc, "/teams")
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("register: expected a session cookie")
	}

	// The new credentials sign in.
	form = url.Values{"username": {"casey"}, "password": {"hunter2hunter2"}}
	req = httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()

	handler.HandleLoginPost(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login: expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("login: expected a session cookie")
	}
}

func TestHandleLoginPost_WrongPassword_DoesNotSignIn(t *testing.T) {
	handler := newTestHandler(t)

	form := url.Values{
		"username": {"dana"},
		"password": {"correct-horse-battery"},
	}
	req := httptest.NewRequest("POST", "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.HandleRegisterPost(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("register: expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	form = url.Values{"username": {"dana"}, "password": {"not-the-password"}}
	req = httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()

	renderSafe(func() { handler.HandleLoginPost(rec, req) })

	if rec.Code == http.StatusSeeOther {
		t.Error("expected no redirect for wrong password")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("expected no session cookie for wrong password")
	}
}

func TestHandleRegisterPost_RejectsAtSignInUsername(t *testing.T) {
	handler := newTestHandler(t)

	form := url.Values{
		"username": {"casey@example.com"},
		"password": {"hunter2hunter2"},
	}
	req := httptest.NewRequest("POST", "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	renderSafe(func() { handler.HandleRegisterPost(rec, req) })

	if rec.Code == http.StatusSeeOther {
		t.Error("expected no redirect for username containing '@'")
	}
}

func TestHandleRegisterPost_ShortPasswordRejected(t *testing.T) {
	handler := newTestHandler(t)

	form := url.Values{
		"username": {"casey"},
		"password": {"short"},
	}
	req := httptest.NewRequest("POST", "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	renderSafe(func() { handler.HandleRegisterPost(rec, req) })

	if rec.Code == http.StatusSeeOther {
		t.Error("expected no redirect for a short password")
	}
}

func TestHandleRegisterPost_DuplicateUsername(t *testing.T) {
	handler := newTestHandler(t)

	form := url.Values{
		"username": {"casey"},
		"password": {"hunter2hunter2"},
	}
	req := httptest.NewRequest("POST", "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.HandleRegisterPost(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("first register: expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	req = httptest.NewRequest("POST", "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()

	renderSafe(func() { handler.HandleRegisterPost(rec, req) })

	if rec.Code == http.StatusSeeOther {
		t.Error("expected no redirect for a duplicate username")
	}
}

func TestHandleLoginPost_RateLimitsRepeatedFailures(t *testing.T) {
	handler := newTestHandler(t)

	form := url.Values{
		"username": {"mallory"},
		"password": {"the-real-password"},
	}
	req := httptest.NewRequest("POST", "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.HandleRegisterPost(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("register: expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	// Burn through the per-account budget with wrong passwords.
	for i := 0; i < 5; i++ {
		form = url.Values{"username": {"mallory"}, "password": {"guess"}}
		req = httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec = httptest.NewRecorder()
		renderSafe(func() { handler.HandleLoginPost(rec, req) })
	}

	// Even the correct password is refused until the window passes.
	form = url.Values{"username": {"mallory"}, "password": {"the-real-password"}}
	req = httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()

	renderSafe(func() { handler.HandleLoginPost(rec, req) })

	if rec.Code == http.StatusSeeOther {
		t.Error("expected rate limit to block the sixth attempt")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("expected no session cookie while rate limited")
	}
}
