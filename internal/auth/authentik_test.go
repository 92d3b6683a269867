package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	u := UserFrom(r.Context())
	w.Write([]byte(u.Username))
})

func sessionFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestMockAuthFlow(t *testing.T) {
	m := NewMockAuth()
	protected := m.Middleware(RequireCommissioner(okHandler))

	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/drafts/x/start", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	login := httptest.NewRecorder()
	m.LoginHandler(login, httptest.NewRequest(http.MethodGet, "/auth/login", nil))
	assert.Equal(t, http.StatusSeeOther, login.Code)
	cookie := sessionFrom(t, login)

	req := httptest.NewRequest(http.MethodPost, "/api/drafts/x/start", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "commissioner", rec.Body.String())

	logout := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	logout.AddCookie(cookie)
	m.LogoutHandler(httptest.NewRecorder(), logout)

	req = httptest.NewRequest(http.MethodPost, "/api/drafts/x/start", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionsExpire(t *testing.T) {
	s := newSessions()
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	sess := s.create(DevUser(), nil, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: sess.ID})
	_, ok := s.lookup(req)
	assert.True(t, ok)

	now = now.Add(2 * time.Hour)
	_, ok = s.lookup(req)
	assert.False(t, ok)
}

func TestRequireCommissioner(t *testing.T) {
	tests := []struct {
		name string
		user *User
		want int
	}{
		{"anonymous", nil, http.StatusForbidden},
		{"player", &User{Username: "fan", Groups: []string{"users"}}, http.StatusForbidden},
		{"commissioner", &User{Username: "comm", Groups: []string{GroupCommissioners}}, http.StatusOK},
		{"admin", &User{Username: "root", Groups: []string{GroupAdmins}}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.user != nil {
				req = req.WithContext(WithUser(req.Context(), tt.user))
			}
			rec := httptest.NewRecorder()
			RequireCommissioner(okHandler).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func fakeAuthentik(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/application/o/token/", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.Form.Get("code") != "good-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "access-123",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/application/o/userinfo/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-123" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"sub":                "u-1",
			"email":              "sam@example.com",
			"name":               "Sam",
			"preferred_username": "sam",
			"groups":             []string{"users", "commissioners"},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestAuthentikLoginRedirect(t *testing.T) {
	a := NewAuthentikAuth(&AuthentikConfig{BaseURL: "https://auth.example.com", ClientID: "draftsim", RedirectURL: "http://localhost:3000/auth/callback"})

	rec := httptest.NewRecorder()
	a.LoginHandler(rec, httptest.NewRequest(http.MethodGet, "/auth/login", nil))
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/application/o/authorize/", loc.Path)
	assert.Equal(t, "draftsim", loc.Query().Get("client_id"))
	assert.NotEmpty(t, loc.Query().Get("state"))
	assert.Contains(t, loc.Query().Get("scope"), "groups")
}

func TestAuthentikCallback(t *testing.T) {
	srv := fakeAuthentik(t)
	a := NewAuthentikAuth(&AuthentikConfig{BaseURL: srv.URL, ClientID: "draftsim", ClientSecret: "s"})

	callback := func(state, cookieState, code string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/auth/callback?state="+state+"&code="+code, nil)
		if cookieState != "" {
			req.AddCookie(&http.Cookie{Name: stateCookie, Value: cookieState})
		}
		rec := httptest.NewRecorder()
		a.CallbackHandler(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusBadRequest, callback("abc", "", "good-code").Code)
	assert.Equal(t, http.StatusBadRequest, callback("abc", "xyz", "good-code").Code)
	assert.Equal(t, http.StatusBadGateway, callback("abc", "abc", "bad-code").Code)

	rec := callback("abc", "abc", "good-code")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	cookie := sessionFrom(t, rec)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(cookie)
	got := httptest.NewRecorder()
	a.Middleware(RequireCommissioner(okHandler)).ServeHTTP(got, req)
	assert.Equal(t, http.StatusOK, got.Code)
	assert.Equal(t, "sam", got.Body.String())

	logout := httptest.NewRecorder()
	a.LogoutHandler(logout, req)
	assert.True(t, strings.HasSuffix(logout.Header().Get("Location"), "/application/o/draftsim/end-session/"))
}

func TestSessionUser(t *testing.T) {
	m := NewMockAuth()
	_, ok := m.SessionUser("unknown")
	assert.False(t, ok)

	login := httptest.NewRecorder()
	m.LoginHandler(login, httptest.NewRequest(http.MethodGet, "/auth/login", nil))
	cookie := sessionFrom(t, login)

	user, ok := m.SessionUser(cookie.Value)
	require.True(t, ok)
	assert.Equal(t, DevUser(), user)
	assert.True(t, IsCommissioner(user))

	logout := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	logout.AddCookie(cookie)
	m.LogoutHandler(httptest.NewRecorder(), logout)
	_, ok = m.SessionUser(cookie.Value)
	assert.False(t, ok)
}
