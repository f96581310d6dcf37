package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheck(t *testing.T) {
	g := NewGuard("letmein", true)

	if !g.Check("letmein") {
		t.Error("expected the configured password to check out")
	}
	if g.Check("wrong") {
		t.Error("expected a wrong password to fail")
	}
	if g.Check("") {
		t.Error("expected an empty password to fail")
	}
}

func TestIssueCookie(t *testing.T) {
	g := NewGuard("letmein", true)
	w := httptest.NewRecorder()

	g.IssueCookie(w)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != CookieName {
		t.Errorf("expected cookie name %q, got %q", CookieName, c.Name)
	}
	if c.Value != HashPassword("letmein") {
		t.Error("expected cookie value to be the password hash")
	}
	if !c.HttpOnly {
		t.Error("expected HttpOnly cookie")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Error("expected SameSite=Lax cookie")
	}
	if c.MaxAge != 24*60*60 {
		t.Errorf("expected 24h max age, got %d", c.MaxAge)
	}
	if c.Secure {
		t.Error("expected a non-secure cookie in dev mode")
	}
}

func TestIssueCookieSecureInProduction(t *testing.T) {
	g := NewGuard("letmein", false)
	w := httptest.NewRecorder()

	g.IssueCookie(w)

	if !w.Result().Cookies()[0].Secure {
		t.Error("expected a secure cookie outside dev mode")
	}
}

func TestClearCookie(t *testing.T) {
	g := NewGuard("letmein", true)
	w := httptest.NewRecorder()

	g.ClearCookie(w)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	if cookies[0].Value != "" || cookies[0].MaxAge >= 0 {
		t.Errorf("expected an expired empty cookie, got %+v", cookies[0])
	}
}

func TestRequire(t *testing.T) {
	g := NewGuard("letmein", true)
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guarded := g.Require(next)

	t.Run("no cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		guarded.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/auth", nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("wrong cookie value", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/admin/auth", nil)
		r.AddCookie(&http.Cookie{Name: CookieName, Value: HashPassword("not-it")})
		w := httptest.NewRecorder()
		guarded.ServeHTTP(w, r)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("valid cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/admin/auth", nil)
		r.AddCookie(&http.Cookie{Name: CookieName, Value: HashPassword("letmein")})
		w := httptest.NewRecorder()
		guarded.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})
}
