package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/text/language"
)

func TestResolveTagPrecedence(t *testing.T) {
	t.Run("query param wins", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "http://example.com/?lang=pt-BR", nil)
		req.Header.Set("Accept-Language", "en")
		req.AddCookie(&http.Cookie{Name: LangCookieName, Value: "en"})

		tag, persist := ResolveTag(req)
		if tag.String() != "pt-BR" {
			t.Fatalf("expected pt-BR, got %s", tag.String())
		}
		if !persist {
			t.Fatalf("expected persist to be true")
		}
	})

	t.Run("cookie wins over accept-language", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
		req.Header.Set("Accept-Language", "pt-BR")
		req.AddCookie(&http.Cookie{Name: LangCookieName, Value: "en"})

		tag, persist := ResolveTag(req)
		if tag.String() != "en-US" {
			t.Fatalf("expected en-US, got %s", tag.String())
		}
		if persist {
			t.Fatalf("expected persist to be false")
		}
	})

	t.Run("accept-language fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
		req.Header.Set("Accept-Language", "pt-BR, en;q=0.9")

		tag, persist := ResolveTag(req)
		if tag.String() != "pt-BR" {
			t.Fatalf("expected pt-BR, got %s", tag.String())
		}
		if persist {
			t.Fatalf("expected persist to be false")
		}
	})
}

func TestResolveTagInvalidValues(t *testing.T) {
	t.Run("invalid query param falls back", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "http://example.com/?lang=not-a-lang", nil)
		req.Header.Set("Accept-Language", "pt-BR")

		tag, _ := ResolveTag(req)
		if tag.String() != "pt-BR" {
			t.Fatalf("expected pt-BR, got %s", tag.String())
		}
	})

	t.Run("unsupported cookie falls back", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
		req.AddCookie(&http.Cookie{Name: LangCookieName, Value: "fr"})

		tag, _ := ResolveTag(req)
		if tag.String() != Default().String() {
			t.Fatalf("expected default, got %s", tag.String())
		}
	})
}

func TestSetLanguageCookieNilSafe(t *testing.T) {
	// Should not panic when called with nil ResponseWriter.
	SetLanguageCookie(nil, Default())
}

func TestSetLanguageCookie(t *testing.T) {
	recorder := httptest.NewRecorder()
	SetLanguageCookie(recorder, Default())
	response := recorder.Result()

	cookies := response.Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Name != LangCookieName {
		t.Fatalf("expected cookie name %s, got %s", LangCookieName, cookie.Name)
	}
	if cookie.Value != Default().String() {
		t.Fatalf("expected cookie value %s, got %s", Default().String(), cookie.Value)
	}
	if cookie.Path != "/" {
		t.Fatalf("expected path /, got %s", cookie.Path)
	}
	if cookie.MaxAge <= 0 {
		t.Fatalf("expected MaxAge to be set")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("expected SameSite=Lax, got %v", cookie.SameSite)
	}
}

func TestResolvePersistsExplicitSelection(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "http://example.com/projects?lang=pt-BR", nil)
	recorder := httptest.NewRecorder()
	tag, printer := Resolve(recorder, req)
	if tag.String() != "pt-BR" {
		t.Fatalf("tag = %s, want pt-BR", tag)
	}
	if got := printer.Sprintf("projects.add"); got != "Adicionar Projeto" {
		t.Fatalf("projects.add = %q", got)
	}
	if cookies := recorder.Result().Cookies(); len(cookies) != 1 || cookies[0].Value != "pt-BR" {
		t.Fatalf("cookies = %v", cookies)
	}

	plain := httptest.NewRecorder()
	Resolve(plain, httptest.NewRequest(http.MethodGet, "http://example.com/", nil))
	if cookies := plain.Result().Cookies(); len(cookies) != 0 {
		t.Fatalf("unexpected cookies = %v", cookies)
	}
}

func TestBuildLanguageOptions(t *testing.T) {
	t.Parallel()

	options := BuildLanguageOptions("pt-BR", "/projects/3", "x=1", func(tag language.Tag) string {
		return tag.String() + "-label"
	})
	if len(options) != 2 {
		t.Fatalf("len(options) = %d, want 2", len(options))
	}
	if options[0].Active || !options[1].Active {
		t.Fatalf("active flags = %v/%v", options[0].Active, options[1].Active)
	}
	if options[1].Label != "pt-BR-label" {
		t.Fatalf("label = %q", options[1].Label)
	}
	if options[1].URL != "/projects/3?lang=pt-BR&x=1" {
		t.Fatalf("url = %q", options[1].URL)
	}
}

func TestLanguageURLDefaultsPath(t *testing.T) {
	t.Parallel()

	if got := LanguageURL("", "", "en-US"); got != "/?lang=en-US" {
		t.Fatalf("LanguageURL = %q", got)
	}
	if got := LanguageURL("/projects", "%zz", "en-US"); got != "/projects?lang=en-US" {
		t.Fatalf("LanguageURL = %q", got)
	}
}

func TestLanguageKeyLabel(t *testing.T) {
	t.Parallel()

	if got := LanguageKeyLabel(language.BrazilianPortuguese); got != "core.nav.lang_pt_br" {
		t.Fatalf("pt-BR key = %q", got)
	}
	if got := LanguageKeyLabel(language.AmericanEnglish); got != "core.nav.lang_en" {
		t.Fatalf("en-US key = %q", got)
	}
}
