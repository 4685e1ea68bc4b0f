package catalog

import (
	"sort"
	"testing"
	"testing/fstest"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func TestLoadEmbeddedHasExpectedLocales(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	if got := bundle.Locales(); len(got) != 2 || got[0] != "en-US" || got[1] != "pt-BR" {
		t.Fatalf("Locales() = %v, want [en-US pt-BR]", got)
	}
	if got := len(bundle.LocaleMessages(BaseLocale)); got == 0 {
		t.Fatal("expected en-US messages")
	}
}

func TestEmbeddedLocalesDefineSameKeys(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	base := sortedKeys(bundle.LocaleMessages(BaseLocale))
	for _, locale := range bundle.Locales() {
		keys := sortedKeys(bundle.LocaleMessages(locale))
		if len(keys) != len(base) {
			t.Fatalf("locale %s has %d keys, base has %d", locale, len(keys), len(base))
		}
		for i := range keys {
			if keys[i] != base[i] {
				t.Fatalf("locale %s key %q does not match base key %q", locale, keys[i], base[i])
			}
		}
	}
}

func TestLoadFromFSRejectsCoreKeyOutsideCoreNamespace(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en-US/web.yaml": {Data: []byte("locale: en-US\nnamespace: web\nmessages:\n  \"core.bad\": \"nope\"\n")},
	}
	if _, err := LoadFromFS(fsys); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadFromFSRejectsDuplicateKeysAcrossNamespaces(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en-US/core.yaml": {Data: []byte("locale: en-US\nnamespace: core\nmessages:\n  \"core.a\": \"a\"\n")},
		"locales/en-US/web.yaml":  {Data: []byte("locale: en-US\nnamespace: web\nmessages:\n  \"a.key\": \"a\"\n")},
		"locales/en-US/more.yaml": {Data: []byte("locale: en-US\nnamespace: more\nmessages:\n  \"a.key\": \"b\"\n")},
	}
	if _, err := LoadFromFS(fsys); err == nil {
		t.Fatal("expected duplicate key error")
	}
}

func TestLoadFromFSRejectsLocaleMismatch(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en-US/web.yaml": {Data: []byte("locale: pt-BR\nnamespace: web\nmessages:\n  \"a.key\": \"a\"\n")},
	}
	if _, err := LoadFromFS(fsys); err == nil {
		t.Fatal("expected locale mismatch error")
	}
}

func TestLoadFromFSRequiresBaseLocale(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/pt-BR/web.yaml": {Data: []byte("locale: pt-BR\nnamespace: web\nmessages:\n  \"a.key\": \"a\"\n")},
	}
	if _, err := LoadFromFS(fsys); err == nil {
		t.Fatal("expected missing base locale error")
	}
}

func TestMessageFallsBackToBaseLocale(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	value, ok := bundle.Message("fr-FR", "projects.empty.title")
	if !ok || value != "No projects yet" {
		t.Fatalf("Message(fr-FR) = %q, %v", value, ok)
	}
	if _, ok := bundle.Message(BaseLocale, "missing.key"); ok {
		t.Fatal("expected missing key to report false")
	}
}

func TestDefaultRegistersPrinterMessages(t *testing.T) {
	_ = Default()
	printer := message.NewPrinter(language.MustParse("pt-BR"))
	if got := printer.Sprintf("projects.empty.title"); got != "Nenhum projeto ainda" {
		t.Fatalf("pt-BR printer = %q", got)
	}
	printer = message.NewPrinter(language.Portuguese)
	if got := printer.Sprintf("tasks.badge.active"); got != "Ativa" {
		t.Fatalf("pt printer = %q", got)
	}
}

func sortedKeys(messages map[string]string) []string {
	keys := make([]string, 0, len(messages))
	for key := range messages {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
