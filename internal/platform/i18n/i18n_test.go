package i18n

import (
	"testing"
	"time"

	"golang.org/x/text/language"
)

func TestParseTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value  string
		want   string
		wantOK bool
	}{
		{value: "en-US", want: "en-US", wantOK: true},
		{value: "pt-BR", want: "pt-BR", wantOK: true},
		{value: "pt", want: "pt-BR", wantOK: true},
		{value: "", want: "en-US", wantOK: false},
		{value: "not a tag!", want: "en-US", wantOK: false},
		{value: "ja-JP", want: "en-US", wantOK: false},
	}
	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseTag(tc.value)
			if ok != tc.wantOK {
				t.Fatalf("ParseTag(%q) ok = %v, want %v", tc.value, ok, tc.wantOK)
			}
			if got.String() != tc.want {
				t.Fatalf("ParseTag(%q) = %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}

func TestMatchTags(t *testing.T) {
	t.Parallel()

	if got := MatchTags(nil); got != DefaultTag() {
		t.Fatalf("MatchTags(nil) = %q, want default", got)
	}
	prefs := []language.Tag{language.MustParse("pt-BR"), language.English}
	if got := MatchTags(prefs).String(); got != "pt-BR" {
		t.Fatalf("MatchTags(pt-BR, en) = %q, want pt-BR", got)
	}
}

func TestFormatDate(t *testing.T) {
	t.Parallel()

	stamp := time.Date(2024, time.March, 5, 23, 30, 0, 0, time.UTC)
	if got := FormatDate(language.MustParse("en-US"), stamp); got != "3/5/2024" {
		t.Fatalf("en-US date = %q", got)
	}
	if got := FormatDate(language.MustParse("pt-BR"), stamp); got != "05/03/2024" {
		t.Fatalf("pt-BR date = %q", got)
	}
	if got := FormatDate(language.MustParse("en-US"), time.Time{}); got != "" {
		t.Fatalf("zero date = %q, want empty", got)
	}
}

func TestSupportedTagsReturnsCopy(t *testing.T) {
	t.Parallel()

	tags := SupportedTags()
	tags[0] = language.Japanese
	if SupportedTags()[0] != DefaultTag() {
		t.Fatal("SupportedTags must not expose internal slice")
	}
}
