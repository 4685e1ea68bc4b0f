package config

import (
	"reflect"
	"strings"
	"testing"
)

type envTestConfig struct {
	Port int `env:"GEODEV_TEST_PORT" envDefault:"123"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("GEODEV_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	got := SplitList(" http://a , ,http://b,")
	want := []string{"http://a", "http://b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitList() = %v, want %v", got, want)
	}
	if got := SplitList(""); len(got) != 0 {
		t.Fatalf("SplitList(\"\") = %v, want empty", got)
	}
}
