package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "4000")
	t.Setenv("SHARE_TTL", "168h")
	t.Setenv("CASCADE_TABLE_DELETE", "false")
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("PUBLIC_URL", "http://localhost:4000/")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "4000" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.ShareTTL != 168*time.Hour {
		t.Errorf("ShareTTL = %s", cfg.ShareTTL)
	}
	if cfg.CascadeTableDelete {
		t.Error("CascadeTableDelete should default to false")
	}
	if cfg.PublicURL != "http://localhost:4000" {
		t.Errorf("PublicURL = %q, want trailing slash trimmed", cfg.PublicURL)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"*"}) {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tt := []struct {
		name string
		key  string
		val  string
	}{
		{name: "bad ttl", key: "SHARE_TTL", val: "a week"},
		{name: "negative ttl", key: "SHARE_TTL", val: "-1h"},
		{name: "bad bool", key: "CASCADE_TABLE_DELETE", val: "maybe"},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv("SHARE_TTL", "1h")
			t.Setenv("CASCADE_TABLE_DELETE", "true")
			t.Setenv(tc.key, tc.val)
			if _, err := LoadConfig(); err == nil {
				t.Fatalf("expected error for %s=%q", tc.key, tc.val)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList(" http://a.test , ,http://b.test")
	want := []string{"http://a.test", "http://b.test"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitList = %v, want %v", got, want)
	}
	if SplitList("") != nil {
		t.Fatal("empty input should yield nil")
	}
}
