package config

import (
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func newFS() *flag.FlagSet { return flag.NewFlagSet("test", flag.ContinueOnError) }

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(newFS(), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Addr != "127.0.0.1:8050" || cfg.LogLevel != "info" || !cfg.OpenBrowser || cfg.Strict {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.SumTolerancePct != DefaultSumTolerancePct || cfg.CacheTTL != 10*time.Minute || cfg.AssetsHost != DefaultAssetsHost {
		t.Fatalf("defaults = %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"*"}) {
		t.Fatalf("cors origins = %v", cfg.CORSOrigins)
	}
	if cfg.URL() != "http://127.0.0.1:8050/" {
		t.Fatalf("url = %s", cfg.URL())
	}
}

func TestParse_EnvThenFlags(t *testing.T) {
	t.Setenv("POPDASH_ADDR", "0.0.0.0:9000")
	t.Setenv("POPDASH_OPEN_BROWSER", "false")
	t.Setenv("POPDASH_LOG_LEVEL", "debug")
	t.Setenv("POPDASH_CORS_ORIGINS", "http://a.test,http://b.test")
	cfg, err := Parse(newFS(), []string{"-log-level", "warn", "-strict"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Addr != "0.0.0.0:9000" || cfg.OpenBrowser {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.LogLevel != "warn" || !cfg.Strict {
		t.Fatalf("flags did not override env: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("cors origins = %v", cfg.CORSOrigins)
	}
	if cfg.URL() != "http://127.0.0.1:9000/" {
		t.Fatalf("wildcard host url = %s", cfg.URL())
	}
}

func TestParse_EnvOverridesSharedDefaults(t *testing.T) {
	t.Setenv("POPDASH_SUM_TOLERANCE_PCT", "2.5")
	t.Setenv("POPDASH_ASSETS_HOST", "http://assets.test/")
	cfg, err := Parse(newFS(), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.SumTolerancePct != 2.5 || cfg.AssetsHost != "http://assets.test/" {
		t.Fatalf("env did not replace shared defaults: %+v", cfg)
	}
	if d := Defaults(); d.SumTolerancePct != DefaultSumTolerancePct || d.AssetsHost != DefaultAssetsHost {
		t.Fatalf("Defaults() = %+v", d)
	}
}

func TestParse_Errors(t *testing.T) {
	t.Setenv("POPDASH_CACHE_TTL", "soon")
	_, err := Parse(newFS(), nil)
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env error, got %v", err)
	}
	os.Unsetenv("POPDASH_CACHE_TTL")

	cases := [][]string{
		{"-addr", "8050"},
		{"-log-level", "chatty"},
		{"-sum-tolerance", "-1"},
	}
	for _, args := range cases {
		if _, err := Parse(newFS(), args); err == nil || !strings.HasPrefix(err.Error(), "config:") {
			t.Fatalf("args %v: expected config error, got %v", args, err)
		}
	}
	if _, err := Parse(newFS(), []string{"-no-such-flag"}); err == nil || !strings.Contains(err.Error(), "parse flags:") {
		t.Fatalf("expected parse flags error, got %v", err)
	}
	if _, err := Parse(nil, nil); err == nil {
		t.Fatalf("nil flag set must fail")
	}
}

func TestLoadDataset_StrictAndTolerance(t *testing.T) {
	cfg, err := Parse(newFS(), []string{"-strict"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ds, err := LoadDataset(cfg)
	if err != nil {
		t.Fatalf("embedded dataset must pass strict at default tolerance: %v", err)
	}
	if ds.Len() != 4 {
		t.Fatalf("len = %d", ds.Len())
	}
	cfg.SumTolerancePct = 1
	if _, err := LoadDataset(cfg); err == nil {
		t.Fatalf("expected strict failure at 1%% tolerance")
	}
	cfg.Strict = false
	if _, err := LoadDataset(cfg); err != nil {
		t.Fatalf("non-strict mode must only warn: %v", err)
	}
}

func TestLoadDataset_File(t *testing.T) {
	p := filepath.Join(t.TempDir(), "states.json")
	if err := os.WriteFile(p, []byte(`[{"State":"Ohio","Total":3,"WhiteTotal":2,"BlackTotal":1}]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Parse(newFS(), []string{"-data", p})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ds, err := LoadDataset(cfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if names := ds.Names(); len(names) != 1 || names[0] != "Ohio" {
		t.Fatalf("names = %v", names)
	}
}
