package config

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Models: map[string]Model{
			"products": {
				SearchableFields: []any{"sku", "title"},
				Translatable: Translatable{
					Fields:         []any{"title"},
					Locales:        []string{"en", "lv"},
					FallbackLocale: "en",
				},
			},
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_BadPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for port 0")
	}
}

func TestValidate_BadCacheDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Driver = "memcached"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown cache driver")
	}
}

func TestValidate_RedisRequiresAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Driver = "redis"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "cache.addrs") {
		t.Errorf("error = %q", err)
	}
}

func TestValidate_MissingSearchableFields(t *testing.T) {
	cfg := validConfig()
	m := cfg.Models["products"]
	m.SearchableFields = nil
	cfg.Models["products"] = m
	cfg.ApplyDefaults()

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "models.products.searchable_fields") {
		t.Errorf("error = %q", err)
	}
}

func TestValidate_TranslatableNeedsLocales(t *testing.T) {
	cfg := validConfig()
	m := cfg.Models["products"]
	m.Translatable.Locales = nil
	m.Translatable.FallbackLocale = ""
	cfg.Models["products"] = m
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for translatable fields without locales")
	}
}

func TestValidate_FallbackOutsideLocales(t *testing.T) {
	cfg := validConfig()
	m := cfg.Models["products"]
	m.Translatable.FallbackLocale = "ru"
	cfg.Models["products"] = m
	cfg.ApplyDefaults()

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "fallback_locale") {
		t.Errorf("error = %q", err)
	}
}

func TestApplyDefaults_ModelDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	m := cfg.Models["products"]
	if m.Index.Name != "products" {
		t.Errorf("index name = %q, want model name", m.Index.Name)
	}
	if m.ChunkSize != 500 {
		t.Errorf("chunk size = %d, want default 500", m.ChunkSize)
	}
	if m.Version != "1" {
		t.Errorf("version = %q, want \"1\"", m.Version)
	}
	if cfg.Cache.Driver != "memory" {
		t.Errorf("cache driver = %q, want memory", cfg.Cache.Driver)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("ESDEX_TEST_PASSWORD", "s3cret")

	data := expandEnvVars([]byte("password: ${ESDEX_TEST_PASSWORD}\nprefix: ${ESDEX_TEST_MISSING:-esdex:}"))
	got := string(data)
	if !strings.Contains(got, "s3cret") {
		t.Errorf("env var not expanded: %q", got)
	}
	if !strings.Contains(got, "esdex:") {
		t.Errorf("default not applied: %q", got)
	}
}

func TestModelYAML_MixedFieldTree(t *testing.T) {
	raw := `
searchable_fields:
  - sku
  - title
  - category:
      - title
      - parent:
          - title
translatable:
  fields:
    - title
    - category:
        - title
  locales: [en, lv]
  fallback_locale: en
searchable_fields_boost:
  title: 3.0
  category:
    title: 2.0
chunk_size: 250
`
	var m Model
	if err := yaml.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.SearchableFields == nil {
		t.Fatal("searchable_fields not decoded")
	}
	if m.ChunkSize != 250 {
		t.Errorf("chunk_size = %d", m.ChunkSize)
	}
	if len(m.Translatable.Locales) != 2 {
		t.Errorf("locales = %v", m.Translatable.Locales)
	}
}
