package mapping

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/kailas-cloud/esdex/internal/domain/fieldtree"
	"github.com/kailas-cloud/esdex/internal/domain/locale"
	"github.com/kailas-cloud/esdex/internal/domain/schema"
)

func parseTree(t *testing.T, raw any) *fieldtree.Tree {
	t.Helper()
	tree, err := fieldtree.Parse(raw)
	if err != nil {
		t.Fatalf("parse tree: %v", err)
	}
	return tree
}

func locales(t *testing.T, codes ...string) locale.Set {
	t.Helper()
	s, err := locale.New(codes, codes[0])
	if err != nil {
		t.Fatalf("locale set: %v", err)
	}
	return s
}

func TestBuild_TranslatableExpandsPerLocale(t *testing.T) {
	svc := New(nil)
	m := svc.Build(
		parseTree(t, []any{"title"}),
		parseTree(t, []any{"title"}),
		locales(t, "en", "lv"),
	)

	en, ok := m["title_en"]
	if !ok {
		t.Fatal("missing title_en entry")
	}
	if en.Type != "text" || en.Analyzer != "english" {
		t.Errorf("title_en = %+v", en)
	}
	lv := m["title_lv"]
	if lv.Analyzer != "latvian" {
		t.Errorf("title_lv analyzer = %q, want latvian", lv.Analyzer)
	}
	if _, ok := m["title"]; ok {
		t.Error("translatable leaf must not keep an unsuffixed entry")
	}
}

func TestBuild_RelationNestingKeepsPerFieldRules(t *testing.T) {
	svc := New(nil)
	m := svc.Build(
		parseTree(t, []any{"sku", map[string]any{"category": []any{"title", "slug"}}}),
		parseTree(t, []any{map[string]any{"category": []any{"title"}}}),
		locales(t, "en"),
	)

	if m["sku"].Type != "keyword" {
		t.Errorf("sku type = %q, want keyword", m["sku"].Type)
	}
	if m["category.title_en"].Analyzer != "english" {
		t.Errorf("category.title_en = %+v", m["category.title_en"])
	}
	if m["category.slug"].Type != "keyword" {
		t.Errorf("category.slug type = %q, want keyword", m["category.slug"].Type)
	}
}

func TestBuild_NeverEmitsBoost(t *testing.T) {
	svc := New(nil)
	m := svc.Build(
		parseTree(t, []any{"title", "sku", map[string]any{"category": []any{"title"}}}),
		parseTree(t, []any{"title"}),
		locales(t, "en", "lv"),
	)

	data, err := json.Marshal(m.IndexBody(schema.Settings{Shards: 2, Replicas: 1}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if bytes.Contains(data, []byte("boost")) {
		t.Error("mapping output must never contain a boost key")
	}
}

func TestBuild_Idempotent(t *testing.T) {
	svc := New(nil)
	fields := parseTree(t, []any{"title", "sku", map[string]any{"images": []any{"alt", "url"}}})
	transl := parseTree(t, []any{"title", map[string]any{"images": []any{"alt"}}})
	ls := locales(t, "en", "lv")

	first, err := json.Marshal(svc.Build(fields, transl, ls))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(svc.Build(fields, transl, ls))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("identical inputs must marshal byte-identically")
	}
}

func TestBuild_CustomTyper(t *testing.T) {
	svc := New(func(string) schema.Field {
		return schema.Field{Type: "wildcard"}
	})
	m := svc.Build(parseTree(t, []any{"anything"}), nil, locales(t, "en"))
	if m["anything"].Type != "wildcard" {
		t.Errorf("custom typer ignored: %+v", m["anything"])
	}
}

func TestDefaultTyper(t *testing.T) {
	tests := []struct {
		leaf string
		want string
	}{
		{"sku", "keyword"},
		{"category_id", "keyword"},
		{"slug", "keyword"},
		{"created_at", "date"},
		{"release_date", "date"},
		{"is_active", "boolean"},
		{"has_stock", "boolean"},
		{"view_count", "long"},
		{"quantity", "long"},
		{"price", "scaled_float"},
		{"title", "text"},
		{"description", "text"},
	}
	for _, tc := range tests {
		if got := DefaultTyper(tc.leaf); got.Type != tc.want {
			t.Errorf("DefaultTyper(%q).Type = %q, want %q", tc.leaf, got.Type, tc.want)
		}
	}
}

func TestDefaultTyper_TextKeywordSubField(t *testing.T) {
	f := DefaultTyper("description")
	if f.Fields["keyword"].Type != "keyword" {
		t.Errorf("text fields must carry a keyword sub-field, got %+v", f.Fields)
	}
}

func TestIndexBody_Defaults(t *testing.T) {
	m := schema.Mapping{"title": {Type: "text"}}
	body := m.IndexBody(schema.Settings{})

	settings := body["settings"].(map[string]any)
	if settings["number_of_shards"] != 1 {
		t.Errorf("shards = %v, want 1", settings["number_of_shards"])
	}
	mappings := body["mappings"].(map[string]any)
	if _, ok := mappings["properties"]; !ok {
		t.Error("missing mappings.properties")
	}
}
