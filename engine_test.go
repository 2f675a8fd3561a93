package esdex

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/kailas-cloud/esdex/internal/cache"
)

func productModels() map[string]ModelConfig {
	return map[string]ModelConfig{
		"products": {
			SearchableFields: []any{
				"sku", "title",
				map[string]any{"category": []any{"title"}},
				map[string]any{"images": []any{"alt"}},
			},
			TranslatableFields: []any{
				"title",
				map[string]any{"category": []any{"title"}},
			},
			Locales:        []string{"en", "lv"},
			FallbackLocale: "en",
			Boost:          map[string]any{"title": 3},
			Version:        "2",
		},
	}
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	engine, err := New(productModels(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func productNode() Node {
	return Map{
		Attrs: map[string]any{
			"sku":   "SKU-1",
			"title": map[string]any{"en": "Drill", "lv": "Urbis"},
		},
		Relations: map[string]Relation{
			"category": One(Map{
				Attrs: map[string]any{
					"title": `{"en":"Tools","lv":"Instrumenti"}`,
				},
			}),
			"images": Many([]Node{
				Map{Attrs: map[string]any{"alt": "front"}},
				Map{Attrs: map[string]any{"alt": "side"}},
			}),
		},
	}
}

func TestEngine_Project(t *testing.T) {
	engine := newTestEngine(t)

	doc, err := engine.Project(context.Background(), "products", productNode())
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	want := Document{
		"sku":               "SKU-1",
		"title_en":          "Drill",
		"title_lv":          "Urbis",
		"category.title_en": "Tools",
		"category.title_lv": "Instrumenti",
		"images.alt":        "front side",
	}
	if !reflect.DeepEqual(map[string]any(doc), map[string]any(want)) {
		t.Errorf("Project = %v, want %v", doc, want)
	}
}

func TestEngine_Project_UnknownModel(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Project(context.Background(), "orders", productNode())
	if !errors.Is(err, ErrUnknownModel) {
		t.Fatalf("expected ErrUnknownModel, got %v", err)
	}
}

func TestEngine_ProjectStruct(t *testing.T) {
	type category struct {
		Title string `esdex:"title"`
	}
	type product struct {
		SKU      string    `esdex:"sku"`
		Title    string    `esdex:"-"`
		Category *category `esdex:"category,relation"`
	}

	engine := newTestEngine(t)

	doc, err := engine.ProjectStruct(context.Background(), "products", product{
		SKU:      "SKU-9",
		Category: &category{Title: `{"en":"Tools","lv":"Instrumenti"}`},
	})
	if err != nil {
		t.Fatalf("ProjectStruct: %v", err)
	}

	if doc["sku"] != "SKU-9" {
		t.Errorf("sku = %v", doc["sku"])
	}
	if doc["category.title_en"] != "Tools" {
		t.Errorf("category.title_en = %v", doc["category.title_en"])
	}
	if _, ok := doc["title_en"]; ok {
		t.Error("skipped struct field must not project")
	}
}

func TestEngine_Mapping(t *testing.T) {
	engine := newTestEngine(t)

	m, err := engine.Mapping(context.Background(), "products")
	if err != nil {
		t.Fatalf("Mapping: %v", err)
	}

	if f, ok := m["title_en"]; !ok || f.Type != "text" || f.Analyzer != "english" {
		t.Errorf("title_en = %+v", m["title_en"])
	}
	if f, ok := m["category.title_lv"]; !ok || f.Analyzer != "latvian" {
		t.Errorf("category.title_lv = %+v", m["category.title_lv"])
	}
	if _, ok := m["title"]; ok {
		t.Error("translatable field must not keep its bare path")
	}
	if f, ok := m["sku"]; !ok || f.Type != "keyword" {
		t.Errorf("sku = %+v", m["sku"])
	}
}

func TestEngine_IndexBody(t *testing.T) {
	engine := newTestEngine(t)

	body, err := engine.IndexBody(context.Background(), "products")
	if err != nil {
		t.Fatalf("IndexBody: %v", err)
	}

	settings, ok := body["settings"].(map[string]any)
	if !ok {
		t.Fatalf("settings missing: %v", body)
	}
	if settings["number_of_shards"] != 1 {
		t.Errorf("number_of_shards = %v, want 1", settings["number_of_shards"])
	}
	mappings, ok := body["mappings"].(map[string]any)
	if !ok {
		t.Fatalf("mappings missing: %v", body)
	}
	if _, ok := mappings["properties"]; !ok {
		t.Error("mappings.properties missing")
	}
}

func TestEngine_WeightedFields(t *testing.T) {
	engine := newTestEngine(t)

	list, err := engine.WeightedFields(context.Background(), "products")
	if err != nil {
		t.Fatalf("WeightedFields: %v", err)
	}

	weights := make(map[string]float64, len(list))
	for _, wf := range list {
		weights[wf.Path] = wf.Weight
	}
	if weights["title_en"] != 3 || weights["title_lv"] != 3 {
		t.Errorf("title locale weights = %v", weights)
	}
	if weights["sku"] != 1 {
		t.Errorf("sku weight = %v, want 1", weights["sku"])
	}
	if _, ok := weights["title"]; ok {
		t.Error("bare translatable path must not appear")
	}
}

func TestEngine_QueryFields(t *testing.T) {
	engine := newTestEngine(t)

	fields, err := engine.QueryFields(context.Background(), "products")
	if err != nil {
		t.Fatalf("QueryFields: %v", err)
	}

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		seen[f] = true
	}
	if !seen["title_en^3"] || !seen["sku"] {
		t.Errorf("QueryFields = %v", fields)
	}
}

func TestEngine_RelationPaths(t *testing.T) {
	engine := newTestEngine(t)

	paths, err := engine.RelationPaths(context.Background(), "products")
	if err != nil {
		t.Fatalf("RelationPaths: %v", err)
	}
	want := []string{"category", "images"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("RelationPaths = %v, want %v", paths, want)
	}
}

func TestEngine_IndexName_Default(t *testing.T) {
	engine := newTestEngine(t)

	name, err := engine.IndexName(context.Background(), "products")
	if err != nil {
		t.Fatalf("IndexName: %v", err)
	}
	if name != "products" {
		t.Errorf("IndexName = %q, want products", name)
	}
}

func TestEngine_Models(t *testing.T) {
	engine := newTestEngine(t)

	got := engine.Models()
	if !reflect.DeepEqual(got, []string{"products"}) {
		t.Errorf("Models = %v", got)
	}
}

// countingCache tracks gets and puts around an in-memory cache.
type countingCache struct {
	inner *cache.Memory
	gets  int
	puts  int
}

func (c *countingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.gets++
	return c.inner.Get(ctx, key)
}

func (c *countingCache) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.puts++
	return c.inner.Put(ctx, key, value, ttl)
}

func (c *countingCache) Clear(ctx context.Context) error {
	return c.inner.Clear(ctx)
}

func TestEngine_Mapping_CachedArtifact(t *testing.T) {
	cc := &countingCache{inner: cache.NewMemory()}
	engine := newTestEngine(t, WithCache(cc))

	first, err := engine.Mapping(context.Background(), "products")
	if err != nil {
		t.Fatalf("Mapping: %v", err)
	}
	if cc.puts != 1 {
		t.Fatalf("puts = %d, want 1", cc.puts)
	}

	second, err := engine.Mapping(context.Background(), "products")
	if err != nil {
		t.Fatalf("Mapping (cached): %v", err)
	}
	if cc.puts != 1 {
		t.Errorf("puts after hit = %d, want 1", cc.puts)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("cached mapping differs from derived mapping")
	}
}

func TestEngine_WeightedFields_CachedRoundTrip(t *testing.T) {
	engine := newTestEngine(t, WithCache(cache.NewMemory()))

	first, err := engine.WeightedFields(context.Background(), "products")
	if err != nil {
		t.Fatalf("WeightedFields: %v", err)
	}
	second, err := engine.WeightedFields(context.Background(), "products")
	if err != nil {
		t.Fatalf("WeightedFields (cached): %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached list %v differs from derived %v", second, first)
	}
}

func TestEngine_Invalidate_ClearsArtifacts(t *testing.T) {
	cc := &countingCache{inner: cache.NewMemory()}
	engine := newTestEngine(t, WithCache(cc))

	if _, err := engine.Mapping(context.Background(), "products"); err != nil {
		t.Fatalf("Mapping: %v", err)
	}
	if err := engine.Invalidate(context.Background()); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	if _, err := engine.Mapping(context.Background(), "products"); err != nil {
		t.Fatalf("Mapping after Invalidate: %v", err)
	}
	if cc.puts != 2 {
		t.Errorf("puts = %d, want 2 (artifact re-derived)", cc.puts)
	}
}

func TestEngine_Reindex(t *testing.T) {
	engine := newTestEngine(t, WithWorkers(2))

	source := &sliceSource{records: []Record{
		{ID: "1", Node: Map{Attrs: map[string]any{"sku": "A"}}},
		{ID: "2", Node: Map{Attrs: map[string]any{"sku": "B"}}},
	}}
	sink := &collectSink{}

	stats, err := engine.Reindex(context.Background(), "products", source, sink)
	if err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	if stats.Records != 2 || stats.Chunks != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if len(sink.docs) != 2 || sink.docs[0].ID != "1" || sink.docs[1].ID != "2" {
		t.Errorf("sink docs = %+v", sink.docs)
	}
	if sink.index != "products" {
		t.Errorf("sink index = %q, want products", sink.index)
	}
}

type sliceSource struct {
	records []Record
}

func (s *sliceSource) Load(_ context.Context, _ string, offset, limit int) ([]Record, error) {
	if offset >= len(s.records) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.records) {
		end = len(s.records)
	}
	return s.records[offset:end], nil
}

type collectSink struct {
	index string
	docs  []IndexedDocument
}

func (s *collectSink) Flush(_ context.Context, index string, docs []IndexedDocument) error {
	s.index = index
	s.docs = append(s.docs, docs...)
	return nil
}

func TestEngine_InvalidModel_SurfacesOnFirstUse(t *testing.T) {
	engine, err := New(map[string]ModelConfig{
		"broken": {SearchableFields: []any{42}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer engine.Close()

	_, err = engine.Mapping(context.Background(), "broken")
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestEngine_WithTyper(t *testing.T) {
	engine := newTestEngine(t, WithTyper(func(field string) Field {
		return Field{Type: "wildcard"}
	}))

	m, err := engine.Mapping(context.Background(), "products")
	if err != nil {
		t.Fatalf("Mapping: %v", err)
	}
	if m["sku"].Type != "wildcard" {
		t.Errorf("sku type = %q, want wildcard", m["sku"].Type)
	}
	// Translatable fields keep their locale analyzers regardless of typer.
	if m["title_en"].Type != "text" {
		t.Errorf("title_en type = %q, want text", m["title_en"].Type)
	}
}

func TestEngine_Project_DeterministicAcrossCalls(t *testing.T) {
	engine := newTestEngine(t)

	node := productNode()
	first, err := engine.Project(context.Background(), "products", node)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	second, err := engine.Project(context.Background(), "products", node)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated projection differs: %v vs %v", first, second)
	}
}
