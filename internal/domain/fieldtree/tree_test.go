package fieldtree

import (
	"reflect"
	"testing"
)

func catalogTree(t *testing.T) *Tree {
	t.Helper()
	return mustParse(t, []any{
		"sku",
		"title",
		map[string]any{
			"category": []any{
				"title",
				map[string]any{"parent": []any{"title"}},
			},
		},
		map[string]any{"images": []any{"alt", "url"}},
	})
}

func TestContains(t *testing.T) {
	tree := catalogTree(t)

	tests := []struct {
		path string
		want bool
	}{
		{"title", true},
		{"sku", true},
		{"category.title", true},
		{"category.parent.title", true},
		{"images.alt", true},
		{"category", false},           // relation, not a leaf
		{"category.slug", false},      // unknown leaf
		{"brand.title", false},        // unknown relation
		{"category.title.extra", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := tree.Contains(tc.path); got != tc.want {
			t.Errorf("Contains(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestContains_NilTree(t *testing.T) {
	var tree *Tree
	if tree.Contains("title") {
		t.Error("nil tree must contain nothing")
	}
}

func TestRelationPaths(t *testing.T) {
	tree := catalogTree(t)
	want := []string{"category", "category.parent", "images"}
	if got := tree.RelationPaths(); !reflect.DeepEqual(got, want) {
		t.Errorf("RelationPaths() = %v, want %v", got, want)
	}
}

func TestRelationPaths_Empty(t *testing.T) {
	tree := mustParse(t, []any{"title"})
	if got := tree.RelationPaths(); len(got) != 0 {
		t.Errorf("RelationPaths() = %v, want empty", got)
	}
}

func TestIsEmpty(t *testing.T) {
	if !mustParse(t, []any{}).IsEmpty() {
		t.Error("empty sequence must parse to an empty tree")
	}
	if mustParse(t, "title").IsEmpty() {
		t.Error("single leaf is not empty")
	}
}
