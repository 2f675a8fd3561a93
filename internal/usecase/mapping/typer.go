package mapping

import (
	"strings"

	"github.com/kailas-cloud/esdex/internal/domain/schema"
)

// Typer infers a field type descriptor from a leaf name. The rule is
// pluggable so applications with different naming conventions can swap it.
type Typer func(leaf string) schema.Field

var identifierNames = map[string]bool{
	"id":      true,
	"sku":     true,
	"code":    true,
	"slug":    true,
	"barcode": true,
	"ean":     true,
	"isbn":    true,
}

var identifierSuffixes = []string{"_id", "_sku", "_code", "_slug"}

// DefaultTyper maps leaf names to field descriptors:
//
//   - identifier-like names (sku, code, *_id, ...) become keyword fields with
//     analyzed and prefix-search sub-fields, so exact lookups stay exact while
//     free-text and prefix queries still hit them;
//   - *_at / *_date / date suffixes become date fields;
//   - is_* / has_* / *_flag become boolean;
//   - *_count / *_qty / quantity become long, price-like names scaled_float;
//   - everything else is analyzed text with a keyword sub-field.
func DefaultTyper(leaf string) schema.Field {
	switch {
	case isIdentifier(leaf):
		return schema.Field{
			Type: "keyword",
			Fields: map[string]schema.Field{
				"text":   {Type: "text", Analyzer: "identifier"},
				"prefix": {Type: "text", Analyzer: "identifier_prefix"},
			},
		}
	case leaf == "date" || strings.HasSuffix(leaf, "_at") || strings.HasSuffix(leaf, "_date"):
		return schema.Field{Type: "date"}
	case strings.HasPrefix(leaf, "is_") || strings.HasPrefix(leaf, "has_") || strings.HasSuffix(leaf, "_flag"):
		return schema.Field{Type: "boolean"}
	case leaf == "quantity" || strings.HasSuffix(leaf, "_count") || strings.HasSuffix(leaf, "_qty"):
		return schema.Field{Type: "long"}
	case leaf == "price" || strings.HasSuffix(leaf, "_price"):
		return schema.Field{Type: "scaled_float"}
	default:
		return schema.Field{
			Type: "text",
			Fields: map[string]schema.Field{
				"keyword": {Type: "keyword"},
			},
		}
	}
}

func isIdentifier(leaf string) bool {
	if identifierNames[leaf] {
		return true
	}
	for _, suffix := range identifierSuffixes {
		if strings.HasSuffix(leaf, suffix) {
			return true
		}
	}
	return false
}
