package entity

import (
	"fmt"
	"reflect"
	"sync"
)

const tagKey = "esdex"

// structMeta holds parsed struct tag metadata, cached per struct type.
type structMeta struct {
	attrs     map[string]int // attribute name → field index
	relations map[string]int // relation name → field index
}

var metaCache sync.Map // reflect.Type → *structMeta

// FromStruct adapts a tagged Go struct to a Node. Fields carry esdex tags:
//
//	SKU      string     `esdex:"sku"`
//	Title    []byte     `esdex:"title"`
//	Category *Category  `esdex:"category,relation"`  // nil pointer = not loaded
//	Images   []Image    `esdex:"images,relation"`    // nil slice = not loaded
//
// Untagged and "-"-tagged fields are invisible to projection. Tag metadata is
// parsed once per struct type and cached.
func FromStruct(item any) (Node, error) {
	v := reflect.ValueOf(item)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, fmt.Errorf("entity: nil struct pointer")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("entity: %T is not a struct", item)
	}

	meta, err := metaFor(v.Type())
	if err != nil {
		return nil, err
	}
	return structNode{value: v, meta: meta}, nil
}

func metaFor(t reflect.Type) (*structMeta, error) {
	if cached, ok := metaCache.Load(t); ok {
		return cached.(*structMeta), nil
	}

	meta := &structMeta{
		attrs:     make(map[string]int),
		relations: make(map[string]int),
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get(tagKey)
		if tag == "" || tag == "-" {
			continue
		}
		name, modifier, _ := cutTag(tag)
		if name == "" {
			return nil, fmt.Errorf("entity: empty esdex tag name on field %s of %s", f.Name, t)
		}
		switch modifier {
		case "":
			meta.attrs[name] = i
		case "relation":
			meta.relations[name] = i
		default:
			return nil, fmt.Errorf("entity: unknown esdex tag modifier %q on field %s of %s", modifier, f.Name, t)
		}
	}

	metaCache.Store(t, meta)
	return meta, nil
}

func cutTag(tag string) (name, modifier string, ok bool) {
	for i := 0; i < len(tag); i++ {
		if tag[i] == ',' {
			return tag[:i], tag[i+1:], true
		}
	}
	return tag, "", false
}

// structNode adapts one reflected struct value to the Node interface.
type structNode struct {
	value reflect.Value
	meta  *structMeta
}

func (n structNode) Attribute(name string) (any, bool) {
	idx, ok := n.meta.attrs[name]
	if !ok {
		return nil, false
	}
	return n.value.Field(idx).Interface(), true
}

func (n structNode) Relation(name string) Relation {
	idx, ok := n.meta.relations[name]
	if !ok {
		return None()
	}
	f := n.value.Field(idx)

	switch f.Kind() {
	case reflect.Pointer:
		if f.IsNil() {
			return None()
		}
		child, err := FromStruct(f.Interface())
		if err != nil {
			return None()
		}
		return Single(child)
	case reflect.Slice:
		if f.IsNil() {
			return None()
		}
		nodes := make([]Node, 0, f.Len())
		for i := 0; i < f.Len(); i++ {
			child, err := FromStruct(f.Index(i).Interface())
			if err != nil {
				return None()
			}
			nodes = append(nodes, child)
		}
		return Collection(nodes)
	case reflect.Struct:
		child, err := FromStruct(f.Interface())
		if err != nil {
			return None()
		}
		return Single(child)
	default:
		return None()
	}
}
