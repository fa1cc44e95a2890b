package report

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Pretty formats nested maps and slices one element per line, indented with
// tabs. Map keys are sorted; strings are quoted.
func Pretty(v any) string {
	return pretty(reflect.ValueOf(v), 0)
}

func pretty(v reflect.Value, indent int) string {
	nl := "\n" + strings.Repeat("\t", indent+1)
	closing := "\n" + strings.Repeat("\t", indent)
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) {
		if v.IsNil() {
			return "nil"
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return "nil"
	}
	switch v.Kind() {
	case reflect.Map:
		keys := v.MapKeys()
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = scalar(k)
		}
		idx := make([]int, len(keys))
		for i := range idx {
			idx[i] = i
		}
		sort.Slice(idx, func(a, b int) bool { return names[idx[a]] < names[idx[b]] })
		items := make([]string, len(keys))
		for i, j := range idx {
			items[i] = nl + names[j] + ": " + pretty(v.MapIndex(keys[j]), indent+1)
		}
		return "{" + strings.Join(items, ",") + closing + "}"
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return "[]"
		}
		items := make([]string, v.Len())
		for i := range items {
			items[i] = nl + pretty(v.Index(i), indent+1)
		}
		return "[" + strings.Join(items, ",") + closing + "]"
	}
	return scalar(v)
}

func scalar(v reflect.Value) string {
	for v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.String:
		return strconv.Quote(v.String())
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	case reflect.Invalid:
		return "nil"
	}
	return fmt.Sprint(v.Interface())
}
