// Package reflect_util holds reflection helpers for mapping key/value rows onto structs.
package reflect_util

import (
	"reflect"
	"strings"
)

// GetFields returns all struct fields of the given reflect.Type.
func GetFields(t reflect.Type) []reflect.StructField {
	num := t.NumField()
	fields := make([]reflect.StructField, 0, num)
	for i := 0; i < num; i++ {
		fields = append(fields, t.Field(i))
	}
	return fields
}

// FieldByJSONKey finds the field whose json tag name is key.
func FieldByJSONKey(t reflect.Type, key string) (reflect.StructField, bool) {
	for _, f := range GetFields(t) {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == key {
			return f, true
		}
	}
	return reflect.StructField{}, false
}
