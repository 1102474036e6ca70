package reflect_util

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	AllowRegister bool   `json:"allowRegister"`
	BlogTitle     string `json:"blogTitle,omitempty"`
	hidden        int
}

func TestFieldByJSONKey(t *testing.T) {
	typ := reflect.TypeOf(sample{})
	assert.Len(t, GetFields(typ), 3)

	f, ok := FieldByJSONKey(typ, "blogTitle")
	assert.True(t, ok)
	assert.Equal(t, "BlogTitle", f.Name)

	_, ok = FieldByJSONKey(typ, "missing")
	assert.False(t, ok)
}
