package canonical

import (
	"encoding"
	"encoding/json"
	"reflect"

	"github.com/wippyai/canonjson/canonical/internal/reflectx"
)

var (
	jsonMarshalerType = reflect.TypeFor[json.Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
	jsonNumberType    = reflect.TypeFor[json.Number]()
)

// Classify returns the Kind of v's runtime value. It never fails.
func Classify(v reflect.Value) Kind {
	_, k := resolve(v)
	return k
}

// ClassifyAny is Classify for an interface value.
func ClassifyAny(v any) Kind {
	return Classify(reflect.ValueOf(v))
}

// resolve looks through pointers and interfaces and returns the value the
// writer should emit along with its Kind.
func resolve(v reflect.Value) (reflect.Value, Kind) {
	for {
		if reflectx.IsNil(v) {
			return v, KindNull
		}
		if v.Kind() == reflect.Interface {
			v = v.Elem()
			continue
		}
		if isMarshaler(v) {
			return v, KindScalar
		}
		if v.Kind() != reflect.Pointer {
			break
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		return v, KindMapping
	case reflect.Slice:
		if reflectx.IsByteSlice(v.Type()) {
			return v, KindScalar
		}
		return v, KindSequence
	case reflect.Array:
		return v, KindSequence
	case reflect.Struct:
		return v, KindRecord
	default:
		return v, KindScalar
	}
}

func isMarshaler(v reflect.Value) bool {
	t := v.Type()
	addressable := v.CanAddr()
	return reflectx.Implements(t, jsonMarshalerType, addressable) ||
		reflectx.Implements(t, textMarshalerType, addressable)
}
