package reflectx

import (
	"reflect"
)

// TypeName returns "nil" for invalid values, avoiding a reflect panic.
func TypeName(v reflect.Value) string {
	if !v.IsValid() {
		return "nil"
	}
	return v.Type().String()
}

// IsNil reports whether v holds no value at all. Unlike reflect.Value.IsNil
// it never panics.
func IsNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// Implements reports whether t, or a pointer to t when addressable is
// true, implements iface.
func Implements(t reflect.Type, iface reflect.Type, addressable bool) bool {
	if t.Implements(iface) {
		return true
	}
	return addressable && t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(iface)
}

// Receiver returns the value whose method set satisfies iface: v itself, or
// its address when only the pointer type implements iface.
func Receiver(v reflect.Value, iface reflect.Type) (reflect.Value, bool) {
	if v.Type().Implements(iface) {
		return v, true
	}
	if v.CanAddr() && reflect.PointerTo(v.Type()).Implements(iface) {
		return v.Addr(), true
	}
	return reflect.Value{}, false
}

// IsByteSlice reports whether t is a slice whose elements are bytes.
func IsByteSlice(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
}
