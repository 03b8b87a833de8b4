package canonical

import (
	"bytes"
	"encoding"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"unicode/utf8"

	"github.com/go-json-experiment/json/jsontext"

	"github.com/wippyai/canonjson/canonical/internal/reflectx"
	"github.com/wippyai/canonjson/errors"
	"github.com/wippyai/canonjson/event"
)

// scalarOf converts a resolved Scalar-kind value into its event. A
// json.Marshaler that produces "null" reports isNull instead.
func scalarOf(v reflect.Value, path []string) (s event.Scalar, isNull bool, err error) {
	if v.CanInterface() {
		if recv, ok := reflectx.Receiver(v, jsonMarshalerType); ok {
			return marshalerScalar(recv, path)
		}
		if recv, ok := reflectx.Receiver(v, textMarshalerType); ok {
			text, err := recv.Interface().(encoding.TextMarshaler).MarshalText()
			if err != nil {
				return event.Scalar{}, false, errors.New(errors.PhaseWrite, errors.KindUnsupported).
					Path(path...).
					GoType(v.Type().String()).
					Detail("MarshalText failed").
					Cause(err).
					Build()
			}
			return stringScalar(string(text), v, path)
		}
	}

	if v.Type() == jsonNumberType {
		lit := v.String()
		if !isNumberLiteral(lit) {
			return event.Scalar{}, false, errors.Unsupported(errors.PhaseWrite, path, v.Type().String(),
				fmt.Sprintf("%q is not a JSON number", lit))
		}
		return event.Number(lit), false, nil
	}

	switch v.Kind() {
	case reflect.Bool:
		return event.Bool(v.Bool()), false, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return event.Number(strconv.FormatInt(v.Int(), 10)), false, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return event.Number(strconv.FormatUint(v.Uint(), 10)), false, nil
	case reflect.Float32, reflect.Float64:
		lit, ok := reflectx.FormatFloat(v.Float(), v.Type().Bits())
		if !ok {
			return event.Scalar{}, false, errors.New(errors.PhaseWrite, errors.KindUnsupported).
				Path(path...).
				GoType(v.Type().String()).
				Value(v.Float()).
				Detail("%v has no JSON representation", v.Float()).
				Build()
		}
		return event.Number(lit), false, nil
	case reflect.String:
		return stringScalar(v.String(), v, path)
	case reflect.Slice:
		if reflectx.IsByteSlice(v.Type()) {
			return event.String(base64.StdEncoding.EncodeToString(v.Bytes())), false, nil
		}
	}

	return event.Scalar{}, false, errors.Unsupported(errors.PhaseWrite, path, v.Type().String(),
		v.Kind().String()+" values have no canonical form")
}

// marshalerScalar normalizes MarshalJSON output. Primitive literals become
// scalars with number text kept as written. Objects and arrays come back as
// compact Raw scalars, which the writer decodes and writes as mappings and
// sequences.
func marshalerScalar(recv reflect.Value, path []string) (event.Scalar, bool, error) {
	fail := func(detail string, cause error) (event.Scalar, bool, error) {
		return event.Scalar{}, false, errors.New(errors.PhaseWrite, errors.KindUnsupported).
			Path(path...).
			GoType(recv.Type().String()).
			Detail("%s", detail).
			Cause(cause).
			Build()
	}

	out, err := recv.Interface().(json.Marshaler).MarshalJSON()
	if err != nil {
		return fail("MarshalJSON failed", err)
	}

	raw := jsontext.Value(bytes.Clone(out))
	if err := raw.Compact(); err != nil {
		return fail("MarshalJSON returned invalid JSON", err)
	}

	switch raw.Kind() {
	case 'n':
		return event.Scalar{}, true, nil
	case 't', 'f':
		return event.Bool(raw.Kind() == 't'), false, nil
	case '0':
		return event.Number(string(raw)), false, nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return fail("MarshalJSON returned an undecodable string", err)
		}
		return event.String(s), false, nil
	default:
		return event.Raw(string(raw)), false, nil
	}
}

func stringScalar(text string, v reflect.Value, path []string) (event.Scalar, bool, error) {
	if !utf8.ValidString(text) {
		return event.Scalar{}, false, errors.Unsupported(errors.PhaseWrite, path, v.Type().String(),
			"string "+strconv.Quote(text)+" is not valid UTF-8")
	}
	return event.String(text), false, nil
}

func isNumberLiteral(lit string) bool {
	v := jsontext.Value(lit)
	return v.IsValid() && v.Kind() == '0'
}

// stringifyKey renders a map key as an object member name. Strings are
// used as-is, then TextMarshaler, then integers, floats and bools in their
// literal forms.
func stringifyKey(k reflect.Value, path []string) (string, error) {
	for k.Kind() == reflect.Interface || k.Kind() == reflect.Pointer {
		if k.IsNil() {
			return "", errors.Unsupported(errors.PhaseWrite, path, k.Type().String(), "nil map key")
		}
		k = k.Elem()
	}

	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if k.CanInterface() {
		if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
			text, err := tm.MarshalText()
			if err != nil {
				return "", errors.New(errors.PhaseWrite, errors.KindUnsupported).
					Path(path...).
					GoType(k.Type().String()).
					Detail("map key MarshalText failed").
					Cause(err).
					Build()
			}
			return string(text), nil
		}
	}

	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		if lit, ok := reflectx.FormatFloat(k.Float(), k.Type().Bits()); ok {
			return lit, nil
		}
	case reflect.Bool:
		return strconv.FormatBool(k.Bool()), nil
	}

	if k.CanInterface() {
		return fmt.Sprint(k.Interface()), nil
	}
	return "", errors.Unsupported(errors.PhaseWrite, path, k.Type().String(), "map key has no string form")
}
