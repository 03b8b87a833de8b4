package canonical

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/wippyai/canonjson/canonical/internal/reflectx"
	"github.com/wippyai/canonjson/errors"
)

// Field is one named member of a record with its current value.
// An invalid Value is written as null.
type Field struct {
	Name  string
	Value reflect.Value
}

// Introspector enumerates the fields of a record value. Order is not
// significant; the writer sorts fields itself.
type Introspector interface {
	Fields(v reflect.Value) ([]Field, error)
}

// RecordPlan is the cached field layout of one struct type.
type RecordPlan struct {
	Type   reflect.Type
	Fields []FieldPlan
}

// FieldPlan locates one serialized field inside its struct.
type FieldPlan struct {
	Name  string
	Index []int
	// Promoted is true when the field is reached through an embedded
	// pointer that may be nil.
	Promoted bool
}

// ReflectIntrospector discovers record fields with reflection.
//
// Exported fields are included, along with exported fields promoted from
// embedded structs. The `canon` struct tag renames a field (`canon:"id"`)
// or excludes it (`canon:"-"`); excluding an embedded struct excludes all
// of its promoted fields. Names that collide after renaming, and the
// reserved name "$type", make the record uninspectable.
type ReflectIntrospector struct {
	cache sync.Map // reflect.Type -> *RecordPlan
}

// NewReflectIntrospector creates an introspector with an empty plan cache.
func NewReflectIntrospector() *ReflectIntrospector {
	return &ReflectIntrospector{}
}

// Fields returns the serializable fields of struct value v. Fields promoted
// through a nil embedded pointer are returned with an invalid Value.
func (r *ReflectIntrospector) Fields(v reflect.Value) ([]Field, error) {
	if !v.IsValid() || v.Kind() != reflect.Struct {
		return nil, errors.UninspectableRecord(nil, reflectx.TypeName(v), "value is not a struct", nil)
	}

	plan, err := r.Plan(v.Type())
	if err != nil {
		return nil, err
	}

	fields := make([]Field, 0, len(plan.Fields))
	for _, fp := range plan.Fields {
		var fv reflect.Value
		if fp.Promoted {
			fv, err = v.FieldByIndexErr(fp.Index)
			if err != nil {
				fv = reflect.Value{}
			}
		} else {
			fv = v.FieldByIndex(fp.Index)
		}
		fields = append(fields, Field{Name: fp.Name, Value: fv})
	}
	return fields, nil
}

// Plan returns the cached layout for struct type t, computing it on first use.
func (r *ReflectIntrospector) Plan(t reflect.Type) (*RecordPlan, error) {
	if t == nil || t.Kind() != reflect.Struct {
		name := "nil"
		if t != nil {
			name = t.String()
		}
		return nil, errors.UninspectableRecord(nil, name, "type is not a struct", nil)
	}

	if cached, ok := r.cache.Load(t); ok {
		return cached.(*RecordPlan), nil
	}

	plan, err := compilePlan(t)
	if err != nil {
		return nil, err
	}

	actual, _ := r.cache.LoadOrStore(t, plan)
	Logger().Debug("compiled record plan",
		zap.Stringer("type", t),
		zap.Int("fields", len(plan.Fields)))
	return actual.(*RecordPlan), nil
}

func compilePlan(t reflect.Type) (*RecordPlan, error) {
	var skipped [][]int
	seen := make(map[string]string)
	fields := make([]FieldPlan, 0, t.NumField())

	for _, sf := range reflect.VisibleFields(t) {
		if hasPrefix(sf.Index, skipped) {
			continue
		}

		tag, tagged := sf.Tag.Lookup("canon")
		if tag == "-" {
			skipped = append(skipped, sf.Index)
			continue
		}

		// embedded structs contribute their promoted fields instead of themselves
		if sf.Anonymous && isStructOrStructPointer(sf.Type) {
			continue
		}
		if !sf.IsExported() {
			continue
		}

		name := sf.Name
		if tagged && tag != "" {
			name = tag
		}

		if !utf8.ValidString(name) {
			return nil, errors.UninspectableRecord(nil, t.String(),
				fmt.Sprintf("field %s has a name that is not valid UTF-8", sf.Name), nil)
		}
		if name == TypeKey {
			return nil, errors.UninspectableRecord(nil, t.String(),
				fmt.Sprintf("field %s uses the reserved name %q", sf.Name, TypeKey), nil)
		}
		if prev, dup := seen[name]; dup {
			return nil, errors.UninspectableRecord(nil, t.String(),
				fmt.Sprintf("field %q declared twice (%s and %s)", name, prev, sf.Name), nil)
		}
		seen[name] = sf.Name

		fields = append(fields, FieldPlan{
			Name:     name,
			Index:    slices.Clone(sf.Index),
			Promoted: len(sf.Index) > 1 && throughPointer(t, sf.Index),
		})
	}

	return &RecordPlan{Type: t, Fields: fields}, nil
}

func hasPrefix(index []int, prefixes [][]int) bool {
	for _, p := range prefixes {
		if len(index) >= len(p) && slices.Equal(index[:len(p)], p) {
			return true
		}
	}
	return false
}

func isStructOrStructPointer(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// throughPointer reports whether reaching index from t dereferences a pointer.
func throughPointer(t reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		ft := t.Field(i).Type
		if ft.Kind() == reflect.Pointer {
			return true
		}
		t = ft
	}
	return false
}
