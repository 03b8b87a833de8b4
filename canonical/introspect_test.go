package canonical

import (
	"reflect"
	"slices"
	"sync"
	"testing"

	"github.com/wippyai/canonjson/errors"
)

type Base struct {
	ID      string
	Created int
}

type Audit struct {
	Author string
}

type Document struct {
	Base
	*Audit
	Title   string `canon:"title"`
	Secret  string `canon:"-"`
	Ignored Audit  `canon:"-"`
	draft   bool
}

type reservedName struct {
	Kind string `canon:"$type"`
}

type renamedClash struct {
	A string `canon:"B"`
	B string
}

func fieldNames(fields []Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

func TestReflectIntrospector_Fields(t *testing.T) {
	in := NewReflectIntrospector()
	doc := Document{Base: Base{ID: "d1", Created: 7}, Audit: &Audit{Author: "ann"}, Title: "T", Secret: "s", draft: true}

	fields, err := in.Fields(reflect.ValueOf(doc))
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}

	names := fieldNames(fields)
	slices.Sort(names)
	if want := []string{"Author", "Created", "ID", "title"}; !slices.Equal(names, want) {
		t.Fatalf("fields = %v, want %v", names, want)
	}

	byName := map[string]reflect.Value{}
	for _, f := range fields {
		byName[f.Name] = f.Value
	}
	for name, want := range map[string]string{"ID": "d1", "Author": "ann", "title": "T"} {
		if got := byName[name].String(); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestReflectIntrospector_NilEmbeddedPointer(t *testing.T) {
	in := NewReflectIntrospector()

	fields, err := in.Fields(reflect.ValueOf(Document{Title: "T"}))
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	for _, f := range fields {
		if f.Name == "Author" && f.Value.IsValid() {
			t.Error("promoted field through nil pointer should be invalid")
		}
	}

	got := canon(t, NewWriter(WithTypeTags(false)), Document{Title: "T"})
	if want := `{"Author":null,"Created":0,"ID":"","title":"T"}`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestReflectIntrospector_Errors(t *testing.T) {
	in := NewReflectIntrospector()

	tests := []struct {
		name  string
		input any
	}{
		{"reserved name", reservedName{}},
		{"renamed clash", renamedClash{}},
		{"not a struct", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := in.Fields(reflect.ValueOf(tt.input))
			if !errors.Is(err, errors.ErrUninspectableRecord) {
				t.Errorf("got %v, want uninspectable record", err)
			}
		})
	}
}

func TestReflectIntrospector_AmbiguousFieldsOmitted(t *testing.T) {
	type left struct{ Name string }
	type right struct{ Name string }
	type both struct {
		left
		right
		Other int
	}

	fields, err := NewReflectIntrospector().Fields(reflect.ValueOf(both{}))
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	if got := fieldNames(fields); !slices.Equal(got, []string{"Other"}) {
		t.Errorf("fields = %v, want [Other]", got)
	}
}

func TestReflectIntrospector_PlanCache(t *testing.T) {
	in := NewReflectIntrospector()
	typ := reflect.TypeOf(Document{})

	var wg sync.WaitGroup
	plans := make([]*RecordPlan, 8)
	for i := range plans {
		wg.Add(1)
		go func() {
			defer wg.Done()
			plans[i], _ = in.Plan(typ)
		}()
	}
	wg.Wait()

	for i, p := range plans {
		if p != plans[0] {
			t.Errorf("plan %d is not the cached plan", i)
		}
	}
	if n := len(plans[0].Fields); n != 4 {
		t.Errorf("plan has %d fields, want 4", n)
	}
}
