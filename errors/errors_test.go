package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseWrite,
				Kind:   KindUnsupported,
				Path:   []string{"user", "callback"},
				GoType: "func()",
				Detail: "no canonical form",
			},
			contains: []string{"[write]", "unsupported", "user.callback", "func()", "no canonical form"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseSort,
				Kind:  KindUnsortableSequence,
			},
			contains: []string{"[sort]", "unsortable_sequence"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseWrite,
				Kind:   KindSink,
				Detail: "sink rejected key",
				Cause:  errors.New("duplicate name"),
			},
			contains: []string{"[write]", "sink", "sink rejected key", "caused by", "duplicate name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseIntrospect,
		Kind:  KindUninspectableRecord,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseSort,
		Kind:  KindUnsortableSequence,
		Path:  []string{"items"},
	}

	if !err.Is(&Error{Phase: PhaseSort, Kind: KindUnsortableSequence}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseWrite, Kind: KindUnsortableSequence}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseSort, Kind: KindSink}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, ErrUnsortableSequence) {
		t.Error("errors.Is should match the kind sentinel")
	}
	if errors.Is(err, ErrUninspectableRecord) {
		t.Error("errors.Is should not match another kind sentinel")
	}
}

func TestError_IsThroughWrapping(t *testing.T) {
	inner := UnsupportedRead("canonical JSON")
	wrapped := Wrap(PhaseStore, KindInvalidInput, inner, "load snapshot")

	if !errors.Is(wrapped, ErrUnsupportedRead) {
		t.Error("errors.Is should find the wrapped unsupported_read error")
	}

	var target *Error
	if !errors.As(wrapped, &target) || target.Kind != KindInvalidInput {
		t.Errorf("errors.As = %v, want outer invalid_input error", target)
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseIntrospect, KindUninspectableRecord).
		Path("order", "lines").
		GoType("shop.Line").
		Value(42).
		Cause(cause).
		Detail("field %q declared twice", "ID").
		Build()

	if err.Phase != PhaseIntrospect {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseIntrospect)
	}
	if err.Kind != KindUninspectableRecord {
		t.Errorf("Kind = %v, want %v", err.Kind, KindUninspectableRecord)
	}
	if len(err.Path) != 2 || err.Path[0] != "order" || err.Path[1] != "lines" {
		t.Errorf("Path = %v, want [order lines]", err.Path)
	}
	if err.GoType != "shop.Line" {
		t.Errorf("GoType = %v, want 'shop.Line'", err.GoType)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != `field "ID" declared twice` {
		t.Errorf("Detail = %v, want 'field \"ID\" declared twice'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("UnsortableSequence", func(t *testing.T) {
		err := UnsortableSequence([]string{"[1]"}, "number", "string")
		if err.Kind != KindUnsortableSequence || err.Phase != PhaseSort {
			t.Errorf("Phase=%v Kind=%v", err.Phase, err.Kind)
		}
		if !strings.Contains(err.Detail, "number") || !strings.Contains(err.Detail, "string") {
			t.Errorf("Detail = %v, should name both classes", err.Detail)
		}
	})

	t.Run("UninspectableRecord", func(t *testing.T) {
		err := UninspectableRecord(nil, "T.Box", "boom", nil)
		if err.Kind != KindUninspectableRecord {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUninspectableRecord)
		}
		if err.GoType != "T.Box" {
			t.Errorf("GoType = %v, want T.Box", err.GoType)
		}
	})

	t.Run("UnsupportedRead", func(t *testing.T) {
		err := UnsupportedRead("canonical JSON")
		if err.Kind != KindUnsupportedRead || err.Phase != PhaseRead {
			t.Errorf("Phase=%v Kind=%v", err.Phase, err.Kind)
		}
	})

	t.Run("DepthExceeded", func(t *testing.T) {
		err := DepthExceeded([]string{"next"}, 8)
		if err.Kind != KindDepthExceeded {
			t.Errorf("Kind = %v, want %v", err.Kind, KindDepthExceeded)
		}
		if err.Value != 8 {
			t.Errorf("Value = %v, want 8", err.Value)
		}
	})

	t.Run("Sink", func(t *testing.T) {
		cause := errors.New("closed")
		err := Sink(nil, "null", cause)
		if err.Kind != KindSink || !errors.Is(err, cause) {
			t.Errorf("Kind=%v cause=%v", err.Kind, err.Cause)
		}
	})

	t.Run("Integrity", func(t *testing.T) {
		err := Integrity(PhaseStore, "aa", "bb")
		if !strings.Contains(err.Detail, "aa") || !strings.Contains(err.Detail, "bb") {
			t.Errorf("Detail = %v", err.Detail)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseStore, "snapshot", "abc")
		if !errors.Is(err, ErrNotFound) {
			t.Error("NotFound should match ErrNotFound")
		}
	})
}

func TestIsAs(t *testing.T) {
	inner := DepthExceeded([]string{"a"}, 3)
	wrapped := fmt.Errorf("outer: %w", inner)

	if !Is(wrapped, ErrDepthExceeded) {
		t.Error("Is should see through fmt wrapping")
	}
	e, ok := As(wrapped)
	if !ok || e != inner {
		t.Errorf("As = %v, %v; want the inner error", e, ok)
	}
	if _, ok := As(errors.New("plain")); ok {
		t.Error("As should not match a plain error")
	}
}
