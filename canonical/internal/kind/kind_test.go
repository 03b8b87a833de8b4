package kind

import "testing"

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Null, "null"},
		{Scalar, "scalar"},
		{Sequence, "sequence"},
		{Mapping, "mapping"},
		{Record, "record"},
		{Kind(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestKind_IsComposite(t *testing.T) {
	for _, k := range []Kind{Sequence, Mapping, Record} {
		if !k.IsComposite() {
			t.Errorf("%v should be composite", k)
		}
	}
	for _, k := range []Kind{Null, Scalar} {
		if k.IsComposite() {
			t.Errorf("%v should not be composite", k)
		}
	}
}
