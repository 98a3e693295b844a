package memo

import "testing"

func TestNewStoreSelectsDriver(t *testing.T) {
	cases := map[Driver]Driver{
		DriverMap:    DriverMap,
		DriverMemory: DriverMemory,
		DriverOtter:  DriverOtter,
		DriverNull:   DriverNull,
		"":           DriverMap,
		"redis":      DriverMap,
	}
	for in, want := range cases {
		if got := NewStore[int](in).Driver(); got != want {
			t.Fatalf("driver %q: expected %q, got %q", in, want, got)
		}
	}
}

func TestParseDriver(t *testing.T) {
	if d, ok := ParseDriver("otter"); !ok || d != DriverOtter {
		t.Fatalf("expected otter, got %q ok=%v", d, ok)
	}
	if _, ok := ParseDriver("dynamodb"); ok {
		t.Fatalf("expected unknown driver rejected")
	}
}
