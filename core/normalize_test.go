package core

import (
	"testing"
	"time"
)

func TestNormalizePhone_StripsEverythingButDigits(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"formatted", "+7 (912) 345-67-89", "79123456789"},
		{"plain digits", "79123456789", "79123456789"},
		{"letters and symbols", "call: +1-800-FLOWERS", "1800"},
		{"only symbols", "+-() ", ""},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizePhone(tc.in)
			if got != tc.want {
				t.Fatalf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
			}
			if len(got) > len(tc.in) {
				t.Fatalf("normalized phone longer than input: %q from %q", got, tc.in)
			}
			for _, r := range got {
				if r < '0' || r > '9' {
					t.Fatalf("non-digit rune %q in normalized phone %q", r, got)
				}
			}
		})
	}
}

func TestEventTime_ZeroAndNegativeYieldNil(t *testing.T) {
	if got := EventTime(0); got != nil {
		t.Fatalf("EventTime(0) = %v, want nil", got)
	}
	if got := EventTime(-100); got != nil {
		t.Fatalf("EventTime(-100) = %v, want nil", got)
	}
}

func TestEventTime_DeterministicUTCWholeSeconds(t *testing.T) {
	const epoch = int64(1700000000)
	first := EventTime(epoch)
	second := EventTime(epoch)
	if first == nil || second == nil {
		t.Fatalf("expected non-nil times for positive epoch")
	}
	if !first.Equal(*second) {
		t.Fatalf("conversion not deterministic: %v vs %v", first, second)
	}
	if first.Location() != time.UTC {
		t.Fatalf("expected UTC, got %v", first.Location())
	}
	if first.Nanosecond() != 0 {
		t.Fatalf("expected whole-second precision, got %dns", first.Nanosecond())
	}
	if first.Unix() != epoch {
		t.Fatalf("expected round value %d, got %d", epoch, first.Unix())
	}
}

func TestEventTime_MonotonicInEpoch(t *testing.T) {
	previous := EventTime(1)
	for epoch := int64(2); epoch < 1000; epoch += 97 {
		current := EventTime(epoch)
		if current.Before(*previous) {
			t.Fatalf("EventTime not monotonic: %v before %v", current, previous)
		}
		previous = current
	}
}
