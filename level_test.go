package permstore

import "testing"

func TestLevelMembership(t *testing.T) {
	cases := []struct {
		level    Level
		canRead  bool
		canWrite bool
	}{
		{LevelNone, false, false},
		{LevelRead, true, false},
		{LevelWrite, false, true},
		{LevelReadWrite, true, true},
	}
	for _, tc := range cases {
		if got := tc.level.CanRead(); got != tc.canRead {
			t.Errorf("%s.CanRead() = %t, want %t", tc.level, got, tc.canRead)
		}
		if got := tc.level.CanWrite(); got != tc.canWrite {
			t.Errorf("%s.CanWrite() = %t, want %t", tc.level, got, tc.canWrite)
		}
	}
}

func TestParseLevelRoundTrip(t *testing.T) {
	for _, level := range []Level{LevelNone, LevelRead, LevelWrite, LevelReadWrite} {
		if got := ParseLevel(level.String()); got != level {
			t.Fatalf("ParseLevel(%q) = %s, want %s", level.String(), got, level)
		}
	}
}

func TestParseLevelFailsClosed(t *testing.T) {
	if got := ParseLevel("admin"); got != LevelNone {
		t.Fatalf("expected unrecognised input to parse as none, got %s", got)
	}
	if got := ParseLevel(""); got != LevelNone {
		t.Fatalf("expected empty input to parse as none, got %s", got)
	}
}
