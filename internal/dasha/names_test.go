package dasha

import "testing"

func TestExpandName(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in, want string
	}{
		{"Su", "Sun"},
		{"Ke", "Ketu"},
		{"Merc", "Mercury"},
		{"Mer", "Mercury"},
		{"Cn", "Cancer"},
		{"Pi", "Pisces"},
		{"Sun", "Sun"},
		{"Zz", "Zz"}, // unknown codes pass through
	}
	for _, tc := range cases {
		if got := ExpandName(tc.in); got != tc.want {
			t.Errorf("ExpandName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNameTables(t *testing.T) {
	t.Parallel()

	t.Run("lords", func(t *testing.T) {
		t.Parallel()
		n := LordNames()
		if n.Len() != 9 {
			t.Fatalf("lord table length = %d", n.Len())
		}
		if n.Short(Rahu) != "Ra" || n.Full(Rahu) != "Rahu" {
			t.Errorf("Rahu names = %q/%q", n.Short(Rahu), n.Full(Rahu))
		}
		if u, ok := n.ByShort("Ve"); !ok || u != Venus {
			t.Errorf("ByShort(Ve) = %v, %v", u, ok)
		}
	})

	t.Run("signs", func(t *testing.T) {
		t.Parallel()
		n := SignNames()
		if n.Len() != 12 {
			t.Fatalf("sign table length = %d", n.Len())
		}
		if n.Short(Sagittarius) != "Sg" || n.Full(Sagittarius) != "Sagittarius" {
			t.Errorf("Sagittarius names = %q/%q", n.Short(Sagittarius), n.Full(Sagittarius))
		}
	})

	t.Run("out of range placeholders", func(t *testing.T) {
		t.Parallel()
		n := LordNames()
		if got := n.Short(Unit(99)); got != "U99" {
			t.Errorf("Short(99) = %q", got)
		}
		if _, ok := n.ByShort("nope"); ok {
			t.Error("ByShort accepted unknown code")
		}
	})
}
