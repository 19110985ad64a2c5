package date

import "testing"

// TestTime asserts that time() is canonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// test also checks that the property remains true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2024-01-05", want: "2024-01-05"},
		{in: "2024-1-5", want: "2024-01-05"},
		{in: "2024-13-01", wantErr: true},
		{in: "yesterday", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			d, err := Parse(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) = %v, want error", tc.in, d)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tc.in, err)
			}
			if got := d.String(); got != tc.want {
				t.Errorf("Parse(%q).String() = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	a := MustParse("2024-01-01")
	b := MustParse("2024-01-05")

	if !a.Before(b) || b.Before(a) {
		t.Errorf("Before is inconsistent for %s and %s", a, b)
	}
	if !b.After(a) || a.After(b) {
		t.Errorf("After is inconsistent for %s and %s", a, b)
	}
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Errorf("Compare is inconsistent for %s and %s", a, b)
	}
	if got := a.Add(4); got != b {
		t.Errorf("%s.Add(4) = %s, want %s", a, got, b)
	}
}
