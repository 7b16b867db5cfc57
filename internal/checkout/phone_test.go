package checkout

import "testing"

func TestNormalizeCustomerPhone(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"valid mobile", "912345678", "912345678", true},
		{"formatted", "9 1234-5678", "912345678", true},
		{"truncates extra digits", "9123456789", "912345678", true},
		{"leading non-nine rejected", "8123456789", "", false},
		{"landline rejected", "074123456", "", false},
		{"partial is incomplete", "9123", "9123", false},
		{"letters only", "abc", "", false},
		{"empty", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NormalizeCustomerPhone(tc.in)
			if got != tc.want || ok != tc.wantOK {
				t.Fatalf("NormalizeCustomerPhone(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}
