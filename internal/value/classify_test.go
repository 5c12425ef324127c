package value

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		raw      string
		want     any
		wantType Type
	}{
		{"on", true, Boolean},
		{"off", false, Boolean},
		{"42", int64(42), Integer},
		{"-7", int64(-7), Integer},
		{"+3", int64(3), Integer},
		{"0", int64(0), Integer},
		{"23.5", 23.5, Double},
		{"-0.25", -0.25, Double},
		{"1e3", 1000.0, Double},
		{"unlocked", "unlocked", String},
		{"open", "open", String},
		{"", "", String},
		{"12abc", "12abc", String},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, gotType := Classify(tt.raw)
			if got != tt.want || gotType != tt.wantType {
				t.Errorf("Classify(%q) = (%v, %v), want (%v, %v)", tt.raw, got, gotType, tt.want, tt.wantType)
			}
		})
	}
}

func TestType_URI(t *testing.T) {
	tests := []struct {
		tag  Type
		want string
	}{
		{Boolean, "http://www.w3.org/2001/XMLSchema#boolean"},
		{Integer, "http://www.w3.org/2001/XMLSchema#integer"},
		{Double, "http://www.w3.org/2001/XMLSchema#double"},
		{String, "http://www.w3.org/2001/XMLSchema#string"},
	}

	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			if got := tt.tag.URI(); got != tt.want {
				t.Errorf("URI() = %q, want %q", got, tt.want)
			}
		})
	}
}
