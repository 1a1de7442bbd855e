package naming

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		stem string
		want Fields
	}{
		{
			name: "full convention",
			stem: "34th_st_times_square",
			want: Fields{Station: "34th", Location: "st", Angle: "times"},
		},
		{
			name: "extra segments ignored",
			stem: "34th_st_times_square_platform_east",
			want: Fields{Station: "34th", Location: "st", Angle: "times"},
		},
		{
			name: "single segment",
			stem: "onlyname",
			want: Fields{Station: "onlyname"},
		},
		{
			name: "two segments",
			stem: "canal_st",
			want: Fields{Station: "canal", Location: "st"},
		},
		{
			name: "empty stem",
			stem: "",
			want: Fields{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.stem)
			if got != tc.want {
				t.Fatalf("Parse(%q) = %+v, want %+v", tc.stem, got, tc.want)
			}
		})
	}
}

func TestStem(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"a/b/canal_st.webp", "canal_st"},
		{"canal_st.jpeg", "canal_st"},
		{"noext", "noext"},
		{"dir/trailing.", "trailing"},
	}
	for _, tc := range cases {
		if got := Stem(tc.path); got != tc.want {
			t.Errorf("Stem(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
