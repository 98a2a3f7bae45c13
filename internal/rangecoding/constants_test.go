package rangecoding

import "testing"

// TestConstants pins the coder constants to the libopus values.
func TestConstants(t *testing.T) {
	tests := []struct {
		name     string
		got      uint32
		expected uint32
	}{
		{"EC_SYM_BITS", EC_SYM_BITS, 8},
		{"EC_CODE_BITS", EC_CODE_BITS, 32},
		{"EC_SYM_MAX", EC_SYM_MAX, 255},
		{"EC_CODE_TOP", EC_CODE_TOP, 0x80000000},
		{"EC_CODE_BOT", EC_CODE_BOT, 0x00800000},
		{"EC_CODE_SHIFT", EC_CODE_SHIFT, 23},
		{"EC_CODE_EXTRA", EC_CODE_EXTRA, 7},
		{"EC_WINDOW_SIZE", EC_WINDOW_SIZE, 32},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.expected {
				t.Errorf("%s = 0x%X, want 0x%X", tc.name, tc.got, tc.expected)
			}
		})
	}
}

func TestIlog(t *testing.T) {
	tests := []struct {
		in   uint32
		want int
	}{
		{0, 0}, {1, 1}, {2, 2}, {3, 2}, {255, 8}, {256, 9}, {EC_CODE_TOP, 32}, {0xFFFFFFFF, 32},
	}
	for _, tt := range tests {
		if got := ilog(tt.in); got != tt.want {
			t.Errorf("ilog(%#x) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
