package formatting_test

import (
	"testing"

	"github.com/JaimeStill/warden/pkg/formatting"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"512", 512, false},
		{"64KB", 64 * 1024, false},
		{"1.5 mb", 1536 * 1024, false},
		{"2GB", 2 << 30, false},
		{"", 0, true},
		{"ten KB", 0, true},
		{"5XB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBytes(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		prec int
		want string
	}{
		{0, 1, "0 B"},
		{1023, 0, "1023 B"},
		{64 * 1024, 0, "64 KB"},
		{1536 * 1024, 1, "1.5 MB"},
	}

	for _, tt := range tests {
		if got := formatting.FormatBytes(tt.n, tt.prec); got != tt.want {
			t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.prec, got, tt.want)
		}
	}
}
