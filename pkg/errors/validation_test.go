package errors

import (
	"testing"
)

func TestValidateTileID(t *testing.T) {
	tests := []struct {
		name    string
		input   int
		wantErr bool
	}{
		{"valid", 2311, false},
		{"one", 1, false},
		{"zero", 0, true},
		{"negative", -7, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTileID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTileID(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateTileID(%d) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid relative", "canvas.png", false},
		{"valid nested", "out/graph.svg", false},
		{"valid absolute", "/tmp/canvas.png", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"directory", "out/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRedisURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"redis://localhost:6379/0", false},
		{"rediss://cache.internal:6380", false},
		{"", true},
		{"http://localhost:6379", true},
		{"localhost:6379", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateRedisURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRedisURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
