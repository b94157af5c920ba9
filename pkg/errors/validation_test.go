package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "fetch", false},
		{"valid with dash", "fetch-data", false},
		{"valid with underscore", "fetch_data", false},
		{"valid digit prefix", "1st_step", false},
		{"valid single char", "a", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 200), true},
		{"leading underscore", "_private", true},
		{"space", "fetch data", true},
		{"dot", "fetch.data", true},
		{"slash", "fetch/data", true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"svg", "svg", false},
		{"dot", "dot", false},
		{"png", "png", false},
		{"json", "json", false},
		{"uppercase", "SVG", false},

		{"empty", "", true},
		{"pdf", "pdf", true},
		{"with dot prefix", ".svg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateThemeName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid default", "default", false},
		{"valid with dash", "high-contrast", false},
		{"valid with digit", "mono2", false},

		{"empty", "", true},
		{"uppercase", "Default", true},
		{"path separator", "themes/default", true},
		{"backslash", "themes\\default", true},
		{"traversal", "..", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateThemeName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateThemeName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid relative", "out/diagram.svg", false},
		{"valid simple", "diagram.svg", false},
		{"valid absolute", "/tmp/diagram.svg", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 600), true},
		{"traversal", "foo/../bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "out\\diagram.svg", true},
		{"control char", "foo\x01bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDiagramTitle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty is allowed", "", false},
		{"valid", "Order Processing Pipeline", false},
		{"tab is allowed", "Left\tRight", false},
		{"multi-line is allowed", "Workflow\nScientific Workflow", false},

		{"too long", strings.Repeat("a", 300), true},
		{"null byte", "foo\x00bar", true},
		{"carriage return", "foo\rbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDiagramTitle(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDiagramTitle(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
