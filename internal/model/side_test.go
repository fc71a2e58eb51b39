package model

import "testing"

func TestSideValidation(t *testing.T) {
	tests := map[string]struct {
		side  Side
		valid bool
	}{
		"local valid":     {side: Local, valid: true},
		"remote valid":    {side: Remote, valid: true},
		"empty invalid":   {side: "", valid: false},
		"unknown invalid": {side: "both", valid: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.side.IsValid(); got != tt.valid {
				t.Errorf("Side(%q).IsValid() = %v, want %v", tt.side, got, tt.valid)
			}
		})
	}
}

func TestParseSide(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    Side
		wantErr bool
	}{
		"local":          {input: "local", want: Local},
		"remote":         {input: "remote", want: Remote},
		"case and space": {input: "  REMOTE ", want: Remote},
		"alias server":   {input: "server", want: Remote},
		"alias device":   {input: "device", want: Local},
		"unknown":        {input: "sideways", wantErr: true},
		"empty":          {input: "", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseSide(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSide(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSide(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSide_OtherAndDisplayName(t *testing.T) {
	if Local.Other() != Remote || Remote.Other() != Local {
		t.Error("Other() should swap local and remote")
	}
	if Local.DisplayName() != "Local" {
		t.Errorf("DisplayName() = %q, want %q", Local.DisplayName(), "Local")
	}
	if len(AllSides()) != 2 {
		t.Errorf("AllSides() returned %d sides, want 2", len(AllSides()))
	}
}
