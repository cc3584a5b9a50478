package model

import (
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"", true},
		{"short", true},
		{"alllowercase1!", true},
		{"ALLUPPERCASE1!", true},
		{"NoDigitsHere!", true},
		{"NoSymbols123", true},
		{"Ab1!", true},
		{"SecurePassword123!", false},
		{"TestPass123!", false},
		{"aB3{xyzw", false},
	}

	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
		}
	}
}

func TestValidatePasswordCountsCharacters(t *testing.T) {
	// 7 characters but more than 8 bytes: length is counted in
	// characters, not bytes.
	err := ValidatePassword("Ab1!éüö")
	if err == nil {
		t.Fatal("expected error for 7-character password")
	}
	if !strings.Contains(err.Error(), "8 characters") {
		t.Errorf("expected a length violation, got %q", err.Error())
	}
}

func TestValidatePasswordASCIILetterClasses(t *testing.T) {
	// Ä is an uppercase letter, but only A-Z counts.
	err := ValidatePassword("Ägood1!x")
	if err == nil {
		t.Fatal("expected error for password without an ASCII uppercase letter")
	}
	if !strings.Contains(err.Error(), "uppercase") {
		t.Errorf("expected an uppercase violation, got %q", err.Error())
	}
}

func TestValidatePasswordReportsAllViolations(t *testing.T) {
	// Empty password violates every rule at once.
	err := ValidatePassword("")
	if err == nil {
		t.Fatal("expected error for empty password")
	}
	for _, want := range []string{"8 characters", "uppercase", "lowercase", "digit", "special"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %q, got %q", want, err.Error())
		}
	}
}

func TestValidateName(t *testing.T) {
	if err := ValidateName("Pantry"); err != nil {
		t.Errorf("expected valid name, got %v", err)
	}
	if err := ValidateName(""); err == nil {
		t.Error("expected error for empty name")
	}
	if err := ValidateName("   "); err == nil {
		t.Error("expected error for blank name")
	}
	if err := ValidateName(strings.Repeat("a", 256)); err == nil {
		t.Error("expected error for name over 255 characters")
	}
	if err := ValidateName(strings.Repeat("a", 255)); err != nil {
		t.Errorf("expected 255-character name to be valid, got %v", err)
	}
}

func TestValidEmoji(t *testing.T) {
	if !ValidEmoji(DefaultEmoji) {
		t.Error("expected default emoji to be valid")
	}
	if !ValidEmoji("🎮") {
		t.Error("expected 🎮 to be valid")
	}
	if ValidEmoji("🚀") {
		t.Error("expected 🚀 to be rejected")
	}
	if ValidEmoji("") {
		t.Error("expected empty emoji to be rejected")
	}
}

func TestItemLowStock(t *testing.T) {
	tests := []struct {
		quantity int
		want     bool
	}{
		{0, true},
		{3, true},
		{4, false},
		{100, false},
	}

	for _, tt := range tests {
		item := Item{Quantity: tt.quantity}
		if got := item.LowStock(); got != tt.want {
			t.Errorf("LowStock() with quantity %d = %v, want %v", tt.quantity, got, tt.want)
		}
	}
}
