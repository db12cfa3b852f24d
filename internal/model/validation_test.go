package model

import (
	"errors"
	"testing"
	"time"
)

func TestHouseholdValidate(t *testing.T) {
	tests := []struct {
		name    string
		h       Household
		wantErr string
	}{
		{"ok", Household{FamilyHead: "रामचंद्र पाटील", MemberCount: 4, Mobile: "9876543210"}, ""},
		{"auto m_no", Household{FamilyHead: "x"}, ""},
		{"blank head", Household{FamilyHead: "   "}, "कृपया कुटुंब प्रमुखाचे नाव भरा."},
		{"negative count", Household{FamilyHead: "x", MemberCount: -1}, "Member count must be between 0 and 1000"},
		{"count too high", Household{FamilyHead: "x", MemberCount: 1001}, "Member count must be between 0 and 1000"},
		{"negative container", Household{FamilyHead: "x", Taki: -2}, "Container counts must be between 0 and 1000"},
		{"container too high", Household{FamilyHead: "x", Frize: 1001}, "Container counts must be between 0 and 1000"},
		{"full row", Household{MNo: 12, FamilyHead: "x", MemberCount: 1000, Ranjan: 3, Balar: 1, Taki: 1, Dera: 2, Frize: 1, EBhandi: 4}, ""},
		{"short mobile", Household{FamilyHead: "x", Mobile: "12345"}, "Mobile number must be 10 digits"},
		{"letters in mobile", Household{FamilyHead: "x", Mobile: "98765abcde"}, "Mobile number must be 10 digits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.h.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want %q", tt.wantErr)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("error %T is not a ValidationError", err)
			}
			if err.Error() != tt.wantErr {
				t.Errorf("Validate() = %q, want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestHouseholdNormalizeNFC(t *testing.T) {
	// न followed by a nukta composes to ऩ (U+0929).
	h := Household{FamilyHead: "  \u0928\u093C  ", Village: " शेळगाव"}
	h.Normalize()
	if h.FamilyHead != "\u0929" {
		t.Errorf("FamilyHead = %+q, want %+q", h.FamilyHead, "\u0929")
	}
	if h.Village != "शेळगाव" {
		t.Errorf("Village = %q, want trimmed", h.Village)
	}
}

func TestFamilyMemberValidate(t *testing.T) {
	m := FamilyMember{Name: "सीता", Age: 34}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if m.Gender != GenderMale {
		t.Errorf("Gender = %q, want default %q", m.Gender, GenderMale)
	}

	for _, g := range Genders {
		m := FamilyMember{Name: "सीता", Age: 34, Gender: g}
		if err := m.Validate(); err != nil {
			t.Errorf("Validate() with gender %q = %v, want nil", g, err)
		}
	}

	tests := []struct {
		name string
		m    FamilyMember
		want string
	}{
		{"blank name", FamilyMember{Name: ""}, "कृपया सदस्याचे नाव भरा."},
		{"age too high", FamilyMember{Name: "x", Age: 151}, "Age must be between 0 and 150"},
		{"negative age", FamilyMember{Name: "x", Age: -1}, "Age must be between 0 and 150"},
		{"bad gender", FamilyMember{Name: "x", Gender: "male"}, "Gender must be Male or Female or Other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate()
			if err == nil || err.Error() != tt.want {
				t.Errorf("Validate() = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestBeneficiaryValidate(t *testing.T) {
	today := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	for _, g := range BeneficiaryGenders {
		b := Beneficiary{Name: "आरव", DOB: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), Gender: g}
		if err := b.Validate(today); err != nil {
			t.Errorf("Validate() with gender %q = %v, want nil", g, err)
		}
	}

	tests := []struct {
		name string
		b    Beneficiary
		want string
	}{
		{"ok", Beneficiary{Name: "आरव", DOB: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), Gender: "M"}, ""},
		{"other gender", Beneficiary{Name: "x", DOB: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), Gender: "O"}, ""},
		{"born today", Beneficiary{Name: "x", DOB: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), Gender: "F"}, ""},
		{"blank name", Beneficiary{Name: " ", DOB: today, Gender: "M"}, "Name is required"},
		{"bad gender", Beneficiary{Name: "x", DOB: today, Gender: "X"}, "Gender must be M or F or O"},
		{"no dob", Beneficiary{Name: "x", Gender: "O"}, "Date of birth is required"},
		{"future dob", Beneficiary{Name: "x", DOB: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), Gender: "M"}, "Date of birth cannot be in the future"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.b.Validate(today)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || err.Error() != tt.want {
				t.Errorf("Validate() = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestNewUserValidate(t *testing.T) {
	n := NewUser{Username: "asha", Password: "pw", Village: "शेळगाव", Role: "Admin"}
	if err := n.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if n.Role != RoleAdmin {
		t.Errorf("Role = %q, want %q", n.Role, RoleAdmin)
	}

	missing := NewUser{Username: "asha", Role: "user"}
	if err := missing.Validate(); err == nil || err.Error() != "All fields are required" {
		t.Errorf("Validate() = %v, want All fields are required", err)
	}

	badRole := NewUser{Username: "a", Password: "b", Village: "c", Role: "root"}
	if err := badRole.Validate(); err == nil || err.Error() != "Role must be user or admin" {
		t.Errorf("Validate() = %v, want role error", err)
	}
}

func TestUserIsAdmin(t *testing.T) {
	for role, want := range map[string]bool{"admin": true, "Admin": true, "ADMIN": true, "user": false, "": false} {
		u := User{Role: role}
		if got := u.IsAdmin(); got != want {
			t.Errorf("IsAdmin(%q) = %v, want %v", role, got, want)
		}
	}
}

func TestParseHealthFilter(t *testing.T) {
	tests := map[string]HealthFilter{"bp": FilterBP, "Sugar": FilterSugar, " BOTH ": FilterBoth, "": FilterAll, "x": FilterAll}
	for in, want := range tests {
		if got := ParseHealthFilter(in); got != want {
			t.Errorf("ParseHealthFilter(%q) = %q, want %q", in, got, want)
		}
	}
}
