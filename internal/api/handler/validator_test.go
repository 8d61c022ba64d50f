package handler

import "testing"

func TestValidator_NotBlank(t *testing.T) {
	v := NewValidator()
	tests := map[string]bool{
		"":       false,
		"   ":    false,
		"\t\n":   false,
		"admin":  true,
		" ADMIN": true,
	}
	for role, ok := range tests {
		err := v.Validate(&updateRoleRequest{Role: role})
		if ok && err != nil {
			t.Errorf("role %q: unexpected error %v", role, err)
		}
		if !ok && (err == nil || err.Error() != "role is required") {
			t.Errorf("role %q: expected \"role is required\", got %v", role, err)
		}
	}
}

func TestValidator_MaxLength(t *testing.T) {
	v := NewValidator()
	long := make([]byte, 65)
	for i := range long {
		long[i] = '9'
	}

	err := v.Validate(&createAccountRequest{StaffNumber: string(long)})
	if err == nil || err.Error() != "staffNumber must be at most 64 characters" {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := v.Validate(&createAccountRequest{}); err != nil {
		t.Fatalf("empty payload must pass size checks: %v", err)
	}
}
