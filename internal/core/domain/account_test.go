package domain

import "testing"

func strPtr(s string) *string { return &s }

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"ADMIN":    RoleAdmin,
		"admin":    RoleAdmin,
		"Lecturer": RoleLecturer,
		"STUDENT":  RoleStudent,
	}
	for in, want := range cases {
		got, ok := ParseRole(in)
		if !ok || got != want {
			t.Errorf("ParseRole(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}

	for _, in := range []string{"", "NOT_A_ROLE", " ADMIN", "ROLE_ADMIN"} {
		if _, ok := ParseRole(in); ok {
			t.Errorf("ParseRole(%q) should fail", in)
		}
	}
}

func TestRole_Authority(t *testing.T) {
	if got := RoleAdmin.Authority(); got != "ROLE_ADMIN" {
		t.Fatalf("expected ROLE_ADMIN, got %s", got)
	}
}

func TestAccount_ChangeRole(t *testing.T) {
	tests := []struct {
		name        string
		start       Account
		to          Role
		wantStaff   bool
		wantStudent bool
	}{
		{"lecturer to admin", Account{Role: RoleLecturer, StaffNumber: strPtr("NIP-1")}, RoleAdmin, false, false},
		{"student to lecturer", Account{Role: RoleStudent, StudentNumber: strPtr("NIM-1")}, RoleLecturer, false, false},
		{"lecturer stays lecturer", Account{Role: RoleLecturer, StaffNumber: strPtr("NIP-1")}, RoleLecturer, true, false},
		{"student stays student", Account{Role: RoleStudent, StudentNumber: strPtr("NIM-1")}, RoleStudent, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.start
			a.ChangeRole(tt.to)
			if a.Role != tt.to {
				t.Errorf("role = %s, want %s", a.Role, tt.to)
			}
			if (a.StaffNumber != nil) != tt.wantStaff {
				t.Errorf("staff number = %v, want present=%v", a.StaffNumber, tt.wantStaff)
			}
			if (a.StudentNumber != nil) != tt.wantStudent {
				t.Errorf("student number = %v, want present=%v", a.StudentNumber, tt.wantStudent)
			}
		})
	}
}
