package enums

import "testing"

func TestParseRoleStripsAuthorityPrefix(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"ADMIN", RoleAdmin},
		{"ROLE_ADMIN", RoleAdmin},
		{"ROLE_SUPER_ADMIN", RoleSuperAdmin},
		{"SUPER_ADMIN", RoleSuperAdmin},
		{"KITCHEN", RoleKitchen},
		{"ROLE_STAFF", RoleStaff},
	}
	for _, tt := range tests {
		got, err := ParseRole(tt.in)
		if err != nil {
			t.Fatalf("ParseRole(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseRoleRejectsLookalikes(t *testing.T) {
	for _, in := range []string{"SUB_ADMIN", "ROLE_SUB_ADMIN", "ADMINISTRATOR", "", "admin"} {
		if _, err := ParseRole(in); err == nil {
			t.Fatalf("ParseRole(%q) should fail", in)
		}
	}
}

func TestOrderStatusSets(t *testing.T) {
	if !OrderStatusPending.ActiveInKitchen() || !OrderStatusPreparing.ActiveInKitchen() {
		t.Fatalf("pending/preparing must be active in kitchen")
	}
	for _, s := range []OrderStatus{OrderStatusCompleted, OrderStatusServed, OrderStatusPaid, OrderStatusCancelled} {
		if s.ActiveInKitchen() {
			t.Fatalf("%s must not be active in kitchen", s)
		}
	}
	if !OrderStatusPaid.Settled() || !OrderStatusCancelled.Settled() {
		t.Fatalf("paid/cancelled must be settled")
	}
	if OrderStatusServed.Settled() {
		t.Fatalf("served still owes money")
	}
}
