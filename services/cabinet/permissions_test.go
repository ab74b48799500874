package cabinet

import (
	"strings"
	"testing"
)

func TestRoleFromString(t *testing.T) {
	cases := []struct {
		in   string
		want Role
	}{
		{"Fondateur", RoleFondateur},
		{"Associé", RoleAssocie},
		{"Collaborateur", RoleCollaborateur},
		{"Stagiaire", RoleStagiaire},
		{"Assistant", RoleAssistant},
		{"membre", RoleMembre},
		{"", RoleMembre},
		{"owner", RoleMembre},
		{"fondateur", RoleMembre}, // case sensitive, as stored
		{"garbage", RoleMembre},
	}
	for _, c := range cases {
		if got := RoleFromString(c.in); got != c.want {
			t.Errorf("RoleFromString(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// grantTable is the full capability truth table over the recognized roles.
var grantTable = []struct {
	name    string
	check   func(Role) bool
	granted map[Role]bool
}{
	{"CanManageSubscription", CanManageSubscription, map[Role]bool{RoleFondateur: true}},
	{"CanDeleteCabinet", CanDeleteCabinet, map[Role]bool{RoleFondateur: true}},
	{"CanInviteMembers", CanInviteMembers, map[Role]bool{RoleFondateur: true, RoleAssocie: true}},
	{"CanRemoveMembers", CanRemoveMembers, map[Role]bool{RoleFondateur: true, RoleAssocie: true}},
	{"CanChangeRoles", CanChangeRoles, map[Role]bool{RoleFondateur: true, RoleAssocie: true}},
	{"CanDeleteResources", CanDeleteResources, map[Role]bool{RoleFondateur: true, RoleAssocie: true}},
	{"IsAdmin", IsAdmin, map[Role]bool{RoleFondateur: true, RoleAssocie: true}},
	{"CanCreateResources", CanCreateResources, map[Role]bool{RoleFondateur: true, RoleAssocie: true, RoleCollaborateur: true}},
	{"CanEditResources", CanEditResources, map[Role]bool{RoleFondateur: true, RoleAssocie: true, RoleCollaborateur: true}},
}

func TestCapabilityTruthTable(t *testing.T) {
	for _, entry := range grantTable {
		for _, role := range AllRoles {
			want := entry.granted[role]
			if got := entry.check(role); got != want {
				t.Errorf("%s(%q) = %v, want %v", entry.name, role, got, want)
			}
		}
	}
}

// TestCapabilityNesting verifies the strict hierarchy: any capability held by
// a Collaborateur is held by an Associé, any held by an Associé is held by
// the Fondateur, and Stagiaire/Assistant/membre hold none.
func TestCapabilityNesting(t *testing.T) {
	for _, entry := range grantTable {
		if entry.check(RoleCollaborateur) && !entry.check(RoleAssocie) {
			t.Errorf("%s: granted to Collaborateur but not Associé", entry.name)
		}
		if entry.check(RoleAssocie) && !entry.check(RoleFondateur) {
			t.Errorf("%s: granted to Associé but not Fondateur", entry.name)
		}
		for _, role := range []Role{RoleStagiaire, RoleAssistant, RoleMembre} {
			if entry.check(role) {
				t.Errorf("%s: unexpectedly granted to %q", entry.name, role)
			}
		}
	}
}

func TestCanAssignRole(t *testing.T) {
	cases := []struct {
		userRole Role
		target   string
		want     bool
	}{
		{RoleFondateur, "Fondateur", true},
		{RoleFondateur, "Associé", true},
		{RoleFondateur, "Collaborateur", true},
		{RoleFondateur, "Stagiaire", true},
		{RoleAssocie, "Collaborateur", true},
		{RoleAssocie, "Stagiaire", true},
		{RoleAssocie, "Assistant", true},
		{RoleAssocie, "Associé", false},
		{RoleAssocie, "Fondateur", false},
		{RoleAssocie, "owner", false},
		{RoleCollaborateur, "Stagiaire", false},
		{RoleStagiaire, "Stagiaire", false},
		{RoleStagiaire, "Assistant", false},
		{RoleAssistant, "Collaborateur", false},
		{RoleMembre, "Collaborateur", false},
	}
	for _, c := range cases {
		if got := CanAssignRole(c.userRole, c.target); got != c.want {
			t.Errorf("CanAssignRole(%q, %q) = %v, want %v", c.userRole, c.target, got, c.want)
		}
	}
}

func TestCanModifyMemberRole(t *testing.T) {
	cases := []struct {
		userRole Role
		target   string
		want     bool
	}{
		{RoleFondateur, "Associé", true},
		{RoleFondateur, "Fondateur", true},
		{RoleAssocie, "Collaborateur", true},
		{RoleAssocie, "Fondateur", false},
		{RoleAssocie, "Associé", false},
		{RoleAssocie, "owner", false},
		{RoleCollaborateur, "Stagiaire", false},
		{RoleMembre, "Stagiaire", false},
	}
	for _, c := range cases {
		if got := CanModifyMemberRole(c.userRole, c.target); got != c.want {
			t.Errorf("CanModifyMemberRole(%q, %q) = %v, want %v", c.userRole, c.target, got, c.want)
		}
	}
}

func TestPermissionDeniedMessage(t *testing.T) {
	if msg := PermissionDeniedMessage(RoleStagiaire); !strings.Contains(msg, "stagiaires") {
		t.Errorf("Stagiaire message missing 'stagiaires': %q", msg)
	}
	if msg := PermissionDeniedMessage(RoleAssistant); !strings.Contains(msg, "assistants") {
		t.Errorf("Assistant message missing 'assistants': %q", msg)
	}
	if msg := PermissionDeniedMessage(RoleCollaborateur); !strings.Contains(msg, "Fondateurs et Associés") {
		t.Errorf("Collaborateur message missing 'Fondateurs et Associés': %q", msg)
	}

	generic := "Vous n'avez pas les permissions nécessaires pour cette action"
	for _, role := range []Role{RoleMembre, RoleFondateur, RoleAssocie, RoleFromString("")} {
		if msg := PermissionDeniedMessage(role); msg != generic {
			t.Errorf("PermissionDeniedMessage(%q) = %q, want generic fallback", role, msg)
		}
	}
}
