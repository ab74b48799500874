// Permission checks for cabinet member roles.
//
// Every function here is pure and total: unknown or empty role strings carry
// no privilege, and no check ever errors. Capabilities nest strictly:
// whatever a Collaborateur may do, an Associé may do; whatever an Associé may
// do, the Fondateur may do. Stagiaire and Assistant hold no capability.
package cabinet

// Role is a cabinet member role.
type Role string

const (
	RoleFondateur     Role = "Fondateur"
	RoleAssocie       Role = "Associé"
	RoleCollaborateur Role = "Collaborateur"
	RoleStagiaire     Role = "Stagiaire"
	RoleAssistant     Role = "Assistant"
	// RoleMembre is the default for members whose role was never set, and the
	// fallback for unrecognized role strings.
	RoleMembre Role = "membre"
)

// AllRoles lists every recognized role, privileged first.
var AllRoles = []Role{
	RoleFondateur,
	RoleAssocie,
	RoleCollaborateur,
	RoleStagiaire,
	RoleAssistant,
	RoleMembre,
}

// RoleFromString maps a stored role string onto the closed enumeration.
// Unknown strings fall back to RoleMembre so every capability check degrades
// to a denial.
func RoleFromString(s string) Role {
	switch Role(s) {
	case RoleFondateur, RoleAssocie, RoleCollaborateur, RoleStagiaire, RoleAssistant:
		return Role(s)
	default:
		return RoleMembre
	}
}

// CanManageSubscription reports whether the role may manage the cabinet's
// subscription. Only the Fondateur can.
func CanManageSubscription(role Role) bool {
	return role == RoleFondateur
}

// CanDeleteCabinet reports whether the role may delete the cabinet itself.
// Only the Fondateur can.
func CanDeleteCabinet(role Role) bool {
	return role == RoleFondateur
}

// CanInviteMembers reports whether the role may invite new members.
func CanInviteMembers(role Role) bool {
	return role == RoleFondateur || role == RoleAssocie
}

// CanRemoveMembers reports whether the role may remove members.
func CanRemoveMembers(role Role) bool {
	return role == RoleFondateur || role == RoleAssocie
}

// CanChangeRoles reports whether the role may change member roles at all.
// Which roles it may touch is decided by CanAssignRole and
// CanModifyMemberRole.
func CanChangeRoles(role Role) bool {
	return role == RoleFondateur || role == RoleAssocie
}

// CanAssignRole reports whether userRole may grant targetRole to a member.
// The Fondateur may grant any role. An Associé may grant any role except
// Fondateur, Associé and the legacy "owner" value. Nobody else grants roles.
func CanAssignRole(userRole Role, targetRole string) bool {
	if userRole == RoleFondateur {
		return true
	}
	if userRole == RoleAssocie {
		return targetRole != string(RoleFondateur) &&
			targetRole != string(RoleAssocie) &&
			targetRole != "owner"
	}
	return false
}

// CanModifyMemberRole reports whether userRole may change the role of a
// member currently holding targetMemberRole. Same shape as CanAssignRole,
// applied to the member's current role.
func CanModifyMemberRole(userRole Role, targetMemberRole string) bool {
	if userRole == RoleFondateur {
		return true
	}
	if userRole == RoleAssocie {
		return targetMemberRole != string(RoleFondateur) &&
			targetMemberRole != string(RoleAssocie) &&
			targetMemberRole != "owner"
	}
	return false
}

// CanCreateResources reports whether the role may create clients, dossiers,
// contrats and other cabinet resources.
func CanCreateResources(role Role) bool {
	return role == RoleFondateur || role == RoleAssocie || role == RoleCollaborateur
}

// CanEditResources reports whether the role may edit cabinet resources.
func CanEditResources(role Role) bool {
	return role == RoleFondateur || role == RoleAssocie || role == RoleCollaborateur
}

// CanDeleteResources reports whether the role may delete cabinet resources.
func CanDeleteResources(role Role) bool {
	return role == RoleFondateur || role == RoleAssocie
}

// IsAdmin reports whether the role carries administrative privileges.
func IsAdmin(role Role) bool {
	return role == RoleFondateur || role == RoleAssocie
}

// PermissionDeniedMessage returns the human-readable denial string to show
// when a member with the given role is refused an action.
func PermissionDeniedMessage(role Role) string {
	switch role {
	case RoleStagiaire:
		return "Les stagiaires n'ont pas accès à cette fonctionnalité"
	case RoleAssistant:
		return "Les assistants n'ont pas accès à cette fonctionnalité"
	case RoleCollaborateur:
		return "Seuls les Fondateurs et Associés peuvent effectuer cette action"
	default:
		return "Vous n'avez pas les permissions nécessaires pour cette action"
	}
}
