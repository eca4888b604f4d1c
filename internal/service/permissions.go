package service

import "github.com/taskforge-labs/taskforge-backend/internal/types"

// ============================================
// Role Matrix
// ============================================

// Operation is a capability a project role may or may not hold.
type Operation string

const (
	OpCreateTask    Operation = "create_task"
	OpReadTask      Operation = "read_task"
	OpUpdateAny     Operation = "update_any"
	OpUpdateOwn     Operation = "update_own"
	OpDeleteAny     Operation = "delete_any"
	OpDeleteOwn     Operation = "delete_own"
	OpManageMembers Operation = "manage_members"
)

// rolePermissions is the whole authorization policy, as a fixed lookup
// table. There is deliberately no fall-through between roles: a
// capability a role does not list is denied, and authorization never
// compares roles numerically.
var rolePermissions = map[string]map[Operation]bool{
	types.RoleOwner: {
		OpCreateTask:    true,
		OpReadTask:      true,
		OpUpdateAny:     true,
		OpUpdateOwn:     true,
		OpDeleteAny:     true,
		OpDeleteOwn:     true,
		OpManageMembers: true,
	},
	types.RoleAdmin: {
		OpCreateTask:    true,
		OpReadTask:      true,
		OpUpdateAny:     true,
		OpUpdateOwn:     true,
		OpDeleteAny:     true,
		OpDeleteOwn:     true,
		OpManageMembers: true,
	},
	types.RoleMember: {
		OpCreateTask: true,
		OpReadTask:   true,
		OpUpdateOwn:  true,
		OpDeleteOwn:  true,
	},
	types.RoleViewer: {
		OpReadTask: true,
	},
}

// RoleCan consults the policy table.
func RoleCan(role string, op Operation) bool {
	return rolePermissions[role][op]
}

// canMutate resolves the update/delete rule: the "any" capability, or
// the "own" capability when the principal created the resource.
func canMutate(role, creatorID, userID string, anyOp, ownOp Operation) bool {
	if RoleCan(role, anyOp) {
		return true
	}
	return RoleCan(role, ownOp) && creatorID == userID
}

// roleRank orders roles by privilege for member-list sorting and
// display only. Authorization decisions go through RoleCan.
func roleRank(role string) int {
	switch role {
	case types.RoleOwner:
		return 4
	case types.RoleAdmin:
		return 3
	case types.RoleMember:
		return 2
	case types.RoleViewer:
		return 1
	default:
		return 0
	}
}
