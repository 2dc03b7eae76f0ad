// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Roles

// UserRole represents the authorization level carried by an access token.
type UserRole string

const (
	// Can trigger reference syncs and purge reference collections
	RoleOperator UserRole = "operator"

	// Read-only access to the query endpoints
	RoleReader UserRole = "reader"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {
	switch r {
	case RoleOperator:
		return 20
	case RoleReader:
		return 10
	default:
		return 0
	}
}
