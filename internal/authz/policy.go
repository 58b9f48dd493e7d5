// Package authz holds the admin authorization policy.
package authz

import "votedesk/pkg/domain"

// IsAdmin decides whether current may perform administrative actions.
//
// In dev mode any connected address is an admin; production builds force dev mode off
// at config load. Otherwise current must equal admin case-insensitively. An absent
// current address is never an admin.
func IsAdmin(current, admin domain.Address, devMode bool) bool {
	if current.IsNil() {
		return false
	}
	if devMode {
		return true
	}
	return current.Equal(admin)
}
