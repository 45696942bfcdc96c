// Package authz holds the mutation policy for owned resources.
package authz

import "inkwell/internal/models"

// CanMutate reports whether a requester may update or delete a resource owned
// by resourceAuthorID: the author themselves, or any admin. Pure decision
// function, no I/O.
func CanMutate(resourceAuthorID, requesterID uint, requesterRole string) bool {
	return requesterID == resourceAuthorID || requesterRole == models.RoleAdmin
}
