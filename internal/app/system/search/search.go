// internal/app/system/search/search.go
package search

import "strings"

// EmailPivotOK reports whether it’s safe & useful to pivot a paged user
// search from username-based sorting to email-based sorting.
//
// We consider it safe to pivot when the user is clearly searching by email
// (the query contains '@') and the result set is constrained to a team, so
// the indexed path stays selective enough.
//
// Typical usage in the member picker:
//
//	pivot := search.EmailPivotOK(query, teamID != primitive.NilObjectID)
//	sortField := "username_ci"
//	if pivot {
//	    sortField = "email"
//	}
//
// For unscoped user lists (staff views across all teams), use EmailPivotGlobalOK.
//
//	pivot := search.EmailPivotGlobalOK(query)
func EmailPivotOK(query string, hasTeam bool) bool {
	return strings.Contains(query, "@") && hasTeam
}

// EmailPivotGlobalOK is a variant for global lists with no team constraint
// (staff-only user administration). Pivots whenever the query looks like
// an email.
func EmailPivotGlobalOK(query string) bool {
	return strings.Contains(query, "@")
}

// LooksLikeEmail reports whether a search query should be matched against
// the email field rather than username or display name.
func LooksLikeEmail(query string) bool {
	return strings.Contains(query, "@")
}
