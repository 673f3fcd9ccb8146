package service

import "projecttracker/internal/model"

// Access policy. Role and ownership checks live here so every handler
// applies the same rules; the per-view scoping asymmetry of the product is
// intentional: the project board shows all projects to everyone, while the
// time-tracking and billing screens scope employees to their own data.

// CanModifyProject reports whether the caller may mutate or delete a
// project: the creator or any admin.
func CanModifyProject(claims *CustomClaims, p *model.Project) bool {
	if claims == nil {
		return false
	}
	return claims.Role == model.RoleAdmin || p.CreatedBy == claims.UserID
}

// CanDeleteEntry reports whether the caller may delete a time entry: the
// logger or any admin.
func CanDeleteEntry(claims *CustomClaims, e *model.TimeEntry) bool {
	if claims == nil {
		return false
	}
	return claims.Role == model.RoleAdmin || e.UserID == claims.UserID
}

// ScopedToOwn reports whether the time-tracking view restricts the caller to
// their own time entries and their own projects. Admins see everything.
func ScopedToOwn(claims *CustomClaims) bool {
	return claims == nil || claims.Role != model.RoleAdmin
}

// CanViewBilling gates the billing view: admin only, deny by default.
func CanViewBilling(claims *CustomClaims) bool {
	return claims != nil && claims.Role == model.RoleAdmin
}
