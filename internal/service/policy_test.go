package service

import (
	"testing"

	"projecttracker/internal/model"

	"github.com/stretchr/testify/require"
)

func TestCanModifyProject(t *testing.T) {
	p := &model.Project{ID: 1, CreatedBy: 7}

	require.True(t, CanModifyProject(&CustomClaims{UserID: 7, Role: model.RoleEmployee}, p))
	require.True(t, CanModifyProject(&CustomClaims{UserID: 2, Role: model.RoleAdmin}, p))
	require.False(t, CanModifyProject(&CustomClaims{UserID: 2, Role: model.RoleEmployee}, p))
	require.False(t, CanModifyProject(nil, p))
}

func TestCanDeleteEntry(t *testing.T) {
	e := &model.TimeEntry{ID: 1, UserID: 7}

	require.True(t, CanDeleteEntry(&CustomClaims{UserID: 7, Role: model.RoleEmployee}, e))
	require.True(t, CanDeleteEntry(&CustomClaims{UserID: 2, Role: model.RoleAdmin}, e))
	require.False(t, CanDeleteEntry(&CustomClaims{UserID: 2, Role: model.RoleEmployee}, e))
	require.False(t, CanDeleteEntry(nil, e))
}

func TestScopedToOwn(t *testing.T) {
	require.True(t, ScopedToOwn(&CustomClaims{Role: model.RoleEmployee}))
	require.False(t, ScopedToOwn(&CustomClaims{Role: model.RoleAdmin}))
	// Unknown role falls back to the narrow view.
	require.True(t, ScopedToOwn(&CustomClaims{Role: "other"}))
	require.True(t, ScopedToOwn(nil))
}

func TestCanViewBilling(t *testing.T) {
	require.True(t, CanViewBilling(&CustomClaims{Role: model.RoleAdmin}))
	require.False(t, CanViewBilling(&CustomClaims{Role: model.RoleEmployee}))
	require.False(t, CanViewBilling(nil))
}
