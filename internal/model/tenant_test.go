package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleIsAdminOrDev(t *testing.T) {
	assert.True(t, RoleAdmin.IsAdminOrDev())
	assert.True(t, RoleDev.IsAdminOrDev())
	assert.False(t, RoleUser.IsAdminOrDev())
	assert.False(t, Role("").IsAdminOrDev())
	assert.False(t, Role("superadmin").IsAdminOrDev())
}

func TestRoleIsValid(t *testing.T) {
	assert.True(t, RoleAdmin.IsValid())
	assert.True(t, RoleUser.IsValid())
	assert.True(t, RoleDev.IsValid())
	assert.False(t, Role("root").IsValid())
}
