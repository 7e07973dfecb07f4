package session

import (
	"testing"

	"github.com/bhataakib02/retail-app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_SetsRoleFields(t *testing.T) {
	s := New("sid")
	s.Login(&models.User{ID: 4, Username: "root", Role: models.RoleAdmin})

	assert.True(t, s.LoggedIn)
	assert.Equal(t, uint(4), s.UserID)
	assert.Equal(t, 1, s.IsAdmin)
	assert.True(t, s.HasRole(models.RoleAdmin))
	assert.False(t, s.HasRole(models.RoleUser))
}

func TestLogin_KeepsCart(t *testing.T) {
	s := New("sid")
	require.NoError(t, s.Cart.Add("1", 2))
	s.Login(&models.User{ID: 1, Username: "alice", Role: models.RoleUser})

	assert.Equal(t, 0, s.IsAdmin)
	assert.Equal(t, 2, s.Cart.Quantity("1"))
}

func TestClear_DropsEverythingButID(t *testing.T) {
	s := New("sid")
	s.Login(&models.User{ID: 1, Username: "alice", Role: models.RoleUser})
	require.NoError(t, s.Cart.Add("1", 1))
	s.AddFlash(FlashInfo, "hi")

	s.Clear()

	assert.Equal(t, "sid", s.ID)
	assert.False(t, s.LoggedIn)
	assert.True(t, s.Cart.IsEmpty())
	assert.Empty(t, s.Flashes)
	assert.False(t, s.HasRole(models.RoleUser))
}

func TestPopFlashes(t *testing.T) {
	s := New("sid")
	s.AddFlash(FlashSuccess, "one")
	s.AddFlash(FlashDanger, "two")

	assert.Equal(t, []Flash{{FlashSuccess, "one"}, {FlashDanger, "two"}}, s.PopFlashes())
	assert.Empty(t, s.PopFlashes())
}
