package usecase

import (
	"context"
	"testing"

	domainProfile "github.com/nicdemeagbeve-afk/synapse/domains/profile"
	"github.com/nicdemeagbeve-afk/synapse/infrastructure/storage"
	pkgError "github.com/nicdemeagbeve-afk/synapse/pkg/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileService_GetAndUpdate(t *testing.T) {
	ctx := context.Background()
	store := storage.NewProfileGormRepository(newTestDB(t))
	svc := NewProfileService(store)

	p, err := svc.Get(ctx, "user_123", "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, domainProfile.RoleUser, p.Role)
	assert.Equal(t, "a@b.c", p.Email)

	age := 31
	updated, err := svc.Update(ctx, "user_123", "a@b.c", domainProfile.UpdateRequest{FirstName: " Awa ", PhoneNumber: "+225 07 00 00 00", Age: &age, Country: "CI"})
	require.NoError(t, err)
	assert.Equal(t, "Awa", updated.FirstName)
	require.NotNil(t, updated.Age)
	assert.Equal(t, 31, *updated.Age)

	bad := 0
	_, err = svc.Update(ctx, "user_123", "", domainProfile.UpdateRequest{Age: &bad})
	assert.IsType(t, pkgError.ValidationError(""), err)
}

func TestProfileService_IsAdmin(t *testing.T) {
	ctx := context.Background()
	store := storage.NewProfileGormRepository(newTestDB(t))
	_, err := store.Upsert(ctx, domainProfile.Profile{ID: "root", Role: domainProfile.RoleAdmin})
	require.NoError(t, err)
	svc := NewProfileService(store)

	admin, err := svc.IsAdmin(ctx, "root")
	require.NoError(t, err)
	assert.True(t, admin)

	admin, err = svc.IsAdmin(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, admin)
}
