package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/app/repositories/memory"
	"github.com/scholaris/resultportal/internal/pkg/apperrors"
	"github.com/scholaris/resultportal/internal/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	repos, _ := memory.NewRepositories()
	hasher := auth.NewBcryptVerifier(bcrypt.MinCost)

	created, err := EnsureAdmin(ctx, repos.AdminRepository, hasher, " Admin@School.edu ", "", "secret")
	require.NoError(t, err)
	assert.True(t, created)

	admins, err := repos.AdminRepository.FindActiveByEmail(ctx, "admin@school.edu")
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "School Administrator", admins[0].FullName)
	assert.True(t, hasher.Verify(admins[0].PasswordHash, "secret"))

	created, err = EnsureAdmin(ctx, repos.AdminRepository, hasher, "admin@school.edu", "Other", "other")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = EnsureAdmin(ctx, repos.AdminRepository, hasher, "", "x", "secret")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestEnsureSettings(t *testing.T) {
	ctx := context.Background()
	repos, _ := memory.NewRepositories()

	created, err := EnsureSettings(ctx, repos.SettingsRepository, "Bright Future Academy")
	require.NoError(t, err)
	assert.True(t, created)

	settings, err := repos.SettingsRepository.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bright Future Academy", settings.SchoolName)
	assert.Equal(t, models.TemplateModern, settings.ResultTemplate)

	created, err = EnsureSettings(ctx, repos.SettingsRepository, "Another Name")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestCreateDefaultData(t *testing.T) {
	ctx := context.Background()
	repos, _ := memory.NewRepositories()
	hasher := auth.NewBcryptVerifier(bcrypt.MinCost)

	err := CreateDefaultData(ctx, repos, hasher, Options{AdminEmail: "admin@school.local"}, zerolog.Nop())
	require.NoError(t, err)

	exists, err := repos.AdminRepository.ExistsByEmail(ctx, "admin@school.local")
	require.NoError(t, err)
	assert.True(t, exists)

	settings, err := repos.SettingsRepository.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSchoolName, settings.SchoolName)

	t.Run("settings failure does not block admin", func(t *testing.T) {
		repos, store := memory.NewRepositories()
		store.FailOn(memory.OpUpsertSettings, assert.AnError)
		err := CreateDefaultData(ctx, repos, hasher, Options{AdminEmail: "a@b.c", AdminPassword: "pw"}, zerolog.Nop())
		assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)

		exists, err := repos.AdminRepository.ExistsByEmail(ctx, "a@b.c")
		require.NoError(t, err)
		assert.True(t, exists)
	})
}
