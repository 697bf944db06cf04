package database

import (
	"context"
	"sync"
	"testing"

	"serwis-kont/internal/auth"
	"serwis-kont/internal/models"

	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T, username string) *models.User {
	t.Helper()

	hashedPassword, err := auth.HashPassword("secretpassword")
	require.NoError(t, err)

	displayName := "Test User"
	user, err := testStore.CreateUser(context.Background(), CreateUserParams{
		Username:     username,
		PasswordHash: hashedPassword,
		DisplayName:  &displayName,
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}

func TestCreateUser(t *testing.T) {
	user := createTestUser(t, "tworzenie_user")

	require.NotZero(t, user.ID)
	require.Equal(t, "tworzenie_user", user.Username)
	require.NotEmpty(t, user.PasswordHash)
	require.NotNil(t, user.DisplayName)
	require.Equal(t, "Test User", *user.DisplayName)
	require.NotZero(t, user.CreatedAt)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	createTestUser(t, "duplikat_user")

	_, err := testStore.CreateUser(context.Background(), CreateUserParams{
		Username:     "duplikat_user",
		PasswordHash: "irrelevant",
	})
	require.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestCreateUser_ConcurrentSameUsername(t *testing.T) {
	const attempts = 8

	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = testStore.CreateUser(context.Background(), CreateUserParams{
				Username:     "wyscig_user",
				PasswordHash: "irrelevant",
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			require.ErrorIs(t, err, ErrDuplicateUsername)
		}
	}
	require.Equal(t, 1, successes, "exactly one concurrent registration should win")
}

func TestGetUserByUsername(t *testing.T) {
	createTestUser(t, "lookup_user")

	foundUser, err := testStore.GetUserByUsername(context.Background(), "lookup_user")

	require.NoError(t, err)
	require.NotNil(t, foundUser)
	require.Equal(t, "lookup_user", foundUser.Username)
	require.NotEmpty(t, foundUser.PasswordHash)

	nonExistentUser, err := testStore.GetUserByUsername(context.Background(), "nonexistent")
	require.NoError(t, err)
	require.Nil(t, nonExistentUser)
}

func TestGetUserByID(t *testing.T) {
	user := createTestUser(t, "lookup_id_user")

	foundUser, err := testStore.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, foundUser)
	require.Equal(t, user.Username, foundUser.Username)

	missing, err := testStore.GetUserByID(context.Background(), user.ID+100000)
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestUpdateUserProfile(t *testing.T) {
	user := createTestUser(t, "edycja_user")

	newName := "Nowa Nazwa"
	err := testStore.UpdateUserProfile(context.Background(), UpdateUserProfileParams{
		ID:          user.ID,
		Username:    "edycja_user2",
		DisplayName: &newName,
	})
	require.NoError(t, err)

	updated, err := testStore.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, "edycja_user2", updated.Username)
	require.Equal(t, "Nowa Nazwa", *updated.DisplayName)

	// Old username is free again.
	gone, err := testStore.GetUserByUsername(context.Background(), "edycja_user")
	require.NoError(t, err)
	require.Nil(t, gone)
}

func TestUpdateUserProfile_DuplicateUsername(t *testing.T) {
	userA := createTestUser(t, "edycja_dup_a")
	createTestUser(t, "edycja_dup_b")

	name := "A"
	err := testStore.UpdateUserProfile(context.Background(), UpdateUserProfileParams{
		ID:          userA.ID,
		Username:    "edycja_dup_b",
		DisplayName: &name,
	})
	require.ErrorIs(t, err, ErrDuplicateUsername)

	// Both records are unchanged.
	a, err := testStore.GetUserByID(context.Background(), userA.ID)
	require.NoError(t, err)
	require.Equal(t, "edycja_dup_a", a.Username)

	b, err := testStore.GetUserByUsername(context.Background(), "edycja_dup_b")
	require.NoError(t, err)
	require.NotNil(t, b)
}

func TestUpdateUserProfile_NotFound(t *testing.T) {
	name := "Ghost"
	err := testStore.UpdateUserProfile(context.Background(), UpdateUserProfileParams{
		ID:          999999,
		Username:    "ghost_user",
		DisplayName: &name,
	})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	user := createTestUser(t, "kasowanie_user")

	deleted, err := testStore.DeleteUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	gone, err := testStore.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Nil(t, gone)

	deletedAgain, err := testStore.DeleteUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.False(t, deletedAgain)
}

func TestDeleteUser_IDNotReused(t *testing.T) {
	first := createTestUser(t, "sekwencja_user_1")

	deleted, err := testStore.DeleteUser(context.Background(), first.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	second := createTestUser(t, "sekwencja_user_2")
	require.Greater(t, second.ID, first.ID)
}
