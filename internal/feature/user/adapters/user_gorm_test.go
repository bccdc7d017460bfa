package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"user_backend/internal/feature/user/domain/entity"
	"user_backend/internal/feature/user/usecase"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to initialize test database")

	// Every pooled connection would get its own in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&UserModel{}), "failed to migrate table")
	return db
}

func newUser(t *testing.T, name, email string) *entity.User {
	t.Helper()
	u, err := entity.NewUser(name, email)
	require.NoError(t, err)
	return u
}

func TestNewUserGorm(t *testing.T) {
	db := setupTestDB(t)

	repo := NewUserGorm(db)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
}

func TestUserGorm_SaveInsert(t *testing.T) {
	t.Run("assigns increasing ids and keeps timestamps", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))
		ctx := context.Background()

		first := newUser(t, "Alice", "alice@example.com")
		saved, err := repo.Save(ctx, first)
		require.NoError(t, err)
		assert.NotZero(t, saved.ID())
		assert.False(t, saved.IsNew())
		assert.True(t, saved.CreatedAt().Equal(first.CreatedAt()))
		assert.True(t, saved.UpdatedAt().Equal(first.UpdatedAt()))

		second, err := repo.Save(ctx, newUser(t, "Bob", "bob@example.com"))
		require.NoError(t, err)
		assert.Greater(t, second.ID(), saved.ID())
	})

	t.Run("duplicate email is translated", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))
		ctx := context.Background()

		_, err := repo.Save(ctx, newUser(t, "Alice", "dup@example.com"))
		require.NoError(t, err)

		_, err = repo.Save(ctx, newUser(t, "Other", "dup@example.com"))
		assert.ErrorIs(t, err, usecase.ErrDuplicateEmail)
	})

	t.Run("nil user", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		_, err := repo.Save(context.Background(), nil)
		assert.Error(t, err)
	})
}

func TestUserGorm_SaveUpdate(t *testing.T) {
	t.Run("updates in place", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))
		ctx := context.Background()

		saved, err := repo.Save(ctx, newUser(t, "Alice", "alice@example.com"))
		require.NoError(t, err)
		created := saved.CreatedAt()

		require.NoError(t, saved.Update("Alice Smith", "smith@example.com"))
		updated, err := repo.Save(ctx, saved)
		require.NoError(t, err)
		assert.Equal(t, saved.ID(), updated.ID())

		found, err := repo.FindByID(ctx, saved.ID())
		require.NoError(t, err)
		assert.Equal(t, "Alice Smith", found.Name())
		assert.Equal(t, "smith@example.com", found.Email())
		assert.True(t, found.CreatedAt().Equal(created), "created_at must not change")

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("email taken by another row", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))
		ctx := context.Background()

		alice, err := repo.Save(ctx, newUser(t, "Alice", "alice@example.com"))
		require.NoError(t, err)
		_, err = repo.Save(ctx, newUser(t, "Bob", "bob@example.com"))
		require.NoError(t, err)

		require.NoError(t, alice.Update("Alice", "bob@example.com"))
		_, err = repo.Save(ctx, alice)
		assert.ErrorIs(t, err, usecase.ErrDuplicateEmail)
	})

	t.Run("row vanished", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))
		now := time.Now()
		ghost, err := entity.RestoreUser(77, "Ghost", "ghost@example.com", now, now)
		require.NoError(t, err)

		_, err = repo.Save(context.Background(), ghost)
		assert.ErrorIs(t, err, usecase.ErrStorageInconsistency)
	})
}

func TestUserGorm_Find(t *testing.T) {
	repo := NewUserGorm(setupTestDB(t))
	ctx := context.Background()

	saved, err := repo.Save(ctx, newUser(t, "Alice", "alice@example.com"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		find    func() (*entity.User, error)
		wantErr error
	}{
		{
			name: "by id",
			find: func() (*entity.User, error) { return repo.FindByID(ctx, saved.ID()) },
		},
		{
			name: "by email",
			find: func() (*entity.User, error) { return repo.FindByEmail(ctx, "alice@example.com") },
		},
		{
			name:    "unknown id",
			find:    func() (*entity.User, error) { return repo.FindByID(ctx, 999) },
			wantErr: usecase.ErrUserNotFound,
		},
		{
			name:    "unknown email",
			find:    func() (*entity.User, error) { return repo.FindByEmail(ctx, "nobody@example.com") },
			wantErr: usecase.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.find()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(saved))
			assert.Equal(t, "Alice", got.Name())
		})
	}
}

func TestUserGorm_FindAll(t *testing.T) {
	t.Run("empty table", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		users, err := repo.FindAll(context.Background())
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("ordered by id", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))
		ctx := context.Background()

		for _, in := range [][2]string{{"Carol", "c@example.com"}, {"Alice", "a@example.com"}, {"Bob", "b@example.com"}} {
			_, err := repo.Save(ctx, newUser(t, in[0], in[1]))
			require.NoError(t, err)
		}

		users, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, users, 3)
		assert.Equal(t, "Carol", users[0].Name())
		assert.Equal(t, "Alice", users[1].Name())
		assert.Equal(t, "Bob", users[2].Name())
		assert.Less(t, users[0].ID(), users[1].ID())
		assert.Less(t, users[1].ID(), users[2].ID())
	})
}

func TestUserGorm_DeleteAndExists(t *testing.T) {
	repo := NewUserGorm(setupTestDB(t))
	ctx := context.Background()

	saved, err := repo.Save(ctx, newUser(t, "Alice", "alice@example.com"))
	require.NoError(t, err)

	exists, err := repo.ExistsByID(ctx, saved.ID())
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	deleted, err := repo.DeleteByID(ctx, saved.ID())
	require.NoError(t, err)
	assert.True(t, deleted)

	exists, err = repo.ExistsByID(ctx, saved.ID())
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	deleted, err = repo.DeleteByID(ctx, saved.ID())
	require.NoError(t, err)
	assert.False(t, deleted, "second delete removes nothing")
}

func TestTranslateError(t *testing.T) {
	t.Parallel()

	other := errors.New("boom")
	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "gorm duplicated key", in: gorm.ErrDuplicatedKey, want: usecase.ErrDuplicateEmail},
		{name: "postgres unique violation", in: &pgconn.PgError{Code: "23505"}, want: usecase.ErrDuplicateEmail},
		{name: "postgres other error", in: &pgconn.PgError{Code: "23502"}, want: nil},
		{name: "unrelated error", in: other, want: other},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := translateError(tt.in)
			if tt.want == nil {
				assert.Same(t, tt.in, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}
