package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nived-m/chathaven/internal/apperr"
)

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore()

	created, err := s.Create(ctx, "alice@x.com", "Alice", "hashed")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = s.Create(ctx, "alice@x.com", "Alice Again", "hashed")
	assert.True(t, apperr.IsAlreadyExists(err))

	got, err := s.GetByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Alice", got.DisplayName)
	assert.Equal(t, "hashed", got.PasswordHash)

	// Missing user is nil, nil: absence is not an error here.
	missing, err := s.GetByEmail(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
