package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWith(t *testing.T) {
	ctx := With(context.Background(), "user-1", 7)

	userID, ok := UserID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "user-1", userID)

	accountID, ok := AccountID(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(7), accountID)
}

func TestMissingIdentity(t *testing.T) {
	_, ok := UserID(context.Background())
	assert.False(t, ok)

	_, ok = AccountID(context.Background())
	assert.False(t, ok)

	_, ok = AccountID(With(context.Background(), "user-1", 0))
	assert.False(t, ok)
}
