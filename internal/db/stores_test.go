package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contactbook/internal/config"
	"contactbook/internal/logging"
	"contactbook/internal/model"
)

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{StoreDriver: config.StoreMemory}

	stores, err := Open(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	defer stores.Close()

	ctx := context.Background()
	user := &model.User{Email: "ada@example.com", PasswordHash: "x"}
	require.NoError(t, stores.Users.Create(ctx, user))

	found, err := stores.Users.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	require.NoError(t, stores.Revoked.Revoke(ctx, "jti", time.Minute))
	revoked, err := stores.Revoked.IsRevoked(ctx, "jti")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestStores_CloseRunsInReverse(t *testing.T) {
	var order []int
	s := &Stores{closers: []func(){
		func() { order = append(order, 1) },
		func() { order = append(order, 2) },
	}}

	s.Close()
	assert.Equal(t, []int{2, 1}, order)
}
