package dao

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-agent/model"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	sess := model.NewSession("u1")
	sess.State = model.StateWaitingEquipment
	sess.Lead.Name = "Carlos"
	sess.Append(model.RoleUser, "hola")
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.StateWaitingEquipment, got.State)
	assert.Equal(t, "Carlos", got.Lead.Name)
	require.Len(t, got.History, 1)
}

func TestMemoryStore_UnknownSessionIsNilNil(t *testing.T) {
	store := NewMemoryStore()
	got, err := store.Get(context.Background(), "nadie")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_InvalidParams(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidParam)
	assert.ErrorIs(t, store.Delete(ctx, ""), ErrInvalidParam)
	assert.ErrorIs(t, store.Save(ctx, nil), ErrInvalidSession)
	assert.ErrorIs(t, store.Save(ctx, &model.Session{}), ErrInvalidSession)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, model.NewSession("u1")))
	require.NoError(t, store.Delete(ctx, "u1"))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// deleting an absent session is not an error
	assert.NoError(t, store.Delete(ctx, "u1"))
}

func TestMemoryStore_CallersNeverShareState(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess := model.NewSession("u1")
	idx := 1
	sess.Lead.CurrentQuestionIndex = &idx
	sess.Lead.MachineCharacteristics = []string{"Altura: 12m"}
	sess.Append(model.RoleUser, "hola")
	require.NoError(t, store.Save(ctx, sess))

	// mutating the original after save must not leak into the store
	sess.Lead.MachineCharacteristics[0] = "mutado"
	*sess.Lead.CurrentQuestionIndex = 99
	sess.History[0].Content = "mutado"

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Altura: 12m", got.Lead.MachineCharacteristics[0])
	assert.Equal(t, 1, *got.Lead.CurrentQuestionIndex)
	assert.Equal(t, "hola", got.History[0].Content)

	// mutating one read must not affect the next
	got.Lead.MachineCharacteristics[0] = "otra vez"
	again, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Altura: 12m", again.Lead.MachineCharacteristics[0])
}
