package site

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())

	created, err := svc.Create(ctx, CreateSiteRequest{
		Name:     "  Compartir  ",
		Address:  "Cra 1 # 2-3",
		Timezone: "America/Bogota",
		Hours:    OperatingHours{Weekly: weekdays(hm(9, 0), hm(19, 0))},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Compartir", created.Name)

	t.Run("get", func(t *testing.T) {
		got, err := svc.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Hours, got.Hours)
	})

	t.Run("list with keyword", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateSiteRequest{Name: "Centro"})
		require.NoError(t, err)

		items, total, err := svc.List(ctx, SiteFilter{Keyword: "compar"})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, items, 1)
		assert.Equal(t, created.ID, items[0].ID)

		_, total, err = svc.List(ctx, SiteFilter{})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})

	t.Run("update keeps unset fields", func(t *testing.T) {
		phone := "+573001234567"
		got, err := svc.Update(ctx, created.ID, UpdateSiteRequest{Phone: &phone})
		require.NoError(t, err)
		assert.Equal(t, phone, got.Phone)
		assert.Equal(t, "Cra 1 # 2-3", got.Address)
	})

	t.Run("update rejects bad timezone", func(t *testing.T) {
		tz := "Nowhere/City"
		_, err := svc.Update(ctx, created.ID, UpdateSiteRequest{Timezone: &tz})
		assert.True(t, errors.Is(err, ErrInvalidTimezone))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, created.ID))
		_, err := svc.GetByID(ctx, created.ID)
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.True(t, errors.Is(svc.Delete(ctx, created.ID), ErrNotFound))
	})
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	_, err := svc.Create(context.Background(), CreateSiteRequest{Name: "   "})
	assert.True(t, errors.Is(err, ErrNameRequired))
}
