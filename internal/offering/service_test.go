package offering

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOffering(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())

	o, err := svc.Create(ctx, CreateRequest{
		Title:           " Corte ",
		DurationMinutes: 30,
		Price:           decimal.RequireFromString("25000.50"),
		Includes:        []string{"lavado", " ", "peinado"},
		Active:          true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Corte", o.Title)
	assert.Equal(t, []string{"lavado", "peinado"}, o.Includes)
	assert.Equal(t, "30m0s", o.Duration().String())

	got, err := svc.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("25000.5")))
}

func TestOfferingValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())

	tests := []struct {
		name string
		req  CreateRequest
		want error
	}{
		{"missing title", CreateRequest{DurationMinutes: 30}, ErrTitleRequired},
		{"zero duration", CreateRequest{Title: "Corte"}, ErrInvalidDuration},
		{"negative duration", CreateRequest{Title: "Corte", DurationMinutes: -5}, ErrInvalidDuration},
		{"negative price", CreateRequest{Title: "Corte", DurationMinutes: 30, Price: decimal.NewFromInt(-1)}, ErrInvalidPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestUpdateOffering(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())

	o, err := svc.Create(ctx, CreateRequest{Title: "Barba", DurationMinutes: 20, Active: true})
	require.NoError(t, err)

	minutes := 45
	inactive := false
	updated, err := svc.Update(ctx, o.ID, UpdateRequest{DurationMinutes: &minutes, Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, 45, updated.DurationMinutes)
	assert.False(t, updated.Active)

	zero := 0
	_, err = svc.Update(ctx, o.ID, UpdateRequest{DurationMinutes: &zero})
	assert.True(t, errors.Is(err, ErrInvalidDuration))

	active := false
	items, total, err := svc.List(ctx, Filter{Active: &active})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, items, 1)

	require.NoError(t, svc.Delete(ctx, o.ID))
	_, err = svc.GetByID(ctx, o.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}
