package barber

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Breyner794/barber-shop/internal/site"
)

func newTestService(t *testing.T) (Service, *site.Site) {
	t.Helper()
	sites := site.NewService(site.NewMemoryRepository())
	st, err := sites.Create(context.Background(), site.CreateSiteRequest{Name: "Compartir"})
	require.NoError(t, err)
	return NewService(NewMemoryRepository(), sites), st
}

func TestCreateAndListBySite(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	carlos, err := svc.Create(ctx, CreateRequest{Name: "Carlos", SiteID: st.ID, Active: true})
	require.NoError(t, err)
	assert.True(t, carlos.Bookable())

	andres, err := svc.Create(ctx, CreateRequest{Name: "Andres", SiteID: st.ID})
	require.NoError(t, err)
	assert.False(t, andres.Bookable(), "inactive barbers are not bookable")

	floating, err := svc.Create(ctx, CreateRequest{Name: "Zoe", Active: true})
	require.NoError(t, err)
	assert.False(t, floating.Bookable(), "unassigned barbers are not bookable")

	got, err := svc.ListBySite(ctx, st.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Andres", got[0].Name)
	assert.Equal(t, "Carlos", got[1].Name)

	active := true
	items, total, err := svc.List(ctx, Filter{Active: &active})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, items, 2)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Create(ctx, CreateRequest{Name: " "})
	assert.True(t, errors.Is(err, ErrEmptyName))

	_, err = svc.Create(ctx, CreateRequest{Name: "Carlos", SiteID: "6a1f6c0e-8d4c-4a43-9a57-000000000000"})
	assert.True(t, errors.Is(err, ErrInvalidSite))
}

func TestUpdateAndPhoto(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	b, err := svc.Create(ctx, CreateRequest{Name: "Carlos", SiteID: st.ID, Active: true})
	require.NoError(t, err)

	unassigned := ""
	inactive := false
	updated, err := svc.Update(ctx, b.ID, UpdateRequest{SiteID: &unassigned, Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "", updated.SiteID)
	assert.False(t, updated.Active)
	assert.Equal(t, "Carlos", updated.Name)

	require.NoError(t, svc.SetPhoto(ctx, b.ID, "file-1"))
	got, err := svc.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PhotoFileID)
	assert.Equal(t, "file-1", *got.PhotoFileID)

	require.NoError(t, svc.Delete(ctx, b.ID))
	assert.True(t, errors.Is(svc.SetPhoto(ctx, b.ID, "file-2"), ErrNotFound))
}
