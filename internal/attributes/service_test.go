package attributes

import (
	"context"
	"testing"

	"github.com/angelmondragon/storefront-admin/internal/resource"
	"github.com/angelmondragon/storefront-admin/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValuesAreCleanedOnStoreAndUpdate(t *testing.T) {
	svc, err := NewService(resource.Deps{DB: dbtest.Open(t)})
	require.NoError(t, err)
	ctx := context.Background()

	name := "Size"
	a, err := svc.Store(ctx, CreateInput{Name: &name, Values: []string{" S ", "M", "", "M"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"S", "M"}, []string(a.Values))

	next := []string{"L"}
	a, err = svc.Update(ctx, a.ID, UpdateInput{Values: &next})
	require.NoError(t, err)
	assert.Equal(t, "Size", a.Name)
	assert.Equal(t, []string{"L"}, []string(a.Values))
}
