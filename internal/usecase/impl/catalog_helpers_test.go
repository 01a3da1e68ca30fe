package impl

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/entity"
)

func TestUniqueSlug_NoCollision(t *testing.T) {
	exists := func(ctx context.Context, candidate string, excludeID uuid.UUID) (bool, error) {
		return false, nil
	}

	got, err := uniqueSlug(context.Background(), exists, "Caffè Latte Mug!", uuid.Nil)

	require.NoError(t, err)
	assert.Equal(t, "caffe-latte-mug", got)
}

func TestUniqueSlug_ProbesSuffixes(t *testing.T) {
	taken := map[string]bool{"mug": true, "mug-1": true, "mug-2": true}
	var probed []string
	exists := func(ctx context.Context, candidate string, excludeID uuid.UUID) (bool, error) {
		probed = append(probed, candidate)
		return taken[candidate], nil
	}

	got, err := uniqueSlug(context.Background(), exists, "Mug", uuid.Nil)

	require.NoError(t, err)
	assert.Equal(t, "mug-3", got)
	assert.Equal(t, []string{"mug", "mug-1", "mug-2", "mug-3"}, probed)
}

func TestUniqueSlug_PropagatesProbeError(t *testing.T) {
	exists := func(ctx context.Context, candidate string, excludeID uuid.UUID) (bool, error) {
		return false, errors.New("probe failed")
	}

	_, err := uniqueSlug(context.Background(), exists, "Mug", uuid.Nil)

	require.Error(t, err)
}

func TestAttachRatings_PreservesOrderAndDefaultsToZero(t *testing.T) {
	first := &entity.Product{ID: uuid.New()}
	second := &entity.Product{ID: uuid.New()}
	third := &entity.Product{ID: uuid.New()}

	result := attachRatings(
		[]*entity.Product{first, second, third},
		[]*entity.RatingSummary{
			{ProductID: third.ID, Average: 4.5, Count: 2},
			{ProductID: first.ID, Average: 4.0, Count: 3},
		},
	)

	require.Len(t, result, 3)
	assert.Equal(t, first, result[0].Product)
	assert.InDelta(t, 4.0, result[0].AvgRating, 1e-9)
	assert.Equal(t, 3, result[0].ReviewCount)
	assert.Zero(t, result[1].AvgRating)
	assert.Zero(t, result[1].ReviewCount)
	assert.InDelta(t, 4.5, result[2].AvgRating, 1e-9)
}
