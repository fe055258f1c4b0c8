package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"exoplanet-prediction-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedTess(t *testing.T, store *PredictionStore[models.TessPrediction], owner *uint, n int, base time.Time) []string {
	t.Helper()
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		rec := models.TessPrediction{
			PredictionID: fmt.Sprintf("p-%d-%d", ptrVal(owner), i),
			UserID:       owner,
			Prediction:   "PC",
			Confidence:   0.5,
			InputData:    "{}",
			CreatedAt:    base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, store.Create(context.Background(), &rec))
		ids[i] = rec.PredictionID
	}
	return ids
}

// seedUsers creates n accounts so owned records satisfy the user_id foreign key.
func seedUsers(t *testing.T, db *gorm.DB, n int) []uint {
	t.Helper()
	ids := make([]uint, n)
	for i := range ids {
		u := models.User{Name: "u", Email: fmt.Sprintf("u%d@example.com", i), HashedPassword: "x"}
		require.NoError(t, db.Create(&u).Error)
		ids[i] = u.ID
	}
	return ids
}

func ptrVal(p *uint) uint {
	if p == nil {
		return 0
	}
	return *p
}

func TestStoreListNewestFirst(t *testing.T) {
	store := NewPredictionStore[models.TessPrediction](newTestDB(t))
	ctx := context.Background()
	ids := seedTess(t, store, nil, 5, time.Now().UTC().Add(-time.Hour))

	recs, err := store.List(ctx, nil, 0, 3)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{ids[4], ids[3], ids[2]},
		[]string{recs[0].PredictionID, recs[1].PredictionID, recs[2].PredictionID})

	recs, err = store.List(ctx, nil, 3, 3)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, ids[0], recs[1].PredictionID)
}

func TestStoreListTieBreaksOnInsertOrder(t *testing.T) {
	store := NewPredictionStore[models.TessPrediction](newTestDB(t))
	ctx := context.Background()
	same := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 3; i++ {
		rec := models.TessPrediction{PredictionID: fmt.Sprintf("tie-%d", i), Prediction: "FP", InputData: "{}", CreatedAt: same}
		require.NoError(t, store.Create(ctx, &rec))
		ids = append(ids, rec.PredictionID)
	}

	recs, err := store.List(ctx, nil, 0, 10)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, ids[2], recs[0].PredictionID)
	assert.Equal(t, ids[0], recs[2].PredictionID)
}

func TestStoreOwnerScope(t *testing.T) {
	db := newTestDB(t)
	store := NewPredictionStore[models.TessPrediction](db)
	ctx := context.Background()
	users := seedUsers(t, db, 2)
	alice, bob := users[0], users[1]
	aliceIDs := seedTess(t, store, &alice, 2, time.Now().UTC())
	seedTess(t, store, &bob, 3, time.Now().UTC())

	n, err := store.Count(ctx, &alice)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = store.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	_, err = store.Get(ctx, aliceIDs[0], &bob)
	assert.ErrorIs(t, err, ErrPredictionNotFound)

	rec, err := store.Get(ctx, aliceIDs[0], &alice)
	require.NoError(t, err)
	assert.Equal(t, alice, *rec.UserID)

	ok, err := store.Delete(ctx, aliceIDs[0], &bob)
	require.NoError(t, err)
	assert.False(t, ok, "bob cannot delete alice's record")

	ok, err = store.Delete(ctx, aliceIDs[0], &alice)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStoreGetRoundTrip(t *testing.T) {
	store := NewPredictionStore[models.KeplerPrediction](newTestDB(t))
	ctx := context.Background()

	rec := models.KeplerPrediction{
		PredictionID: "round-trip",
		Prediction:   1,
		Confidence:   0.8125,
		InputData:    `{"koi_period":1}`,
		CreatedAt:    createdAt(),
	}
	require.NoError(t, store.Create(ctx, &rec))

	got, err := store.Get(ctx, "round-trip", nil)
	require.NoError(t, err)
	assert.Equal(t, rec.Prediction, got.Prediction)
	assert.Equal(t, rec.Confidence, got.Confidence)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt), "%v != %v", rec.CreatedAt, got.CreatedAt)
	assert.Equal(t, rec.InputData, got.InputData)
}

func TestStoreDeleteMissing(t *testing.T) {
	store := NewPredictionStore[models.KeplerPrediction](newTestDB(t))

	ok, err := store.Delete(context.Background(), "nope", nil)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.Get(context.Background(), "nope", nil)
	assert.ErrorIs(t, err, ErrPredictionNotFound)
}

func TestStoreDeleteAll(t *testing.T) {
	db := newTestDB(t)
	store := NewPredictionStore[models.TessPrediction](db)
	ctx := context.Background()
	users := seedUsers(t, db, 2)
	alice, bob := users[0], users[1]
	seedTess(t, store, &alice, 3, time.Now().UTC())
	seedTess(t, store, &bob, 2, time.Now().UTC())

	var seen []string
	n, err := store.DeleteAll(ctx, &alice, func(id string) { seen = append(seen, id) })
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Len(t, seen, 3)

	left, err := store.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), left)

	n, err = store.DeleteAll(ctx, &alice, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
