package services

import (
	"context"
	"math"
	"testing"

	"exoplanet-prediction-api/inference"
	"exoplanet-prediction-api/inference/inferencetest"
	"exoplanet-prediction-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeplerPredictStoresResult(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.kepler.Predict(ctx, inferencetest.KeplerRequest(map[string]float64{"koi_model_snr": 100}), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Prediction)
	assert.InDelta(t, 1/(1+math.Exp(-5)), resp.Confidence, 1e-6)
	assert.NotEmpty(t, resp.PredictionID)

	got, err := env.kepler.Get(ctx, resp.PredictionID, nil)
	require.NoError(t, err)
	assert.Equal(t, resp.Prediction, got.Prediction)
	assert.Equal(t, resp.Confidence, got.Confidence)
	assert.True(t, resp.Timestamp.Equal(got.Timestamp))

	var rec models.KeplerPrediction
	require.NoError(t, env.db.Where("prediction_id = ?", resp.PredictionID).Take(&rec).Error)
	assert.Contains(t, rec.InputData, `"koi_model_snr":100`)
	assert.Contains(t, rec.InputData, `"koi_period_err1":0`)
}

func TestKeplerPredictThreshold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, tc := range []struct {
		name   string
		fields map[string]float64
		want   int
	}{
		{"weak signal", map[string]float64{"koi_model_snr": 40}, 0},
		{"false positive flag", map[string]float64{"koi_model_snr": 80, "koi_fpflag_nt": 1}, 0},
		{"strong signal", map[string]float64{"koi_model_snr": 60}, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := env.kepler.Predict(ctx, inferencetest.KeplerRequest(tc.fields), nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.Prediction)
			assert.GreaterOrEqual(t, resp.Confidence, 0.0)
			assert.LessOrEqual(t, resp.Confidence, 1.0)
			assert.Equal(t, resp.Confidence > inference.BinaryThreshold, resp.Prediction == 1)
		})
	}
}

func TestKeplerPredictUnknownOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ghost := uint(999)

	_, err := env.kepler.Predict(ctx, inferencetest.KeplerRequest(nil), &ghost)
	require.ErrorIs(t, err, ErrOwnerNotFound)
	assert.EqualError(t, err, "User with ID 999 does not exist")

	list, err := env.kepler.List(ctx, nil, 0, 100)
	require.NoError(t, err)
	assert.Zero(t, list.Total)
}

func TestKeplerPredictModelMissing(t *testing.T) {
	env := newTestEnvWithModels(t, t.TempDir())
	ctx := context.Background()

	_, err := env.kepler.Predict(ctx, inferencetest.KeplerRequest(nil), nil)
	assert.ErrorIs(t, err, inference.ErrModelNotFound)

	h := env.kepler.Health()
	assert.Equal(t, "healthy", h.Status)
	assert.Empty(t, h.ModelPath)
	assert.False(t, h.ModelLoaded)

	list, err := env.kepler.List(ctx, nil, 0, 100)
	require.NoError(t, err)
	assert.Empty(t, list.Predictions)
}

func TestKeplerPredictLegacyArtifact(t *testing.T) {
	dir := t.TempDir()
	inferencetest.WriteFile(t, dir, "kepler_ann.keras", []byte("PK\x03\x04"))
	env := newTestEnvWithModels(t, dir)

	_, err := env.kepler.Predict(context.Background(), inferencetest.KeplerRequest(nil), nil)
	assert.ErrorIs(t, err, inference.ErrMissingRuntime)
}

func TestKeplerHealthAfterLoad(t *testing.T) {
	env := newTestEnv(t)

	before := env.kepler.Health()
	assert.NotEmpty(t, before.ModelPath)
	assert.False(t, before.ModelLoaded)

	_, err := env.kepler.Predict(context.Background(), inferencetest.KeplerRequest(nil), nil)
	require.NoError(t, err)

	after := env.kepler.Health()
	assert.True(t, after.ModelLoaded)
	assert.Equal(t, "Kepler Prediction Service", after.Service)
}

func TestKeplerListPagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		resp, err := env.kepler.Predict(ctx, inferencetest.KeplerRequest(nil), nil)
		require.NoError(t, err)
		ids = append(ids, resp.PredictionID)
	}

	list, err := env.kepler.List(ctx, nil, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), list.Total)
	assert.Equal(t, 2, list.Page)
	assert.Equal(t, 2, list.Size)
	require.Len(t, list.Predictions, 2)
	assert.Equal(t, ids[2], list.Predictions[0].PredictionID)
	assert.Equal(t, ids[1], list.Predictions[1].PredictionID)
}

func TestKeplerListRejectsBadPage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, tc := range []struct{ skip, limit int }{{0, 0}, {0, -1}, {-1, 10}} {
		_, err := env.kepler.List(ctx, nil, tc.skip, tc.limit)
		assert.ErrorIs(t, err, ErrInvalidPage, "skip=%d limit=%d", tc.skip, tc.limit)
	}
}

func TestKeplerDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.users.Signup(ctx, "A", "a@example.com", "pw")
	require.NoError(t, err)
	resp, err := env.kepler.Predict(ctx, inferencetest.KeplerRequest(nil), &user.ID)
	require.NoError(t, err)

	other := user.ID + 1
	assert.ErrorIs(t, env.kepler.Delete(ctx, resp.PredictionID, &other), ErrPredictionNotFound)

	require.NoError(t, env.kepler.Delete(ctx, resp.PredictionID, &user.ID))
	_, err = env.kepler.Get(ctx, resp.PredictionID, nil)
	assert.ErrorIs(t, err, ErrPredictionNotFound)

	assert.ErrorIs(t, env.kepler.Delete(ctx, resp.PredictionID, nil), ErrPredictionNotFound)
}

func TestKeplerDeleteAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := env.kepler.Predict(ctx, inferencetest.KeplerRequest(nil), nil)
		require.NoError(t, err)
	}
	_, err := env.tess.Predict(ctx, inferencetest.TessRequest(nil), nil)
	require.NoError(t, err)

	n, err := env.kepler.DeleteAll(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	tess, err := env.tess.List(ctx, nil, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), tess.Total, "other family untouched")
}
