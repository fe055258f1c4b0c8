package inference

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exoplanet-prediction-api/models"
)

// fillByTag sets every *float64 field of a request struct to a value derived
// from its json tag, so column order can be checked by name.
func fillByTag(t *testing.T, req any, value func(col string) float64) {
	t.Helper()
	v := reflect.ValueOf(req).Elem()
	typ := v.Type()
	for i := 0; i < typ.NumField(); i++ {
		col := strings.Split(typ.Field(i).Tag.Get("json"), ",")[0]
		f := value(col)
		v.Field(i).Set(reflect.ValueOf(&f))
	}
}

func TestEncodeKeplerOrder(t *testing.T) {
	index := make(map[string]int, len(KeplerColumns))
	for i, col := range KeplerColumns {
		index[col] = i
	}

	var req models.KeplerPredictionRequest
	fillByTag(t, &req, func(col string) float64 {
		if i, ok := index[col]; ok {
			return float64(i + 1)
		}
		return -999
	})

	x := EncodeKepler(&req)
	require.Len(t, x, KeplerFeatureCount)
	for i, v := range x {
		assert.Equal(t, float32(i+1), v, "column %s", KeplerColumns[i])
	}
}

func TestEncodeKeplerIgnoresUncertainties(t *testing.T) {
	var a, b models.KeplerPredictionRequest
	fillByTag(t, &a, func(string) float64 { return 1.5 })
	fillByTag(t, &b, func(col string) float64 {
		if strings.Contains(col, "_err") {
			return 1e6
		}
		return 1.5
	})
	assert.Equal(t, EncodeKepler(&a), EncodeKepler(&b))
}

func TestEncodeTess(t *testing.T) {
	var req models.TessPredictionRequest
	fillByTag(t, &req, func(col string) float64 {
		for i, c := range TessColumns[:9] {
			if c == col {
				return float64(i) + 0.25
			}
		}
		return 0
	})

	x := EncodeTess(&req)
	require.Len(t, x, TessFeatureCount)
	for i := 0; i < 9; i++ {
		assert.Equal(t, float32(float64(i)+0.25), x[i], "column %s", TessColumns[i])
	}
	assert.Equal(t, float32(math.Log(0.25+1)), x[9])
	assert.Equal(t, float32(math.Log(2.25+1)), x[10])
}

func TestEncodeTessLogEdgeCases(t *testing.T) {
	var req models.TessPredictionRequest
	fillByTag(t, &req, func(string) float64 { return 1 })
	period, depth := -1.0, -2.0
	req.PlOrbPer = &period
	req.PlTranDep = &depth

	x := EncodeTess(&req)
	assert.True(t, math.IsInf(float64(x[9]), -1))
	assert.True(t, math.IsNaN(float64(x[10])))
}
