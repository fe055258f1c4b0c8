package inferencetest

import (
	"reflect"
	"strings"

	"exoplanet-prediction-api/models"
)

// KeplerFields returns every request field set to 0, then applies overrides.
// It is suitable as a JSON body.
func KeplerFields(overrides map[string]float64) map[string]float64 {
	return fields(reflect.TypeOf(models.KeplerPredictionRequest{}), overrides)
}

func TessFields(overrides map[string]float64) map[string]float64 {
	return fields(reflect.TypeOf(models.TessPredictionRequest{}), overrides)
}

func KeplerRequest(overrides map[string]float64) *models.KeplerPredictionRequest {
	req := &models.KeplerPredictionRequest{}
	fill(req, KeplerFields(overrides))
	return req
}

func TessRequest(overrides map[string]float64) *models.TessPredictionRequest {
	req := &models.TessPredictionRequest{}
	fill(req, TessFields(overrides))
	return req
}

func fields(t reflect.Type, overrides map[string]float64) map[string]float64 {
	out := make(map[string]float64, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		out[column(t.Field(i))] = 0
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

func fill(req any, values map[string]float64) {
	v := reflect.ValueOf(req).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := values[column(t.Field(i))]
		v.Field(i).Set(reflect.ValueOf(&f))
	}
}

func column(f reflect.StructField) string {
	return strings.Split(f.Tag.Get("json"), ",")[0]
}
