package inference

import (
	"math"

	"exoplanet-prediction-api/models"
)

const (
	KeplerFeatureCount = 20
	TessFeatureCount   = 11
)

// KeplerColumns is the column order of the Kepler network's input layer.
// Uncertainty columns are not part of it.
var KeplerColumns = [KeplerFeatureCount]string{
	"koi_fpflag_nt",
	"koi_fpflag_ss",
	"koi_fpflag_co",
	"koi_fpflag_ec",
	"koi_period",
	"koi_time0bk",
	"koi_impact",
	"koi_duration",
	"koi_depth",
	"koi_prad",
	"koi_teq",
	"koi_insol",
	"koi_model_snr",
	"koi_tce_plnt_num",
	"koi_steff",
	"koi_slogg",
	"koi_srad",
	"ra",
	"dec",
	"koi_kepmag",
}

// TessColumns is the column order of the TESS tree ensemble: the nine base
// columns, then the two log-transformed ones.
var TessColumns = [TessFeatureCount]string{
	"pl_orbper",
	"pl_trandurh",
	"pl_trandep",
	"pl_rade",
	"pl_insol",
	"pl_eqt",
	"st_teff",
	"st_logg",
	"st_rad",
	"pl_orbper_log",
	"pl_trandep_log",
}

// EncodeKepler expects a request that passed binding, so every field is set.
func EncodeKepler(r *models.KeplerPredictionRequest) []float32 {
	return toFloat32([]float64{
		val(r.KoiFPFlagNT),
		val(r.KoiFPFlagSS),
		val(r.KoiFPFlagCO),
		val(r.KoiFPFlagEC),
		val(r.KoiPeriod),
		val(r.KoiTime0BK),
		val(r.KoiImpact),
		val(r.KoiDuration),
		val(r.KoiDepth),
		val(r.KoiPRad),
		val(r.KoiTEq),
		val(r.KoiInsol),
		val(r.KoiModelSNR),
		val(r.KoiTCEPlntNum),
		val(r.KoiSTEff),
		val(r.KoiSLogG),
		val(r.KoiSRad),
		val(r.RA),
		val(r.Dec),
		val(r.KoiKepMag),
	})
}

// EncodeTess appends ln(period+1) and ln(depth+1) to the base columns. The
// logs are taken in float64 before the vector is narrowed.
func EncodeTess(r *models.TessPredictionRequest) []float32 {
	period := val(r.PlOrbPer)
	depth := val(r.PlTranDep)
	return toFloat32([]float64{
		period,
		val(r.PlTranDurH),
		depth,
		val(r.PlRadE),
		val(r.PlInsol),
		val(r.PlEqT),
		val(r.StTEff),
		val(r.StLogG),
		val(r.StRad),
		math.Log(period + 1),
		math.Log(depth + 1),
	})
}

func val(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func toFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}
