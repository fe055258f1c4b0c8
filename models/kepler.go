package models

// KeplerPredictionRequest carries one Kepler Object of Interest row. Pointers
// let binding tell an absent field from a legitimate zero.
type KeplerPredictionRequest struct {
	KoiFPFlagNT     *float64 `json:"koi_fpflag_nt" binding:"required"` // Not transit-like flag
	KoiFPFlagSS     *float64 `json:"koi_fpflag_ss" binding:"required"` // Stellar eclipse flag
	KoiFPFlagCO     *float64 `json:"koi_fpflag_co" binding:"required"` // Centroid offset flag
	KoiFPFlagEC     *float64 `json:"koi_fpflag_ec" binding:"required"` // Ephemeris match contamination flag
	KoiPeriod       *float64 `json:"koi_period" binding:"required"`    // Orbital period [days]
	KoiPeriodErr1   *float64 `json:"koi_period_err1" binding:"required"`
	KoiPeriodErr2   *float64 `json:"koi_period_err2" binding:"required"`
	KoiTime0BK      *float64 `json:"koi_time0bk" binding:"required"` // Transit epoch [BKJD]
	KoiTime0BKErr1  *float64 `json:"koi_time0bk_err1" binding:"required"`
	KoiTime0BKErr2  *float64 `json:"koi_time0bk_err2" binding:"required"`
	KoiImpact       *float64 `json:"koi_impact" binding:"required"` // Impact parameter
	KoiImpactErr1   *float64 `json:"koi_impact_err1" binding:"required"`
	KoiImpactErr2   *float64 `json:"koi_impact_err2" binding:"required"`
	KoiDuration     *float64 `json:"koi_duration" binding:"required"` // Transit duration [hrs]
	KoiDurationErr1 *float64 `json:"koi_duration_err1" binding:"required"`
	KoiDurationErr2 *float64 `json:"koi_duration_err2" binding:"required"`
	KoiDepth        *float64 `json:"koi_depth" binding:"required"` // Transit depth [ppm]
	KoiDepthErr1    *float64 `json:"koi_depth_err1" binding:"required"`
	KoiDepthErr2    *float64 `json:"koi_depth_err2" binding:"required"`
	KoiPRad         *float64 `json:"koi_prad" binding:"required"` // Planetary radius [Earth radii]
	KoiPRadErr1     *float64 `json:"koi_prad_err1" binding:"required"`
	KoiPRadErr2     *float64 `json:"koi_prad_err2" binding:"required"`
	KoiTEq          *float64 `json:"koi_teq" binding:"required"` // Equilibrium temperature [K]
	KoiTEqErr1      *float64 `json:"koi_teq_err1" binding:"required"`
	KoiTEqErr2      *float64 `json:"koi_teq_err2" binding:"required"`
	KoiInsol        *float64 `json:"koi_insol" binding:"required"` // Insolation flux [Earth flux]
	KoiInsolErr1    *float64 `json:"koi_insol_err1" binding:"required"`
	KoiInsolErr2    *float64 `json:"koi_insol_err2" binding:"required"`
	KoiModelSNR     *float64 `json:"koi_model_snr" binding:"required"`    // Transit signal-to-noise
	KoiTCEPlntNum   *float64 `json:"koi_tce_plnt_num" binding:"required"` // TCE planet number
	KoiSTEff        *float64 `json:"koi_steff" binding:"required"`        // Stellar effective temperature [K]
	KoiSTEffErr1    *float64 `json:"koi_steff_err1" binding:"required"`
	KoiSTEffErr2    *float64 `json:"koi_steff_err2" binding:"required"`
	KoiSLogG        *float64 `json:"koi_slogg" binding:"required"` // Stellar surface gravity [log10(cm/s**2)]
	KoiSLogGErr1    *float64 `json:"koi_slogg_err1" binding:"required"`
	KoiSLogGErr2    *float64 `json:"koi_slogg_err2" binding:"required"`
	KoiSRad         *float64 `json:"koi_srad" binding:"required"` // Stellar radius [Solar radii]
	KoiSRadErr1     *float64 `json:"koi_srad_err1" binding:"required"`
	KoiSRadErr2     *float64 `json:"koi_srad_err2" binding:"required"`
	RA              *float64 `json:"ra" binding:"required"`         // Right ascension [decimal degrees]
	Dec             *float64 `json:"dec" binding:"required"`        // Declination [decimal degrees]
	KoiKepMag       *float64 `json:"koi_kepmag" binding:"required"` // Kepler-band magnitude
}
