package models

// TessPredictionRequest carries the nine base TESS Object of Interest columns.
type TessPredictionRequest struct {
	PlOrbPer   *float64 `json:"pl_orbper" binding:"required"`   // Orbital period [days]
	PlTranDurH *float64 `json:"pl_trandurh" binding:"required"` // Transit duration [hours]
	PlTranDep  *float64 `json:"pl_trandep" binding:"required"`  // Transit depth
	PlRadE     *float64 `json:"pl_rade" binding:"required"`     // Planet radius [Earth radii]
	PlInsol    *float64 `json:"pl_insol" binding:"required"`    // Insolation flux [Earth flux]
	PlEqT      *float64 `json:"pl_eqt" binding:"required"`      // Equilibrium temperature [K]
	StTEff     *float64 `json:"st_teff" binding:"required"`     // Stellar effective temperature [K]
	StLogG     *float64 `json:"st_logg" binding:"required"`     // Stellar surface gravity [log10(cm/s**2)]
	StRad      *float64 `json:"st_rad" binding:"required"`      // Stellar radius [Solar radii]
}
