package model

// DefaultAltitudeKm is assumed whenever a satellite position arrives
// without an altitude (roughly the ISS).
const DefaultAltitudeKm = 420.0

// SatelliteState is the single "current" sample of the tracked satellite.
// It is overwritten on every update; history lives in the ground track.
type SatelliteState struct {
	Name      string `json:"name"`
	CatalogID uint32 `json:"catalog_id"` // NORAD catalog number, 0 when unknown

	Position    GeoPoint `json:"position"`
	AltitudeKm  float64  `json:"altitude_km"`
	HasPosition bool     `json:"has_position"`
}

// EffectiveAltitudeKm returns AltitudeKm, or DefaultAltitudeKm when the
// altitude was left unset.
func (s SatelliteState) EffectiveAltitudeKm() float64 {
	if s.AltitudeKm > 0 {
		return s.AltitudeKm
	}
	return DefaultAltitudeKm
}

// Observer is the ground station the dashboard is tracking from.
type Observer struct {
	Position  GeoPoint `json:"position"`
	AltitudeM float64  `json:"altitude_m"` // metres above sea level
	Label     string   `json:"label"`
}
