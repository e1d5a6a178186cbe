package model

// Readout is the formatted text shown in the telemetry panel next to the
// Earth view.
type Readout struct {
	Name        string `json:"name"`
	CatalogID   string `json:"catalog_id"`
	Latitude    string `json:"latitude,omitempty"`
	Longitude   string `json:"longitude,omitempty"`
	Altitude    string `json:"altitude,omitempty"`
	Observer    string `json:"observer,omitempty"`
	Time        string `json:"time"`
	HasPosition bool   `json:"has_position"`
}

// DialAngles holds the current needle positions of the two dials.
type DialAngles struct {
	AzimuthDeg   float64 `json:"azimuth_deg"`
	ElevationDeg float64 `json:"elevation_deg"`
}
