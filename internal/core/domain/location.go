package domain

// LocationSample is a single geographic fix supplied by the client.
type LocationSample struct {
	Latitude  float64  `json:"latitude" bson:"latitude"`
	Longitude float64  `json:"longitude" bson:"longitude"`
	AccuracyM *float64 `json:"accuracy_m,omitempty" bson:"accuracy_m,omitempty"`
}

// Valid reports whether the sample lies within -90..90 latitude and
// -180..180 longitude.
func (l LocationSample) Valid() bool {
	return l.Latitude >= -90 && l.Latitude <= 90 &&
		l.Longitude >= -180 && l.Longitude <= 180
}
