package utils

import (
	"time"
	_ "time/tzdata"
)

// Swiss local time (CET/CEST)
var chLoc = func() *time.Location {
	if loc, err := time.LoadLocation("Europe/Zurich"); err == nil {
		return loc
	}
	return time.FixedZone("CET", 1*3600)
}()

// FormatRFC3339CH renders t in Swiss local time. Zero time renders as "".
func FormatRFC3339CH(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(chLoc).Format(time.RFC3339)
}
