/*
Package ykj converts Finnish uniform grid (YKJ / KKJ zone 3, EPSG:2393)
map coordinates to WGS84 for web-map overlays.

YKJ is a Gauss-Krüger projection on the International 1924 ellipsoid
with central meridian 27°E and a 3 500 000 m false easting. The inverse
here omits the KKJ→WGS84 datum shift, which moves points by roughly a
hundred meters; grid cells are a kilometer across at their finest, so
the approximation is well inside a cell footprint.
*/
package ykj

import "math"

const (
	// International 1924 (Hayford) ellipsoid.
	semiMajorAxis = 6378388.0
	flattening    = 1.0 / 297.0

	centralMeridianDeg = 27.0
	falseEastingM      = 3_500_000.0
)

// ToWGS84 converts YKJ map coordinates in meters (northing from the
// equator, easting with the zone-3 false easting) to WGS84 degrees.
func ToWGS84(northingM, eastingM float64) (lat, lon float64) {
	e2 := flattening * (2 - flattening)
	ep2 := e2 / (1 - e2)

	// Footpoint latitude from the meridional arc.
	m := northingM
	mu := m / (semiMajorAxis * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256))
	e1 := (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))
	phi1 := mu +
		(3*e1/2-27*math.Pow(e1, 3)/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*math.Pow(e1, 4)/32)*math.Sin(4*mu) +
		(151*math.Pow(e1, 3)/96)*math.Sin(6*mu) +
		(1097*math.Pow(e1, 4)/512)*math.Sin(8*mu)

	sinPhi1, cosPhi1 := math.Sin(phi1), math.Cos(phi1)
	tanPhi1 := sinPhi1 / cosPhi1

	c1 := ep2 * cosPhi1 * cosPhi1
	t1 := tanPhi1 * tanPhi1
	n1 := semiMajorAxis / math.Sqrt(1-e2*sinPhi1*sinPhi1)
	r1 := semiMajorAxis * (1 - e2) / math.Pow(1-e2*sinPhi1*sinPhi1, 1.5)
	d := (eastingM - falseEastingM) / n1

	latRad := phi1 - (n1*tanPhi1/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*ep2)*math.Pow(d, 4)/24+
		(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*math.Pow(d, 6)/720)
	lonRad := centralMeridianDeg*math.Pi/180 + (d-
		(1+2*t1+c1)*math.Pow(d, 3)/6+
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*math.Pow(d, 5)/120)/cosPhi1

	return latRad * 180 / math.Pi, lonRad * 180 / math.Pi
}
