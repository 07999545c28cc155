// Package geo provides surface-distance calculations between geographic
// coordinates. It offers a spherical Haversine distance and a more accurate
// WGS84 geodesic (Vincenty inverse) distance with automatic fallback to
// Haversine when the geodesic solution fails.
package geo

import (
	"fmt"
	"math"
)

const (
	// Mean Earth radius used by the Haversine formula.
	earthRadiusMeters = 6371000.0

	// WGS84 ellipsoid parameters.
	wgs84SemiMajor  = 6378137.0
	wgs84Flattening = 1.0 / 298.257223563
)

// HaversineMeters computes the great-circle distance in meters between two
// points on a spherical Earth. It never fails.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	deltaPhi := (lat2 - lat1) * math.Pi / 180
	deltaLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)

	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(a))
}

// GeodesicMeters computes the distance in meters along the WGS84 ellipsoid
// using Vincenty's inverse formula. It returns an error for coordinates
// outside the valid domain and for near-antipodal point pairs where the
// iteration does not converge.
func GeodesicMeters(lat1, lon1, lat2, lon2 float64) (float64, error) {
	for _, v := range [...]float64{lat1, lon1, lat2, lon2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("geodesic: non-finite coordinate %v", v)
		}
	}
	if math.Abs(lat1) > 90 || math.Abs(lat2) > 90 {
		return 0, fmt.Errorf("geodesic: latitude out of range")
	}
	if math.Abs(lon1) > 180 || math.Abs(lon2) > 180 {
		return 0, fmt.Errorf("geodesic: longitude out of range")
	}
	if lat1 == lat2 && lon1 == lon2 {
		return 0, nil
	}

	a := wgs84SemiMajor
	f := wgs84Flattening
	b := a * (1 - f)

	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	capL := (lon2 - lon1) * math.Pi / 180

	u1 := math.Atan((1 - f) * math.Tan(phi1))
	u2 := math.Atan((1 - f) * math.Tan(phi2))
	sinU1, cosU1 := math.Sincos(u1)
	sinU2, cosU2 := math.Sincos(u2)

	lambda := capL
	var sinSigma, cosSigma, sigma, cosSqAlpha, cos2SigmaM float64

	for i := 0; i < 200; i++ {
		sinLambda, cosLambda := math.Sincos(lambda)

		sinSigma = math.Sqrt(
			(cosU2*sinLambda)*(cosU2*sinLambda) +
				(cosU1*sinU2-sinU1*cosU2*cosLambda)*(cosU1*sinU2-sinU1*cosU2*cosLambda))
		if sinSigma == 0 {
			// Coincident points.
			return 0, nil
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)

		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha
		if cosSqAlpha == 0 {
			// Equatorial line.
			cos2SigmaM = 0
		} else {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		}

		c := f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))
		lambdaPrev := lambda
		lambda = capL + (1-c)*f*sinAlpha*
			(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

		if math.Abs(lambda-lambdaPrev) < 1e-12 {
			uSq := cosSqAlpha * (a*a - b*b) / (b * b)
			bigA := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
			bigB := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
			deltaSigma := bigB * sinSigma * (cos2SigmaM + bigB/4*
				(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
					bigB/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))
			return b * bigA * (sigma - deltaSigma), nil
		}
	}

	return 0, fmt.Errorf("geodesic: no convergence for (%v,%v)-(%v,%v)", lat1, lon1, lat2, lon2)
}

// SafeGeodesicMeters computes the geodesic distance between two points,
// falling back to the Haversine distance if the geodesic calculation fails.
// It always returns a finite, non-negative value for finite inputs.
func SafeGeodesicMeters(lat1, lon1, lat2, lon2 float64) float64 {
	d, err := GeodesicMeters(lat1, lon1, lat2, lon2)
	if err != nil || math.IsNaN(d) || d < 0 {
		return HaversineMeters(lat1, lon1, lat2, lon2)
	}
	return d
}
