package engine

import (
	"log"
	"math"
	"time"
)

// Resample converts an irregularly timed trajectory into evenly spaced
// samples by linear interpolation between consecutive waypoints.
//
// A step of zero or less disables resampling and returns the input
// unchanged, as does a trajectory with fewer than two points. Segments with
// non-increasing timestamps produce no samples. The final recorded waypoint
// is always appended verbatim, so a resampled trajectory ends exactly at the
// true final position.
func Resample(traj []Waypoint, stepSeconds float64) []Waypoint {
	if stepSeconds <= 0 || len(traj) < 2 {
		return traj
	}

	out := make([]Waypoint, 0, len(traj))
	skipped := 0

	for i := 0; i < len(traj)-1; i++ {
		w0 := traj[i]
		w1 := traj[i+1]

		dt := w1.Time.Sub(w0.Time).Seconds()
		if dt <= 0 {
			// Duplicate or decreasing timestamp; emit nothing for this
			// segment and keep going.
			skipped++
			continue
		}

		n := int(math.Ceil(dt / stepSeconds))
		if n < 1 {
			n = 1
		}

		for k := 0; k < n; k++ {
			frac := float64(k) / float64(n)
			out = append(out, Waypoint{
				Time:      w0.Time.Add(time.Duration(frac * dt * float64(time.Second))),
				Latitude:  w0.Latitude + frac*(w1.Latitude-w0.Latitude),
				Longitude: w0.Longitude + frac*(w1.Longitude-w0.Longitude),
				Altitude:  w0.Altitude + frac*(w1.Altitude-w0.Altitude),
			})
		}
	}

	out = append(out, traj[len(traj)-1])

	if skipped > 0 {
		log.Printf("Resample: skipped %d segment(s) with non-increasing timestamps", skipped)
	}

	return out
}
