package engine

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/stat"

	"github.com/averdin/uav-deconfliction/geo"
)

const (
	// Approximate meters per degree of latitude, used by the
	// equirectangular projection that feeds the k-d tree.
	metersPerDegree = 111320.0

	// Candidates from the spatial index are discarded unless their
	// timestamp lies within this many seconds of the primary sample.
	// Keeps spatially close but temporally unrelated legs apart.
	spatialTimeGateSec = 0.1
)

// projectedPoint is one k-d tree entry: a waypoint projected into a local
// planar frame, carrying the index of the track point it came from.
type projectedPoint struct {
	x, y float64
	idx  int
}

func (p projectedPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(projectedPoint)
	if d == 0 {
		return p.x - q.x
	}
	return p.y - q.y
}

func (p projectedPoint) Dims() int { return 2 }

// Distance returns the squared planar distance, per the kdtree contract.
func (p projectedPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(projectedPoint)
	dx := p.x - q.x
	dy := p.y - q.y
	return dx*dx + dy*dy
}

// projectedPoints implements kdtree.Interface over a slice of entries.
type projectedPoints []projectedPoint

func (p projectedPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p projectedPoints) Len() int                      { return len(p) }
func (p projectedPoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}
func (p projectedPoints) Pivot(d kdtree.Dim) int {
	return projectedPlane{Dim: d, points: p}.Pivot()
}

// projectedPlane sorts projectedPoints along one dimension for pivoting.
type projectedPlane struct {
	kdtree.Dim
	points projectedPoints
}

func (p projectedPlane) Less(i, j int) bool {
	if p.Dim == 0 {
		return p.points[i].x < p.points[j].x
	}
	return p.points[i].y < p.points[j].y
}
func (p projectedPlane) Pivot() int {
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}
func (p projectedPlane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}
func (p projectedPlane) Swap(i, j int) {
	p.points[i], p.points[j] = p.points[j], p.points[i]
}
func (p projectedPlane) Len() int { return len(p.points) }

// FindSpatialConflicts detects near-misses between the primary trajectory
// and the waypoints of all other drones.
//
// Other waypoints are projected into a planar frame anchored at their mean
// latitude and indexed in a k-d tree. The radius query against the tree is a
// loose superset filter; every candidate is re-verified with the accurate
// geodesic distance combined with the altitude difference. Candidates whose
// timestamps differ from the primary sample by more than the fixed time gate
// are discarded.
func FindSpatialConflicts(primary []Waypoint, others []TrackPoint, minDistanceMeters float64) []Conflict {
	if len(others) == 0 {
		return nil
	}

	lats := make([]float64, len(others))
	for i, o := range others {
		lats[i] = o.Latitude
	}
	latRef := stat.Mean(lats, nil)
	cosRef := math.Cos(latRef * math.Pi / 180)

	entries := make(projectedPoints, len(others))
	for i, o := range others {
		entries[i] = projectedPoint{
			x:   o.Longitude * metersPerDegree * cosRef,
			y:   o.Latitude * metersPerDegree,
			idx: i,
		}
	}
	tree := kdtree.New(entries, false)

	var conflicts []Conflict

	for _, p := range primary {
		q := projectedPoint{
			x: p.Longitude * metersPerDegree * cosRef,
			y: p.Latitude * metersPerDegree,
		}

		// The keeper works in the tree's squared-distance metric.
		keep := kdtree.NewDistKeeper(minDistanceMeters * minDistanceMeters)
		tree.NearestSet(keep, q)

		for _, c := range keep.Heap {
			if c.Comparable == nil {
				continue
			}
			o := others[c.Comparable.(projectedPoint).idx]

			if math.Abs(p.Time.Sub(o.Time).Seconds()) > spatialTimeGateSec {
				continue
			}

			horiz := geo.SafeGeodesicMeters(p.Latitude, p.Longitude, o.Latitude, o.Longitude)
			dist3D := math.Hypot(horiz, p.Altitude-o.Altitude)

			if dist3D < minDistanceMeters {
				conflicts = append(conflicts, Conflict{
					Primary:        p,
					Other:          o,
					DistanceMeters: dist3D,
				})
			}
		}
	}

	return conflicts
}
