package models

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"

	"voxelgeom/pkg/geometry"
)

// Landmark is a named index-space position and its world-space image
type Landmark struct {
	Name  string
	Index r3.Vec
	World r3.Vec
}

// Compare implements the kdtree.Comparable interface on world coordinates
func (l Landmark) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(Landmark)
	switch d {
	case 0:
		return l.World.X - q.World.X
	case 1:
		return l.World.Y - q.World.Y
	case 2:
		return l.World.Z - q.World.Z
	default:
		panic("illegal dimension")
	}
}

// Dims returns the number of dimensions for the KD-tree
func (l Landmark) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between two landmarks
func (l Landmark) Distance(c kdtree.Comparable) float64 {
	q := c.(Landmark)
	return r3.Norm2(r3.Sub(l.World, q.World))
}

type landmarks []Landmark

func (p landmarks) Index(i int) kdtree.Comparable         { return p[i] }
func (p landmarks) Len() int                              { return len(p) }
func (p landmarks) Slice(start, end int) kdtree.Interface { return p[start:end] }

func (p landmarks) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(landmarkPlane{landmarks: p, Dim: d}, kdtree.MedianOfRandoms(landmarkPlane{landmarks: p, Dim: d}, 100))
}

// landmarkPlane implements sort.Interface and kdtree.SortSlicer for landmarks
type landmarkPlane struct {
	landmarks
	kdtree.Dim
}

func (p landmarkPlane) Less(i, j int) bool {
	return p.landmarks[i].Compare(p.landmarks[j], p.Dim) < 0
}

func (p landmarkPlane) Slice(start, end int) kdtree.SortSlicer {
	return landmarkPlane{landmarks: p.landmarks[start:end], Dim: p.Dim}
}

func (p landmarkPlane) Swap(i, j int) {
	p.landmarks[i], p.landmarks[j] = p.landmarks[j], p.landmarks[i]
}

// LandmarkSet answers world-space proximity queries for landmarks defined in
// index space. The tree is rebuilt lazily whenever the geometry is modified.
type LandmarkSet struct {
	geometry *geometry.Geometry
	marks    landmarks
	tree     *kdtree.Tree
	version  uint64
}

// NewLandmarkSet binds index-space landmarks to a geometry
func NewLandmarkSet(g *geometry.Geometry, marks []Landmark) *LandmarkSet {
	s := &LandmarkSet{
		geometry: g,
		marks:    make(landmarks, len(marks)),
	}
	copy(s.marks, marks)
	return s
}

func (s *LandmarkSet) refresh() {
	if s.tree != nil && s.version == s.geometry.Version() {
		return
	}
	for i := range s.marks {
		s.marks[i].World = s.geometry.IndexToWorld(s.marks[i].Index)
	}
	// kdtree.New reorders its input
	points := make(landmarks, len(s.marks))
	copy(points, s.marks)
	s.tree = kdtree.New(points, true)
	s.version = s.geometry.Version()
}

// Nearest returns the landmark closest to a world position and its distance.
// The last result is false when the set is empty.
func (s *LandmarkSet) Nearest(world r3.Vec) (Landmark, float64, bool) {
	if len(s.marks) == 0 {
		return Landmark{}, math.Inf(1), false
	}
	s.refresh()
	c, d := s.tree.Nearest(Landmark{World: world})
	return c.(Landmark), math.Sqrt(d), true
}

// Within returns the landmarks at most radius away from a world position,
// closest first
func (s *LandmarkSet) Within(world r3.Vec, radius float64) []Landmark {
	if len(s.marks) == 0 {
		return nil
	}
	s.refresh()
	keeper := kdtree.NewDistKeeper(radius * radius)
	s.tree.NearestSet(keeper, Landmark{World: world})

	found := make([]kdtree.ComparableDist, 0, keeper.Len())
	for _, c := range keeper.Heap {
		if c.Comparable != nil {
			found = append(found, c)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Dist < found[j].Dist })

	result := make([]Landmark, len(found))
	for i, c := range found {
		result[i] = c.Comparable.(Landmark)
	}
	return result
}
