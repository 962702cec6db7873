package rubberband

import (
	"math"
	"sort"

	"github.com/akmonengine/rubberband/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// ============================================================================
// Types
// ============================================================================

// CellKey - Coordonnées d'une cellule dans le plan
type CellKey struct {
	X, Y int
}

// Cell - Conteneur d'indices de bodies dans une cellule
type Cell struct {
	bodyIndices []int
}

// SpatialGrid - Grille spatiale uniforme avec hashing, broad phase des solides
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int

	// seen - Marqueurs de déduplication réutilisés par Query, un par index inséré
	seen       []bool
	candidates []int
}

// ============================================================================
// Constructeur
// ============================================================================

// NewSpatialGrid - Crée une nouvelle grille spatiale
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)
	if cellSize <= 0 {
		cellSize = 1
	}

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].bodyIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

// nextPowerOfTwo - Arrondit à la puissance de 2 supérieure
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert - Insère un body dans toutes les cellules qu'il occupe
func (sg *SpatialGrid) Insert(bodyIndex int, body *actor.Body) {
	if bodyIndex >= len(sg.seen) {
		sg.seen = append(sg.seen, make([]bool, bodyIndex+1-len(sg.seen))...)
	}

	aabb := body.AABB()
	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			cellIdx := sg.hashCell(CellKey{x, y})

			sg.cells[cellIdx].bodyIndices = append(
				sg.cells[cellIdx].bodyIndices,
				bodyIndex,
			)
		}
	}
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].bodyIndices = sg.cells[i].bodyIndices[:0]
	}
}

func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].bodyIndices) > 1 {
			sort.Ints(sg.cells[i].bodyIndices)
		}
	}
}

// Query returns the indices of the bodies sharing a cell with the box, in
// ascending order and without duplicates. Hash collisions may add bodies that
// are far away: callers still test the boxes.
// The returned slice is reused by the next Query.
func (sg *SpatialGrid) Query(aabb actor.AABB) []int {
	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	candidates := sg.candidates[:0]

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			cellIdx := sg.hashCell(CellKey{x, y})

			for _, idx := range sg.cells[cellIdx].bodyIndices {
				if sg.seen[idx] {
					continue
				}
				sg.seen[idx] = true
				candidates = append(candidates, idx)
			}
		}
	}

	for _, idx := range candidates {
		sg.seen[idx] = false
	}
	sort.Ints(candidates)
	sg.candidates = candidates

	return candidates
}

// worldToCell - Convertit une position monde en coordonnées de cellule
func (sg *SpatialGrid) worldToCell(pos mgl64.Vec2) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
	}
}

// hashCell - Hash une cellule vers un index dans l'array
func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663)
	return h & sg.cellMask
}
