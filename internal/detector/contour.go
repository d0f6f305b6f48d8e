package detector

import (
	"container/list"

	"github.com/MeKo-Tech/mapscan/internal/utils"
)

// compStats holds the bounding extent of one connected edge component.
type compStats struct {
	count int
	minX  int
	minY  int
	maxX  int
	maxY  int
}

// connectedComponents labels 4-connected components in the mask and returns
// per-component stats. Labels start at 1.
func connectedComponents(mask []bool, w, h int) ([]compStats, []int) {
	visited := make([]bool, w*h)
	labels := make([]int, w*h)
	var comps []compStats
	label := 1

	for y := range h {
		for x := range w {
			idx := y*w + x
			if mask[idx] && !visited[idx] {
				comps = append(comps, componentBFS(mask, visited, labels, w, h, x, y, label))
				label++
			}
		}
	}
	return comps, labels
}

// componentBFS floods one component starting at (startX, startY).
func componentBFS(mask, visited []bool, labels []int, w, h, startX, startY, label int) compStats {
	idx := func(x, y int) int { return y*w + x }
	st := compStats{minX: startX, minY: startY, maxX: startX, maxY: startY}

	q := list.New()
	start := idx(startX, startY)
	q.PushBack(start)
	visited[start] = true
	labels[start] = label

	dirs := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for q.Len() > 0 {
		e := q.Front()
		q.Remove(e)
		ci, ok := e.Value.(int)
		if !ok {
			continue
		}
		cx, cy := ci%w, ci/w

		st.count++
		if cx < st.minX {
			st.minX = cx
		}
		if cy < st.minY {
			st.minY = cy
		}
		if cx > st.maxX {
			st.maxX = cx
		}
		if cy > st.maxY {
			st.maxY = cy
		}

		for _, d := range dirs {
			nx, ny := cx+d[0], cy+d[1]
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			ni := idx(nx, ny)
			if mask[ni] && !visited[ni] {
				visited[ni] = true
				labels[ni] = label
				q.PushBack(ni)
			}
		}
	}
	return st
}

// traceContour extracts a boundary polygon for the labeled component using
// Moore-Neighbor tracing, restricted to the component's bounding box.
// Collinear intermediate points are dropped as the contour is built.
func traceContour(labels []int, w, h, label int, st compStats) []utils.Point {
	if label <= 0 || len(labels) != w*h {
		return nil
	}

	sx, sy := startingBoundaryPixel(labels, w, h, label, st)
	if sx == -1 {
		return nil
	}

	pts := make([]utils.Point, 0, 64)
	addPoint := func(x, y int) {
		p := utils.Point{X: float64(x), Y: float64(y)}
		if n := len(pts); n >= 2 {
			a, b := pts[n-2], pts[n-1]
			// (b-a) x (p-b) == 0 means b lies on segment a..p
			cross := (b.X-a.X)*(p.Y-b.Y) - (b.Y-a.Y)*(p.X-b.X)
			if cross == 0 {
				pts = pts[:n-1]
			}
		}
		pts = append(pts, p)
	}

	cx, cy := sx, sy
	bx, by := sx-1, sy // backtrack starts to the left of the first pixel
	startCx, startCy := cx, cy
	startBx, startBy := bx, by
	addPoint(cx, cy)

	maxSteps := w*h*4 + 8
	for steps := 0; steps < maxSteps; steps++ {
		nx, ny, nbx, nby, found := nextBoundaryPixel(labels, w, h, label, cx, cy, bx, by)
		if !found {
			break
		}
		bx, by = nbx, nby
		cx, cy = nx, ny
		if last := pts[len(pts)-1]; last.X != float64(cx) || last.Y != float64(cy) {
			addPoint(cx, cy)
		}
		if cx == startCx && cy == startCy && bx == startBx && by == startBy {
			break
		}
	}

	// Drop a duplicated closing point if present.
	if len(pts) >= 2 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	return pts
}

// startingBoundaryPixel scans the component bbox for the first boundary pixel.
func startingBoundaryPixel(labels []int, w, h, label int, st compStats) (int, int) {
	isLabel := func(x, y int) bool {
		if x < 0 || y < 0 || x >= w || y >= h {
			return false
		}
		return labels[y*w+x] == label
	}
	for y := st.minY; y <= st.maxY; y++ {
		for x := st.minX; x <= st.maxX; x++ {
			if !isLabel(x, y) {
				continue
			}
			if !isLabel(x+1, y) || !isLabel(x-1, y) || !isLabel(x, y+1) || !isLabel(x, y-1) {
				return x, y
			}
		}
	}
	return -1, -1
}

// nextBoundaryPixel finds the next component pixel in the Moore neighborhood,
// scanning clockwise from the backtrack position.
func nextBoundaryPixel(labels []int, w, h, label, cx, cy, bx, by int) (int, int, int, int, bool) {
	isLabel := func(x, y int) bool {
		if x < 0 || y < 0 || x >= w || y >= h {
			return false
		}
		return labels[y*w+x] == label
	}

	// 8-neighborhood clockwise order: E, SE, S, SW, W, NW, N, NE
	ndx := [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	ndy := [8]int{0, 1, 1, 1, 0, -1, -1, -1}

	start := 0
	for i := range 8 {
		if ndx[i] == bx-cx && ndy[i] == by-cy {
			start = (i + 1) % 8
			break
		}
	}

	for k := range 8 {
		i := (start + k) % 8
		tx, ty := cx+ndx[i], cy+ndy[i]
		if isLabel(tx, ty) {
			return tx, ty, cx, cy, true
		}
		bx, by = tx, ty
	}
	return 0, 0, bx, by, false
}
