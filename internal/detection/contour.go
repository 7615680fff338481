package detection

import (
	"image"
	"math"
)

// Contour is a closed boundary curve in pixel coordinates.
//
// Points follow the border of a connected group of edge pixels. Runs of
// horizontal, vertical and diagonal steps are compressed to their endpoints,
// so a rectangle outline is four points.
type Contour []image.Point

// Len returns the number of points in the contour.
func (c Contour) Len() int {
	return len(c)
}

// Bounds returns the smallest rectangle containing every point of the contour.
// The rectangle's Max is exclusive, so a single-point contour has size 1x1.
func (c Contour) Bounds() image.Rectangle {
	if len(c) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: c[0], Max: c[0].Add(image.Point{X: 1, Y: 1})}
	for _, p := range c[1:] {
		r = r.Union(image.Rectangle{Min: p, Max: p.Add(image.Point{X: 1, Y: 1})})
	}
	return r
}

// Area returns the area enclosed by the contour polygon (shoelace formula).
// Degenerate contours (points and lines) have zero area.
func (c Contour) Area() float64 {
	if len(c) < 3 {
		return 0
	}
	var sum int
	for i, p := range c {
		q := c[(i+1)%len(c)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return math.Abs(float64(sum)) / 2
}

// neighbours lists the 8 directions counterclockwise as drawn on screen
// (Y grows downward), starting east.
var neighbours = [8]image.Point{
	{X: 1, Y: 0},   // E
	{X: 1, Y: -1},  // NE
	{X: 0, Y: -1},  // N
	{X: -1, Y: -1}, // NW
	{X: -1, Y: 0},  // W
	{X: -1, Y: 1},  // SW
	{X: 0, Y: 1},   // S
	{X: 1, Y: 1},   // SE
}

const dirWest = 4

// binaryImage is a row-major foreground mask.
type binaryImage struct {
	width, height int
	pix           []bool
}

func newBinaryImage(edges *image.Gray) *binaryImage {
	b := edges.Bounds()
	bin := &binaryImage{
		width:  b.Dx(),
		height: b.Dy(),
		pix:    make([]bool, b.Dx()*b.Dy()),
	}
	for y := 0; y < bin.height; y++ {
		row := edges.Pix[y*edges.Stride : y*edges.Stride+bin.width]
		for x, v := range row {
			bin.pix[y*bin.width+x] = v != 0
		}
	}
	return bin
}

func (b *binaryImage) in(p image.Point) bool {
	return p.X >= 0 && p.X < b.width && p.Y >= 0 && p.Y < b.height
}

// at reports whether p is foreground. Points outside the image are background.
func (b *binaryImage) at(p image.Point) bool {
	return b.in(p) && b.pix[p.Y*b.width+p.X]
}

func (b *binaryImage) onFrame(p image.Point) bool {
	return p.X == 0 || p.Y == 0 || p.X == b.width-1 || p.Y == b.height-1
}

// FindExternalContours extracts the outermost contours of a binary edge map.
//
// Any non-zero pixel is foreground. Foreground pixels are grouped with
// 8-connectivity and background with 4-connectivity. A group is external
// when it borders the background connected to the image frame; groups that
// sit inside a hole of another group are skipped.
//
// Each external group contributes one contour traced along its outer border
// and compressed to the endpoints of straight runs. Contours are returned in
// raster order of their top-left pixel, in the coordinate space of edges.
func FindExternalContours(edges *image.Gray) []Contour {
	bin := newBinaryImage(edges)
	if bin.width == 0 || bin.height == 0 {
		return nil
	}

	outside := bin.outsideBackground()
	labels := make([]int, len(bin.pix))
	origin := edges.Bounds().Min

	contours := make([]Contour, 0)
	label := 0
	for y := 0; y < bin.height; y++ {
		for x := 0; x < bin.width; x++ {
			i := y*bin.width + x
			if !bin.pix[i] || labels[i] != 0 {
				continue
			}

			label++
			start := image.Point{X: x, Y: y}
			if !bin.labelComponent(start, label, labels, outside) {
				continue
			}

			border := compressChain(bin.traceBorder(start))
			for j := range border {
				border[j] = border[j].Add(origin)
			}
			contours = append(contours, border)
		}
	}

	return contours
}

// outsideBackground marks the background pixels 4-connected to the image
// frame.
func (b *binaryImage) outsideBackground() []bool {
	outside := make([]bool, len(b.pix))
	stack := make([]image.Point, 0)

	push := func(p image.Point) {
		i := p.Y*b.width + p.X
		if b.pix[i] || outside[i] {
			return
		}
		outside[i] = true
		stack = append(stack, p)
	}

	for x := 0; x < b.width; x++ {
		push(image.Point{X: x, Y: 0})
		push(image.Point{X: x, Y: b.height - 1})
	}
	for y := 0; y < b.height; y++ {
		push(image.Point{X: 0, Y: y})
		push(image.Point{X: b.width - 1, Y: y})
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for d := 0; d < len(neighbours); d += 2 {
			n := p.Add(neighbours[d])
			if b.in(n) {
				push(n)
			}
		}
	}

	return outside
}

// labelComponent flood-fills the 8-connected group containing start with
// label and reports whether the group touches the outside background or the
// image frame.
func (b *binaryImage) labelComponent(start image.Point, label int, labels []int, outside []bool) bool {
	external := false
	labels[start.Y*b.width+start.X] = label
	stack := []image.Point{start}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if b.onFrame(p) {
			external = true
		}

		for d, off := range neighbours {
			n := p.Add(off)
			if !b.in(n) {
				continue
			}
			i := n.Y*b.width + n.X
			if !b.pix[i] {
				if d%2 == 0 && outside[i] {
					external = true
				}
				continue
			}
			if labels[i] == 0 {
				labels[i] = label
				stack = append(stack, n)
			}
		}
	}

	return external
}

// traceBorder follows the outer border of the group whose first pixel in
// raster order is start, returning every border pixel in order.
func (b *binaryImage) traceBorder(start image.Point) []image.Point {
	// The first foreground neighbour clockwise from the west.
	first := -1
	for k := 0; k < len(neighbours); k++ {
		d := (dirWest - k + len(neighbours)) % len(neighbours)
		if b.at(start.Add(neighbours[d])) {
			first = d
			break
		}
	}
	if first < 0 {
		return []image.Point{start}
	}

	second := start.Add(neighbours[first])
	prev, cur := second, start
	path := make([]image.Point, 0)

	// Every border pixel is visited at most a few times; the cap guards
	// against malformed input.
	limit := 4*len(b.pix) + 8
	for i := 0; i < limit; i++ {
		back := direction(cur, prev)
		var next image.Point
		for k := 1; k <= len(neighbours); k++ {
			d := (back + k) % len(neighbours)
			if n := cur.Add(neighbours[d]); b.at(n) {
				next = n
				break
			}
		}

		path = append(path, cur)
		if next == start && cur == second {
			break
		}
		prev, cur = cur, next
	}

	return path
}

// direction returns the neighbour index that steps from a to b.
func direction(a, b image.Point) int {
	delta := b.Sub(a)
	for d, off := range neighbours {
		if off == delta {
			return d
		}
	}
	return 0
}

// compressChain keeps only the points where the step direction changes.
func compressChain(path []image.Point) Contour {
	if len(path) < 3 {
		return Contour(path)
	}

	out := make(Contour, 0, len(path))
	n := len(path)
	for i, p := range path {
		prev := path[(i-1+n)%n]
		next := path[(i+1)%n]
		if p.Sub(prev) != next.Sub(p) {
			out = append(out, p)
		}
	}
	return out
}
