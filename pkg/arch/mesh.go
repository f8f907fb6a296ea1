package arch

import "fmt"

// Mesh is a two-dimensional grid of processors linked to their four
// neighbours. Processor (x, y) has number y*X + x.
type Mesh struct {
	x, y int
}

// NewMesh returns an x by y mesh.
func NewMesh(x, y int) (*Mesh, error) {
	if x < 1 || y < 1 {
		return nil, fmt.Errorf("%w: mesh dimensions %dx%d", ErrInvalidArch, x, y)
	}
	return &Mesh{x: x, y: y}, nil
}

func (a *Mesh) Name() string             { return "mesh2d" }
func (a *Mesh) Root() Domain             { return root2D(a.x, a.y) }
func (a *Mesh) Terminal(d Domain) bool   { return area(d) <= 1 }
func (a *Mesh) Weight(d Domain) int      { return area(d) }
func (a *Mesh) Variable() bool           { return false }
func (a *Mesh) Size(d Domain) int        { return area(d) }
func (a *Mesh) TerminalNum(d Domain) int { return d.Lo[1]*a.x + d.Lo[0] }

func (a *Mesh) Bipart(d Domain) (Domain, Domain, error) {
	if a.Terminal(d) {
		return Domain{}, Domain{}, ErrTerminal
	}
	d0, d1 := split2D(d)
	return d0, d1, nil
}

// Distance is the Manhattan distance between domain centres.
func (a *Mesh) Distance(d0, d1 Domain) int {
	dx := abs(d0.Lo[0] + d0.Hi[0] - d1.Lo[0] - d1.Hi[0])
	dy := abs(d0.Lo[1] + d0.Hi[1] - d1.Lo[1] - d1.Hi[1])
	return (dx + dy) / 2
}

// Torus is a mesh whose rows and columns wrap around.
type Torus struct {
	Mesh
}

// NewTorus returns an x by y torus.
func NewTorus(x, y int) (*Torus, error) {
	m, err := NewMesh(x, y)
	if err != nil {
		return nil, err
	}
	return &Torus{Mesh: *m}, nil
}

func (a *Torus) Name() string { return "torus2d" }

// Distance is the Manhattan distance between domain centres, taking the
// shorter way around each dimension.
func (a *Torus) Distance(d0, d1 Domain) int {
	dx := abs(d0.Lo[0] + d0.Hi[0] - d1.Lo[0] - d1.Hi[0])
	dy := abs(d0.Lo[1] + d0.Hi[1] - d1.Lo[1] - d1.Hi[1])
	dx = min(dx, 2*a.x-dx)
	dy = min(dy, 2*a.y-dy)
	return (dx + dy) / 2
}

func root2D(x, y int) Domain { return Domain{Hi: [2]int{x, y}, Num: 1} }

func area(d Domain) int { return (d.Hi[0] - d.Lo[0]) * (d.Hi[1] - d.Lo[1]) }

// split2D halves the longer side of d, preferring x on ties.
func split2D(d Domain) (Domain, Domain) {
	dim := 0
	if d.Hi[1]-d.Lo[1] > d.Hi[0]-d.Lo[0] {
		dim = 1
	}
	cut := d.Lo[dim] + (d.Hi[dim]-d.Lo[dim])/2
	d0, d1 := children(d)
	d0.Hi[dim] = cut
	d1.Lo[dim] = cut
	return d0, d1
}
