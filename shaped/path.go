package shaped

import (
	"golang.org/x/image/vector"

	"github.com/oliverbestmann/veil/glm"
)

type pathOpType uint32

const (
	opMove pathOpType = iota + 1
	opLine
	opQuad
	opCube
	opClose
)

type pathOp struct {
	Type    pathOpType
	End     glm.Vec2f
	Control [2]glm.Vec2f
}

// Path is a vector path built from lines and bezier curves, in surface
// pixel coordinates. The zero value is an empty path.
//
// A Path handed to Element.SetOverlayPath transfers ownership to the
// element; the caller must not touch it afterwards.
type Path struct {
	ops []pathOp
}

func (p *Path) MoveTo(pos glm.Vec2f) {
	p.ops = append(p.ops, pathOp{
		Type: opMove,
		End:  pos,
	})
}

func (p *Path) LineTo(pos glm.Vec2f) {
	p.ops = append(p.ops, pathOp{
		Type: opLine,
		End:  pos,
	})
}

func (p *Path) QuadTo(control, end glm.Vec2f) {
	p.ops = append(p.ops, pathOp{
		Type:    opQuad,
		End:     end,
		Control: [2]glm.Vec2f{control},
	})
}

func (p *Path) CubeTo(control1, control2, end glm.Vec2f) {
	p.ops = append(p.ops, pathOp{
		Type:    opCube,
		End:     end,
		Control: [2]glm.Vec2f{control1, control2},
	})
}

func (p *Path) Close() {
	p.ops = append(p.ops, pathOp{
		Type: opClose,
	})
}

// Empty reports whether the path contains no operations. A nil path is
// empty.
func (p *Path) Empty() bool {
	return p == nil || len(p.ops) == 0
}

// rasterize replays the path into the rasterizer. Contours left open are
// closed implicitly, and operations before the first MoveTo are skipped
// since they have no current point to start from.
func (p *Path) rasterize(z *vector.Rasterizer) {
	open := false

	for _, op := range p.ops {
		if !open && op.Type != opMove {
			continue
		}

		switch op.Type {
		case opMove:
			if open {
				z.ClosePath()
			}

			z.MoveTo(op.End[0], op.End[1])
			open = true

		case opLine:
			z.LineTo(op.End[0], op.End[1])

		case opQuad:
			z.QuadTo(op.Control[0][0], op.Control[0][1], op.End[0], op.End[1])

		case opCube:
			z.CubeTo(
				op.Control[0][0], op.Control[0][1],
				op.Control[1][0], op.Control[1][1],
				op.End[0], op.End[1],
			)

		case opClose:
			z.ClosePath()
			open = false
		}
	}

	if open {
		z.ClosePath()
	}
}
