// Package glm provides the small amount of generic vector math used by
// the rest of the module.
package glm

import "golang.org/x/exp/constraints"

type numeric interface {
	constraints.Integer | constraints.Float
}

type Vec2f = Vec2[float32]
type Vec2u = Vec2[uint32]

type Vec4f = Vec4[float32]
