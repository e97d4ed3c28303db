// Package direction implements the six-face block direction enum used for block
// updates, neighbor lookups and block-entity facing state.
package direction

import "fmt"

// BlockDirection is one of the six axis-aligned unit directions a block face can
// point in. The numeric values match the network/NBT wire representation.
type BlockDirection uint8

const (
	Down BlockDirection = iota
	Up
	North
	South
	West
	East
)

func (d BlockDirection) String() string {
	switch d {
	case Down:
		return "down"
	case Up:
		return "up"
	case North:
		return "north"
	case South:
		return "south"
	case West:
		return "west"
	case East:
		return "east"
	default:
		return fmt.Sprintf("invalid(%d)", uint8(d))
	}
}

// FromIndex converts a 0..5 wire index back into a BlockDirection.
func FromIndex(index int32) (BlockDirection, bool) {
	if index < 0 || index > 5 {
		return 0, false
	}
	return BlockDirection(index), true
}

// Axis identifies one of the three world axes.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "?"
	}
}

// Offset is a signed unit vector.
type Offset struct{ X, Y, Z int32 }

// ToOffset returns the unit offset vector for d.
func (d BlockDirection) ToOffset() Offset {
	switch d {
	case Down:
		return Offset{0, -1, 0}
	case Up:
		return Offset{0, 1, 0}
	case North:
		return Offset{0, 0, -1}
	case South:
		return Offset{0, 0, 1}
	case West:
		return Offset{-1, 0, 0}
	case East:
		return Offset{1, 0, 0}
	default:
		return Offset{}
	}
}

// Opposite returns the direction facing the opposite way.
func (d BlockDirection) Opposite() BlockDirection {
	switch d {
	case Down:
		return Up
	case Up:
		return Down
	case North:
		return South
	case South:
		return North
	case West:
		return East
	case East:
		return West
	default:
		return d
	}
}

// IsHorizontal reports whether d is one of North/South/West/East.
func (d BlockDirection) IsHorizontal() bool {
	switch d {
	case North, South, West, East:
		return true
	default:
		return false
	}
}

// ToAxis returns the world axis d points along.
func (d BlockDirection) ToAxis() Axis {
	switch d {
	case North, South:
		return AxisZ
	case West, East:
		return AxisX
	default:
		return AxisY
	}
}

// Positive reports whether d points in the positive direction of its axis
// (South, East, Up).
func (d BlockDirection) Positive() bool {
	switch d {
	case South, East, Up:
		return true
	default:
		return false
	}
}

// RotateClockwise rotates a horizontal direction N->E->S->W->N. Up and Down
// have no horizontal cycle of their own, so each maps to a fixed direction;
// they are not the same fixed direction, matching the source game's table.
func (d BlockDirection) RotateClockwise() BlockDirection {
	switch d {
	case North:
		return East
	case East:
		return South
	case South:
		return West
	case West:
		return North
	case Up:
		return East
	case Down:
		return West
	default:
		return d
	}
}

// RotateCounterClockwise is the inverse cycle of RotateClockwise. Up and Down
// swap fixed targets accordingly (Up->West, Down->East).
func (d BlockDirection) RotateCounterClockwise() BlockDirection {
	switch d {
	case North:
		return West
	case West:
		return South
	case South:
		return East
	case East:
		return North
	case Up:
		return West
	case Down:
		return East
	default:
		return d
	}
}

// All returns every direction once, in declaration order.
func All() [6]BlockDirection {
	return [6]BlockDirection{Down, Up, North, South, West, East}
}

// Horizontal returns the four horizontal directions.
func Horizontal() [4]BlockDirection {
	return [4]BlockDirection{North, South, West, East}
}

// Vertical returns the two vertical directions.
func Vertical() [2]BlockDirection {
	return [2]BlockDirection{Down, Up}
}

// FlowDirections returns every direction fluids can flow towards: everything
// except Up.
func FlowDirections() [5]BlockDirection {
	return [5]BlockDirection{Down, North, South, West, East}
}

// UpdateOrder is the fixed sequence neighbor block updates are dispatched in.
func UpdateOrder() [6]BlockDirection {
	return [6]BlockDirection{West, East, Down, Up, North, South}
}

// AbstractBlockUpdateOrder is the fixed sequence used by AbstractBlock-level
// neighbor notification, distinct from UpdateOrder.
func AbstractBlockUpdateOrder() [6]BlockDirection {
	return [6]BlockDirection{West, East, North, South, Down, Up}
}
