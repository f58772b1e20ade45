package assembly

import (
	"github.com/AaronLge/GeometrieConverter/pkg/structure"
)

// TowerOffset returns the vertical displacement that seats a tower with the
// given bottom elevation on top of the MP+TP stack. Negative when the tower
// is authored above its final position.
func TowerOffset(stackTop, towerBottom float64) float64 {
	return stackTop - towerBottom
}

// AlignTower shifts the tower segments and its added masses onto the stack
// top and returns the shifted copies together with the applied offset. Point
// masses keep their nil bottom.
func AlignTower(tower structure.Structure, masses []structure.AddedMass, stackTop float64) (structure.Structure, []structure.AddedMass, float64) {
	offset := TowerOffset(stackTop, tower.Bottom())
	return tower.Shift(offset), structure.ShiftMasses(masses, offset), offset
}
