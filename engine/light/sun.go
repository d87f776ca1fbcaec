package light

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-exhibit/common"
)

// SunPlacement is where a directional sun sits and what it aims at.
type SunPlacement struct {
	// Position is the unit direction offset added to Target.
	Position mgl32.Vec3

	// Target is a copy of the point the sun was solved for.
	Target mgl32.Vec3
}

// SunPosition converts MagicaVoxel-style sun angles into a light placement around target.
//
// The offset is (-sin(yaw)cos(pitch), sin(pitch), -cos(yaw)cos(pitch)), normalized, so
// (0, 0) puts the sun one unit down -Z and pitch 90 puts it straight overhead. The sign
// conventions match the voxel editor's and must stay as they are.
//
// Parameters:
//   - pitchDeg: elevation in degrees
//   - yawDeg: heading in degrees
//   - target: the point the sun looks at
//
// Returns:
//   - SunPlacement: position (target plus unit offset) and a copy of target
func SunPosition(pitchDeg, yawDeg float32, target mgl32.Vec3) SunPlacement {
	pitch := float64(common.DegToRad(pitchDeg))
	yaw := float64(common.DegToRad(yawDeg))

	offset := mgl32.Vec3{
		float32(-math.Sin(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(-math.Cos(yaw) * math.Cos(pitch)),
	}
	if offset.Len() > 0 {
		offset = offset.Normalize()
	}

	return SunPlacement{
		Position: target.Add(offset),
		Target:   target,
	}
}
