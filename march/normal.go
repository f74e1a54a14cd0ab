package march

import "github.com/go-gl/mathgl/mgl32"

// NormalEpsilon is the finite-difference offset used for a given hit threshold.
func NormalEpsilon(minDistance float32) float32 {
	return minDistance / 10
}

// EstimateNormal approximates the unit surface normal of scene at p from
// central differences with offset eps. Flat or cusped regions where the
// gradient vanishes yield NaN components.
func EstimateNormal(scene Scene, p mgl32.Vec3, eps float32) mgl32.Vec3 {
	dx := mgl32.Vec3{eps, 0, 0}
	dy := mgl32.Vec3{0, eps, 0}
	dz := mgl32.Vec3{0, 0, eps}
	return mgl32.Vec3{
		scene.Distance(p.Add(dx)) - scene.Distance(p.Sub(dx)),
		scene.Distance(p.Add(dy)) - scene.Distance(p.Sub(dy)),
		scene.Distance(p.Add(dz)) - scene.Distance(p.Sub(dz)),
	}.Normalize()
}
