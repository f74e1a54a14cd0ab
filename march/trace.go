package march

import "github.com/go-gl/mathgl/mgl32"

// TraceResult is the outcome of marching a single ray.
type TraceResult struct {
	Hit      bool
	Distance float32    // total distance marched, in units of the ray direction
	Step     int        // step at which the ray hit or escaped
	Point    mgl32.Vec3 // hit point; zero on a miss
}

// Trace sphere-traces the ray (origin, direction) through scene.
//
// The ray hits when the scene distance at the current point is at most
// minDistance. It misses when a single distance sample exceeds maxDistance,
// or when maxSteps samples were taken without a hit.
func Trace(origin, direction mgl32.Vec3, scene Scene, maxSteps int, minDistance, maxDistance float32) TraceResult {
	var total float32
	for step := 0; step < maxSteps; step++ {
		current := origin.Add(direction.Mul(total))
		distance := scene.Distance(current)
		if distance > maxDistance {
			return TraceResult{Distance: total, Step: step}
		}
		total += distance
		if distance <= minDistance {
			return TraceResult{Hit: true, Distance: total, Step: step, Point: current}
		}
	}
	return TraceResult{Distance: total, Step: maxSteps}
}
