package steering

import "github.com/go-gl/mathgl/mgl64"

// Path is an ordered list of waypoints consumed front to back.
type Path struct {
	waypoints []mgl64.Vec3
	index     int
}

// Add appends a waypoint.
func (p *Path) Add(w mgl64.Vec3) { p.waypoints = append(p.waypoints, w) }

// Set replaces every waypoint and rewinds to the first.
func (p *Path) Set(ws []mgl64.Vec3) {
	p.waypoints = append(p.waypoints[:0], ws...)
	p.index = 0
}

// Clear removes every waypoint.
func (p *Path) Clear() {
	p.waypoints = p.waypoints[:0]
	p.index = 0
}

// Len returns the number of waypoints.
func (p *Path) Len() int { return len(p.waypoints) }

// Empty reports whether the path has no waypoints.
func (p *Path) Empty() bool { return len(p.waypoints) == 0 }

// Current returns the waypoint being steered towards.
//
// Precondition: the path is not empty.
func (p *Path) Current() mgl64.Vec3 { return p.waypoints[p.index] }

// Last returns the final waypoint.
//
// Precondition: the path is not empty.
func (p *Path) Last() mgl64.Vec3 { return p.waypoints[len(p.waypoints)-1] }

// Advance moves to the next waypoint, stopping at the last.
func (p *Path) Advance() {
	if p.index < len(p.waypoints)-1 {
		p.index++
	}
}

// Finished reports whether the current waypoint is the last one.
func (p *Path) Finished() bool { return p.index >= len(p.waypoints)-1 }

// Waypoints returns a copy of the waypoints.
func (p *Path) Waypoints() []mgl64.Vec3 { return append([]mgl64.Vec3(nil), p.waypoints...) }

func (p *Path) segments() int { return len(p.waypoints) - 1 }

func (p *Path) segment(i int) (mgl64.Vec3, mgl64.Vec3) { return p.waypoints[i], p.waypoints[i+1] }
