package lounge

import "math"

// Seat layout geometry.  Seats are placed evenly around a circle starting
// at 270 degrees so that seat 0 always renders at the top of the table.
// The index-to-slot mapping is part of the client contract: every client
// must place the same seat index in the same visual slot.

// SeatAngle returns the angle in degrees for seat i of a table with n
// seats, normalised into [0, 360).  Seat 0 is at 270 degrees and seats
// advance clockwise by 360/n.
func SeatAngle(i, n int) float64 {
	if n <= 0 {
		return 270
	}
	angle := math.Mod(270+float64(i)*360/float64(n), 360)
	if angle < 0 {
		angle += 360
	}
	return angle
}

// SeatPosition returns the (x, y) offset from the table centre for seat i
// of n at the given radius, in screen coordinates (y grows downward, so
// seat 0 at 270 degrees sits above the centre).
func SeatPosition(i, n int, radius float64) (x, y float64) {
	rad := SeatAngle(i, n) * math.Pi / 180
	return math.Cos(rad) * radius, math.Sin(rad) * radius
}
