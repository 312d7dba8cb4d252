package tuning

// CatmullRom evaluates the Catmull-Rom spline through p1 and p2 at t in [0, 1)
func CatmullRom(p0, p1, p2, p3, t float64) float64 {
	t2 := t * t
	t3 := t2 * t

	return 0.5 * (2*p1 +
		(p2-p0)*t +
		(2*p0-5*p1+4*p2-p3)*t2 +
		(3*p1-3*p2+p3-p0)*t3)
}

// wrapMod is a modulo whose result is never negative
func wrapMod(a, b int) int {
	return (a%b + b) % b
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
