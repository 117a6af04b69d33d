package checkout

import "math/rand"

// newTokenNumber returns a 7-digit pickup code the student presents at the
// counter. Collisions across live orders are tolerable: the counter matches
// token plus canteen.
func newTokenNumber() int {
	return rand.Intn(9000000) + 1000000
}
