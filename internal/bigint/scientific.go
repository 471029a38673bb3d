package bigint

import (
	"fmt"
	"math"
	"strconv"
)

// Scientific returns x ≈ mantissa × 10^exp with 1 <= |mantissa| < 10, built
// from the 17 most significant digits of x. Zero returns (0, 0).
func (x *Int) Scientific() (mantissa float64, exp int) {
	if x.IsZero() {
		return 0, 0
	}
	exp = x.DigitCount() - 1
	var lead uint64
	k := 0
	for pos := exp; pos >= 0 && k <= doublePrecision; pos-- {
		lead = lead*10 + uint64(x.nthDigit(pos))
		k++
	}
	mantissa = float64(lead) / math.Pow10(k-1)
	if mantissa >= 10 {
		mantissa = math.Nextafter(10, 0)
	}
	if x.sign < 0 {
		mantissa = -mantissa
	}
	return mantissa, exp
}

// SetScientific sets z to mantissa × 10^exp rounded half-up to an integer.
// The mantissa contributes its fixed-point expansion to 20 fractional digits.
func (z *Int) SetScientific(mantissa float64, exp int) error {
	if math.IsNaN(mantissa) || math.IsInf(mantissa, 0) {
		return fmt.Errorf("%w: cannot convert mantissa %v", ErrInvalidArgument, mantissa)
	}
	return z.SetString(strconv.FormatFloat(mantissa, 'f', 20, 64) + "E" + strconv.Itoa(exp))
}
