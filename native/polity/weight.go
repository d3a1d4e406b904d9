package polity

import (
	"fmt"
	"math/big"
)

// weightScale is the fixed-point denominator applied to every Weight. Nine
// fractional digits comfortably exceeds the basis-point precision the
// teacher's governance engine uses for bps-denominated tallies, while
// staying an exact power of ten for readable decimal string conversion.
const weightScale = 1_000_000_000

var bigWeightScale = big.NewInt(weightScale)

// Weight is a fixed-precision signed scalar used for given weights,
// allocation weights, stabilization buckets, and aggregated vote totals.
// It is backed by math/big rather than a binary float so that bucket and
// tally arithmetic reproduces identically across implementations; no
// third-party decimal library appears anywhere in the retrieved example
// corpus, so this wraps the standard library's arbitrary-precision integer
// instead of fabricating a dependency (see DESIGN.md).
type Weight struct {
	scaled *big.Int
}

// ZeroWeight is the additive identity.
func ZeroWeight() Weight { return Weight{scaled: big.NewInt(0)} }

// WeightFromInt64 builds a Weight representing an exact integer value.
func WeightFromInt64(v int64) Weight {
	return Weight{scaled: new(big.Int).Mul(big.NewInt(v), bigWeightScale)}
}

// WeightFromString parses a base-10 decimal string (e.g. "10", "0.25",
// "-3.5") into a Weight. It is the inverse of Weight.String and is used by
// the config loader and action decoders.
func WeightFromString(s string) (Weight, error) {
	r := new(big.Rat)
	if _, ok := r.SetString(s); !ok {
		return Weight{}, fmt.Errorf("polity: invalid weight literal %q", s)
	}
	scaled := new(big.Rat).Mul(r, new(big.Rat).SetInt(bigWeightScale))
	if !scaled.IsInt() {
		// Round to the nearest scaled unit rather than truncating, so
		// round-tripping a value with more precision than weightScale
		// supports doesn't silently bias towards zero.
		num := scaled.Num()
		den := scaled.Denom()
		q, rem := new(big.Int).QuoRem(num, den, new(big.Int))
		if rem.Sign() != 0 {
			half := new(big.Int).Mul(new(big.Int).Abs(rem), big.NewInt(2))
			if half.CmpAbs(den) >= 0 {
				if num.Sign() < 0 {
					q.Sub(q, big.NewInt(1))
				} else {
					q.Add(q, big.NewInt(1))
				}
			}
		}
		return Weight{scaled: q}, nil
	}
	return Weight{scaled: scaled.Num()}, nil
}

func (w Weight) ensure() *big.Int {
	if w.scaled == nil {
		return big.NewInt(0)
	}
	return w.scaled
}

// Add returns w + other.
func (w Weight) Add(other Weight) Weight {
	return Weight{scaled: new(big.Int).Add(w.ensure(), other.ensure())}
}

// Sub returns w - other.
func (w Weight) Sub(other Weight) Weight {
	return Weight{scaled: new(big.Int).Sub(w.ensure(), other.ensure())}
}

// Neg returns -w.
func (w Weight) Neg() Weight {
	return Weight{scaled: new(big.Int).Neg(w.ensure())}
}

// Cmp returns -1, 0, or 1 as w is less than, equal to, or greater than other.
func (w Weight) Cmp(other Weight) int {
	return w.ensure().Cmp(other.ensure())
}

// Sign returns -1, 0, or 1 depending on the sign of w.
func (w Weight) Sign() int {
	return w.ensure().Sign()
}

// GreaterThan reports whether w > other.
func (w Weight) GreaterThan(other Weight) bool { return w.Cmp(other) > 0 }

// LessThan reports whether w < other.
func (w Weight) LessThan(other Weight) bool { return w.Cmp(other) < 0 }

// Equal reports whether w == other.
func (w Weight) Equal(other Weight) bool { return w.Cmp(other) == 0 }

// MaxWeight returns the greater of a and b, matching the Rust original's
// Weight::max used to clamp stabilization buckets at zero.
func MaxWeight(a, b Weight) Weight {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// Abs returns the absolute value of w.
func (w Weight) Abs() Weight {
	return Weight{scaled: new(big.Int).Abs(w.ensure())}
}

// Mul returns the fixed-point product w * other. Used to apply a
// ResourceScoreAllocation's signed per-candidacy score to the voter's
// approve/disapprove weight: both operands are pre-multiplied by
// weightScale, so the raw product must be divided down by weightScale once
// to land back on scale.
func (w Weight) Mul(other Weight) Weight {
	product := new(big.Int).Mul(w.ensure(), other.ensure())
	return Weight{scaled: new(big.Int).Quo(product, bigWeightScale)}
}

// Sqrt returns the fixed-point square root of |w|, rounded down to the
// nearest representable Weight, mirroring the Rust original's
// `weight.abs().sqrt().unwrap()` (rust_decimal's default rounding for an
// exact-root-free value truncates). Because w is stored pre-multiplied by
// weightScale, recovering a result on the same scale requires computing
// isqrt(|w| * weightScale): if w = value * weightScale, then
// isqrt(value * weightScale) * weightScale...
//
// Concretely: sqrt(value) scaled by weightScale equals
// isqrt(value * weightScale^2) = isqrt((value*weightScale) * weightScale)
// = isqrt(w.scaled * weightScale).
func (w Weight) Sqrt() Weight {
	abs := new(big.Int).Abs(w.ensure())
	product := new(big.Int).Mul(abs, bigWeightScale)
	root := new(big.Int).Sqrt(product)
	return Weight{scaled: root}
}

// QuadraticVote applies sign(w)*sqrt(|w|), the quadratic vote-scaling
// function shared by the Resource and ResourceScore quadratic variants
// (spec.md §4.1, `quadratic_vote` in original_source/core/src/lib.rs).
func QuadraticVote(w Weight) Weight {
	root := w.Sqrt()
	if w.Sign() < 0 {
		return root.Neg()
	}
	return root
}

// String renders the weight as a base-10 decimal with trailing zeros
// trimmed, e.g. Weight 10 -> "10", Weight 0.25 -> "0.25".
func (w Weight) String() string {
	scaled := w.ensure()
	neg := scaled.Sign() < 0
	abs := new(big.Int).Abs(scaled)
	whole := new(big.Int)
	frac := new(big.Int)
	whole.QuoRem(abs, bigWeightScale, frac)

	fracStr := frac.String()
	for len(fracStr) < 9 {
		fracStr = "0" + fracStr
	}
	for len(fracStr) > 0 && fracStr[len(fracStr)-1] == '0' {
		fracStr = fracStr[:len(fracStr)-1]
	}

	sign := ""
	if neg && (whole.Sign() != 0 || frac.Sign() != 0) {
		sign = "-"
	}
	if fracStr == "" {
		return fmt.Sprintf("%s%s", sign, whole.String())
	}
	return fmt.Sprintf("%s%s.%s", sign, whole.String(), fracStr)
}
