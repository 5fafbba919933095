package hyperliquid

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// floatToWire converts a float64 to the canonical decimal string the
// venue hashes and signs. A value that cannot be represented in 8
// decimals without rounding is rejected rather than silently truncated.
func floatToWire(x float64) (string, error) {
	rounded := fmt.Sprintf("%.8f", x)

	parsed, err := cast.ToFloat64E(rounded)
	if err != nil {
		return "", err
	}
	if math.Abs(parsed-x) >= 1e-12 {
		return "", fmt.Errorf("float_to_wire causes rounding: %f", x)
	}

	if rounded == "-0.00000000" {
		rounded = "0.00000000"
	}

	result := strings.TrimRight(rounded, "0")
	result = strings.TrimRight(result, ".")
	return result, nil
}

// roundToDecimals rounds a float64 to the specified number of decimals.
func roundToDecimals(value float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(value*pow) / pow
}

// roundToSignificantAndDecimal rounds first to 5 significant figures,
// then clamps to the venue's per-asset decimal budget. Prices quoted to
// the venue must satisfy both constraints.
func roundToSignificantAndDecimal(value float64, maxDecimals int) float64 {
	return roundToDecimals(roundToSignificantFigures(value, 5), maxDecimals)
}

func roundToSignificantFigures(price float64, sigFigs int) float64 {
	if price == 0 {
		return 0
	}

	absPrice := math.Abs(price)
	integerPart := math.Floor(absPrice)

	if integerPart > 0 {
		numIntegerDigits := 0
		temp := int(integerPart)
		for temp > 0 {
			temp = temp / 10
			numIntegerDigits++
		}

		// The whole integer part is always kept, even when it already
		// carries more digits than requested.
		if numIntegerDigits >= sigFigs {
			return math.Copysign(integerPart, price)
		}

		rounded := roundToDecimals(absPrice, sigFigs-numIntegerDigits)
		return math.Copysign(rounded, price)
	}

	// Pure fraction: shift into [1, 10) so the decimal rounding above
	// applies, then shift back.
	multiplications := 0
	for absPrice < 1 {
		absPrice *= 10
		multiplications++
	}
	rounded := roundToDecimals(absPrice, sigFigs-1)
	return math.Copysign(rounded/math.Pow(10, float64(multiplications)), price)
}

// parseFloat parses a string to float64, returns 0.0 if parsing fails.
func parseFloat(s string) float64 {
	f, err := cast.ToFloat64E(s)
	if err != nil {
		return 0.0
	}
	return f
}

// Cloid is a client order identifier: either a UUID rendered as a
// 128-bit hex string or an opaque caller-chosen string.
type Cloid struct {
	raw string
}

// CloidFromUUID renders u as "0x" followed by 32 lowercase hex digits.
func CloidFromUUID(u uuid.UUID) Cloid {
	var sb strings.Builder
	sb.Grow(2 + 32)
	sb.WriteString("0x")
	for _, b := range u {
		fmt.Fprintf(&sb, "%02x", b)
	}
	return Cloid{raw: sb.String()}
}

// CloidFromString wraps an opaque identifier without validation.
func CloidFromString(s string) Cloid {
	return Cloid{raw: s}
}

func (c Cloid) String() string { return c.raw }

func (c Cloid) IsZero() bool { return c.raw == "" }
