package chain

import (
	"math/big"
	"strings"

	manorerr "github.com/scallionlabs/manor/pkg/errors"
)

// Token decimal precisions. All amount parameters sent in contract calls
// are integers in the token's native smallest unit.
const (
	// WLDDecimals is the precision of the fee/payment token.
	WLDDecimals = 18

	// WBTCDecimals is the precision of the custodied asset.
	WBTCDecimals = 8
)

// ParseDecimalAmount parses a decimal amount string to a big.Int in the
// token's smallest unit. For example, "0.05" with 8 decimals returns 5000000.
//
//nolint:gocognit,gocyclo // Decimal parsing requires sequential validation steps
func ParseDecimalAmount(amount string, decimalPlaces int) (*big.Int, error) {
	if amount == "" {
		return nil, manorerr.ErrInvalidAmount
	}

	// Negative amounts never appear on the wire
	if strings.HasPrefix(amount, "-") {
		return nil, manorerr.ErrInvalidAmount
	}

	parts := strings.Split(amount, ".")
	if len(parts) > 2 {
		return nil, manorerr.ErrInvalidAmount
	}

	intPart := parts[0]
	decPart := ""
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if intPart == "" {
		intPart = "0"
	}
	intVal, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return nil, manorerr.ErrInvalidAmount
	}

	multiplier := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimalPlaces)), nil)
	result := new(big.Int).Mul(intVal, multiplier)

	if decPart != "" {
		for _, c := range decPart {
			if c < '0' || c > '9' {
				return nil, manorerr.ErrInvalidAmount
			}
		}

		// Pad or truncate to the token's precision
		for len(decPart) < decimalPlaces {
			decPart += "0"
		}
		decPart = decPart[:decimalPlaces]

		decVal, ok := new(big.Int).SetString(decPart, 10)
		if !ok {
			return nil, manorerr.ErrInvalidAmount
		}

		result = result.Add(result, decVal)
	}

	return result, nil
}

// FormatDecimalAmount converts a smallest-unit big.Int to a human-readable
// decimal string. Trailing zeros after the decimal point are removed, so
// 5000000 with 8 decimals returns "0.05".
func FormatDecimalAmount(amount *big.Int, decimalPlaces int) string {
	if amount == nil {
		return "0"
	}

	str := amount.String()

	for len(str) <= decimalPlaces {
		str = "0" + str
	}

	decimalPos := len(str) - decimalPlaces
	result := str[:decimalPos] + "." + str[decimalPos:]

	for len(result) > 1 && result[len(result)-1] == '0' && result[len(result)-2] != '.' {
		result = result[:len(result)-1]
	}
	result = strings.TrimSuffix(result, ".0")

	return result
}
