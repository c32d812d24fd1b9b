package utils

import (
	"fmt"
	"math/big"
	"strings"
)

func TruncateString(str string, num int) string {
	if len(str) <= num {
		return str
	}
	if num <= 3 {
		return str[:num]
	}
	return str[0:num-3] + "..."
}

func AddCommas(s string) string {
	if len(s) == 0 {
		return s
	}
	parts := strings.Split(s, ".")
	integerPart := parts[0]
	sign := ""
	if strings.HasPrefix(integerPart, "-") {
		sign = "-"
		integerPart = integerPart[1:]
	}

	n := len(integerPart)
	if n <= 3 {
		return s
	}

	var result strings.Builder
	result.WriteString(sign)
	remainder := n % 3
	if remainder > 0 {
		result.WriteString(integerPart[:remainder])
		result.WriteString(",")
	}
	for i := remainder; i < n; i += 3 {
		if i > remainder {
			result.WriteString(",")
		}
		result.WriteString(integerPart[i : i+3])
	}

	if len(parts) > 1 {
		result.WriteString(".")
		result.WriteString(parts[1])
	}
	return result.String()
}

func FormatBigFloat(f *big.Float, decimals int) string {
	if f == nil {
		return "0"
	}
	return AddCommas(f.Text('f', decimals))
}

// WeiToEther converts a smallest-unit integer amount to the native unit.
func WeiToEther(wei *big.Int) *big.Float {
	if wei == nil {
		return new(big.Float)
	}
	f := new(big.Float).SetInt(wei)
	return f.Quo(f, big.NewFloat(1e18))
}

// FormatWei renders a wei amount as a human-readable ether string.
func FormatWei(wei *big.Int, decimals int) string {
	return FormatBigFloat(WeiToEther(wei), decimals)
}

// EtherToWei converts a decimal ether string (e.g. "0.01") to wei.
func EtherToWei(ether string) (*big.Int, error) {
	f, ok := new(big.Float).SetString(ether)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %q", ether)
	}
	f.Mul(f, big.NewFloat(1e18))
	wei, _ := f.Int(nil)
	return wei, nil
}

func BigFloatToFloat64(f *big.Float) float64 {
	if f == nil {
		return 0
	}
	val, _ := f.Float64()
	return val
}
