package auth

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

const (
	pinMin = 1000
	pinMax = 9999
)

var pinSpan = big.NewInt(pinMax - pinMin + 1)

// GeneratePIN returns a uniformly random four digit PIN in [1000, 9999]
func GeneratePIN() (string, error) {
	n, err := rand.Int(rand.Reader, pinSpan)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+pinMin, 10), nil
}

// IsValidPIN reports whether pin is exactly four ASCII digits
func IsValidPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
