package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// OTPTTL is how long a one-time password stays valid.
const OTPTTL = 10 * time.Minute

// GenerateOTP returns a 4-digit one-time password drawn from crypto/rand.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()+1000), nil
}
