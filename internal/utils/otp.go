package utils

import (
	"crypto/rand"
	"math/big"
)

const (
	otpDigits      = "0123456789"
	tokenAlphabet  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	OTPLength      = 6
	ResetTokenSize = 32
)

func randomString(alphabet string, length int) string {
	out := make([]byte, length)
	max := big.NewInt(int64(len(alphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out)
}

// GenerateOTP generates a random numeric verification code.
func GenerateOTP() string {
	return randomString(otpDigits, OTPLength)
}

// GenerateResetToken generates a secure random token for password reset.
func GenerateResetToken() string {
	return randomString(tokenAlphabet, ResetTokenSize)
}
