package code

import (
	"code-drop/internal/core/port"
	"crypto/rand"
	"fmt"
	"math/big"
)

// Codes are drawn uniformly from [MinCode, MaxCode]
const (
	MinCode = 100000
	MaxCode = 999999
	Length  = 6
)

var codeSpan = big.NewInt(MaxCode - MinCode + 1)

type randomGenerator struct{}

// NewGenerator returns a crypto/rand backed code generator
func NewGenerator() port.CodeGenerator {
	return randomGenerator{}
}

// Generate returns a 6-digit numeric code
func (randomGenerator) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpan)
	if err != nil {
		return "", fmt.Errorf("failed to draw code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+MinCode), nil
}

// IsValidCode checks that code is six ASCII digits without a leading zero
func IsValidCode(code string) bool {
	if len(code) != Length || code[0] == '0' {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
