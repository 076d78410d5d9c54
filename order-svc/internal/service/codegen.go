package service

import "math/rand/v2"

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 3
)

// RandomCodeGenerator draws codes uniformly from the 36^3 code space.
type RandomCodeGenerator struct{}

func (RandomCodeGenerator) Next() string {
	code := make([]byte, codeLength)
	for i := range code {
		code[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
	}
	return string(code)
}
