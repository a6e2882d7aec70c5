package service

import (
	"crypto/rand"
	"math/big"

	"github.com/iamadmin/iamadmin/internal/model"
)

const (
	tokenAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	maxTokenRetries = 3
)

var tokenAlphabetSize = big.NewInt(int64(len(tokenAlphabet)))

// generateToken returns InvitationTokenLength characters drawn uniformly
// from tokenAlphabet using crypto/rand.
func generateToken() (string, error) {
	b := make([]byte, model.InvitationTokenLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, tokenAlphabetSize)
		if err != nil {
			return "", err
		}
		b[i] = tokenAlphabet[n.Int64()]
	}
	return string(b), nil
}

// validToken reports whether s has the shape of an issued token.
func validToken(s string) bool {
	if len(s) != model.InvitationTokenLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9') {
			return false
		}
	}
	return true
}
