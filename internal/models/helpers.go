package models

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math"
)

// GenerateClientSeed creates the default player-side seed at registration;
// players may replace it at any time between rounds.
func GenerateClientSeed() (string, error) {
	bytes := make([]byte, 16) // 128 bits of entropy
	_, err := rand.Read(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate client seed: %v", err)
	}
	return hex.EncodeToString(bytes), nil
}

// RoundMultiplier rounds half-up to 4 decimal places. Displayed and
// settled multipliers must agree, so every calculator rounds here and
// nowhere else.
func RoundMultiplier(m float64) float64 {
	return math.Round(m*10000) / 10000
}

// RoundAmount rounds money half-up to 2 decimal places.
func RoundAmount(a float64) float64 {
	return math.Round(a*100) / 100
}
