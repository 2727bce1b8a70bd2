package engine

import (
	"errors"
	"fmt"
	"math"
)

// HighRiskThreshold is the PHP amount at and above which a transfer is paused
// for guardian review. Both the chat flow and the transfer flow use it.
const HighRiskThreshold = 5000.0

// RiskTier is the outcome of amount risk tiering.
type RiskTier string

const (
	RiskLow  RiskTier = "LOW"
	RiskHigh RiskTier = "HIGH"
)

var ErrInvalidAmount = errors.New("invalid transfer amount")

// ClassifyAmount maps a positive amount onto a tier. Non-positive and
// non-finite amounts are rejected instead of being treated as low risk.
func ClassifyAmount(amount float64) (RiskTier, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return "", fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	if amount >= HighRiskThreshold {
		return RiskHigh, nil
	}
	return RiskLow, nil
}

// Action returns the modal the caller opens for this tier.
func (t RiskTier) Action() Action {
	switch t {
	case RiskHigh:
		return ActionShowHighRisk
	case RiskLow:
		return ActionShowLowRisk
	default:
		return ActionNone
	}
}
