package model

import "github.com/kalasag/kalasag-go/internal/engine"

// TransferRequest is the send-money form.
type TransferRequest struct {
	AccountName   string  `json:"accountName"`
	AccountNumber string  `json:"accountNumber"`
	Mobile        string  `json:"mobile"`
	Amount        float64 `json:"amount"`
}

// TransferStatus is where a submitted transfer ended up.
type TransferStatus string

const (
	TransferCompleted TransferStatus = "completed"
	TransferPaused    TransferStatus = "paused"
)

// OutcomeScreen names the screen the client opens after a transfer.
type OutcomeScreen string

const (
	ScreenLowRisk  OutcomeScreen = "low_risk"
	ScreenHighRisk OutcomeScreen = "high_risk"
)

// TransferOutcome is what the client renders after submitting a transfer.
// A paused transfer offers only a way back; it never completes from here.
type TransferOutcome struct {
	ReferenceID     string          `json:"referenceId"`
	AccountName     string          `json:"accountName"`
	AccountNumber   string          `json:"accountNumber"`
	Mobile          string          `json:"mobile"`
	Amount          float64         `json:"amount"`
	Tier            engine.RiskTier `json:"tier"`
	Status          TransferStatus  `json:"status"`
	Screen          OutcomeScreen   `json:"screen"`
	Title           string          `json:"title"`
	Message         string          `json:"message"`
	GuardianPending bool            `json:"guardianPending"`
	Options         []string        `json:"options"`
}
