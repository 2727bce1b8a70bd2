package service

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/kalasag/kalasag-go/internal/engine"
	"github.com/kalasag/kalasag-go/internal/model"
	"go.uber.org/zap"
)

var (
	mobilePattern = regexp.MustCompile(`^09\d{9}$`)
	nonDigit      = regexp.MustCompile(`\D`)
)

const minTransferAmount = 0.01

// ValidationError carries one message per rejected form field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid transfer: " + strings.Join(names, ", ")
}

// TransferService validates send-money requests and decides the outcome
// screen. Nothing is stored and no money moves.
type TransferService struct {
	logger *zap.Logger
	newID  func() string
}

// NewTransferService issues uuid reference numbers.
func NewTransferService(logger *zap.Logger) *TransferService {
	return &TransferService{
		logger: logger,
		newID:  func() string { return uuid.New().String() },
	}
}

// Assess returns the tier for an amount, rejecting invalid amounts.
func (s *TransferService) Assess(amount float64) (engine.RiskTier, error) {
	tier, err := engine.ClassifyAmount(amount)
	if err != nil {
		s.logger.Warn("amount rejected", zap.Float64("amount", amount), zap.Error(err))
		return "", err
	}
	return tier, nil
}

// Submit validates the form and returns the screen to show. High-risk
// transfers are paused pending the guardian and can only be cancelled here.
func (s *TransferService) Submit(ctx context.Context, req model.TransferRequest) (*model.TransferOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	normalized, err := validateTransfer(req)
	if err != nil {
		return nil, err
	}

	tier, err := s.Assess(normalized.Amount)
	if err != nil {
		return nil, err
	}

	outcome := &model.TransferOutcome{
		ReferenceID:   s.newID(),
		AccountName:   normalized.AccountName,
		AccountNumber: normalized.AccountNumber,
		Mobile:        normalized.Mobile,
		Amount:        normalized.Amount,
		Tier:          tier,
	}

	switch tier {
	case engine.RiskHigh:
		outcome.Status = model.TransferPaused
		outcome.Screen = model.ScreenHighRisk
		outcome.Title = "For Your Safety"
		outcome.Message = "This is a suspicious activity flagged by our system. Your Guardian has already been alerted and the transaction is paused until they approve it."
		outcome.GuardianPending = true
		outcome.Options = []string{"cancel"}
	default:
		outcome.Status = model.TransferCompleted
		outcome.Screen = model.ScreenLowRisk
		outcome.Title = "Payment Successful!"
		outcome.Message = "Your transaction was completed successfully."
		outcome.Options = []string{"done"}
	}

	s.logger.Info("transfer assessed",
		zap.String("referenceId", outcome.ReferenceID),
		zap.Float64("amount", outcome.Amount),
		zap.String("tier", string(tier)),
		zap.String("status", string(outcome.Status)))

	return outcome, nil
}

// validateTransfer applies the send-money form rules and returns the
// normalized request.
func validateTransfer(req model.TransferRequest) (model.TransferRequest, error) {
	fields := make(map[string]string)

	name := strings.TrimSpace(req.AccountName)
	if utf8.RuneCountInString(name) < 2 {
		fields["accountName"] = "Please enter a valid account name."
	}

	digits := nonDigit.ReplaceAllString(req.AccountNumber, "")
	if len(digits) < 10 || len(digits) > 16 {
		fields["accountNumber"] = "Enter a valid account number (10-16 digits; dashes/spaces allowed)."
	}

	mobile := strings.TrimSpace(req.Mobile)
	if !mobilePattern.MatchString(mobile) {
		fields["mobile"] = "Enter a valid PH mobile number (e.g., 09XXXXXXXXX)."
	}

	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) || req.Amount < minTransferAmount {
		fields["amount"] = fmt.Sprintf("Enter a valid amount of at least PHP %.2f.", minTransferAmount)
	}

	if len(fields) > 0 {
		return model.TransferRequest{}, &ValidationError{Fields: fields}
	}

	return model.TransferRequest{
		AccountName:   name,
		AccountNumber: digits,
		Mobile:        mobile,
		Amount:        req.Amount,
	}, nil
}
