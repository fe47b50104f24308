package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

var (
	ErrInvalidAmount  = errors.New("amount must be positive")
	ErrNoParticipants = errors.New("must have at least one participant")
	ErrInvalidShares  = errors.New("invalid custom shares")
	ErrShareMismatch  = errors.New("custom shares must sum up to the total amount")
)

// ShareTolerance is the largest allowed gap between the sum of custom shares
// and the expense amount.
var ShareTolerance = decimal.New(1, -2)

// Share is one participant's portion of an expense.
type Share struct {
	Participant models.Participant
	Amount      decimal.Decimal
}

// ValidateAmount checks that amount is positive. Any precision is accepted;
// rounding to cents happens when amounts are rendered.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrInvalidAmount, amount)
	}
	return nil
}

// CalculateSplit computes each participant's share of amount under policy.
// Shares are returned in the order of sharedWith.
//
// Equal split works in whole cents: every participant gets amount/k rounded
// down to the cent and the leftover cents go one each to the first
// participants. Any fraction of a cent in amount goes to the first
// participant, so the shares always add up to amount exactly.
func CalculateSplit(amount decimal.Decimal, sharedWith []models.Participant, policy models.SplitPolicy) ([]Share, error) {
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}
	if len(sharedWith) == 0 {
		return nil, ErrNoParticipants
	}

	switch policy.Mode {
	case models.SplitEqual:
		return equalShares(amount, sharedWith), nil
	case models.SplitCustom:
		return customShares(amount, sharedWith, policy.Shares)
	default:
		return nil, fmt.Errorf("unknown split mode %d", policy.Mode)
	}
}

func equalShares(amount decimal.Decimal, sharedWith []models.Participant) []Share {
	k := decimal.NewFromInt(int64(len(sharedWith)))
	cents := amount.Shift(2).Truncate(0)
	base, remainder := cents.QuoRem(k, 0)
	subCent := amount.Sub(cents.Shift(-2))

	// remainder < len(sharedWith), so it always fits an int.
	extra := int(remainder.IntPart())

	shares := make([]Share, len(sharedWith))
	for i, p := range sharedWith {
		c := base
		if i < extra {
			c = c.Add(decimal.NewFromInt(1))
		}
		share := c.Shift(-2)
		if i == 0 {
			share = share.Add(subCent)
		}
		shares[i] = Share{Participant: p, Amount: share}
	}
	return shares
}

func customShares(amount decimal.Decimal, sharedWith []models.Participant, values []decimal.Decimal) ([]Share, error) {
	if len(values) != len(sharedWith) {
		return nil, fmt.Errorf("%w: got %d shares for %d participants", ErrInvalidShares, len(values), len(sharedWith))
	}

	total := decimal.Zero
	shares := make([]Share, len(sharedWith))
	for i, p := range sharedWith {
		if values[i].IsNegative() {
			return nil, fmt.Errorf("%w: share for %s is negative", ErrInvalidShares, p.Name)
		}
		total = total.Add(values[i])
		shares[i] = Share{Participant: p, Amount: values[i]}
	}

	if total.Sub(amount).Abs().GreaterThan(ShareTolerance) {
		return nil, fmt.Errorf("%w: shares total %s, amount is %s", ErrShareMismatch, total, amount)
	}
	return shares, nil
}
