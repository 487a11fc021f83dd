package services

import (
	"fmt"

	"aduana_flow_app_go/models"

	"github.com/shopspring/decimal"
)

// DefaultAttenuationPct is the policy reduction applied on a guilty
// plea (allanamiento). Overridable via FINE_ATTENUATION_PCT.
var DefaultAttenuationPct = decimal.NewFromFloat(0.40)

// FineResult is the outcome of a fine computation
type FineResult struct {
	Amount      decimal.Decimal
	Provisional bool   // true when pending a claim (desacuerdo)
	Reason      string // stated legal reason attached to the act
}

// ComputeFine computes the fine for a resolved plea outcome.
// Pure function: no I/O, no side effects.
//
//   - ALLANAMIENTO: base reduced by attenuationPct, rounded to the
//     nearest whole currency unit.
//   - DESACUERDO: base amount, provisional pending claim.
//   - NO_COMPARECIDO: maximum amount with no attenuation possible;
//     falls back to base when no maximum was recorded.
//
// The result is never negative and never fractional.
func ComputeFine(baseAmount, maxAmount decimal.Decimal, plea string, attenuationPct decimal.Decimal) (FineResult, error) {
	if baseAmount.IsNegative() {
		return FineResult{}, NewValidationError("base_amount", "must not be negative")
	}

	switch plea {
	case models.PleaGuilty:
		factor := decimal.NewFromInt(1).Sub(attenuationPct)
		amount := baseAmount.Mul(factor).Round(0)
		if amount.IsNegative() {
			amount = decimal.Zero
		}
		pct := attenuationPct.Mul(decimal.NewFromInt(100))
		return FineResult{
			Amount: amount,
			Reason: fmt.Sprintf("Multa rebajada en %s%% por allanamiento del denunciado", pct.StringFixed(0)),
		}, nil

	case models.PleaDisagreement:
		return FineResult{
			Amount:      baseAmount.Round(0),
			Provisional: true,
			Reason:      "Multa base aplicada; monto provisional a la espera de reclamo",
		}, nil

	case models.PleaNonAppearance:
		amount := maxAmount
		if amount.IsZero() {
			amount = baseAmount
		}
		return FineResult{
			Amount: amount.Round(0),
			Reason: "Multa máxima aplicada por no comparecencia del denunciado",
		}, nil
	}

	return FineResult{}, NewValidationError("plea_outcome", "unresolved plea outcome")
}
