package services

import (
	"github.com/shopspring/decimal"

	"github.com/drmcoder/garment-erp-pwa-sub006/internal/models"
)

// Fault categories.
const (
	CategoryNotOperatorFault = "NOT_OPERATOR_FAULT"
	CategoryOperatorError    = "OPERATOR_ERROR"
)

// nonOperatorFaultTypes always pay full rate: the damage comes from the
// fabric, the cut, or the material, not from the operator's work.
var nonOperatorFaultTypes = map[string]bool{
	models.DamageFabricHole:     true,
	models.DamageColorIssue:     true,
	models.DamageCuttingPattern: true,
	models.DamageSizeIssue:      true,
	models.DamageMaterialDefect: true,
}

// penaltyBySeverity is the deduction fraction applied to operator-error
// pieces. Unknown severities fall back to minor.
var penaltyBySeverity = map[string]decimal.Decimal{
	models.SeverityMinor:  decimal.NewFromFloat(0.10),
	models.SeverityMajor:  decimal.NewFromFloat(0.25),
	models.SeveritySevere: decimal.NewFromFloat(0.50),
}

// Classification is the fault attribution for a damage type.
type Classification struct {
	OperatorFault bool
	Category      string
}

// Classify maps a damage type to its fault attribution. It is total:
// the known operator-error types (stitching_defect, needle_damage,
// tension_issue, alignment_error) and any unrecognized type classify as
// operator error, the conservative choice, rather than silent full pay.
func Classify(damageType string) Classification {
	if nonOperatorFaultTypes[damageType] {
		return Classification{OperatorFault: false, Category: CategoryNotOperatorFault}
	}
	return Classification{OperatorFault: true, Category: CategoryOperatorError}
}

// PenaltyRate returns the deduction fraction for a severity:
// minor 0.10, major 0.25, severe 0.50. Empty or unknown severities are
// treated as minor.
func PenaltyRate(severity string) decimal.Decimal {
	if rate, ok := penaltyBySeverity[severity]; ok {
		return rate
	}
	return penaltyBySeverity[models.SeverityMinor]
}
