package services

import (
	"github.com/shopspring/decimal"

	"github.com/drmcoder/garment-erp-pwa-sub006/internal/models"
)

// Payment result statuses.
const (
	PaymentStatusPartialHold = "partial_hold"
	PaymentStatusFullRelease = "full_release"
)

// Quality thresholds and factors for the adjustment/bonus steps.
var (
	defectivePieceFactor = decimal.NewFromFloat(0.5)
	lowQualityFactor     = decimal.NewFromFloat(0.1)
	bonusFactor          = decimal.NewFromFloat(0.05)
	hundred              = decimal.NewFromInt(100)
)

const (
	qualityPenaltyThreshold = 80
	qualityBonusThreshold   = 95
)

// BundleCompletion is the completion snapshot a payment is computed from.
type BundleCompletion struct {
	TotalPieces     int
	CompletedPieces int
	RatePerPiece    decimal.Decimal

	// DefectivePieces are permanently defective (non-reworkable) pieces.
	DefectivePieces int

	// QualityScore is the 0-100 final inspection score; nil when the
	// bundle has not been scored (no adjustment, no bonus).
	QualityScore *int
}

// PaymentResult is the full payment breakdown for a bundle. Every
// component is exposed separately so the amounts stay auditable; the
// result is never collapsed to a single number.
type PaymentResult struct {
	GoodPieces            int             `json:"good_pieces"`
	DamagedPieces         int             `json:"damaged_pieces"`
	ReworkCompletedPieces int             `json:"rework_completed_pieces"`
	ReworkPendingPieces   int             `json:"rework_pending_pieces"`
	BasePayment           decimal.Decimal `json:"base_payment"`
	ReworkPayment         decimal.Decimal `json:"rework_payment"`
	HeldPayment           decimal.Decimal `json:"held_payment"`
	QualityAdjustment     decimal.Decimal `json:"quality_adjustment"`
	EfficiencyBonus       decimal.Decimal `json:"efficiency_bonus"`
	CurrentPayment        decimal.Decimal `json:"current_payment"`
	TotalPotentialPayment decimal.Decimal `json:"total_potential_payment"`
	Status                string          `json:"status"`
}

// CalculateBundlePayment computes the payable and held amounts for a
// bundle given its completion snapshot and active damage reports.
//
// An operator-fault piece earns rate*(1-penaltyRate(severity)) whether
// it is still pending or already reworked; a non-operator-fault piece
// always earns the full rate. Using one formula at both stages keeps
// current+held monotone as rework completes.
func CalculateBundlePayment(completion BundleCompletion, reports []*models.DamageReport) PaymentResult {
	rate := completion.RatePerPiece
	res := PaymentResult{
		BasePayment:       decimal.Zero,
		ReworkPayment:     decimal.Zero,
		HeldPayment:       decimal.Zero,
		QualityAdjustment: decimal.Zero,
		EfficiencyBonus:   decimal.Zero,
	}

	// Step 1: partition damage-report pieces.
	for _, rep := range reports {
		res.DamagedPieces += rep.AffectedPieces
		perPiece := pieceRate(rate, rep)
		amount := perPiece.Mul(decimal.NewFromInt(int64(rep.AffectedPieces)))
		if rep.Status == models.DamageStatusReturnedCompleted {
			res.ReworkCompletedPieces += rep.AffectedPieces
			res.ReworkPayment = res.ReworkPayment.Add(amount)
		} else {
			res.ReworkPendingPieces += rep.AffectedPieces
			res.HeldPayment = res.HeldPayment.Add(amount)
		}
	}

	// Step 2: base payment covers undamaged completed pieces.
	res.GoodPieces = completion.CompletedPieces - res.DamagedPieces
	if res.GoodPieces < 0 {
		res.GoodPieces = 0
	}
	res.BasePayment = rate.Mul(decimal.NewFromInt(int64(res.GoodPieces)))

	// Step 5: quality adjustment.
	if completion.DefectivePieces > 0 {
		res.QualityAdjustment = rate.Mul(defectivePieceFactor).
			Mul(decimal.NewFromInt(int64(completion.DefectivePieces)))
	}
	totalAtRate := rate.Mul(decimal.NewFromInt(int64(completion.TotalPieces)))
	if completion.QualityScore != nil && *completion.QualityScore < qualityPenaltyThreshold {
		shortfall := decimal.NewFromInt(int64(qualityPenaltyThreshold - *completion.QualityScore))
		res.QualityAdjustment = res.QualityAdjustment.
			Add(shortfall.Div(hundred).Mul(lowQualityFactor).Mul(totalAtRate))
	}

	// Step 6: efficiency bonus when rework happened but final quality
	// still came in high.
	if res.DamagedPieces > 0 && completion.QualityScore != nil &&
		*completion.QualityScore >= qualityBonusThreshold {
		res.EfficiencyBonus = bonusFactor.Mul(totalAtRate)
	}

	// Step 7: assemble.
	res.CurrentPayment = res.BasePayment.
		Add(res.ReworkPayment).
		Sub(res.QualityAdjustment).
		Add(res.EfficiencyBonus)
	if res.CurrentPayment.IsNegative() {
		res.CurrentPayment = decimal.Zero
	}
	res.TotalPotentialPayment = res.CurrentPayment.Add(res.HeldPayment)

	if res.ReworkPendingPieces > 0 {
		res.Status = PaymentStatusPartialHold
	} else {
		res.Status = PaymentStatusFullRelease
	}
	return res
}

// pieceRate is the per-piece amount a damaged piece earns (or has held)
// given its fault attribution and severity.
func pieceRate(rate decimal.Decimal, rep *models.DamageReport) decimal.Decimal {
	if !Classify(rep.DamageType).OperatorFault {
		return rate
	}
	return rate.Mul(decimal.NewFromInt(1).Sub(PenaltyRate(rep.Severity)))
}

// DamageDeduction is the amount withheld from base earnings when damage
// information accompanies a work completion directly (independent of a
// hold). Non-operator-fault damage deducts nothing.
func DamageDeduction(rate decimal.Decimal, damageType, severity string, damagedPieces int) decimal.Decimal {
	if damagedPieces <= 0 {
		return decimal.Zero
	}
	if !Classify(damageType).OperatorFault {
		return decimal.Zero
	}
	return rate.Mul(PenaltyRate(severity)).Mul(decimal.NewFromInt(int64(damagedPieces)))
}
