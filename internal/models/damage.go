package models

// Damage types. The first group is never the operator's fault (machine,
// fabric, or upstream cutting problems); the second group is operator
// error and carries a severity-based penalty.
const (
	DamageFabricHole     = "fabric_hole"
	DamageColorIssue     = "color_issue"
	DamageCuttingPattern = "cutting_pattern"
	DamageSizeIssue      = "size_issue"
	DamageMaterialDefect = "material_defect"

	DamageStitchingDefect = "stitching_defect"
	DamageNeedleDamage    = "needle_damage"
	DamageTensionIssue    = "tension_issue"
	DamageAlignmentError  = "alignment_error"
)

// Damage severities.
const (
	SeverityMinor  = "minor"
	SeverityMajor  = "major"
	SeveritySevere = "severe"
)

// Damage report statuses as a report moves through rework.
const (
	DamageStatusReported           = "reported"
	DamageStatusSupervisorReceived = "supervisor_received"
	DamageStatusInRework           = "in_rework"
	DamageStatusReturnedCompleted  = "returned_completed"
)

// DamageReport is the per-incident input consumed by the payment
// calculator; the engine persists it as part of the hold, not separately.
type DamageReport struct {
	DamageType     string `json:"damage_type"`
	Severity       string `json:"severity,omitempty"`
	AffectedPieces int    `json:"affected_pieces"`
	OperatorFault  bool   `json:"operator_fault"`
	PieceNumbers   []int  `json:"piece_numbers,omitempty"`
	Status         string `json:"status"`
}
