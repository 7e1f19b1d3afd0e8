package rework

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/drmcoder/garment-erp-pwa-sub006/internal/models"
)

// Request is a supervisor's rework assignment for a hold.
type Request struct {
	SupervisorID      uuid.UUID  `json:"supervisor_id" validate:"required"`
	AssignedTo        uuid.UUID  `json:"assigned_to" validate:"required"`
	ReplacementPieces int        `json:"replacement_pieces" validate:"required,gt=0"`
	Instructions      string     `json:"rework_instructions,omitempty"`
	DueDate           *time.Time `json:"due_date,omitempty"`
}

// ReworkStore appends rework rounds. Satisfied by *repository.ReworkRepo.
type ReworkStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, ra *models.ReworkAssignment) error
}

// WorkStore writes work items for the external work-assignment
// subsystem. Satisfied by *repository.WorkAssignmentRepo.
type WorkStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, wa *models.WorkAssignment) error
}

// Coordinator creates rework rounds and their downstream work items.
// It owns no hold state; the engine drives the hold transition.
type Coordinator struct {
	reworks   ReworkStore
	works     WorkStore
	dueWindow time.Duration

	newID func() uuid.UUID
	now   func() time.Time
}

// NewCoordinator returns a coordinator whose assignments default to
// now + dueWindow when the supervisor sets no due date.
func NewCoordinator(reworks ReworkStore, works WorkStore, dueWindow time.Duration) *Coordinator {
	return &Coordinator{
		reworks:   reworks,
		works:     works,
		dueWindow: dueWindow,
		newID:     uuid.New,
		now:       time.Now,
	}
}

// CreateAssignment appends a rework round to the hold and creates the
// matching high-priority work item, both inside the caller's
// transaction so the assignment and the work item commit together.
func (c *Coordinator) CreateAssignment(ctx context.Context, tx pgx.Tx, hold *models.BundleHold, req Request) (*models.ReworkAssignment, error) {
	due := c.now().Add(c.dueWindow)
	if req.DueDate != nil {
		due = *req.DueDate
	}

	ra := &models.ReworkAssignment{
		ID:                c.newID(),
		HoldID:            hold.ID,
		SupervisorID:      req.SupervisorID,
		AssignedTo:        req.AssignedTo,
		ReplacementPieces: req.ReplacementPieces,
		Instructions:      req.Instructions,
		DueDate:           due,
		Status:            models.ReworkStatusAssigned,
	}
	if err := c.reworks.CreateTx(ctx, tx, ra); err != nil {
		return nil, err
	}

	wa := &models.WorkAssignment{
		ID:           c.newID(),
		Type:         models.WorkTypeRework,
		Priority:     models.WorkPriorityHigh,
		Status:       models.WorkStatusOpen,
		AssignedTo:   req.AssignedTo,
		HoldID:       &hold.ID,
		BundleNumber: hold.BundleNumber,
		Pieces:       req.ReplacementPieces,
		Instructions: req.Instructions,
		DueDate:      due,
	}
	if err := c.works.CreateTx(ctx, tx, wa); err != nil {
		return nil, err
	}
	return ra, nil
}
