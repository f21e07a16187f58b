// lifecycle/lifecycle.go
//
// Package lifecycle is the request settlement state machine:
//
//	PENDING → PICKED → PAID_PARTIAL ⇄ PAID_FULL → COMPLETED | REJECTED
//	PICKED/PAID_PARTIAL → PAYMENT_FAILED → PENDING (revert)
//	PENDING → soft-deleted (cancel)
//
// Every operation is a pure function over a request snapshot that returns an
// Outcome: the field mutations to apply (guarded by the snapshot's status so
// concurrent racers lose cleanly), an optional spawned remainder request, the
// audit log entries, the notifications to emit, and — on approval — the
// settlement amount to post as a mirrored transaction pair. Persistence and
// atomicity live in the repositories package; everything here is unit-testable
// without a database.
package lifecycle

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cashtrack/cashtrack_backend/models"
)

// Audience identifies a notification recipient relative to the request.
// The caller resolves it to a concrete user id (the admin is looked up by
// role at emission time, never cached).
type Audience int

const (
	AudienceOwner Audience = iota
	AudiencePicker
	AudiencePrevPicker
	AudienceAdmin
)

// Notice is a notification to emit after the transition commits. OnSpawn
// links the notification to the spawned request instead of the original.
type Notice struct {
	To      Audience
	Type    string
	Message string
	OnSpawn bool
}

// LogEntry is an audit record to append with the transition. OnSpawn attaches
// the entry to the spawned request.
type LogEntry struct {
	OnSpawn  bool
	UserID   primitive.ObjectID
	Action   string
	Comment  string
	Metadata map[string]interface{}
}

// Settlement is the amount to post as a mirrored transaction pair for the
// creator and the picker.
type Settlement struct {
	Amount models.Money
}

// Update describes the mutations to apply to the request. FromStatus is the
// status the snapshot was observed in; the writer must make the update
// conditional on it still holding (losing racers get ErrConflict).
type Update struct {
	FromStatus string

	// Status is the new status; empty means unchanged.
	Status string

	// Amount/PaidAmount/PendingAmount are set together by splits and
	// payment uploads.
	Amount        *models.Money
	PaidAmount    *models.Money
	PendingAmount *models.Money

	PickedByID    *primitive.ObjectID
	ClearPickedBy bool

	RejectionReason           *string
	PaymentFailureReason      *string
	ClearPaymentFailureReason bool
	CancellationReason        *string

	BankDetails *models.BankDetails
	UPIID       *string

	SoftDelete bool
}

// Outcome bundles everything a transition produces.
type Outcome struct {
	Update     Update
	Spawn      *models.Request
	Logs       []LogEntry
	Notices    []Notice
	Settlement *Settlement
}

// CreateInput carries the fields of a new request.
type CreateInput struct {
	Type        string
	Amount      models.Money
	BankDetails *models.BankDetails
	UPIID       string
	QRCode      string
}

// Create validates a new request for the owner and returns it together with
// its CREATED audit entry. adminLimit is the SUPER_ADMIN's configured global
// cap, nil when none is set; it only matters for withdrawals under the
// GLOBAL limit configuration.
func Create(owner *models.User, adminLimit *models.Money, in CreateInput) (*models.Request, LogEntry, error) {
	if owner == nil {
		return nil, LogEntry{}, fmt.Errorf("%w: owner", ErrNotFound)
	}
	if !models.ValidRequestType(in.Type) {
		return nil, LogEntry{}, fmt.Errorf("%w: invalid request type %q", ErrValidation, in.Type)
	}
	if !in.Amount.IsPositive() {
		return nil, LogEntry{}, fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	}
	if in.Type == models.RequestTypeWithdrawal {
		if err := EvaluateWithdrawalLimit(owner.WithdrawalLimitConfig, owner.MaxWithdrawalLimit, adminLimit, in.Amount); err != nil {
			return nil, LogEntry{}, err
		}
	}

	req := &models.Request{
		Type:          in.Type,
		Amount:        in.Amount,
		Status:        models.StatusPending,
		BankDetails:   in.BankDetails,
		UPIID:         in.UPIID,
		QRCode:        in.QRCode,
		PaidAmount:    models.ZeroMoney(),
		PendingAmount: in.Amount,
		CreatedByID:   owner.ID,
	}
	entry := LogEntry{
		UserID:  owner.ID,
		Action:  models.LogActionCreated,
		Comment: fmt.Sprintf("Request created for %s", in.Amount.Display()),
		Metadata: map[string]interface{}{
			"type":   in.Type,
			"amount": in.Amount.String(),
		},
	}
	return req, entry, nil
}

// Pick transitions a PENDING request to PICKED for the picker. A partial
// amount shrinks the request to the picked amount and spawns a PENDING
// sibling for the remainder, owned by the original creator, with the original
// destination details, immediately available to other pickers.
func Pick(req *models.Request, pickerID primitive.ObjectID, pickerName string, amount *models.Money) (Outcome, error) {
	if req == nil {
		return Outcome{}, fmt.Errorf("%w: request", ErrNotFound)
	}
	if req.CreatedByID == pickerID {
		return Outcome{}, fmt.Errorf("%w: you cannot pick your own request", ErrForbidden)
	}
	if req.Status != models.StatusPending {
		return Outcome{}, fmt.Errorf("%w: request is no longer available", ErrStateConflict)
	}

	picked := req.Amount
	var spawn *models.Request
	if amount != nil && amount.IsPositive() {
		if amount.GreaterThan(req.Amount) {
			return Outcome{}, fmt.Errorf("%w: cannot pick more than the available request amount of %s",
				ErrValidation, req.Amount.Display())
		}
		if amount.LessThan(req.Amount) {
			picked = *amount
			remainder := req.Amount.Sub(picked)
			spawn = &models.Request{
				Type:          req.Type,
				Amount:        remainder,
				Status:        models.StatusPending,
				BankDetails:   req.BankDetails,
				UPIID:         req.UPIID,
				QRCode:        req.QRCode,
				PaidAmount:    models.ZeroMoney(),
				PendingAmount: remainder,
				CreatedByID:   req.CreatedByID,
			}
		}
	}

	out := Outcome{
		Update: Update{
			FromStatus: models.StatusPending,
			Status:     models.StatusPicked,
			PickedByID: &pickerID,
		},
		Spawn: spawn,
	}
	if spawn != nil {
		// Shrink the original to the picked share; paid stays zero.
		out.Update.Amount = &picked
		out.Update.PendingAmount = &picked
	}

	if pickerName == "" {
		pickerName = "vendor"
	}
	out.Logs = append(out.Logs, LogEntry{
		UserID:  pickerID,
		Action:  models.LogActionPicked,
		Comment: fmt.Sprintf("Request picked by %s (Split amount: %s)", pickerName, picked.Display()),
		Metadata: map[string]interface{}{
			"pickedAmount":  picked.String(),
			"originalTotal": req.Amount.String(),
		},
	})
	if spawn != nil {
		out.Logs = append(out.Logs, LogEntry{
			OnSpawn: true,
			UserID:  req.CreatedByID,
			Action:  models.LogActionCreated,
			Comment: fmt.Sprintf("Auto-created remaining request after split pick of %s", picked.Display()),
			Metadata: map[string]interface{}{
				"type":            spawn.Type,
				"amount":          spawn.Amount.String(),
				"parentRequestId": req.ID.Hex(),
			},
		})
		out.Notices = append(out.Notices, Notice{
			To:      AudienceOwner,
			Type:    models.NotificationRequestPicked,
			Message: fmt.Sprintf("Your request was split. %s was picked, and a new request for %s is now pending.",
				picked.Display(), spawn.Amount.Display()),
			OnSpawn: true,
		})
	}
	out.Notices = append(out.Notices, Notice{
		To:      AudienceOwner,
		Type:    models.NotificationRequestPicked,
		Message: fmt.Sprintf("Your %s request of %s has been picked", typeWord(req.Type), picked.Display()),
	})
	return out, nil
}

// UploadProof records a payment installment from the picker: the paid amount
// accumulates, the pending remainder shrinks (clamped at zero) and the
// status moves to PAID_FULL once paid covers the full amount, PAID_PARTIAL
// otherwise. The slip row itself is appended by the caller in the same unit.
func UploadProof(req *models.Request, pickerID primitive.ObjectID, pickerName string, amount models.Money) (Outcome, error) {
	if req == nil {
		return Outcome{}, fmt.Errorf("%w: request", ErrNotFound)
	}
	if req.PickedByID == nil || *req.PickedByID != pickerID {
		return Outcome{}, fmt.Errorf("%w: you are not authorized to upload a payment slip for this request", ErrForbidden)
	}
	if req.Status != models.StatusPicked && req.Status != models.StatusPaidPartial {
		return Outcome{}, fmt.Errorf("%w: cannot upload a payment slip for this request", ErrStateConflict)
	}
	if !amount.IsPositive() {
		return Outcome{}, fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	}

	totalPaid := req.PaidAmount.Add(amount)
	pending := req.Amount.Sub(totalPaid)
	if !pending.IsPositive() {
		pending = models.ZeroMoney()
	}
	status := models.StatusPaidPartial
	if totalPaid.GreaterThanOrEqual(req.Amount) {
		status = models.StatusPaidFull
	}

	if pickerName == "" {
		pickerName = "vendor"
	}
	return Outcome{
		Update: Update{
			FromStatus:    req.Status,
			Status:        status,
			PaidAmount:    &totalPaid,
			PendingAmount: &pending,
		},
		Logs: []LogEntry{{
			UserID:  pickerID,
			Action:  models.LogActionPaymentUploaded,
			Comment: fmt.Sprintf("Payment slip uploaded by %s for %s", pickerName, amount.Display()),
			Metadata: map[string]interface{}{
				"amount":    amount.String(),
				"totalPaid": totalPaid.String(),
				"pending":   pending.String(),
			},
		}},
		Notices: []Notice{{
			To:      AudienceOwner,
			Type:    models.NotificationPaymentUploaded,
			Message: fmt.Sprintf("Payment slip uploaded for your %s request. Amount: %s", typeWord(req.Type), amount.Display()),
		}},
	}, nil
}

// Verify resolves an uploaded payment. Approval completes the request and
// settles the PAID amount — deliberately not the original total, so partial
// approvals settle only what was actually paid — and spawns a fresh PENDING
// request for any unpaid remainder. Rejection keeps the picker on the
// terminal record for their history and reopens the FULL original amount as
// a new PENDING request; prior partial payments are not carried over.
func Verify(req *models.Request, ownerID primitive.ObjectID, approved bool, rejectionReason, pickerName string) (Outcome, error) {
	if req == nil {
		return Outcome{}, fmt.Errorf("%w: request", ErrNotFound)
	}
	if req.CreatedByID != ownerID {
		return Outcome{}, fmt.Errorf("%w: you are not authorized to verify this payment", ErrForbidden)
	}
	if req.Status != models.StatusPaidFull && req.Status != models.StatusPaidPartial {
		return Outcome{}, fmt.Errorf("%w: no payment to verify", ErrStateConflict)
	}

	if approved {
		return approve(req, ownerID, pickerName), nil
	}
	return reject(req, ownerID, rejectionReason, pickerName), nil
}

func approve(req *models.Request, ownerID primitive.ObjectID, pickerName string) Outcome {
	hasPending := req.PendingAmount.IsPositive()

	out := Outcome{
		Update: Update{
			FromStatus: req.Status,
			Status:     models.StatusCompleted,
		},
		Settlement: &Settlement{Amount: req.PaidAmount},
	}

	action := models.LogActionPaymentApproved
	comment := fmt.Sprintf("Payment of %s approved", req.PaidAmount.Display())
	if hasPending {
		action = models.LogActionPartialPaymentApproved
		comment = fmt.Sprintf("Partial payment of %s approved. Pending: %s",
			req.PaidAmount.Display(), req.PendingAmount.Display())
	}
	out.Logs = append(out.Logs, LogEntry{
		UserID:  ownerID,
		Action:  action,
		Comment: comment,
		Metadata: map[string]interface{}{
			"paidAmount":    req.PaidAmount.String(),
			"pendingAmount": req.PendingAmount.String(),
		},
	})

	out.Notices = append(out.Notices,
		Notice{
			To:      AudiencePicker,
			Type:    models.NotificationPaymentApproved,
			Message: fmt.Sprintf("Your payment for request #%s has been approved", req.ShortID()),
		},
		Notice{
			To:      AudienceAdmin,
			Type:    models.NotificationAdminAlert,
			Message: fmt.Sprintf("Payment approved for request #%s. Vendor: %s", req.ShortID(), pickerName),
		},
	)

	if hasPending {
		remainder := req.PendingAmount
		out.Spawn = &models.Request{
			Type:          req.Type,
			Amount:        remainder,
			Status:        models.StatusPending,
			BankDetails:   req.BankDetails,
			UPIID:         req.UPIID,
			QRCode:        req.QRCode,
			PaidAmount:    models.ZeroMoney(),
			PendingAmount: remainder,
			CreatedByID:   req.CreatedByID,
		}
		out.Notices = append(out.Notices, Notice{
			To:      AudienceOwner,
			Type:    models.NotificationRequestPicked,
			Message: fmt.Sprintf("New request created for pending amount %s from request #%s",
				remainder.Display(), req.ShortID()),
			OnSpawn: true,
		})
	}
	return out
}

func reject(req *models.Request, ownerID primitive.ObjectID, rejectionReason, pickerName string) Outcome {
	reason := rejectionReason
	if reason == "" {
		reason = "Payment rejected"
	}

	// pickedById is kept on the rejected record on purpose: the picker's
	// history must show the rejection.
	out := Outcome{
		Update: Update{
			FromStatus:      req.Status,
			Status:          models.StatusRejected,
			RejectionReason: &reason,
		},
		Spawn: &models.Request{
			Type:          req.Type,
			Amount:        req.Amount,
			Status:        models.StatusPending,
			BankDetails:   req.BankDetails,
			UPIID:         req.UPIID,
			QRCode:        req.QRCode,
			PaidAmount:    models.ZeroMoney(),
			PendingAmount: req.Amount,
			CreatedByID:   req.CreatedByID,
		},
	}

	out.Logs = append(out.Logs, LogEntry{
		UserID:  ownerID,
		Action:  models.LogActionPaymentRejected,
		Comment: reason,
		Metadata: map[string]interface{}{
			"rejectedAmount": req.Amount.String(),
		},
	})

	out.Notices = append(out.Notices,
		Notice{
			To:      AudiencePicker,
			Type:    models.NotificationPaymentRejected,
			Message: fmt.Sprintf("Your payment for request #%s has been rejected. Reason: %s", req.ShortID(), reason),
		},
		Notice{
			To:      AudienceOwner,
			Type:    models.NotificationRequestPicked,
			Message: fmt.Sprintf("New request created after rejection of request #%s", req.ShortID()),
			OnSpawn: true,
		},
		Notice{
			To:      AudienceAdmin,
			Type:    models.NotificationAdminAlert,
			Message: fmt.Sprintf("Payment rejected for request #%s. Vendor: %s. New request created.", req.ShortID(), pickerName),
		},
	)
	return out
}

// ReportFailure lets the picker flag that the payment could not be made.
func ReportFailure(req *models.Request, pickerID primitive.ObjectID, pickerName, reason string) (Outcome, error) {
	if req == nil {
		return Outcome{}, fmt.Errorf("%w: request", ErrNotFound)
	}
	if req.PickedByID == nil || *req.PickedByID != pickerID {
		return Outcome{}, fmt.Errorf("%w: you are not authorized to report a payment failure for this request", ErrForbidden)
	}
	if req.Status != models.StatusPicked && req.Status != models.StatusPaidPartial {
		return Outcome{}, fmt.Errorf("%w: cannot report a payment failure for this request status", ErrStateConflict)
	}
	if reason == "" {
		return Outcome{}, fmt.Errorf("%w: reason is required", ErrValidation)
	}

	if pickerName == "" {
		pickerName = "vendor"
	}
	return Outcome{
		Update: Update{
			FromStatus:           req.Status,
			Status:               models.StatusPaymentFailed,
			PaymentFailureReason: &reason,
		},
		Logs: []LogEntry{{
			UserID:   pickerID,
			Action:   models.LogActionPaymentFailed,
			Comment:  fmt.Sprintf("Payment failure reported by %s: %s", pickerName, reason),
			Metadata: map[string]interface{}{"reason": reason},
		}},
		Notices: []Notice{{
			To:      AudienceOwner,
			Type:    models.NotificationPaymentFailed,
			Message: fmt.Sprintf("Payment failed for your %s request. Reason: %s", typeWord(req.Type), reason),
		}},
	}, nil
}

// Revert reopens a PAYMENT_FAILED request: the picker and failure reason are
// cleared, the status returns to PENDING, and the owner may refresh the
// destination details for the fresh attempt.
func Revert(req *models.Request, ownerID primitive.ObjectID, newBank *models.BankDetails, newUPI *string, comment string) (Outcome, error) {
	if req == nil {
		return Outcome{}, fmt.Errorf("%w: request", ErrNotFound)
	}
	if req.CreatedByID != ownerID {
		return Outcome{}, fmt.Errorf("%w: you are not authorized to revert this request", ErrForbidden)
	}
	if req.Status != models.StatusPaymentFailed {
		return Outcome{}, fmt.Errorf("%w: only failed payment requests can be reverted", ErrStateConflict)
	}

	if comment == "" {
		comment = "Request reverted and details updated after payment failure"
	}
	out := Outcome{
		Update: Update{
			FromStatus:                models.StatusPaymentFailed,
			Status:                    models.StatusPending,
			ClearPickedBy:             true,
			ClearPaymentFailureReason: true,
			BankDetails:               newBank,
			UPIID:                     newUPI,
		},
		Logs: []LogEntry{{
			UserID:  ownerID,
			Action:  models.LogActionRequestReverted,
			Comment: comment,
			Metadata: map[string]interface{}{
				"detailsUpdated": newBank != nil || newUPI != nil,
			},
		}},
	}
	if req.PickedByID != nil {
		out.Notices = append(out.Notices, Notice{
			To:      AudiencePrevPicker,
			Type:    models.NotificationPaymentFailed,
			Message: fmt.Sprintf("Request #%s has been reverted by the creator. You can pick it again if available.", req.ShortID()),
		})
	}
	return out, nil
}

// Cancel tombstones an unmatched PENDING request. The record stays queryable
// for audit but disappears from active listings.
func Cancel(req *models.Request, ownerID primitive.ObjectID, ownerName, reason string) (Outcome, error) {
	if req == nil {
		return Outcome{}, fmt.Errorf("%w: request", ErrNotFound)
	}
	if req.CreatedByID != ownerID {
		return Outcome{}, fmt.Errorf("%w: you are not authorized to delete this request", ErrForbidden)
	}
	if req.Status != models.StatusPending {
		return Outcome{}, fmt.Errorf("%w: only pending requests can be deleted", ErrStateConflict)
	}

	if reason == "" {
		reason = "No reason provided"
	}
	if ownerName == "" {
		ownerName = "vendor"
	}
	return Outcome{
		Update: Update{
			FromStatus:         models.StatusPending,
			CancellationReason: &reason,
			SoftDelete:         true,
		},
		Logs: []LogEntry{{
			UserID:   ownerID,
			Action:   models.LogActionRequestCancelled,
			Comment:  fmt.Sprintf("Request cancelled by user: %s", reason),
			Metadata: map[string]interface{}{"reason": reason},
		}},
		Notices: []Notice{{
			To:      AudienceAdmin,
			Type:    models.NotificationRequestCancelled,
			Message: fmt.Sprintf("Request #%s cancelled by %s. Reason: %s", req.ShortID(), ownerName, reason),
		}},
	}, nil
}

func typeWord(requestType string) string {
	if requestType == models.RequestTypeWithdrawal {
		return "withdrawal"
	}
	return "deposit"
}
