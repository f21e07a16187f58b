package lifecycle

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cashtrack/cashtrack_backend/models"
)

var (
	ownerID  = primitive.NewObjectID()
	pickerID = primitive.NewObjectID()
	otherID  = primitive.NewObjectID()
)

func money(t *testing.T, s string) models.Money {
	t.Helper()
	m, err := models.MoneyFromString(s)
	if err != nil {
		t.Fatalf("bad money literal %q: %v", s, err)
	}
	return m
}

func pendingRequest(t *testing.T, amount string) *models.Request {
	t.Helper()
	return &models.Request{
		ID:            primitive.NewObjectID(),
		Type:          models.RequestTypeDeposit,
		Amount:        money(t, amount),
		Status:        models.StatusPending,
		UPIID:         "owner@upi",
		BankDetails:   &models.BankDetails{AccountNumber: "1234567890", BankName: "Test Bank"},
		PaidAmount:    models.ZeroMoney(),
		PendingAmount: money(t, amount),
		CreatedByID:   ownerID,
	}
}

func pickedRequest(t *testing.T, amount string) *models.Request {
	t.Helper()
	req := pendingRequest(t, amount)
	req.Status = models.StatusPicked
	req.PickedByID = &pickerID
	return req
}

func paidRequest(t *testing.T, amount, paid string) *models.Request {
	t.Helper()
	req := pickedRequest(t, amount)
	req.PaidAmount = money(t, paid)
	req.PendingAmount = req.Amount.Sub(req.PaidAmount)
	if req.PendingAmount.IsPositive() {
		req.Status = models.StatusPaidPartial
	} else {
		req.Status = models.StatusPaidFull
		req.PendingAmount = models.ZeroMoney()
	}
	return req
}

func TestCreate(t *testing.T) {
	limit500 := money(t, "500")

	tests := []struct {
		name    string
		owner   *models.User
		admin   *models.Money
		in      CreateInput
		wantErr error
	}{
		{
			name:  "valid deposit",
			owner: &models.User{ID: ownerID, Role: models.RoleVendor},
			in:    CreateInput{Type: models.RequestTypeDeposit, Amount: money(t, "100")},
		},
		{
			name:    "invalid type",
			owner:   &models.User{ID: ownerID},
			in:      CreateInput{Type: "TRANSFER", Amount: money(t, "100")},
			wantErr: ErrValidation,
		},
		{
			name:    "zero amount",
			owner:   &models.User{ID: ownerID},
			in:      CreateInput{Type: models.RequestTypeDeposit, Amount: models.ZeroMoney()},
			wantErr: ErrValidation,
		},
		{
			name: "custom limit exceeded",
			owner: &models.User{
				ID:                    ownerID,
				WithdrawalLimitConfig: models.LimitConfigCustom,
				MaxWithdrawalLimit:    &limit500,
			},
			in:      CreateInput{Type: models.RequestTypeWithdrawal, Amount: money(t, "600")},
			wantErr: ErrValidation,
		},
		{
			name: "custom limit boundary allows",
			owner: &models.User{
				ID:                    ownerID,
				WithdrawalLimitConfig: models.LimitConfigCustom,
				MaxWithdrawalLimit:    &limit500,
			},
			in: CreateInput{Type: models.RequestTypeWithdrawal, Amount: money(t, "500")},
		},
		{
			name:    "global limit exceeded",
			owner:   &models.User{ID: ownerID, WithdrawalLimitConfig: models.LimitConfigGlobal},
			admin:   &limit500,
			in:      CreateInput{Type: models.RequestTypeWithdrawal, Amount: money(t, "500.01")},
			wantErr: ErrValidation,
		},
		{
			name: "unlimited skips checks",
			owner: &models.User{
				ID:                    ownerID,
				WithdrawalLimitConfig: models.LimitConfigUnlimited,
			},
			admin: &limit500,
			in:    CreateInput{Type: models.RequestTypeWithdrawal, Amount: money(t, "99999")},
		},
		{
			name:  "deposit ignores limits",
			owner: &models.User{ID: ownerID, WithdrawalLimitConfig: models.LimitConfigGlobal},
			admin: &limit500,
			in:    CreateInput{Type: models.RequestTypeDeposit, Amount: money(t, "10000")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, entry, err := Create(tt.owner, tt.admin, tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Create() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() unexpected error: %v", err)
			}
			if req.Status != models.StatusPending {
				t.Errorf("status = %s, want PENDING", req.Status)
			}
			if !req.PendingAmount.Equal(tt.in.Amount) {
				t.Errorf("pendingAmount = %s, want %s", req.PendingAmount, tt.in.Amount)
			}
			if !req.PaidAmount.IsZero() {
				t.Errorf("paidAmount = %s, want 0", req.PaidAmount)
			}
			if entry.Action != models.LogActionCreated {
				t.Errorf("log action = %s, want CREATED", entry.Action)
			}
		})
	}
}

func TestPick_Full(t *testing.T) {
	req := pendingRequest(t, "100")

	out, err := Pick(req, pickerID, "Bob", nil)
	if err != nil {
		t.Fatalf("Pick() error: %v", err)
	}
	if out.Spawn != nil {
		t.Fatalf("full pick must not spawn a sibling")
	}
	if out.Update.FromStatus != models.StatusPending || out.Update.Status != models.StatusPicked {
		t.Errorf("update = %s→%s, want PENDING→PICKED", out.Update.FromStatus, out.Update.Status)
	}
	if out.Update.PickedByID == nil || *out.Update.PickedByID != pickerID {
		t.Errorf("pickedById not set to picker")
	}
	if out.Update.Amount != nil {
		t.Errorf("full pick must not change the amount")
	}
	if len(out.Logs) != 1 || out.Logs[0].Action != models.LogActionPicked {
		t.Errorf("logs = %+v, want single PICKED entry", out.Logs)
	}
}

func TestPick_PartialSplits(t *testing.T) {
	req := pendingRequest(t, "100")
	part := money(t, "40")

	out, err := Pick(req, pickerID, "Bob", &part)
	if err != nil {
		t.Fatalf("Pick() error: %v", err)
	}
	if out.Spawn == nil {
		t.Fatal("partial pick must spawn a remainder request")
	}
	if !out.Spawn.Amount.Equal(money(t, "60")) {
		t.Errorf("remainder amount = %s, want 60.00", out.Spawn.Amount)
	}
	if out.Spawn.Status != models.StatusPending {
		t.Errorf("remainder status = %s, want PENDING", out.Spawn.Status)
	}
	if out.Spawn.CreatedByID != ownerID {
		t.Errorf("remainder owner = %s, want original owner", out.Spawn.CreatedByID)
	}
	if out.Spawn.UPIID != req.UPIID {
		t.Errorf("remainder must inherit original destination details")
	}
	if out.Update.Amount == nil || !out.Update.Amount.Equal(part) {
		t.Errorf("shrunk amount = %v, want 40.00", out.Update.Amount)
	}
	if out.Update.PendingAmount == nil || !out.Update.PendingAmount.Equal(part) {
		t.Errorf("shrunk pendingAmount = %v, want 40.00", out.Update.PendingAmount)
	}
	// Conservation: shrunk + remainder == original.
	if !out.Update.Amount.Add(out.Spawn.Amount).Equal(money(t, "100")) {
		t.Errorf("split does not conserve the original amount")
	}

	var sawPicked, sawSpawnCreated bool
	for _, l := range out.Logs {
		switch {
		case l.Action == models.LogActionPicked && !l.OnSpawn:
			sawPicked = true
		case l.Action == models.LogActionCreated && l.OnSpawn:
			sawSpawnCreated = true
		}
	}
	if !sawPicked || !sawSpawnCreated {
		t.Errorf("logs = %+v, want PICKED on original and CREATED on spawn", out.Logs)
	}
}

func TestPick_Failures(t *testing.T) {
	over := money(t, "150")

	tests := []struct {
		name    string
		req     *models.Request
		picker  primitive.ObjectID
		amount  *models.Money
		wantErr error
	}{
		{"nil request", nil, pickerID, nil, ErrNotFound},
		{"self pick", pendingRequest(t, "100"), ownerID, nil, ErrForbidden},
		{"already picked", pickedRequest(t, "100"), otherID, nil, ErrStateConflict},
		{"over amount", pendingRequest(t, "100"), pickerID, &over, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Pick(tt.req, tt.picker, "Bob", tt.amount)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Pick() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPick_ExactAmountDoesNotSplit(t *testing.T) {
	req := pendingRequest(t, "100")
	full := money(t, "100")

	out, err := Pick(req, pickerID, "Bob", &full)
	if err != nil {
		t.Fatalf("Pick() error: %v", err)
	}
	if out.Spawn != nil {
		t.Error("picking the exact amount must not split")
	}
}

func TestUploadProof_Accumulates(t *testing.T) {
	req := pickedRequest(t, "100")

	out, err := UploadProof(req, pickerID, "Bob", money(t, "60"))
	if err != nil {
		t.Fatalf("UploadProof() error: %v", err)
	}
	if out.Update.Status != models.StatusPaidPartial {
		t.Errorf("status = %s, want PAID_PARTIAL", out.Update.Status)
	}
	if !out.Update.PaidAmount.Equal(money(t, "60")) || !out.Update.PendingAmount.Equal(money(t, "40")) {
		t.Errorf("paid/pending = %s/%s, want 60.00/40.00", out.Update.PaidAmount, out.Update.PendingAmount)
	}
	// paid + pending == amount, decimal-exact.
	if !out.Update.PaidAmount.Add(*out.Update.PendingAmount).Equal(req.Amount) {
		t.Error("paid + pending must equal the request amount")
	}

	// Second installment completes it.
	req2 := paidRequest(t, "100", "60")
	out2, err := UploadProof(req2, pickerID, "Bob", money(t, "40"))
	if err != nil {
		t.Fatalf("UploadProof() second installment error: %v", err)
	}
	if out2.Update.Status != models.StatusPaidFull {
		t.Errorf("status = %s, want PAID_FULL", out2.Update.Status)
	}
	if !out2.Update.PendingAmount.IsZero() {
		t.Errorf("pending = %s, want 0", out2.Update.PendingAmount)
	}
}

func TestUploadProof_OverpaymentClampsPending(t *testing.T) {
	req := pickedRequest(t, "100")

	out, err := UploadProof(req, pickerID, "Bob", money(t, "120"))
	if err != nil {
		t.Fatalf("UploadProof() error: %v", err)
	}
	if out.Update.Status != models.StatusPaidFull {
		t.Errorf("status = %s, want PAID_FULL", out.Update.Status)
	}
	if !out.Update.PendingAmount.IsZero() {
		t.Errorf("pending = %s, want clamped to 0", out.Update.PendingAmount)
	}
}

func TestUploadProof_Failures(t *testing.T) {
	completed := pickedRequest(t, "100")
	completed.Status = models.StatusCompleted

	tests := []struct {
		name    string
		req     *models.Request
		actor   primitive.ObjectID
		amount  string
		wantErr error
	}{
		{"not the picker", pickedRequest(t, "100"), otherID, "10", ErrForbidden},
		{"wrong status", completed, pickerID, "10", ErrStateConflict},
		{"zero amount", pickedRequest(t, "100"), pickerID, "0", ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UploadProof(tt.req, tt.actor, "Bob", money(t, tt.amount))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("UploadProof() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerify_ApproveFull(t *testing.T) {
	req := paidRequest(t, "100", "100")

	out, err := Verify(req, ownerID, true, "", "Bob")
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if out.Update.Status != models.StatusCompleted {
		t.Errorf("status = %s, want COMPLETED", out.Update.Status)
	}
	if out.Spawn != nil {
		t.Error("full approval must not spawn a remainder")
	}
	if out.Settlement == nil || !out.Settlement.Amount.Equal(money(t, "100")) {
		t.Errorf("settlement = %+v, want 100.00", out.Settlement)
	}
	if len(out.Logs) != 1 || out.Logs[0].Action != models.LogActionPaymentApproved {
		t.Errorf("log action = %+v, want PAYMENT_APPROVED", out.Logs)
	}
}

func TestVerify_ApprovePartialSpawnsRemainder(t *testing.T) {
	req := paidRequest(t, "100", "60")

	out, err := Verify(req, ownerID, true, "", "Bob")
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if out.Update.Status != models.StatusCompleted {
		t.Errorf("status = %s, want COMPLETED", out.Update.Status)
	}
	// Settlement covers the paid amount only, not the original total.
	if out.Settlement == nil || !out.Settlement.Amount.Equal(money(t, "60")) {
		t.Errorf("settlement = %+v, want 60.00", out.Settlement)
	}
	if out.Spawn == nil {
		t.Fatal("partial approval must spawn the unpaid remainder")
	}
	if !out.Spawn.Amount.Equal(money(t, "40")) {
		t.Errorf("remainder = %s, want 40.00", out.Spawn.Amount)
	}
	if out.Spawn.Status != models.StatusPending || out.Spawn.CreatedByID != ownerID {
		t.Errorf("remainder must be PENDING and owned by the creator")
	}
	if len(out.Logs) != 1 || out.Logs[0].Action != models.LogActionPartialPaymentApproved {
		t.Errorf("log action = %+v, want PARTIAL_PAYMENT_APPROVED", out.Logs)
	}
}

func TestVerify_RejectReopensFullAmount(t *testing.T) {
	req := paidRequest(t, "100", "100")

	out, err := Verify(req, ownerID, false, "slip unreadable", "Bob")
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if out.Update.Status != models.StatusRejected {
		t.Errorf("status = %s, want REJECTED", out.Update.Status)
	}
	if out.Update.RejectionReason == nil || *out.Update.RejectionReason != "slip unreadable" {
		t.Errorf("rejectionReason = %v, want recorded", out.Update.RejectionReason)
	}
	if out.Update.ClearPickedBy {
		t.Error("rejection must keep pickedById for the picker's history")
	}
	if out.Settlement != nil {
		t.Error("rejection must not settle any amount")
	}
	if out.Spawn == nil || !out.Spawn.Amount.Equal(money(t, "100")) {
		t.Fatalf("spawn = %+v, want fresh PENDING request for the full 100.00", out.Spawn)
	}
	if !out.Spawn.PaidAmount.IsZero() {
		t.Error("reopened request must not carry prior partial payments")
	}
	if len(out.Logs) != 1 || out.Logs[0].Action != models.LogActionPaymentRejected {
		t.Errorf("log action = %+v, want PAYMENT_REJECTED", out.Logs)
	}
}

func TestVerify_Failures(t *testing.T) {
	tests := []struct {
		name    string
		req     *models.Request
		actor   primitive.ObjectID
		wantErr error
	}{
		{"not the owner", paidRequest(t, "100", "100"), otherID, ErrForbidden},
		{"nothing to verify", pickedRequest(t, "100"), ownerID, ErrStateConflict},
		{"already completed", func() *models.Request {
			r := paidRequest(t, "100", "100")
			r.Status = models.StatusCompleted
			return r
		}(), ownerID, ErrStateConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Verify(tt.req, tt.actor, true, "", "Bob")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReportFailure(t *testing.T) {
	req := pickedRequest(t, "100")

	out, err := ReportFailure(req, pickerID, "Bob", "account frozen")
	if err != nil {
		t.Fatalf("ReportFailure() error: %v", err)
	}
	if out.Update.Status != models.StatusPaymentFailed {
		t.Errorf("status = %s, want PAYMENT_FAILED", out.Update.Status)
	}
	if out.Update.PaymentFailureReason == nil || *out.Update.PaymentFailureReason != "account frozen" {
		t.Errorf("failure reason not recorded")
	}

	if _, err := ReportFailure(req, otherID, "Eve", "nope"); !errors.Is(err, ErrForbidden) {
		t.Errorf("non-picker must get ErrForbidden, got %v", err)
	}
	if _, err := ReportFailure(req, pickerID, "Bob", ""); !errors.Is(err, ErrValidation) {
		t.Errorf("missing reason must get ErrValidation, got %v", err)
	}
}

func TestRevert(t *testing.T) {
	req := pickedRequest(t, "100")
	req.Status = models.StatusPaymentFailed
	req.PaymentFailureReason = "account frozen"

	newUPI := "fresh@upi"
	out, err := Revert(req, ownerID, nil, &newUPI, "")
	if err != nil {
		t.Fatalf("Revert() error: %v", err)
	}
	if out.Update.Status != models.StatusPending {
		t.Errorf("status = %s, want PENDING", out.Update.Status)
	}
	if !out.Update.ClearPickedBy || !out.Update.ClearPaymentFailureReason {
		t.Error("revert must clear the picker and the failure reason")
	}
	if out.Update.UPIID == nil || *out.Update.UPIID != newUPI {
		t.Error("revert must apply the new destination details")
	}
	var notifiedPrevPicker bool
	for _, n := range out.Notices {
		if n.To == AudiencePrevPicker {
			notifiedPrevPicker = true
		}
	}
	if !notifiedPrevPicker {
		t.Error("revert must notify the previous picker")
	}

	if _, err := Revert(pickedRequest(t, "100"), ownerID, nil, nil, ""); !errors.Is(err, ErrStateConflict) {
		t.Errorf("revert from PICKED must get ErrStateConflict, got %v", err)
	}
	if _, err := Revert(req, otherID, nil, nil, ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("non-owner revert must get ErrForbidden, got %v", err)
	}
}

func TestCancel(t *testing.T) {
	req := pendingRequest(t, "100")

	out, err := Cancel(req, ownerID, "Alice", "changed my mind")
	if err != nil {
		t.Fatalf("Cancel() error: %v", err)
	}
	if !out.Update.SoftDelete {
		t.Error("cancel must tombstone the request")
	}
	if out.Update.CancellationReason == nil || *out.Update.CancellationReason != "changed my mind" {
		t.Error("cancellation reason not recorded")
	}
	if len(out.Notices) != 1 || out.Notices[0].To != AudienceAdmin {
		t.Errorf("notices = %+v, want single admin alert", out.Notices)
	}

	if _, err := Cancel(pickedRequest(t, "100"), ownerID, "Alice", "x"); !errors.Is(err, ErrStateConflict) {
		t.Errorf("cancelling a PICKED request must get ErrStateConflict, got %v", err)
	}
	if _, err := Cancel(pendingRequest(t, "100"), otherID, "Eve", "x"); !errors.Is(err, ErrForbidden) {
		t.Errorf("non-owner cancel must get ErrForbidden, got %v", err)
	}
}

// TestUpdatePreservesCASPrecondition pins the contract the repository relies
// on: every transition reports the snapshot status it was computed from, so
// the conditional write can fail the losing side of a race.
func TestUpdatePreservesCASPrecondition(t *testing.T) {
	pending := pendingRequest(t, "100")
	out, err := Pick(pending, pickerID, "Bob", nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Update.FromStatus != models.StatusPending {
		t.Errorf("pick FromStatus = %s, want PENDING", out.Update.FromStatus)
	}

	paid := paidRequest(t, "100", "100")
	out, err = Verify(paid, ownerID, true, "", "Bob")
	if err != nil {
		t.Fatal(err)
	}
	if out.Update.FromStatus != models.StatusPaidFull {
		t.Errorf("verify FromStatus = %s, want PAID_FULL", out.Update.FromStatus)
	}
}
