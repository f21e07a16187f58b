// controllers/request_controller.go
package controllers

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cashtrack/cashtrack_backend/lifecycle"
	"github.com/cashtrack/cashtrack_backend/models"
	"github.com/cashtrack/cashtrack_backend/repositories"
	"github.com/cashtrack/cashtrack_backend/utils"
	ws "github.com/cashtrack/cashtrack_backend/websocket"
)

// RequestController orchestrates the settlement lifecycle: it loads the
// snapshot, runs the pure transition, commits the outcome atomically and
// emits the notifications afterwards.
type RequestController struct {
	DB       *mongo.Client
	requests *repositories.RequestRepository
	users    *repositories.UserRepository
	hub      *ws.Hub
	logger   *log.Logger
}

// NewRequestController creates a new request controller
func NewRequestController(db *mongo.Client, hub *ws.Hub) *RequestController {
	return &RequestController{
		DB:       db,
		requests: repositories.NewRequestRepository(db),
		users:    repositories.NewUserRepository(db),
		hub:      hub,
		logger:   log.New(os.Stdout, "[REQUEST] ", log.LstdFlags),
	}
}

// CreateRequest posts a new deposit or withdrawal request.
func (rc *RequestController) CreateRequest(c echo.Context) error {
	var req models.CreateRequestRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Type must be WITHDRAWAL or DEPOSIT",
		})
	}

	user, err := utils.GetUserFromToken(c, rc.DB)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	adminLimit := rc.globalWithdrawalLimit(ctx)

	in := lifecycle.CreateInput{
		Type:        req.Type,
		Amount:      req.Amount,
		BankDetails: req.BankDetails,
		UPIID:       req.UPIID,
		QRCode:      req.QRCode,
	}
	// Destination details default to the creator's profile.
	if in.BankDetails == nil {
		in.BankDetails = user.BankDetails
	}
	if in.UPIID == "" {
		in.UPIID = user.UPIID
	}
	if in.QRCode == "" {
		in.QRCode = user.QRCode
	}

	request, entry, err := lifecycle.Create(user, adminLimit, in)
	if err != nil {
		return respondError(c, err)
	}
	if err := rc.requests.Insert(ctx, request, entry); err != nil {
		return respondError(c, err)
	}

	rc.logger.Printf("Request %s created by %s for %s", request.ShortID(), user.Email, request.Amount.Display())
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Request created",
		Data:    request,
	})
}

// AdminCreateWithdrawal posts a withdrawal on the admin's own account, used
// to drain collected balances.
func (rc *RequestController) AdminCreateWithdrawal(c echo.Context) error {
	var req models.AdminWithdrawalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	admin, err := utils.GetUserFromToken(c, rc.DB)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}

	// The admin's own withdrawals are not capped.
	admin.WithdrawalLimitConfig = models.LimitConfigUnlimited

	request, entry, err := lifecycle.Create(admin, nil, lifecycle.CreateInput{
		Type:        models.RequestTypeWithdrawal,
		Amount:      req.Amount,
		BankDetails: admin.BankDetails,
		UPIID:       admin.UPIID,
		QRCode:      admin.QRCode,
	})
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := rc.requests.Insert(ctx, request, entry); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Withdrawal request created",
		Data:    request,
	})
}

// availableView decorates a request with the type the viewer would act on:
// paying someone's withdrawal is a deposit from the picker's side.
type availableView struct {
	models.Request
	DisplayType string `json:"displayType"`
}

// ListAvailable returns open requests from other vendors.
func (rc *RequestController) ListAvailable(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}

	filter := repositories.AvailableFilter{Type: c.QueryParam("type")}
	if v := c.QueryParam("minAmount"); v != "" {
		if m, err := models.MoneyFromString(v); err == nil {
			filter.MinAmount = &m
		}
	}
	if v := c.QueryParam("maxAmount"); v != "" {
		if m, err := models.MoneyFromString(v); err == nil {
			filter.MaxAmount = &m
		}
	}
	p := utils.NewPagination(c.QueryParam("page"), c.QueryParam("limit"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	requests, total, err := rc.requests.ListAvailable(ctx, userID, filter, p)
	if err != nil {
		return respondError(c, err)
	}

	views := make([]availableView, 0, len(requests))
	for _, r := range requests {
		views = append(views, availableView{
			Request:     r,
			DisplayType: models.InvertRequestType(r.Type),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Available requests retrieved",
		Data: map[string]interface{}{
			"requests":   views,
			"pagination": p.Meta(total),
		},
	})
}

// ListMine returns the requests the user created and the ones they picked,
// paginated independently.
func (rc *RequestController) ListMine(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}

	createdP := utils.NewPagination(c.QueryParam("createdPage"), c.QueryParam("createdLimit"))
	pickedP := utils.NewPagination(c.QueryParam("pickedPage"), c.QueryParam("pickedLimit"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	created, createdTotal, picked, pickedTotal, err := rc.requests.ListMine(ctx, userID, createdP, pickedP)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Requests retrieved",
		Data: map[string]interface{}{
			"created": map[string]interface{}{
				"requests":   created,
				"pagination": createdP.Meta(createdTotal),
			},
			"picked": map[string]interface{}{
				"requests":   picked,
				"pagination": pickedP.Meta(pickedTotal),
			},
		},
	})
}

// CountMine returns just the created/picked counts for the tab badges.
func (rc *RequestController) CountMine(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	created, picked, err := rc.requests.CountMine(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Counts retrieved",
		Data: map[string]interface{}{
			"created": created,
			"picked":  picked,
		},
	})
}

// ListAll is the admin view over every request.
func (rc *RequestController) ListAll(c echo.Context) error {
	filter := repositories.AdminFilter{
		Type:   c.QueryParam("type"),
		Status: c.QueryParam("status"),
	}
	if v := c.QueryParam("vendorId"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid vendor ID",
			})
		}
		filter.VendorID = &id
	}
	p := utils.NewPagination(c.QueryParam("page"), c.QueryParam("limit"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	requests, total, err := rc.requests.ListAll(ctx, filter, p)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Requests retrieved",
		Data: map[string]interface{}{
			"requests":   requests,
			"pagination": p.Meta(total),
		},
	})
}

// GetRequest returns one request to a participant or the admin.
func (rc *RequestController) GetRequest(c echo.Context) error {
	request, _, err := rc.loadForViewer(c)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Request retrieved",
		Data:    request,
	})
}

// PickRequest claims an open request, optionally for a partial amount.
func (rc *RequestController) PickRequest(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request ID",
		})
	}

	var body models.PickRequestRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	user, err := utils.GetUserFromToken(c, rc.DB)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	request, err := rc.requests.FindByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	out, err := lifecycle.Pick(request, user.ID, user.Name, body.Amount)
	if err != nil {
		return respondError(c, err)
	}

	updated, spawn, err := rc.requests.ApplyTransition(ctx, request, out, nil)
	if err != nil {
		return respondError(c, err)
	}
	utils.EmitNotices(rc.DB, rc.hub, out.Notices, updated, spawn, nil)

	rc.logger.Printf("Request %s picked by %s", updated.ShortID(), user.Email)
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Request picked",
		Data: map[string]interface{}{
			"request": updated,
			"spawned": spawn,
		},
	})
}

// UploadPayment records a payment installment with its proof slip.
func (rc *RequestController) UploadPayment(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request ID",
		})
	}

	amount, err := models.MoneyFromString(c.FormValue("amount"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "A valid amount is required",
		})
	}

	fileHeader, err := c.FormFile("slip")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "A payment slip file is required",
		})
	}
	src, err := fileHeader.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer src.Close()
	fileData, err := io.ReadAll(src)
	if err != nil {
		return respondError(c, err)
	}

	user, err := utils.GetUserFromToken(c, rc.DB)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	request, err := rc.requests.FindByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	out, err := lifecycle.UploadProof(request, user.ID, user.Name, amount)
	if err != nil {
		return respondError(c, err)
	}

	fileURL, err := utils.SaveSlip(fileData, fileHeader.Filename)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	slip := &models.PaymentSlip{
		UploadedByID: user.ID,
		FileURL:      fileURL,
		Amount:       amount,
	}
	updated, spawn, err := rc.requests.ApplyTransition(ctx, request, out, slip)
	if err != nil {
		return respondError(c, err)
	}
	utils.EmitNotices(rc.DB, rc.hub, out.Notices, updated, spawn, nil)

	rc.logger.Printf("Payment of %s uploaded for request %s by %s", amount.Display(), updated.ShortID(), user.Email)
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment slip uploaded",
		Data: map[string]interface{}{
			"request": updated,
			"slip":    slip,
		},
	})
}

// VerifyPayment approves or rejects an uploaded payment.
func (rc *RequestController) VerifyPayment(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request ID",
		})
	}

	var body models.VerifyPaymentRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "The approved field is required",
		})
	}

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	request, err := rc.requests.FindByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	out, err := lifecycle.Verify(request, userID, *body.Approved, body.RejectionReason, rc.pickerName(ctx, request))
	if err != nil {
		return respondError(c, err)
	}

	updated, spawn, err := rc.requests.ApplyTransition(ctx, request, out, nil)
	if err != nil {
		return respondError(c, err)
	}
	utils.EmitNotices(rc.DB, rc.hub, out.Notices, updated, spawn, nil)

	message := "Payment approved"
	if !*body.Approved {
		message = "Payment rejected"
	}
	rc.logger.Printf("%s on request %s", message, updated.ShortID())
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: message,
		Data: map[string]interface{}{
			"request": updated,
			"spawned": spawn,
		},
	})
}

// FailPayment lets the picker report that the payment cannot be made.
func (rc *RequestController) FailPayment(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request ID",
		})
	}

	var body models.FailPaymentRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "A reason is required",
		})
	}

	user, err := utils.GetUserFromToken(c, rc.DB)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	request, err := rc.requests.FindByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	out, err := lifecycle.ReportFailure(request, user.ID, user.Name, body.Reason)
	if err != nil {
		return respondError(c, err)
	}

	updated, spawn, err := rc.requests.ApplyTransition(ctx, request, out, nil)
	if err != nil {
		return respondError(c, err)
	}
	utils.EmitNotices(rc.DB, rc.hub, out.Notices, updated, spawn, nil)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment failure recorded",
		Data:    updated,
	})
}

// RevertRequest reopens a failed request, optionally with fresh destination
// details.
func (rc *RequestController) RevertRequest(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request ID",
		})
	}

	var body models.RevertRequestRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	request, err := rc.requests.FindByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	// The transition clears pickedById, so remember who to notify.
	prevPickerID := request.PickedByID

	out, err := lifecycle.Revert(request, userID, body.BankDetails, body.UPIID, body.Comment)
	if err != nil {
		return respondError(c, err)
	}

	updated, spawn, err := rc.requests.ApplyTransition(ctx, request, out, nil)
	if err != nil {
		return respondError(c, err)
	}
	utils.EmitNotices(rc.DB, rc.hub, out.Notices, updated, spawn, prevPickerID)

	rc.logger.Printf("Request %s reverted to PENDING", updated.ShortID())
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Request reverted",
		Data:    updated,
	})
}

// CancelRequest tombstones an unmatched request.
func (rc *RequestController) CancelRequest(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request ID",
		})
	}

	var body models.CancelRequestRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	user, err := utils.GetUserFromToken(c, rc.DB)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	request, err := rc.requests.FindByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	out, err := lifecycle.Cancel(request, user.ID, user.Name, body.Reason)
	if err != nil {
		return respondError(c, err)
	}

	updated, _, err := rc.requests.ApplyTransition(ctx, request, out, nil)
	if err != nil {
		return respondError(c, err)
	}
	utils.EmitNotices(rc.DB, rc.hub, out.Notices, updated, nil, nil)

	rc.logger.Printf("Request %s cancelled by %s", updated.ShortID(), user.Email)
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Request cancelled",
	})
}

// GetLogs returns a request's audit trail to a participant or the admin.
func (rc *RequestController) GetLogs(c echo.Context) error {
	request, _, err := rc.loadForViewer(c)
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	logs, err := rc.requests.ListLogs(ctx, request.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logs retrieved",
		Data:    logs,
	})
}

// GetSlips returns a request's slip summaries without the file payloads.
func (rc *RequestController) GetSlips(c echo.Context) error {
	request, _, err := rc.loadForViewer(c)
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	slips, err := rc.requests.ListSlips(ctx, request.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Slips retrieved",
		Data:    slips,
	})
}

// DownloadSlip streams one slip file to a participant or the admin.
func (rc *RequestController) DownloadSlip(c echo.Context) error {
	slipID, err := primitive.ObjectIDFromHex(c.Param("slipId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid slip ID",
		})
	}

	user, err := utils.GetUserFromToken(c, rc.DB)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	slip, err := rc.requests.FindSlip(ctx, slipID)
	if err != nil {
		return respondError(c, err)
	}
	request, err := rc.requests.FindByID(ctx, slip.RequestID)
	if err != nil {
		return respondError(c, err)
	}
	if !canView(user, request) {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You are not a participant of this request",
		})
	}

	path, err := utils.SlipPath(slip.FileURL)
	if err != nil {
		return respondError(c, err)
	}
	return c.File(path)
}

// loadForViewer resolves the :id request and enforces participant-or-admin
// visibility.
func (rc *RequestController) loadForViewer(c echo.Context) (*models.Request, *models.User, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return nil, nil, lifecycle.ErrValidation
	}

	user, err := utils.GetUserFromToken(c, rc.DB)
	if err != nil {
		return nil, nil, lifecycle.ErrForbidden
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	request, err := rc.requests.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !canView(user, request) {
		return nil, nil, lifecycle.ErrForbidden
	}
	return request, user, nil
}

func canView(user *models.User, request *models.Request) bool {
	if user.Role == models.RoleSuperAdmin {
		return true
	}
	if request.CreatedByID == user.ID {
		return true
	}
	return request.PickedByID != nil && *request.PickedByID == user.ID
}

// pickerName resolves the picker's display name for log and notification
// text; an unresolvable picker degrades to a generic word, never an error.
func (rc *RequestController) pickerName(ctx context.Context, request *models.Request) string {
	if request.PickedByID == nil {
		return ""
	}
	picker, err := rc.users.FindByID(ctx, *request.PickedByID)
	if err != nil {
		return ""
	}
	return picker.Name
}

// globalWithdrawalLimit reads the admin's configured cap, nil when unset.
func (rc *RequestController) globalWithdrawalLimit(ctx context.Context) *models.Money {
	admin, err := rc.users.FindAdmin(ctx)
	if err != nil {
		return nil
	}
	return admin.MaxWithdrawalLimit
}
