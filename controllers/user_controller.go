// controllers/user_controller.go
package controllers

import (
	"context"
	"encoding/base64"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/cashtrack/cashtrack_backend/models"
	"github.com/cashtrack/cashtrack_backend/repositories"
	"github.com/cashtrack/cashtrack_backend/utils"
)

// UserController handles vendor provisioning and profile management.
type UserController struct {
	DB     *mongo.Client
	users  *repositories.UserRepository
	logger *log.Logger
}

// NewUserController creates a new user controller
func NewUserController(db *mongo.Client) *UserController {
	return &UserController{
		DB:     db,
		users:  repositories.NewUserRepository(db),
		logger: log.New(os.Stdout, "[USER] ", log.LstdFlags),
	}
}

// CreateVendor provisions a vendor account. The initial password is kept
// readable for the admin until the vendor rotates it, and is also emailed.
func (uc *UserController) CreateVendor(c echo.Context) error {
	var req models.CreateVendorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email, name and a password of at least 8 characters are required",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return respondError(c, err)
	}

	user := &models.User{
		Email:                 email,
		Password:              string(hashed),
		TempPassword:          req.Password,
		Name:                  utils.SanitizeInput(req.Name),
		Role:                  models.RoleVendor,
		BankDetails:           req.BankDetails,
		UPIID:                 req.UPIID,
		WithdrawalLimitConfig: models.LimitConfigGlobal,
	}

	if req.UPIID != "" {
		if qrURL, err := uc.generateQR(req.UPIID, user.Name); err == nil {
			user.QRCode = qrURL
		} else {
			uc.logger.Printf("QR generation failed for %s: %v", email, err)
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := uc.users.Create(ctx, user); err != nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "A user with this email already exists",
		})
	}

	if err := utils.SendTempPasswordEmail(email, user.Name, req.Password); err != nil {
		uc.logger.Printf("Could not email credentials to %s: %v", email, err)
	}

	uc.logger.Printf("Vendor %s created", email)
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Vendor created",
		Data:    user.PublicProfile(),
	})
}

// ListVendors returns the vendor roster for the admin console.
func (uc *UserController) ListVendors(c echo.Context) error {
	p := utils.NewPagination(c.QueryParam("page"), c.QueryParam("limit"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	vendors, total, err := uc.users.ListVendors(ctx, p)
	if err != nil {
		return respondError(c, err)
	}

	// The admin sees the temp password until the vendor changes it.
	list := make([]map[string]interface{}, 0, len(vendors))
	for i := range vendors {
		profile := vendors[i].PublicProfile()
		profile["withdrawalLimitConfig"] = vendors[i].WithdrawalLimitConfig
		profile["maxWithdrawalLimit"] = vendors[i].MaxWithdrawalLimit
		if vendors[i].TempPassword != "" {
			profile["tempPassword"] = vendors[i].TempPassword
		}
		list = append(list, profile)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Vendors retrieved",
		Data: map[string]interface{}{
			"vendors":    list,
			"pagination": p.Meta(total),
		},
	})
}

// GetVendor returns one vendor's profile for the admin console.
func (uc *UserController) GetVendor(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid vendor ID",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	user, err := uc.users.FindByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	profile := user.PublicProfile()
	profile["withdrawalLimitConfig"] = user.WithdrawalLimitConfig
	profile["maxWithdrawalLimit"] = user.MaxWithdrawalLimit
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Vendor retrieved",
		Data:    profile,
	})
}

// UpdateVendor updates a vendor's profile and withdrawal limit
// configuration.
func (uc *UserController) UpdateVendor(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid vendor ID",
		})
	}

	var req models.UpdateVendorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "withdrawalLimitConfig must be GLOBAL, CUSTOM or UNLIMITED",
		})
	}

	fields := bson.M{}
	if req.Name != "" {
		fields["name"] = utils.SanitizeInput(req.Name)
	}
	if req.BankDetails != nil {
		fields["bankDetails"] = req.BankDetails
	}
	if req.UPIID != nil {
		fields["upiId"] = *req.UPIID
		if qrURL, err := uc.generateQR(*req.UPIID, req.Name); err == nil {
			fields["qrCode"] = qrURL
		}
	}
	if req.WithdrawalLimitConfig != "" {
		fields["withdrawalLimitConfig"] = req.WithdrawalLimitConfig
	}
	if req.MaxWithdrawalLimit != nil {
		fields["maxWithdrawalLimit"] = *req.MaxWithdrawalLimit
	}
	if len(fields) == 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Nothing to update",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := uc.users.UpdateFields(ctx, id, fields); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Vendor updated",
	})
}

// AdminResetPassword sets a new credential for a vendor who lost theirs.
func (uc *UserController) AdminResetPassword(c echo.Context) error {
	var req models.AdminResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "User ID and a new password of at least 8 characters are required",
		})
	}

	id, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	// Reset through the admin keeps the credential visible until the vendor
	// rotates it, same as initial provisioning.
	if err := uc.users.SetTempPassword(ctx, id, string(hashed), req.NewPassword); err != nil {
		return respondError(c, err)
	}

	uc.logger.Printf("Admin reset password for user %s", req.UserID)
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Password reset",
	})
}

// UpdateBankDetails updates the signed-in user's payment destination. The
// admin's maxWithdrawalLimit doubles as the global withdrawal cap.
func (uc *UserController) UpdateBankDetails(c echo.Context) error {
	var req models.UpdateBankDetailsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	user, err := utils.GetUserFromToken(c, uc.DB)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}

	fields := bson.M{}
	if req.BankDetails != nil {
		fields["bankDetails"] = req.BankDetails
	}
	if req.UPIID != nil {
		fields["upiId"] = *req.UPIID
		if qrURL, err := uc.generateQR(*req.UPIID, user.Name); err == nil {
			fields["qrCode"] = qrURL
		} else {
			uc.logger.Printf("QR generation failed for %s: %v", user.Email, err)
		}
	}
	if req.MaxWithdrawalLimit != nil && user.Role == models.RoleSuperAdmin {
		fields["maxWithdrawalLimit"] = *req.MaxWithdrawalLimit
	}
	if len(fields) == 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Nothing to update",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := uc.users.UpdateFields(ctx, user.ID, fields); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Details updated",
	})
}

// GetQRCode returns the signed-in user's UPI QR as base64 for inline
// rendering, generating it on the fly when none is stored.
func (uc *UserController) GetQRCode(c echo.Context) error {
	user, err := utils.GetUserFromToken(c, uc.DB)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}
	if user.UPIID == "" {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "No UPI ID configured",
		})
	}

	png, err := utils.GenerateUPIQR(user.UPIID, user.Name)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "QR code generated",
		Data: map[string]string{
			"upiId": user.UPIID,
			"png":   "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		},
	})
}

func (uc *UserController) generateQR(upiID, name string) (string, error) {
	png, err := utils.GenerateUPIQR(upiID, name)
	if err != nil {
		return "", err
	}
	return utils.SaveQRCode(png, "user")
}
