// controllers/dashboard_controller.go
package controllers

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cashtrack/cashtrack_backend/models"
	"github.com/cashtrack/cashtrack_backend/repositories"
	"github.com/cashtrack/cashtrack_backend/utils"
)

// DashboardController serves the settled-ledger views and exports.
type DashboardController struct {
	DB           *mongo.Client
	transactions *repositories.TransactionRepository
	users        *repositories.UserRepository
}

// NewDashboardController creates a new dashboard controller
func NewDashboardController(db *mongo.Client) *DashboardController {
	return &DashboardController{
		DB:           db,
		transactions: repositories.NewTransactionRepository(db),
		users:        repositories.NewUserRepository(db),
	}
}

// MyTransactions returns the signed-in vendor's postings.
func (dc *DashboardController) MyTransactions(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}
	p := utils.NewPagination(c.QueryParam("page"), c.QueryParam("limit"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	transactions, total, err := dc.transactions.ListByVendor(ctx, userID, p)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Transactions retrieved",
		Data: map[string]interface{}{
			"transactions": transactions,
			"pagination":   p.Meta(total),
		},
	})
}

// MyDashboard returns the vendor's settled volume summary.
func (dc *DashboardController) MyDashboard(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	totals, err := dc.transactions.VendorTotals(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Dashboard retrieved",
		Data:    totals,
	})
}

// MyVolume returns the vendor's settled-volume series over the trailing
// window. Day buckets for short windows, month buckets past 35 days.
func (dc *DashboardController) MyVolume(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}
	days := statsWindow(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	buckets, err := dc.transactions.VolumeSeries(ctx, &userID, days)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Volume retrieved",
		Data: map[string]interface{}{
			"days":    days,
			"buckets": buckets,
		},
	})
}

// AdminDashboard aggregates the whole ledger: global totals, the volume
// curve and the most active vendors.
func (dc *DashboardController) AdminDashboard(c echo.Context) error {
	days := statsWindow(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	totals, err := dc.transactions.GlobalTotals(ctx)
	if err != nil {
		return respondError(c, err)
	}
	volume, err := dc.transactions.VolumeSeries(ctx, nil, days)
	if err != nil {
		return respondError(c, err)
	}
	top, err := dc.transactions.TopVendors(ctx, 10)
	if err != nil {
		return respondError(c, err)
	}

	// Decorate the rollups with vendor names for the console.
	type vendorLine struct {
		repositories.VendorRollup
		Name string `json:"name"`
	}
	lines := make([]vendorLine, 0, len(top))
	for _, rollup := range top {
		line := vendorLine{VendorRollup: rollup}
		if vendor, err := dc.users.FindByID(ctx, rollup.VendorID); err == nil {
			line.Name = vendor.Name
		}
		lines = append(lines, line)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Dashboard retrieved",
		Data: map[string]interface{}{
			"totals":     totals,
			"volume":     volume,
			"topVendors": lines,
		},
	})
}

// statsWindow clamps the days query param to at most a year.
func statsWindow(c echo.Context) int {
	days := 30
	if v := c.QueryParam("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 365 {
			days = n
		}
	}
	return days
}

// AdminListTransactions is the filtered ledger view for the admin.
func (dc *DashboardController) AdminListTransactions(c echo.Context) error {
	filter, err := transactionFilterFromQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}
	p := utils.NewPagination(c.QueryParam("page"), c.QueryParam("limit"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	transactions, total, err := dc.transactions.ListAll(ctx, filter, p)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Transactions retrieved",
		Data: map[string]interface{}{
			"transactions": transactions,
			"pagination":   p.Meta(total),
		},
	})
}

// ExportTransactions streams the filtered ledger as CSV.
func (dc *DashboardController) ExportTransactions(c echo.Context) error {
	filter, err := transactionFilterFromQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	transactions, err := dc.transactions.Export(ctx, filter)
	if err != nil {
		return respondError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="transactions-%s.csv"`, time.Now().Format("2006-01-02")))
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write([]string{"id", "requestId", "vendorId", "type", "amount", "status", "createdAt"}); err != nil {
		return err
	}
	for _, t := range transactions {
		record := []string{
			t.ID.Hex(),
			t.RequestID.Hex(),
			t.VendorID.Hex(),
			t.Type,
			t.Amount.String(),
			t.Status,
			t.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func transactionFilterFromQuery(c echo.Context) (repositories.TransactionFilter, error) {
	filter := repositories.TransactionFilter{Type: c.QueryParam("type")}
	if v := c.QueryParam("vendorId"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return filter, fmt.Errorf("invalid vendor ID")
		}
		filter.VendorID = &id
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, fmt.Errorf("from must be YYYY-MM-DD")
		}
		filter.From = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, fmt.Errorf("to must be YYYY-MM-DD")
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}
	return filter, nil
}
