package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cashtrack/cashtrack_backend/config"
	"github.com/cashtrack/cashtrack_backend/lifecycle"
	"github.com/cashtrack/cashtrack_backend/models"
	"github.com/cashtrack/cashtrack_backend/utils"
)

// RequestRepository persists requests together with their audit logs, slips
// and settlement postings. Every state transition is applied in a single
// multi-document transaction, guarded by a conditional update on the status
// the transition was computed from, so two racers on the same request cannot
// both commit.
type RequestRepository struct {
	client       *mongo.Client
	requests     *mongo.Collection
	logs         *mongo.Collection
	slips        *mongo.Collection
	transactions *mongo.Collection
}

func NewRequestRepository(db *mongo.Client) *RequestRepository {
	database := db.Database(config.DatabaseName())
	return &RequestRepository{
		client:       db,
		requests:     database.Collection("requests"),
		logs:         database.Collection("request_logs"),
		slips:        database.Collection("payment_slips"),
		transactions: database.Collection("transactions"),
	}
}

// notDeleted excludes cancellation tombstones.
var notDeleted = bson.M{"$exists": false}

func (r *RequestRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Request, error) {
	var req models.Request
	err := r.requests.FindOne(ctx, bson.M{"_id": id, "deletedAt": notDeleted}).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: request not found", lifecycle.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Insert stores a freshly created request and its CREATED audit entry in one
// transaction.
func (r *RequestRepository) Insert(ctx context.Context, req *models.Request, entry lifecycle.LogEntry) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		now := time.Now()
		req.CreatedAt = now
		req.UpdatedAt = now
		result, err := r.requests.InsertOne(sc, req)
		if err != nil {
			return nil, err
		}
		req.ID = result.InsertedID.(primitive.ObjectID)
		return nil, r.insertLog(sc, req.ID, entry)
	})
	return err
}

// ApplyTransition commits a lifecycle outcome atomically: the conditional
// status update, the spawned remainder (if any), the audit entries, an
// optional payment slip and the settlement transaction pair. A losing racer
// whose snapshot status no longer holds gets lifecycle.ErrConflict and
// nothing is written.
//
// The returned requests are the post-commit original and spawn (nil when the
// outcome spawned nothing); callers use them to resolve notification targets.
func (r *RequestRepository) ApplyTransition(ctx context.Context, req *models.Request, out lifecycle.Outcome, slip *models.PaymentSlip) (*models.Request, *models.Request, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return nil, nil, err
	}
	defer session.EndSession(ctx)

	var updated *models.Request
	var spawn *models.Request

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var err error
		updated, err = r.applyUpdate(sc, req.ID, out.Update)
		if err != nil {
			return nil, err
		}

		spawn = out.Spawn
		if spawn != nil {
			now := time.Now()
			spawn.CreatedAt = now
			spawn.UpdatedAt = now
			result, err := r.requests.InsertOne(sc, spawn)
			if err != nil {
				return nil, err
			}
			spawn.ID = result.InsertedID.(primitive.ObjectID)
		}

		for _, entry := range out.Logs {
			target := req.ID
			if entry.OnSpawn {
				if spawn == nil {
					return nil, fmt.Errorf("log entry targets a spawn but none was produced")
				}
				target = spawn.ID
			}
			if err := r.insertLog(sc, target, entry); err != nil {
				return nil, err
			}
		}

		if slip != nil {
			slip.RequestID = req.ID
			slip.CreatedAt = time.Now()
			result, err := r.slips.InsertOne(sc, slip)
			if err != nil {
				return nil, err
			}
			slip.ID = result.InsertedID.(primitive.ObjectID)
		}

		if out.Settlement != nil {
			if err := r.postSettlement(sc, updated, out.Settlement.Amount); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, spawn, nil
}

// applyUpdate performs the guarded status write. The filter includes the
// status the outcome was computed from; no match means a concurrent
// transition won and the caller must retry from a fresh snapshot.
func (r *RequestRepository) applyUpdate(sc mongo.SessionContext, id primitive.ObjectID, u lifecycle.Update) (*models.Request, error) {
	set := bson.M{"updatedAt": time.Now()}
	unset := bson.M{}

	if u.Status != "" {
		set["status"] = u.Status
	}
	if u.Amount != nil {
		set["amount"] = *u.Amount
	}
	if u.PaidAmount != nil {
		set["paidAmount"] = *u.PaidAmount
	}
	if u.PendingAmount != nil {
		set["pendingAmount"] = *u.PendingAmount
	}
	if u.PickedByID != nil {
		set["pickedById"] = *u.PickedByID
	}
	if u.ClearPickedBy {
		unset["pickedById"] = ""
	}
	if u.RejectionReason != nil {
		set["rejectionReason"] = *u.RejectionReason
	}
	if u.PaymentFailureReason != nil {
		set["paymentFailureReason"] = *u.PaymentFailureReason
	}
	if u.ClearPaymentFailureReason {
		unset["paymentFailureReason"] = ""
	}
	if u.CancellationReason != nil {
		set["cancellationReason"] = *u.CancellationReason
	}
	if u.BankDetails != nil {
		set["bankDetails"] = u.BankDetails
	}
	if u.UPIID != nil {
		set["upiId"] = *u.UPIID
	}
	if u.SoftDelete {
		set["deletedAt"] = time.Now()
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	filter := bson.M{"_id": id, "status": u.FromStatus, "deletedAt": notDeleted}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Request
	err := r.requests.FindOneAndUpdate(sc, filter, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: request was modified concurrently", lifecycle.ErrConflict)
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *RequestRepository) insertLog(sc mongo.SessionContext, requestID primitive.ObjectID, entry lifecycle.LogEntry) error {
	_, err := r.logs.InsertOne(sc, models.RequestLog{
		RequestID: requestID,
		UserID:    entry.UserID,
		Action:    entry.Action,
		Comment:   entry.Comment,
		Metadata:  entry.Metadata,
		CreatedAt: time.Now(),
	})
	return err
}

// postSettlement writes the mirrored transaction pair: the creator's side
// keeps the request type, the picker's side gets the inverse. A withdrawal
// for one vendor is a deposit for the other.
func (r *RequestRepository) postSettlement(sc mongo.SessionContext, req *models.Request, amount models.Money) error {
	if req.PickedByID == nil {
		return fmt.Errorf("settlement without a picker on request %s", req.ID.Hex())
	}
	now := time.Now()
	pair := []interface{}{
		models.Transaction{
			RequestID: req.ID,
			VendorID:  req.CreatedByID,
			Type:      req.Type,
			Amount:    amount,
			Status:    models.TransactionStatusCompleted,
			CreatedAt: now,
		},
		models.Transaction{
			RequestID: req.ID,
			VendorID:  *req.PickedByID,
			Type:      models.InvertRequestType(req.Type),
			Amount:    amount,
			Status:    models.TransactionStatusCompleted,
			CreatedAt: now,
		},
	}
	_, err := r.transactions.InsertMany(sc, pair)
	return err
}

// AvailableFilter narrows the open-request listing.
type AvailableFilter struct {
	// Type filters by the VIEWER-facing type: asking for DEPOSIT surfaces
	// other vendors' WITHDRAWAL requests, since paying one is a deposit from
	// the picker's side.
	Type      string
	MinAmount *models.Money
	MaxAmount *models.Money
}

// ListAvailable returns PENDING requests created by other vendors, newest
// first.
func (r *RequestRepository) ListAvailable(ctx context.Context, viewerID primitive.ObjectID, f AvailableFilter, p utils.Pagination) ([]models.Request, int64, error) {
	filter := bson.M{
		"status":      models.StatusPending,
		"createdById": bson.M{"$ne": viewerID},
		"deletedAt":   notDeleted,
	}
	if f.Type != "" {
		filter["type"] = models.InvertRequestType(f.Type)
	}
	amount := bson.M{}
	if f.MinAmount != nil {
		amount["$gte"] = *f.MinAmount
	}
	if f.MaxAmount != nil {
		amount["$lte"] = *f.MaxAmount
	}
	if len(amount) > 0 {
		filter["amount"] = amount
	}
	return r.list(ctx, filter, p)
}

// ListMine returns the viewer's own side of the ledger: requests they
// created and requests they picked, each with its own pagination.
func (r *RequestRepository) ListMine(ctx context.Context, userID primitive.ObjectID, created, picked utils.Pagination) ([]models.Request, int64, []models.Request, int64, error) {
	createdReqs, createdTotal, err := r.list(ctx, bson.M{
		"createdById": userID,
		"deletedAt":   notDeleted,
	}, created)
	if err != nil {
		return nil, 0, nil, 0, err
	}
	pickedReqs, pickedTotal, err := r.list(ctx, bson.M{
		"pickedById": userID,
		"deletedAt":  notDeleted,
	}, picked)
	if err != nil {
		return nil, 0, nil, 0, err
	}
	return createdReqs, createdTotal, pickedReqs, pickedTotal, nil
}

// CountMine returns the viewer's created and picked request counts without
// loading documents. Serves the tab badges on the my-requests view.
func (r *RequestRepository) CountMine(ctx context.Context, userID primitive.ObjectID) (int64, int64, error) {
	created, err := r.requests.CountDocuments(ctx, bson.M{
		"createdById": userID,
		"deletedAt":   notDeleted,
	})
	if err != nil {
		return 0, 0, err
	}
	picked, err := r.requests.CountDocuments(ctx, bson.M{
		"pickedById": userID,
		"deletedAt":  notDeleted,
	})
	if err != nil {
		return 0, 0, err
	}
	return created, picked, nil
}

// AdminFilter narrows the all-requests listing.
type AdminFilter struct {
	Type     string
	Status   string
	VendorID *primitive.ObjectID
}

// ListAll is the admin view over every request, tombstoned ones included.
func (r *RequestRepository) ListAll(ctx context.Context, f AdminFilter, p utils.Pagination) ([]models.Request, int64, error) {
	filter := bson.M{}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.VendorID != nil {
		filter["$or"] = []bson.M{
			{"createdById": *f.VendorID},
			{"pickedById": *f.VendorID},
		}
	}
	return r.list(ctx, filter, p)
}

func (r *RequestRepository) list(ctx context.Context, filter bson.M, p utils.Pagination) ([]models.Request, int64, error) {
	total, err := r.requests.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(p.Skip()).
		SetLimit(p.PageSize())
	cursor, err := r.requests.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var requests []models.Request
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// ListLogs returns a request's audit trail, oldest first.
// ListLogs returns a request's audit trail, newest first.
func (r *RequestRepository) ListLogs(ctx context.Context, requestID primitive.ObjectID) ([]models.RequestLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.logs.Find(ctx, bson.M{"requestId": requestID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []models.RequestLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// ListSlips returns a request's slip summaries, newest first, without the
// file payload references.
func (r *RequestRepository) ListSlips(ctx context.Context, requestID primitive.ObjectID) ([]models.SlipSummary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{"fileUrl": 0})
	cursor, err := r.slips.Find(ctx, bson.M{"requestId": requestID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var slips []models.SlipSummary
	if err := cursor.All(ctx, &slips); err != nil {
		return nil, err
	}
	return slips, nil
}

// FindSlip returns one slip with its file reference.
func (r *RequestRepository) FindSlip(ctx context.Context, slipID primitive.ObjectID) (*models.PaymentSlip, error) {
	var slip models.PaymentSlip
	err := r.slips.FindOne(ctx, bson.M{"_id": slipID}).Decode(&slip)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: payment slip not found", lifecycle.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &slip, nil
}

// EnsureIndexes creates the listing and lookup indexes.
func (r *RequestRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.requests.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdById", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "pickedById", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return err
	}
	_, err = r.logs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "requestId", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return err
	}
	_, err = r.slips.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "requestId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}
