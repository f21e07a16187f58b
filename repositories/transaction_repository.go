package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cashtrack/cashtrack_backend/config"
	"github.com/cashtrack/cashtrack_backend/models"
	"github.com/cashtrack/cashtrack_backend/utils"
)

// TransactionRepository reads the immutable settlement ledger. Writes happen
// only inside RequestRepository.ApplyTransition so a posting can never exist
// without its completing request transition.
type TransactionRepository struct {
	collection *mongo.Collection
}

func NewTransactionRepository(db *mongo.Client) *TransactionRepository {
	return &TransactionRepository{
		collection: config.GetCollection(db, "transactions"),
	}
}

// ListByVendor returns a vendor's postings, newest first.
func (r *TransactionRepository) ListByVendor(ctx context.Context, vendorID primitive.ObjectID, p utils.Pagination) ([]models.Transaction, int64, error) {
	return r.list(ctx, bson.M{"vendorId": vendorID}, p)
}

// TransactionFilter narrows the admin ledger listing.
type TransactionFilter struct {
	VendorID *primitive.ObjectID
	Type     string
	From     *time.Time
	To       *time.Time
}

func (f TransactionFilter) query() bson.M {
	filter := bson.M{}
	if f.VendorID != nil {
		filter["vendorId"] = *f.VendorID
	}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	window := bson.M{}
	if f.From != nil {
		window["$gte"] = *f.From
	}
	if f.To != nil {
		window["$lte"] = *f.To
	}
	if len(window) > 0 {
		filter["createdAt"] = window
	}
	return filter
}

// ListAll is the admin view over the whole ledger.
func (r *TransactionRepository) ListAll(ctx context.Context, f TransactionFilter, p utils.Pagination) ([]models.Transaction, int64, error) {
	return r.list(ctx, f.query(), p)
}

func (r *TransactionRepository) list(ctx context.Context, filter bson.M, p utils.Pagination) ([]models.Transaction, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(p.Skip()).
		SetLimit(p.PageSize())
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var transactions []models.Transaction
	if err := cursor.All(ctx, &transactions); err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}

// Totals is an aggregated volume split by posting type.
type Totals struct {
	DepositTotal    models.Money `json:"depositTotal"`
	DepositCount    int64        `json:"depositCount"`
	WithdrawalTotal models.Money `json:"withdrawalTotal"`
	WithdrawalCount int64        `json:"withdrawalCount"`
}

type typeBucket struct {
	Type  string       `bson:"_id"`
	Total models.Money `bson:"total"`
	Count int64        `bson:"count"`
}

// VendorTotals sums a vendor's settled volume per type. The sums run on the
// stored Decimal128 values, so they stay exact.
func (r *TransactionRepository) VendorTotals(ctx context.Context, vendorID primitive.ObjectID) (*Totals, error) {
	return r.totals(ctx, bson.M{"vendorId": vendorID})
}

// GlobalTotals sums the whole ledger per type for the admin dashboard.
func (r *TransactionRepository) GlobalTotals(ctx context.Context) (*Totals, error) {
	return r.totals(ctx, bson.M{})
}

func (r *TransactionRepository) totals(ctx context.Context, match bson.M) (*Totals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$type",
			"total": bson.M{"$sum": "$amount"},
			"count": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var buckets []typeBucket
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, err
	}

	totals := &Totals{
		DepositTotal:    models.ZeroMoney(),
		WithdrawalTotal: models.ZeroMoney(),
	}
	for _, b := range buckets {
		switch b.Type {
		case models.TransactionTypeDeposit:
			totals.DepositTotal = b.Total
			totals.DepositCount = b.Count
		case models.TransactionTypeWithdrawal:
			totals.WithdrawalTotal = b.Total
			totals.WithdrawalCount = b.Count
		}
	}
	return totals, nil
}

// VolumeBucket is one period's settled volume. Period is "2006-01-02" for
// day buckets and "2006-01" for month buckets.
type VolumeBucket struct {
	Period string       `bson:"_id" json:"period"`
	Total  models.Money `bson:"total" json:"total"`
	Count  int64        `bson:"count" json:"count"`
}

// VolumeSeries buckets settled volume over the trailing window, oldest
// first. Windows up to 35 days bucket per day, longer ones per month.
// A nil vendorID covers the whole ledger.
func (r *TransactionRepository) VolumeSeries(ctx context.Context, vendorID *primitive.ObjectID, days int) ([]VolumeBucket, error) {
	match := bson.M{"createdAt": bson.M{"$gte": time.Now().AddDate(0, 0, -days)}}
	if vendorID != nil {
		match["vendorId"] = *vendorID
	}
	format := "%Y-%m-%d"
	if days > 35 {
		format = "%Y-%m"
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": format,
				"date":   "$createdAt",
			}},
			"total": bson.M{"$sum": "$amount"},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var buckets []VolumeBucket
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}

// VendorRollup is one vendor's aggregate line on the admin dashboard.
type VendorRollup struct {
	VendorID primitive.ObjectID `bson:"_id" json:"vendorId"`
	Total    models.Money       `bson:"total" json:"total"`
	Count    int64              `bson:"count" json:"count"`
}

// TopVendors ranks vendors by settled volume.
func (r *TransactionRepository) TopVendors(ctx context.Context, limit int) ([]VendorRollup, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$vendorId",
			"total": bson.M{"$sum": "$amount"},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"total": -1}}},
		{{Key: "$limit", Value: limit}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rollups []VendorRollup
	if err := cursor.All(ctx, &rollups); err != nil {
		return nil, err
	}
	return rollups, nil
}

// Export streams every posting in the window, oldest first, for the CSV
// download. No pagination on purpose.
func (r *TransactionRepository) Export(ctx context.Context, f TransactionFilter) ([]models.Transaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, f.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var transactions []models.Transaction
	if err := cursor.All(ctx, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// EnsureIndexes creates the ledger lookup indexes.
func (r *TransactionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "vendorId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "requestId", Value: 1}}},
	})
	return err
}
