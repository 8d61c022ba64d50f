package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hiringgo/account-service/internal/core/domain"
	"github.com/hiringgo/account-service/internal/core/ports"
)

const (
	collectionAccounts = "accounts"
	collectionCounters = "counters"
	accountSequence    = "accounts"
)

// Unique index names; a duplicate-key error names the index it hit.
const (
	indexEmail         = "email_unique"
	indexStaffNumber   = "staff_number_unique"
	indexStudentNumber = "student_number_unique"
)

// AccountRepository implements ports.AccountRepository using MongoDB.
// Ids come from an atomically incremented counter document.
type AccountRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{
		col:      db.Collection(collectionAccounts),
		counters: db.Collection(collectionCounters),
	}
}

type accountDocument struct {
	ID            int64     `bson:"_id"`
	FullName      string    `bson:"full_name"`
	Email         string    `bson:"email"`
	PasswordHash  string    `bson:"password_hash"`
	Role          string    `bson:"role"`
	StudentNumber *string   `bson:"student_number,omitempty"`
	StaffNumber   *string   `bson:"staff_number,omitempty"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

func toDocument(a *domain.Account) accountDocument {
	return accountDocument{
		ID:            a.ID,
		FullName:      a.FullName,
		Email:         a.Email,
		PasswordHash:  a.PasswordHash,
		Role:          string(a.Role),
		StudentNumber: a.StudentNumber,
		StaffNumber:   a.StaffNumber,
		CreatedAt:     a.CreatedAt.UTC(),
		UpdatedAt:     a.UpdatedAt.UTC(),
	}
}

func (d accountDocument) toDomain() *domain.Account {
	return &domain.Account{
		ID:            d.ID,
		FullName:      d.FullName,
		Email:         d.Email,
		PasswordHash:  d.PasswordHash,
		Role:          domain.Role(d.Role),
		StudentNumber: d.StudentNumber,
		StaffNumber:   d.StaffNumber,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}

// Save inserts a new account (ID == 0) or replaces an existing one.
func (r *AccountRepository) Save(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if a.ID == 0 {
		id, err := r.nextID(ctx)
		if err != nil {
			return nil, err
		}
		doc := toDocument(a)
		doc.ID = id
		if _, err := r.col.InsertOne(ctx, doc); err != nil {
			return nil, translateWriteError("insert account", err)
		}
		return doc.toDomain(), nil
	}

	doc := toDocument(a)
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": a.ID}, doc)
	if err != nil {
		return nil, translateWriteError("replace account", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrAccountNotFound
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindAll returns every account ordered by id.
func (r *AccountRepository) FindAll(ctx context.Context) ([]*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find accounts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []accountDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}

	out := make([]*domain.Account, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *AccountRepository) DeleteByID(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.M{"email": email})
}

func (r *AccountRepository) ExistsByStaffNumber(ctx context.Context, staffNumber string) (bool, error) {
	return r.exists(ctx, bson.M{"staff_number": staffNumber})
}

func (r *AccountRepository) ExistsByStudentNumber(ctx context.Context, studentNumber string) (bool, error) {
	return r.exists(ctx, bson.M{"student_number": studentNumber})
}

// EnsureIndexes creates the unique indexes that back the uniqueness rules.
// Number indexes only cover documents where the number is present.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	present := func(field string) bson.M {
		return bson.M{field: bson.M{"$type": "string"}}
	}

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(indexEmail).SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "staff_number", Value: 1}},
			Options: options.Index().SetName(indexStaffNumber).SetUnique(true).
				SetPartialFilterExpression(present("staff_number")),
		},
		{
			Keys: bson.D{{Key: "student_number", Value: 1}},
			Options: options.Index().SetName(indexStudentNumber).SetUnique(true).
				SetPartialFilterExpression(present("student_number")),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc accountDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count accounts: %w", err)
	}
	return n > 0, nil
}

func (r *AccountRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": accountSequence},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocate account id: %w", err)
	}
	return counter.Seq, nil
}

// translateWriteError maps a unique index violation to a domain conflict.
func translateWriteError(op string, err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return conflictFor(err.Error())
}

func conflictFor(msg string) error {
	switch {
	case strings.Contains(msg, indexStaffNumber):
		return domain.Conflict("staff number already registered")
	case strings.Contains(msg, indexStudentNumber):
		return domain.Conflict("student number already registered")
	case strings.Contains(msg, indexEmail):
		return domain.Conflict("email already registered")
	default:
		return domain.Conflict("account already registered")
	}
}

var _ ports.AccountRepository = (*AccountRepository)(nil)
