package settings

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/funnelchart/pkg/errors"
)

// Mongo defaults.
const (
	DefaultDatabase   = "funnelchart"
	DefaultCollection = "document_settings"
)

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
	// Timeout bounds server selection. Zero uses 5 seconds.
	Timeout time.Duration
}

// MongoStore keeps each document's settings in one MongoDB document:
//
//	{_id: "<doc>", settings: {animation_speed: 1.5}, updated_at: ISODate(...)}
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type settingsDocument struct {
	ID        string             `bson:"_id"`
	Settings  map[string]float64 `bson:"settings"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// NewMongoStore connects to MongoDB and pings the server.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(cfg.Timeout).
		SetConnectTimeout(cfg.Timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid mongo uri")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to settings database")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Get reads one setting.
func (s *MongoStore) Get(ctx context.Context, doc, name string) (float64, bool, error) {
	if err := validateKey(doc, name); err != nil {
		return 0, false, err
	}
	values, err := s.All(ctx, doc)
	if err != nil {
		return 0, false, err
	}
	v, ok := values[name]
	return v, ok, nil
}

// Set upserts one setting.
func (s *MongoStore) Set(ctx context.Context, doc, name string, value float64) error {
	if err := validateKey(doc, name); err != nil {
		return err
	}
	if err := validateValue(name, value); err != nil {
		return err
	}
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": doc}, setUpdate(name, value, time.Now()),
		options.Update().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "save setting %s for %s", name, doc)
	}
	return nil
}

// All reads every setting of doc. A missing document has no settings.
func (s *MongoStore) All(ctx context.Context, doc string) (map[string]float64, error) {
	if err := errors.ValidateDocumentID(doc); err != nil {
		return nil, err
	}
	var d settingsDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": doc}).Decode(&d)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return map[string]float64{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "load settings for %s", doc)
	}
	if d.Settings == nil {
		d.Settings = map[string]float64{}
	}
	return d.Settings, nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// setUpdate builds the upsert for one setting; other settings of the
// document are left untouched.
func setUpdate(name string, value float64, now time.Time) bson.M {
	return bson.M{
		"$set": bson.M{
			"settings." + name: value,
			"updated_at":       now,
		},
	}
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
