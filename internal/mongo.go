package internal

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"payrelay/config"
	"payrelay/entity"
	"payrelay/services"
)

const (
	collectionLog           = "payment_log"
	collectionRequests      = "payment_requests"
	collectionNotifications = "payment_notifications"
)

// MongoDB is the optional audit sink: log records, initiation snapshots and
// raw gateway notifications. Connections are opened per call, matching the
// low request volume of a single-merchant relay.
type MongoDB struct {
	ctx           context.Context
	clientOptions *options.ClientOptions
	database      string
}

func NewMongoClient(conf *config.Config) (*MongoDB, error) {
	if !conf.Mongo.Enabled {
		return nil, nil
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	client := &MongoDB{
		ctx:           context.Background(),
		clientOptions: clientOptions,
		database:      conf.Mongo.Database,
	}
	return client, nil
}

func (m *MongoDB) connect() (*mongo.Client, error) {
	connection, err := mongo.Connect(m.ctx, m.clientOptions)
	if err != nil {
		return nil, err
	}
	return connection, nil
}

func (m *MongoDB) disconnect(connection *mongo.Client) {
	err := connection.Disconnect(m.ctx)
	if err != nil {
		log.Println("mongodb disconnect error", err)
	}
}

func (m *MongoDB) WriteLogMessage(data services.Data) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)
	collection := connection.Database(m.database).Collection(collectionLog)
	_, err = collection.InsertOne(m.ctx, data)
	return err
}

// SavePaymentRecord upserts the audit snapshot of an initiation, keyed by
// the gateway request id.
func (m *MongoDB) SavePaymentRecord(ctx context.Context, record *entity.PaymentRecord) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "pay_request_id", Value: record.PayRequestID}}
	set := bson.M{"$set": record}
	collection := connection.Database(m.database).Collection(collectionRequests)
	_, err = collection.UpdateOne(ctx, filter, set, options.Update().SetUpsert(true))
	if err != nil {
		return err
	}
	return nil
}

func (m *MongoDB) GetPaymentRecord(ctx context.Context, payRequestId string) (*entity.PaymentRecord, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "pay_request_id", Value: payRequestId}}
	collection := connection.Database(m.database).Collection(collectionRequests)
	var record entity.PaymentRecord
	if err = collection.FindOne(ctx, filter).Decode(&record); err != nil {
		return nil, err
	}
	return &record, nil
}

// SavePaymentResult stores a raw gateway notification with its receive time.
func (m *MongoDB) SavePaymentResult(ctx context.Context, result entity.GatewayResponse) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	document := bson.M{
		"time_received": time.Now(),
		"fields":        result,
	}
	collection := connection.Database(m.database).Collection(collectionNotifications)
	_, err = collection.InsertOne(ctx, document)
	return err
}
