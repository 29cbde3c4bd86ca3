package main

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const mongoBatchSize = 1000

type MongoSink struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoSink(ctx context.Context, uri, database, collection string) (*MongoSink, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, mongoopts.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to connect to MongoDB")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, errors.WithMessage(err, "failed to ping MongoDB")
	}

	L().Infof("Connected to MongoDB, writing to %s.%s", database, collection)
	return &MongoSink{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

func (s *MongoSink) Write(ctx context.Context, rows []ReportRow) error {
	for _, b := range batches(len(rows), mongoBatchSize) {
		documents := make([]interface{}, 0, b[1]-b[0])
		for _, row := range rows[b[0]:b[1]] {
			documents = append(documents, row)
		}

		insertCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		_, err := s.collection.InsertMany(insertCtx, documents)
		cancel()
		if err != nil {
			return errors.WithMessage(err, "failed to insert report rows into MongoDB")
		}
	}
	L().Infof("Inserted %d report rows into MongoDB", len(rows))
	return nil
}

func (s *MongoSink) Close(ctx context.Context) error {
	if s.client != nil {
		return s.client.Disconnect(ctx)
	}
	return nil
}
