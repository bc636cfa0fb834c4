package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	appName                = "workout-log"
	serverSelectionTimeout = 5 * time.Second
	// Database used when neither the config nor the URI names one.
	fallbackDatabaseName = "test"
)

// clientOptions builds the driver options for uri, rejecting a malformed URI
// before any network work happens.
func clientOptions(uri string) (*options.ClientOptions, error) {
	if _, err := connstring.ParseAndValidate(uri); err != nil {
		return nil, fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return options.Client().
		ApplyURI(uri).
		SetAppName(appName).
		SetServerSelectionTimeout(serverSelectionTimeout), nil
}

// ConnectDB opens the single client shared by every request and pings the
// primary. ctx bounds both the connect and the ping; on a failed ping the
// client is closed before returning.
func ConnectDB(ctx context.Context, uri string) (*mongo.Client, error) {
	opts, err := clientOptions(uri)
	if err != nil {
		return nil, err
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("ping primary: %w", err)
	}
	return client, nil
}

// DisconnectDB closes client, waiting at most until ctx is done for in-flight
// operations.
func DisconnectDB(ctx context.Context, client *mongo.Client) error {
	return client.Disconnect(ctx)
}

// DatabaseName picks the database to use: an explicit name wins, then the
// database in the URI path (mongodb://host/<db>), then "test".
func DatabaseName(uri, configured string) string {
	if configured != "" {
		return configured
	}
	cs, err := connstring.ParseAndValidate(uri)
	if err == nil && cs.Database != "" {
		return cs.Database
	}
	return fallbackDatabaseName
}
