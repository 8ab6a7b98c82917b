package repo

import (
	"context"
	"fmt"

	"QuizBot/model"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"
)

// firebaseInteraction is the Realtime Database shape of an interaction.
type firebaseInteraction struct {
	UserID    int64  `json:"user_id"`
	UserName  string `json:"user_name,omitempty"`
	Type      string `json:"filter_type"`
	Value     string `json:"filter_value"`
	CreatedAt int64  `json:"created_at"`
}

// FirebaseConnector struct to hold Firebase client and database reference
type FirebaseConnector struct {
	app    *firebase.App
	client *db.Client
	ref    string
}

// NewFirebaseConnector creates a new Firebase connector
func NewFirebaseConnector(ctx context.Context, serviceAccountKeyPath string, databaseURL string) (*FirebaseConnector, error) {
	config := &firebase.Config{
		DatabaseURL: databaseURL,
	}
	return newFirebaseConnector(ctx, config, option.WithCredentialsFile(serviceAccountKeyPath))
}

func newFirebaseConnector(ctx context.Context, config *firebase.Config, opts ...option.ClientOption) (*FirebaseConnector, error) {
	app, err := firebase.NewApp(ctx, config, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting database client: %w", err)
	}

	return &FirebaseConnector{
		app:    app,
		client: client,
		ref:    "interactions",
	}, nil
}

// RecordInteraction pushes the interaction under the interactions node.
func (fc *FirebaseConnector) RecordInteraction(ctx context.Context, in model.Interaction) error {
	ref := fc.client.NewRef(fc.ref)
	_, err := ref.Push(ctx, firebaseInteraction{
		UserID:    in.UserID,
		UserName:  in.UserName,
		Type:      in.Type,
		Value:     in.Value,
		CreatedAt: in.At.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("error recording interaction: %w", err)
	}
	return nil
}
