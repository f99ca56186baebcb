// Package db archives analysis results in Firestore. The archive is
// optional: without credentials the pipeline runs with reports only.
package db

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"sync"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/option"
)

// HashString hashes a given string using SHA-256 and returns its hex
// representation. Used for Firestore document IDs.
func HashString(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// client is a singleton Firestore client instance.
var (
	client     *firestore.Client
	clientOnce sync.Once
	clientErr  error
)

// InitFirestore initializes and returns a Firestore client from the
// base64-encoded FIREBASE_CREDENTIALS service account.
func InitFirestore() (*firestore.Client, error) {
	clientOnce.Do(func() {
		encodedCreds := os.Getenv("FIREBASE_CREDENTIALS")
		if encodedCreds == "" {
			clientErr = fmt.Errorf("FIREBASE_CREDENTIALS environment variable not set")
			return
		}

		creds, err := base64.StdEncoding.DecodeString(encodedCreds)
		if err != nil {
			clientErr = fmt.Errorf("failed to decode Firestore credentials: %w", err)
			return
		}

		opt := option.WithCredentialsJSON(creds)
		app, err := firebase.NewApp(context.Background(), nil, opt)
		if err != nil {
			clientErr = fmt.Errorf("error initializing Firebase app: %w", err)
			return
		}

		client, clientErr = app.Firestore(context.Background())
	})

	return client, clientErr
}

// CloseFirestore closes the Firestore client.
func CloseFirestore() {
	if client != nil {
		client.Close()
	}
}
