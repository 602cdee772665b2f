package db

import (
	"context"
	"os"

	"backend-trailblazer/internal/config"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

var newFirebaseAppFn = firebase.NewApp

// ConnectFirestore opens a Firestore client through the Firebase Admin SDK.
// Without a credentials file the SDK falls back to application default
// credentials, which also covers FIRESTORE_EMULATOR_HOST.
func ConnectFirestore(ctx context.Context, cfg config.Config) (*firestore.Client, error) {
	var opts []option.ClientOption
	if _, err := os.Stat(cfg.FirebaseCredentialsPath); err == nil {
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsPath))
	}

	var fbCfg *firebase.Config
	if cfg.FirebaseProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}

	app, err := newFirebaseAppFn(ctx, fbCfg, opts...)
	if err != nil {
		return nil, err
	}
	return app.Firestore(ctx)
}
