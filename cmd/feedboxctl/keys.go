package main

import (
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/feedbox/pkg/config"
	"github.com/doodlesbykumbi/feedbox/pkg/db"
	"github.com/doodlesbykumbi/feedbox/pkg/secretbox"
	"github.com/doodlesbykumbi/feedbox/pkg/token"
)

func dataKeyCipher() (*secretbox.Symmetric, error) {
	dataKey, ok := os.LookupEnv("FEEDBOX_DATA_KEY")
	if !ok {
		return nil, fmt.Errorf("FEEDBOX_DATA_KEY environment variable is required")
	}
	cipher, err := secretbox.NewSymmetricFromBase64(dataKey)
	if err != nil {
		return nil, fmt.Errorf("bad FEEDBOX_DATA_KEY: %w", err)
	}
	return cipher, nil
}

func tokenIssuer(cfg *config.FeedboxConfig) (*token.Issuer, error) {
	secret, ok := os.LookupEnv("FEEDBOX_TOKEN_SECRET")
	if !ok {
		return nil, fmt.Errorf("FEEDBOX_TOKEN_SECRET environment variable is required")
	}
	tokens, err := token.NewIssuer([]byte(secret), cfg.TokenLifetime())
	if err != nil {
		return nil, fmt.Errorf("bad FEEDBOX_TOKEN_SECRET: %w", err)
	}
	return tokens, nil
}

func connect(debug bool) (*gorm.DB, error) {
	return db.Connect(db.Config{Debug: debug})
}
