// Package auth retrieves the ClosetMate API token. The token is attached
// as a Bearer header on every gateway request; everything else about
// authentication lives behind the gateway.
package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	tokenDir  = ".closet-cli"
	tokenFile = "token"
)

// GetAPIToken retrieves the gateway API token from available sources.
// Priority order:
//  1. CLOSET_API_TOKEN environment variable
//  2. Plain file at ~/.closet-cli/token
//
// An empty result with a nil error means the gateway runs without auth
// (the local development default).
func GetAPIToken() (string, error) {
	if token := os.Getenv("CLOSET_API_TOKEN"); token != "" {
		log.Debug().Msg("Using API token from environment variable")
		return token, nil
	}

	token, err := getFromFile()
	if err == nil && token != "" {
		log.Debug().Msg("Using API token from token file")
		return token, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return "", err
	}

	log.Debug().Msg("No API token configured; requests will be unauthenticated")
	return "", nil
}

// getFromFile reads the token file under the user's home directory.
func getFromFile() (string, error) {
	path, err := getTokenPath()
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// getTokenPath returns ~/.closet-cli/token.
func getTokenPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, tokenDir, tokenFile), nil
}
