package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/go-playground/validator/v10"
)

// ErrNotDesktopClient is returned for client files Google issued for a web
// application. Publishing logs in through a browser redirect to a local port,
// which Google only allows for Desktop app clients.
var ErrNotDesktopClient = errors.New("oauth client is not a Desktop app client")

// OAuthClientConfig is the Google OAuth client file used to publish calendars to Sheets
type OAuthClientConfig struct {
	Installed OAuthInstalled  `json:"installed" validate:"required"`
	Web       json.RawMessage `json:"web,omitempty" validate:"-"`
}

// OAuthInstalled is the "installed" section Google writes for Desktop app clients
type OAuthInstalled struct {
	ClientID                string   `json:"client_id" validate:"required"`
	ProjectID               string   `json:"project_id" validate:"required"`
	AuthURI                 string   `json:"auth_uri" validate:"required,url"`
	TokenURI                string   `json:"token_uri" validate:"required,url"`
	AuthProviderX509CertURL string   `json:"auth_provider_x509_cert_url" validate:"required,url"`
	ClientSecret            string   `json:"client_secret" validate:"required"`
	RedirectURIs            []string `json:"redirect_uris" validate:"required,min=1,loopback,dive,uri"`
}

func oauthClientFileName(env string) string {
	if env == "" {
		return "oauthClient.json"
	}
	return "oauthClient." + env + ".json"
}

// LoadOAuthClientWithEnv loads oauthClient.<env>.json, or oauthClient.json when env is empty
func LoadOAuthClientWithEnv(env string) (*OAuthClientConfig, error) {
	oauthPath, err := findFile(oauthClientFileName(env))
	if err != nil {
		return nil, fmt.Errorf("failed to find oauth client file: %w", err)
	}

	return LoadOAuthClientFromPath(oauthPath)
}

// LoadOAuthClientFromPath loads and validates the OAuth client configuration from a specific path
func LoadOAuthClientFromPath(path string) (*OAuthClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth client file: %w", err)
	}

	var oauthCfg OAuthClientConfig
	if err := json.Unmarshal(data, &oauthCfg); err != nil {
		return nil, fmt.Errorf("failed to parse oauth client file: %w", err)
	}

	if err := ValidateOAuthClient(&oauthCfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &oauthCfg, nil
}

// ValidateOAuthClient checks the file can drive the local Sheets login
func ValidateOAuthClient(cfg *OAuthClientConfig) error {
	if len(cfg.Web) > 0 {
		return fmt.Errorf("%w: create a Desktop app client in the Google Cloud console", ErrNotDesktopClient)
	}
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("oauth client validation failed: %w", err)
	}
	return nil
}

// hasLoopbackRedirect backs the "loopback" tag: at least one redirect URI
// must point at this machine so the login callback can reach the CLI
func hasLoopbackRedirect(fl validator.FieldLevel) bool {
	uris, ok := fl.Field().Interface().([]string)
	if !ok {
		return false
	}
	for _, raw := range uris {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme != "http" {
			continue
		}
		switch u.Hostname() {
		case "localhost", "127.0.0.1", "::1":
			return true
		}
	}
	return false
}
