package github

import (
	"context"
	"log/slog"

	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"

	"github.com/sevigo/review-mate/internal/core"
)

// oauthScope grants read/write access to the user's repositories, which the
// publisher needs to create branches and open pull requests.
const oauthScope = "repo"

// OAuthFlow implements the redirect-based GitHub authorization exchange. The
// resulting bearer token is handed back to the browser and never stored
// server-side.
type OAuthFlow struct {
	// Endpoint defaults to GitHub's OAuth endpoint; tests point it at a local
	// server.
	Endpoint oauth2.Endpoint

	clientID     string
	clientSecret string
	redirectURI  string
	logger       *slog.Logger
}

// NewOAuthFlow builds the flow from the configured OAuth application values.
// Missing values are tolerated here; each operation fails fast with a
// configuration error when invoked, so the rest of the API stays usable.
func NewOAuthFlow(clientID, clientSecret, redirectURI string, logger *slog.Logger) *OAuthFlow {
	return &OAuthFlow{
		Endpoint:     githuboauth.Endpoint,
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		logger:       logger,
	}
}

// Configured reports whether the login redirect can be constructed.
func (f *OAuthFlow) Configured() bool {
	return f.clientID != "" && f.redirectURI != ""
}

// AuthCodeURL constructs the GitHub authorization URL the browser is sent to.
func (f *OAuthFlow) AuthCodeURL() (string, error) {
	if !f.Configured() {
		f.logger.Error("GitHub OAuth login failed: missing configuration",
			"client_id_present", f.clientID != "",
			"redirect_uri_present", f.redirectURI != "")
		return "", core.NewConfigurationError("GitHub OAuth not configured: missing GITHUB_CLIENT_ID or GITHUB_REDIRECT_URI")
	}

	conf := f.config()
	return conf.AuthCodeURL("", oauth2.SetAuthURLParam("allow_signup", "true")), nil
}

// Exchange trades an authorization code for a bearer token via a
// server-to-server POST. Any failure mode (HTTP error, error field in the
// token response, absent token) yields an error instead of a redirect.
func (f *OAuthFlow) Exchange(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", core.NewValidationError("missing authorization code")
	}
	if f.clientID == "" || f.clientSecret == "" {
		f.logger.Error("GitHub OAuth callback failed: missing configuration")
		return "", core.NewConfigurationError("GitHub OAuth not configured: missing GITHUB_CLIENT_ID or GITHUB_CLIENT_SECRET")
	}

	tok, err := f.config().Exchange(ctx, code)
	if err != nil {
		f.logger.Error("GitHub OAuth token exchange failed", "error", err)
		return "", core.NewUpstreamError("GitHub OAuth failed", err)
	}
	if tok.AccessToken == "" {
		f.logger.Error("no access token in GitHub response")
		return "", core.NewUpstreamError("no access token received from GitHub", nil)
	}

	f.logger.Info("GitHub access token obtained")
	return tok.AccessToken, nil
}

func (f *OAuthFlow) config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     f.clientID,
		ClientSecret: f.clientSecret,
		RedirectURL:  f.redirectURI,
		Scopes:       []string{oauthScope},
		Endpoint:     f.Endpoint,
	}
}
