// Package credentials loads the secrets a run needs from explicitly
// configured files.
package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"

	domainerrors "github.com/qj0r9j0vc2/calendar-status/internal/domain/errors"
)

// ReadSecretFile reads a plain-text secret and trims surrounding whitespace.
// A missing, unreadable or empty file is a credential error.
func ReadSecretFile(path string) (string, error) {
	if path == "" {
		return "", domainerrors.NewCredentialError("secret file path is empty", nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", domainerrors.NewCredentialError(fmt.Sprintf("reading %s", path), err)
	}

	secret := strings.TrimSpace(string(data))
	if secret == "" {
		return "", domainerrors.NewCredentialError(fmt.Sprintf("%s is empty", path), nil)
	}
	return secret, nil
}

// ResolveSecret returns value if set, otherwise the content of path.
func ResolveSecret(value, path string) (string, error) {
	if value != "" {
		return value, nil
	}
	return ReadSecretFile(path)
}

// GoogleClient builds an HTTP client authorized for read-only calendar
// access from an OAuth client file and a stored token. Expired access tokens
// are refreshed in memory from the stored refresh token; the token file is
// never written.
//
// base, if non-nil, is used for both token refresh and API calls.
func GoogleClient(ctx context.Context, credentialsFile, tokenFile string, base *http.Client) (*http.Client, error) {
	clientJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, domainerrors.NewCredentialError(fmt.Sprintf("reading google credentials %s", credentialsFile), err)
	}

	conf, err := google.ConfigFromJSON(clientJSON, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, domainerrors.NewCredentialError(fmt.Sprintf("parsing google credentials %s", credentialsFile), err)
	}

	token, err := ReadToken(tokenFile)
	if err != nil {
		return nil, err
	}

	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}
	return conf.Client(ctx, token), nil
}

// ReadToken decodes a stored oauth2.Token. A token without an access or
// refresh token cannot authorize anything and is rejected.
func ReadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domainerrors.NewCredentialError(fmt.Sprintf("opening google token %s", path), err)
	}
	defer f.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, domainerrors.NewCredentialError(fmt.Sprintf("decoding google token %s", path), err)
	}
	if token.AccessToken == "" && token.RefreshToken == "" {
		return nil, domainerrors.NewCredentialError(fmt.Sprintf("google token %s has neither access nor refresh token", path), nil)
	}
	return token, nil
}
