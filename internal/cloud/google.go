package cloud

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/teslashibe/go-toucan/internal/httpc"
)

// OAuth2 scopes used by the Google sinks.
const (
	ScopeStorageWrite = "https://www.googleapis.com/auth/devstorage.read_write"
	ScopePubSub       = "https://www.googleapis.com/auth/pubsub"
)

// GoogleOptions configures GoogleClientOptions.
type GoogleOptions struct {
	// CredentialsFile is a service account JSON key. Empty means
	// Application Default Credentials.
	CredentialsFile string

	// Scopes requested for the token source.
	Scopes []string

	// HTTPClient is the base transport under the oauth2 client.
	// Defaults to httpc.Client.
	HTTPClient *http.Client
}

// GoogleClientOptions returns client options carrying an authenticated HTTP
// client. The ctx must outlive the returned client; token refreshes use it.
func GoogleClientOptions(ctx context.Context, opts GoogleOptions) ([]option.ClientOption, error) {
	base := opts.HTTPClient
	if base == nil {
		base = httpc.Client
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	var (
		creds *google.Credentials
		err   error
	)
	if opts.CredentialsFile != "" {
		data, readErr := os.ReadFile(opts.CredentialsFile)
		if readErr != nil {
			return nil, fmt.Errorf("read google credentials: %w", readErr)
		}
		creds, err = google.CredentialsFromJSON(ctx, data, opts.Scopes...)
	} else {
		creds, err = google.FindDefaultCredentials(ctx, opts.Scopes...)
	}
	if err != nil {
		return nil, fmt.Errorf("find google credentials: %w", err)
	}

	client := oauth2.NewClient(ctx, creds.TokenSource)
	client.Timeout = base.Timeout

	return []option.ClientOption{option.WithHTTPClient(client)}, nil
}
