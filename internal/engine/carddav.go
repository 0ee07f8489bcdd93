package engine

import (
	"context"
	"net/http"

	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/carddav"
	"github.com/tartampluch/contact-birthday/internal/config"
)

// CardDAVSource reads a single address object from a CardDAV server.
// The record identifier is the object path, e.g. "/contacts/default/sam.vcf".
type CardDAVSource struct {
	Endpoint string
	Creds    Credentials
	Client   *http.Client
}

// NewCardDAVSource returns a source using the default HTTP timeout.
func NewCardDAVSource(endpoint string, creds Credentials) *CardDAVSource {
	return &CardDAVSource{
		Endpoint: endpoint,
		Creds:    creds,
		Client:   &http.Client{Timeout: config.HTTPTimeout},
	}
}

// FetchContact implements RecordSource.
func (s *CardDAVSource) FetchContact(ctx context.Context, recordID string) (ContactSnapshot, error) {
	if recordID == "" {
		return ContactSnapshot{}, &FetchError{Message: config.ErrRecordIDEmpty}
	}

	httpClient := s.Client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.HTTPTimeout}
	}

	var hc webdav.HTTPClient = httpClient
	if s.Creds.User != "" || s.Creds.Pass != "" {
		hc = webdav.HTTPClientWithBasicAuth(httpClient, s.Creds.User, s.Creds.Pass)
	}

	client, err := carddav.NewClient(hc, s.Endpoint)
	if err != nil {
		return ContactSnapshot{}, newFetchError(config.ErrCardDAVConnect, err)
	}

	obj, err := client.GetAddressObject(ctx, recordID)
	if err != nil {
		if ctx.Err() != nil {
			return ContactSnapshot{}, ctx.Err()
		}
		return ContactSnapshot{}, newFetchError(config.ErrCardDAVGet, err)
	}
	return snapshotFromCard(obj.Card, recordID)
}
