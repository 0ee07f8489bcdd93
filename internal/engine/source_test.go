package engine_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/contact-birthday/internal/config"
	"github.com/tartampluch/contact-birthday/internal/engine"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockFetcher simulates the network layer using testify/mock.
type MockFetcher struct {
	mock.Mock
}

// Fetch implements the engine.VCardFetcher interface.
func (m *MockFetcher) Fetch(ctx context.Context, url string, creds engine.Credentials) (io.ReadCloser, error) {
	args := m.Called(ctx, url, creds)
	if r := args.Get(0); r != nil {
		return r.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

const addressBook = `BEGIN:VCARD
VERSION:4.0
UID:urn:uuid:ana
FN:Ana Lopez
N:Lopez;Ana;;;
BDAY:1988-05-05
END:VCARD
BEGIN:VCARD
VERSION:3.0
FN:Sam Carter
BDAY:--03-10
END:VCARD
BEGIN:VCARD
VERSION:3.0
FN:No Birthday
END:VCARD`

func writeAddressBook(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contacts.vcf")
	require.NoError(t, os.WriteFile(path, []byte(addressBook), config.FilePermUserRW))
	return path
}

// -----------------------------------------------------------------------------
// Test Cases
// -----------------------------------------------------------------------------

func TestVCardSource_Local_MatchByUID(t *testing.T) {
	src, err := engine.NewRecordSource(engine.SourceConfig{
		Mode:      config.SourceModeLocal,
		LocalPath: writeAddressBook(t),
	}, nil)
	require.NoError(t, err)

	snap, err := src.FetchContact(context.Background(), "urn:uuid:ana")
	require.NoError(t, err)

	assert.Equal(t, "urn:uuid:ana", snap.RecordID)
	assert.Equal(t, "Ana", snap.FirstName, "Given name comes from N")
	assert.Equal(t, engine.CalendarDate{Year: 1988, Month: time.May, Day: 5}, snap.Birthdate)
}

func TestVCardSource_Local_MatchByName(t *testing.T) {
	src := &engine.VCardSource{Path: writeAddressBook(t)}

	snap, err := src.FetchContact(context.Background(), "sam carter")
	require.NoError(t, err)

	assert.Equal(t, "Sam", snap.FirstName, "First word of FN when N is absent")
	assert.Equal(t, engine.CalendarDate{Month: time.March, Day: 10}, snap.Birthdate)
}

func TestVCardSource_MissingFields(t *testing.T) {
	src := &engine.VCardSource{Path: writeAddressBook(t)}

	_, err := src.FetchContact(context.Background(), "No Birthday")
	require.Error(t, err)

	var fe *engine.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{config.ErrMissingBirthdate}, fe.Messages)
}

func TestVCardSource_NotFound(t *testing.T) {
	src := &engine.VCardSource{Path: writeAddressBook(t)}

	_, err := src.FetchContact(context.Background(), "Nobody")

	assert.ErrorIs(t, err, engine.ErrRecordNotFound)
	assert.Contains(t, engine.ErrorMessage(err), "Nobody")
}

func TestVCardSource_EmptyRecordID(t *testing.T) {
	src := &engine.VCardSource{Path: writeAddressBook(t)}

	_, err := src.FetchContact(context.Background(), "")
	assert.Equal(t, config.ErrRecordIDEmpty, engine.ErrorMessage(err))
}

func TestVCardSource_Web(t *testing.T) {
	fetcher := new(MockFetcher)
	creds := engine.Credentials{User: "me", Pass: "secret"}
	fetcher.On("Fetch", mock.Anything, "https://example.com/contacts.vcf", creds).
		Return(io.NopCloser(strings.NewReader(addressBook)), nil)

	src, err := engine.NewRecordSource(engine.SourceConfig{
		Mode:  config.SourceModeWeb,
		URL:   "https://example.com/contacts.vcf",
		Creds: creds,
	}, fetcher)
	require.NoError(t, err)

	snap, err := src.FetchContact(context.Background(), "Sam Carter")
	require.NoError(t, err)
	assert.Equal(t, "Sam", snap.FirstName)

	fetcher.AssertExpectations(t)
}

func TestVCardSource_Web_NetworkError(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("network unreachable"))

	src := &engine.VCardSource{URL: "https://example.com", Fetcher: fetcher}
	_, err := src.FetchContact(context.Background(), "Sam Carter")

	require.Error(t, err)
	assert.Contains(t, engine.ErrorMessage(err), config.ErrVCardParse)
	assert.Contains(t, engine.ErrorMessage(err), "network unreachable")
}

func TestVCardSource_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &engine.VCardSource{Path: writeAddressBook(t)}
	_, err := src.FetchContact(ctx, "Sam Carter")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRecordSource_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     engine.SourceConfig
		fetcher engine.VCardFetcher
		wantErr string
	}{
		{"Local without path", engine.SourceConfig{Mode: config.SourceModeLocal}, nil, config.ErrLocalPathEmpty},
		{"Web without URL", engine.SourceConfig{Mode: config.SourceModeWeb}, new(MockFetcher), config.ErrWebURLEmpty},
		{"Web without fetcher", engine.SourceConfig{Mode: config.SourceModeWeb, URL: "https://x"}, nil, config.ErrFetcherMissing},
		{"CardDAV without URL", engine.SourceConfig{Mode: config.SourceModeCardDAV}, nil, config.ErrWebURLEmpty},
		{"Unknown mode", engine.SourceConfig{Mode: "ftp"}, nil, config.ErrModeUnsupport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.NewRecordSource(tt.cfg, tt.fetcher)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
