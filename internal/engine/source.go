package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/contact-birthday/internal/config"
)

// RecordSource delivers the contact a widget announces.
type RecordSource interface {
	FetchContact(ctx context.Context, recordID string) (ContactSnapshot, error)
}

// SourceConfig selects and parameterizes a RecordSource.
type SourceConfig struct {
	Mode      string // config.SourceModeLocal, config.SourceModeWeb or config.SourceModeCardDAV
	LocalPath string // Path of a .vcf file
	URL       string // vCard URL or CardDAV endpoint
	Creds     Credentials
}

// NewRecordSource builds the source for cfg.Mode.
func NewRecordSource(cfg SourceConfig, fetcher VCardFetcher) (RecordSource, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return &VCardSource{Path: cfg.LocalPath}, nil
	case config.SourceModeWeb:
		if cfg.URL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return &VCardSource{URL: cfg.URL, Creds: cfg.Creds, Fetcher: fetcher}, nil
	case config.SourceModeCardDAV:
		if cfg.URL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		return NewCardDAVSource(cfg.URL, cfg.Creds), nil
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}

// VCardSource scans a vCard stream, from a local file or a URL, for the
// contact whose UID or formatted name equals the record identifier.
type VCardSource struct {
	Path    string
	URL     string
	Creds   Credentials
	Fetcher VCardFetcher
}

// FetchContact implements RecordSource.
func (s *VCardSource) FetchContact(ctx context.Context, recordID string) (ContactSnapshot, error) {
	if recordID == "" {
		return ContactSnapshot{}, &FetchError{Message: config.ErrRecordIDEmpty}
	}

	r, err := s.open(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ContactSnapshot{}, ctx.Err()
		}
		return ContactSnapshot{}, newFetchError(config.ErrVCardParse, err)
	}
	defer func() { _ = r.Close() }()

	card, err := findCard(ctx, r, recordID)
	if err != nil {
		return ContactSnapshot{}, err
	}
	return snapshotFromCard(card, recordID)
}

func (s *VCardSource) open(ctx context.Context) (io.ReadCloser, error) {
	if s.Path != "" {
		return os.Open(s.Path)
	}
	if s.Fetcher == nil {
		return nil, errors.New(config.ErrFetcherMissing)
	}
	return s.Fetcher.Fetch(ctx, s.URL, s.Creds)
}

// findCard decodes cards until one matches recordID. Malformed cards are
// skipped; two decode failures in a row end the scan.
func findCard(ctx context.Context, r io.Reader, recordID string) (vcard.Card, error) {
	dec := vcard.NewDecoder(r)
	failedLast := false
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompSource,
				config.LogKeyError, err)
			if failedLast {
				return nil, newFetchError(config.ErrVCardParse, err)
			}
			failedLast = true
			continue
		}
		failedLast = false

		if matchesRecord(card, recordID) {
			return card, nil
		}
	}
	return nil, &FetchError{Message: fmt.Sprintf("%s: %s", config.ErrRecordNotFound, recordID), Err: ErrRecordNotFound}
}

// matchesRecord compares the identifier against UID first, then FN (case-insensitive).
func matchesRecord(card vcard.Card, recordID string) bool {
	if uid := card.Value(config.VCardUID); uid != "" && uid == recordID {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(card.Value(config.VCardFN)), strings.TrimSpace(recordID))
}

// snapshotFromCard extracts the first name and birthdate. Every missing or
// malformed field is reported, in field order, in one FetchError.
func snapshotFromCard(card vcard.Card, recordID string) (ContactSnapshot, error) {
	var problems []string

	firstName := firstNameOf(card)
	if firstName == "" {
		problems = append(problems, config.ErrMissingFirstName)
	}

	var birthdate CalendarDate
	if raw := card.Value(config.VCardBDAY); raw == "" {
		problems = append(problems, config.ErrMissingBirthdate)
	} else if d, err := ParseCalendarDate(raw); err != nil {
		problems = append(problems, fmt.Sprintf("%s: %q", err, raw))
	} else {
		birthdate = d
	}

	if len(problems) > 0 {
		return ContactSnapshot{}, &FetchError{Messages: problems}
	}
	return ContactSnapshot{RecordID: recordID, FirstName: firstName, Birthdate: birthdate}, nil
}

// firstNameOf prefers the given-name component of N and falls back to the
// first word of FN.
func firstNameOf(card vcard.Card) string {
	if n := card.Name(); n != nil && strings.TrimSpace(n.GivenName) != "" {
		return strings.TrimSpace(n.GivenName)
	}
	if fields := strings.Fields(card.Value(config.VCardFN)); len(fields) > 0 {
		return fields[0]
	}
	return ""
}
