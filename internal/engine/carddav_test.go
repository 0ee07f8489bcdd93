package engine_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/contact-birthday/internal/config"
	"github.com/tartampluch/contact-birthday/internal/engine"
)

const samCard = "BEGIN:VCARD\r\nVERSION:4.0\r\nUID:sam\r\nFN:Sam Carter\r\nN:Carter;Sam;;;\r\nBDAY:1990-03-10\r\nEND:VCARD\r\n"

func TestCardDAVSource_FetchContact(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "me", user)
		assert.Equal(t, "secret", pass)

		if r.URL.Path != "/contacts/sam.vcf" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set(config.HeaderContentType, "text/vcard")
		_, _ = w.Write([]byte(samCard))
	}))
	defer ts.Close()

	src := engine.NewCardDAVSource(ts.URL, engine.Credentials{User: "me", Pass: "secret"})

	snap, err := src.FetchContact(context.Background(), "/contacts/sam.vcf")
	require.NoError(t, err)

	assert.Equal(t, "Sam", snap.FirstName)
	assert.Equal(t, engine.CalendarDate{Year: 1990, Month: time.March, Day: 10}, snap.Birthdate)
	assert.Equal(t, "/contacts/sam.vcf", snap.RecordID)
}

func TestCardDAVSource_NotFound(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	src := engine.NewCardDAVSource(ts.URL, engine.Credentials{})

	_, err := src.FetchContact(context.Background(), "/contacts/missing.vcf")
	require.Error(t, err)

	var fe *engine.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Text(), config.ErrCardDAVGet)
}

func TestCardDAVSource_EmptyRecordID(t *testing.T) {
	src := engine.NewCardDAVSource("http://127.0.0.1:1", engine.Credentials{})

	_, err := src.FetchContact(context.Background(), "")
	assert.Equal(t, config.ErrRecordIDEmpty, engine.ErrorMessage(err))
}
