package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/contact-birthday/internal/config"
)

func TestRunOnce_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.vcf")
	card := "BEGIN:VCARD\r\nVERSION:3.0\r\nUID:sam\r\nFN:Sam Carter\r\nBDAY:1990-03-10\r\nEND:VCARD\r\n"
	require.NoError(t, os.WriteFile(path, []byte(card), config.FilePermUserRW))

	var out bytes.Buffer
	err := runOnce(context.Background(), onceOptions{record: "sam", vcard: path, within: 366}, &out)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "Sam", got["firstName"])
	assert.Equal(t, "March 10", got["birthday"])
	assert.Equal(t, "background-color: #cdefc4; border-color: #2e844a;", got["wrapperStyles"])
}

func TestRunOnce_Errors(t *testing.T) {
	var out bytes.Buffer

	err := runOnce(context.Background(), onceOptions{record: "sam"}, &out)
	assert.EqualError(t, err, config.ErrLocalPathEmpty)

	err = runOnce(context.Background(), onceOptions{record: "nobody", vcard: filepath.Join(t.TempDir(), "missing.vcf")}, &out)
	assert.Error(t, err)
	assert.Empty(t, out.String())
}
