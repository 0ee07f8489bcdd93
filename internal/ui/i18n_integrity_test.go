package ui_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/contact-birthday/internal/config"
	"github.com/tartampluch/contact-birthday/internal/engine"
)

// TestI18nIntegrity ensures that every translation key defined in config.go
// actually exists in the locale JSON files.
func TestI18nIntegrity(t *testing.T) {
	definedKeys := make(map[string]bool)

	keysToCheck := []string{
		config.TKeyWinSettings,
		config.TKeyWinCard,
		config.TKeyMenuShow,
		config.TKeyMenuRefresh,
		config.TKeyMenuSettings,
		config.TKeyTrayUpcoming,
		config.TKeyTrayNone,
		config.TKeyCardHidden,
		config.TKeyCardWaiting,
		config.TKeyTitleEmail,
		config.TKeyTitleCard,
		config.TKeyModeCardDAV,
		config.TKeyModeVCardURL,
		config.TKeyModeLocal,
		config.TKeyLblSource,
		config.TKeyLblURL,
		config.TKeyHelpURL,
		config.TKeyLblUser,
		config.TKeyLblPass,
		config.TKeyBtnBrowse,
		config.TKeyLblWidget,
		config.TKeyLblRecord,
		config.TKeyHelpRecord,
		config.TKeyLblWithin,
		config.TKeyHelpWithin,
		config.TKeyLblEmoticon,
		config.TKeyHelpEmoticon,
		config.TKeyLblBackground,
		config.TKeyLblBorder,
		config.TKeyLblLabels,
		config.TKeyHelpLabels,
		config.TKeyLblGeneral,
		config.TKeyLblRefresh,
		config.TKeyHelpInterval,
		config.TKeyLblMinutes,
		config.TKeyLblDays,
		config.TKeyLblPort,
		config.TKeyHelpPort,
		config.TKeyBtnSave,
		config.TKeyBtnCancel,
		config.TKeyLblFooter,
		config.TKeyErrPortReq,
		config.TKeyErrPortNum,
		config.TKeyErrPortRange,
		config.TKeyErrWithinRange,
	}
	// One default template per label key
	for _, key := range engine.LabelKeys {
		keysToCheck = append(keysToCheck, config.TKeyLabelTemplatePfx+string(key))
	}

	for _, k := range keysToCheck {
		definedKeys[k] = true
	}

	// Adjust path if running test from internal/ui or root
	path := "locales/active.en.json"
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		path = filepath.Join("..", "..", "internal", "ui", "locales", "active.en.json")
		content, err = os.ReadFile(path)
	}
	require.NoError(t, err, "Must load active.en.json")

	var jsonMap map[string]interface{}
	require.NoError(t, json.Unmarshal(content, &jsonMap), "JSON must be valid")

	for key := range definedKeys {
		_, exists := jsonMap[key]
		assert.Truef(t, exists, "Key '%s' defined in config.go is missing in active.en.json", key)
	}

	// Orphan keys in JSON are flagged as unused
	for jsonKey := range jsonMap {
		if strings.HasPrefix(jsonKey, "_") {
			continue
		}
		assert.Truef(t, definedKeys[jsonKey], "Key '%s' exists in active.en.json but is not defined in config.go", jsonKey)
	}
}
