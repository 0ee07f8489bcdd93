package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/contact-birthday/internal/engine"
)

func TestBindLabels(t *testing.T) {
	labels := engine.LabelSet{
		engine.LabelAnnouncement: "Happy Birthday {FirstName}! It's {Birthdate}.",
		engine.LabelEmailButton:  "Send email",
		engine.LabelCardButton:   "{FirstName}, {FirstName}, {FirstName}",
	}

	bound := engine.BindLabels(labels, "Ana", "May 5")

	assert.Equal(t, "Happy Birthday Ana! It's May 5.", bound.Get(engine.LabelAnnouncement))
	assert.Equal(t, "Send email", bound.Get(engine.LabelEmailButton), "Templates without placeholders are unchanged")
	assert.Equal(t, "Ana, Ana, Ana", bound.Get(engine.LabelCardButton), "Every occurrence is replaced")

	// The templates must survive for the next refetch.
	assert.Equal(t, "Happy Birthday {FirstName}! It's {Birthdate}.", labels.Get(engine.LabelAnnouncement))
}

// TestBindLabels_SinglePass ensures a value that looks like a placeholder is not expanded again.
func TestBindLabels_SinglePass(t *testing.T) {
	labels := engine.LabelSet{engine.LabelAnnouncement: "{FirstName} on {Birthdate}"}

	bound := engine.BindLabels(labels, "{Birthdate}", "June 1")

	assert.Equal(t, "{Birthdate} on June 1", bound.Get(engine.LabelAnnouncement))
}

func TestDefaultLabels_Complete(t *testing.T) {
	defaults := engine.DefaultLabels()
	assert.Len(t, defaults, len(engine.LabelKeys))
	for _, k := range engine.LabelKeys {
		assert.NotEmpty(t, defaults.Get(k), "Missing default for %s", k)
	}

	clone := defaults.Clone()
	clone[engine.LabelEmailButton] = "changed"
	assert.NotEqual(t, "changed", defaults.Get(engine.LabelEmailButton))
}
