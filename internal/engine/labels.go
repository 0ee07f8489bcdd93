package engine

import (
	"strings"

	"github.com/tartampluch/contact-birthday/internal/config"
)

// LabelKey names one of the user-configurable label templates.
type LabelKey string

const (
	LabelAnnouncement      LabelKey = "birthdayAnnouncementLabel"
	LabelEmailButton       LabelKey = "sendEmailButtonLabel"
	LabelCardButton        LabelKey = "sendCardButtonLabel"
	LabelEmailToastHeader  LabelKey = "sendEmailToastHeaderLabel"
	LabelEmailToastMessage LabelKey = "sendEmailToastMessageLabel"
	LabelCardToastHeader   LabelKey = "sendCardToastHeaderLabel"
	LabelCardToastMessage  LabelKey = "sendCardToastMessageLabel"
)

// LabelKeys lists every label key in display order.
var LabelKeys = []LabelKey{
	LabelAnnouncement,
	LabelEmailButton,
	LabelCardButton,
	LabelEmailToastHeader,
	LabelEmailToastMessage,
	LabelCardToastHeader,
	LabelCardToastMessage,
}

// LabelSet maps each label key to its text.
type LabelSet map[LabelKey]string

// DefaultLabels returns the built-in templates.
func DefaultLabels() LabelSet {
	return LabelSet{
		LabelAnnouncement:      config.DefaultAnnouncementLabel,
		LabelEmailButton:       config.DefaultEmailButtonLabel,
		LabelCardButton:        config.DefaultCardButtonLabel,
		LabelEmailToastHeader:  config.DefaultEmailToastHeader,
		LabelEmailToastMessage: config.DefaultEmailToastMessage,
		LabelCardToastHeader:   config.DefaultCardToastHeader,
		LabelCardToastMessage:  config.DefaultCardToastMessage,
	}
}

// Get returns the text for key, or "" when absent.
func (l LabelSet) Get(key LabelKey) string {
	return l[key]
}

// Clone returns an independent copy.
func (l LabelSet) Clone() LabelSet {
	out := make(LabelSet, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}

// BindLabels substitutes {FirstName} and {Birthdate} in every template and
// returns a new set. Substitution is a single pass: values that themselves
// contain a placeholder are not expanded again.
func BindLabels(labels LabelSet, firstName, birthdayText string) LabelSet {
	r := strings.NewReplacer(
		config.TokenFirstName, firstName,
		config.TokenBirthdate, birthdayText,
	)
	out := make(LabelSet, len(labels))
	for k, tmpl := range labels {
		out[k] = r.Replace(tmpl)
	}
	return out
}
