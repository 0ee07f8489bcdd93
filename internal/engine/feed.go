package engine

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/contact-birthday/internal/config"
)

// BuildFeed renders the announced birthday as an iCalendar document with one
// all-day event. A hidden component yields an empty but valid calendar so
// subscribed clients do not flag the feed as broken.
func BuildFeed(view View, now time.Time) ([]byte, error) {
	if !view.ShowComponent {
		return []byte(config.StubVCalendar), nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refresh := ical.NewProp(config.PropRefresh)
	refresh.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refresh)

	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, eventUID(view))
	event.Props.SetText(config.PropSummary, view.Labels.Get(LabelAnnouncement))

	stamp := ical.NewProp(config.PropDTStamp)
	stamp.SetDateTime(now.UTC())
	event.Props.Set(stamp)

	start := ical.NewProp(config.PropDTStart)
	start.SetDate(view.NextOccurrence)
	event.Props.Set(start)

	cal.Children = append(cal.Children, event.Component)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), nil
}

// eventUID is stable across refreshes for the same record and occurrence year.
func eventUID(view View) string {
	input := fmt.Sprintf(config.FormatHashInput, view.RecordID, view.Birthday, config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf(config.FormatUID, fmt.Sprintf("%x", hash[:config.UIDHashLength]), view.NextOccurrence.Year(), config.ICalDomain)
}
