package ui

import (
	"errors"
	"image/color"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/contact-birthday/internal/config"
	"github.com/tartampluch/contact-birthday/internal/engine"
)

var (
	opaqueBlack     = color.NRGBA{A: 0xff}
	fallbackBgColor = engine.ParseHexColor(config.DefaultBackgroundColor, opaqueBlack)
	fallbackBorder  = engine.ParseHexColor(config.DefaultBorderColor, opaqueBlack)
)

// birthdayCard holds the canvas objects of the card window.
type birthdayCard struct {
	background   *canvas.Rectangle
	emoticon     *canvas.Text
	announcement *widget.Label
	emailBtn     *widget.Button
	cardBtn      *widget.Button
	emailHint    *widget.Label
	cardHint     *widget.Label
	status       *widget.Label
	body         *fyne.Container
}

// ShowCardWindow displays the birthday card.
// It implements a singleton pattern: if the window is already open, it requests focus.
func (app *ContactBirthdayApp) ShowCardWindow() {
	if app.cardWindow != nil {
		app.cardWindow.RequestFocus()
		return
	}

	slog.Info(config.LogMsgOpenCard, config.LogKeyComponent, config.CompUI)

	w := app.App.NewWindow(app.GetMsg(config.TKeyWinCard))
	w.Resize(fyne.NewSize(config.CardWinWidth, config.CardWinHeight))
	app.cardWindow = w

	app.card = app.newBirthdayCard()
	w.SetContent(container.NewStack(app.card.background, container.NewPadded(
		container.NewVBox(app.card.status, app.card.body),
	)))
	w.SetOnClosed(func() {
		app.cardWindow = nil
		app.card = nil
	})

	app.refreshCard()
	w.Show()
}

// newBirthdayCard builds the card widgets. Buttons stay hidden until contact data arrives.
func (app *ContactBirthdayApp) newBirthdayCard() *birthdayCard {
	c := &birthdayCard{
		background:   canvas.NewRectangle(fallbackBgColor),
		emoticon:     canvas.NewText("", theme.Color(theme.ColorNameForeground)),
		announcement: widget.NewLabel(""),
		status:       widget.NewLabel(""),
	}
	c.background.StrokeColor = fallbackBorder
	c.background.StrokeWidth = config.CardBorderWidth
	c.background.CornerRadius = config.CardCornerRadius

	c.emoticon.TextSize = config.EmoticonTextSize
	c.emoticon.Alignment = fyne.TextAlignCenter
	c.announcement.Alignment = fyne.TextAlignCenter
	c.announcement.Wrapping = fyne.TextWrapWord
	c.status.Alignment = fyne.TextAlignCenter

	c.emailBtn = widget.NewButton("", func() { app.triggerAction(engine.ActionEmail) })
	c.cardBtn = widget.NewButton("", func() { app.triggerAction(engine.ActionCard) })
	// Buttons have no hover text, the title is shown as a caption underneath.
	c.emailHint = newHintLabel()
	c.cardHint = newHintLabel()

	c.body = container.NewVBox(
		c.emoticon,
		c.announcement,
		container.NewGridWithColumns(config.LayoutColumnsDouble,
			container.NewVBox(c.emailBtn, c.emailHint),
			container.NewVBox(c.cardBtn, c.cardHint),
		),
	)
	return c
}

// refreshCard renders the current widget view into the open card, if any.
func (app *ContactBirthdayApp) refreshCard() {
	c := app.card
	if c == nil {
		return
	}

	view, ok := app.Widget.View()
	switch {
	case !ok:
		c.status.SetText(app.GetMsg(config.TKeyCardWaiting))
		c.status.Show()
		c.body.Hide()
	case !view.ShowComponent:
		c.status.SetText(app.GetMsgWith(config.TKeyCardHidden,
			map[string]any{"Name": view.FirstName}, view.Labels.Get(engine.LabelAnnouncement)))
		c.status.Show()
		c.body.Hide()
	default:
		c.status.Hide()
		c.background.FillColor = engine.ParseHexColor(view.Theme.Background, fallbackBgColor)
		c.background.StrokeColor = engine.ParseHexColor(view.Theme.Border, fallbackBorder)
		c.emoticon.Text = string(engine.EmoticonRune(view.Emoticon))
		c.announcement.SetText(view.Labels.Get(engine.LabelAnnouncement))
		applyButtonState(c.emailBtn, c.emailHint, view.Buttons.Email)
		applyButtonState(c.cardBtn, c.cardHint, view.Buttons.Card)
		c.body.Show()
	}

	c.background.Refresh()
	c.emoticon.Refresh()
	slog.Debug(config.LogMsgCardRefresh,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyUpcoming, ok && view.ShowComponent)
}

// triggerAction forwards a button tap to the widget. The card is refreshed through OnChange.
func (app *ContactBirthdayApp) triggerAction(a engine.Action) {
	if _, err := app.Widget.Trigger(a); err != nil && !errors.Is(err, engine.ErrAlreadySent) {
		slog.Warn(config.MsgActionIgnored,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyAction, a.String(),
			config.LogKeyError, err)
	}
}

func newHintLabel() *widget.Label {
	l := widget.NewLabel("")
	l.Alignment = fyne.TextAlignCenter
	l.Wrapping = fyne.TextWrapWord
	l.SizeName = theme.SizeNameCaptionText
	return l
}

func applyButtonState(btn *widget.Button, hint *widget.Label, s engine.ButtonState) {
	btn.SetText(s.Label)
	hint.SetText(s.Title)
	btn.SetIcon(buttonIcon(s.IconName))
	if s.Disabled {
		btn.Disable()
	} else {
		btn.Enable()
	}
}

// buttonIcon maps a ButtonState icon name to a theme icon.
func buttonIcon(name string) fyne.Resource {
	switch name {
	case config.IconConfirmed:
		return theme.ConfirmIcon()
	case config.IconSend:
		return theme.MailSendIcon()
	default:
		return theme.MailComposeIcon()
	}
}
