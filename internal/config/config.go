package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Contact-Birthday/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Contact Birthday"
	AppID             = "com.github.tartampluch.contact-birthday"
	KeyringService    = "com.github.tartampluch.contact-birthday"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	IconFile          = "Icon.png"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagOnce         = "once"
	FlagRecord       = "record"
	FlagVCard        = "vcard"
	FlagWithin       = "within"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	FlagDescOnce     = "Evaluate the widget once without a GUI and print the view as JSON"
	FlagDescRecord   = "Record identifier (vCard UID or FN) used with -once"
	FlagDescVCard    = "Path or http(s) URL of the vCard source used with -once"
	FlagDescWithin   = "Upcoming window in days used with -once"
	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Preferences
// -----------------------------------------------------------------------------

const (
	SettingsWindowWidth = 640

	PrefSourceMode  = "source_mode"
	PrefSourceURL   = "source_url"
	PrefUsername    = "username"
	PrefLocalPath   = "local_path"
	PrefRecordID    = "record_id"
	PrefWithinDays  = "within_days"
	PrefEmoticon    = "emoticon_code"
	PrefBackground  = "background_color_hex"
	PrefBorder      = "border_color_hex"
	PrefInterval    = "refresh_interval_min"
	PrefServerPort  = "server_port"
	PrefLastRun     = "last_run_version"
	PrefLabelPrefix = "label_"
)

// -----------------------------------------------------------------------------
// Birthday Card Window
// -----------------------------------------------------------------------------

const (
	CardWinWidth      = 420
	CardWinHeight     = 220
	CardBorderWidth   = 2
	CardCornerRadius  = 8
	EmoticonTextSize  = 42
	LogMsgOpenCard    = "Opening birthday card window"
	LogMsgCardRefresh = "Birthday card refreshed"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinSettings      = "win_settings_title"
	TKeyWinCard          = "win_card_title"
	TKeyMenuShow         = "menu_show"
	TKeyMenuRefresh      = "menu_refresh"
	TKeyMenuSettings     = "menu_settings"
	TKeyTrayUpcoming     = "tray_upcoming"      // Requires Name, Birthday
	TKeyTrayNone         = "tray_none"          // Nothing to announce
	TKeyCardHidden       = "card_hidden"        // Requires Name
	TKeyCardWaiting      = "card_waiting"       // Before data arrival
	TKeyTitleEmail       = "button_title_email" // Requires Name
	TKeyTitleCard        = "button_title_card"  // Requires Name
	TKeyModeCardDAV      = "mode_carddav"
	TKeyModeVCardURL     = "mode_vcard_url"
	TKeyModeLocal        = "mode_local"
	TKeyLblSource        = "lbl_source"
	TKeyLblURL           = "lbl_url"
	TKeyHelpURL          = "help_url"
	TKeyLblUser          = "lbl_user"
	TKeyLblPass          = "lbl_pass"
	TKeyBtnBrowse        = "btn_browse"
	TKeyLblWidget        = "lbl_widget"
	TKeyLblRecord        = "lbl_record"
	TKeyHelpRecord       = "help_record"
	TKeyLblWithin        = "lbl_within_days"
	TKeyHelpWithin       = "help_within_days"
	TKeyLblEmoticon      = "lbl_emoticon"
	TKeyHelpEmoticon     = "help_emoticon"
	TKeyLblBackground    = "lbl_background"
	TKeyLblBorder        = "lbl_border"
	TKeyLblLabels        = "lbl_labels"
	TKeyHelpLabels       = "help_labels"
	TKeyLblGeneral       = "lbl_general"
	TKeyLblRefresh       = "lbl_refresh_interval"
	TKeyHelpInterval     = "help_interval"
	TKeyLblMinutes       = "lbl_minutes_suffix"
	TKeyLblDays          = "lbl_days_suffix"
	TKeyLblPort          = "lbl_server_port"
	TKeyHelpPort         = "help_port"
	TKeyBtnSave          = "btn_save"
	TKeyBtnCancel        = "btn_cancel"
	TKeyLblFooter        = "lbl_footer"
	TKeyErrPortReq       = "err_port_required"
	TKeyErrPortNum       = "err_port_number"
	TKeyErrPortRange     = "err_port_range"
	TKeyErrWithinRange   = "err_within_range"
	TKeyLabelTemplatePfx = "label_template_"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeCardDAV = "carddav"
	SourceModeWeb     = "web"
	SourceModeLocal   = "local"
	DefaultPort       = "18081"
	DefaultRefreshMin = 60
	DefaultLanguage   = "en"
	DefaultWithinDays = 7
	MinWithinDays     = 1
	MaxWithinDays     = 366
	DefaultLeapYear   = 2000 // Leap year fallback for dates like --02-29
	DisabledInterval  = 0

	// Emoticon & colors
	EmoticonPrefix         = "&#x"
	DefaultEmoticonCode    = "1F973"
	EmoticonCodeLength     = 5
	DefaultBackgroundColor = "#cdefc4"
	DefaultBorderColor     = "#2e844a"
	HexColorMaxLength      = 7
	HexColorPrefix         = "#"
	FormatWrapperStyles    = "background-color: %s; border-color: %s;"

	// Label placeholders
	TokenFirstName = "{FirstName}"
	TokenBirthdate = "{Birthdate}"

	// Button icons
	IconEmail     = "email"
	IconSend      = "send"
	IconConfirmed = "check"

	// Action names
	ActionNameEmail = "email"
	ActionNameCard  = "card"

	// Birthday display
	FormatBirthday         = "%s %d"
	FormatBirthdayWithYear = "%s, %d"
	HoursPerDay            = 24
)

// Cron schedules for the background worker.
const (
	CronEveryMinutes = "@every %dm"
	CronDaily        = "@daily"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//Contact Birthday//Engine//EN"
	ICalCalName = "Upcoming Birthday"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "contactbirthday"

	PropUID        = "UID"
	PropSummary    = "SUMMARY"
	PropDTStart    = "DTSTART"
	PropDTStamp    = "DTSTAMP"
	PropRefresh    = "REFRESH-INTERVAL"
	PropVersion    = "VERSION"
	PropProdid     = "PRODID"
	PropXWRCalName = "X-WR-CALNAME"
	PropCalScale   = "CALSCALE"
	PropMethod     = "METHOD"

	VCardUID  = "UID"
	VCardBDAY = "BDAY"
	VCardFN   = "FN"

	DefaultICalRefresh = 1 * time.Hour

	// StubVCalendar is the minimal valid iCalendar object served while the component is hidden.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing vCard BDAY fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// Limits
	MinPort = 1
	MaxPort = 65535

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%d@%s"
	UIDSalt         = "contact-birthday-v1-"

	// File Extensions
	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	MaxHTTPResponseSize = 64 * 1024 * 1024 // 64MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteRoot           = "/"
	RouteFeed           = "/birthday.ics"
	RouteView           = "/view"
	RouteAction         = "/actions/{action}"
	RouteVarAction      = "action"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrLocalPathEmpty   = "configuration error: local path is empty"
	ErrWebURLEmpty      = "configuration error: web URL is empty"
	ErrRecordIDEmpty    = "configuration error: record identifier is empty"
	ErrFetcherMissing   = "internal error: network fetcher is not initialized"
	ErrSourceMissing    = "internal error: record source is not initialized"
	ErrModeUnsupport    = "configuration error: unsupported source mode"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrWithinRange      = "within days must be between 1 and 366"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrVCardParse       = "failed to parse vCard stream"
	ErrCardDAVConnect   = "failed to connect to CardDAV server"
	ErrCardDAVGet       = "failed to get address object"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrDateParse        = "unable to parse date"
	ErrRecordNotFound   = "contact not found"
	ErrMissingFirstName = "contact has no first name"
	ErrMissingBirthdate = "contact has no birthdate"
	ErrNotLoaded        = "contact data has not arrived yet"
	ErrAlreadySent      = "action already sent"
	ErrHidden           = "birthday is not upcoming, component is hidden"
	ErrUnknownAction    = "unknown action"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrTrayNotSupported = "system tray not supported on this platform/driver"
	ErrCronSchedule     = "failed to schedule refresh"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Contact loading, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgInternalErr  = "Internal Server Error"
)

// -----------------------------------------------------------------------------
// Fallbacks & Defaults
// -----------------------------------------------------------------------------

const (
	FallbackUnknownError = "Unknown error"
	FallbackMessageSep   = ", "
	FallbackTitleEmail   = "Send %s a Birthday email"
	FallbackTitleCard    = "Send %s a Birthday card"
	FallbackTrayNone     = "No upcoming birthday"
	FallbackTrayUpcoming = "%s: %s"
	FallbackTrayLabel    = "Contact Birthday"

	TitleLoadError    = "Error loading Contact"
	TitleStartupError = "Startup Error"

	// Default label templates.
	DefaultAnnouncementLabel = "{FirstName}'s birthday is coming up on {Birthdate}!"
	DefaultEmailButtonLabel  = "Send email"
	DefaultCardButtonLabel   = "Send card"
	DefaultEmailToastHeader  = "Email sent"
	DefaultEmailToastMessage = "A birthday email is on its way to {FirstName}."
	DefaultCardToastHeader   = "Card sent"
	DefaultCardToastMessage  = "A birthday card is on its way to {FirstName}."

	MsgPortBusy       = "Port %s is busy or unavailable."
	MsgLoadStarted    = "Loading contact"
	MsgLoadFailed     = "Loading contact failed"
	MsgLoadSuccess    = "Contact loaded"
	MsgLoadReq        = "Load requested"
	MsgActionSent     = "Birthday action sent"
	MsgActionIgnored  = "Birthday action ignored"
	MsgNotify         = "Notification emitted"
	MsgWorkerStart    = "Background worker started"
	MsgWorkerStop     = "Worker stopping due to context cancellation"
	MsgUpdateSchedule = "Updating refresh schedule"
	MsgAppStop        = "Application stopped gracefully"
	MsgCtxCancel      = "Context cancelled, shutting down UI"
	MsgSkippedCard    = "Skipping malformed vCard"
	MsgAppStarting    = "Starting application"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgFeedUpdated    = "Calendar feed updated"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgPassFail       = "Password retrieval failed (might be empty)"
	MsgLogWarning     = "Warning: %s at %s: %v\n"

	PlaceholderURL    = "https://..."
	PlaceholderRecord = "UID or full name"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyInterval  = "interval"
	LogKeyOld       = "old"
	LogKeyNew       = "new"
	LogKeyUser      = "user"
	LogKeyRecord    = "record_id"
	LogKeyAction    = "action"
	LogKeySeverity  = "severity"
	LogKeyTitle     = "title"
	LogKeyBirthday  = "birthday"
	LogKeyUpcoming  = "upcoming"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyManual    = "manual"
	LogKeyDuration  = "duration_ms"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI      = "ui"
	CompUISet   = "ui_settings"
	CompWidget  = "widget"
	CompSource  = "source"
	CompServer  = "server"
	CompFetcher = "fetcher"
	CompWorker  = "worker"
	CompMain    = "main"
	CompI18n    = "i18n"
)

// -----------------------------------------------------------------------------
// UI Layout Constants
// -----------------------------------------------------------------------------

const (
	LayoutColumnsDouble = 2
)
