package bot

import (
	"context"
	"time"

	tele "gopkg.in/telebot.v3"

	"promoterbot/config"
	"promoterbot/pkg/api"
	"promoterbot/pkg/logger"
	"promoterbot/pkg/models"
	"promoterbot/service"
	"promoterbot/storage"
)

const (
	StateIdle = "idle"

	StatePhone = "awaiting_phone"
	StateOTP   = "awaiting_otp"

	StateSocietySearch = "awaiting_society_search"

	StateEntryName         = "awaiting_entry_name"
	StateEntryPhone        = "awaiting_entry_phone"
	StateEntryOrderPhoto   = "awaiting_order_photo"
	StateEntryProfilePhoto = "awaiting_profile_photo"

	StateUploadPhotos = "awaiting_upload_photos"
)

// UserSession is the per-chat conversation state. The durable session
// documents live in storage; everything here is rebuilt on restart.
type UserSession struct {
	State     string
	Phone     string
	OTPSentAt time.Time

	Search     *service.SocietySearch
	PendingLoc *models.LocationData

	Feed      *service.EntryFeed
	ActiveTab service.Scope

	Entry  *EntryDraft
	Upload *UploadDraft
}

type Bot struct {
	Bot      *tele.Bot
	Cfg      *config.Config
	Log      logger.ILogger
	Stg      storage.IStorage
	Svc      service.IServiceManager
	API      api.IClient
	Sessions map[int64]*UserSession
}

func New(cfg *config.Config, stg storage.IStorage, svc service.IServiceManager, client *api.Client, log logger.ILogger) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.TelegramBotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}
	bot := &Bot{
		Bot:      b,
		Cfg:      cfg,
		Log:      log,
		Stg:      stg,
		Svc:      svc,
		API:      client,
		Sessions: make(map[int64]*UserSession),
	}
	client.OnSessionFault(bot.handleSessionFault)
	bot.registerHandlers()
	return bot, nil
}

func (b *Bot) Start() {
	b.Log.Info("🤖 Promoter bot started...")
	b.Bot.Start()
}

func (b *Bot) Stop() {
	b.Bot.Stop()
}

var messages = map[string]string{
	"welcome":          "👋 Welcome! Log in with your registered mobile number.",
	"phone_prompt":     "📱 Enter your 10-digit mobile number:",
	"phone_invalid":    "❌ Please enter a valid 10-digit mobile number.",
	"otp_prompt":       "🔐 We've sent a 6-digit OTP to +91 %s. Enter it here:",
	"otp_invalid":      "❌ Please enter a valid 6-digit OTP.",
	"otp_sent":         "📨 A new OTP has been sent to your number.",
	"otp_wait":         "⏳ Please wait %d seconds before requesting a new OTP.",
	"login_ok":         "🎉 Logged in successfully!",
	"loc_prompt":       "🏢 Type part of your society's name to search.\n\nNote: the selection cannot be changed later.",
	"loc_none":         "📭 No societies matched your search.",
	"loc_confirm":      "You've selected %s. This cannot be changed later. Confirm?",
	"loc_saved":        "✅ Location saved: %s",
	"loc_save_failed":  "❌ Failed to save your selection. Please try again.",
	"dash_header":      "🏢 %s\n📊 Today's entries: %d",
	"dash_empty":       "No entries available",
	"entry_name":       "👤 Customer name? (optional)",
	"entry_phone":      "📞 Customer phone? (optional, 10 digits)",
	"entry_order_img":  "🧾 Send a photo of the order (required):",
	"entry_prof_img":   "🪪 Send a profile photo, or skip:",
	"entry_need_img":   "❌ Please upload the order image.",
	"entry_created":    "✅ Entry created!",
	"upload_prompt":    "🖼 Send one or more event photos, then tap Done.",
	"upload_need_img":  "❌ Please upload at least one image.",
	"upload_ok":        "✅ Images uploaded successfully!",
	"logout_ok":        "👋 You have been logged out.",
	"reset_ok":         "⚙️ Location selection cleared. Pick a new society.",
	"session_fault":    "⚠️ Your session is no longer valid. Please log in again.",
	"something_wrong":  "Something went wrong. Please try again.",
	"menu":             "What would you like to do?",
	"phone_len_error":  "❌ Phone number must be exactly 10 digits.",
	"cancelled":        "❌ Cancelled.",
}

const (
	btnDashboard = "📊 Dashboard"
	btnNewEntry  = "➕ New Entry"
	btnUpload    = "🖼 Upload Images"
	btnReset     = "⚙️ Reset Settings"
	btnLogout    = "🚪 Logout"
)

func (b *Bot) registerHandlers() {
	b.Bot.Handle("/start", b.handleStart)

	b.Bot.Handle(btnDashboard, b.handleDashboard)
	b.Bot.Handle(btnNewEntry, b.handleEntryStart)
	b.Bot.Handle(btnUpload, b.handleUploadStart)
	b.Bot.Handle(btnReset, b.handleResetSettings)
	b.Bot.Handle(btnLogout, b.handleLogout)

	b.Bot.Handle(tele.OnText, b.handleText)
	b.Bot.Handle(tele.OnPhoto, b.handlePhoto)
	b.Bot.Handle(tele.OnCallback, b.handleCallback)
}

func (b *Bot) session(c tele.Context) *UserSession {
	id := c.Sender().ID
	s, ok := b.Sessions[id]
	if !ok {
		s = &UserSession{State: StateIdle}
		b.Sessions[id] = s
	}
	return s
}

// handleStart re-runs the session gate and routes the chat. The phone/OTP
// states never force back to login, so a mid-login chat cannot loop.
func (b *Bot) handleStart(c tele.Context) error {
	ctx := context.Background()
	session := b.session(c)

	state, auth, loc := b.Svc.Session().Resolve(ctx, c.Sender().ID)
	switch state {
	case models.Unauthenticated:
		if session.State == StatePhone || session.State == StateOTP {
			return nil
		}
		session.State = StatePhone
		c.Send(messages["welcome"], tele.RemoveKeyboard)
		return c.Send(messages["phone_prompt"])
	case models.AuthenticatedNoLocation:
		return b.startLocationFlow(c, auth)
	default:
		return b.showMenu(c, loc)
	}
}

func (b *Bot) showMenu(c tele.Context, loc *models.LocationData) error {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}
	menu.Reply(
		menu.Row(menu.Text(btnDashboard), menu.Text(btnNewEntry)),
		menu.Row(menu.Text(btnUpload)),
		menu.Row(menu.Text(btnReset), menu.Text(btnLogout)),
	)
	title := messages["menu"]
	if loc != nil && loc.ActivityLocName != "" {
		title = "🏢 " + loc.ActivityLocName + "\n" + messages["menu"]
	}
	return c.Send(title, menu)
}

func (b *Bot) handleText(c tele.Context) error {
	session := b.session(c)

	switch session.State {
	case StatePhone:
		return b.handlePhoneInput(c, session)
	case StateOTP:
		return b.handleOTPInput(c, session)
	case StateSocietySearch:
		return b.handleSocietySearchInput(c, session)
	case StateEntryName:
		return b.handleEntryNameInput(c, session)
	case StateEntryPhone:
		return b.handleEntryPhoneInput(c, session)
	}
	return nil
}

func (b *Bot) handlePhoto(c tele.Context) error {
	session := b.session(c)

	switch session.State {
	case StateEntryOrderPhoto:
		return b.handleOrderPhoto(c, session)
	case StateEntryProfilePhoto:
		return b.handleProfilePhoto(c, session)
	case StateUploadPhotos:
		return b.handleUploadPhoto(c, session)
	}
	return nil
}

// handleSessionFault is wired into the API client: by the time it fires,
// both persisted documents are already cleared.
func (b *Bot) handleSessionFault(ctx context.Context, chatID int64) {
	if session, ok := b.Sessions[chatID]; ok {
		session.State = StatePhone
		session.Feed = nil
		session.Search = nil
		session.PendingLoc = nil
		session.Entry = nil
		session.Upload = nil
	}
	b.Bot.Send(&tele.User{ID: chatID}, messages["session_fault"], tele.RemoveKeyboard)
	b.Bot.Send(&tele.User{ID: chatID}, messages["phone_prompt"])
}

func (b *Bot) handleLogout(c tele.Context) error {
	ctx := context.Background()
	session := b.session(c)

	b.Svc.Session().Logout(ctx, c.Sender().ID)
	session.State = StatePhone
	session.Feed = nil
	session.Search = nil
	session.PendingLoc = nil
	session.Entry = nil
	session.Upload = nil

	c.Send(messages["logout_ok"], tele.RemoveKeyboard)
	return c.Send(messages["phone_prompt"])
}

func (b *Bot) handleResetSettings(c tele.Context) error {
	ctx := context.Background()
	session := b.session(c)

	b.Svc.Session().ResetLocation(ctx, c.Sender().ID)
	session.Feed = nil
	c.Send(messages["reset_ok"], tele.RemoveKeyboard)

	_, auth, _ := b.Svc.Session().Resolve(ctx, c.Sender().ID)
	return b.startLocationFlow(c, auth)
}
