package bot

import (
	"strings"

	tele "gopkg.in/telebot.v3"

	"promoterbot/service"
)

// handleCallback routes inline button presses. Telebot encodes button data
// as "\f<unique>|<payload>".
func (b *Bot) handleCallback(c tele.Context) error {
	data := strings.TrimPrefix(c.Callback().Data, "\f")
	unique, payload := data, ""
	if i := strings.Index(data, "|"); i >= 0 {
		unique, payload = data[:i], data[i+1:]
	}

	session := b.session(c)
	switch unique {
	case "resend_otp":
		return b.handleResendOTP(c, session)
	case "soc_pick":
		return b.handleSocietyPick(c, session, payload)
	case "soc_more":
		return b.handleSocietyMore(c, session)
	case "loc_yes":
		return b.handleLocationConfirm(c, session, true)
	case "loc_no":
		return b.handleLocationConfirm(c, session, false)
	case "tab_today":
		return b.handleDashboardTab(c, session, service.ScopeToday)
	case "tab_all":
		return b.handleDashboardTab(c, session, service.ScopeAll)
	case "feed_more":
		return b.handleFeedMore(c, session)
	case "entry_skip":
		return b.handleEntrySkip(c, session, payload)
	case "upload_done":
		return b.handleUploadDone(c, session)
	case "upload_cancel":
		return b.handleUploadCancel(c, session)
	}
	return c.Respond()
}
