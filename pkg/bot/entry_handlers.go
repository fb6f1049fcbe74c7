package bot

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	tele "gopkg.in/telebot.v3"

	"promoterbot/pkg/api"
	"promoterbot/pkg/logger"
	"promoterbot/pkg/models"
)

// EntryDraft collects one order entry across the conversation steps. Name
// and phone are optional, the order photo is not.
type EntryDraft struct {
	Name         string
	Phone        string
	OrderPhoto   *tele.Photo
	ProfilePhoto *tele.Photo
}

func (b *Bot) handleEntryStart(c tele.Context) error {
	ctx := context.Background()
	session := b.session(c)

	state, _, _ := b.Svc.Session().Resolve(ctx, c.Sender().ID)
	if state != models.AuthenticatedWithLocation {
		return b.handleStart(c)
	}

	session.Entry = &EntryDraft{}
	session.State = StateEntryName
	return c.Send(messages["entry_name"], skipMarkup("name"))
}

func skipMarkup(step string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("⏭ Skip", "entry_skip", step)))
	return markup
}

func (b *Bot) handleEntryNameInput(c tele.Context, session *UserSession) error {
	if session.Entry == nil {
		return b.handleStart(c)
	}
	session.Entry.Name = strings.TrimSpace(c.Text())
	session.State = StateEntryPhone
	return c.Send(messages["entry_phone"], skipMarkup("phone"))
}

func (b *Bot) handleEntryPhoneInput(c tele.Context, session *UserSession) error {
	if session.Entry == nil {
		return b.handleStart(c)
	}
	phone := strings.TrimSpace(c.Text())
	if !phonePattern.MatchString(phone) {
		return c.Send(messages["phone_len_error"])
	}
	session.Entry.Phone = phone
	session.State = StateEntryOrderPhoto
	return c.Send(messages["entry_order_img"])
}

func (b *Bot) handleEntrySkip(c tele.Context, session *UserSession, step string) error {
	c.Respond()
	if session.Entry == nil {
		return b.handleStart(c)
	}

	switch step {
	case "name":
		session.State = StateEntryPhone
		return c.Send(messages["entry_phone"], skipMarkup("phone"))
	case "phone":
		session.State = StateEntryOrderPhoto
		return c.Send(messages["entry_order_img"])
	case "profile":
		return b.submitEntry(c, session)
	}
	return nil
}

func (b *Bot) handleOrderPhoto(c tele.Context, session *UserSession) error {
	if session.Entry == nil {
		return b.handleStart(c)
	}
	session.Entry.OrderPhoto = c.Message().Photo
	session.State = StateEntryProfilePhoto
	return c.Send(messages["entry_prof_img"], skipMarkup("profile"))
}

func (b *Bot) handleProfilePhoto(c tele.Context, session *UserSession) error {
	if session.Entry == nil {
		return b.handleStart(c)
	}
	session.Entry.ProfilePhoto = c.Message().Photo
	return b.submitEntry(c, session)
}

// submitEntry validates the draft, pulls the photos from Telegram and posts
// the multipart entry. Validation failures never reach the network.
func (b *Bot) submitEntry(c tele.Context, session *UserSession) error {
	ctx := context.Background()
	draft := session.Entry

	if draft.OrderPhoto == nil {
		session.State = StateEntryOrderPhoto
		return c.Send(messages["entry_need_img"])
	}

	state, auth, loc := b.Svc.Session().Resolve(ctx, c.Sender().ID)
	if state != models.AuthenticatedWithLocation {
		return b.handleStart(c)
	}

	orderReader, err := b.Bot.File(&draft.OrderPhoto.File)
	if err != nil {
		b.Log.Error("order photo download failed", logger.Error(err), logger.Int64("chat_id", c.Sender().ID))
		return c.Send(messages["something_wrong"])
	}
	defer orderReader.Close()

	req := api.CreateOrderRequest{
		Name:          draft.Name,
		Phone:         draft.Phone,
		PromoterID:    auth.PromoterID,
		ProjectID:     auth.ProjectID,
		ActivityLocID: loc.ActivityLocID,
		VendorID:      auth.VendorID,
		ActivityID:    loc.ActivityID,
		OrderImage:    api.ImagePart{FileName: uuid.NewString() + ".jpg", Reader: orderReader},
	}

	var profileReader io.ReadCloser
	if draft.ProfilePhoto != nil {
		profileReader, err = b.Bot.File(&draft.ProfilePhoto.File)
		if err != nil {
			b.Log.Error("profile photo download failed", logger.Error(err), logger.Int64("chat_id", c.Sender().ID))
			return c.Send(messages["something_wrong"])
		}
		defer profileReader.Close()
		req.ProfileImage = &api.ImagePart{FileName: uuid.NewString() + ".jpg", Reader: profileReader}
	}

	if _, err := b.API.CreateOrderEntry(ctx, c.Sender().ID, req); err != nil {
		b.Log.Error("create entry failed", logger.Error(err), logger.Int64("chat_id", c.Sender().ID))
		return c.Send(err.Error())
	}

	session.Entry = nil
	session.State = StateIdle
	if session.Feed != nil {
		// Force a reload so the new entry shows on the next dashboard view.
		session.Feed = nil
	}

	c.Send(messages["entry_created"])
	return b.showMenu(c, loc)
}
