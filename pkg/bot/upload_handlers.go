package bot

import (
	"context"
	"io"

	"github.com/google/uuid"
	tele "gopkg.in/telebot.v3"

	"promoterbot/pkg/api"
	"promoterbot/pkg/logger"
	"promoterbot/pkg/models"
)

// UploadDraft collects event photos for a bulk upload.
type UploadDraft struct {
	Photos []*tele.Photo
}

func uploadMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("✅ Done", "upload_done"),
		markup.Data("❌ Cancel", "upload_cancel"),
	))
	return markup
}

func (b *Bot) handleUploadStart(c tele.Context) error {
	ctx := context.Background()
	session := b.session(c)

	state, _, _ := b.Svc.Session().Resolve(ctx, c.Sender().ID)
	if state != models.AuthenticatedWithLocation {
		return b.handleStart(c)
	}

	session.Upload = &UploadDraft{}
	session.State = StateUploadPhotos
	return c.Send(messages["upload_prompt"], uploadMarkup())
}

func (b *Bot) handleUploadPhoto(c tele.Context, session *UserSession) error {
	if session.Upload == nil {
		return b.handleStart(c)
	}
	session.Upload.Photos = append(session.Upload.Photos, c.Message().Photo)
	return c.Send("📷 Added. Send more or tap Done.", uploadMarkup())
}

func (b *Bot) handleUploadDone(c tele.Context, session *UserSession) error {
	c.Respond()
	if session.Upload == nil {
		return b.handleStart(c)
	}
	if len(session.Upload.Photos) == 0 {
		return c.Send(messages["upload_need_img"], uploadMarkup())
	}

	ctx := context.Background()
	state, _, loc := b.Svc.Session().Resolve(ctx, c.Sender().ID)
	if state != models.AuthenticatedWithLocation {
		return b.handleStart(c)
	}

	req := api.UploadImagesRequest{ActivityLocID: loc.ActivityLocID}
	var readers []io.ReadCloser
	defer func() {
		for _, r := range readers {
			r.Close()
		}
	}()

	for _, photo := range session.Upload.Photos {
		r, err := b.Bot.File(&photo.File)
		if err != nil {
			b.Log.Error("event photo download failed", logger.Error(err), logger.Int64("chat_id", c.Sender().ID))
			return c.Send(messages["something_wrong"])
		}
		readers = append(readers, r)
		req.Images = append(req.Images, api.ImagePart{FileName: uuid.NewString() + ".jpg", Reader: r})
	}

	if _, err := b.API.UploadImages(ctx, c.Sender().ID, req); err != nil {
		b.Log.Error("upload images failed", logger.Error(err), logger.Int64("chat_id", c.Sender().ID))
		return c.Send(err.Error())
	}

	session.Upload = nil
	session.State = StateIdle

	c.Send(messages["upload_ok"])
	return b.showMenu(c, loc)
}

func (b *Bot) handleUploadCancel(c tele.Context, session *UserSession) error {
	c.Respond()
	session.Upload = nil
	session.State = StateIdle

	_, _, loc := b.Svc.Session().Resolve(context.Background(), c.Sender().ID)
	c.Send(messages["cancelled"])
	return b.showMenu(c, loc)
}
