package bot

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v3"

	"promoterbot/pkg/api"
	"promoterbot/pkg/logger"
	"promoterbot/pkg/models"
	"promoterbot/service"
)

// societyFetcher adapts the backend society listing to the search dropdown.
// Project and city scoping come from the login document and never change
// within one search session.
type societyFetcher struct {
	api       api.IClient
	chatID    int64
	limit     int
	projectID string
	cityID    string
}

func (f *societyFetcher) FetchSocieties(ctx context.Context, query string, page int) ([]models.Society, error) {
	return f.api.GetSocieties(ctx, f.chatID, api.SocietyQuery{
		Limit:     f.limit,
		Page:      page,
		Search:    query,
		ProjectID: f.projectID,
		CityID:    f.cityID,
	})
}

func (b *Bot) startLocationFlow(c tele.Context, auth *models.AuthData) error {
	session := b.session(c)
	if auth == nil {
		session.State = StatePhone
		return c.Send(messages["phone_prompt"])
	}

	session.Search = service.NewSocietySearch(&societyFetcher{
		api:       b.API,
		chatID:    c.Sender().ID,
		limit:     b.Cfg.SearchPageLimit,
		projectID: auth.ProjectID,
		cityID:    auth.CityID,
	}, nil, b.Log)
	session.PendingLoc = nil
	session.State = StateSocietySearch

	return c.Send(messages["loc_prompt"], tele.RemoveKeyboard)
}

func (b *Bot) handleSocietySearchInput(c tele.Context, session *UserSession) error {
	if session.Search == nil {
		return b.handleStart(c)
	}

	session.Search.SetText(context.Background(), c.Text())
	return b.sendSocietyResults(c, session, false)
}

// sendSocietyResults renders the dropdown as an inline keyboard, one row per
// society, plus a More row while the end of the list hasn't been seen.
func (b *Bot) sendSocietyResults(c tele.Context, session *UserSession, edit bool) error {
	results := session.Search.Results()
	if len(results) == 0 {
		if edit {
			return c.Edit(messages["loc_none"])
		}
		return c.Send(messages["loc_none"])
	}

	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(results)+1)
	for _, society := range results {
		label := society.Name
		if society.Activity.Name != "" {
			label = fmt.Sprintf("%s · %s", society.Name, society.Activity.Name)
		}
		rows = append(rows, markup.Row(markup.Data(label, "soc_pick", society.ID)))
	}
	if session.Search.HasMore() {
		rows = append(rows, markup.Row(markup.Data("⬇️ More", "soc_more")))
	}
	markup.Inline(rows...)

	text := fmt.Sprintf("🔎 Societies matching %q:", session.Search.Text())
	if edit {
		return c.Edit(text, markup)
	}
	return c.Send(text, markup)
}

func (b *Bot) handleSocietyMore(c tele.Context, session *UserSession) error {
	if session.Search == nil {
		return c.Respond()
	}
	session.Search.More(context.Background())
	c.Respond()
	return b.sendSocietyResults(c, session, true)
}

func (b *Bot) handleSocietyPick(c tele.Context, session *UserSession, societyID string) error {
	if session.Search == nil {
		return c.Respond()
	}

	var picked *models.Society
	for _, society := range session.Search.Results() {
		if society.ID == societyID {
			s := society
			picked = &s
			break
		}
	}
	if picked == nil {
		return c.Respond(&tele.CallbackResponse{Text: messages["something_wrong"]})
	}

	_, auth, _ := b.Svc.Session().Resolve(context.Background(), c.Sender().ID)
	loc := &models.LocationData{
		ActivityLocID:   picked.ID,
		ActivityLocName: picked.Name,
		ActivityID:      picked.Activity.ID,
	}
	if auth != nil {
		loc.CityID = auth.CityID
		loc.CityName = auth.CityName
	}
	session.PendingLoc = loc
	session.Search.Select(*picked)

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("✅ Confirm", "loc_yes"),
		markup.Data("↩️ Back", "loc_no"),
	))
	c.Respond()
	return c.Edit(fmt.Sprintf(messages["loc_confirm"], picked.Name), markup)
}

func (b *Bot) handleLocationConfirm(c tele.Context, session *UserSession, confirmed bool) error {
	c.Respond()

	if !confirmed || session.PendingLoc == nil {
		session.PendingLoc = nil
		if session.Search != nil {
			session.Search.Reset()
		}
		return c.Edit(messages["loc_prompt"])
	}

	ctx := context.Background()
	loc := session.PendingLoc
	if err := b.Svc.Session().SelectLocation(ctx, c.Sender().ID, loc); err != nil {
		b.Log.Error("select location failed", logger.Error(err), logger.Int64("chat_id", c.Sender().ID))
		return c.Edit(messages["loc_save_failed"])
	}

	session.PendingLoc = nil
	session.Search = nil
	session.State = StateIdle

	c.Edit(fmt.Sprintf(messages["loc_saved"], loc.ActivityLocName))
	return b.showMenu(c, loc)
}
