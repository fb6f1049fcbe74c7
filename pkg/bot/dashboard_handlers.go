package bot

import (
	"context"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"promoterbot/pkg/api"
	"promoterbot/pkg/logger"
	"promoterbot/pkg/models"
	"promoterbot/service"
)

// dashboardFetcher adapts the combined dashboard endpoint to the per-scope
// feed. The endpoint pages both lists in one call, so the page for the
// requested scope varies and the other stays at 1.
type dashboardFetcher struct {
	api    api.IClient
	chatID int64
	keys   service.FeedKeys
	limit  int
}

func (f *dashboardFetcher) FetchPage(ctx context.Context, scope service.Scope, page int) (service.EntryPage, error) {
	q := api.DashboardQuery{
		ActivityLocID: f.keys.ActivityLocID,
		PromoterID:    f.keys.PromoterID,
		TodaysPage:    1,
		TotalPage:     1,
		TodaysLimit:   f.limit,
		TotalLimit:    f.limit,
	}
	if scope == service.ScopeToday {
		q.TodaysPage = page
	} else {
		q.TotalPage = page
	}

	data, err := f.api.GetDashboard(ctx, f.chatID, q)
	if err != nil {
		return service.EntryPage{}, err
	}
	if scope == service.ScopeToday {
		return service.EntryPage{Items: data.TodaysEntries, TotalCount: data.TodaysPagination.TotalCount}, nil
	}
	return service.EntryPage{Items: data.TotalEntries, TotalCount: data.TotalPagination.TotalCount}, nil
}

func (b *Bot) handleDashboard(c tele.Context) error {
	ctx := context.Background()
	session := b.session(c)

	state, auth, loc := b.Svc.Session().Resolve(ctx, c.Sender().ID)
	if state != models.AuthenticatedWithLocation {
		return b.handleStart(c)
	}

	if session.Feed == nil {
		keys := service.FeedKeys{PromoterID: auth.PromoterID, ActivityLocID: loc.ActivityLocID}
		session.Feed = service.NewEntryFeed(&dashboardFetcher{
			api:    b.API,
			chatID: c.Sender().ID,
			keys:   keys,
			limit:  b.Cfg.PageLimit,
		}, b.Log)
		session.Feed.Bind(keys)
		session.ActiveTab = service.ScopeToday
	}

	return b.showDashboard(c, session, loc, false)
}

// showDashboard loads the active tab on first view and renders it. Later
// views reuse the accumulated list.
func (b *Bot) showDashboard(c tele.Context, session *UserSession, loc *models.LocationData, edit bool) error {
	ctx := context.Background()

	if !session.Feed.Loaded(session.ActiveTab) {
		if err := session.Feed.Refresh(ctx, session.ActiveTab); err != nil {
			b.Log.Error("dashboard load failed", logger.Error(err), logger.Int64("chat_id", c.Sender().ID))
			if edit {
				return c.Edit(messages["something_wrong"])
			}
			return c.Send(messages["something_wrong"])
		}
	}

	text := b.renderDashboard(session, loc)
	markup := b.dashboardMarkup(session)
	if edit {
		return c.Edit(text, markup)
	}
	return c.Send(text, markup)
}

func (b *Bot) renderDashboard(session *UserSession, loc *models.LocationData) string {
	var sb strings.Builder

	name := ""
	if loc != nil {
		name = loc.ActivityLocName
	}
	fmt.Fprintf(&sb, messages["dash_header"], name, session.Feed.TotalCount(service.ScopeToday))
	sb.WriteString("\n\n")

	if session.ActiveTab == service.ScopeToday {
		sb.WriteString("— Today's Entries —\n")
	} else {
		fmt.Fprintf(&sb, "— All Entries (%d) —\n", session.Feed.TotalCount(service.ScopeAll))
	}

	items := session.Feed.Items(session.ActiveTab)
	if len(items) == 0 {
		sb.WriteString(messages["dash_empty"])
		return sb.String()
	}

	for i, entry := range items {
		name := entry.CustomerName
		if name == "" {
			name = "—"
		}
		fmt.Fprintf(&sb, "%d. %s", i+1, name)
		if entry.CustomerPhone != "" {
			fmt.Fprintf(&sb, " · %s", entry.CustomerPhone)
		}
		if entry.CashbackAmount != "" {
			fmt.Fprintf(&sb, " · ₹%s", entry.CashbackAmount)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (b *Bot) dashboardMarkup(session *UserSession) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	todayLabel := "Today"
	allLabel := "All"
	if session.ActiveTab == service.ScopeToday {
		todayLabel = "• Today •"
	} else {
		allLabel = "• All •"
	}

	rows := []tele.Row{
		markup.Row(
			markup.Data(todayLabel, "tab_today"),
			markup.Data(allLabel, "tab_all"),
		),
	}
	if session.Feed.HasMore(session.ActiveTab) {
		rows = append(rows, markup.Row(markup.Data("⬇️ Load more", "feed_more")))
	}
	markup.Inline(rows...)
	return markup
}

func (b *Bot) handleDashboardTab(c tele.Context, session *UserSession, tab service.Scope) error {
	c.Respond()
	if session.Feed == nil {
		return b.handleDashboard(c)
	}

	session.ActiveTab = tab
	_, _, loc := b.Svc.Session().Resolve(context.Background(), c.Sender().ID)
	return b.showDashboard(c, session, loc, true)
}

func (b *Bot) handleFeedMore(c tele.Context, session *UserSession) error {
	c.Respond()
	if session.Feed == nil {
		return b.handleDashboard(c)
	}

	ctx := context.Background()
	if err := session.Feed.LoadMore(ctx, session.ActiveTab); err != nil {
		b.Log.Error("load more failed", logger.Error(err), logger.Int64("chat_id", c.Sender().ID))
		return c.Send(messages["something_wrong"])
	}

	_, _, loc := b.Svc.Session().Resolve(ctx, c.Sender().ID)
	text := b.renderDashboard(session, loc)
	return c.Edit(text, b.dashboardMarkup(session))
}
