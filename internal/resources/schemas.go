package resources

import (
	"github.com/castlekeep/castlectl/internal/admin/api"
	"github.com/castlekeep/castlectl/internal/admin/helpers"
	"github.com/castlekeep/castlectl/internal/console/datatable"
	"github.com/castlekeep/castlectl/internal/console/format"
	"github.com/castlekeep/castlectl/internal/console/pagectl"
)

const progressBarWidth = 10

func Users() Resource {
	return Resource{
		Name:    "users",
		Aliases: []string{"user", "u"},
		Title:   "Users",
		Noun:    "user",
		Columns: []datatable.Column{
			{Key: "id", Label: "ID", MaxWidth: 36},
			{Key: "name", Label: "Name", Render: textOr(format.NotAvailable)},
			{Key: "email", Label: "Email"},
			{Key: "createdAt", Label: "Created At", Render: date},
		},
		Details: []DetailField{
			{Label: "ID", Render: field("id", format.Dash)},
			{Label: "Name", Render: field("name", format.NotAvailable)},
			{Label: "Email", Render: field("email", format.Dash)},
			{Label: "Created At", Render: timestamp("createdAt")},
		},
		EditFields: []pagectl.EditField{
			{Key: "name", Label: "Name"},
			{Key: "email", Label: "Email", Kind: pagectl.FieldEmail},
		},
		Actions:     []Action{ActionView, ActionEdit, ActionDelete},
		Binding:     func(a helpers.AdminAPI) api.ResourceAPI { return a.GetUsersAPI() },
		Placeholder: format.Dash,
	}
}

func FocusSessions() Resource {
	return Resource{
		Name:    "focus-sessions",
		Aliases: []string{"focus-session", "sessions", "session", "fs"},
		Title:   "Focus Sessions",
		Noun:    "focus session",
		Columns: []datatable.Column{
			{Key: "id", Label: "Session ID", MaxWidth: 36},
			{Key: "userId", Label: "User ID", MaxWidth: 36},
			{Key: "durationMinutes", Label: "Duration", Render: duration},
			{Key: "isCompleted", Label: "Status", Render: status},
			{Key: "earnedCoins", Label: "Rewards", Render: rewards},
			{Key: "startTime", Label: "Start Time", Render: dateTime},
		},
		Details: []DetailField{
			{Label: "Session ID", Render: field("id", format.Dash)},
			{Label: "User ID", Render: field("userId", format.Dash)},
			{Label: "Duration", Render: func(rec api.Record) string { return duration(nil, rec) }},
			{Label: "Status", Render: func(rec api.Record) string { return format.Status(rec.Bool("isCompleted")) }},
			{Label: "Rewards", Render: func(rec api.Record) string { return rewards(nil, rec) }},
			{Label: "Start Time", Render: timestamp("startTime")},
			{Label: "End Time", Render: timestamp("endTime")},
			{Label: "Created At", Render: timestamp("createdAt")},
		},
		Actions:     []Action{ActionView, ActionDelete},
		Binding:     func(a helpers.AdminAPI) api.ResourceAPI { return a.GetFocusSessionsAPI() },
		Placeholder: format.Dash,
	}
}

func CastleGrounds() Resource {
	return Resource{
		Name:    "castle-grounds",
		Aliases: []string{"castle-ground", "castles", "castle", "cg"},
		Title:   "Castle Grounds",
		Noun:    "castle",
		Columns: []datatable.Column{
			{Key: "id", Label: "Castle ID", MaxWidth: 36},
			{Key: "userId", Label: "User ID", MaxWidth: 36},
			{Key: "level", Label: "Level"},
			{Key: "levelName", Label: "Level Name"},
			{Key: "coins", Label: "Resources", Render: resources},
			{Key: "progressPercentage", Label: "Progress", Render: progress},
			{Key: "updatedAt", Label: "Last Updated", Render: dateTime},
		},
		Details: []DetailField{
			{Label: "Castle ID", Render: field("id", format.Dash)},
			{Label: "User ID", Render: field("userId", format.Dash)},
			{Label: "Level", Render: field("level", format.Dash)},
			{Label: "Level Name", Render: field("levelName", format.Dash)},
			{Label: "Coins", Render: count("coins")},
			{Label: "Stones", Render: count("stones")},
			{Label: "Wood", Render: count("wood")},
			{Label: "Progress", Render: func(rec api.Record) string {
				pct, _ := rec.Float("progressPercentage")
				return format.Percent(pct)
			}},
			{Label: "Last Updated", Render: timestamp("updatedAt")},
		},
		EditFields: []pagectl.EditField{
			{Key: "level", Label: "Level", Kind: pagectl.FieldNumber},
			{Key: "coins", Label: "Coins", Kind: pagectl.FieldNumber},
			{Key: "stones", Label: "Stones", Kind: pagectl.FieldNumber},
			{Key: "wood", Label: "Wood", Kind: pagectl.FieldNumber},
		},
		Actions:     []Action{ActionView, ActionEdit},
		Binding:     func(a helpers.AdminAPI) api.ResourceAPI { return a.GetCastleGroundsAPI() },
		Placeholder: format.Dash,
	}
}

func textOr(fallback string) datatable.RenderFunc {
	return func(v any, _ api.Record) string {
		return format.OrElse(api.Stringify(v), fallback)
	}
}

func date(v any, _ api.Record) string { return format.Date(v) }

func dateTime(v any, _ api.Record) string { return format.DateTime(v) }

func duration(_ any, rec api.Record) string { return format.Duration(rec.Int("totalSeconds")) }

func status(v any, _ api.Record) string {
	return format.Status(api.ParseBool(v))
}

func rewards(_ any, rec api.Record) string {
	return format.Resources(rec.Int("earnedCoins"), rec.Int("earnedStones"), rec.Int("earnedWood"))
}

func resources(_ any, rec api.Record) string {
	return format.Resources(rec.Int("coins"), rec.Int("stones"), rec.Int("wood"))
}

func progress(v any, _ api.Record) string {
	pct, _ := api.ParseFloat(v)
	return format.ProgressBar(pct, progressBarWidth) + " " + format.Percent(pct)
}

func field(key, fallback string) func(api.Record) string {
	return func(rec api.Record) string { return format.OrElse(rec.String(key), fallback) }
}

func timestamp(key string) func(api.Record) string {
	return func(rec api.Record) string { return format.DateTime(rec.Value(key)) }
}

func count(key string) func(api.Record) string {
	return func(rec api.Record) string { return format.Thousands(rec.Int(key)) }
}
