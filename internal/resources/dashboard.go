package resources

import (
	"math"

	"github.com/castlekeep/castlectl/internal/admin/api"
	"github.com/castlekeep/castlectl/internal/console/datatable"
	"github.com/castlekeep/castlectl/internal/console/format"
)

// StatCard is one headline number on the dashboard.
type StatCard struct {
	Title  string
	Render func(stats api.Record) string
}

// StatCards lists the dashboard numbers in display order. A card whose
// source value is missing renders format.Dash.
func StatCards() []StatCard {
	return []StatCard{
		{Title: "Total Users", Render: statCount("totalUsers")},
		{Title: "Active Users", Render: statCount("activeUsers")},
		{Title: "Focus Sessions", Render: statCount("totalFocusSessions")},
		{Title: "Total Focus Hours", Render: func(stats api.Record) string {
			hours, ok := stats.Float("totalFocusHours")
			if !ok {
				return format.Dash
			}
			return format.Decimal(hours, 1)
		}},
		{Title: "Castles Built", Render: statCount("totalCastles")},
		{Title: "Treasure Chests", Render: statCount("totalTreasureChests")},
		{Title: "Total Study Minutes", Render: func(stats api.Record) string {
			hours, ok := stats.Float("totalFocusHours")
			if !ok {
				return format.Dash
			}
			return format.Thousands(int64(math.Round(hours * 60)))
		}},
	}
}

// DescribeStats pairs every stat card title with its rendered value.
func DescribeStats(stats api.Record) [][2]string {
	cards := StatCards()
	out := make([][2]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, [2]string{c.Title, c.Render(stats)})
	}
	return out
}

func statCount(key string) func(api.Record) string {
	return func(stats api.Record) string {
		n, ok := stats.Float(key)
		if !ok {
			return format.Dash
		}
		return format.Thousands(int64(n))
	}
}

// Activity rows come from several event sources, so each column reads the
// first of a few candidate keys.
var (
	activityUser = []string{"username", "userName", "name", "userId"}
	activityText = []string{"message", "description", "action"}
	activityTime = []string{"createdAt", "timestamp", "time"}
)

func ActivityColumns() []datatable.Column {
	return []datatable.Column{
		{Key: "type", Label: "Type", MaxWidth: 20},
		{Key: "user", Label: "User", MaxWidth: 24, Render: firstOf(activityUser...)},
		{Key: "message", Label: "Activity", Render: firstOf(activityText...)},
		{Key: "createdAt", Label: "When", Render: func(_ any, rec api.Record) string {
			return format.DateTime(firstValue(rec, activityTime...))
		}},
	}
}

// DescribeActivity lists every field of an activity row for the view modal.
func DescribeActivity(rec api.Record) [][2]string {
	out := [][2]string{
		{"Type", format.OrElse(rec.String("type"), format.Dash)},
		{"User", firstOf(activityUser...)(nil, rec)},
		{"Activity", firstOf(activityText...)(nil, rec)},
		{"When", format.DateTime(firstValue(rec, activityTime...))},
	}
	if id := rec.ID(); id != "" {
		out = append([][2]string{{"ID", id}}, out...)
	}
	return out
}

func ProjectActivity(records []api.Record, loading bool) datatable.Projection {
	return datatable.Project(ActivityColumns(), records, loading,
		datatable.WithEmptyMessage("No recent activity."))
}

func firstOf(keys ...string) datatable.RenderFunc {
	return func(_ any, rec api.Record) string {
		if v := firstValue(rec, keys...); v != nil {
			return format.OrElse(api.Stringify(v), format.Dash)
		}
		return format.Dash
	}
}

func firstValue(rec api.Record, keys ...string) any {
	for _, k := range keys {
		if rec.Has(k) {
			return rec.Value(k)
		}
	}
	return nil
}
