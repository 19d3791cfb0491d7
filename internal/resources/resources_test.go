package resources

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/castlekeep/castlectl/internal/admin/api"
	"github.com/castlekeep/castlectl/internal/console/format"
)

func TestMain(m *testing.M) {
	format.Location = time.UTC
	m.Run()
}

func TestLookup(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"users", "users"},
		{"User", "users"},
		{"focusSessions", "focus-sessions"},
		{"Focus Sessions", "focus-sessions"},
		{"sessions", "focus-sessions"},
		{"castle_grounds", "castle-grounds"},
		{"castles", "castle-grounds"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r, ok := Lookup(tt.input)
			require.True(t, ok)
			require.Equal(t, tt.want, r.Name)
		})
	}

	_, ok := Lookup("leaderboard")
	require.False(t, ok)
	require.Equal(t, []string{"users", "focus-sessions", "castle-grounds"}, Names())
}

func TestActions(t *testing.T) {
	require.NoError(t, Users().Require(ActionDelete))
	require.NoError(t, CastleGrounds().Require(ActionEdit))

	err := CastleGrounds().Require(ActionDelete)
	var actionErr *ActionError
	require.True(t, errors.As(err, &actionErr))
	require.EqualError(t, err, "castle-grounds does not support delete")

	require.Error(t, FocusSessions().Require(ActionEdit))
	require.Empty(t, FocusSessions().EditFields)
}

func TestTitleNoun(t *testing.T) {
	require.Equal(t, "User", Users().TitleNoun())
	require.Equal(t, "Focus Session", FocusSessions().TitleNoun())
	require.Equal(t, "Castle", CastleGrounds().TitleNoun())
}

func TestUsersProjection(t *testing.T) {
	p := Users().Project([]api.Record{
		{"id": "u1", "name": "Ada", "email": "ada@example.com", "createdAt": "2024-03-05T10:00:00Z"},
		{"id": "u2", "name": "", "email": "bob@example.com"},
	}, false)

	require.Equal(t, []string{"ID", "Name", "Email", "Created At"}, p.Headers)
	require.Equal(t, []string{"u1", "Ada", "ada@example.com", "2024-03-05"}, p.Rows[0])
	require.Equal(t, []string{"u2", "N/A", "bob@example.com", "-"}, p.Rows[1])
	require.Equal(t, "No users found.", p.Empty)
}

func TestFocusSessionsProjection(t *testing.T) {
	p := FocusSessions().Project([]api.Record{{
		"id": "s1", "userId": "u1", "totalSeconds": 5400.0, "isCompleted": true,
		"earnedCoins": 40.0, "earnedStones": 3.0, "startTime": "2024-03-05T10:00:00Z",
	}}, false)

	require.Equal(t, []string{
		"s1", "u1", "1h 30m", "Completed", "coins 40 · stones 3 · wood 0", "2024-03-05 10:00:00",
	}, p.Rows[0])
}

func TestCastleGroundsProjection(t *testing.T) {
	p := CastleGrounds().Project([]api.Record{{
		"id": "c1", "userId": "u1", "level": 4.0, "levelName": "Keep",
		"coins": 12500.0, "stones": 40.0, "wood": 7.0, "progressPercentage": 55.0,
	}}, false)

	row := p.Rows[0]
	require.Equal(t, "4", row[2])
	require.Equal(t, "coins 12,500 · stones 40 · wood 7", row[4])
	require.Equal(t, "██████░░░░ 55.0%", row[5])
	require.Equal(t, "-", row[6])
}

func TestCastleGroundsProjectionNonFiniteProgress(t *testing.T) {
	p := CastleGrounds().Project([]api.Record{
		{"id": "c1", "progressPercentage": "NaN"},
		{"id": "c2", "progressPercentage": "+Inf"},
	}, false)

	require.Equal(t, "░░░░░░░░░░ 0.0%", p.Rows[0][5])
	require.Equal(t, "░░░░░░░░░░ 0.0%", p.Rows[1][5])
}

func TestDescribe(t *testing.T) {
	details := CastleGrounds().Describe(api.Record{"id": "c1", "coins": 1200.0, "progressPercentage": 12.345})
	require.Contains(t, details, [2]string{"Coins", "1,200"})
	require.Contains(t, details, [2]string{"Progress", "12.3%"})
	require.Contains(t, details, [2]string{"Level Name", "-"})

	details = FocusSessions().Describe(api.Record{"id": "s1", "endTime": "2024-03-05T11:30:00Z"})
	require.Contains(t, details, [2]string{"End Time", "2024-03-05 11:30:00"})
	require.Contains(t, details, [2]string{"Status", "Incomplete"})
}

func TestDescribeStats(t *testing.T) {
	stats := DescribeStats(api.Record{"totalUsers": 1250.0, "totalFocusHours": 2845.54})
	require.Equal(t, [][2]string{
		{"Total Users", "1,250"},
		{"Active Users", "-"},
		{"Focus Sessions", "-"},
		{"Total Focus Hours", "2,845.5"},
		{"Castles Built", "-"},
		{"Treasure Chests", "-"},
		{"Total Study Minutes", "170,732"},
	}, stats)

	for _, kv := range DescribeStats(nil) {
		require.Equal(t, "-", kv[1])
	}
}

func TestActivity(t *testing.T) {
	rec := api.Record{"id": "a1", "type": "session", "userName": "Ada", "description": "Completed a session", "timestamp": "2024-03-05T10:00:00Z"}
	p := ProjectActivity([]api.Record{rec}, false)
	require.Equal(t, []string{"session", "Ada", "Completed a session", "2024-03-05 10:00:00"}, p.Rows[0])
	require.Equal(t, [2]string{"ID", "a1"}, DescribeActivity(rec)[0])

	empty := ProjectActivity(nil, false)
	require.Empty(t, empty.Rows)
	require.Equal(t, "No recent activity.", empty.Empty)
}
