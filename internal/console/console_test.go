package console

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/castlekeep/castlectl/internal/admin/api"
	"github.com/castlekeep/castlectl/internal/admin/apitest"
	"github.com/castlekeep/castlectl/internal/admin/helpers"
	"github.com/castlekeep/castlectl/internal/console/format"
	"github.com/castlekeep/castlectl/internal/theme"
)

func TestMain(m *testing.M) {
	format.Location = time.UTC
	m.Run()
}

func seedUsers(srv *apitest.Server, n int) {
	recs := make([]api.Record, 0, n)
	for i := 1; i <= n; i++ {
		recs = append(recs, api.Record{
			"id":        fmt.Sprintf("u%d", i),
			"name":      fmt.Sprintf("Knight %d", i),
			"email":     fmt.Sprintf("knight%d@example.com", i),
			"createdAt": "2024-03-05T10:00:00Z",
		})
	}
	srv.Seed("users", recs...)
}

func newTestModel(t *testing.T, srv *apitest.Server, start string) *model {
	t.Helper()
	client := api.NewClient(api.Options{BaseURL: srv.BaseURL()})
	m, err := newModel(context.Background(), Options{
		Admin:    &helpers.AdminClient{Client: client},
		PageSize: 20,
		Start:    start,
	})
	require.NoError(t, err)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	m = updated.(*model)
	return executeCmd(t, m, m.Init())
}

func executeCmd(t *testing.T, m *model, cmd tea.Cmd) *model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == nil {
			continue
		}
		msg := current()
		switch msg := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, []tea.Cmd(msg)...)
			continue
		case tea.QuitMsg, nil:
			continue
		}
		updated, next := m.Update(msg)
		mm, ok := updated.(*model)
		require.True(t, ok)
		m = mm
		if next != nil {
			queue = append(queue, next)
		}
	}
	return m
}

func press(t *testing.T, m *model, keys ...string) *model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "shift+tab":
			msg = tea.KeyMsg{Type: tea.KeyShiftTab}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "ctrl+s":
			msg = tea.KeyMsg{Type: tea.KeyCtrlS}
		case "ctrl+u":
			msg = tea.KeyMsg{Type: tea.KeyCtrlU}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, cmd := m.Update(msg)
		m = executeCmd(t, updated.(*model), cmd)
	}
	return m
}

func screen(m *model) string {
	return ansi.Strip(m.View())
}

func countCalls(srv *apitest.Server, method, path string) int {
	n := 0
	for _, c := range srv.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

func TestDashboardShowsStatsAndActivity(t *testing.T) {
	srv := apitest.New(t)
	srv.SetStats(map[string]any{"totalUsers": 1250, "activeUsers": 342, "totalFocusHours": 10.5}, true)
	srv.SetActivity(api.Record{"id": "a1", "type": "session", "username": "SirGalahad", "message": "Finished a focus session"})

	m := newTestModel(t, srv, "")
	view := screen(m)
	require.Contains(t, view, "Dashboard")
	require.Contains(t, view, "1,250")
	require.Contains(t, view, "Total Study Minutes")
	require.Contains(t, view, "630")
	require.Contains(t, view, "SirGalahad")

	m = press(t, m, "enter")
	view = screen(m)
	require.Contains(t, view, "Activity Details")
	require.Contains(t, view, "Finished a focus session")

	m = press(t, m, "esc")
	require.NotContains(t, screen(m), "Activity Details")
}

func TestDashboardFailureClearsStats(t *testing.T) {
	srv := apitest.New(t)
	srv.SetStats(map[string]any{"totalUsers": 1250}, true)
	srv.SetActivity(api.Record{"id": "a1", "message": "hello"})
	srv.Fail(http.MethodGet, "/dashboard/activity", http.StatusInternalServerError, "activity offline")

	m := newTestModel(t, srv, "dashboard")
	view := screen(m)
	require.Contains(t, view, "Failed to load dashboard")
	require.Contains(t, view, "activity offline")
	require.NotContains(t, view, "1,250")
	require.Contains(t, view, "No recent activity.")

	srv.Recover(http.MethodGet, "/dashboard/activity")
	m = press(t, m, "r")
	view = screen(m)
	require.Contains(t, view, "1,250")
	require.Contains(t, view, "hello")
}

func TestTabsLoadEachPageOnce(t *testing.T) {
	srv := apitest.New(t)
	seedUsers(srv, 3)

	m := newTestModel(t, srv, "")
	require.Equal(t, 0, countCalls(srv, http.MethodGet, "/users"))

	m = press(t, m, "2")
	require.Equal(t, 1, m.active)
	require.Equal(t, 1, countCalls(srv, http.MethodGet, "/users"))
	require.Contains(t, screen(m), "Knight 1")

	m = press(t, m, "tab", "tab", "shift+tab", "shift+tab")
	require.Equal(t, 1, m.active)
	require.Equal(t, 1, countCalls(srv, http.MethodGet, "/users"))
	require.Equal(t, 1, countCalls(srv, http.MethodGet, "/focus-sessions"))
	require.Equal(t, 1, countCalls(srv, http.MethodGet, "/castle-grounds"))

	m = press(t, m, "shift+tab")
	require.Equal(t, 0, m.active)
}

func TestEditUser(t *testing.T) {
	srv := apitest.New(t)
	seedUsers(srv, 3)
	m := newTestModel(t, srv, "users")

	m = press(t, m, "down", "e")
	view := screen(m)
	require.Contains(t, view, "Edit User")
	require.Contains(t, view, "Knight 2")

	m = press(t, m, "ctrl+u", "S", "i", "r", " ", "K", "a", "y", "ctrl+s")
	require.NotContains(t, screen(m), "Edit User")
	require.Equal(t, "Sir Kay", srv.Records("users")[1].String("name"))
	require.Contains(t, screen(m), "Sir Kay")
	require.Contains(t, screen(m), "User u2 updated")
}

func TestQClosesDetailsButTypesInEditForm(t *testing.T) {
	srv := apitest.New(t)
	seedUsers(srv, 2)
	m := newTestModel(t, srv, "users")

	m = press(t, m, "v")
	require.Contains(t, screen(m), "User Details")
	m = press(t, m, "q")
	require.NotContains(t, screen(m), "User Details")
	require.Contains(t, screen(m), "Knight 1")

	m = press(t, m, "e", "ctrl+u", "Q", "u", "i", "n", "q", "ctrl+s")
	require.Equal(t, "Quinq", srv.Records("users")[0].String("name"))
}

func TestEditUserInvalidEmailAlerts(t *testing.T) {
	srv := apitest.New(t)
	seedUsers(srv, 1)
	m := newTestModel(t, srv, "users")

	m = press(t, m, "e", "tab", "ctrl+u", "n", "o", "p", "e", "enter")
	view := screen(m)
	require.Contains(t, view, "Invalid user")
	require.Equal(t, 0, countCalls(srv, http.MethodPut, "/users/u1"))

	m = press(t, m, "enter")
	require.Contains(t, screen(m), "Edit User")

	m = press(t, m, "esc")
	require.NotContains(t, screen(m), "Edit User")
	require.Equal(t, "knight1@example.com", srv.Records("users")[0].String("email"))
}

func TestDeleteUserConfirm(t *testing.T) {
	srv := apitest.New(t)
	seedUsers(srv, 3)
	m := newTestModel(t, srv, "users")

	m = press(t, m, "d")
	require.Contains(t, screen(m), "Delete User")
	require.Contains(t, screen(m), "u1?")

	m = press(t, m, "n")
	require.NotContains(t, screen(m), "Delete User")
	require.Len(t, srv.Records("users"), 3)

	m = press(t, m, "d", "y")
	require.NotContains(t, screen(m), "Delete User")
	require.Len(t, srv.Records("users"), 2)
	require.NotContains(t, screen(m), "Knight 1 ")
}

func TestDeleteFailureKeepsDialog(t *testing.T) {
	srv := apitest.New(t)
	seedUsers(srv, 2)
	srv.Fail(http.MethodDelete, "/users/u1", http.StatusInternalServerError, "drawbridge_raised")
	m := newTestModel(t, srv, "users")

	m = press(t, m, "d", "y")
	view := screen(m)
	require.Contains(t, view, "Failed to delete user")
	require.Contains(t, view, "drawbridge_raised")

	m = press(t, m, "enter")
	require.Contains(t, screen(m), "Delete User")
	require.Len(t, srv.Records("users"), 2)
}

func TestCastleGroundsHasNoDelete(t *testing.T) {
	srv := apitest.New(t)
	srv.Seed("castle-grounds", api.Record{"id": "c1", "level": 2, "coins": 1500})
	m := newTestModel(t, srv, "castles")
	require.Equal(t, 3, m.active)

	m = press(t, m, "d")
	require.NotContains(t, screen(m), "Delete")
	require.Contains(t, screen(m), "1,500")
}

func TestLoadFailureDisablesPaging(t *testing.T) {
	srv := apitest.New(t)
	srv.Fail(http.MethodGet, "/users", http.StatusServiceUnavailable, "maintenance")
	m := newTestModel(t, srv, "users")

	view := screen(m)
	require.Contains(t, view, "No users found.")
	require.Contains(t, view, "Page 1 of 1")
	require.Contains(t, view, "maintenance")

	m = press(t, m, "n")
	require.Equal(t, 1, countCalls(srv, http.MethodGet, "/users"))
}

func TestPaging(t *testing.T) {
	srv := apitest.New(t)
	seedUsers(srv, 25)
	m := newTestModel(t, srv, "users")
	require.Contains(t, screen(m), "Page 1 of 2")

	m = press(t, m, "n")
	require.Contains(t, screen(m), "Page 2 of 2")
	require.Contains(t, screen(m), "Knight 25")

	m = press(t, m, "n")
	require.Equal(t, 2, countCalls(srv, http.MethodGet, "/users"))

	m = press(t, m, "p")
	require.Contains(t, screen(m), "Page 1 of 2")
}

func TestFilterAndCopy(t *testing.T) {
	srv := apitest.New(t)
	seedUsers(srv, 12)
	m := newTestModel(t, srv, "users")

	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { writeClipboard = orig })

	m = press(t, m, "/", "t", "1", "2", "@", "enter")
	view := screen(m)
	require.Contains(t, view, "Knight 12")
	require.NotContains(t, view, "Knight 11")
	require.NotContains(t, view, "Knight 3")

	m = press(t, m, "y")
	require.Equal(t, "u12", copied)
	require.Contains(t, screen(m), "Copied u12")

	writeClipboard = func(string) error { return errors.New("no clipboard") }
	m = press(t, m, "y")
	require.Contains(t, screen(m), "Copy failed")

	m = press(t, m, "/", "esc")
	require.Contains(t, screen(m), "Knight 3")
}

func TestThemeAndQuit(t *testing.T) {
	t.Cleanup(func() { _ = theme.SetCurrent(theme.DefaultName) })
	srv := apitest.New(t)
	m := newTestModel(t, srv, "")

	before := theme.Current().Name
	m = press(t, m, "t")
	require.NotEqual(t, before, theme.Current().Name)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestStartPageValidation(t *testing.T) {
	_, err := startIndex("leaderboard")
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "dashboard, users, focus-sessions, castle-grounds"))

	i, err := startIndex("Focus Sessions")
	require.NoError(t, err)
	require.Equal(t, 2, i)
	require.NoError(t, ValidateStart(""))
	require.NoError(t, ValidateStart("castles"))

	_, err = newModel(context.Background(), Options{})
	require.Error(t, err)
}

func TestHeaderTabs(t *testing.T) {
	titles := []string{"Dashboard", "Users"}
	header := ansi.Strip(renderHeader(titles, 1, 80))
	require.Contains(t, header, "castlectl")
	require.Contains(t, header, "1 Dashboard")
	require.Contains(t, header, "2 Users")

	require.Equal(t, 0, tabAt(titles, len("castlectl")+2))
	require.Equal(t, 1, tabAt(titles, len("castlectl")+2+len("Dashboard")+4))
	require.Equal(t, -1, tabAt(titles, 0))
}
