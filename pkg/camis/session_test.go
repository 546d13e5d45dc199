package camis

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires a fake page with the nested frame hierarchy and a
// timesheet grid, mirroring the remote application's structure.
type testApp struct {
	root  *fakeScope
	sheet *fakeScope

	date *fakeElement
	add  *fakeElement
	save *fakeElement
}

func newTestApp(rows ...*fakeElement) *testApp {
	sel := DefaultSelectors()

	app := &testApp{
		root:  newFakeScope(),
		sheet: newFakeScope(),
		date:  &fakeElement{},
		add:   &fakeElement{},
		save:  &fakeElement{},
	}

	outer := newFakeScope()
	app.root.frames[sel.Frame] = outer
	outer.frames[sel.Subframe] = app.sheet

	app.sheet.elements[sel.DateInput] = app.date
	app.sheet.elements[sel.AddButton] = app.add
	app.sheet.elements[sel.SaveButton] = app.save
	app.sheet.lists[sel.EntryRow] = rows

	// Clicking add appends a blank row, like the real grid.
	app.add.onClick = func() {
		app.sheet.lists[sel.EntryRow] = append(app.sheet.lists[sel.EntryRow], newFakeRow("", "", "", ""))
	}
	return app
}

func testConfig() Config {
	return Config{
		URL:               "https://camis.example.com/agresso",
		FrameTimeout:      time.Second,
		LoginProbeTimeout: time.Second,
		LoginStepTimeout:  time.Second,
		SettleDelay:       10 * time.Millisecond,
		Logger:            zerolog.Nop(),
	}
}

func TestOpenWith_BuildsIndex(t *testing.T) {
	app := newTestApp(
		newFakeRow("Draft", "WO123", "DEV", "Code review"),
		newFakeRow("Submitted", "WO456", "MTG", "Standup"),
	)
	driver := newFakeDriver(app.root)

	session, err := OpenWith(driver, testConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"https://camis.example.com/agresso"}, driver.gotoURLs)
	assert.Equal(t, 2, session.index.Len())

	_, ok := session.FindDraft("WO123", "DEV", "Code review")
	assert.True(t, ok)
	_, ok = session.FindDraft("WO456", "MTG", "Standup")
	assert.False(t, ok, "submitted rows are not fill targets")
}

func TestOpenWith_SignsInWhenLoginPageVisible(t *testing.T) {
	sel := DefaultSelectors()
	app := newTestApp()

	// Username field disappears once submitted, as the real page
	// navigates away.
	user := &fakeElement{}
	user.onPress = func(key string) {
		if key == "Enter" {
			delete(app.root.elements, sel.LoginUser)
		}
	}
	app.root.elements[sel.LoginUser] = user

	cfg := testConfig()
	cfg.Credentials = Credentials{Username: "bot@example.com"}

	session, err := OpenWith(newFakeDriver(app.root), cfg)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, []string{"bot@example.com"}, user.typed)
}

func TestOpenWith_ManualSignInCompletesDuringFrameWait(t *testing.T) {
	sel := DefaultSelectors()
	app := newTestApp()

	// No password configured: the flow stops after the username and a
	// human finishes sign-in while the frame wait is pending.
	user := &fakeElement{}
	app.root.elements[sel.LoginUser] = user
	app.root.onEnterFrame = func() {
		delete(app.root.elements, sel.LoginUser)
	}

	cfg := testConfig()
	cfg.Credentials = Credentials{Username: "bot@example.com"}

	session, err := OpenWith(newFakeDriver(app.root), cfg)
	require.NoError(t, err, "the frame wait is the human's window to finish sign-in")
	require.NotNil(t, session)
	assert.Equal(t, []string{"bot@example.com"}, user.typed)
}

func TestOpenWith_LoginStuckFailsAndCloses(t *testing.T) {
	sel := DefaultSelectors()

	// Login page never goes away and the timesheet frames never load:
	// the frame-wait timeout is attributed to the stuck sign-in.
	root := newFakeScope()
	root.elements[sel.LoginUser] = &fakeElement{}

	cfg := testConfig()
	cfg.Credentials = Credentials{Username: "bot@example.com"}

	driver := newFakeDriver(root)
	_, err := OpenWith(driver, cfg)
	require.ErrorIs(t, err, ErrLoginStuck)
	assert.Equal(t, 1, driver.closed, "driver must be closed on init failure")
}

func TestOpenWith_MissingFrameFailsAndCloses(t *testing.T) {
	root := newFakeScope() // no frames at all
	driver := newFakeDriver(root)

	_, err := OpenWith(driver, testConfig())
	require.ErrorIs(t, err, ErrFrameNotFound)
	assert.Equal(t, 1, driver.closed)
}

func TestOpenWith_NavigationFailureCloses(t *testing.T) {
	driver := newFakeDriver(newFakeScope())
	driver.gotoErr = errors.New("dns failure")

	_, err := OpenWith(driver, testConfig())
	require.Error(t, err)
	assert.Equal(t, 1, driver.closed)
}

func TestSession_SetDate(t *testing.T) {
	app := newTestApp()
	session, err := OpenWith(newFakeDriver(app.root), testConfig())
	require.NoError(t, err)

	date := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, session.SetDate(date))

	assert.Equal(t, []string{"03/15/2024"}, app.date.filled)
	assert.Equal(t, []string{"Tab"}, app.date.pressed, "field commit via focus-leave")
}

func TestSession_CreateEntryReturnsLastRow(t *testing.T) {
	sel := DefaultSelectors()
	existing := newFakeRow("Draft", "WO1", "DEV", "existing")
	app := newTestApp(existing)

	session, err := OpenWith(newFakeDriver(app.root), testConfig())
	require.NoError(t, err)

	ref, err := session.CreateEntry()
	require.NoError(t, err)

	assert.Equal(t, 1, app.add.scrolled, "add button scrolled into view before clicking")
	assert.Equal(t, 1, app.add.clicks)

	// The ref addresses the appended row, not the pre-existing one.
	rows := app.sheet.lists[sel.EntryRow]
	require.Len(t, rows, 2)
	require.NoError(t, ref.setFields("WO9", "QA"))
	assert.Equal(t, []string{"WO9"}, rows[1].cell(sel.RowWorkorder).filled)
	assert.Empty(t, existing.cell(sel.RowWorkorder).filled)

	// The index still only knows the pre-existing rows.
	assert.Equal(t, 1, session.index.Len())
}

func TestSession_SaveClicksAndSettles(t *testing.T) {
	app := newTestApp()
	cfg := testConfig()

	session, err := OpenWith(newFakeDriver(app.root), cfg)
	require.NoError(t, err)

	require.NoError(t, session.Save())
	assert.Equal(t, 1, app.save.clicks)
	require.Len(t, app.sheet.settles, 1)
	assert.Equal(t, cfg.SettleDelay, app.sheet.settles[0])
}

func TestSession_CloseSwallowsTeardownFailure(t *testing.T) {
	app := newTestApp()
	driver := newFakeDriver(app.root)
	driver.closeErr = errors.New("browser already gone")

	session, err := OpenWith(driver, testConfig())
	require.NoError(t, err)

	session.Close() // must not panic or propagate
	assert.Equal(t, 1, driver.closed)
}
