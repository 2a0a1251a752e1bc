package app

import (
	"context"
	"fmt"
	"time"

	"github.com/queuify/qboard/internal/config"
	"github.com/queuify/qboard/internal/prefs"
	"github.com/queuify/qboard/internal/queuify"
	"github.com/queuify/qboard/internal/socket"
	"github.com/queuify/qboard/internal/state"
	"github.com/queuify/qboard/internal/ui"
)

// Options configure the qboard application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/qboard/prefs.toml
	PollEvery  int    // seconds; zero uses default
	Date       string // YYYY-MM-DD; empty means today
	OrgID      string // overrides the configured organization id
	TrackID    int64  // non-zero switches to end-user track mode
}

// Run boots the qboard TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load qboard config: %w", err)
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	client, err := queuify.NewClient(cfg.APIBase, cfg.Token)
	if err != nil {
		return fmt.Errorf("init queuify client: %w", err)
	}

	orgID := opts.OrgID
	if orgID == "" {
		orgID = cfg.OrgID
	}

	date := opts.Date
	if date == "" {
		date = time.Now().Format(queuify.DateLayout)
	}

	store := &state.Store{}
	sock := socket.NewManager(cfg.SocketURL, cfg.Token)
	defer sock.Close()

	mode := ModeBoard
	if opts.TrackID > 0 {
		mode = ModeTrack
	}
	if mode == ModeBoard {
		// Track mode defers the join until the first fetch reveals the org.
		sock.Join(socket.Rooms{Org: orgID})
	}

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	} else if cfg.PollEvery > 0 {
		interval = time.Duration(cfg.PollEvery) * time.Second
	}

	refresher := StartRefresher(ctx, RefresherOptions{
		Mode:     mode,
		Store:    store,
		Client:   client,
		Socket:   sock,
		Date:     date,
		TrackID:  opts.TrackID,
		OrgID:    orgID,
		Interval: interval,
	})

	// Do initial refresh to populate the store before the UI starts.
	_ = refresher.Refresh(ctx)

	uiOpts := ui.Options{
		Context:   ctx,
		Client:    client,
		Store:     store,
		Socket:    sock,
		Refresher: refresher,
		Track:     mode == ModeTrack,
		TrackID:   opts.TrackID,
		OrgID:     orgID,
		Date:      date,
		PollTick:  interval,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}
