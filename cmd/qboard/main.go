package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/queuify/qboard/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override qboard config path (optional)")
	pollSeconds := flag.Int("poll", 0, "refresh interval in seconds (optional, defaults to 2s)")
	date := flag.String("date", "", "board date as YYYY-MM-DD (optional, defaults to today)")
	orgID := flag.String("org", "", "organization id (optional, overrides config)")
	flag.Usage = usage
	flag.Parse()

	opts := app.Options{
		ConfigPath: *configPath,
		Date:       *date,
		OrgID:      *orgID,
	}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	// "qboard track <appointment-id>" switches to the end-user view.
	if args := flag.Args(); len(args) > 0 {
		if args[0] != "track" || len(args) != 2 {
			usage()
			return 2
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil || id <= 0 {
			fmt.Fprintf(os.Stderr, "qboard: invalid appointment id %q\n", args[1])
			return 2
		}
		opts.TrackID = id
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "qboard: %v\n", err)
		return 1
	}
	return 0
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  qboard [flags]                  admin live-queue board
  qboard [flags] track <id>       track one appointment's queue position

Flags:
`)
	flag.PrintDefaults()
}
