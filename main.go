package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"fyne.io/fyne/v2"

	"dotmatrix/internal/config"
	"dotmatrix/internal/export"
	applog "dotmatrix/internal/log"
	mirror "dotmatrix/internal/net"
	"dotmatrix/internal/state"
	"dotmatrix/internal/ui"
)

func main() {
	configPath := flag.String("config", "dotmatrix.toml", "settings file")
	share := flag.Bool("share", false, "publish the board to LAN viewers")
	port := flag.Int("port", 0, "mirror port (overrides settings)")
	discover := flag.Bool("discover", false, "list boards shared on the LAN and exit")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	applog.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	log := applog.With("main")

	if *discover {
		links, err := mirror.Browse(3 * time.Second)
		if err != nil {
			log.Error("discovery failed", "err", err)
			os.Exit(1)
		}
		for _, l := range links {
			fmt.Println(mirror.LinkScheme + l)
		}
		return
	}

	if arg := flag.Arg(0); strings.HasPrefix(arg, mirror.LinkScheme) {
		runViewer(arg)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("load settings", "err", err)
		os.Exit(1)
	}
	if *share {
		cfg.Share.Enabled = true
	}
	if *port > 0 {
		cfg.Share.Port = *port
	}
	runEditor(cfg)
}

func runEditor(cfg config.Config) {
	log := applog.With("main")
	log.Info("starting editor", "width", cfg.Width, "height", cfg.Height)

	board, err := state.NewBoard(cfg.Width, cfg.Height)
	if err != nil {
		log.Error("create board", "err", err)
		os.Exit(1)
	}
	board.SetDotSize(cfg.DotSize)
	board.SetImageOpacity(cfg.ImageOpacity)

	title := "Dot Matrix"
	var link string
	if cfg.Share.Enabled {
		srv, err := mirror.Listen(cfg.Share.Port, cfg.Share.Advertise)
		if err != nil {
			log.Error("start mirror", "err", err)
			os.Exit(1)
		}
		defer srv.Close()
		srv.Follow(board)
		link = srv.Link()
		title = link
	}

	view := ui.NewBoardWidget(board)
	ui.RunApp(title, view, func(w fyne.Window) fyne.CanvasObject {
		return ui.NewToolbar(ui.Tools{
			Board:   board,
			View:    view,
			Window:  w,
			Export:  export.NewExporter(ui.DialogSaver{Window: w}),
			Quick:   export.NewExporter(export.DirSaver{Dir: cfg.ExportDir}),
			Sharing: link,
		})
	}, nil)
}

func runViewer(link string) {
	log := applog.With("main")
	addr, err := mirror.ParseLink(link)
	if err != nil {
		log.Error("bad share link", "link", link, "err", err)
		os.Exit(1)
	}
	log.Info("starting viewer", "addr", addr)

	m := &mirror.Mirror{}
	view := ui.NewViewerWidget(m)
	m.OnUpdate = func() { fyne.Do(view.Refresh) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ui.RunApp("Viewing "+link, view, nil, func() {
		go follow(ctx, addr, m, view.SetStatus)
	})
}

// follow keeps m in sync with the mirror at addr until ctx ends or the
// connection drops, reporting progress through status.
func follow(ctx context.Context, addr string, m *mirror.Mirror, status func(string)) {
	log := applog.With("main")
	status("Connecting to " + addr)
	err := mirror.Dial(ctx, addr, func(msg mirror.Message) {
		if _, err := m.Apply(msg); err != nil {
			log.Warn("dropped frame", "err", err)
		}
	})
	if err != nil {
		log.Error("mirror connection lost", "err", err)
		status(fmt.Sprintf("Disconnected: %v", err))
		return
	}
	status("Disconnected")
}
