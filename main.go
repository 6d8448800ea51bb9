package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"LocalBoard/internal/config"
	"LocalBoard/internal/export"
	"LocalBoard/internal/logging"
	boardnet "LocalBoard/internal/net"
	"LocalBoard/internal/ui"
	"LocalBoard/internal/whiteboard"
)

var version = "dev"

const usage = `usage: localboard [-config file] [command] [flags]

commands:
  (none)     open the desktop board
  serve      host boards for browsers over websocket
  discover   list board hosts on the LAN
  export     render a saved scene to pdf, png or svg
`

func main() {
	fs := flag.NewFlagSet("localboard", flag.ExitOnError)
	configPath := fs.String("config", "", "configuration file")
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.NewLoader(version, *configPath).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	logging.SetLogger(logger)

	args := fs.Args()
	cmd := ""
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "":
		ui.RunApp(cfg)
	case "serve":
		err = runServe(cfg, args)
	case "discover":
		err = runDiscover(args)
	case "export":
		err = runExport(cfg, args)
	default:
		fs.Usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("command failed", zap.String("command", cmd), zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func runServe(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", cfg.Server.Addr, "listen address")
	advertise := fs.Bool("advertise", cfg.Server.Advertise, "announce the host over mDNS")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l, err := net.Listen("tcp", *addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", *addr, err)
	}
	port := l.Addr().(*net.TCPAddr).Port

	if *advertise {
		server, err := boardnet.Advertise(cfg.Server.Instance, port)
		if err != nil {
			logging.L().Warn("mDNS advertising disabled", zap.Error(err))
		} else {
			defer func() { _ = server.Shutdown() }()
		}
	}
	logging.L().Info("share link", zap.String("url", boardnet.ShareURL(port)))

	srv := boardnet.NewServer(
		boardnet.WithCanvasSize(float64(cfg.Canvas.Width), float64(cfg.Canvas.Height)),
		boardnet.WithBoardOptions(
			whiteboard.WithStyle(cfg.ShapeStyle()),
			whiteboard.WithDragThreshold(cfg.Select.DragThreshold),
			whiteboard.WithNudgeDistance(cfg.Select.Nudge)),
	)
	return srv.Serve(ctx, l)
}

func runDiscover(args []string) error {
	fs := flag.NewFlagSet("discover", flag.ExitOnError)
	timeout := fs.Duration("timeout", 3*time.Second, "how long to listen for answers")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	n := 0
	err := boardnet.Browse(ctx, *timeout, func(h boardnet.Host) {
		n++
		fmt.Printf("%s\tws://%s/ws\n", h.Instance, h.Addr)
	})
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Println("no boards found")
	}
	return nil
}

func runExport(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	in := fs.String("in", "", "scene JSON file")
	out := fs.String("out", "", "output file (.pdf, .png or .svg)")
	width := fs.Int("width", cfg.Canvas.Width, "page width")
	height := fs.Int("height", cfg.Canvas.Height, "page height")
	_ = fs.Parse(args)
	if *in == "" || *out == "" {
		fs.Usage()
		return fmt.Errorf("export needs -in and -out")
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		return err
	}
	entities, err := whiteboard.DecodeScene(data)
	if entities == nil {
		return err
	}
	if err != nil {
		logging.L().Warn("some entities skipped", zap.String("file", *in), zap.Error(err))
	}

	opts := export.Options{Width: *width, Height: *height, Background: cfg.Canvas.Background}
	if err := export.WriteFile(*out, entities, opts); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d entities)\n", *out, len(entities))
	return nil
}
