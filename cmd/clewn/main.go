// Package main is the entry point for the clewn debugger bridge.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/xdegaye/clewn/internal/config"
	"github.com/xdegaye/clewn/internal/debug"
	"github.com/xdegaye/clewn/internal/logging"
	"github.com/xdegaye/clewn/internal/netbeans"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	configPath  string
	logLevel    string
	listen      string
	persistPath string
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return 1
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.listen != "" {
		cfg.NetBeans.Listen = opts.listen
	}

	log, err := logging.New(logging.Options{
		Level: cfg.Logging.Level,
		File:  cfg.Logging.File,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Live reload only adjusts the global log level; the sign palette is
	// fixed once the editor has seen the annotation types.
	if opts.configPath != "" {
		watcher := config.NewWatcher(opts.configPath, func(cfg *config.Config) {
			if level, ok := logging.ParseLevel(cfg.Logging.Level); ok {
				zerolog.SetGlobalLevel(level)
				log.Info().Str("level", level.String()).Msg("log level reloaded")
			}
		})
		if err := watcher.Start(); err != nil {
			log.Warn().Err(err).Msg("config watcher not started")
		} else {
			defer watcher.Close()
		}
	}

	ln, err := net.Listen("tcp", cfg.NetBeans.Listen)
	if err != nil {
		log.Error().Err(err).Str("addr", cfg.NetBeans.Listen).Msg("listen failed")
		return 1
	}
	defer ln.Close()
	log.Info().Str("addr", cfg.NetBeans.Listen).Msg("waiting for the editor")

	conn, err := ln.Accept()
	if err != nil {
		log.Error().Err(err).Msg("accept failed")
		return 1
	}
	defer conn.Close()
	log.Info().Str("editor", conn.RemoteAddr().String()).Msg("editor connected")

	sink := netbeans.NewCommandSink(conn, netbeans.Palette{
		Enabled:  cfg.Signs.EnabledBg,
		Disabled: cfg.Signs.DisabledBg,
		Frame:    cfg.Signs.FrameBg,
	})
	set := netbeans.NewBufferSet(sink, log)
	tracker := debug.NewTracker(set, log)

	if opts.persistPath != "" {
		tracker.SetPersistPath(opts.persistPath)
		if err := tracker.Load(); err != nil {
			log.Warn().Err(err).Msg("breakpoints not restored")
		}
	}

	// Save breakpoints on SIGINT/SIGTERM.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		if opts.persistPath != "" {
			if err := tracker.Save(); err != nil {
				log.Warn().Err(err).Msg("breakpoints not saved")
			}
		}
		conn.Close()
		os.Exit(0)
	}()

	return repl(tracker, log)
}

// repl reads debugger commands from stdin and mirrors them to the editor.
func repl(tracker *debug.Tracker, log zerolog.Logger) int {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" {
			break
		}
		if err := dispatch(tracker, line); err != nil {
			log.Error().Err(err).Str("command", line).Msg("command failed")
		}
	}
	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("stdin read failed")
		return 1
	}
	return 0
}

// dispatch executes one debugger command:
//
//	break <path> <line>     add a breakpoint
//	toggle <path> <line>    toggle a breakpoint
//	enable <id>             enable a breakpoint
//	disable <id>            disable a breakpoint
//	delete <id>             delete a breakpoint
//	frame <path> <line>     show the current execution point
//	frame clear             hide the current execution point
//	list                    print tracked breakpoints
func dispatch(tracker *debug.Tracker, line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "break", "toggle":
		if len(args) != 2 {
			return fmt.Errorf("usage: %s <path> <line>", cmd)
		}
		lnum, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("bad line number %q", args[1])
		}
		if cmd == "break" {
			_, err = tracker.AddBreakpoint(args[0], lnum)
			return err
		}
		_, _, err = tracker.Toggle(args[0], lnum)
		return err

	case "enable", "disable", "delete":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <id>", cmd)
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad breakpoint id %q", args[0])
		}
		switch cmd {
		case "enable":
			return tracker.SetEnabled(id, true)
		case "disable":
			return tracker.SetEnabled(id, false)
		default:
			return tracker.RemoveBreakpoint(id)
		}

	case "frame":
		if len(args) == 1 && args[0] == "clear" {
			tracker.ClearFrame()
			return nil
		}
		if len(args) != 2 {
			return fmt.Errorf("usage: frame <path> <line> | frame clear")
		}
		lnum, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("bad line number %q", args[1])
		}
		return tracker.ShowFrame(args[0], lnum)

	case "list":
		for _, bp := range tracker.AllBreakpoints() {
			state := "enabled"
			if !bp.Enabled {
				state = "disabled"
			}
			fmt.Printf("%d\t%s:%d\t%s\thits=%d\n", bp.ID, bp.Path, bp.Line, state, bp.HitCount)
		}
		return nil

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.listen, "listen", "", "Address the editor connects to")
	flag.StringVar(&opts.persistPath, "breakpoints", "", "Breakpoint persistence file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Clewn - mirror debugger state into Vim over NetBeans\n\n")
		fmt.Fprintf(os.Stderr, "Usage: clewn [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("clewn %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		os.Exit(0)
	}

	return opts
}
