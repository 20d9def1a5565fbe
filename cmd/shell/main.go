package main

import (
	_ "embed"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wallgame/quoridor/config"
	"github.com/wallgame/quoridor/shell"
)

// GitVersion is set at link time.
var GitVersion string

//go:embed quoridor.txt
var banner string

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	ex, err := os.Executable()
	if err != nil {
		return err
	}
	exDir := filepath.Dir(ex)

	cfg := &config.Config{}
	if err := cfg.Load(args); err != nil {
		return err
	}
	cfg.AdjustRelativePaths(exDir)

	fmt.Printf("%s\n%s\n", banner, GitVersion)
	log.Logger = consoleLogger(cfg.GetBool(config.ConfigDebug))
	zerolog.DefaultContextLogger = &log.Logger
	log.Debug().Str("exec-dir", exDir).Interface("settings", cfg.SanitizedSettings()).
		Msg("loaded-config")

	stopCPU, err := startCPUProfile(cfg.GetString(config.ConfigCPUProfile))
	if err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	quit := make(chan struct{})
	go func() {
		<-sig
		log.Info().Msg("quit-signal")
		close(quit)
	}()

	sc := shell.NewShellController(cfg, exDir, GitVersion)
	// leftover positional args form a single command
	if line := strings.TrimSpace(strings.Join(cfg.Args(), " ")); line != "" {
		sc.Execute(sig, line)
		sig <- syscall.SIGINT
	} else {
		go sc.Loop(sig)
	}
	<-quit

	stopCPU()
	if err := writeMemProfile(cfg.GetString(config.ConfigMemProfile)); err != nil {
		log.Err(err).Msg("mem-profile")
	}
	sc.Cleanup()
	log.Info().Msg("shutting-down")
	return nil
}

func consoleLogger(debug bool) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		FormatLevel: func(i any) string {
			return fmt.Sprintf("[%-5s]", strings.ToUpper(fmt.Sprint(i)))
		},
	}
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// startCPUProfile profiles into path until the returned func is called.
// An empty path is a no-op.
func startCPUProfile(path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("cpu profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("cpu profile: %w", err)
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}

func writeMemProfile(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	runtime.GC()
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	log.Debug().Uint64("heap-alloc", ms.HeapAlloc).Uint32("num-gc", ms.NumGC).Msg("mem-stats")
	return pprof.WriteHeapProfile(f)
}
