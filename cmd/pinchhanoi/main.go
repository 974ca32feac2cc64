package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/ayusman/pinchhanoi/internal/app"
	"github.com/ayusman/pinchhanoi/internal/config"
	"github.com/ayusman/pinchhanoi/internal/detector"
	"github.com/ayusman/pinchhanoi/internal/gesture"
	"github.com/ayusman/pinchhanoi/internal/render"
	"github.com/ayusman/pinchhanoi/internal/server"
	"github.com/ayusman/pinchhanoi/internal/store"
	"github.com/ayusman/pinchhanoi/internal/tray"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default ~/.pinchhanoi/config.yaml)")
	flag.Parse()

	fmt.Println("Pinch Hanoi - Tower of Hanoi by hand gesture")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(cfg.DataDir, "pinchhanoi.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	if cfg.Tray && cfg.Window {
		// Both want the main thread.
		log.Println("Tray mode: game window disabled, watch the board in a browser")
		cfg.Window = false
	}

	game := app.New(appConfig(cfg, st))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	if cfg.Addr != "" {
		srv := server.New(server.Config{
			StaticDir: findWebDir(cfg.StaticDir),
			Store:     st,
			Game:      game,
		})
		wg.Add(1)
		go func() {
			defer wg.Done()
			fmt.Printf("Starting server on %s\n", cfg.Addr)
			if err := srv.ListenAndServe(ctx, cfg.Addr); err != nil {
				log.Printf("Server failed: %v", err)
			}
		}()
	}

	if cfg.Tray {
		runWithTray(ctx, stop, game, cfg.Addr)
	} else if err := game.Run(ctx); err != nil {
		log.Printf("Game loop failed: %v", err)
	}

	stop()
	wg.Wait()
}

// appConfig maps user settings onto the frame loop's configuration.
func appConfig(cfg config.Config, st *store.Store) app.Config {
	return app.Config{
		CameraID:        cfg.CameraID,
		Discs:           cfg.Discs,
		SmoothingWindow: cfg.SmoothingWindow,
		TargetFPS:       cfg.TargetFPS,
		Mirror:          cfg.Mirror,
		Pinch: gesture.PinchThresholds{
			Index:  cfg.PinchIndex,
			Middle: cfg.PinchMiddle,
		},
		Detector: detector.Config{
			MaxHands:        cfg.MaxHands,
			MinConfidence:   cfg.MinDetectionConfidence,
			MinTrackingConf: cfg.MinTrackingConfidence,
		},
		Layout:   render.DefaultLayout().WithSize(cfg.Width, cfg.Height),
		Window:   cfg.Window,
		Store:    st,
		HooksDir: cfg.HooksDir,
	}
}

// runWithTray runs the tray on the main goroutine and the game loop beside
// it. It returns once either side asks to quit.
func runWithTray(ctx context.Context, cancel context.CancelFunc, game *app.App, addr string) {
	tr := tray.New()
	tr.OnReset(game.RequestReset)
	tr.OnQuit(cancel)
	if addr != "" {
		tr.OnOpen(func() { openBrowser("http://" + addr + "/") })
	}

	done := make(chan struct{})
	tr.OnReady(func() {
		go func() {
			defer close(done)
			if err := game.Run(ctx); err != nil {
				log.Printf("Game loop failed: %v", err)
			}
			tr.Quit()
		}()
		go updateTray(ctx, tr, game)
	})

	tr.Run()
	cancel()
	<-done
}

func updateTray(ctx context.Context, tr *tray.Tray, game *app.App) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st := game.Snapshot()
			tr.SetStatus(tray.FormatStatus(st.Moves, st.Elapsed, st.Won))
		}
	}
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir returns dir when set, otherwise the first existing of "web",
// "../web", "../../web" and ~/.pinchhanoi/web. Empty means none was found.
func findWebDir(dir string) string {
	if dir != "" {
		return dir
	}

	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeWebDir := filepath.Join(config.HomeDir(), "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
