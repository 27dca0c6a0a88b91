package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"

	"github.com/nf/intcode/config"
)

// devMode runs the program, then runs it again each time the program
// file changes, until interrupted.
func devMode(cfg *config.Config, opts options, progFile string) error {
	progFile = filepath.Clean(progFile)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Watch(filepath.Dir(progFile)); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var (
		cancel  = func() {}
		done    chan struct{}
		trigger = time.After(1 * time.Millisecond)
	)
	for {
		select {
		case <-trigger:
			// A run still in progress is superseded by this one.
			cancel()
			if done != nil {
				<-done
			}
			var runCtx context.Context
			runCtx, cancel = context.WithCancel(ctx)
			done = make(chan struct{})
			log.Printf("dev: run %s", filepath.Base(progFile))
			go func(ctx context.Context, done chan struct{}) {
				defer close(done)
				if err := run(ctx, os.Stdout, cfg, opts, progFile); err != nil {
					log.Printf("dev: %v", err)
				}
			}(runCtx, done)
		case ev := <-watcher.Event:
			if filepath.Clean(ev.Name) == progFile && !ev.IsAttrib() {
				trigger = time.After(100 * time.Millisecond)
			}
		case err := <-watcher.Error:
			log.Printf("dev: watcher: %v", err)
		case <-ctx.Done():
			cancel()
			if done != nil {
				<-done
			}
			return nil
		}
	}
}
