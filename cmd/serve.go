package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v3"

	"github.com/matchdayhq/matchday/pkg/analytics"
	"github.com/matchdayhq/matchday/pkg/api"
	"github.com/matchdayhq/matchday/pkg/config"
	"github.com/matchdayhq/matchday/pkg/log"
	"github.com/matchdayhq/matchday/pkg/matchcache"
	"github.com/matchdayhq/matchday/pkg/search"
	"github.com/matchdayhq/matchday/pkg/store"
)

// ServeCommand creates the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the search API server",
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Bool("debug") {
				log.SetGlobalDebug(true)
			}
			return serve(ctx, c.String("config"))
		},
	}
}

func serve(ctx context.Context, configPath string) error {
	logger := log.ForComponent("serve")

	cfg, st, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warnf("failed to close store: %v", err)
		}
	}()

	rules, err := rulesFromConfig(cfg)
	if err != nil {
		return err
	}

	searcher := search.NewSearcher(st, rules)
	fetchFixtures := func(ctx context.Context, teamID int64) ([]store.Match, error) {
		return st.RecentMatches(ctx, teamID, 10)
	}
	matches := matchcache.New(fetchFixtures, cfg.Cache.TTL.Duration, cfg.Cache.MaxEntries)
	hub := analytics.NewHub(0)
	recorder := analytics.NewRecorder(st, hub, 0)
	defer recorder.Close()

	server := api.NewServer(st, searcher, matches, recorder, hub, cfg)
	mux := http.NewServeMux()
	server.RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: api.CorsMiddleware(mux),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	// Watch the config file so allow-list / dictionary changes apply
	// without a restart. Editors replace files on save, so rename and
	// remove events re-add the path to the watcher.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warnf("failed to create config file watcher: %v", err)
	} else {
		defer func() {
			if err := watcher.Close(); err != nil {
				logger.Warnf("failed to close config watcher: %v", err)
			}
		}()
		if err := watcher.Add(configPath); err != nil {
			logger.Warnf("failed to watch config file %s: %v", configPath, err)
		} else {
			logger.Infof("watching config file for changes: %s", configPath)
		}
	}

	var watchEvents chan fsnotify.Event
	var watchErrors chan error
	if watcher != nil {
		watchEvents = make(chan fsnotify.Event)
		watchErrors = make(chan error)
		go func() {
			for e := range watcher.Events {
				watchEvents <- e
			}
		}()
		go func() {
			for e := range watcher.Errors {
				watchErrors <- e
			}
		}()
	}

	for {
		select {
		case err := <-errCh:
			return fmt.Errorf("http server: %w", err)

		case sig := <-sigCh:
			switch sig {
			case syscall.SIGHUP:
				logger.Infof("received SIGHUP, reloading search rules")
				reloadRules(configPath, searcher, logger)
			case syscall.SIGINT, syscall.SIGTERM:
				logger.Infof("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return httpServer.Shutdown(shutdownCtx)
			}

		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)

		case event := <-watchEvents:
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				logger.Infof("config file changed (%s), reloading search rules", event.Op)
				if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
					time.Sleep(100 * time.Millisecond)
					if err := watcher.Add(configPath); err != nil {
						logger.Warnf("failed to re-watch config file: %v", err)
					}
				}
				reloadRules(configPath, searcher, logger)
			}

		case err := <-watchErrors:
			logger.Warnf("config watcher error: %v", err)
		}
	}
}

// reloadRules re-reads the config file and swaps the searcher's reloadable
// rules. A broken config leaves the previous rules in place.
func reloadRules(configPath string, searcher *search.Searcher, logger *log.Logger) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Errorf("reload failed, keeping previous rules: %v", err)
		return
	}
	rules, err := rulesFromConfig(cfg)
	if err != nil {
		logger.Errorf("reload failed, keeping previous rules: %v", err)
		return
	}
	searcher.SetRules(rules)
	logger.Infof("search rules reloaded: %d allowed leagues, %d popular teams, %d popular players",
		len(rules.AllowedLeagueIDs), len(rules.PopularTeamIDs), len(rules.PopularPlayerIDs))
}
