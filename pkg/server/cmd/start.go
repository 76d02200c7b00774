/* Copyright 2025 Jobtrail Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jobtrail/jobtrail/pkg/server/app"
	"github.com/jobtrail/jobtrail/pkg/server/buildinfo"
	"github.com/jobtrail/jobtrail/pkg/server/config"
	"github.com/jobtrail/jobtrail/pkg/server/controllers"
	"github.com/jobtrail/jobtrail/pkg/server/log"
	"github.com/pkg/errors"
	"github.com/robfig/cron"
)

const (
	sessionSweepSpec = "@every 1h"
	resetSweepSpec   = "@every 6h"
	shutdownTimeout  = 10 * time.Second
)

// scheduleJobs registers the periodic maintenance jobs of the server
func scheduleJobs(a *app.App) (*cron.Cron, error) {
	c := cron.New()

	err := c.AddFunc(sessionSweepSpec, func() {
		n, err := a.DeleteExpiredSessions()
		if err != nil {
			log.ErrorWrap(err, "sweeping expired sessions")
			return
		}

		log.WithFields(log.Fields{
			"count": n,
		}).Debug("swept expired sessions")
	})
	if err != nil {
		return nil, errors.Wrap(err, "scheduling session sweep")
	}

	err = c.AddFunc(resetSweepSpec, func() {
		n, err := a.DeleteStaleResets()
		if err != nil {
			log.ErrorWrap(err, "sweeping stale reset records")
			return
		}

		log.WithFields(log.Fields{
			"count": n,
		}).Debug("swept stale reset records")
	})
	if err != nil {
		return nil, errors.Wrap(err, "scheduling reset sweep")
	}

	return c, nil
}

func newServer(a *app.App) (*http.Server, error) {
	ctl := controllers.New(a)
	rc := controllers.RouteConfig{
		APIRoutes:   controllers.NewAPIRoutes(a, ctl),
		Controllers: ctl,
	}

	r, err := controllers.NewRouter(a, rc)
	if err != nil {
		return nil, errors.Wrap(err, "initializing router")
	}

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", a.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

func startCmd(args []string) {
	fs := setupFlagSet("start", "jobtrail-server start")

	envFile := fs.String("envFile", ".env", "Path to a .env file loaded before reading the environment")
	appEnv := fs.String("appEnv", "", "Application environment (env: APP_ENV, default: PRODUCTION)")
	port := fs.String("port", "", "Server port (env: PORT, default: 3001)")
	webURL := fs.String("webUrl", "", "Full URL to server without trailing slash (env: WebURL, default: http://localhost:3001)")
	driver, dbPath := dbFlags(fs)
	avatarDir := fs.String("avatarDir", "", "Directory uploaded avatars are stored in (env: AVATAR_DIR, default: $XDG_DATA_HOME/jobtrail/avatars)")
	disableRegistration := fs.Bool("disableRegistration", false, "Disable user registration (env: DisableRegistration, default: false)")
	logLevel := fs.String("logLevel", "", "Log level: debug, info, warn, or error (env: LOG_LEVEL, default: info)")

	fs.Parse(args)

	if err := config.LoadEnvFile(*envFile); err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}

	cfg, err := config.New(config.Params{
		AppEnv:              *appEnv,
		Port:                *port,
		WebURL:              *webURL,
		DBDriver:            *driver,
		DBPath:              *dbPath,
		AvatarDir:           *avatarDir,
		DisableRegistration: *disableRegistration,
		LogLevel:            *logLevel,
	})
	if err != nil {
		fmt.Printf("Error: %s\n\n", err)
		fs.Usage()
		os.Exit(1)
	}

	log.SetLevel(cfg.LogLevel)

	a, err := initApp(cfg)
	if err != nil {
		log.ErrorWrap(err, "initializing app")
		os.Exit(1)
	}
	defer closeDB(a.DB)

	jobs, err := scheduleJobs(&a)
	if err != nil {
		log.ErrorWrap(err, "scheduling jobs")
		os.Exit(1)
	}
	jobs.Start()
	defer jobs.Stop()

	srv, err := newServer(&a)
	if err != nil {
		log.ErrorWrap(err, "building server")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.WithFields(log.Fields{
		"version": buildinfo.Version,
		"port":    cfg.Port,
		"driver":  cfg.DBDriver,
	}).Info("Jobtrail server starting")

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.ErrorWrap(err, "server failed")
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.ErrorWrap(err, "shutting down server")
		}
	}
}
