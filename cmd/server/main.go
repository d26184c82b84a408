package main

import (
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/coder/quartz"
	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"beatme-server/internal/config"
	"beatme-server/internal/jwt"
	"beatme-server/internal/mux"
	"beatme-server/internal/rng"
	"beatme-server/pkg/room"
	"beatme-server/pkg/table"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", "", "the listen address, overrides the configuration")

func main() {
	flag.Parse()
	setupLogger()

	cfg := config.Instance()

	// fail fast
	opts, err := cfg.TableOptions()
	if err != nil {
		logrus.WithError(err).Fatal("invalid table configuration")
	}

	signer, err := jwt.NewSigner(cfg.JWT.Secret)
	if err != nil {
		logrus.WithError(err).Fatal("missing jwt secret in configuration")
	}

	tbl := table.New(opts, logrus.WithField("component", "table"), rng.Crypto{}, quartz.NewReal())
	defer tbl.Close()

	rm := room.NewRoom(tbl, signer, logrus.WithField("component", "room"))
	rm.StartShift()
	defer rm.EndShift()

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "Authorization"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	})

	listenAddr := cfg.Addr
	if *addr != "" {
		listenAddr = *addr
	}

	srv := &http.Server{
		Addr:         listenAddr,
		Handler:      loggingHandler(c.Handler(mux.NewMux(Version, rm, signer))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	logrus.WithFields(logrus.Fields{
		"addr":   srv.Addr,
		"seats":  opts.Seats,
		"blinds": []int{opts.SmallBlind, opts.BigBlind},
	}).Info("listening")
	if err := srv.ListenAndServe(); err != nil {
		logrus.WithError(err).Error("server stopped")
	}
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
