package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/mbolis/os-portal/app"
	"github.com/mbolis/os-portal/checklist"
	"github.com/mbolis/os-portal/config"
	"github.com/mbolis/os-portal/contele"
	"github.com/mbolis/os-portal/database"
	"github.com/mbolis/os-portal/erp"
	"github.com/mbolis/os-portal/httpx"
	"github.com/mbolis/os-portal/log"
	"github.com/mbolis/os-portal/routes"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg.DBUrl)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	erpClient := erp.New(cfg.Upstream)

	app := app.App{
		DB:           db,
		BearerServer: httpx.NewBearerServer(db, cfg, erpClient),
		Config:       cfg,
		ERP:          erpClient,
		Forms:        contele.New(cfg.Upstream),
		Views:        checklist.NewMemo(cfg.MemoSize),
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Upstream.Timeout + 30*time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
