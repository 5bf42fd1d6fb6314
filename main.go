package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"tokoponsel/m/internal/api"
	"tokoponsel/m/internal/config"
	"tokoponsel/m/internal/database"
	"tokoponsel/m/internal/ledger"
	"tokoponsel/m/internal/migrations"
	"tokoponsel/m/internal/seed"
	"tokoponsel/m/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	log := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}
	seed.EnsureAdmin(db, log, cfg.AdminEmail, cfg.AdminPassword)

	inventory := store.NewInventory(db)
	sales := store.NewSales(db)
	coord := ledger.New(inventory, sales, log, ledger.Options{
		RecomputeProfitOnEdit: cfg.RecomputeProfitOnEdit,
		EnforceAccessoryStock: cfg.EnforceAccessoryStock,
	})

	handler := api.New(db, inventory, sales, coord, log, cfg.Secret)

	log.WithField("port", cfg.HTTPPort).Info("back-office server starting")
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.WithError(err).Fatal("server error")
	}
}
