package main

import (
	"flag"
	"github.com/bridgeflow/gateway/adapter"
	"github.com/bridgeflow/gateway/api"
	gatewayconfig "github.com/bridgeflow/gateway/config"
	"github.com/bridgeflow/gateway/engine"
	"github.com/bridgeflow/gateway/repo"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the gateway configuration file")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := gatewayconfig.ParseConfig(*configPath)
	if err != nil {
		log.WithError(err).Fatalf("could not load configuration from %s", *configPath)
	}

	db, err := repo.OpenDB(cfg.Workdir)
	if err != nil {
		log.WithError(err).Fatal("could not open the gateway database")
	}
	if err := repo.Migrate(db); err != nil {
		log.WithError(err).Fatal("could not migrate the gateway database")
	}

	workflows := repo.NewWorkflowStore(db)
	senderApps := repo.NewSenderAppStore(db)
	logs := repo.NewLogStore(db)
	registry := adapter.NewRegistry(cfg.Destinations, log)

	eng := engine.New(&cfg, registry, logs, workflows, log)
	defer eng.Stop()

	if active, err := workflows.ListActiveWorkflows(); err != nil {
		log.WithError(err).Fatal("could not load stored workflows")
	} else {
		log.Infof("loaded %d active workflow(s)", len(active))
	}

	sweeper, err := repo.NewRetentionSweeper(cfg.RetentionSweepSchedule, logs, log)
	if err != nil {
		log.WithError(err).Fatalf("invalid retention sweep schedule %q", cfg.RetentionSweepSchedule)
	}
	sweeper.Start()
	defer sweeper.Stop()

	go func() {
		for update := range eng.RunUpdates() {
			if update.Error != nil {
				log.WithError(update.Error).Debugf("run %s finished with status %s", update.RunID, update.Status)
			} else {
				log.Debugf("run %s finished with status %s", update.RunID, update.Status)
			}
		}
	}()

	router := gin.New()
	router.Use(gin.Recovery())
	api.NewServer(workflows, senderApps, logs, eng, log).RegisterRoutes(router)

	go func() {
		log.Infof("gateway listening on %s", cfg.Listen)
		if err := router.Run(cfg.Listen); err != nil {
			log.WithError(err).Fatal("http server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")
}
