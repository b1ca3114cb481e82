package main

import (
	"lms/config"
	"lms/database"
	"lms/gateway"
	"lms/routers"
	"lms/storage"
	"lms/utils"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	gateway.Init(config.AppConfig)
	storage.Init(config.AppConfig)
	utils.InitMailer(config.AppConfig)

	var scheduler *cron.Cron
	if config.AppConfig.ProgressReconcileEnabled {
		var err error
		scheduler, err = utils.InitializeProgressScheduler(database.Database.Db, config.AppConfig.ProgressReconcileCron)
		if err != nil {
			log.Fatalf("Failed to start progress scheduler: %v", err)
		}
	}

	app := routers.New(config.AppConfig)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	err := app.Listen(":" + config.AppConfig.Port)

	if scheduler != nil {
		// wait for a running reconciliation to finish
		<-scheduler.Stop().Done()
	}
	if err != nil {
		log.Fatal(err)
	}
}
