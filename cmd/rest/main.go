package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ecommerce-recs-be/internal/bootstrap"
	"ecommerce-recs-be/internal/config"
	"ecommerce-recs-be/internal/server"
	"ecommerce-recs-be/internal/tracer"
	"ecommerce-recs-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Shutdown()

	// 4. Start Background Services
	ingestCtx, cancelIngest := context.WithCancel(context.Background())
	defer cancelIngest()
	go func() {
		log.Println("Background: Starting event ingestion...")
		if err := container.IngestService.Run(ingestCtx); err != nil {
			log.Printf("Background ingestion error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server, stop cleanly on SIGINT/SIGTERM
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Println("Shutting down...")
		cancelIngest()
		_ = srv.Shutdown()
	}()

	if err := srv.Run(); err != nil {
		log.Fatal(err)
	}
}
