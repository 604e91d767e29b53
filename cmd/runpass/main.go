package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xelth-com/ecksvcgo/internal/authority"
	"github.com/xelth-com/ecksvcgo/internal/config"
	"github.com/xelth-com/ecksvcgo/internal/database"
	"github.com/xelth-com/ecksvcgo/internal/reconcile"
	"github.com/xelth-com/ecksvcgo/internal/store"
)

// runpass runs a single maintenance pass and prints its report. Meant for
// cron jobs and manual operator use:
//
//	runpass -pass reconcile_repairs
func main() {
	passName := flag.String("pass", "", "pass to run: reconcile_repairs | refill_caches | normalize_tags | normalize_codes | purge_phantom_orders")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall pass timeout")
	flag.Parse()

	if *passName == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	st := store.New(db)
	authClient := authority.NewClient(
		cfg.Authority.URL,
		cfg.Authority.Username,
		cfg.Authority.Password,
		time.Duration(cfg.Authority.TimeoutSeconds)*time.Second,
	)

	service := reconcile.NewService(
		reconcile.NewReconciler(st, reconcile.NewRemoteAuthority(authClient)),
		reconcile.NewRecomputer(st),
		reconcile.NewTagNormalizer(st),
		reconcile.NewCodeNormalizer(st),
		st,
		nil,
		nil,
		0,
	)

	// Ctrl+C cancels between records and still prints the partial report
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Println("⚠️  Cancellation requested, finishing current record...")
		cancel()
	}()

	report, err := service.RunPass(ctx, *passName)
	if report != nil {
		out, merr := json.MarshalIndent(report, "", "  ")
		if merr == nil {
			fmt.Println(string(out))
		}
	}
	if err != nil {
		log.Fatalf("❌ Pass failed: %v", err)
	}
}
