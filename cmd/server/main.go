package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"review-board/pkg/api"
	"review-board/pkg/db"
	"review-board/pkg/deploy"
	"review-board/pkg/ingest"
	"review-board/pkg/lifecycle"
	"review-board/pkg/store"
	"review-board/pkg/version"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	token := flag.String("token", os.Getenv("AUTH_TOKEN"), "static auth token (empty allows all; env AUTH_TOKEN)")
	tasksFile := flag.String("tasks", "data/tasks.json", "task list JSON file ingested at startup")
	ledgerType := flag.String("ledger", "memory", "history ledger backend: memory|sqlite|consul (consul requires build tag consul)")
	ledgerPath := flag.String("ledger-path", "/var/lib/review-board/history.db", "sqlite ledger path (when --ledger=sqlite)")
	consulAddr := flag.String("consul-addr", "127.0.0.1:8500", "consul address (when --ledger=consul)")
	withAuth := flag.Bool("auth-db", false, "enable reviewer accounts backed by MySQL (env MYSQL_*)")
	pushLatency := flag.Duration("push-latency", time.Second, "simulated production push latency per task")
	tlsCert := flag.String("tls-cert", "", "TLS cert path (enables HTTPS if set with --tls-key)")
	tlsKey := flag.String("tls-key", "", "TLS key path (enables HTTPS if set with --tls-cert)")
	showVersion := flag.Bool("v", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		log.Printf("review-board version=%s", version.Build)
		return
	}

	var ledger store.Ledger
	switch *ledgerType {
	case "memory":
		ledger = store.NewMemoryLedger()
	case "sqlite":
		l, err := store.OpenSQLiteLedger(*ledgerPath)
		if err != nil {
			log.Fatalf("open sqlite ledger: %v", err)
		}
		defer l.Close()
		ledger = l
	case "consul":
		ledger = store.NewConsulLedger(*consulAddr)
	default:
		log.Fatalf("unsupported ledger type: %s", *ledgerType)
	}

	tasks, err := ingest.LoadFile(*tasksFile)
	if err != nil {
		log.Fatalf("ingest tasks: %v", err)
	}
	taskStore := store.NewTaskStore()
	taskStore.ReplaceAll(tasks)
	log.Printf("ingested %d tasks from %s", len(tasks), *tasksFile)

	gateway := deploy.NewSimulated()
	gateway.Latency = *pushLatency

	hub := api.NewWSHub()
	mux := http.NewServeMux()
	api.RegisterRoutes(mux, api.Deps{
		Store:   taskStore,
		Engine:  lifecycle.NewEngine(ledger),
		Gateway: gateway,
		Hub:     hub,
	}, *token)

	if *withAuth {
		gdb, err := db.Init()
		if err != nil {
			log.Fatalf("init auth db: %v", err)
		}
		(&api.AuthHandler{DB: gdb}).RegisterRoutes(mux)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("review-board listening on %s ledger=%s", *addr, *ledgerType)
	if *tlsCert != "" && *tlsKey != "" {
		err = srv.ListenAndServeTLS(*tlsCert, *tlsKey)
	} else {
		err = srv.ListenAndServe()
	}
	if err != nil {
		log.Fatalf("server error: %v", err)
	}
}
