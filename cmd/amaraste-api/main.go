package main

import (
	"context"
	"log"
	"net/http"

	"github.com/amarastelive/amaraste-agent/internal/adapters/fetch"
	httpadapter "github.com/amarastelive/amaraste-agent/internal/adapters/http"
	"github.com/amarastelive/amaraste-agent/internal/adapters/llm"
	firestorestore "github.com/amarastelive/amaraste-agent/internal/adapters/storage/firestore"
	memstore "github.com/amarastelive/amaraste-agent/internal/adapters/storage/memory"
	sqlitestore "github.com/amarastelive/amaraste-agent/internal/adapters/storage/sqlite"
	"github.com/amarastelive/amaraste-agent/internal/app/assets"
	"github.com/amarastelive/amaraste-agent/internal/app/chat"
	"github.com/amarastelive/amaraste-agent/internal/app/session"
	"github.com/amarastelive/amaraste-agent/internal/config"
	"github.com/amarastelive/amaraste-agent/internal/domain"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	// Chat transport: mock for dev, Gemini otherwise. A broken Gemini
	// config does not stop the server; chat sends fail persistently
	// while everything else keeps working.
	var streamer domain.ChatStreamer
	if cfg.UseMockLLM {
		log.Println("[LLM] Using mock chat streamer")
		streamer = llm.NewMockStreamer()
	} else {
		log.Println("[LLM] Using Gemini chat streamer")
		gemini, err := llm.NewGeminiStreamer(ctx, cfg.GeminiAPIKey, cfg.ModelName)
		if err != nil {
			log.Printf("error initializing Gemini client, chat disabled: %v", err)
		} else {
			streamer = gemini
		}
	}

	// Asset cache: durable sqlite store with an in-memory overlay for
	// degraded periods. A store that cannot even open degrades to
	// memory-only for the whole process.
	var store domain.AssetStore
	sqlStore, err := sqlitestore.NewStore(cfg.DBPath)
	if err != nil {
		log.Printf("error opening asset store, falling back to memory: %v", err)
		store = memstore.NewAssetStore()
	} else {
		defer func() { _ = sqlStore.Close() }()
		store = sqlStore
	}

	sources := map[domain.AssetKey]string{}
	var fetcher domain.AssetFetcher
	if cfg.AssetBaseURL != "" {
		f, err := fetch.NewHTTPFetcher(cfg.AssetBaseURL)
		if err != nil {
			log.Fatalf("error creating asset fetcher: %v", err)
		}
		fetcher = f
		sources[domain.AssetKey("pdf")] = cfg.MainPdfPath
		sources[domain.AssetKey("booker")] = cfg.BookerPdfPath
	} else {
		log.Println("[ASSETS] No asset base URL configured; serving uploads only")
		fetcher = fetch.NoRemote{}
	}

	assetSvc, err := assets.NewService(store, memstore.NewAssetStore(), fetcher, sources)
	if err != nil {
		log.Fatalf("error creating asset service: %v", err)
	}

	// Transcript archive: Firestore or memory.
	var archive domain.ArchiveStore
	switch cfg.ArchiveBackend {
	case "firestore":
		if cfg.GCPProjectID == "" {
			log.Fatal("AMARASTE_GCP_PROJECT is required for the Firestore archive backend")
		}
		log.Printf("[ARCHIVE] Using Firestore (project=%s)", cfg.GCPProjectID)
		fsStore, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("error initializing Firestore store: %v", err)
		}
		archive = fsStore
	default:
		log.Println("[ARCHIVE] Using in-memory archive")
		archive = memstore.NewArchiveStore()
	}

	presenter := chat.NewPresenter()
	presenter.WordDelay = cfg.WordDelay

	sessionSvc := session.NewService(streamer, archive, presenter)
	sessionSvc.SetIdleTimeout(cfg.IdleTimeout)

	auth := httpadapter.NewAdminAuth(cfg.AdminUser, cfg.AdminPass, cfg.JWTSecret)
	handler := httpadapter.NewServer(sessionSvc, assetSvc, auth)

	addr := ":" + cfg.Port
	log.Println("Amarasté API listening on", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal(err)
	}
}
