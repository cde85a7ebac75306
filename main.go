package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

func main() {
	log.SetPrefix("smartfit-api: ")

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	pool := getDBPool(cfg.DBURL)
	defer pool.Close()

	h := &Handler{
		store:         &pgStore{db: pool},
		loc:           cfg.Location,
		openAIBaseURL: cfg.OpenAIBaseURL,
	}

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Server starting on port %s (calendar %s)", cfg.Port, cfg.Location)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
