// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/Mohamed-Samehh/UNO/internal/auth"
	"github.com/Mohamed-Samehh/UNO/internal/cache"
	"github.com/Mohamed-Samehh/UNO/internal/handlers"
	"github.com/Mohamed-Samehh/UNO/internal/middleware"
)

func main() {
	logger := logrus.New()
	if os.Getenv("LOG_LEVEL") == "debug" {
		logger.SetLevel(logrus.DebugLevel)
	}

	if err := auth.Init(); err != nil {
		log.Fatalf("auth init failed: %v", err)
	}

	// Action logging is optional; the server runs fine without Redis.
	if err := cache.ConnectRedis(); err != nil {
		logger.WithError(err).Warn("redis unavailable, action logging disabled")
	}

	srv := handlers.NewGameServer(logger)

	mux := http.NewServeMux()
	mux.Handle("/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.WSHandler(logger, srv),
	)))
	mux.Handle("/", http.FileServer(http.Dir(getEnv("STATIC_DIR", "public"))))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("UNO server running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}
