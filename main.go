package main

import (
	"context"
	"net/http"
	"os"

	"radio-metadata-go/config"
	"radio-metadata-go/logcolors"
	"radio-metadata-go/middleware"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

func init() {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel) // Set to InfoLevel (change to DebugLevel for detailed logs)
}

func main() {
	conf := config.Get()
	a := newApp(conf)
	a.startLatencyMonitor(context.Background())

	router := mux.NewRouter()
	a.setupRoutes(router)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	})

	limiter := middleware.NewIPRateLimiter(
		rate.Limit(conf.Configuration.RateLimitPerSecond),
		conf.Configuration.RateLimitBurstLimit,
	)

	// logging middleware
	loggedRouter := middleware.LoggingMiddleware(router)
	// chain cors middleware
	corsHandler := c.Handler(loggedRouter)
	// chain rate limiter
	handler := limitMiddleware(corsHandler, limiter)

	port := conf.Configuration.Port
	log.Infof("%s Server listening on port %s", logcolors.LogServer, port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}

func limitMiddleware(next http.Handler, limiter *middleware.IPRateLimiter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := limiter.GetLimiter(r.RemoteAddr)
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
