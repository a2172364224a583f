package main

import (
	"radio-metadata-go/middleware"

	"github.com/gorilla/mux"
)

// setupRoutes configures all HTTP routes for the API
func (a *app) setupRoutes(router *mux.Router) {
	c := a.conf.Configuration

	// Public feed endpoints: /east-feed.json, /west-feed.json, ...
	router.HandleFunc("/{feed:[a-z]+}-feed.json", a.getFeed)

	// Admin endpoints
	router.HandleFunc("/admin/dashboard", a.getDashboard)
	router.HandleFunc("/admin/test-alert",
		middleware.BasicAuth(c.AdminUsername, c.AdminPassword, a.triggerTestAlert))

	// Health and stats endpoints
	router.HandleFunc("/health", a.getHealthStatus)
	router.HandleFunc("/stats", a.getStats)

	// Index page
	router.HandleFunc("/", a.homepage)
}
