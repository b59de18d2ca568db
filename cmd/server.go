package cmd

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// APIServer starts the HTTP listener
func APIServer(route *chi.Mux, port string) {
	addr := fmt.Sprintf(":%s", port)

	server := &http.Server{
		Addr:              addr,
		Handler:           route,
		ReadHeaderTimeout: 5 * time.Second,
	}

	fmt.Printf("Server running on http://localhost%s\n", addr)

	if err := server.ListenAndServe(); err != nil {
		log.Fatal("Server error:", err)
	}
}
