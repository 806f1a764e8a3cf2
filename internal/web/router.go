package web

import (
	"net/http"

	"github.com/gorilla/mux"
)

// CORSMiddleware allows browser clients on any origin.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NewRouter wires every API route of s.
func NewRouter(s *Service) *mux.Router {
	router := mux.NewRouter()
	router.Use(CORSMiddleware)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.HealthHandler).Methods("GET")
	api.HandleFunc("/games", s.CreateGameHandler).Methods("POST")
	api.HandleFunc("/games", s.ListGamesHandler).Methods("GET")
	api.HandleFunc("/games/import", s.ImportGameHandler).Methods("POST")
	api.HandleFunc("/games/{id}", s.GetGameHandler).Methods("GET")
	api.HandleFunc("/games/{id}", s.DeleteGameHandler).Methods("DELETE")
	api.HandleFunc("/games/{id}/moves", s.ValidMovesHandler).Methods("GET")
	api.HandleFunc("/games/{id}/moves", s.MakeMoveHandler).Methods("POST")
	api.HandleFunc("/games/{id}/undo", s.UndoHandler).Methods("POST")
	api.HandleFunc("/games/{id}/clicks", s.ClickHandler).Methods("POST")
	api.HandleFunc("/games/{id}/time", s.GetTimeRemainingHandler).Methods("GET")
	api.HandleFunc("/games/{id}/record", s.GetRecordHandler).Methods("GET")

	api.HandleFunc("/spectator/games", s.GetActiveGamesHandler).Methods("GET")
	api.HandleFunc("/spectator/games/{id}", s.GetSpectatorGameHandler).Methods("GET")
	api.HandleFunc("/spectator/games/{id}/count", s.UpdateSpectatorCountHandler).Methods("POST")

	// Preflight requests are answered by the middleware, but mux only runs
	// middleware on matched routes.
	router.PathPrefix("/").Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	router.HandleFunc("/ws", s.WebSocketHandler)

	return router
}
