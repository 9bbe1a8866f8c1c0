package matching

import (
	"github.com/gorilla/mux"
)

func RegisterRoutes(router *mux.Router, handler *Handler) {
	api := router.PathPrefix("/api/v1/matching").Subrouter()

	api.HandleFunc("/partner/latest", handler.GetLatestPartner).Methods("GET")
	api.HandleFunc("/find", handler.FindMatches).Methods("GET")
	api.HandleFunc("/count", handler.GetMatchCount).Methods("GET")
	api.HandleFunc("/rematch", handler.Rematch).Methods("POST")

	admin := router.PathPrefix("/api/v1/admin/matching").Subrouter()
	admin.HandleFunc("/run", handler.RunBatch).Methods("POST")
	admin.HandleFunc("/partner", handler.AdminCreatePartner).Methods("POST")
	admin.HandleFunc("/history/{userId}", handler.AdminClearHistory).Methods("DELETE")
}
