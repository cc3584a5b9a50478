package api

import (
	"database/sql"
	"net/http"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	inventoriesHandler := &InventoriesHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}
	categoriesHandler := &CategoriesHandler{DB: db}
	mediaHandler := &MediaHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)

	// Public: registration and login.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Account.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("DELETE /api/auth/account", authMW(http.HandlerFunc(authHandler.DeleteAccount)))

	// Dashboard.
	mux.Handle("GET /api/dashboard", authMW(http.HandlerFunc(inventoriesHandler.Dashboard)))

	// Inventories.
	mux.Handle("GET /api/inventories", authMW(http.HandlerFunc(inventoriesHandler.List)))
	mux.Handle("POST /api/inventories", authMW(http.HandlerFunc(inventoriesHandler.Create)))
	mux.Handle("PUT /api/inventories/{id}", authMW(http.HandlerFunc(inventoriesHandler.Update)))
	mux.Handle("DELETE /api/inventories/{id}", authMW(http.HandlerFunc(inventoriesHandler.Delete)))

	// Items, scoped to an inventory.
	mux.Handle("GET /api/inventories/{id}/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/inventories/{id}/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("GET /api/inventories/{id}/items/{itemID}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("POST /api/inventories/{id}/items/{itemID}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /api/inventories/{id}/items/{itemID}", authMW(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("POST /api/inventories/{id}/items/{itemID}/quantity", authMW(http.HandlerFunc(itemsHandler.Quantity)))
	mux.Handle("POST /api/inventories/{id}/bulk", authMW(http.HandlerFunc(itemsHandler.Bulk)))

	// Categories.
	mux.Handle("GET /api/categories", authMW(http.HandlerFunc(categoriesHandler.List)))
	mux.Handle("POST /api/categories", authMW(http.HandlerFunc(categoriesHandler.Create)))

	// Stored images.
	mux.Handle("GET /api/media/{ref}", authMW(http.HandlerFunc(mediaHandler.Get)))
	mux.Handle("GET /api/media/{ref}/thumb", authMW(http.HandlerFunc(mediaHandler.GetThumbnail)))

	return mux
}
