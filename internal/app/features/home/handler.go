package home

import (
	"encoding/json"
	"net/http"

	"github.com/viralmotors/platform/internal/app/system/auth"
	"go.uber.org/zap"
)

// Handler serves the service index. The frontend owns the real home page;
// this endpoint tells API clients who they are and echoes guard redirect
// parameters so the frontend can open the sign-in modal or a blocked notice.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

type indexResponse struct {
	Service       string `json:"service"`
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	Role          string `json:"role,omitempty"`
	Redirect      string `json:"redirect,omitempty"`
	Blocked       bool   `json:"blocked,omitempty"`
	BlockedPath   string `json:"blocked_path,omitempty"`
}

// Serve handles GET /.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	resp := indexResponse{Service: "viralmotors"}

	if u, ok := auth.CurrentUser(r); ok {
		resp.Authenticated = true
		resp.Username = u.Username
		resp.Role = u.Role
	}

	q := r.URL.Query()
	resp.Redirect = q.Get("redirect")
	if q.Get("blocked") == "true" {
		resp.Blocked = true
		resp.BlockedPath = q.Get("path")
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
