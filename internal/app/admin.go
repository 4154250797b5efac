package app

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"campfire/internal/access"
	"campfire/internal/auth/session"
	"campfire/internal/identity"
)

// AdminHandler exposes the operator surface: minting sessions for
// externally authenticated identities, and managing the global
// allowlist. Every route requires the shared admin token; the handler
// is not mounted at all when no token is configured.
type AdminHandler struct {
	log   Logger
	token string

	sessions  *session.Store
	allowlist *access.Allowlist

	// devRooms is set only in in-memory mode, where rooms have no
	// persistent home and must be seeded by the operator.
	devRooms *access.MemoryStores
}

// NewAdminHandler returns nil when token is empty, which disables the
// admin surface entirely.
func NewAdminHandler(log Logger, token string, sessions *session.Store, allowlist *access.Allowlist, devRooms *access.MemoryStores) *AdminHandler {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return &AdminHandler{
		log:       log,
		token:     token,
		sessions:  sessions,
		allowlist: allowlist,
		devRooms:  devRooms,
	}
}

// Register mounts the admin routes on mux.
func (h *AdminHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /admin/session", h.withAuth(h.createSession))
	mux.HandleFunc("POST /admin/allowlist", h.withAuth(h.addAllowlist))
	mux.HandleFunc("DELETE /admin/allowlist/{did}", h.withAuth(h.removeAllowlist))
	mux.HandleFunc("PUT /admin/room", h.withAuth(h.putRoom))
}

func (h *AdminHandler) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(h.token)) != 1 {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

type createSessionRequest struct {
	DID    string `json:"did"`
	Handle string `json:"handle"`
	TTL    string `json:"ttl,omitempty"`
}

type createSessionResponse struct {
	Token     string    `json:"token"`
	DID       string    `json:"did"`
	Handle    string    `json:"handle"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *AdminHandler) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	did := strings.TrimSpace(req.DID)
	if err := identity.ValidateDID(did); err != nil {
		http.Error(w, "invalid did", http.StatusBadRequest)
		return
	}

	var ttl time.Duration
	if req.TTL != "" {
		d, err := time.ParseDuration(req.TTL)
		if err != nil || d <= 0 {
			http.Error(w, "invalid ttl", http.StatusBadRequest)
			return
		}
		ttl = d
	}

	sess := h.sessions.Create(time.Now().UTC(), did, identity.NormalizeHandle(req.Handle), ttl)
	h.log.Info("admin.session.create", "did", sess.DID, "expires_at", sess.ExpiresAt)

	writeJSON(w, http.StatusCreated, createSessionResponse{
		Token:     sess.Token,
		DID:       sess.DID,
		Handle:    sess.Handle,
		ExpiresAt: sess.ExpiresAt,
	})
}

type addAllowlistRequest struct {
	DID    string `json:"did"`
	Handle string `json:"handle,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func (h *AdminHandler) addAllowlist(w http.ResponseWriter, r *http.Request) {
	if h.allowlist == nil {
		http.Error(w, "allowlist disabled", http.StatusNotFound)
		return
	}

	var req addAllowlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	entry := access.AllowlistEntry{
		DID:     strings.TrimSpace(req.DID),
		Handle:  strings.TrimSpace(req.Handle),
		Reason:  strings.TrimSpace(req.Reason),
		AddedBy: "admin",
	}
	if err := h.allowlist.Add(r.Context(), entry); err != nil {
		h.log.Error("admin.allowlist.add.fail", "did", entry.DID, "err", err)
		http.Error(w, "allowlist write failed", http.StatusInternalServerError)
		return
	}

	h.log.Info("admin.allowlist.add", "did", entry.DID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) removeAllowlist(w http.ResponseWriter, r *http.Request) {
	if h.allowlist == nil {
		http.Error(w, "allowlist disabled", http.StatusNotFound)
		return
	}

	did := strings.TrimSpace(r.PathValue("did"))
	if did == "" {
		http.Error(w, "missing did", http.StatusBadRequest)
		return
	}

	if err := h.allowlist.Remove(r.Context(), did); err != nil {
		h.log.Error("admin.allowlist.remove.fail", "did", did, "err", err)
		http.Error(w, "allowlist write failed", http.StatusInternalServerError)
		return
	}

	h.log.Info("admin.allowlist.remove", "did", did)
	w.WriteHeader(http.StatusNoContent)
}

type putRoomRequest struct {
	ID                string `json:"id"`
	MinAccountAgeDays int    `json:"min_account_age_days,omitempty"`
}

func (h *AdminHandler) putRoom(w http.ResponseWriter, r *http.Request) {
	if h.devRooms == nil {
		http.Error(w, "rooms are managed in the database", http.StatusNotFound)
		return
	}

	var req putRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}
	if req.MinAccountAgeDays < 0 {
		http.Error(w, "invalid min_account_age_days", http.StatusBadRequest)
		return
	}

	h.devRooms.PutRoom(access.Room{ID: id, MinAccountAgeDays: req.MinAccountAgeDays})
	h.log.Info("admin.room.put", "room_id", id, "min_account_age_days", req.MinAccountAgeDays)
	w.WriteHeader(http.StatusNoContent)
}
