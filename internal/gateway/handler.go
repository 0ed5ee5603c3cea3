package gateway

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/coopco/treant/internal/discord"
)

// Dispatcher routes a verified interaction; nil means unknown command.
type Dispatcher interface {
	Dispatch(ctx context.Context, in *discord.Interaction) *discord.Response
}

// Handler is the inbound webhook boundary: signature gate, handshake,
// then router dispatch. Everything upstream of the gate fails closed.
type Handler struct {
	publicKey func(ctx context.Context) (ed25519.PublicKey, error)
	router    Dispatcher
}

func NewHandler(publicKey func(ctx context.Context) (ed25519.PublicKey, error), router Dispatcher) *Handler {
	return &Handler{publicKey: publicKey, router: router}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read error", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get("X-Signature-Ed25519")
	timestamp := r.Header.Get("X-Signature-Timestamp")
	if len(body) == 0 || signature == "" || timestamp == "" {
		slog.Warn("gateway: missing body, signature, or timestamp")
		http.Error(w, "missing signature or body", http.StatusUnauthorized)
		return
	}

	key, err := h.publicKey(r.Context())
	if err != nil {
		slog.Error("gateway: failed to load public key", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if !discord.Verify(key, signature, timestamp, body) {
		slog.Warn("gateway: invalid request signature")
		http.Error(w, "bad request signature", http.StatusUnauthorized)
		return
	}

	var in discord.Interaction
	if err := json.Unmarshal(body, &in); err != nil {
		http.Error(w, "malformed interaction", http.StatusBadRequest)
		return
	}

	// protocol-level keep-alive, answered before any business logic
	if in.Type == discord.InteractionPing {
		writeJSON(w, discord.PongResponse())
		return
	}

	resp := h.router.Dispatch(r.Context(), &in)
	if resp == nil {
		slog.Warn("gateway: unknown command", "command", in.Data.Name)
		http.Error(w, "unknown command", http.StatusBadRequest)
		return
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("gateway: failed to write response", "error", err)
	}
}
