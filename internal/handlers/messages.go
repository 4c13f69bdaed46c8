package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/city-directory/internal/db"
	"github.com/ukydev/city-directory/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageHandler handles the contact form and the admin inbox.
type MessageHandler struct {
	messages db.MessageCollection
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messages db.MessageCollection) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// Create stores a contact form submission.
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var msg models.Message
	if !decodeBody(w, r, &msg) {
		return
	}

	msg.ID = primitive.NilObjectID
	msg.Read = false
	msg.Timestamps = models.Timestamps{}
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)

	if err := msg.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := h.messages.Insert(r.Context(), msg)
	if err != nil {
		writeStoreError(w, r, err, "message")
		return
	}

	log.WithFields(log.Fields{"message_id": id, "business_id": msg.BusinessID}).Info("Contact message received")
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Inbox lists messages; ?unread=true limits to unread ones.
func (h *MessageHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	unread, err := optionalBool(r, "unread")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	messages, err := h.messages.Inbox(r.Context(), unread != nil && *unread)
	if err != nil {
		writeStoreError(w, r, err, "message")
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.messages.MarkRead(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeStoreError(w, r, err, "message")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.messages.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeStoreError(w, r, err, "message")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
