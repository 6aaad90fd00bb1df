package web

import (
	"fmt"
	"log/slog"
	"net/http"

	"nestchat/domain"
	"nestchat/errors"
	"nestchat/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ChatHandler serves both conversation and message routes, which share
// most of their request plumbing.
type ChatHandler struct {
	conversations services.IConversationService
	messages      services.IMessageService
	log           *slog.Logger
}

func NewChatHandler(conversations services.IConversationService, messages services.IMessageService, log *slog.Logger) *ChatHandler {
	return &ChatHandler{conversations: conversations, messages: messages, log: log}
}

type startConversationRequest struct {
	ApartmentID string `json:"apartment_id"`
	Content     string `json:"content"`
	Type        string `json:"type,omitempty"`
}

// StartConversation opens (or reopens) the caller's thread about an
// apartment: 201 on first contact, 200 when it already existed.
func (h *ChatHandler) StartConversation(c *gin.Context) {
	callerID, ok := mustCallerID(c)
	if !ok {
		return
	}
	var req startConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.log, fmt.Errorf("%w: %v", errors.ErrValidation, err))
		return
	}
	apartmentID, err := uuid.Parse(req.ApartmentID)
	if err != nil {
		writeError(c, h.log, fmt.Errorf("%w: malformed apartment_id", errors.ErrValidation))
		return
	}

	conversation, message, created, err := h.conversations.StartOrGet(c.Request.Context(), domain.StartConversationCommand{
		ApartmentID: apartmentID,
		InitiatorID: callerID,
		Content:     req.Content,
		Type:        domain.MessageType(req.Type),
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"conversation": conversation, "message": message})
}

func (h *ChatHandler) ListConversations(c *gin.Context) {
	callerID, ok := mustCallerID(c)
	if !ok {
		return
	}

	summaries, total, err := h.conversations.List(callerID, intQuery(c, "page", 1), intQuery(c, "limit", 0))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": summaries, "total": total})
}

type sendMessageRequest struct {
	Content string `json:"content"`
	Type    string `json:"type,omitempty"`
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	callerID, ok := mustCallerID(c)
	if !ok {
		return
	}
	conversationID, err := pathID(c, "id")
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.log, fmt.Errorf("%w: %v", errors.ErrValidation, err))
		return
	}

	message, err := h.messages.Append(c.Request.Context(), domain.AppendMessageCommand{
		ConversationID: conversationID,
		SenderID:       callerID,
		Content:        req.Content,
		Type:           domain.MessageType(req.Type),
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

// ListMessages pages the thread. Fetching as a participant also flips
// the returned counterpart messages to read.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	callerID, ok := mustCallerID(c)
	if !ok {
		return
	}
	conversationID, err := pathID(c, "id")
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	var beforeID *uuid.UUID
	if raw := c.Query("before"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			writeError(c, h.log, fmt.Errorf("%w: malformed before cursor", errors.ErrValidation))
			return
		}
		beforeID = &parsed
	}

	page, err := h.messages.Page(c.Request.Context(), domain.PageCommand{
		ConversationID: conversationID,
		ViewerID:       callerID,
		Page:           intQuery(c, "page", 1),
		PageSize:       intQuery(c, "limit", 0),
		BeforeID:       beforeID,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ChatHandler) MarkMessageRead(c *gin.Context) {
	callerID, ok := mustCallerID(c)
	if !ok {
		return
	}
	messageID, err := pathID(c, "id")
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	message, err := h.messages.MarkMessageRead(c.Request.Context(), messageID, callerID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, message)
}

func (h *ChatHandler) UnreadCount(c *gin.Context) {
	callerID, ok := mustCallerID(c)
	if !ok {
		return
	}
	conversationID, err := pathID(c, "id")
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	count, err := h.messages.CountUnread(conversationID, callerID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}
