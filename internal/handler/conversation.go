package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/zombieland/zombieland-api/internal/auth"
	"github.com/zombieland/zombieland-api/internal/model"
	"github.com/zombieland/zombieland-api/internal/repository"
)

// ConversationHandler covers the visitor support threads.  Visitors
// only see their own conversations; admins see and answer all of them.
type ConversationHandler struct {
	Conversations *repository.ConversationRepo
}

func NewConversationHandler(c *repository.ConversationRepo) *ConversationHandler {
	return &ConversationHandler{Conversations: c}
}

type createConversationReq struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type messageReq struct {
	Body string `json:"body"`
}

// load fetches a conversation and applies the visibility rule: owners
// and admins pass, everyone else gets ErrForbidden.
func (h *ConversationHandler) load(c echo.Context, p auth.Principal) (model.Conversation, error) {
	id, err := parseID(c, "id")
	if err != nil {
		return model.Conversation{}, err
	}
	conv, err := h.Conversations.GetByID(c.Request().Context(), id)
	if err != nil {
		return model.Conversation{}, err
	}
	if conv.UserID != p.ID && !p.IsAdmin() {
		return model.Conversation{}, repository.ErrForbidden
	}
	return conv, nil
}

func conversationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "conversation not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid conversation id"})
	}
}

// Create handles POST /v1/conversations.  A thread always starts with
// its first message; an empty thread has nothing to answer.
func (h *ConversationHandler) Create(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createConversationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Subject = strings.TrimSpace(req.Subject)
	req.Body = strings.TrimSpace(req.Body)
	if req.Subject == "" || req.Body == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "subject/body required"})
	}
	conv, err := h.Conversations.Create(c.Request().Context(), p.ID, req.Subject, req.Body)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create conversation"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": conv})
}

// ListMine handles GET /v1/conversations.
func (h *ConversationHandler) ListMine(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Conversations.ListByUser(c.Request().Context(), p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load conversations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// Get handles GET /v1/conversations/:id and returns the thread plus its
// messages.
func (h *ConversationHandler) Get(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	conv, err := h.load(c, p)
	if err != nil {
		return conversationError(c, err)
	}
	msgs, err := h.Conversations.ListMessages(c.Request().Context(), conv.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load messages"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": conv, "messages": msgs})
}

// AddMessage handles POST /v1/conversations/:id/messages.  Admin
// replies are flagged from_admin based on the principal, never on
// client input.  Closed threads reject new messages from either side;
// admins reopen first.
func (h *ConversationHandler) AddMessage(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	conv, err := h.load(c, p)
	if err != nil {
		return conversationError(c, err)
	}
	if conv.Status == model.ConversationClosed {
		return c.JSON(http.StatusConflict, echo.Map{"error": "conversation is closed"})
	}
	var req messageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Body = strings.TrimSpace(req.Body)
	if req.Body == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "body required"})
	}
	msg, err := h.Conversations.AddMessage(c.Request().Context(), conv.ID, p.ID, p.IsAdmin(), req.Body)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to add message"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": msg})
}

// ListAll handles GET /v1/admin/conversations with an optional
// ?status= filter.
func (h *ConversationHandler) ListAll(c echo.Context) error {
	var status model.ConversationStatus
	if s := strings.TrimSpace(c.QueryParam("status")); s != "" {
		status = model.ConversationStatus(strings.ToUpper(s))
		if status != model.ConversationOpen && status != model.ConversationClosed {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
		}
	}
	items, err := h.Conversations.List(c.Request().Context(), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load conversations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

type conversationStatusReq struct {
	Status string `json:"status"`
}

// SetStatus handles PATCH /v1/admin/conversations/:id/status, closing
// or reopening a thread.
func (h *ConversationHandler) SetStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid conversation id"})
	}
	var req conversationStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := model.ConversationStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if status != model.ConversationOpen && status != model.ConversationClosed {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	if err := h.Conversations.SetStatus(c.Request().Context(), id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "conversation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update conversation"})
	}
	conv, err := h.Conversations.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch conversation"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": conv})
}
