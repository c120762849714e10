package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/SscSPs/personal_finance_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// supportHandler serves the support chat. Staff routes are checked by the service.
type supportHandler struct {
	supportService portssvc.SupportSvcFacade
}

func newSupportHandler(ss portssvc.SupportSvcFacade) *supportHandler {
	return &supportHandler{supportService: ss}
}

func registerSupportRoutes(rg *gin.RouterGroup, supportService portssvc.SupportSvcFacade) {
	h := newSupportHandler(supportService)

	support := rg.Group("/support")
	{
		support.GET("/messages", h.listMyMessages)
		support.POST("/messages", h.sendMessage)
		support.GET("/unread-count", h.myUnreadCount)

		staff := support.Group("/staff")
		staff.GET("/conversations", h.listConversations)
		staff.GET("/conversations/:userID", h.getConversation)
		staff.POST("/conversations/:userID/reply", h.reply)
		staff.GET("/unread-count", h.staffUnreadCount)
	}
}

// listMyMessages godoc
// @Summary My support thread
// @Description Returns the thread oldest first and marks staff replies read
// @Tags support
// @Produce  json
// @Success 200 {array} dto.SupportMessageResponse
// @Security BearerAuth
// @Router /support/messages [get]
func (h *supportHandler) listMyMessages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	msgs, err := h.supportService.ListMyMessages(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list messages")
		return
	}
	c.JSON(http.StatusOK, dto.ToSupportMessageResponses(msgs))
}

// @Summary Send a support message
// @Tags support
// @Accept  json
// @Produce  json
// @Param   message body dto.SendSupportMessageRequest true "Message"
// @Success 201 {object} dto.SupportMessageResponse
// @Security BearerAuth
// @Router /support/messages [post]
func (h *supportHandler) sendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.SendSupportMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	msg, err := h.supportService.SendMessage(c.Request.Context(), userID, req.Message)
	if err != nil {
		respondError(c, err, "Failed to send message")
		return
	}
	c.JSON(http.StatusCreated, dto.ToSupportMessageResponse(msg))
}

// @Summary Unread staff replies
// @Tags support
// @Produce  json
// @Success 200 {object} dto.UnreadCountResponse
// @Security BearerAuth
// @Router /support/unread-count [get]
func (h *supportHandler) myUnreadCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	n, err := h.supportService.MyUnreadCount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to count unread messages")
		return
	}
	c.JSON(http.StatusOK, dto.UnreadCountResponse{UnreadCount: n})
}

// listConversations godoc
// @Summary Support conversations
// @Description Staff only. Threads with unread messages first, then by latest message.
// @Tags support
// @Produce  json
// @Success 200 {array} domain.SupportConversation
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /support/staff/conversations [get]
func (h *supportHandler) listConversations(c *gin.Context) {
	staffID, ok := currentUserID(c)
	if !ok {
		return
	}

	convs, err := h.supportService.ListConversations(c.Request.Context(), staffID)
	if err != nil {
		respondError(c, err, "Failed to list conversations")
		return
	}
	c.JSON(http.StatusOK, convs)
}

// getConversation godoc
// @Summary A user's support thread
// @Description Staff only. Marks the user's messages read.
// @Tags support
// @Produce  json
// @Param   userID path string true "User ID"
// @Success 200 {object} dto.ConversationDetailResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /support/staff/conversations/{userID} [get]
func (h *supportHandler) getConversation(c *gin.Context) {
	staffID, ok := currentUserID(c)
	if !ok {
		return
	}

	userID := c.Param("userID")
	msgs, err := h.supportService.GetConversation(c.Request.Context(), staffID, userID)
	if err != nil {
		respondError(c, err, "Failed to load conversation")
		return
	}
	c.JSON(http.StatusOK, dto.ConversationDetailResponse{UserID: userID, Messages: dto.ToSupportMessageResponses(msgs)})
}

// @Summary Reply to a user
// @Tags support
// @Accept  json
// @Produce  json
// @Param   userID path string true "User ID"
// @Param   message body dto.SendSupportMessageRequest true "Reply"
// @Success 201 {object} dto.SupportMessageResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /support/staff/conversations/{userID}/reply [post]
func (h *supportHandler) reply(c *gin.Context) {
	staffID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.SendSupportMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	msg, err := h.supportService.Reply(c.Request.Context(), staffID, c.Param("userID"), req.Message)
	if err != nil {
		respondError(c, err, "Failed to send reply")
		return
	}
	c.JSON(http.StatusCreated, dto.ToSupportMessageResponse(msg))
}

// @Summary Unread user messages across all threads
// @Tags support
// @Produce  json
// @Success 200 {object} dto.UnreadCountResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /support/staff/unread-count [get]
func (h *supportHandler) staffUnreadCount(c *gin.Context) {
	staffID, ok := currentUserID(c)
	if !ok {
		return
	}

	n, err := h.supportService.StaffUnreadCount(c.Request.Context(), staffID)
	if err != nil {
		respondError(c, err, "Failed to count unread messages")
		return
	}
	c.JSON(http.StatusOK, dto.UnreadCountResponse{UnreadCount: n})
}
