package handlers

import (
	"net/http"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/SscSPs/personal_finance_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// categoryHandler serves categories and tags.
type categoryHandler struct {
	categoryService    portssvc.CategorySvcFacade
	transactionService portssvc.TransactionReaderSvc
}

func newCategoryHandler(cs portssvc.CategorySvcFacade, ts portssvc.TransactionReaderSvc) *categoryHandler {
	return &categoryHandler{categoryService: cs, transactionService: ts}
}

func registerCategoryRoutes(rg *gin.RouterGroup, categoryService portssvc.CategorySvcFacade, transactionService portssvc.TransactionReaderSvc) {
	h := newCategoryHandler(categoryService, transactionService)

	categories := rg.Group("/categories")
	{
		categories.GET("", h.listCategories)
		categories.POST("", h.createCategory)
		categories.GET("/:categoryID", h.getCategory)
		categories.PATCH("/:categoryID", h.updateCategory)
		categories.DELETE("/:categoryID", h.deleteCategory)
	}

	tags := rg.Group("/tags")
	{
		tags.GET("", h.listTags)
		tags.POST("", h.createTag)
		tags.GET("/:tagID", h.getTag)
		tags.DELETE("/:tagID", h.deleteTag)
		tags.GET("/:tagID/transactions", h.tagTransactions)
	}
}

// listCategories godoc
// @Summary List categories
// @Description Default categories plus the user's own active categories
// @Tags categories
// @Produce  json
// @Param   type query string false "income or expense"
// @Success 200 {array} dto.CategoryResponse
// @Security BearerAuth
// @Router /categories [get]
func (h *categoryHandler) listCategories(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var params dto.ListCategoriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	var txnType *domain.TransactionType
	if params.Type != nil {
		t := domain.TransactionType(*params.Type)
		txnType = &t
	}

	categories, err := h.categoryService.ListCategories(c.Request.Context(), userID, txnType)
	if err != nil {
		respondError(c, err, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, dto.ToCategoryResponses(categories))
}

// createCategory godoc
// @Summary Create a category
// @Description The parent, when given, must be a default category or one of the user's own
// @Tags categories
// @Accept  json
// @Produce  json
// @Param   category body dto.CreateCategoryRequest true "Category details"
// @Success 201 {object} dto.CategoryResponse
// @Failure 403 {object} ErrorResponse "Parent not visible"
// @Security BearerAuth
// @Router /categories [post]
func (h *categoryHandler) createCategory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create category")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCategoryResponse(category))
}

// getCategory godoc
// @Summary Get a category
// @Tags categories
// @Produce  json
// @Param   categoryID path string true "Category ID"
// @Success 200 {object} dto.CategoryResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /categories/{categoryID} [get]
func (h *categoryHandler) getCategory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	category, err := h.categoryService.GetCategory(c.Request.Context(), userID, c.Param("categoryID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve category")
		return
	}
	c.JSON(http.StatusOK, dto.ToCategoryResponse(category))
}

// updateCategory godoc
// @Summary Update a category
// @Description Only the user's own categories can change
// @Tags categories
// @Accept  json
// @Produce  json
// @Param   categoryID path string true "Category ID"
// @Param   category body dto.UpdateCategoryRequest true "Fields to change"
// @Success 200 {object} dto.CategoryResponse
// @Failure 403 {object} ErrorResponse "Default or foreign category"
// @Security BearerAuth
// @Router /categories/{categoryID} [patch]
func (h *categoryHandler) updateCategory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), userID, c.Param("categoryID"), req)
	if err != nil {
		respondError(c, err, "Failed to update category")
		return
	}
	c.JSON(http.StatusOK, dto.ToCategoryResponse(category))
}

// deleteCategory godoc
// @Summary Delete a category
// @Tags categories
// @Param   categoryID path string true "Category ID"
// @Success 204
// @Failure 400 {object} ErrorResponse "Category has transactions"
// @Failure 403 {object} ErrorResponse "Default or foreign category"
// @Security BearerAuth
// @Router /categories/{categoryID} [delete]
func (h *categoryHandler) deleteCategory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), userID, c.Param("categoryID")); err != nil {
		respondError(c, err, "Failed to delete category")
		return
	}
	c.Status(http.StatusNoContent)
}

// listTags godoc
// @Summary List tags
// @Tags tags
// @Produce  json
// @Success 200 {array} dto.TagResponse
// @Security BearerAuth
// @Router /tags [get]
func (h *categoryHandler) listTags(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	tags, err := h.categoryService.ListTags(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list tags")
		return
	}
	c.JSON(http.StatusOK, dto.ToTagResponses(tags))
}

// createTag godoc
// @Summary Create a tag
// @Tags tags
// @Accept  json
// @Produce  json
// @Param   tag body dto.CreateTagRequest true "Tag details"
// @Success 201 {object} dto.TagResponse
// @Security BearerAuth
// @Router /tags [post]
func (h *categoryHandler) createTag(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tag, err := h.categoryService.CreateTag(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create tag")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTagResponses([]domain.Tag{*tag})[0])
}

// @Summary Get a tag
// @Tags tags
// @Produce  json
// @Param   tagID path string true "Tag ID"
// @Success 200 {object} dto.TagResponse
// @Security BearerAuth
// @Router /tags/{tagID} [get]
func (h *categoryHandler) getTag(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	tag, err := h.categoryService.GetTag(c.Request.Context(), userID, c.Param("tagID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve tag")
		return
	}
	c.JSON(http.StatusOK, dto.ToTagResponses([]domain.Tag{*tag})[0])
}

// @Summary Delete a tag
// @Tags tags
// @Param   tagID path string true "Tag ID"
// @Success 204
// @Failure 403 {object} ErrorResponse "Default or foreign tag"
// @Security BearerAuth
// @Router /tags/{tagID} [delete]
func (h *categoryHandler) deleteTag(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.categoryService.DeleteTag(c.Request.Context(), userID, c.Param("tagID")); err != nil {
		respondError(c, err, "Failed to delete tag")
		return
	}
	c.Status(http.StatusNoContent)
}

// tagTransactions godoc
// @Summary Transactions carrying a tag
// @Tags tags
// @Produce  json
// @Param   tagID path string true "Tag ID"
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListTransactionsResponse
// @Security BearerAuth
// @Router /tags/{tagID}/transactions [get]
func (h *categoryHandler) tagTransactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	// Foreign tags are a 404, not an empty page.
	tag, err := h.categoryService.GetTag(c.Request.Context(), userID, c.Param("tagID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve tag")
		return
	}

	filter := params.ToFilter()
	filter.TagID = &tag.TagID
	txns, total, err := h.transactionService.ListTransactions(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionListViews(txns),
		Total:        total,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	})
}
