package handler

import (
	"net/http"

	"myfinance/internal/models"
	"myfinance/internal/store"
	"myfinance/internal/util"

	"github.com/gin-gonic/gin"
)

// CategoryHandler serves /categories. Every call is scoped to the caller.
type CategoryHandler struct {
	Categories *store.CategoryStore
}

func NewCategoryHandler(categories *store.CategoryStore) *CategoryHandler {
	return &CategoryHandler{Categories: categories}
}

type createCategoryReq struct {
	Name  string  `json:"name" binding:"required"`
	Color *string `json:"color"`
}

type updateCategoryReq struct {
	Name  *string               `json:"name"`
	Color util.Optional[string] `json:"color"`
}

type categoryResp struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

func toCategoryResp(cat *models.Category) categoryResp {
	return categoryResp{ID: cat.ID, Name: cat.Name, Color: cat.Color}
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	id, ok := owner(c)
	if !ok {
		return
	}

	var req createCategoryReq
	if !bindJSON(c, &req) {
		return
	}

	name, err := util.NormalizeCategoryName(req.Name)
	if err != nil {
		util.Fail(c, util.Validation(err.Error()))
		return
	}
	if req.Color != nil {
		if err := util.ValidateColor(*req.Color); err != nil {
			util.Fail(c, util.Validation(err.Error()))
			return
		}
	}

	cat, err := h.Categories.Create(c.Request.Context(), id.ID, name, req.Color)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, http.StatusCreated, toCategoryResp(cat))
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	id, ok := owner(c)
	if !ok {
		return
	}

	cats, err := h.Categories.List(c.Request.Context(), id.ID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	out := make([]categoryResp, 0, len(cats))
	for i := range cats {
		out = append(out, toCategoryResp(&cats[i]))
	}
	util.Success(c, http.StatusOK, out)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := owner(c)
	if !ok {
		return
	}
	catID, ok := pathID(c)
	if !ok {
		return
	}

	cat, err := h.Categories.Get(c.Request.Context(), catID, id.ID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, toCategoryResp(cat))
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := owner(c)
	if !ok {
		return
	}
	catID, ok := pathID(c)
	if !ok {
		return
	}

	var req updateCategoryReq
	if !bindJSON(c, &req) {
		return
	}

	var patch store.CategoryPatch
	if req.Name != nil {
		name, err := util.NormalizeCategoryName(*req.Name)
		if err != nil {
			util.Fail(c, util.Validation(err.Error()))
			return
		}
		patch.Name = &name
	}
	if req.Color.Set && !req.Color.Null {
		if err := util.ValidateColor(req.Color.Value); err != nil {
			util.Fail(c, util.Validation(err.Error()))
			return
		}
	}
	patch.Color = req.Color

	cat, err := h.Categories.Update(c.Request.Context(), catID, id.ID, patch)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, toCategoryResp(cat))
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := owner(c)
	if !ok {
		return
	}
	catID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Categories.Delete(c.Request.Context(), catID, id.ID); err != nil {
		util.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
