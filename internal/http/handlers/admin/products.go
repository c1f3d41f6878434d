package admin

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/pasto-verde/internal/http/request"
	"github.com/magabrotheeeer/pasto-verde/internal/http/response"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/sl"
	"github.com/magabrotheeeer/pasto-verde/internal/models"
)

// ListProducts godoc
// @Summary Товары
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]models.Product}
// @Router /admin/products [get]
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.ListProducts")

	products, err := h.management.ListProducts(r.Context())
	if err != nil {
		log.Error("failed to list products", sl.Err(err))
		response.FromError(w, r, err, "could not list products")
		return
	}
	render.JSON(w, r, response.OKWithData(products))
}

// CreateProduct godoc
// @Summary Добавить товар
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.ProductRequest true "Товар"
// @Success 201 {object} response.Response{data=models.Product}
// @Failure 400 {object} response.ErrorResponse "Некорректная цена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /admin/products [post]
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.CreateProduct")

	var req models.ProductRequest
	if !request.DecodeAndValidate(w, r, log, h.validate, &req) {
		return
	}

	product, err := h.management.CreateProduct(r.Context(), req)
	if err != nil {
		log.Error("failed to create product", sl.Err(err))
		response.FromError(w, r, err, "could not create product")
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(product))
}

// UpdateProduct godoc
// @Summary Изменить товар
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID товара"
// @Param request body models.ProductRequest true "Товар"
// @Success 200 {object} response.Response{data=models.Product}
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /admin/products/{id} [put]
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.UpdateProduct")

	id, ok := request.Int64Param(w, r, log, "id")
	if !ok {
		return
	}
	var req models.ProductRequest
	if !request.DecodeAndValidate(w, r, log, h.validate, &req) {
		return
	}

	product, err := h.management.UpdateProduct(r.Context(), id, req)
	if err != nil {
		log.Error("failed to update product", sl.Err(err))
		response.FromError(w, r, err, "could not update product")
		return
	}
	render.JSON(w, r, response.OKWithData(product))
}

// RemoveProduct godoc
// @Summary Удалить товар
// @Description Товар, на который ссылаются заказы, удалить нельзя.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID товара"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Failure 409 {object} response.ErrorResponse "Товар используется в заказах"
// @Router /admin/products/{id} [delete]
func (h *Handler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.RemoveProduct")

	id, ok := request.Int64Param(w, r, log, "id")
	if !ok {
		return
	}
	if err := h.management.RemoveProduct(r.Context(), id); err != nil {
		log.Error("failed to remove product", sl.Err(err))
		response.FromError(w, r, err, "could not remove product")
		return
	}
	render.JSON(w, r, response.OK())
}
