package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/blast-commerce/blast-backend/api/responses"
	productsvc "github.com/blast-commerce/blast-backend/internal/products"
	pkgerrors "github.com/blast-commerce/blast-backend/pkg/errors"
	"github.com/blast-commerce/blast-backend/pkg/logger"
	"github.com/blast-commerce/blast-backend/pkg/pagination"
)

// ProductsList serves the public catalog listing with cursor pagination.
func ProductsList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		query := r.URL.Query()
		params := pagination.Params{Cursor: query.Get("cursor")}
		if raw := query.Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid limit"))
				return
			}
			params.Limit = limit
		}

		filters := productsvc.ListFilters{
			Category:   query.Get("category"),
			Brand:      query.Get("brand"),
			ActiveOnly: true,
		}
		if raw := query.Get("featured"); raw != "" {
			featured, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid featured flag"))
				return
			}
			filters.Featured = &featured
		}

		list, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// ProductsGet resolves one product by uuid or, failing that, by slug.
func ProductsGet(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		key := chi.URLParam(r, "idOrSlug")
		if id, err := uuid.Parse(key); err == nil {
			product, err := svc.GetByID(r.Context(), id)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, product)
			return
		}

		product, err := svc.GetBySlug(r.Context(), key)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
