package httphandler

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
	"github.com/niksmo/shop-admin/internal/core/view"
)

const (
	maxUploadSize = 10 << 20
	imageField    = "image"
)

type ProductsHandler struct {
	products port.ProductsManager
	views    *view.Registry
}

// RegisterProducts registers the product routes behind protect.
func RegisterProducts(
	mux *http.ServeMux,
	protect func(http.Handler) http.Handler,
	products port.ProductsManager,
	views *view.Registry,
) {
	h := ProductsHandler{products, views}
	mux.Handle("GET /v1/products", protect(http.HandlerFunc(h.ListProducts)))
	mux.Handle("GET /v1/products/{id}", protect(http.HandlerFunc(h.GetProduct)))
	mux.Handle("POST /v1/products", protect(http.HandlerFunc(h.AddProduct)))
	mux.Handle("PUT /v1/products/{id}", protect(http.HandlerFunc(h.EditProduct)))
	mux.Handle("DELETE /v1/products/{id}", protect(http.HandlerFunc(h.DeleteProduct)))
}

func (h ProductsHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.ListProducts"
	log := slog.With("op", op)

	refresh, err := queryBool(r, "refresh")
	if err != nil {
		writeError(w, log, err)
		return
	}

	ws := workspace(r, h.views)

	var notice string
	if refresh || !ws.Products.Snapshot().Loaded {
		products, err := h.products.ListProducts(r.Context())
		if err != nil {
			log.Error("failed to fetch products", "err", err)
			products = nil
			notice = fetchNotice
		}
		ws.Products.Load(products)
	}

	writeJSON(w, log, http.StatusOK, ProductsPage{
		Products: productsFromDomain(ws.Products.Snapshot().Products),
		Notice:   notice,
	})
}

func (h ProductsHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetProduct"
	log := slog.With("op", op)

	p, err := h.products.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, productFromDomain(p))
}

func (h ProductsHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.AddProduct"
	log := slog.With("op", op)

	form, err := parseProductForm(w, r)
	if err != nil {
		writeError(w, log, err)
		return
	}
	defer form.close(log)

	evt, err := h.products.AddProduct(r.Context(), domain.NewProduct{
		Title:       form.title,
		Description: form.description,
		Price:       form.price,
		Image:       form.image,
	})
	if err != nil {
		writeError(w, log, err)
		return
	}

	workspace(r, h.views).Products.Apply(evt)
	writeJSON(w, log, http.StatusCreated, productFromDomain(evt.Product))
	log.Info("product created", "productID", evt.Product.ID)
}

// EditProduct replaces the image only when the form carries a file.
func (h ProductsHandler) EditProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.EditProduct"
	log := slog.With("op", op)

	form, err := parseProductForm(w, r)
	if err != nil {
		writeError(w, log, err)
		return
	}
	defer form.close(log)

	id := r.PathValue("id")
	evt, err := h.products.EditProduct(r.Context(), id, domain.ProductEdit{
		Title:       form.title,
		Description: form.description,
		Price:       form.price,
		Image:       form.image,
	})
	if err != nil {
		writeError(w, log, err)
		return
	}

	ws := workspace(r, h.views)
	ws.Products.Apply(evt)

	p, ok := ws.Products.Get(id)
	if !ok {
		p = domain.Product{ID: id}.Apply(evt.Patch)
	}
	writeJSON(w, log, http.StatusOK, productFromDomain(p))
	log.Info("product updated", "productID", id)
}

func (h ProductsHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.DeleteProduct"
	log := slog.With("op", op)

	confirmed, err := queryBool(r, "confirm")
	if err != nil {
		writeError(w, log, err)
		return
	}

	id := r.PathValue("id")
	evt, err := h.products.DeleteProduct(r.Context(), id, confirmed)
	if err != nil {
		writeError(w, log, err)
		return
	}

	workspace(r, h.views).Products.Apply(evt)
	w.WriteHeader(http.StatusNoContent)
	log.Info("product deleted", "productID", id)
}

type productForm struct {
	title       string
	description string
	price       string
	image       *domain.ImageFile
	file        multipart.File
}

func parseProductForm(w http.ResponseWriter, r *http.Request) (productForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return productForm{}, badRequest{"invalid multipart form"}
	}

	form := productForm{
		title:       r.FormValue("title"),
		description: r.FormValue("description"),
		price:       r.FormValue("price"),
	}

	file, header, err := r.FormFile(imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return form, nil
		}
		return productForm{}, badRequest{"invalid image file"}
	}

	form.file = file
	form.image = &domain.ImageFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	}
	return form, nil
}

func (f productForm) close(log *slog.Logger) {
	if f.file == nil {
		return
	}
	if err := f.file.Close(); err != nil {
		log.Warn("failed to close uploaded file", "err", err)
	}
}
