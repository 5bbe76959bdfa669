package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/Varun5711/devcamper/internal/logger"
	"github.com/Varun5711/devcamper/internal/middleware"
	"github.com/Varun5711/devcamper/internal/models"
	usermodel "github.com/Varun5711/devcamper/internal/models/user"
	"github.com/Varun5711/devcamper/internal/qrcode"
	"github.com/Varun5711/devcamper/internal/service"
)

type BootcampHandler struct {
	bootcamps    *service.BootcampService
	maxPhotoSize int64
	log          *logger.Logger
}

func NewBootcampHandler(bootcamps *service.BootcampService, maxPhotoSize int64) *BootcampHandler {
	return &BootcampHandler{
		bootcamps:    bootcamps,
		maxPhotoSize: maxPhotoSize,
		log:          logger.New("bootcamp-handler"),
	}
}

func (h *BootcampHandler) RegisterRoutes(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	publishers := func(fn http.HandlerFunc) http.Handler {
		return protect(middleware.Authorize(usermodel.RolePublisher, usermodel.RoleAdmin)(fn))
	}

	mux.HandleFunc("GET /api/v1/bootcamps", h.List)
	mux.Handle("POST /api/v1/bootcamps", publishers(h.Create))
	mux.HandleFunc("GET /api/v1/bootcamps/{id}", h.Get)
	mux.Handle("PUT /api/v1/bootcamps/{id}", publishers(h.Update))
	mux.Handle("DELETE /api/v1/bootcamps/{id}", publishers(h.Delete))
	mux.HandleFunc("GET /api/v1/bootcamps/radius/{zipcode}/{distance}", h.InRadius)
	mux.Handle("PUT /api/v1/bootcamps/{id}/photo", publishers(h.UploadPhoto))
	mux.HandleFunc("GET /api/v1/bootcamps/{id}/qrcode", h.QRCode)
}

func (h *BootcampHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	list, err := h.bootcamps.List(ctx, page, limit)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	count := len(list.Bootcamps)
	respondJSON(w, http.StatusOK, models.Envelope{
		Success:    true,
		Count:      &count,
		Pagination: &list.Pagination,
		Data:       list.Bootcamps,
	})
}

func (h *BootcampHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	b, err := h.bootcamps.Get(ctx, r.PathValue("id"))
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, models.Envelope{Success: true, Data: b})
}

func (h *BootcampHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.BootcampInput
	if !decodeJSON(w, r, &in) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	b, err := h.bootcamps.Create(ctx, middleware.GetUser(r.Context()), &in)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, models.Envelope{Success: true, Data: b})
}

func (h *BootcampHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in models.BootcampInput
	if !decodeJSON(w, r, &in) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	b, err := h.bootcamps.Update(ctx, middleware.GetUser(r.Context()), r.PathValue("id"), &in)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, models.Envelope{Success: true, Data: b})
}

func (h *BootcampHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.bootcamps.Delete(ctx, middleware.GetUser(r.Context()), r.PathValue("id")); err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, models.Envelope{Success: true, Data: struct{}{}})
}

func (h *BootcampHandler) InRadius(w http.ResponseWriter, r *http.Request) {
	distance, err := strconv.ParseFloat(r.PathValue("distance"), 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Distance must be a positive number")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	list, err := h.bootcamps.InRadius(ctx, r.PathValue("zipcode"), distance)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	count := len(list)
	respondJSON(w, http.StatusOK, models.Envelope{Success: true, Count: &count, Data: list})
}

// UploadPhoto accepts a multipart form with the image in the "file" field.
func (h *BootcampHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if h.maxPhotoSize > 0 {
		// Leave room for the multipart framing around the file itself.
		r.Body = http.MaxBytesReader(w, r.Body, h.maxPhotoSize+maxBodyBytes)
	}

	var upload *service.PhotoUpload
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusBadRequest, "Please upload an image less than "+strconv.FormatInt(h.maxPhotoSize, 10))
			return
		}
	} else if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		upload = &service.PhotoUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		}
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	name, err := h.bootcamps.UploadPhoto(ctx, middleware.GetUser(r.Context()), r.PathValue("id"), upload)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, models.Envelope{Success: true, Data: name})
}

// QRCode serves the bootcamp website as a PNG, sized by the optional size query parameter.
func (h *BootcampHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	size := qrcode.DefaultSize
	if s, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil && s > 0 && s <= 1024 {
		size = s
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	png, err := h.bootcamps.QRCode(ctx, r.PathValue("id"), size)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
