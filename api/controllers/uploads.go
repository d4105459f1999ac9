package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront-admin/api/responses"
	"github.com/angelmondragon/storefront-admin/api/validators"
	"github.com/angelmondragon/storefront-admin/internal/uploads"
	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"github.com/angelmondragon/storefront-admin/pkg/logger"
	"github.com/angelmondragon/storefront-admin/pkg/storage"
)

// maxFilesPerRequest bounds POST /api/uploads/multiple.
const maxFilesPerRequest = validators.MaxFormFiles

type deleteUploadRequest struct {
	Path string `json:"path" validate:"required,max=500"`
}

// UploadFile stores the image in field "file" under the optional folder.
func UploadFile(svc uploads.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := validators.ParseMultipart(w, r, maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		folder, err := uploadFolder(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		headers := r.MultipartForm.File["file"]
		if len(headers) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Invalid(map[string]string{"file": "is required"}))
			return
		}
		upload, err := validators.ImageUpload(headers[0], maxBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Invalid(map[string]string{"file": err.Error()}))
			return
		}

		stored, err := svc.Upload(r.Context(), folder, upload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, stored)
	}
}

// UploadFiles stores every image in field "files"; one bad file rejects the
// whole request.
func UploadFiles(svc uploads.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := validators.ParseMultipart(w, r, maxBytes*maxFilesPerRequest); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		folder, err := uploadFolder(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		headers := r.MultipartForm.File["files"]
		if len(headers) == 0 {
			headers = r.MultipartForm.File["files[]"]
		}
		if len(headers) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Invalid(map[string]string{"files": "is required"}))
			return
		}
		if len(headers) > maxFilesPerRequest {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Invalid(map[string]string{"files": fmt.Sprintf("may not have more than %d items", maxFilesPerRequest)}))
			return
		}

		batch := make([]storage.Upload, 0, len(headers))
		invalid := map[string]string{}
		for i, fh := range headers {
			upload, err := validators.ImageUpload(fh, maxBytes)
			if err != nil {
				invalid[fmt.Sprintf("files.%d", i)] = err.Error()
				continue
			}
			batch = append(batch, upload)
		}
		if len(invalid) > 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Invalid(invalid))
			return
		}

		stored, err := svc.UploadMany(r.Context(), folder, batch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, stored)
	}
}

// DeleteUpload removes a stored file by path.
func DeleteUpload(svc uploads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body deleteUploadRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), body.Path); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, "File deleted")
	}
}

func uploadFolder(r *http.Request) (string, error) {
	folder := strings.TrimSpace(r.FormValue("folder"))
	if folder == "" {
		return uploads.DefaultFolder, nil
	}
	if !validators.ValidFolder(folder) {
		return "", pkgerrors.Invalid(map[string]string{"folder": "may only contain lowercase letters, digits, dashes and underscores"})
	}
	return folder, nil
}
