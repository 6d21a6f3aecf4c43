package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/imagegallery/models"
	"github.com/cppla/imagegallery/storage"
	"github.com/cppla/imagegallery/utils"
)

// Upload rejection classes. Every one of them fails the whole request.
var (
	ErrNoFiles         = errors.New("no files uploaded")
	ErrFileTooLarge    = errors.New("file too large")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrUnexpectedField = errors.New("unexpected field")
)

// UploadPolicy constrains the files an upload request may carry.
type UploadPolicy struct {
	Field        string
	MaxFileSize  int64
	AllowedTypes []string
}

// Check validates every file of form in order and returns those under the
// upload field. The first violation wins.
func (p UploadPolicy) Check(form *multipart.Form) ([]*multipart.FileHeader, error) {
	for field, headers := range form.File {
		if field != p.Field && len(headers) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnexpectedField, field)
		}
	}
	headers := form.File[p.Field]
	for _, h := range headers {
		if !p.allowed(h.Header.Get("Content-Type")) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidFileType, h.Filename)
		}
		if h.Size > p.MaxFileSize {
			return nil, fmt.Errorf("%w: %s is %d bytes", ErrFileTooLarge, h.Filename, h.Size)
		}
	}
	if len(headers) == 0 {
		return nil, ErrNoFiles
	}
	return headers, nil
}

func (p UploadPolicy) allowed(contentType string) bool {
	for _, t := range p.AllowedTypes {
		if t == contentType {
			return true
		}
	}
	return false
}

// uploadErrorMessage maps a rejection to the message clients see.
func uploadErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return "One or more files too large"
	case errors.Is(err, ErrInvalidFileType):
		return "Invalid file type"
	case errors.Is(err, ErrNoFiles):
		return "No files uploaded"
	case errors.Is(err, ErrUnexpectedField):
		return "Unexpected field"
	default:
		return err.Error()
	}
}

// ImageController serves upload, listing and deletion of stored images.
type ImageController struct {
	store  *storage.Store
	policy UploadPolicy
	logger *zap.Logger
	now    func() time.Time
}

// NewImageController creates a new ImageController instance.
func NewImageController(store *storage.Store, policy UploadPolicy, logger *zap.Logger) *ImageController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageController{store: store, policy: policy, logger: logger, now: time.Now}
}

// UploadMultiple stores every file of the multipart field in input order.
// Nothing is written unless all files pass the policy.
func (ic *ImageController) UploadMultiple(ctx *gin.Context) {
	form, err := ctx.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			err = ErrNoFiles
		}
		utils.Error(ctx, http.StatusBadRequest, uploadErrorMessage(err))
		return
	}
	defer func() { _ = form.RemoveAll() }()

	headers, err := ic.policy.Check(form)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, uploadErrorMessage(err))
		return
	}

	saved := make([]storage.File, 0, len(headers))
	for _, h := range headers {
		f, err := ic.save(h)
		if err != nil {
			ic.store.Discard(saved)
			ic.logger.Error("error saving uploaded file", zap.String("file", h.Filename), zap.Error(err))
			utils.ErrorWithCause(ctx, http.StatusInternalServerError, "Failed to save file", err)
			return
		}
		saved = append(saved, f)
	}

	uploadedAt := ic.now().UnixMilli()
	files := make([]models.UploadedFile, 0, len(saved))
	for i, f := range saved {
		files = append(files, models.UploadedFile{
			Name:         f.Name.Original,
			Size:         f.Size,
			Type:         headers[i].Header.Get("Content-Type"),
			URL:          ic.store.URL(f.ServerName),
			LastModified: uploadedAt,
		})
	}
	utils.Success(ctx, models.UploadResponse{Files: files})
}

func (ic *ImageController) save(h *multipart.FileHeader) (storage.File, error) {
	src, err := h.Open()
	if err != nil {
		return storage.File{}, err
	}
	defer src.Close()
	return ic.store.Save(h.Filename, src)
}

// ListImages re-scans the upload directory on every call.
func (ic *ImageController) ListImages(ctx *gin.Context) {
	files, err := ic.store.List()
	if err != nil {
		ic.logger.Error("error reading uploads directory", zap.String("dir", ic.store.Dir()), zap.Error(err))
		utils.ErrorWithCause(ctx, http.StatusInternalServerError, "Failed to read uploads directory", err)
		return
	}

	images := make([]models.StoredFile, 0, len(files))
	for _, f := range files {
		images = append(images, models.StoredFile{
			UploadedFile: models.UploadedFile{
				Name:         f.Name.Original,
				Size:         f.Size,
				Type:         f.Ext(),
				URL:          ic.store.URL(f.ServerName),
				LastModified: f.ModTime.UnixMilli(),
			},
			ServerFilename: f.ServerName,
		})
	}
	utils.Success(ctx, models.ListResponse{Files: images})
}

// DeleteImage removes one stored image by its server filename.
func (ic *ImageController) DeleteImage(ctx *gin.Context) {
	filename := ctx.Param("filename")
	if err := ic.store.Remove(filename); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, "File not found")
			return
		}
		ic.logger.Error("error deleting file", zap.String("filename", filename), zap.Error(err))
		utils.ErrorWithCause(ctx, http.StatusInternalServerError, "Failed to delete file", err)
		return
	}
	utils.Success(ctx, models.DeleteResponse{
		Message:  "File deleted successfully",
		Filename: filename,
	})
}
