package handlers

import (
	"fmt"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/basappa1234/resume-screening-agent/internal/models"
	"github.com/basappa1234/resume-screening-agent/internal/repositories"
	"github.com/basappa1234/resume-screening-agent/internal/services"
)

type UploadHandler struct {
	docRepo        repositories.DocumentRepository
	storageService services.StorageService
	maxFileSize    int64
}

func NewUploadHandler(
	docRepo repositories.DocumentRepository,
	storageService services.StorageService,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		docRepo:        docRepo,
		storageService: storageService,
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload accepts a multipart form with any number of "resumes" files
// and/or a single "job_description" file, stores them, and returns the
// document ids to use when creating a screening session.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	files := form.File

	var responses []models.UploadResponse

	// Resume files (repeatable field)
	for _, resumeFile := range files["resumes"] {
		resp, err := h.saveDocument(resumeFile, models.DocumentTypeResume)
		if err != nil {
			return h.uploadError(c, err)
		}
		responses = append(responses, *resp)
	}

	// Job description file
	if jdFiles, exists := files["job_description"]; exists && len(jdFiles) > 0 {
		resp, err := h.saveDocument(jdFiles[0], models.DocumentTypeJobDescription)
		if err != nil {
			return h.uploadError(c, err)
		}
		responses = append(responses, *resp)
	}

	if len(responses) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No valid files uploaded. Please upload 'resumes' and/or 'job_description' as PDF, DOCX, or TXT files.",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Files uploaded successfully",
		"documents": responses,
	})
}

type uploadFailure struct {
	status  int
	message string
}

func (u *uploadFailure) Error() string { return u.message }

func (h *UploadHandler) saveDocument(file *multipart.FileHeader, fileType string) (*models.UploadResponse, error) {
	if file.Size > h.maxFileSize {
		return nil, &uploadFailure{
			status:  fiber.StatusBadRequest,
			message: fmt.Sprintf("file %q too large. Max size: %d bytes", file.Filename, h.maxFileSize),
		}
	}

	// Save file
	filename, filePath, err := h.storageService.SaveFile(file, fileType)
	if err != nil {
		return nil, &uploadFailure{
			status:  fiber.StatusBadRequest,
			message: fmt.Sprintf("failed to save file %q: %v", file.Filename, err),
		}
	}

	// Create document record
	doc := models.Document{
		ID:               uuid.New(),
		Filename:         filename,
		OriginalFileName: file.Filename,
		FileType:         fileType,
		FilePath:         filePath,
		SizeBytes:        file.Size,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.docRepo.Create(&doc); err != nil {
		// Cleanup uploaded file if database insert fails
		h.storageService.DeleteFile(filename)
		return nil, &uploadFailure{
			status:  fiber.StatusInternalServerError,
			message: fmt.Sprintf("failed to save document record for %q: %v", file.Filename, err),
		}
	}

	return &models.UploadResponse{
		ID:           doc.ID.String(),
		Filename:     doc.Filename,
		OriginalName: doc.OriginalFileName,
		FileType:     doc.FileType,
	}, nil
}

func (h *UploadHandler) uploadError(c *fiber.Ctx, err error) error {
	if failure, ok := err.(*uploadFailure); ok {
		return c.Status(failure.status).JSON(fiber.Map{"error": failure.message})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
