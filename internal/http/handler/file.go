package handler

import (
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"docexchange/internal/errs"
	"docexchange/internal/http/middleware"
	"docexchange/internal/model"
	"docexchange/internal/service"
)

type linkResponse struct {
	DownloadLink string `json:"download_link"`
	Message      string `json:"message"`
}

// principal returns the authenticated user id set by middleware.Authenticate.
func principal(c *fiber.Ctx) (int64, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, errs.ErrUnauthenticated
	}
	return id, nil
}

// UploadFile accepts a multipart upload (fields: file_name, file_content).
//
//	@Summary	Upload a document (ops only)
//	@Tags		files
//	@Accept		mpfd
//	@Produce	json
//	@Security	BearerAuth
//	@Param		file_name		formData	string	true	"display name"
//	@Param		file_content	formData	file	true	"pptx, docx or xlsx"
//	@Success	201				{object}	model.StoredFile
//	@Failure	400				{object}	errorPayload
//	@Failure	401				{object}	errorPayload
//	@Router		/file [post]
func UploadFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, err := principal(c)
		if err != nil {
			return err
		}

		in := service.UploadInput{DisplayName: c.FormValue("file_name")}
		var f multipart.File
		if fh, err := c.FormFile("file_content"); err == nil {
			if f, err = fh.Open(); err != nil {
				return errs.NewFieldError(errs.ErrValidation, "file_content", "The submitted file could not be read.")
			}
			defer f.Close()

			in.Filename = fh.Filename
			in.Content = f
			in.Size = fh.Size
			in.ContentType = fh.Header.Get(fiber.HeaderContentType)
			if in.ContentType == "" {
				in.ContentType = fiber.MIMEOctetStream
			}
		}

		stored, err := svc.Upload(c.UserContext(), uid, in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(stored)
	}
}

// ListFiles lists files newest first. With limit/offset the result is one
// page; without them every file is returned.
//
//	@Summary	List documents
//	@Tags		files
//	@Produce	json
//	@Security	BearerAuth
//	@Param		limit	query		int	false	"page size"
//	@Param		offset	query		int	false	"page offset"
//	@Success	200		{object}	service.FileListResult
//	@Failure	401		{object}	errorPayload
//	@Router		/file [get]
func ListFiles(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limitStr, offsetStr := c.Query("limit"), c.Query("offset")
		if limitStr == "" && offsetStr == "" {
			items := []model.StoredFile{}
			for f, err := range svc.ListAll(c.UserContext()) {
				if err != nil {
					return err
				}
				items = append(items, f)
			}
			return c.JSON(service.FileListResult{Items: items, Total: len(items)})
		}

		limit, err := queryInt(limitStr, 10, "limit")
		if err != nil {
			return err
		}
		offset, err := queryInt(offsetStr, 0, "offset")
		if err != nil {
			return err
		}
		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

func queryInt(s string, def int, field string) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errs.NewFieldError(errs.ErrValidation, field, "A valid integer is required.")
	}
	return n, nil
}

// MintLink returns a signed download link for a file id.
//
//	@Summary	Generate a download link
//	@Tags		files
//	@Produce	json
//	@Security	BearerAuth
//	@Param		file_id	path		int	true	"file id"
//	@Success	200		{object}	linkResponse
//	@Failure	400		{object}	errorPayload
//	@Router		/file/link/{file_id} [post]
func MintLink(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, err := principal(c)
		if err != nil {
			return err
		}
		id, err := strconv.ParseInt(c.Params("file_id"), 10, 64)
		if err != nil || id <= 0 {
			return errs.NewFieldError(errs.ErrValidation, "file_id", "A valid integer is required.")
		}
		link, err := svc.MintLink(c.UserContext(), uid, id)
		if err != nil {
			return err
		}
		return c.JSON(linkResponse{DownloadLink: link, Message: "success"})
	}
}

// DownloadFile streams the file behind a signed token (client only).
//
//	@Summary	Download a document
//	@Tags		files
//	@Produce	octet-stream
//	@Security	BearerAuth
//	@Param		signed_token	path	string	true	"signed download token"
//	@Success	200				{file}	file
//	@Failure	400				{object}	errorPayload
//	@Router		/file/download/{signed_token} [get]
func DownloadFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, err := principal(c)
		if err != nil {
			return err
		}
		d, err := svc.Resolve(c.UserContext(), uid, c.Params("signed_token"))
		if err != nil {
			return err
		}
		c.Attachment(d.Filename())
		size := -1
		if d.Size > 0 {
			size = int(d.Size)
		}
		// The body is closed once the response has been written.
		return c.SendStream(d.Body, size)
	}
}

// PresignDownload returns a direct object-store URL for a signed token (client only).
//
//	@Summary	Get a presigned download URL
//	@Tags		files
//	@Produce	json
//	@Security	BearerAuth
//	@Param		signed_token	path		string	true	"signed download token"
//	@Success	200				{object}	service.PresignedURL
//	@Failure	400				{object}	errorPayload
//	@Failure	503				{object}	errorPayload
//	@Router		/file/download/{signed_token}/url [get]
func PresignDownload(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, err := principal(c)
		if err != nil {
			return err
		}
		u, err := svc.PresignDownload(c.UserContext(), uid, c.Params("signed_token"))
		if err != nil {
			return err
		}
		return c.JSON(u)
	}
}
