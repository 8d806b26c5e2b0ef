package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"docexchange/internal/errs"
	"docexchange/internal/metrics"
	"docexchange/internal/model"
	"docexchange/internal/repository"
	"docexchange/internal/storage"
)

// maxHandleAttempts bounds retries on an opaque handle collision.
const maxHandleAttempts = 3

// RoleGate authorizes a principal for a role.
type RoleGate interface {
	Require(ctx context.Context, userID int64, role model.Role) error
}

// HandleCodec seals file handles into download tokens.
type HandleCodec interface {
	Seal(handle string) (string, error)
	Unseal(token string) (string, error)
}

// URLMinter issues presigned object-store URLs.
type URLMinter interface {
	Mint(ctx context.Context, key string, ttl time.Duration) (string, error)
	DefaultTTL() time.Duration
}

// FileListResult is the service-level DTO for listed files.
type FileListResult struct {
	Items []model.StoredFile `json:"data"`
	Total int                `json:"total"`
}

// Download is a resolved file ready to be streamed. The caller closes Body.
type Download struct {
	File        *model.StoredFile
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

// Filename is the attachment name offered to the client.
func (d *Download) Filename() string {
	name := d.File.DisplayName
	if FileExtension(name) != d.File.Extension {
		name += "." + d.File.Extension
	}
	return name
}

// PresignedURL is a direct object-store download URL.
type PresignedURL struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}

// FileService defines the upload, link and download use cases.
type FileService interface {
	// Upload stores the content and its metadata. Requires the ops role.
	// The object is removed again if the metadata cannot be saved.
	Upload(ctx context.Context, principal int64, in UploadInput) (*model.StoredFile, error)

	// List returns a page of files, newest first.
	List(ctx context.Context, limit, offset int) (*FileListResult, error)

	// ListAll lazily yields every file, newest first. Ranging again re-queries.
	ListAll(ctx context.Context) iter.Seq2[model.StoredFile, error]

	// MintLink returns a download link for the file with the given internal id.
	MintLink(ctx context.Context, principal int64, fileID int64) (string, error)

	// Resolve turns a download token into the file's content. Requires the client role.
	Resolve(ctx context.Context, principal int64, token string) (*Download, error)

	// PresignDownload turns a download token into a time-limited object-store URL.
	// Requires the client role.
	PresignDownload(ctx context.Context, principal int64, token string) (*PresignedURL, error)
}

// FileServiceDeps are the collaborators of a FileService.
type FileServiceDeps struct {
	Files    repository.FileRepository
	Store    storage.Storage
	Gate     RoleGate
	Codec    HandleCodec
	Minter   URLMinter
	Metrics  *metrics.Recorder
	BaseURL  string
	PageSize int
}

type fileService struct {
	files    repository.FileRepository
	store    storage.Storage
	gate     RoleGate
	codec    HandleCodec
	minter   URLMinter
	rec      *metrics.Recorder
	baseURL  string
	pageSize int

	newHandle func() string
	now       func() time.Time
}

// NewFileService constructs a FileService.
func NewFileService(d FileServiceDeps) FileService {
	return &fileService{
		files:     d.Files,
		store:     d.Store,
		gate:      d.Gate,
		codec:     d.Codec,
		minter:    d.Minter,
		rec:       d.Metrics,
		baseURL:   strings.TrimRight(d.BaseURL, "/"),
		pageSize:  d.PageSize,
		newHandle: uuid.NewString,
		now:       time.Now,
	}
}

func (s *fileService) Upload(ctx context.Context, principal int64, in UploadInput) (*model.StoredFile, error) {
	if err := s.gate.Require(ctx, principal, model.RoleOps); err != nil {
		s.rec.Upload(resultOf(err))
		return nil, err
	}
	ext, err := ValidateUpload(in)
	if err != nil {
		s.rec.Upload(metrics.ResultInvalid)
		return nil, err
	}

	stored, err := s.persist(ctx, principal, ext, in)
	if err != nil {
		s.rec.Upload(resultOf(err))
		return nil, err
	}
	s.rec.Upload(metrics.ResultSuccess)
	return stored, nil
}

func (s *fileService) persist(ctx context.Context, principal int64, ext string, in UploadInput) (*model.StoredFile, error) {
	id, err := s.files.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("reserve file id: %w", err)
	}
	key := storage.FileKey(id, ext)

	info, err := s.store.Put(ctx, key, in.Content, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata:    map[string]string{"file-id": strconv.FormatInt(id, 10)},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: upload to storage: %v", errs.ErrStorageUnavailable, err)
	}

	var stored *model.StoredFile
	for range maxHandleAttempts {
		stored, err = s.files.Create(ctx, &model.StoredFile{
			ID:          id,
			OwnerID:     principal,
			DisplayName: strings.TrimSpace(in.DisplayName),
			StorageKey:  key,
			Extension:   ext,
			Size:        info.Size,
			ContentType: in.ContentType,
			Handle:      s.newHandle(),
			CreatedAt:   s.now().UTC(),
		})
		if !errors.Is(err, errs.ErrDuplicateHandle) {
			break
		}
	}
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %w; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *fileService) List(ctx context.Context, limit, offset int) (*FileListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.files.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &FileListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *fileService) ListAll(ctx context.Context) iter.Seq2[model.StoredFile, error] {
	return repository.All(ctx, s.files.ListAfter, s.pageSize)
}

func (s *fileService) MintLink(ctx context.Context, _ int64, fileID int64) (string, error) {
	if fileID <= 0 {
		return "", errs.NewFieldError(errs.ErrValidation, "file_id", "A valid integer is required.")
	}
	f, err := s.files.FindByID(ctx, fileID)
	if err != nil {
		return "", unknownFile(err)
	}
	token, err := s.codec.Seal(f.Handle)
	if err != nil {
		return "", err
	}
	s.rec.LinkMinted()
	return s.baseURL + "/file/download/" + token, nil
}

func (s *fileService) Resolve(ctx context.Context, principal int64, token string) (*Download, error) {
	f, err := s.resolveFile(ctx, principal, token)
	if err != nil {
		s.rec.Download(resultOf(err))
		return nil, err
	}

	body, info, err := s.store.Get(ctx, f.StorageKey)
	switch {
	case errors.Is(err, storage.ErrObjectNotFound):
		s.rec.Download(metrics.ResultInvalid)
		return nil, unknownFile(errs.ErrNotFound)
	case err != nil:
		s.rec.Download(metrics.ResultError)
		return nil, fmt.Errorf("%w: read %s: %v", errs.ErrStorageUnavailable, f.StorageKey, err)
	}

	s.rec.Download(metrics.ResultSuccess)
	ct := info.ContentType
	if ct == "" {
		ct = f.ContentType
	}
	return &Download{File: f, Body: body, Size: info.Size, ContentType: ct}, nil
}

func (s *fileService) PresignDownload(ctx context.Context, principal int64, token string) (*PresignedURL, error) {
	f, err := s.resolveFile(ctx, principal, token)
	if err != nil {
		s.rec.Download(resultOf(err))
		return nil, err
	}
	ttl := s.minter.DefaultTTL()
	u, err := s.minter.Mint(ctx, f.StorageKey, ttl)
	if err != nil {
		s.rec.Download(metrics.ResultError)
		return nil, err
	}
	s.rec.Download(metrics.ResultSuccess)
	return &PresignedURL{URL: u, ExpiresIn: int(ttl.Seconds())}, nil
}

// resolveFile applies the client-role check and unseals token to a file record.
func (s *fileService) resolveFile(ctx context.Context, principal int64, token string) (*model.StoredFile, error) {
	if err := s.gate.Require(ctx, principal, model.RoleClient); err != nil {
		return nil, err
	}
	handle, err := s.codec.Unseal(token)
	if err != nil {
		return nil, err
	}
	f, err := s.files.FindByHandle(ctx, handle)
	if err != nil {
		return nil, unknownFile(err)
	}
	return f, nil
}

func unknownFile(err error) error {
	if errors.Is(err, errs.ErrNotFound) {
		return errs.NewFieldError(errs.ErrNotFound, "file_id", MsgInvalidID)
	}
	return fmt.Errorf("find file: %w", err)
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, errs.ErrAccessDenied):
		return metrics.ResultDenied
	case errors.Is(err, errs.ErrValidation),
		errors.Is(err, errs.ErrInvalidFileType),
		errors.Is(err, errs.ErrInvalidToken),
		errors.Is(err, errs.ErrNotFound):
		return metrics.ResultInvalid
	}
	return metrics.ResultError
}
