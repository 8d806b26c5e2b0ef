package service

import (
	"io"
	"path"
	"strings"

	"github.com/go-playground/validator/v10"

	"docexchange/internal/errs"
)

var validate = validator.New()

// Caller-facing messages.
const (
	MsgRequired          = "This field is required."
	MsgNoFile            = "No file was submitted."
	MsgInvalidFileType   = "Invalid file type. Only pptx, docx, and xlsx files are allowed."
	MsgInvalidID         = "Id Does Not Exist"
	MsgAlreadyVerified   = "already exist this email"
	MsgInvalidEmail      = "Enter a valid email address."
	MsgPasswordMismatch  = "Password fields didn't match."
	MsgInvalidCredential = "Unable to log in with provided credentials."
)

// AllowedExtensions lists the accepted upload extensions, lower-case.
var AllowedExtensions = []string{"pptx", "docx", "xlsx"}

// UploadInput is a file submitted for upload. Filename is the name of the
// uploaded content and is the only source of the stored extension.
type UploadInput struct {
	DisplayName string
	Filename    string
	Content     io.Reader
	Size        int64
	ContentType string
}

// ValidateUpload checks in before anything is persisted and returns the
// normalized extension.
func ValidateUpload(in UploadInput) (string, error) {
	fields := map[string]string{}
	if strings.TrimSpace(in.DisplayName) == "" {
		fields["file_name"] = MsgRequired
	}
	if in.Content == nil || in.Filename == "" {
		fields["file_content"] = MsgNoFile
	}
	if len(fields) > 0 {
		return "", errs.Validation(fields)
	}

	ext := FileExtension(in.Filename)
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return ext, nil
		}
	}
	return "", errs.NewFieldError(errs.ErrInvalidFileType, "file_type", MsgInvalidFileType)
}

// FileExtension returns the lower-cased extension of name without the dot.
func FileExtension(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(path.Base(name)), "."))
}

// RegisterInput is an account registration request.
type RegisterInput struct {
	Email     string
	Password  string
	Password1 string
	FirstName string
	LastName  string
}

// ValidateRegister checks a registration request.
func ValidateRegister(in RegisterInput) error {
	fields := map[string]string{}
	required := map[string]string{
		"email":      in.Email,
		"password":   in.Password,
		"password1":  in.Password1,
		"first_name": in.FirstName,
		"last_name":  in.LastName,
	}
	for k, v := range required {
		if strings.TrimSpace(v) == "" {
			fields[k] = MsgRequired
		}
	}
	if _, ok := fields["email"]; !ok {
		if err := validate.Var(in.Email, "email"); err != nil {
			fields["email"] = MsgInvalidEmail
		}
	}
	if in.Password != "" && in.Password1 != "" && in.Password != in.Password1 {
		fields["password"] = MsgPasswordMismatch
	}
	if len(fields) > 0 {
		return errs.Validation(fields)
	}
	return nil
}
