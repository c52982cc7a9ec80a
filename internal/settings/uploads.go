package settings

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	dErrors "folio/pkg/domain-errors"
)

// MaxUploadBytes caps every asset upload.
const MaxUploadBytes = 10 << 20 // 10 MiB

// UploadKind identifies which site asset an upload replaces. Each kind has
// its own type check and deterministic target filename, so a new upload
// always replaces the previous asset.
type UploadKind string

const (
	UploadCV           UploadKind = "cv"
	UploadAvatar       UploadKind = "avatar"
	UploadModel        UploadKind = "3dmodel"
	UploadProfileImage UploadKind = "profile-image"
)

// imageExts lists the extensions an image upload may be stored under.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// validate rejects files whose content type or extension does not match the
// asset kind.
func (k UploadKind) validate(filename, contentType string) error {
	switch k {
	case UploadCV:
		if contentType != "application/pdf" {
			return dErrors.New(dErrors.CodeValidation, "cv must be a PDF")
		}
	case UploadAvatar, UploadProfileImage:
		if !strings.HasPrefix(contentType, "image/") {
			return dErrors.New(dErrors.CodeValidation, "file must be an image")
		}
		// The extension names the stored file, so it is checked
		// independently of the client-supplied content type.
		if !imageExts[strings.ToLower(filepath.Ext(filename))] {
			return dErrors.New(dErrors.CodeValidation, "image must be a .png, .jpg, .jpeg, or .webp file")
		}
	case UploadModel:
		if !strings.EqualFold(filepath.Ext(filename), ".glb") {
			return dErrors.New(dErrors.CodeValidation, "model must be a .glb file")
		}
	default:
		return dErrors.New(dErrors.CodeBadRequest, "unknown upload kind")
	}
	return nil
}

// targetName returns the filename the asset is stored under.
func (k UploadKind) targetName(original string) string {
	switch k {
	case UploadCV:
		return "cv.pdf"
	case UploadAvatar:
		return "avatar" + strings.ToLower(filepath.Ext(original))
	case UploadProfileImage:
		return "profile" + strings.ToLower(filepath.Ext(original))
	default:
		return "model.glb"
	}
}

// Uploader writes validated site assets into the upload directory.
type Uploader struct {
	dir string
}

func NewUploader(dir string) *Uploader {
	return &Uploader{dir: dir}
}

// Save validates and stores one uploaded asset, returning the stored filename.
func (u *Uploader) Save(kind UploadKind, filename, contentType string, r io.Reader) (string, error) {
	if err := kind.validate(filename, contentType); err != nil {
		return "", err
	}
	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to prepare upload directory")
	}

	target := kind.targetName(filename)
	f, err := os.Create(filepath.Join(u.dir, target))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to create upload file")
	}
	defer f.Close()

	// +1 so a stream exactly at the limit passes and one byte over fails.
	n, err := io.Copy(f, io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to write upload")
	}
	if n > MaxUploadBytes {
		_ = os.Remove(filepath.Join(u.dir, target))
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("file exceeds %d byte limit", MaxUploadBytes))
	}
	return target, nil
}
