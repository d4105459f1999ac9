package validators

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"github.com/angelmondragon/storefront-admin/pkg/storage"
	"github.com/gabriel-vasile/mimetype"
)

// multipartMemory is how much of a form is buffered before spilling to disk.
const multipartMemory = 8 << 20

var imageTypes = []string{"image/png", "image/jpeg", "image/webp", "image/gif"}

var errNotImage = errors.New("must be an image (png, jpeg, webp or gif)")

// IsMultipart reports whether r carries a multipart/form-data body.
func IsMultipart(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data")
}

// MaxFormFiles is how many max-size files one form body may carry.
const MaxFormFiles = 10

// BodyAllowance is the whole-body ceiling for a form carrying maxBytes of
// files.
func BodyAllowance(maxBytes int64) int64 {
	return maxBytes + multipartMemory
}

// ParseMultipart parses the form, limiting the whole body to maxBytes plus
// room for the text fields.
func ParseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, BodyAllowance(maxBytes))
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return pkgerrors.New(pkgerrors.CodeTooLarge, "request body too large")
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body").
			WithDetails(map[string]string{"body": "must be a valid multipart form"})
	}
	return nil
}

// ImageUpload checks fh against the size limit and sniffs its content. The
// returned upload carries the detected MIME type rather than the client's.
func ImageUpload(fh *multipart.FileHeader, maxBytes int64) (storage.Upload, error) {
	if fh == nil {
		return storage.Upload{}, errors.New("is required")
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return storage.Upload{}, fmt.Errorf("may not be greater than %d kilobytes", maxBytes/1024)
	}
	f, err := fh.Open()
	if err != nil {
		return storage.Upload{}, errors.New("could not be read")
	}
	defer f.Close()

	contentType, err := DetectImage(f)
	if err != nil {
		return storage.Upload{}, err
	}
	return storage.Upload{
		Filename:    fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}, nil
}

// DetectImage sniffs r and returns its MIME type when it is an allowed image.
func DetectImage(r io.Reader) (string, error) {
	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return "", errors.New("could not be read")
	}
	if !mimetype.EqualsAny(mt.String(), imageTypes...) {
		return "", errNotImage
	}
	return mt.String(), nil
}
