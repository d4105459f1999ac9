package banners

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/angelmondragon/storefront-admin/api/validators"
	bannersvc "github.com/angelmondragon/storefront-admin/internal/banners"
	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"github.com/angelmondragon/storefront-admin/pkg/types"
)

var imageKeyRe = regexp.MustCompile(`^images\[(\d+)\]\[(file|url|is_active)\]$`)

// bannerForm is the flattened multipart payload shared by create and update.
type bannerForm struct {
	title      *string
	link       types.Nullable[string]
	isActive   *bool
	images     []bannersvc.ImageInput
	hasImages  bool
	fieldError map[string]string
}

func decodeCreate(maxBytes int64) func(http.ResponseWriter, *http.Request) (bannersvc.CreateInput, error) {
	return func(w http.ResponseWriter, r *http.Request) (bannersvc.CreateInput, error) {
		var in bannersvc.CreateInput
		if !validators.IsMultipart(r) {
			err := validators.DecodeJSONBody(r, &in)
			return in, err
		}
		form, err := parseForm(w, r, maxBytes)
		if err != nil {
			return in, err
		}
		in = bannersvc.CreateInput{
			Title:    form.title,
			Link:     form.link.Value,
			IsActive: form.isActive,
			Images:   form.images,
		}
		return in, form.validate(&in)
	}
}

func decodeUpdate(maxBytes int64) func(http.ResponseWriter, *http.Request) (bannersvc.UpdateInput, error) {
	return func(w http.ResponseWriter, r *http.Request) (bannersvc.UpdateInput, error) {
		var in bannersvc.UpdateInput
		if !validators.IsMultipart(r) {
			err := validators.DecodeJSONBody(r, &in)
			return in, err
		}
		form, err := parseForm(w, r, maxBytes)
		if err != nil {
			return in, err
		}
		in = bannersvc.UpdateInput{
			Title:    form.title,
			Link:     form.link,
			IsActive: form.isActive,
		}
		if form.hasImages {
			images := form.images
			in.Images = &images
		}
		return in, form.validate(&in)
	}
}

// validate merges form-level errors with the struct rules of in.
func (f *bannerForm) validate(in any) error {
	details := map[string]string{}
	if err := validators.ValidateStruct(in); err != nil {
		typed := pkgerrors.As(err)
		fields, ok := typed.Details().(map[string]string)
		if !ok {
			return err
		}
		for k, v := range fields {
			details[k] = v
		}
	}
	for k, v := range f.fieldError {
		details[k] = v
	}
	if len(details) > 0 {
		return pkgerrors.Invalid(details)
	}
	return nil
}

// parseForm reads title, link, is_active and images[N][file|url|is_active].
// Empty strings read as absent, except link where an empty value clears it.
func parseForm(w http.ResponseWriter, r *http.Request, maxBytes int64) (*bannerForm, error) {
	if err := validators.ParseMultipart(w, r, maxBytes*validators.MaxFormFiles); err != nil {
		return nil, err
	}
	form := &bannerForm{fieldError: map[string]string{}}
	values := r.MultipartForm.Value

	if v, ok := first(values, "title"); ok && strings.TrimSpace(v) != "" {
		form.title = &v
	}
	if v, ok := first(values, "link"); ok {
		form.link.Present = true
		if strings.TrimSpace(v) != "" {
			form.link.Value = &v
		}
	}
	if v, ok := first(values, "is_active"); ok && strings.TrimSpace(v) != "" {
		form.isActive = form.boolField("is_active", v)
	}

	byIndex := map[int]*bannersvc.ImageInput{}
	entry := func(i int) *bannersvc.ImageInput {
		if byIndex[i] == nil {
			byIndex[i] = &bannersvc.ImageInput{}
		}
		return byIndex[i]
	}
	for key, vals := range values {
		m := imageKeyRe.FindStringSubmatch(key)
		if m == nil || len(vals) == 0 {
			continue
		}
		form.hasImages = true
		i, _ := strconv.Atoi(m[1])
		v := vals[0]
		switch m[2] {
		case "url":
			if strings.TrimSpace(v) != "" {
				entry(i).URL = &v
			} else {
				entry(i)
			}
		case "is_active":
			e := entry(i)
			if strings.TrimSpace(v) != "" {
				e.IsActive = form.boolField(fmt.Sprintf("images.%d.is_active", i), v)
			}
		}
	}
	for key, headers := range r.MultipartForm.File {
		m := imageKeyRe.FindStringSubmatch(key)
		if m == nil || m[2] != "file" || len(headers) == 0 {
			continue
		}
		form.hasImages = true
		i, _ := strconv.Atoi(m[1])
		form.attachFile(entry(i), i, headers[0], maxBytes)
	}
	if _, ok := values["images"]; ok {
		form.hasImages = true
	}

	indexes := make([]int, 0, len(byIndex))
	for i := range byIndex {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	form.images = make([]bannersvc.ImageInput, 0, len(indexes))
	for _, i := range indexes {
		form.images = append(form.images, *byIndex[i])
	}
	return form, nil
}

func (f *bannerForm) attachFile(e *bannersvc.ImageInput, i int, fh *multipart.FileHeader, maxBytes int64) {
	upload, err := validators.ImageUpload(fh, maxBytes)
	if err != nil {
		f.fieldError[fmt.Sprintf("images.%d.file", i)] = err.Error()
		return
	}
	e.File = &upload
}

func (f *bannerForm) boolField(field, raw string) *bool {
	b, ok := validators.ParseBool(raw)
	if !ok {
		f.fieldError[field] = "must be true or false"
		return nil
	}
	return &b
}

func first(values map[string][]string, key string) (string, bool) {
	vals, ok := values[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}
