package validators

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/geosynthix/catalog-backend/pkg/errors"
)

// ParseMultipart parses the request as a multipart form bounded by maxMB.
func ParseMultipart(r *http.Request, maxMB int) (*multipart.Form, error) {
	if maxMB <= 0 {
		maxMB = 25
	}
	if err := r.ParseMultipartForm(int64(maxMB) << 20); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form").
			WithDetails(map[string]any{"error": err.Error()})
	}
	return r.MultipartForm, nil
}

// FormValue returns the first trimmed value for key, or empty string.
func FormValue(form *multipart.Form, key string) string {
	if form == nil {
		return ""
	}
	values := form.Value[key]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

// FormValueBool parses a boolean form value; missing values are false.
func FormValueBool(form *multipart.Form, key string) bool {
	v := FormValue(form, key)
	if v == "" {
		return false
	}
	b, _ := strconv.ParseBool(v)
	return b
}

// FormFile returns the first file header for key, or nil when absent.
func FormFile(form *multipart.Form, key string) *multipart.FileHeader {
	if form == nil {
		return nil
	}
	files := form.File[key]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}
