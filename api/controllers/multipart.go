package controllers

import (
	"io"
	"mime/multipart"
	"strings"
)

// multipartFile adapts a multipart file header into the lazy-open shape the
// services consume.
type multipartFile struct {
	Filename    string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

func fileFromHeader(header *multipart.FileHeader) multipartFile {
	return multipartFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return header.Open()
		},
	}
}

// optionalFormValue distinguishes an absent key from an empty value.
func optionalFormValue(form *multipart.Form, key string) *string {
	if form == nil {
		return nil
	}
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := strings.TrimSpace(values[0])
	return &v
}

// formValueList gathers every value for key, splitting comma-separated
// entries and dropping empties.
func formValueList(form *multipart.Form, key string) []string {
	if form == nil {
		return nil
	}
	var out []string
	for _, raw := range form.Value[key] {
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

// optionalFormValueList reports whether key was sent at all, so handlers can
// tell "clear the list" apart from "leave it alone".
func optionalFormValueList(form *multipart.Form, key string) (*[]string, bool) {
	if form == nil {
		return nil, false
	}
	if _, ok := form.Value[key]; !ok {
		return nil, false
	}
	list := formValueList(form, key)
	if list == nil {
		list = []string{}
	}
	return &list, true
}
