package enums

import "fmt"

// DocumentType categorizes downloadable documents.
type DocumentType string

const (
	DocumentTypeBrochure      DocumentType = "brochure"
	DocumentTypeDataSheet     DocumentType = "technical_data_sheet"
	DocumentTypeCertification DocumentType = "certification"
	DocumentTypeCaseStudy     DocumentType = "case_study"
	DocumentTypeOther         DocumentType = "other"
)

var validDocumentTypes = []DocumentType{
	DocumentTypeBrochure,
	DocumentTypeDataSheet,
	DocumentTypeCertification,
	DocumentTypeCaseStudy,
	DocumentTypeOther,
}

func (t DocumentType) String() string {
	return string(t)
}

func (t DocumentType) IsValid() bool {
	for _, candidate := range validDocumentTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseDocumentType converts raw input into a DocumentType.
func ParseDocumentType(value string) (DocumentType, error) {
	for _, candidate := range validDocumentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid document type %q", value)
}
