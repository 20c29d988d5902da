package enums

import "fmt"

// InquiryPurpose captures why the customer reached out.
type InquiryPurpose string

const (
	InquiryPurposeProductInfo  InquiryPurpose = "product_information"
	InquiryPurposePricing      InquiryPurpose = "pricing"
	InquiryPurposePartnership  InquiryPurpose = "partnership"
	InquiryPurposeDistribution InquiryPurpose = "distribution"
	InquiryPurposeOther        InquiryPurpose = "other"
)

var validInquiryPurposes = []InquiryPurpose{
	InquiryPurposeProductInfo,
	InquiryPurposePricing,
	InquiryPurposePartnership,
	InquiryPurposeDistribution,
	InquiryPurposeOther,
}

func (p InquiryPurpose) String() string {
	return string(p)
}

func (p InquiryPurpose) IsValid() bool {
	for _, candidate := range validInquiryPurposes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseInquiryPurpose converts raw input into an InquiryPurpose.
func ParseInquiryPurpose(value string) (InquiryPurpose, error) {
	for _, candidate := range validInquiryPurposes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inquiry purpose %q", value)
}

// InquirySource records which channel produced the inquiry.
type InquirySource string

const (
	InquirySourceWebsite   InquirySource = "website"
	InquirySourceReferral  InquirySource = "referral"
	InquirySourceTradeShow InquirySource = "trade_show"
	InquirySourceSocial    InquirySource = "social_media"
	InquirySourceOther     InquirySource = "other"
)

var validInquirySources = []InquirySource{
	InquirySourceWebsite,
	InquirySourceReferral,
	InquirySourceTradeShow,
	InquirySourceSocial,
	InquirySourceOther,
}

func (s InquirySource) String() string {
	return string(s)
}

func (s InquirySource) IsValid() bool {
	for _, candidate := range validInquirySources {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseInquirySource converts raw input into an InquirySource.
func ParseInquirySource(value string) (InquirySource, error) {
	for _, candidate := range validInquirySources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inquiry source %q", value)
}

// InquiryStatus tracks the follow-up lifecycle.
type InquiryStatus string

const (
	InquiryStatusNew        InquiryStatus = "new"
	InquiryStatusInProgress InquiryStatus = "in_progress"
	InquiryStatusResolved   InquiryStatus = "resolved"
	InquiryStatusClosed     InquiryStatus = "closed"
)

var validInquiryStatuses = []InquiryStatus{
	InquiryStatusNew,
	InquiryStatusInProgress,
	InquiryStatusResolved,
	InquiryStatusClosed,
}

func (s InquiryStatus) String() string {
	return string(s)
}

func (s InquiryStatus) IsValid() bool {
	for _, candidate := range validInquiryStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseInquiryStatus converts raw input into an InquiryStatus.
func ParseInquiryStatus(value string) (InquiryStatus, error) {
	for _, candidate := range validInquiryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inquiry status %q", value)
}
