package enums

import "fmt"

// QuoteProduct identifies a product line a quote can request.
type QuoteProduct string

const (
	QuoteProductBitumen   QuoteProduct = "bitumen"
	QuoteProductGabion    QuoteProduct = "gabion"
	QuoteProductConstruct QuoteProduct = "construct"
)

var validQuoteProducts = []QuoteProduct{
	QuoteProductBitumen,
	QuoteProductGabion,
	QuoteProductConstruct,
}

func (p QuoteProduct) String() string {
	return string(p)
}

func (p QuoteProduct) IsValid() bool {
	for _, candidate := range validQuoteProducts {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseQuoteProduct converts raw input into a QuoteProduct.
func ParseQuoteProduct(value string) (QuoteProduct, error) {
	for _, candidate := range validQuoteProducts {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quote product %q", value)
}

// QuoteStatus tracks the quote request lifecycle.
type QuoteStatus string

const (
	QuoteStatusNew        QuoteStatus = "new"
	QuoteStatusInProgress QuoteStatus = "in_progress"
	QuoteStatusQuoted     QuoteStatus = "quoted"
	QuoteStatusClosed     QuoteStatus = "closed"
)

var validQuoteStatuses = []QuoteStatus{
	QuoteStatusNew,
	QuoteStatusInProgress,
	QuoteStatusQuoted,
	QuoteStatusClosed,
}

func (s QuoteStatus) String() string {
	return string(s)
}

func (s QuoteStatus) IsValid() bool {
	for _, candidate := range validQuoteStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseQuoteStatus converts raw input into a QuoteStatus.
func ParseQuoteStatus(value string) (QuoteStatus, error) {
	for _, candidate := range validQuoteStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quote status %q", value)
}
