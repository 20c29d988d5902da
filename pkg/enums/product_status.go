package enums

import "fmt"

// ProductStatus represents the stock availability of a product.
type ProductStatus string

const (
	ProductStatusInStock      ProductStatus = "in_stock"
	ProductStatusLimitedStock ProductStatus = "limited_stock"
	ProductStatusOutOfStock   ProductStatus = "out_of_stock"
)

var validProductStatuses = []ProductStatus{
	ProductStatusInStock,
	ProductStatusLimitedStock,
	ProductStatusOutOfStock,
}

// String implements fmt.Stringer.
func (s ProductStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProductStatus.
func (s ProductStatus) IsValid() bool {
	for _, candidate := range validProductStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseProductStatus converts raw input into a ProductStatus.
func ParseProductStatus(value string) (ProductStatus, error) {
	for _, candidate := range validProductStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product status %q", value)
}
