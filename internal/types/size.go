package types

import (
	ierr "github.com/octavehouse/storefront/internal/errors"
)

// Size is a garment size within a model
type Size string

const (
	SizeXS Size = "XS"
	SizeS  Size = "S"
	SizeM  Size = "M"
	SizeL  Size = "L"
	SizeXL Size = "XL"
)

// AllSizes returns every sellable size in display order
func AllSizes() []Size {
	return []Size{SizeXS, SizeS, SizeM, SizeL, SizeXL}
}

func (s Size) String() string {
	return string(s)
}

func (s Size) Validate() error {
	for _, size := range AllSizes() {
		if s == size {
			return nil
		}
	}
	return ierr.NewError("invalid size").
		WithHintf("Size must be one of %v", AllSizes()).
		Mark(ierr.ErrValidation)
}
