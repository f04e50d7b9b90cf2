package spike

import (
	"errors"
	"fmt"
)

// ErrNotImplemented is returned by cohort variants that exist as
// planned modes but carry no logic yet.
var ErrNotImplemented = errors.New("not implemented")

// RunDuo is a stub for proband-plus-single-parent spiking.
func RunDuo() error {
	return fmt.Errorf("duo mode: %w", ErrNotImplemented)
}

// RunQuartet is a stub for two-sibling family spiking.
func RunQuartet() error {
	return fmt.Errorf("quartet mode: %w", ErrNotImplemented)
}

// RunPedigree is a stub for arbitrary multi-generation pedigree spiking.
func RunPedigree() error {
	return fmt.Errorf("pedigree mode: %w", ErrNotImplemented)
}
