package errors

// MaxDimension caps width and depth accepted from untrusted input (HTTP
// requests, config files). The engine itself only requires positive values.
const MaxDimension = 4096

// ValidateDimensions checks that a grid of width rows per column and depth
// columns can be built.
func ValidateDimensions(width, depth int) error {
	if width <= 0 {
		return New(ErrCodeInvalidConfig, "width must be positive, got %d", width)
	}
	if depth <= 0 {
		return New(ErrCodeInvalidConfig, "depth must be positive, got %d", depth)
	}
	return nil
}

// ValidateBoundedDimensions is ValidateDimensions plus an upper bound of
// MaxDimension on each side.
func ValidateBoundedDimensions(width, depth int) error {
	if err := ValidateDimensions(width, depth); err != nil {
		return err
	}
	if width > MaxDimension || depth > MaxDimension {
		return New(ErrCodeInvalidConfig, "dimensions %dx%d exceed the maximum of %d", width, depth, MaxDimension)
	}
	return nil
}

// ValidateFormatName checks that name is a well-formed output format
// identifier: 1 to 16 lowercase letters or digits. It does not check that the
// format is supported.
func ValidateFormatName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if len(name) > 16 {
		return New(ErrCodeInvalidFormat, "format %q too long", name)
	}
	for _, r := range name {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') {
			return New(ErrCodeInvalidFormat, "format %q must be lowercase letters and digits", name)
		}
	}
	return nil
}
