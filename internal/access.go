package internal

// ValidWidth returns true for the supported MMIO access widths (1, 2 or 4 bytes).
func ValidWidth(width int) bool {
	return width == 1 || width == 2 || width == 4
}

// Extract returns the little-endian byte or half-word slice of a 32-bit
// register word addressed by offset.
func Extract(word uint32, offset uint32, width int) (value uint32) {
	switch width {
	case 1:
		value = (word >> ((offset & 3) * 8)) & 0xff
	case 2:
		value = (word >> ((offset & 2) * 8)) & 0xffff
	case 4:
		value = word
	}

	return
}

// Insert replaces the little-endian byte or half-word slice of a 32-bit
// register word addressed by offset with value.
func Insert(word uint32, offset uint32, value uint32, width int) uint32 {
	switch width {
	case 1:
		shift := (offset & 3) * 8
		word = (word &^ (0xff << shift)) | ((value & 0xff) << shift)
	case 2:
		shift := (offset & 2) * 8
		word = (word &^ (0xffff << shift)) | ((value & 0xffff) << shift)
	case 4:
		word = value
	}

	return word
}
