package util

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Normalize clamps a requested page/size pair and returns the values
// actually used plus the row offset.
func Normalize(page, size int) (normPage, normSize, offset int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return page, size, (page - 1) * size
}
