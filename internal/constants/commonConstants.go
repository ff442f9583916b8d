package constants

type (
	APIStatus   string
	CachePrefix string
	Role        string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixStylist CachePrefix = "stylist:"
	CacheKeyPalette    string      = "palette:snapshot"

	RoleAdmin Role = "admin"
)

// Colour derivation outcomes reported on upload.
const (
	ColourStatusOK           = "ok"
	ColourStatusDegraded     = "degraded"
	ColourStatusDecodeFailed = "decode_failed"
	ColourStatusNoMatch      = "no_match"
	ColourStatusFailed       = "failed"
)

const (
	ImageKeyPrefix = "wardrobe/"

	FormFieldImage    = "image"
	FormFieldItemType = "item_type"
)
