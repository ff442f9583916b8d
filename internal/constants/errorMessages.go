package constants

const (
	MsgInvalidCategory     = "item_type must be TOP or BOTTOM"
	MsgMissingImage        = "image file is required"
	MsgImageTooLarge       = "image exceeds the upload size limit"
	MsgInvalidItemID       = "item id must be a positive integer"
	MsgItemNotFound        = "wardrobe item not found"
	MsgUploadFailed        = "could not store the uploaded item"
	MsgListFailed          = "could not list wardrobe items"
	MsgDeleteFailed        = "could not delete wardrobe item"
	MsgSelectionsFailed    = "could not build outfit selections"
	MsgPaletteInvalidated  = "palette cache cleared"
	MsgUnauthorized        = "admin token required"
	MsgTooManyRequests     = "too many requests"
	MsgInternalServerError = "internal server error"
)
