package errs

// Registered machine codes, grouped by category.
const (
	// list
	CodeListMaxItems       = "LIST_MAX_ITEMS"
	CodeListCategoryFull   = "LIST_CATEGORY_FULL"
	CodeListUnknownCat     = "LIST_UNKNOWN_CATEGORY"
	CodeListItemNotFound   = "LIST_ITEM_NOT_FOUND"
	CodeListNotFound       = "LIST_NOT_FOUND"
	CodeListInvalidSource  = "LIST_INVALID_SOURCE"

	// validation
	CodeValidationFailed = "VALIDATION_FAILED"

	// auth
	CodeAuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	CodeAuthRateLimited        = "AUTH_RATE_LIMITED"
	CodeAuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	CodeAuthEmailInUse         = "AUTH_EMAIL_IN_USE"

	// image
	CodeImageUploadDisabled = "IMAGE_UPLOAD_DISABLED"
	CodeImageLimitReached   = "IMAGE_LIMIT_REACHED"

	// database
	CodeDatabaseWrite    = "DATABASE_WRITE_FAILED"
	CodeDatabaseRead     = "DATABASE_READ_FAILED"
	CodeDatabaseNotFound = "DATABASE_NOT_FOUND"

	// storage
	CodeStorageUpload = "STORAGE_UPLOAD_FAILED"
	CodeStorageDelete = "STORAGE_DELETE_FAILED"

	// network
	CodeNetworkUnavailable = "NETWORK_UNAVAILABLE"

	// location
	CodeLocationNoResults = "LOCATION_NO_RESULTS"
	CodeLocationFailed    = "LOCATION_FAILED"

	// portal
	CodePortalExists        = "PORTAL_EXISTS"
	CodePortalNotFound      = "PORTAL_NOT_FOUND"
	CodePortalStepNotFound  = "PORTAL_STEP_NOT_FOUND"
	CodePortalStepFinalized = "PORTAL_STEP_FINALIZED"
	CodePortalLinkFailed    = "PORTAL_LINK_FAILED"

	// generic
	CodeUnknown = "UNKNOWN_ERROR"
)

var registry = map[string]Descriptor{
	CodeListMaxItems: {
		Code: CodeListMaxItems, Category: CategoryList,
		DevMessage:  "list already holds the maximum number of items",
		UserMessage: "This list is full. Remove some items before adding more.",
	},
	CodeListCategoryFull: {
		Code: CodeListCategoryFull, Category: CategoryList,
		DevMessage:  "maximum items per category reached",
		UserMessage: "This category is full. Remove some items before adding more.",
	},
	CodeListUnknownCat: {
		Code: CodeListUnknownCat, Category: CategoryList,
		DevMessage:  "item references a category that does not exist on the list",
		UserMessage: "That category no longer exists.",
	},
	CodeListItemNotFound: {
		Code: CodeListItemNotFound, Category: CategoryList,
		DevMessage:  "no item with the given id exists on the list",
		UserMessage: "That item no longer exists.",
	},
	CodeListNotFound: {
		Code: CodeListNotFound, Category: CategoryList,
		DevMessage:  "list does not exist",
		UserMessage: "This list could not be found.",
	},
	CodeListInvalidSource: {
		Code: CodeListInvalidSource, Category: CategoryList,
		DevMessage:  "source list failed schema validation",
		UserMessage: "The template for this list is invalid.",
	},
	CodeValidationFailed: {
		Code: CodeValidationFailed, Category: CategoryValidation,
		DevMessage:  "input failed validation",
		UserMessage: "Something about that input doesn't look right.",
	},
	CodeAuthInvalidCredentials: {
		Code: CodeAuthInvalidCredentials, Category: CategoryAuth,
		DevMessage:  "email/password combination rejected",
		UserMessage: "Incorrect email or password.",
	},
	CodeAuthRateLimited: {
		Code: CodeAuthRateLimited, Category: CategoryAuth,
		DevMessage:  "too many attempts for this key within the cooldown window",
		UserMessage: "Too many attempts. Please wait a moment and try again.",
		Retryable:   true,
	},
	CodeAuthTokenInvalid: {
		Code: CodeAuthTokenInvalid, Category: CategoryAuth,
		DevMessage:  "access or refresh token invalid or expired",
		UserMessage: "Your session has expired. Please sign in again.",
	},
	CodeAuthEmailInUse: {
		Code: CodeAuthEmailInUse, Category: CategoryAuth,
		DevMessage:  "registration email already registered",
		UserMessage: "That email is already in use.",
	},
	CodeImageUploadDisabled: {
		Code: CodeImageUploadDisabled, Category: CategoryImage,
		DevMessage:  "image uploads are not available on this plan",
		UserMessage: "Image uploads aren't available on your plan.",
	},
	CodeImageLimitReached: {
		Code: CodeImageLimitReached, Category: CategoryImage,
		DevMessage:  "per-request or total image limit reached for this plan",
		UserMessage: "You've reached your image upload limit.",
	},
	CodeDatabaseWrite: {
		Code: CodeDatabaseWrite, Category: CategoryDatabase,
		DevMessage:  "database write failed",
		UserMessage: "We couldn't save your changes. Please try again.",
		Retryable:   true,
	},
	CodeDatabaseRead: {
		Code: CodeDatabaseRead, Category: CategoryDatabase,
		DevMessage:  "database read failed",
		UserMessage: "We couldn't load your data. Please try again.",
		Retryable:   true,
	},
	CodeDatabaseNotFound: {
		Code: CodeDatabaseNotFound, Category: CategoryDatabase,
		DevMessage:  "requested row does not exist",
		UserMessage: "That item could not be found.",
	},
	CodeStorageUpload: {
		Code: CodeStorageUpload, Category: CategoryStorage,
		DevMessage:  "blob upload failed",
		UserMessage: "Upload failed. Please try again.",
		Retryable:   true,
	},
	CodeStorageDelete: {
		Code: CodeStorageDelete, Category: CategoryStorage,
		DevMessage:  "blob delete failed",
		UserMessage: "We couldn't remove that file. Please try again.",
		Retryable:   true,
	},
	CodeNetworkUnavailable: {
		Code: CodeNetworkUnavailable, Category: CategoryNetwork,
		DevMessage:  "transport-level failure talking to a remote service",
		UserMessage: "Connection problem. Check your network and try again.",
		Retryable:   true,
	},
	CodeLocationNoResults: {
		Code: CodeLocationNoResults, Category: CategoryLocation,
		DevMessage:  "geocoder returned zero results for the address",
		UserMessage: "We couldn't find that address.",
	},
	CodeLocationFailed: {
		Code: CodeLocationFailed, Category: CategoryLocation,
		DevMessage:  "geocoding request failed",
		UserMessage: "We couldn't look up that address right now.",
		Retryable:   true,
	},
	CodePortalExists: {
		Code: CodePortalExists, Category: CategoryPortal,
		DevMessage:  "a portal already exists for this project",
		UserMessage: "A client portal is already set up for this project.",
	},
	CodePortalNotFound: {
		Code: CodePortalNotFound, Category: CategoryPortal,
		DevMessage:  "portal does not exist",
		UserMessage: "This portal could not be found.",
	},
	CodePortalStepNotFound: {
		Code: CodePortalStepNotFound, Category: CategoryPortal,
		DevMessage:  "no step with the given id exists on the portal",
		UserMessage: "That step could not be found.",
	},
	CodePortalStepFinalized: {
		Code: CodePortalStepFinalized, Category: CategoryPortal,
		DevMessage:  "step is already finalized",
		UserMessage: "This step has already been completed.",
	},
	CodePortalLinkFailed: {
		Code: CodePortalLinkFailed, Category: CategoryPortal,
		DevMessage:  "remote callable for portal link failed",
		UserMessage: "We couldn't update the portal link. Please try again.",
		Retryable:   true,
	},
	CodeUnknown: {
		Code: CodeUnknown, Category: CategoryGeneric,
		DevMessage:  "unclassified error",
		UserMessage: "Something went wrong.",
	},
}
