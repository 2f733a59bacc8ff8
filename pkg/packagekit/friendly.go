package packagekit

var friendlyMessages = map[ErrorCode]string{
	ErrNotFound:                  "No package matches that name",
	ErrAlreadyInstalled:          "The package is already installed",
	ErrDepResolutionFailed:       "The package's dependencies could not be resolved",
	ErrCannotRemoveSystemPackage: "The package is required by the system and cannot be removed",
	ErrNoNetwork:                 "No network connection is available",
	ErrDownloadFailed:            "Downloading the package failed",
	ErrCancelled:                 "The operation was cancelled",
	ErrServiceUnavailable:        "The package service is not available",
}

// FriendlyMessage renders any error from this package as text suitable for
// direct display. Known codes get curated text with the service detail
// appended; everything else falls back to the raw error string.
func FriendlyMessage(err error) string {
	if err == nil {
		return ""
	}
	txErr, ok := AsTransactionError(err)
	if !ok {
		return err.Error()
	}
	msg, ok := friendlyMessages[txErr.Code]
	if !ok {
		if txErr.Detail != "" {
			return txErr.Detail
		}
		return txErr.Error()
	}
	if txErr.Detail != "" {
		return msg + " (" + txErr.Detail + ")"
	}
	return msg
}
