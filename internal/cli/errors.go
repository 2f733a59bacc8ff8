package cli

import (
	"errors"

	"github.com/hatlabs/cockpit-package-manager/internal/ui"
	"github.com/hatlabs/cockpit-package-manager/pkg/packagekit"
)

var (
	// ErrNoService is returned when the package service cannot be reached.
	ErrNoService = errors.New("package service unavailable; is PackageKit running?")

	// ErrAborted is returned when the user aborts an operation.
	ErrAborted = errors.New("operation aborted by user")
)

// reportError prints a transaction failure in end-user terms. Known service
// error codes get a friendly rendering; anything else prints as-is.
func reportError(err error) error {
	if err == nil {
		return nil
	}
	if packagekit.IsCode(err, packagekit.ErrCancelled) {
		ui.WarningMsg("Operation cancelled")
		return err
	}
	ui.ErrorMsg("%s", packagekit.FriendlyMessage(err))
	return err
}
