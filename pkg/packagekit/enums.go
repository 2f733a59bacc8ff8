package packagekit

// Filter is a bitwise OR of server-side query constraint flags. Only the
// documented bit positions below are defined by this client; any other bits
// set by a caller are passed through to the service verbatim.
type Filter uint64

const (
	FilterNone         Filter = 0
	FilterInstalled    Filter = 1 << 2  // only installed packages
	FilterNotInstalled Filter = 1 << 3  // only available packages
	FilterNewest       Filter = 1 << 16 // only the newest version of each package
	FilterArch         Filter = 1 << 18 // only the native architecture
	FilterNotSource    Filter = 1 << 21 // exclude source packages
)

// searchFilter is the constraint set used for all browse and search queries:
// native architecture, binary packages, newest version only.
const searchFilter = FilterArch | FilterNotSource | FilterNewest

// TransactionFlags modify how the service carries out an install or remove.
type TransactionFlags uint64

const TransactionFlagNone TransactionFlags = 0

// Status is the coarse phase a running transaction reports through its
// Status property.
type Status uint32

const (
	StatusUnknown Status = 0
	StatusWait    Status = 1
	StatusSetup   Status = 2
	StatusRunning Status = 3
	StatusQuery   Status = 4

	// StatusWaitingForLock means another privileged client holds the package
	// database lock and the transaction is queued behind it.
	StatusWaitingForLock Status = 30
)

// ExitCode is the terminal result carried by the Finished signal.
type ExitCode uint32

const (
	ExitUnknown   ExitCode = 0
	ExitSuccess   ExitCode = 1
	ExitFailed    ExitCode = 2
	ExitCancelled ExitCode = 3
)

// Info classifies a package reported by a Package discovery signal.
type Info uint32

const (
	InfoUnknown   Info = 0
	InfoInstalled Info = 1
	InfoAvailable Info = 2
)

// WireError is the numeric error class carried by the ErrorCode signal. The
// values are fixed by the service's PkErrorEnum; they must never be
// renumbered, only appended to.
type WireError uint32

const (
	WireErrorUnknown                   WireError = 0
	WireErrorOOM                       WireError = 1
	WireErrorNoNetwork                 WireError = 2
	WireErrorNotSupported              WireError = 3
	WireErrorInternal                  WireError = 4
	WireErrorGPGFailure                WireError = 5
	WireErrorPackageIDInvalid          WireError = 6
	WireErrorPackageNotInstalled       WireError = 7
	WireErrorPackageNotFound           WireError = 8
	WireErrorPackageAlreadyInstalled   WireError = 9
	WireErrorPackageDownloadFailed     WireError = 10
	WireErrorGroupNotFound             WireError = 11
	WireErrorGroupListInvalid          WireError = 12
	WireErrorDepResolutionFailed       WireError = 13
	WireErrorFilterInvalid             WireError = 14
	WireErrorCreateThreadFailed        WireError = 15
	WireErrorTransactionError          WireError = 16
	WireErrorTransactionCancelled      WireError = 17
	WireErrorNoCache                   WireError = 18
	WireErrorRepoNotFound              WireError = 19
	WireErrorCannotRemoveSystemPackage WireError = 20
)
