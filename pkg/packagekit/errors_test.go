package packagekit

import (
	"context"
	"testing"
)

// The service assigns these numbers in its PkErrorEnum; a client that shifts
// them misclassifies every error after the gap. Pin them.
func TestWireErrorValues(t *testing.T) {
	values := map[WireError]uint32{
		WireErrorUnknown:                   0,
		WireErrorOOM:                       1,
		WireErrorNoNetwork:                 2,
		WireErrorNotSupported:              3,
		WireErrorInternal:                  4,
		WireErrorGPGFailure:                5,
		WireErrorPackageIDInvalid:          6,
		WireErrorPackageNotInstalled:       7,
		WireErrorPackageNotFound:           8,
		WireErrorPackageAlreadyInstalled:   9,
		WireErrorPackageDownloadFailed:     10,
		WireErrorGroupNotFound:             11,
		WireErrorGroupListInvalid:          12,
		WireErrorDepResolutionFailed:       13,
		WireErrorFilterInvalid:             14,
		WireErrorCreateThreadFailed:        15,
		WireErrorTransactionError:          16,
		WireErrorTransactionCancelled:      17,
		WireErrorNoCache:                   18,
		WireErrorRepoNotFound:              19,
		WireErrorCannotRemoveSystemPackage: 20,
	}

	for we, want := range values {
		if uint32(we) != want {
			t.Errorf("wire error constant = %d, want %d", uint32(we), want)
		}
	}
}

func TestCodeFromWireNumeric(t *testing.T) {
	tests := []struct {
		name string
		wire uint32
		want ErrorCode
	}{
		{"no network", 2, ErrNoNetwork},
		{"not installed", 7, ErrNotFound},
		{"not found", 8, ErrNotFound},
		{"already installed", 9, ErrAlreadyInstalled},
		{"download failed", 10, ErrDownloadFailed},
		{"group not found", 11, ErrNotFound},
		{"dep resolution failed", 13, ErrDepResolutionFailed},
		{"transaction error", 16, ErrTransactionFailed},
		{"cancelled by service", 17, ErrCancelled},
		{"system package", 20, ErrCannotRemoveSystemPackage},
		{"internal error", 4, ErrTransactionFailed},
		{"unrecognized class", 999, ErrTransactionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := codeFromWire(WireError(tt.wire)); got != tt.want {
				t.Errorf("codeFromWire(%d) = %q, want %q", tt.wire, got, tt.want)
			}
		})
	}
}

// A service emitting raw numeric classes must come out of the transaction
// layer with the right domain code end to end.
func TestErrorClassificationFromRawWireCodes(t *testing.T) {
	tests := []struct {
		name string
		wire uint32
		want ErrorCode
	}{
		{"dep resolution failure", 13, ErrDepResolutionFailed},
		{"service-side cancel", 17, ErrCancelled},
		{"protected system package", 20, ErrCannotRemoveSystemPackage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := newFakeBus()
			bus.handle = func(path ObjectPath, method string, args []any) ([]any, error) {
				bus.emitError(path, WireError(tt.wire), "backend detail")
				bus.emitFinished(path, ExitFailed)
				return nil, nil
			}
			c := newTestClient(bus)

			_, err := c.RunTransaction(context.Background(), TransactionCall{
				Method: "InstallPackages",
				Args:   []any{uint64(TransactionFlagNone), []string{"vim;1;amd64;stable"}},
			})
			if !IsCode(err, tt.want) {
				t.Fatalf("got error %v, want code %q", err, tt.want)
			}
		})
	}
}
