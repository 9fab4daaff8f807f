package server

import (
	"errors"
	"net/http"

	"github.com/stableex/sx.dmdvaults/internal/core/amm"
	"github.com/stableex/sx.dmdvaults/internal/core/asset"
	"github.com/stableex/sx.dmdvaults/internal/core/vault"
)

// Error codes returned in the "error" field of a failed response.
const (
	CodeInvalidParams     = "invalidParams"
	CodeUnknownMethod     = "unknownMethod"
	CodeUnknownVault      = "unknownVault"
	CodePairNotAvailable  = "pairNotAvailable"
	CodeInvalidAmount     = "invalidAmount"
	CodeInsufficientFunds = "insufficientLiquidity"
	CodeOverflow          = "amountOverflow"
	CodeMissingRow        = "missingLedgerRow"
	CodeInternal          = "internal"
)

// RPCError is a failure reported to a client. Status is the HTTP status
// used on the plain HTTP transport.
type RPCError struct {
	Code    string
	Message string
	Status  int
}

func (e *RPCError) Error() string {
	return e.Code + ": " + e.Message
}

func invalidParams(msg string) *RPCError {
	return &RPCError{Code: CodeInvalidParams, Message: msg, Status: http.StatusBadRequest}
}

// toRPCError classifies err. Caller mistakes map to 400, ledger rows the
// vault configuration depends on map to 422, and anything else is a 500.
func toRPCError(err error) *RPCError {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	switch {
	case errors.Is(err, vault.ErrUnknownVault):
		return &RPCError{Code: CodeUnknownVault, Message: err.Error(), Status: http.StatusBadRequest}
	case errors.Is(err, vault.ErrPairNotAvailable),
		errors.Is(err, asset.ErrSymbolMismatch),
		errors.Is(err, asset.ErrInvalidSymbolCode),
		errors.Is(err, asset.ErrInvalidPrecision):
		return &RPCError{Code: CodePairNotAvailable, Message: err.Error(), Status: http.StatusBadRequest}
	case errors.Is(err, amm.ErrInsufficientInputAmount),
		errors.Is(err, asset.ErrInvalidAsset):
		return &RPCError{Code: CodeInvalidAmount, Message: err.Error(), Status: http.StatusBadRequest}
	case errors.Is(err, asset.ErrNameTooLong), errors.Is(err, asset.ErrNameInvalidChar):
		return invalidParams(err.Error())
	case errors.Is(err, asset.ErrOverflow):
		return &RPCError{Code: CodeOverflow, Message: err.Error(), Status: http.StatusUnprocessableEntity}
	case errors.Is(err, amm.ErrInsufficientLiquidity):
		return &RPCError{Code: CodeInsufficientFunds, Message: err.Error(), Status: http.StatusUnprocessableEntity}
	case errors.Is(err, vault.ErrNoBackingRow), errors.Is(err, vault.ErrNoStakeRow):
		return &RPCError{Code: CodeMissingRow, Message: err.Error(), Status: http.StatusUnprocessableEntity}
	}
	return &RPCError{Code: CodeInternal, Message: err.Error(), Status: http.StatusInternalServerError}
}
