// Package rpcerrors maps the server's internal error taxonomy to
// JSON-RPC/LSP error responses.
package rpcerrors

import (
	"errors"

	"go.lsp.dev/jsonrpc2"

	smithyerrors "github.com/smithy-lang/smithy-language-server-sub001/internal/errors"
)

// ToRPCError converts err into a jsonrpc2 error suitable for a handler to
// return from a request method. Unrecognized errors fall back to the
// generic internal-error code, with err's message as the response message.
func ToRPCError(err error) error {
	if err == nil {
		return nil
	}

	var reqFailed *smithyerrors.RequestFailed
	if errors.As(err, &reqFailed) {
		return jsonrpc2.NewError(jsonrpc2.InternalError, reqFailed.Error())
	}

	var cfgErr *smithyerrors.ConfigError
	if errors.As(err, &cfgErr) {
		return jsonrpc2.NewError(jsonrpc2.InvalidParams, cfgErr.Error())
	}

	var ioErr *smithyerrors.IOError
	if errors.As(err, &ioErr) {
		return jsonrpc2.NewError(jsonrpc2.InternalError, ioErr.Error())
	}

	return jsonrpc2.NewError(jsonrpc2.InternalError, err.Error())
}
