package rpcerrors

import (
	"testing"

	smithyerrors "github.com/smithy-lang/smithy-language-server-sub001/internal/errors"
)

func TestToRPCError_Nil(t *testing.T) {
	if ToRPCError(nil) != nil {
		t.Fatal("expected nil in, nil out")
	}
}

func TestToRPCError_RequestFailed(t *testing.T) {
	err := smithyerrors.NewRequestFailed("textDocument/rename", "cannot rename shape referenced in a jar", nil)
	rpcErr := ToRPCError(err)
	if rpcErr == nil {
		t.Fatal("expected a non-nil rpc error")
	}
}
