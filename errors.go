// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package netwatcher

import "fmt"

// Kind categorizes an Error. The set of Kinds may grow in future
// releases; callers should not assume it is exhaustive.
type Kind int

const (
	KindUnknown Kind = iota
	KindCreateSocket
	KindBind
	KindCreatePipe
	KindGetifaddrs
	KindGetInterfaceName
	KindFormatMacAddress
	KindUnexpectedWindowsResult
	KindAddressNotAssociated
	KindInvalidParameter
	KindNotEnoughMemory
	KindInvalidHandle
	KindNoAndroidContext
	KindJNI
	KindIO
	KindUnsupportedPlatform
)

func (k Kind) String() string {
	switch k {
	case KindCreateSocket:
		return "CreateSocket"
	case KindBind:
		return "Bind"
	case KindCreatePipe:
		return "CreatePipe"
	case KindGetifaddrs:
		return "Getifaddrs"
	case KindGetInterfaceName:
		return "GetInterfaceName"
	case KindFormatMacAddress:
		return "FormatMacAddress"
	case KindUnexpectedWindowsResult:
		return "UnexpectedWindowsResult"
	case KindAddressNotAssociated:
		return "AddressNotAssociated"
	case KindInvalidParameter:
		return "InvalidParameter"
	case KindNotEnoughMemory:
		return "NotEnoughMemory"
	case KindInvalidHandle:
		return "InvalidHandle"
	case KindNoAndroidContext:
		return "NoAndroidContext"
	case KindJNI:
		return "Jni"
	case KindIO:
		return "Io"
	case KindUnsupportedPlatform:
		return "UnsupportedPlatform"
	default:
		return "Unknown"
	}
}

// Error is the error type returned by every exported netwatcher
// function. Msg carries a human-readable detail, Code carries the raw
// OS result code for KindUnexpectedWindowsResult, and Err carries a
// wrapped underlying error for KindIO.
type Error struct {
	Kind Kind
	Msg  string
	Code uint32
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindUnexpectedWindowsResult:
		return fmt.Sprintf("netwatcher: %s: code %d", e.Kind, e.Code)
	case e.Err != nil:
		return fmt.Sprintf("netwatcher: %s: %v", e.Kind, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("netwatcher: %s: %s", e.Kind, e.Msg)
	default:
		return fmt.Sprintf("netwatcher: %s", e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func errKind(k Kind, msg string) *Error { return &Error{Kind: k, Msg: msg} }

func errCreateSocket(msg string) *Error      { return errKind(KindCreateSocket, msg) }
func errBind(msg string) *Error              { return errKind(KindBind, msg) }
func errCreatePipe(msg string) *Error        { return errKind(KindCreatePipe, msg) }
func errGetifaddrs(msg string) *Error        { return errKind(KindGetifaddrs, msg) }
func errGetInterfaceName(msg string) *Error  { return errKind(KindGetInterfaceName, msg) }
func errFormatMacAddress() *Error            { return errKind(KindFormatMacAddress, "") }
func errAddressNotAssociated() *Error        { return errKind(KindAddressNotAssociated, "") }
func errInvalidParameter() *Error            { return errKind(KindInvalidParameter, "") }
func errNotEnoughMemory() *Error             { return errKind(KindNotEnoughMemory, "") }
func errInvalidHandle() *Error               { return errKind(KindInvalidHandle, "") }
func errNoAndroidContext() *Error            { return errKind(KindNoAndroidContext, "") }
func errJNI(msg string) *Error               { return errKind(KindJNI, msg) }
func errUnsupportedPlatform(goos string) *Error {
	return errKind(KindUnsupportedPlatform, goos)
}

func errUnexpectedWindowsResult(code uint32) *Error {
	return &Error{Kind: KindUnexpectedWindowsResult, Code: code}
}

func errIO(err error) *Error {
	return &Error{Kind: KindIO, Err: err}
}
